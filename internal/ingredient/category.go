package ingredient

import "strings"

// Category is a display grouping derived from an ingredient name.
type Category string

const (
	MeatFish   Category = "Fleisch & Fisch"
	Vegetables Category = "Gemüse"
	Fruit      Category = "Obst"
	Dairy      Category = "Milchprodukte"
	Grains     Category = "Getreide & Nudeln"
	Spices     Category = "Gewürze & Saucen"
	Other      Category = "Sonstiges"
)

// Categories lists the closed category set, catch-all last.
var Categories = []Category{MeatFish, Vegetables, Fruit, Dairy, Grains, Spices, Other}

// Rule maps a category to the keywords that select it.
type Rule struct {
	Category Category
	Keywords []string
}

// DefaultRules returns the built-in keyword table in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{MeatFish, []string{
			"fleisch", "hähnchen", "huhn", "schwein", "rind", "hackfleisch",
			"fisch", "lachs", "thunfisch", "wurst", "schinken", "speck",
		}},
		{Vegetables, []string{
			"tomate", "gurke", "paprika", "zwiebel", "knoblauch", "karotte",
			"salat", "spinat", "brokkoli", "zucchini", "aubergine", "pilz",
			"champignon", "möhre", "kartoffel",
		}},
		{Fruit, []string{
			"apfel", "banane", "orange", "zitrone", "beere", "kirsch",
			"traube", "melone", "erdbeere",
		}},
		{Dairy, []string{
			"milch", "sahne", "joghurt", "käse", "butter", "quark",
			"schmand", "creme fraiche",
		}},
		{Grains, []string{
			"mehl", "brot", "nudel", "reis", "pasta", "spaghetti",
		}},
		{Spices, []string{
			"salz", "pfeffer", "gewürz", "paprikapulver", "curry",
			"sauce", "soße", "öl", "essig",
		}},
	}
}

// Categorizer assigns categories by substring keyword match. Rules are tested
// in order and the first matching rule wins.
type Categorizer struct {
	rules    []Rule
	fallback Category
}

// NewCategorizer copies rules (lower-casing keywords) so later changes to the
// argument do not affect the categorizer.
func NewCategorizer(rules []Rule, fallback Category) *Categorizer {
	copied := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		copied = append(copied, Rule{Category: r.Category, Keywords: kws})
	}
	return &Categorizer{rules: copied, fallback: fallback}
}

// DefaultCategorizer uses DefaultRules with Other as the fallback.
func DefaultCategorizer() *Categorizer {
	return NewCategorizer(DefaultRules(), Other)
}

// Categorize returns the category for an ingredient name.
func (c *Categorizer) Categorize(name string) Category {
	lower := strings.ToLower(name)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Category
			}
		}
	}
	return c.fallback
}
