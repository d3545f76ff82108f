package clipper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/recipe"
	"recipe-shopper/internal/validation"
)

// DefaultServings is used when a page does not state a yield.
const DefaultServings = 4

// ErrNoRecipe is returned when a page carries no recognizable recipe.
var ErrNoRecipe = errors.New("no recipe found on page")

var (
	disallowedNameChars = regexp.MustCompile(`[^a-zA-ZäöüßÄÖÜ0-9\s\-.,!?()]`)
	firstNumber         = regexp.MustCompile(`\d+`)
	ingredientsHeading  = regexp.MustCompile(`(?i)zutaten|ingredients`)
	stepsHeading        = regexp.MustCompile(`(?i)zubereitung|anleitung|instructions|directions|method`)
	servingsHint        = regexp.MustCompile(`(?i)\d+\s*(portion|person|serving)`)
)

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	client    *http.Client
	validator *validation.Validator
	logger    *zap.Logger
}

// Result is an imported recipe plus the ingredient lines that could not be
// parsed.
type Result struct {
	Recipe  recipe.Recipe
	Skipped []string
}

// scraped is the raw recipe data found on a page.
type scraped struct {
	Name         string
	Yield        string
	Ingredients  []string
	Instructions []string
}

// NewClipper creates a new Clipper instance.
func NewClipper(v *validation.Validator, logger *zap.Logger) *Clipper {
	return &Clipper{
		client:    &http.Client{Timeout: 15 * time.Second},
		validator: v,
		logger:    logger,
	}
}

// ClipURL fetches the URL and converts its recipe into a validated recipe.
// The recipe is not saved.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*Result, error) {
	doc, err := c.fetchDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	return c.clipDocument(doc, "", url)
}

// ClipHTML converts already fetched HTML, such as a blog post body. title is
// used when the markup does not name the recipe.
func (c *Clipper) ClipHTML(page, title, sourceURL string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return c.clipDocument(doc, title, sourceURL)
}

// clipDocument tries schema.org JSON-LD, then microdata, then a plain
// ingredient list under a heading.
func (c *Clipper) clipDocument(doc *goquery.Document, title, sourceURL string) (*Result, error) {
	data, ok := extractJSONLD(doc)
	if !ok {
		data, ok = extractMicrodata(doc)
	}
	if !ok {
		data, ok = extractHeadedLists(doc)
	}
	if !ok {
		return nil, ErrNoRecipe
	}
	if data.Name == "" {
		data.Name = normalize(title)
	}

	res, err := c.toRecipe(data, sourceURL)
	if err != nil {
		return nil, err
	}
	if len(res.Skipped) > 0 {
		c.logger.Info("skipped unparseable ingredient lines",
			zap.String("url", sourceURL), zap.Strings("lines", res.Skipped))
	}
	return res, nil
}

func (c *Clipper) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func (c *Clipper) toRecipe(data scraped, sourceURL string) (*Result, error) {
	res := &Result{}
	limits := c.validator.Limits()

	var entries []ingredient.Entry
	for _, line := range data.Ingredients {
		if len(entries) == limits.MaxIngredients {
			res.Skipped = append(res.Skipped, line)
			continue
		}
		e, err := c.validator.ParseIngredientLine(line)
		if err != nil {
			res.Skipped = append(res.Skipped, line)
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: none of %d ingredient lines could be parsed", validation.ErrInvalid, len(data.Ingredients))
	}

	instructions := strings.Join(data.Instructions, "\n")
	if runes := []rune(instructions); len(runes) > limits.MaxInstructionsLength {
		instructions = string(runes[:limits.MaxInstructionsLength])
	}

	name := normalize(disallowedNameChars.ReplaceAllString(data.Name, " "))
	if runes := []rune(name); len(runes) > limits.MaxRecipeNameLength {
		name = strings.TrimSpace(string(runes[:limits.MaxRecipeNameLength]))
	}

	rec, err := c.validator.ValidateRecipe(recipe.Recipe{
		ID:           recipe.NewID(),
		Name:         name,
		Servings:     parseServings(data.Yield, limits),
		Ingredients:  entries,
		Instructions: instructions,
		SourceURL:    sourceURL,
	})
	if err != nil {
		return nil, fmt.Errorf("imported recipe is invalid: %w", err)
	}
	res.Recipe = rec
	return res, nil
}

// parseServings takes the first number of a yield text like "4 Portionen".
func parseServings(yield string, limits validation.Limits) int {
	m := firstNumber.FindString(yield)
	if m == "" {
		return DefaultServings
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < limits.MinServings {
		return DefaultServings
	}
	return min(n, limits.MaxServings)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

func extractJSONLD(doc *goquery.Document) (scraped, bool) {
	var found scraped
	ok := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var v any
		if err := json.Unmarshal([]byte(s.Text()), &v); err != nil {
			return true
		}
		if node := findRecipeNode(v); node != nil {
			found = fromSchemaNode(node)
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// findRecipeNode walks arrays and @graph containers looking for an object
// whose @type is or includes "Recipe".
func findRecipeNode(v any) map[string]any {
	switch node := v.(type) {
	case []any:
		for _, child := range node {
			if r := findRecipeNode(child); r != nil {
				return r
			}
		}
	case map[string]any:
		if isRecipeType(node["@type"]) {
			return node
		}
		if graph, ok := node["@graph"]; ok {
			return findRecipeNode(graph)
		}
	}
	return nil
}

func isRecipeType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Recipe"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Recipe" {
				return true
			}
		}
	}
	return false
}

func fromSchemaNode(node map[string]any) scraped {
	data := scraped{
		Name:  normalize(stringOf(node["name"])),
		Yield: yieldOf(node["recipeYield"]),
	}
	ingredients := node["recipeIngredient"]
	if ingredients == nil {
		ingredients = node["ingredients"]
	}
	for _, line := range stringsOf(ingredients) {
		if line = normalize(line); line != "" {
			data.Ingredients = append(data.Ingredients, line)
		}
	}
	data.Instructions = instructionsOf(node["recipeInstructions"])
	return data
}

func stringOf(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}

func stringsOf(v any) []string {
	switch list := v.(type) {
	case string:
		return []string{list}
	case []any:
		var out []string
		for _, item := range list {
			if s := stringOf(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// yieldOf prefers the first yield entry that contains a number.
func yieldOf(v any) string {
	for _, s := range stringsOf(v) {
		if firstNumber.MatchString(s) {
			return s
		}
	}
	return ""
}

// instructionsOf flattens text, HowToStep and HowToSection values.
func instructionsOf(v any) []string {
	var steps []string
	switch node := v.(type) {
	case string:
		for _, line := range strings.Split(html.UnescapeString(node), "\n") {
			if line = normalize(line); line != "" {
				steps = append(steps, line)
			}
		}
	case []any:
		for _, child := range node {
			steps = append(steps, instructionsOf(child)...)
		}
	case map[string]any:
		if items, ok := node["itemListElement"]; ok {
			return instructionsOf(items)
		}
		if text := normalize(stringOf(node["text"])); text != "" {
			steps = append(steps, text)
		}
	}
	return steps
}

func extractMicrodata(doc *goquery.Document) (scraped, bool) {
	root := doc.Find(`[itemscope][itemtype*="schema.org/Recipe"]`).First()
	if root.Length() == 0 {
		return scraped{}, false
	}

	data := scraped{
		Name:  normalize(itemprop(root.Find(`[itemprop="name"]`).First())),
		Yield: normalize(itemprop(root.Find(`[itemprop="recipeYield"]`).First())),
	}
	root.Find(`[itemprop="recipeIngredient"], [itemprop="ingredients"]`).Each(func(_ int, s *goquery.Selection) {
		if line := normalize(itemprop(s)); line != "" {
			data.Ingredients = append(data.Ingredients, line)
		}
	})
	root.Find(`[itemprop="recipeInstructions"]`).Each(func(_ int, s *goquery.Selection) {
		if step := normalize(s.Text()); step != "" {
			data.Instructions = append(data.Instructions, step)
		}
	})
	return data, len(data.Ingredients) > 0
}

// itemprop prefers the content attribute over the element text.
func itemprop(s *goquery.Selection) string {
	if content, ok := s.Attr("content"); ok {
		return content
	}
	return s.Text()
}

// extractHeadedLists reads the list following a heading such as "Zutaten",
// and the steps list following a heading such as "Zubereitung".
func extractHeadedLists(doc *goquery.Document) (scraped, bool) {
	data := scraped{
		Ingredients:  listAfterHeading(doc, ingredientsHeading),
		Instructions: listAfterHeading(doc, stepsHeading),
	}
	if len(data.Ingredients) == 0 {
		return scraped{}, false
	}
	data.Name = normalize(doc.Find("h1").First().Text())
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := servingsHint.FindString(s.Text()); m != "" {
			data.Yield = m
			return false
		}
		return true
	})
	return data, true
}

func listAfterHeading(doc *goquery.Document, heading *regexp.Regexp) []string {
	var lines []string
	doc.Find("h1, h2, h3, h4").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !heading.MatchString(h.Text()) {
			return true
		}
		h.NextAllFiltered("ul, ol").First().Find("li").Each(func(_ int, li *goquery.Selection) {
			if line := normalize(li.Text()); line != "" {
				lines = append(lines, line)
			}
		})
		return len(lines) == 0
	})
	return lines
}
