package ghost

import (
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"

	"recipe-shopper/internal/recipe"
)

type howToStep struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

type schemaRecipe struct {
	Context      string      `json:"@context"`
	Type         string      `json:"@type"`
	Name         string      `json:"name"`
	Yield        string      `json:"recipeYield"`
	Ingredients  []string    `json:"recipeIngredient"`
	Instructions []howToStep `json:"recipeInstructions,omitempty"`
}

// RenderRecipe renders a recipe as post HTML: a schema.org JSON-LD block
// followed by headed ingredient and step lists. Either part is enough to
// import the post again.
func RenderRecipe(r recipe.Recipe) (string, error) {
	var steps []string
	for _, line := range strings.Split(r.Instructions, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}

	schema := schemaRecipe{
		Context: "https://schema.org",
		Type:    "Recipe",
		Name:    r.Name,
		Yield:   strconv.Itoa(r.Servings),
	}
	for _, e := range r.Ingredients {
		schema.Ingredients = append(schema.Ingredients, e.String())
	}
	for _, s := range steps {
		schema.Instructions = append(schema.Instructions, howToStep{Type: "HowToStep", Text: s})
	}
	ld, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("failed to encode recipe schema: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(`<script type="application/ld+json">`)
	// json.Marshal escapes <, > and &, so the block cannot close the script tag.
	sb.Write(ld)
	sb.WriteString("</script>\n")
	fmt.Fprintf(&sb, "<p>Für %d Portionen</p>\n", r.Servings)
	sb.WriteString("<h2>Zutaten</h2>\n<ul>\n")
	for _, line := range schema.Ingredients {
		fmt.Fprintf(&sb, "<li>%s</li>\n", html.EscapeString(line))
	}
	sb.WriteString("</ul>\n")
	if len(steps) > 0 {
		sb.WriteString("<h2>Zubereitung</h2>\n<ol>\n")
		for _, s := range steps {
			fmt.Fprintf(&sb, "<li>%s</li>\n", html.EscapeString(s))
		}
		sb.WriteString("</ol>\n")
	}
	return sb.String(), nil
}
