package clipper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/validation"
)

const jsonLDPage = `
<html>
	<head>
		<script type="application/ld+json">{"@context":"https://schema.org","@type":"WebSite","name":"Kochblog"}</script>
		<script type="application/ld+json">
		{
			"@context": "https://schema.org",
			"@graph": [
				{"@type": "Organization", "name": "Kochblog"},
				{
					"@type": ["Recipe"],
					"name": "Omas Pfannkuchen &amp; Apfelmus",
					"recipeYield": ["4", "4 Portionen"],
					"recipeIngredient": ["250 g Mehl", "1/2 l Milch", "3 Eier", "½ Prise Zimt", "1 Prise Salz"],
					"recipeInstructions": [
						{"@type": "HowToSection", "name": "Teig", "itemListElement": [
							{"@type": "HowToStep", "text": "Mehl und Milch verrühren."},
							{"@type": "HowToStep", "text": "Eier unterheben."}
						]},
						{"@type": "HowToStep", "text": "In der Pfanne ausbacken."}
					]
				}
			]
		}
		</script>
	</head>
	<body><h1>Pfannkuchen</h1></body>
</html>`

const microdataPage = `
<html><body>
	<div itemscope itemtype="https://schema.org/Recipe">
		<h1 itemprop="name">Tomatensuppe</h1>
		<span itemprop="recipeYield" content="2">Für zwei</span>
		<ul>
			<li itemprop="recipeIngredient">800 g Tomate</li>
			<li itemprop="recipeIngredient">1 Zwiebel</li>
		</ul>
		<div itemprop="recipeInstructions">Alles kochen und pürieren.</div>
	</div>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/jsonld", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(jsonLDPage)) })
	mux.HandleFunc("/microdata", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(microdataPage)) })
	mux.HandleFunc("/plain", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Just a blog post.</p></body></html>`))
	})
	mux.HandleFunc("/nothing-usable", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<script type="application/ld+json">{"@type":"Recipe","name":"X","recipeIngredient":["etwas Salz"]}</script>`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestClipURL(t *testing.T) {
	ts := newTestServer(t)
	c := NewClipper(validation.Default(), zap.NewNop())
	ctx := context.Background()
	amountOpt := cmp.AllowUnexported(ingredient.Amount{})

	t.Run("JSONLD", func(t *testing.T) {
		res, err := c.ClipURL(ctx, ts.URL+"/jsonld")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		rec := res.Recipe
		if rec.Name != "Omas Pfannkuchen Apfelmus" {
			t.Errorf("Expected cleaned name, got '%s'", rec.Name)
		}
		if rec.Servings != 4 {
			t.Errorf("Expected 4 servings, got %d", rec.Servings)
		}
		if rec.ID == "" || rec.SourceURL != ts.URL+"/jsonld" {
			t.Errorf("Expected ID and source URL to be set, got '%s', '%s'", rec.ID, rec.SourceURL)
		}
		want := []ingredient.Entry{
			ingredient.New("Mehl", 250, ingredient.Gram),
			ingredient.New("Milch", 0.5, ingredient.Liter),
			ingredient.New("Eier", 3, ingredient.Piece),
			ingredient.New("Salz", 1, ingredient.Pinch),
		}
		if diff := cmp.Diff(want, rec.Ingredients, amountOpt); diff != "" {
			t.Errorf("Ingredients mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"½ Prise Zimt"}, res.Skipped); diff != "" {
			t.Errorf("Skipped mismatch (-want +got):\n%s", diff)
		}
		wantSteps := "Mehl und Milch verrühren.\nEier unterheben.\nIn der Pfanne ausbacken."
		if rec.Instructions != wantSteps {
			t.Errorf("Expected instructions %q, got %q", wantSteps, rec.Instructions)
		}
	})

	t.Run("Microdata", func(t *testing.T) {
		res, err := c.ClipURL(ctx, ts.URL+"/microdata")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if res.Recipe.Name != "Tomatensuppe" || res.Recipe.Servings != 2 {
			t.Errorf("Unexpected recipe: %s (%d)", res.Recipe.Name, res.Recipe.Servings)
		}
		if len(res.Recipe.Ingredients) != 2 || len(res.Skipped) != 0 {
			t.Errorf("Expected 2 ingredients and nothing skipped, got %d and %v", len(res.Recipe.Ingredients), res.Skipped)
		}
		if !strings.Contains(res.Recipe.Instructions, "pürieren") {
			t.Errorf("Expected instructions to be imported, got %q", res.Recipe.Instructions)
		}
	})

	t.Run("NoRecipe", func(t *testing.T) {
		_, err := c.ClipURL(ctx, ts.URL+"/plain")
		if !errors.Is(err, ErrNoRecipe) {
			t.Errorf("Expected ErrNoRecipe, got %v", err)
		}
	})

	t.Run("NoUsableIngredients", func(t *testing.T) {
		_, err := c.ClipURL(ctx, ts.URL+"/nothing-usable")
		if !errors.Is(err, validation.ErrInvalid) {
			t.Errorf("Expected ErrInvalid, got %v", err)
		}
	})

	t.Run("HTTPError", func(t *testing.T) {
		if _, err := c.ClipURL(ctx, ts.URL+"/missing"); err == nil {
			t.Fatal("Expected an error for a 404 page, got nil")
		}
	})
}

func TestParseServings(t *testing.T) {
	limits := validation.DefaultLimits()
	tests := map[string]int{
		"":            DefaultServings,
		"6 Portionen": 6,
		"für 2-3":     2,
		"0":           DefaultServings,
		"1000":        limits.MaxServings,
	}
	for yield, want := range tests {
		if got := parseServings(yield, limits); got != want {
			t.Errorf("parseServings(%q) = %d, expected %d", yield, got, want)
		}
	}
}

func TestClipHTML(t *testing.T) {
	c := NewClipper(validation.Default(), zap.NewNop())

	t.Run("HeadedLists", func(t *testing.T) {
		post := `<p>Unser Lieblingsessen, für 3 Personen.</p>
			<h2>Zutaten</h2>
			<ul><li>400 g Nudeln</li><li>2 Tomaten</li><li>etwas Basilikum</li></ul>
			<h3>Zubereitung</h3>
			<ol><li>Nudeln kochen.</li><li>Tomaten schneiden.</li></ol>`
		res, err := c.ClipHTML(post, "Nudeln mit Tomaten", "https://blog.example.test/nudeln/")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if res.Recipe.Name != "Nudeln mit Tomaten" {
			t.Errorf("Expected title to be used as name, got '%s'", res.Recipe.Name)
		}
		if res.Recipe.Servings != 3 {
			t.Errorf("Expected 3 servings, got %d", res.Recipe.Servings)
		}
		want := []ingredient.Entry{
			ingredient.New("Nudeln", 400, ingredient.Gram),
			ingredient.New("Tomaten", 2, ingredient.Piece),
		}
		if diff := cmp.Diff(want, res.Recipe.Ingredients, cmp.AllowUnexported(ingredient.Amount{})); diff != "" {
			t.Errorf("Ingredients mismatch (-want +got):\n%s", diff)
		}
		if res.Recipe.Instructions != "Nudeln kochen.\nTomaten schneiden." {
			t.Errorf("Unexpected instructions %q", res.Recipe.Instructions)
		}
		if len(res.Skipped) != 1 {
			t.Errorf("Expected 1 skipped line, got %v", res.Skipped)
		}
	})

	t.Run("SchemaWins", func(t *testing.T) {
		res, err := c.ClipHTML(jsonLDPage, "Blog Title", "https://blog.example.test/p/")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if res.Recipe.Name != "Omas Pfannkuchen Apfelmus" {
			t.Errorf("Expected schema name, got '%s'", res.Recipe.Name)
		}
	})

	t.Run("NoRecipe", func(t *testing.T) {
		_, err := c.ClipHTML(`<h2>Zutaten</h2><p>Siehe unten.</p>`, "Post", "")
		if !errors.Is(err, ErrNoRecipe) {
			t.Errorf("Expected ErrNoRecipe, got %v", err)
		}
	})
}
