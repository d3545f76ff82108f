package ingredient

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var amountOpt = cmp.AllowUnexported(Amount{})

func TestScale(t *testing.T) {
	flour := New("Mehl", 100, Gram)

	t.Run("IdentityRatio", func(t *testing.T) {
		for _, s := range []int{1, 2, 7, 100} {
			got := Scale(flour, s, s)
			if got != flour {
				t.Errorf("Expected %v for servings %d, got %v", flour, s, got)
			}
		}
	})

	t.Run("Doubling", func(t *testing.T) {
		got := Scale(New("Zucker", 37.5, Gram), 2, 4)
		v, u, ok := got.Amount.Numeric()
		if !ok || v != 75 || u != Gram {
			t.Errorf("Expected 75 g, got %v", got.Amount)
		}
	})

	t.Run("RoundsToTwoDecimals", func(t *testing.T) {
		got := Scale(New("Salz", 1, Pinch), 3, 1)
		if v, _, _ := got.Amount.Numeric(); v != 0.33 {
			t.Errorf("Expected 0.33, got %v", v)
		}
		got = Scale(New("Butter", 2.5, Tablespoon), 4, 1)
		if v, _, _ := got.Amount.Numeric(); v != 0.63 {
			t.Errorf("Expected half-up rounding to 0.63, got %v", v)
		}
	})

	t.Run("NamePassesThroughTrimmed", func(t *testing.T) {
		got := Scale(Entry{Name: "  Milch ", Amount: Numeric(1, Liter)}, 1, 2)
		if got.Name != "Milch" || got.Unit() != Liter {
			t.Errorf("Expected trimmed name and unit l, got %q %q", got.Name, got.Unit())
		}
	})

	t.Run("CompositeUnchanged", func(t *testing.T) {
		in := Entry{Name: "Mehl", Amount: Composite("2 g + 1 kg")}
		if got := Scale(in, 2, 4); got != in {
			t.Errorf("Expected composite entry unchanged, got %v", got)
		}
	})

	t.Run("NonPositiveOriginalServings", func(t *testing.T) {
		if got := Scale(flour, 0, 4); got != flour {
			t.Errorf("Expected entry unchanged, got %v", got)
		}
	})
}

func TestMerge(t *testing.T) {
	t.Run("SameUnitSums", func(t *testing.T) {
		a := New("Salt", 2, Gram)
		b := New("Salt", 3, Gram)
		want := []Entry{New("Salt", 5, Gram)}
		for _, in := range [][]Entry{{a, b}, {b, a}} {
			if diff := cmp.Diff(want, Merge(in), amountOpt); diff != "" {
				t.Errorf("Merge mismatch (-want +got):\n%s", diff)
			}
		}
	})

	t.Run("UnitMismatchDegrades", func(t *testing.T) {
		got := Merge([]Entry{New("Flour", 2, Gram), New("Flour", 1, Kilogram)})
		want := []Entry{{Name: "Flour", Amount: Composite("2 g + 1 kg")}}
		if diff := cmp.Diff(want, got, amountOpt); diff != "" {
			t.Errorf("Merge mismatch (-want +got):\n%s", diff)
		}
		if got[0].Unit() != "" {
			t.Errorf("Expected empty unit for composite, got %q", got[0].Unit())
		}
	})

	t.Run("DegradedStaysComposite", func(t *testing.T) {
		got := Merge([]Entry{
			New("Flour", 2, Gram),
			New("Flour", 1, Kilogram),
			New("Flour", 3, Gram),
		})
		if len(got) != 1 {
			t.Fatalf("Expected 1 entry, got %d", len(got))
		}
		if s := got[0].Amount.String(); s != "2 g + 1 kg  + 3 g" {
			t.Errorf("Expected repeated concatenation, got %q", s)
		}
	})

	t.Run("CaseInsensitiveFirstCasingWins", func(t *testing.T) {
		got := Merge([]Entry{New("Tomate", 2, Piece), New("tomate", 1, Piece)})
		want := []Entry{New("Tomate", 3, Piece)}
		if diff := cmp.Diff(want, got, amountOpt); diff != "" {
			t.Errorf("Merge mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("FirstOccurrenceOrder", func(t *testing.T) {
		got := Merge([]Entry{
			New("Zwiebel", 1, Piece),
			New("Apfel", 2, Piece),
			New("zwiebel", 1, Piece),
			New("Mehl", 100, Gram),
		})
		var names []string
		for _, e := range got {
			names = append(names, e.Name)
		}
		if diff := cmp.Diff([]string{"Zwiebel", "Apfel", "Mehl"}, names); diff != "" {
			t.Errorf("Order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("SumIsRounded", func(t *testing.T) {
		got := Merge([]Entry{New("Öl", 0.1, Liter), New("Öl", 0.2, Liter)})
		if v, _, _ := got[0].Amount.Numeric(); v != 0.3 {
			t.Errorf("Expected 0.3, got %v", v)
		}
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		in := []Entry{New("Salz", 1, Gram), New("Salz", 1, Kilogram)}
		Merge(in)
		if in[0] != New("Salz", 1, Gram) {
			t.Errorf("Expected input untouched, got %v", in[0])
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := Merge(nil); len(got) != 0 {
			t.Errorf("Expected empty result, got %v", got)
		}
	})
}

func TestCategorize(t *testing.T) {
	c := DefaultCategorizer()
	tests := []struct {
		name string
		want Category
	}{
		{"Hähnchenbrust", MeatFish},
		{"LACHS", MeatFish},
		{"Cherrytomaten", Vegetables},
		{"Paprikapulver", Vegetables}, // "paprika" is declared before "paprikapulver"
		{"Erdbeeren", Fruit},
		{"Buttermilch", Dairy},
		{"Spaghetti", Grains},
		{"Olivenöl", Spices},
		{"Wasser", Other},
		{"", Other},
	}
	for _, tt := range tests {
		if got := c.Categorize(tt.name); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	t.Run("CustomRulesAreCopied", func(t *testing.T) {
		rules := []Rule{{Category: Fruit, Keywords: []string{"KIWI"}}}
		custom := NewCategorizer(rules, Other)
		rules[0].Keywords[0] = "wasser"
		if got := custom.Categorize("Kiwi"); got != Fruit {
			t.Errorf("Expected Obst, got %q", got)
		}
		if got := custom.Categorize("Wasser"); got != Other {
			t.Errorf("Expected Sonstiges, got %q", got)
		}
	})
}

func TestEntryJSON(t *testing.T) {
	t.Run("Numeric", func(t *testing.T) {
		data, err := json.Marshal(New("Mehl", 250, Gram))
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != `{"name":"Mehl","amount":250,"unit":"g"}` {
			t.Errorf("Unexpected JSON: %s", data)
		}
	})

	t.Run("CompositeRoundTrip", func(t *testing.T) {
		in := Entry{Name: "Mehl", Amount: Composite("2 g + 1 kg")}
		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != `{"name":"Mehl","amount":"2 g + 1 kg","unit":""}` {
			t.Errorf("Unexpected JSON: %s", data)
		}
		var out Entry
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if out != in {
			t.Errorf("Expected %v, got %v", in, out)
		}
	})
}

func TestUnitSetContains(t *testing.T) {
	units := DefaultUnits()
	if !units.Contains(Piece) {
		t.Error("Expected Stück in default units")
	}
	if units.Contains("G") {
		t.Error("Expected unit matching to be exact")
	}
	if (UnitSet{Gram}).Contains(Liter) {
		t.Error("Expected reduced set to reject l")
	}
}
