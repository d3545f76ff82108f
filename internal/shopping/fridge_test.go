package shopping

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"recipe-shopper/internal/ingredient"
)

var amountOpt = cmp.AllowUnexported(ingredient.Amount{})

func item(name string, value float64, unit ingredient.Unit) Item {
	return Item{Entry: ingredient.New(name, value, unit)}
}

func TestSubtract(t *testing.T) {
	t.Run("FullRemoval", func(t *testing.T) {
		items := []Item{item("Tomate", 5, ingredient.Piece), item("Mehl", 200, ingredient.Gram)}
		got := Subtract(items, []ingredient.Entry{ingredient.New("Tomate", 5, ingredient.Piece)})
		if len(got) != len(items)-1 {
			t.Fatalf("Expected %d items, got %d", len(items)-1, len(got))
		}
		if got[0].Name != "Mehl" {
			t.Errorf("Expected Mehl to remain, got %s", got[0].Name)
		}
	})

	t.Run("MoreOnHandThanNeeded", func(t *testing.T) {
		got := Subtract([]Item{item("Tomate", 2, ingredient.Piece)},
			[]ingredient.Entry{ingredient.New("Tomate", 6, ingredient.Piece)})
		if len(got) != 0 {
			t.Errorf("Expected item to be dropped, got %v", got)
		}
	})

	t.Run("PartialRemoval", func(t *testing.T) {
		got := Subtract([]Item{item("Tomate", 5, ingredient.Piece)},
			[]ingredient.Entry{ingredient.New("Tomate", 2, ingredient.Piece)})
		want := []Item{item("Tomate", 3, ingredient.Piece)}
		if diff := cmp.Diff(want, got, amountOpt); diff != "" {
			t.Errorf("Subtract mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("UnitMismatchIsNoOp", func(t *testing.T) {
		items := []Item{item("Milch", 1, ingredient.Liter)}
		got := Subtract(items, []ingredient.Entry{ingredient.New("Milch", 500, ingredient.Milliliter)})
		if diff := cmp.Diff(items, got, amountOpt); diff != "" {
			t.Errorf("Subtract mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("CaseInsensitiveName", func(t *testing.T) {
		got := Subtract([]Item{item("Tomate", 5, ingredient.Piece)},
			[]ingredient.Entry{ingredient.New("TOMATE", 1, ingredient.Piece)})
		if v, _, _ := got[0].Amount.Numeric(); v != 4 {
			t.Errorf("Expected 4, got %v", v)
		}
	})

	t.Run("CompositeKept", func(t *testing.T) {
		items := []Item{{Entry: ingredient.Entry{Name: "Mehl", Amount: ingredient.Composite("2 g + 1 kg")}}}
		got := Subtract(items, []ingredient.Entry{
			{Name: "Mehl", Amount: ingredient.Composite("2 g + 1 kg")},
			ingredient.New("Mehl", 5, ingredient.Gram),
		})
		if diff := cmp.Diff(items, got, amountOpt); diff != "" {
			t.Errorf("Subtract mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("FirstMatchingFridgeEntryWins", func(t *testing.T) {
		got := Subtract([]Item{item("Butter", 250, ingredient.Gram)}, []ingredient.Entry{
			ingredient.New("Butter", 1, ingredient.Tablespoon),
			ingredient.New("Butter", 100, ingredient.Gram),
			ingredient.New("Butter", 200, ingredient.Gram),
		})
		if v, _, _ := got[0].Amount.Numeric(); v != 150 {
			t.Errorf("Expected 150, got %v", v)
		}
	})

	t.Run("RemainderIsRounded", func(t *testing.T) {
		got := Subtract([]Item{item("Öl", 0.5, ingredient.Liter)},
			[]ingredient.Entry{ingredient.New("Öl", 0.2, ingredient.Liter)})
		if v, _, _ := got[0].Amount.Numeric(); v != 0.3 {
			t.Errorf("Expected 0.3, got %v", v)
		}
	})

	t.Run("CheckedFlagKept", func(t *testing.T) {
		in := item("Reis", 500, ingredient.Gram)
		in.Checked = true
		got := Subtract([]Item{in}, []ingredient.Entry{ingredient.New("Reis", 100, ingredient.Gram)})
		if !got[0].Checked {
			t.Error("Expected checked flag to survive reduction")
		}
	})

	t.Run("InputNotModified", func(t *testing.T) {
		items := []Item{item("Tomate", 5, ingredient.Piece)}
		Subtract(items, []ingredient.Entry{ingredient.New("Tomate", 2, ingredient.Piece)})
		if v, _, _ := items[0].Amount.Numeric(); v != 5 {
			t.Errorf("Expected input amount 5, got %v", v)
		}
	})

	t.Run("EmptyInputs", func(t *testing.T) {
		if got := Subtract(nil, nil); len(got) != 0 {
			t.Errorf("Expected empty result, got %v", got)
		}
		items := []Item{item("Tomate", 5, ingredient.Piece)}
		if got := Subtract(items, nil); len(got) != 1 {
			t.Errorf("Expected item kept, got %v", got)
		}
	})
}

func TestReconcile(t *testing.T) {
	items := []Item{
		item("Tomate", 5, ingredient.Piece),
		item("Mehl", 500, ingredient.Gram),
		item("Milch", 1, ingredient.Liter),
	}
	res := Reconcile(items, []ingredient.Entry{
		ingredient.New("Tomate", 5, ingredient.Piece),
		ingredient.New("Mehl", 100, ingredient.Gram),
	})
	if res.Removed != 1 || res.Reduced != 1 || len(res.Items) != 2 {
		t.Errorf("Expected 1 removed, 1 reduced, 2 left; got %d, %d, %d", res.Removed, res.Reduced, len(res.Items))
	}
}
