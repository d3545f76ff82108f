package shopping

import (
	"strings"

	"recipe-shopper/internal/ingredient"
)

// Subtract removes on-hand quantities from the shopping items.
//
// For each item the first fridge entry with the same case-insensitive name
// and exactly the same unit is used. Items without a match and items with a
// composite amount are kept unchanged. Otherwise the fridge amount is
// subtracted: a remainder <= 0 drops the item, a positive remainder becomes
// the new amount rounded to two decimals.
//
// items is not modified; the result is a new slice.
func Subtract(items []Item, fridge []ingredient.Entry) []Item {
	out, _ := subtract(items, fridge)
	return out
}

// ReconcileResult summarizes a fridge check.
type ReconcileResult struct {
	Items   []Item
	Removed int
	Reduced int
}

// Reconcile is Subtract with counts of removed and reduced items.
func Reconcile(items []Item, fridge []ingredient.Entry) ReconcileResult {
	out, reduced := subtract(items, fridge)
	return ReconcileResult{Items: out, Removed: len(items) - len(out), Reduced: reduced}
}

func subtract(items []Item, fridge []ingredient.Entry) ([]Item, int) {
	out := make([]Item, 0, len(items))
	reduced := 0
	for _, item := range items {
		have, ok := findOnHand(fridge, item)
		if !ok {
			out = append(out, item)
			continue
		}

		need, unit, numeric := item.Amount.Numeric()
		if !numeric {
			out = append(out, item)
			continue
		}

		remaining := need - have
		if remaining <= 0 {
			continue
		}
		item.Amount = ingredient.Numeric(ingredient.Round2(remaining), unit)
		out = append(out, item)
		reduced++
	}
	return out, reduced
}

// findOnHand returns the numeric amount of the first fridge entry matching
// item by name and unit.
func findOnHand(fridge []ingredient.Entry, item Item) (float64, bool) {
	name := strings.ToLower(item.Name)
	for _, f := range fridge {
		if strings.ToLower(f.Name) != name || f.Unit() != item.Unit() {
			continue
		}
		value, _, ok := f.Amount.Numeric()
		return value, ok
	}
	return 0, false
}
