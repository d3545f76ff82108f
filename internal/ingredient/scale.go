package ingredient

import "strings"

// Scale returns a copy of e with its amount converted from originalServings
// to newServings, rounded to two decimals. Composite amounts and a
// non-positive originalServings leave the amount untouched.
func Scale(e Entry, originalServings, newServings int) Entry {
	out := Entry{Name: strings.TrimSpace(e.Name), Amount: e.Amount}
	value, unit, ok := e.Amount.Numeric()
	if !ok || originalServings <= 0 {
		return out
	}
	factor := float64(newServings) / float64(originalServings)
	out.Amount = Numeric(Round2(value*factor), unit)
	return out
}
