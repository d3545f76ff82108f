package ingredient

import (
	"fmt"
	"strings"
)

// Merge collapses entries with the same case-insensitive name. Output order is
// the first occurrence of each name and the first-seen casing is kept.
//
// Equal units are summed. Differing units turn the existing amount into a
// composite text "<amount> <unit> + <amount> <unit>". A composite amount
// stays composite: every later entry of that name is appended to its text.
func Merge(entries []Entry) []Entry {
	var order []string
	merged := make(map[string]*Entry, len(entries))

	for _, in := range entries {
		key := in.Key()
		existing, ok := merged[key]
		if !ok {
			e := Entry{Name: strings.TrimSpace(in.Name), Amount: in.Amount}
			merged[key] = &e
			order = append(order, key)
			continue
		}

		exValue, exUnit, exNumeric := existing.Amount.Numeric()
		inValue, inUnit, inNumeric := in.Amount.Numeric()
		if exNumeric && inNumeric && exUnit == inUnit {
			existing.Amount = Numeric(Round2(exValue+inValue), exUnit)
			continue
		}

		exAmount, exUnitText := existing.Amount.parts()
		inAmount, inUnitText := in.Amount.parts()
		existing.Amount = Composite(fmt.Sprintf("%s %s + %s %s", exAmount, exUnitText, inAmount, inUnitText))
	}

	out := make([]Entry, 0, len(order))
	for _, key := range order {
		out = append(out, *merged[key])
	}
	return out
}
