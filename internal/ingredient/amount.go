package ingredient

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Unit is a measurement unit for a numeric amount.
type Unit string

const (
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Milliliter Unit = "ml"
	Liter      Unit = "l"
	Tablespoon Unit = "EL"
	Teaspoon   Unit = "TL"
	Piece      Unit = "Stück"
	Pinch      Unit = "Prise"
)

// UnitSet is the closed set of units accepted for numeric amounts.
type UnitSet []Unit

// DefaultUnits returns the built-in unit set.
func DefaultUnits() UnitSet {
	return UnitSet{Gram, Kilogram, Milliliter, Liter, Tablespoon, Teaspoon, Piece, Pinch}
}

// Contains reports whether u is a member of the set. Matching is exact.
func (s UnitSet) Contains(u Unit) bool {
	for _, known := range s {
		if known == u {
			return true
		}
	}
	return false
}

// Amount is either a numeric quantity with a unit or an opaque composite text
// produced when same-named ingredients with different units were merged.
// A composite amount never takes part in arithmetic again.
type Amount struct {
	value     float64
	unit      Unit
	text      string
	composite bool
}

// Numeric returns a numeric amount.
func Numeric(value float64, unit Unit) Amount {
	return Amount{value: value, unit: unit}
}

// Composite returns a composite (display-only) amount.
func Composite(text string) Amount {
	return Amount{text: text, composite: true}
}

// Numeric returns the value and unit, and false for composite amounts.
func (a Amount) Numeric() (float64, Unit, bool) {
	if a.composite {
		return 0, "", false
	}
	return a.value, a.unit, true
}

// Unit returns the unit of a numeric amount and "" for composite amounts.
func (a Amount) Unit() Unit {
	if a.composite {
		return ""
	}
	return a.unit
}

// String renders the amount for display, e.g. "250 g".
func (a Amount) String() string {
	if a.composite {
		return a.text
	}
	return FormatNumber(a.value) + " " + string(a.unit)
}

// parts returns the amount and unit as they appear inside a composite text.
func (a Amount) parts() (string, string) {
	if a.composite {
		return a.text, ""
	}
	return FormatNumber(a.value), string(a.unit)
}

// MarshalJSON encodes numeric amounts as JSON numbers and composite amounts as
// strings. The unit is encoded by the enclosing entry.
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.composite {
		return json.Marshal(a.text)
	}
	return json.Marshal(a.value)
}

// decodeAmount is the inverse of MarshalJSON given the entry's unit.
func decodeAmount(raw json.RawMessage, unit Unit) (Amount, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Numeric(0, unit), nil
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return Amount{}, fmt.Errorf("failed to decode composite amount: %w", err)
		}
		return Composite(text), nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return Amount{}, fmt.Errorf("failed to decode numeric amount: %w", err)
	}
	return Numeric(v, unit), nil
}

// Round2 rounds half up to two decimal places.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// FormatNumber renders x in its shortest decimal form ("2", "2.5", "0.33").
func FormatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
