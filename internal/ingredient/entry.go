package ingredient

import (
	"encoding/json"
	"strings"
)

// Entry is one ingredient line: a display name and an amount.
type Entry struct {
	Name   string
	Amount Amount
}

// New returns a numeric entry with a trimmed name.
func New(name string, value float64, unit Unit) Entry {
	return Entry{Name: strings.TrimSpace(name), Amount: Numeric(value, unit)}
}

// Key is the case-insensitive identity of the entry.
func (e Entry) Key() string {
	return strings.ToLower(strings.TrimSpace(e.Name))
}

// Unit is a shorthand for e.Amount.Unit().
func (e Entry) Unit() Unit {
	return e.Amount.Unit()
}

// String renders the entry as "250 g Mehl".
func (e Entry) String() string {
	return e.Amount.String() + " " + e.Name
}

type entryJSON struct {
	Name   string          `json:"name"`
	Amount json.RawMessage `json:"amount"`
	Unit   Unit            `json:"unit"`
}

// MarshalJSON writes the stored shape {"name", "amount", "unit"} where amount
// is a number, or a string with an empty unit for composite amounts.
func (e Entry) MarshalJSON() ([]byte, error) {
	raw, err := e.Amount.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(entryJSON{Name: e.Name, Amount: raw, Unit: e.Amount.Unit()})
}

// UnmarshalJSON reads the shape written by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var aux entryJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	amount, err := decodeAmount(aux.Amount, aux.Unit)
	if err != nil {
		return err
	}
	e.Name = strings.TrimSpace(aux.Name)
	e.Amount = amount
	return nil
}
