package shopping

import (
	"encoding/json"
	"hash/fnv"
	"strconv"
	"time"

	"recipe-shopper/internal/ingredient"
)

// Item is a shopping list entry with its purchase state.
type Item struct {
	ingredient.Entry
	Checked bool
}

type itemJSON struct {
	Name    string          `json:"name"`
	Amount  json.RawMessage `json:"amount"`
	Unit    ingredient.Unit `json:"unit"`
	Checked bool            `json:"checked"`
}

// MarshalJSON writes {"name", "amount", "unit", "checked"}.
func (it Item) MarshalJSON() ([]byte, error) {
	raw, err := it.Amount.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(itemJSON{Name: it.Name, Amount: raw, Unit: it.Unit(), Checked: it.Checked})
}

// UnmarshalJSON reads the shape written by MarshalJSON.
func (it *Item) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &it.Entry); err != nil {
		return err
	}
	var aux struct {
		Checked bool `json:"checked"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	it.Checked = aux.Checked
	return nil
}

// ShoppingList is an ordered list of items. Stored order is insertion order;
// sorting is a view and never reorders Items.
type ShoppingList struct {
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// NewShoppingList wraps merged entries as unchecked items.
func NewShoppingList(entries []ingredient.Entry, createdAt time.Time) *ShoppingList {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Item{Entry: e})
	}
	return &ShoppingList{Items: items, CreatedAt: createdAt}
}

// Tag is a short FNV-1a digest of the item key.
func (it Item) Tag() string {
	h := fnv.New32a()
	h.Write([]byte(it.Key()))
	return strconv.FormatUint(uint64(h.Sum32()), 16)
}

// Toggle flips the checked flag of item i and reports whether i was valid.
func (l *ShoppingList) Toggle(i int) bool {
	if i < 0 || i >= len(l.Items) {
		return false
	}
	l.Items[i].Checked = !l.Items[i].Checked
	return true
}
