package shopping

import "math"

// Stats is the purchase progress of a list.
type Stats struct {
	Checked    int `json:"checked"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Progress counts checked items. An empty list yields all zeros.
func Progress(items []Item) Stats {
	total := len(items)
	if total == 0 {
		return Stats{}
	}
	checked := 0
	for _, it := range items {
		if it.Checked {
			checked++
		}
	}
	pct := int(math.Floor(float64(checked)/float64(total)*100 + 0.5))
	return Stats{Checked: checked, Total: total, Percentage: pct}
}
