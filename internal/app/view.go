package app

import (
	"context"
	"time"

	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/shopping"
)

// ViewItem is a displayed item together with its stored index, which is what
// ToggleItem expects.
type ViewItem struct {
	Index int
	shopping.Item
}

// ViewGroup is one category section of a category-sorted view.
type ViewGroup struct {
	Category ingredient.Category
	Items    []ViewItem
}

// View is a sorted, display-ready shopping list.
type View struct {
	Mode      shopping.SortMode
	Items     []ViewItem
	Groups    []ViewGroup // only for shopping.SortCategory
	Progress  shopping.Stats
	CreatedAt time.Time
}

// View returns the owner's list ordered by mode. The stored order is not
// changed.
func (a *App) View(ctx context.Context, owner string, mode shopping.SortMode) (*View, error) {
	list, err := a.loadList(ctx, owner)
	if err != nil {
		return nil, err
	}
	return a.buildView(list, mode), nil
}

func (a *App) buildView(list *shopping.ShoppingList, mode shopping.SortMode) *View {
	v := &View{
		Mode:      mode,
		Progress:  shopping.Progress(list.Items),
		CreatedAt: list.CreatedAt,
	}

	sorted := a.sorter.Sort(list.Items, mode)
	idx := newIndexer(list.Items)
	for _, it := range sorted {
		v.Items = append(v.Items, ViewItem{Index: idx.next(it), Item: it})
	}

	if mode == shopping.SortCategory {
		idx = newIndexer(list.Items)
		for _, g := range a.sorter.GroupByCategory(sorted) {
			vg := ViewGroup{Category: g.Category}
			for _, it := range g.Items {
				vg.Items = append(vg.Items, ViewItem{Index: idx.next(it), Item: it})
			}
			v.Groups = append(v.Groups, vg)
		}
	}
	return v
}

// indexer maps items back to their stored positions. Sorting is stable, so
// items sharing a key are handed out in stored order.
type indexer struct {
	positions map[string][]int
}

func newIndexer(items []shopping.Item) *indexer {
	positions := make(map[string][]int, len(items))
	for i, it := range items {
		positions[it.Key()] = append(positions[it.Key()], i)
	}
	return &indexer{positions: positions}
}

func (x *indexer) next(it shopping.Item) int {
	queue := x.positions[it.Key()]
	if len(queue) == 0 {
		return -1
	}
	x.positions[it.Key()] = queue[1:]
	return queue[0]
}
