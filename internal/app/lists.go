package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/metrics"
	"recipe-shopper/internal/shopping"
)

// Pick selects a recipe for the shopping list. Servings of 0 means the
// recipe's own servings.
type Pick struct {
	RecipeID string
	Servings int
}

// GenerateList builds a new list from the picked recipes and replaces the
// owner's current list. Unknown recipe IDs are skipped.
func (a *App) GenerateList(ctx context.Context, owner string, picks []Pick) (*shopping.ShoppingList, error) {
	if len(picks) == 0 {
		return nil, ErrNoSelection
	}

	ids := make([]string, 0, len(picks))
	for _, p := range picks {
		if p.Servings != 0 {
			if err := a.validator.ValidateServings(p.Servings); err != nil {
				return nil, err
			}
		}
		ids = append(ids, p.RecipeID)
	}

	recipes, err := a.recipeRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]int, len(recipes))
	for i, r := range recipes {
		byID[r.ID] = i
	}

	selections := make([]shopping.Selection, 0, len(picks))
	for _, p := range picks {
		i, ok := byID[p.RecipeID]
		if !ok {
			a.logger.Warn("skipping unknown recipe", zap.String("recipe_id", p.RecipeID))
			continue
		}
		servings := p.Servings
		if servings == 0 {
			servings = recipes[i].Servings
		}
		selections = append(selections, shopping.Selection{Recipe: recipes[i], Servings: servings})
	}

	list := shopping.Generate(selections, a.now().UTC())

	unlock := a.lock(owner)
	defer unlock()
	if err := a.listRepo.Save(ctx, owner, list); err != nil {
		return nil, err
	}

	a.logger.Info("shopping list generated",
		zap.String("owner", owner), zap.Int("recipes", len(selections)), zap.Int("items", len(list.Items)))
	a.record(ctx, owner, metrics.KindListGenerated, len(list.Items))
	return list, nil
}

// ShoppingList returns the owner's stored list or ErrNoShoppingList.
func (a *App) ShoppingList(ctx context.Context, owner string) (*shopping.ShoppingList, error) {
	return a.loadList(ctx, owner)
}

// ToggleItem flips the checked flag of the item at its stored index. A
// non-empty tag must match the Tag of the item at that index.
func (a *App) ToggleItem(ctx context.Context, owner string, index int, tag string) (*shopping.ShoppingList, error) {
	unlock := a.lock(owner)
	defer unlock()

	list, err := a.loadList(ctx, owner)
	if err != nil {
		return nil, err
	}
	if tag != "" && (index < 0 || index >= len(list.Items) || list.Items[index].Tag() != tag) {
		return nil, fmt.Errorf("%w: index %d no longer holds item %s", ErrItemNotFound, index, tag)
	}
	if !list.Toggle(index) {
		return nil, fmt.Errorf("%w: index %d", ErrItemNotFound, index)
	}
	if err := a.listRepo.Save(ctx, owner, list); err != nil {
		return nil, err
	}
	a.record(ctx, owner, metrics.KindItemToggled, 1)
	return list, nil
}

// FridgeResult reports a fridge check.
type FridgeResult struct {
	shopping.ReconcileResult
	Skipped []string
}

// FridgeCheck parses one "<amount> <unit> <name>" line per on-hand item and
// subtracts them from the owner's list. Lines that do not parse are skipped.
// Without any valid line the list is left unchanged.
func (a *App) FridgeCheck(ctx context.Context, owner string, lines []string) (*FridgeResult, error) {
	res := &FridgeResult{}
	var fridge []ingredient.Entry
	for _, line := range lines {
		if line == "" {
			continue
		}
		e, err := a.validator.ParseIngredientLine(line)
		if err != nil {
			res.Skipped = append(res.Skipped, line)
			continue
		}
		fridge = append(fridge, e)
	}

	unlock := a.lock(owner)
	defer unlock()

	list, err := a.loadList(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(fridge) == 0 {
		res.Items = list.Items
		return res, nil
	}

	res.ReconcileResult = shopping.Reconcile(list.Items, fridge)
	list.Items = res.Items
	if err := a.listRepo.Save(ctx, owner, list); err != nil {
		return nil, err
	}

	a.record(ctx, owner, metrics.KindFridgeCheck, res.Removed)
	return res, nil
}

// ClearList deletes the owner's list.
func (a *App) ClearList(ctx context.Context, owner string) error {
	unlock := a.lock(owner)
	defer unlock()

	if err := a.listRepo.Delete(ctx, owner); err != nil {
		return err
	}
	a.record(ctx, owner, metrics.KindListCleared, 0)
	return nil
}
