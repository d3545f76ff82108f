package shopping

import (
	"time"

	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/recipe"
)

// Selection is a recipe chosen for the list and the servings to buy for.
type Selection struct {
	Recipe   recipe.Recipe
	Servings int
}

// Generate scales every selected recipe to its chosen servings, merges the
// ingredients in selection order and returns a list of unchecked items.
func Generate(selections []Selection, now time.Time) *ShoppingList {
	var scaled []ingredient.Entry
	for _, sel := range selections {
		for _, ing := range sel.Recipe.Ingredients {
			scaled = append(scaled, ingredient.Scale(ing, sel.Recipe.Servings, sel.Servings))
		}
	}
	return NewShoppingList(ingredient.Merge(scaled), now)
}
