package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"recipe-shopper/internal/clipper"
	"recipe-shopper/internal/metrics"
	"recipe-shopper/internal/recipe"
)

// AddRecipe validates and stores a recipe. A recipe without an ID, or with an
// ID not yet stored, is new and counts against the recipe limit. Updating an
// existing recipe keeps its image unless a new one is given.
func (a *App) AddRecipe(ctx context.Context, owner string, r recipe.Recipe) (*recipe.Recipe, error) {
	rec, err := a.validator.ValidateRecipe(r)
	if err != nil {
		return nil, err
	}

	var existing *recipe.Recipe
	if rec.ID != "" {
		existing, err = a.recipeRepo.Get(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
	}
	if existing == nil {
		count, err := a.recipeRepo.Count(ctx)
		if err != nil {
			return nil, err
		}
		if count >= a.validator.Limits().MaxRecipes {
			return nil, fmt.Errorf("%w (max %d)", ErrTooManyRecipes, a.validator.Limits().MaxRecipes)
		}
		if rec.ID == "" {
			rec.ID = recipe.NewID()
		}
	} else if rec.Image == "" {
		rec.Image = existing.Image
	}

	rec.UpdatedAt = a.now().UTC().Format(time.RFC3339)
	if err := a.recipeRepo.Save(ctx, rec); err != nil {
		return nil, err
	}

	a.logger.Info("recipe saved", zap.String("recipe_id", rec.ID), zap.String("name", rec.Name))
	a.record(ctx, owner, metrics.KindRecipeSaved, len(rec.Ingredients))
	return &rec, nil
}

// ImportRecipe clips a recipe from a web page and stores it.
func (a *App) ImportRecipe(ctx context.Context, owner, url string) (*clipper.Result, error) {
	res, err := a.recipeClipper.ClipURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to import recipe: %w", err)
	}
	saved, err := a.AddRecipe(ctx, owner, res.Recipe)
	if err != nil {
		return nil, err
	}
	res.Recipe = *saved
	return res, nil
}

// ListRecipes returns all recipes in creation order.
func (a *App) ListRecipes(ctx context.Context) ([]recipe.Recipe, error) {
	return a.recipeRepo.List(ctx)
}

// GetRecipe returns a recipe or ErrRecipeNotFound.
func (a *App) GetRecipe(ctx context.Context, id string) (*recipe.Recipe, error) {
	rec, err := a.recipeRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}
	return rec, nil
}

// DeleteRecipe removes a recipe and its image. Existing shopping lists are
// left untouched.
func (a *App) DeleteRecipe(ctx context.Context, id string) error {
	if _, err := a.GetRecipe(ctx, id); err != nil {
		return err
	}
	if err := a.images.Delete(ctx, id); err != nil {
		a.logger.Warn("failed to delete recipe image", zap.String("recipe_id", id), zap.Error(err))
	}
	return a.recipeRepo.Delete(ctx, id)
}

// AttachImage validates and stores an image for a recipe, replacing any
// earlier one.
func (a *App) AttachImage(ctx context.Context, owner, id, contentType string, data []byte) (*recipe.Recipe, error) {
	if err := a.validator.ValidateImage(contentType, int64(len(data))); err != nil {
		return nil, err
	}
	rec, err := a.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	location, err := a.images.Put(ctx, id, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	rec.Image = location
	rec.UpdatedAt = a.now().UTC().Format(time.RFC3339)
	if err := a.recipeRepo.Save(ctx, *rec); err != nil {
		return nil, err
	}
	a.record(ctx, owner, metrics.KindRecipeSaved, len(rec.Ingredients))
	return rec, nil
}

// RecipeImage returns the stored image bytes of a recipe.
func (a *App) RecipeImage(ctx context.Context, id string) ([]byte, error) {
	rec, err := a.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Image == "" {
		return nil, ErrNoImage
	}
	return a.images.Get(ctx, rec.Image)
}
