package recipe

import (
	"github.com/google/uuid"

	"recipe-shopper/internal/ingredient"
)

// Recipe is a stored recipe. Ingredient amounts are always numeric.
type Recipe struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Servings     int                `json:"servings"`
	Ingredients  []ingredient.Entry `json:"ingredients"`
	Instructions string             `json:"instructions"`
	Image        string             `json:"image,omitempty"` // location returned by the image store
	SourceURL    string             `json:"source_url,omitempty"`
	UpdatedAt    string             `json:"updated_at"`
}

// NewID returns a fresh recipe ID.
func NewID() string {
	return uuid.New().String()
}
