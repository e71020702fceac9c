package domain

import (
	"context"
	"image"
)

// DefaultRecipeCount is used when a generation request leaves Count unset.
const DefaultRecipeCount = 3

// GenerateRequest describes one recipe-generation call.
type GenerateRequest struct {
	Ingredients  []string
	Restrictions []DietaryRestriction
	Preference   Preference
	Count        int // requested number of recipes; 0 means DefaultRecipeCount
}

// IngredientDetector turns a photo into ingredient-name strings.
// Implementations may call a remote vision model; the UI layer only sees
// this interface.
type IngredientDetector interface {
	DetectIngredients(ctx context.Context, img image.Image) ([]string, error)
}

// RecipeGenerator turns an ingredient list plus constraints into exactly
// the requested number of recipe records. Implementations guarantee the
// count even when the model output is incomplete or absent.
type RecipeGenerator interface {
	GenerateRecipes(ctx context.Context, req GenerateRequest) ([]Recipe, error)
}
