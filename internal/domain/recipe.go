// Package domain defines the core types and errors for the SnapChef client.
// All other packages depend on domain; domain depends on nothing.
package domain

// Recipe is a fully-populated recipe record. Recipes are created exclusively
// by the parser (from model JSON or fallback synthesis), are immutable after
// creation, and are owned by whichever caller requested generation.
type Recipe struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	SourceIngredients []string        `json:"sourceIngredients"`
	Ingredients       []string        `json:"ingredients"` // with quantities, e.g. "2 cups of rice"
	Instructions      []string        `json:"instructions"`
	PrepTime          string          `json:"prepTime"`
	CookTime          string          `json:"cookTime"`
	Servings          int             `json:"servings"`
	Difficulty        string          `json:"difficulty"`
	Cuisine           string          `json:"cuisine"`
	Nutrition         *NutritionFacts `json:"nutritionFacts,omitempty"`

	// The constraints that produced this recipe, echoed back unchanged.
	Restrictions []DietaryRestriction `json:"dietaryRestrictions,omitempty"`
	Preference   Preference           `json:"preference,omitempty"`
}

// NutritionFacts holds per-serving macro estimates.
type NutritionFacts struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein"`
	CarbsG   int `json:"carbs"`
	FatG     int `json:"fat"`
}
