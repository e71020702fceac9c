package parse

import (
	"fmt"
	"unicode"

	"github.com/google/uuid"

	"github.com/hammamikhairi/snapchef/internal/domain"
)

// Fallback recipe synthesis. Used when the model gives fewer records than
// requested (or none at all), so the caller always receives exactly the
// requested count of structurally valid recipes. Everything is
// deterministic given the recipe index, except the quantity phrases and
// servings which come from the injected rng.

var synthCuisines = []string{
	"Italian", "Mexican", "Asian", "Mediterranean", "American", "Indian", "French",
}

type cookingMethod struct {
	name  string // "bake"
	label string // "Baked", used in titles
	steps [3]string
}

var synthMethods = []cookingMethod{
	{"bake", "Baked", [3]string{
		"Preheat the oven to 190°C (375°F).",
		"Arrange everything in a baking dish and cover with foil.",
		"Bake for 25-30 minutes until cooked through.",
	}},
	{"grill", "Grilled", [3]string{
		"Preheat the grill to medium-high heat.",
		"Brush the ingredients with oil and season well.",
		"Grill for 4-6 minutes per side until charred.",
	}},
	{"stir-fry", "Stir-Fried", [3]string{
		"Heat a wok over high heat until smoking.",
		"Add the ingredients in batches, tossing constantly.",
		"Stir-fry for 5-7 minutes until crisp-tender.",
	}},
	{"sauté", "Sautéed", [3]string{
		"Heat a little oil in a wide pan over medium heat.",
		"Add the ingredients and cook, stirring occasionally.",
		"Sauté for 8-10 minutes until golden.",
	}},
	{"steam", "Steamed", [3]string{
		"Bring water to a simmer in a steamer pot.",
		"Layer the ingredients in the steamer basket.",
		"Steam for 10-12 minutes until just tender.",
	}},
	{"roast", "Roasted", [3]string{
		"Preheat the oven to 220°C (425°F).",
		"Spread everything on a tray in a single layer.",
		"Roast for 20-25 minutes, turning once.",
	}},
}

// Shared steps bracketing the method-specific core.
var (
	synthPrepSteps = []string{
		"Wash and prepare all ingredients.",
		"Chop everything into even, bite-sized pieces.",
	}
	synthFinalSteps = []string{
		"Taste and adjust the seasoning.",
		"Plate and serve while hot.",
	}
)

var quantityPhrases = []string{
	"1 cup of", "2 tablespoons of", "1/2 pound of", "3 pieces of", "a handful of",
}

// Per-index nutrition growth so consecutive fallback recipes differ.
const (
	calorieIncrement = 25
	proteinIncrement = 1
	carbsIncrement   = 2
	fatIncrement     = 1
)

// synthesizeRecipe builds the fallback recipe for index i in the
// requested batch.
func (p *Parser) synthesizeRecipe(i int, req domain.GenerateRequest) domain.Recipe {
	ingredients := req.Ingredients
	if len(ingredients) == 0 {
		ingredients = []string{"fresh seasonal ingredients"}
	}
	n := len(ingredients)

	cuisine := synthCuisines[i%len(synthCuisines)]
	method := synthMethods[i%len(synthMethods)]

	instructions := make([]string, 0, len(synthPrepSteps)+3+len(synthFinalSteps))
	instructions = append(instructions, synthPrepSteps...)
	instructions = append(instructions, method.steps[:]...)
	instructions = append(instructions, synthFinalSteps...)

	lines := make([]string, 0, n)
	for _, ing := range ingredients {
		lines = append(lines, fmt.Sprintf("%s %s", quantityPhrases[p.intn(len(quantityPhrases))], ing))
	}

	return domain.Recipe{
		ID:    uuid.NewString(),
		Title: fmt.Sprintf("%s %s %s", cuisine, method.label, titleCase(ingredients[0])),
		Description: fmt.Sprintf("A %s-inspired %s dish featuring %s.",
			cuisine, method.name, joinIngredients(ingredients)),
		SourceIngredients: req.Ingredients,
		Ingredients:       lines,
		Instructions:      instructions,
		PrepTime:          fmt.Sprintf("%d mins", 10+2*n+5*i),
		CookTime:          fmt.Sprintf("%d mins", 20+10*i),
		Servings:          baseServings + p.intn(servingsRandomSpan),
		Difficulty:        difficultyFor(n),
		Cuisine:           cuisine,
		Nutrition: &domain.NutritionFacts{
			Calories: 250 + 25*n + i*calorieIncrement,
			ProteinG: 5 + 2*n + i*proteinIncrement,
			CarbsG:   15 + 3*n + i*carbsIncrement,
			FatG:     8 + n + i*fatIncrement,
		},
		Restrictions: req.Restrictions,
		Preference:   req.Preference,
	}
}

// titleCase uppercases the first rune of s.
func titleCase(s string) string {
	for idx, r := range s {
		return string(unicode.ToUpper(r)) + s[idx+len(string(r)):]
	}
	return s
}
