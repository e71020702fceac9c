package display

import (
	"strings"
	"testing"

	"github.com/hammamikhairi/snapchef/internal/domain"
)

func sampleRecipe() domain.Recipe {
	return domain.Recipe{
		ID:           "r1",
		Title:        "Caprese Salad",
		Description:  "A classic Italian starter.",
		Ingredients:  []string{"3 tomatoes, sliced", "fresh basil leaves"},
		Instructions: []string{"Slice the tomatoes.", "Layer with basil."},
		PrepTime:     "10 mins",
		CookTime:     "0 mins",
		Servings:     4,
		Difficulty:   "Easy",
		Cuisine:      "Italian",
		Nutrition:    &domain.NutritionFacts{Calories: 220, ProteinG: 12, CarbsG: 6, FatG: 16},
		Restrictions: []domain.DietaryRestriction{domain.Vegetarian},
		Preference:   domain.Quick,
	}
}

func TestRecipeRendersEveryField(t *testing.T) {
	out := Recipe(sampleRecipe())

	for _, want := range []string{
		"Caprese Salad",
		"A classic Italian starter.",
		"3 tomatoes, sliced",
		"1. Slice the tomatoes.",
		"2. Layer with basil.",
		"serves 4",
		"[vegetarian]",
		"[quick]",
		"220 kcal",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered recipe missing %q:\n%s", want, out)
		}
	}
}

func TestRecipeWithoutNutritionOrTags(t *testing.T) {
	r := sampleRecipe()
	r.Nutrition = nil
	r.Restrictions = nil
	r.Preference = domain.PreferenceNone

	out := Recipe(r)
	if strings.Contains(out, "kcal") {
		t.Error("nutrition line rendered for recipe without facts")
	}
	if strings.Contains(out, "[") {
		t.Error("tag badges rendered for unconstrained recipe")
	}
}

func TestIngredients(t *testing.T) {
	out := Ingredients([]string{"tomato", "basil"})
	for _, want := range []string{"Detected 2 ingredients", "tomato", "basil"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered list missing %q:\n%s", want, out)
		}
	}
}
