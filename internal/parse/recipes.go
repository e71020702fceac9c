package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hammamikhairi/snapchef/internal/domain"
)

// Defaults applied per field when the model's answer is absent or
// mistyped. Every fallback value and its trigger lives here rather than
// inline in parsing code, so each one is independently testable.
const (
	defaultCookTime    = "20 mins"
	defaultCuisine     = "Fusion"
	defaultCalories    = 300
	defaultProteinG    = 10
	defaultCarbsG      = 30
	defaultFatG        = 15
	easyDifficultyMax  = 4 // at most this many ingredients ⇒ "Easy"
	baseServings       = 2
	servingsRandomSpan = 3 // servings = baseServings + rand(0..2)
)

var defaultInstructions = []string{
	"Prepare all ingredients as listed.",
	"Combine and cook over medium heat until done.",
	"Season to taste and serve.",
}

// recipeWire is the typed partial record decoded from one model JSON
// object. Pointer fields distinguish absent/mistyped from present.
type recipeWire struct {
	Title        *string
	Description  *string
	Ingredients  []string // recipe ingredient lines with quantities
	Instructions []string
	PrepTime     *string
	CookTime     *string
	Servings     *int
	Difficulty   *string
	Cuisine      *string
	Nutrition    *nutritionWire
}

type nutritionWire struct {
	Calories *int `json:"calories"`
	Protein  *int `json:"protein"`
	Carbs    *int `json:"carbs"`
	Fat      *int `json:"fat"`
}

// Recipes parses model text into exactly the requested number of recipe
// records. Parsed records get per-field default fills; a short or absent
// parse is padded with synthesized fallback recipes. This never fails:
// the caller always receives the full count.
func (p *Parser) Recipes(raw string, req domain.GenerateRequest) []domain.Recipe {
	count := req.Count
	if count <= 0 {
		count = domain.DefaultRecipeCount
	}

	out := make([]domain.Recipe, 0, count)
	if span, ok := ExtractArray(raw); ok {
		var elems []json.RawMessage
		if err := json.Unmarshal([]byte(span), &elems); err != nil {
			p.log.Warn("parse: extracted span is not a JSON array, synthesizing all %d recipes", count)
		} else {
			for _, elem := range elems {
				if len(out) == count {
					break
				}
				wire, ok := decodeRecipeWire(elem)
				if !ok {
					p.log.Debug("parse: skipping non-object array element")
					continue
				}
				out = append(out, p.buildRecipe(wire, req))
			}
		}
	} else {
		p.log.Warn("parse: no JSON array in model text, synthesizing all %d recipes", count)
	}

	for i := len(out); i < count; i++ {
		out = append(out, p.synthesizeRecipe(i, req))
	}
	return out
}

// decodeRecipeWire decodes one array element field by field. A mistyped
// field is treated exactly like an absent one.
func decodeRecipeWire(elem json.RawMessage) (recipeWire, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil {
		return recipeWire{}, false
	}

	w := recipeWire{
		Title:        optString(fields["title"]),
		Description:  optString(fields["description"]),
		Ingredients:  optStrings(fields["ingredients"]),
		Instructions: optStrings(fields["instructions"]),
		PrepTime:     optString(fields["prepTime"]),
		CookTime:     optString(fields["cookTime"]),
		Servings:     optInt(fields["servings"]),
		Difficulty:   optString(fields["difficulty"]),
		Cuisine:      optString(fields["cuisine"]),
	}
	if nutRaw, ok := fields["nutritionFacts"]; ok {
		var nut nutritionWire
		if err := json.Unmarshal(nutRaw, &nut); err == nil {
			w.Nutrition = &nut
		}
	}
	return w, true
}

func optString(raw json.RawMessage) *string {
	if raw == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

func optStrings(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func optInt(raw json.RawMessage) *int {
	if raw == nil {
		return nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}

// buildRecipe turns a partial wire record into a complete Recipe,
// filling every absent field with its default.
func (p *Parser) buildRecipe(w recipeWire, req domain.GenerateRequest) domain.Recipe {
	n := len(req.Ingredients)

	r := domain.Recipe{
		ID:                uuid.NewString(),
		SourceIngredients: req.Ingredients,
		Restrictions:      req.Restrictions,
		Preference:        req.Preference,
		CookTime:          defaultCookTime,
		Cuisine:           defaultCuisine,
	}

	if w.Title != nil {
		r.Title = *w.Title
	} else {
		r.Title = fmt.Sprintf("Recipe with %s", firstIngredient(req.Ingredients))
	}

	if w.Description != nil {
		r.Description = *w.Description
	} else {
		r.Description = fmt.Sprintf("A simple dish made with %s.", joinIngredients(req.Ingredients))
	}

	if len(w.Instructions) > 0 {
		r.Instructions = w.Instructions
	} else {
		r.Instructions = defaultInstructions
	}

	if len(w.Ingredients) > 0 {
		r.Ingredients = w.Ingredients
	} else {
		// Degraded: the model gave no quantities. Left empty rather than
		// reconstructed from the input list.
		r.Ingredients = []string{}
		p.log.Warn("parse: model recipe %q has no ingredient quantities", r.Title)
	}

	if w.PrepTime != nil {
		r.PrepTime = *w.PrepTime
	} else {
		r.PrepTime = fmt.Sprintf("%d mins", 5+n*2)
	}

	if w.CookTime != nil {
		r.CookTime = *w.CookTime
	}

	if w.Servings != nil {
		r.Servings = *w.Servings
	} else {
		r.Servings = baseServings + p.intn(servingsRandomSpan)
	}

	if w.Difficulty != nil {
		r.Difficulty = *w.Difficulty
	} else {
		r.Difficulty = difficultyFor(n)
	}

	if w.Cuisine != nil {
		r.Cuisine = *w.Cuisine
	}

	// Nutrition is carried only when the source object has the
	// sub-object; each missing field inside it gets its own default.
	if w.Nutrition != nil {
		r.Nutrition = &domain.NutritionFacts{
			Calories: valueOr(w.Nutrition.Calories, defaultCalories),
			ProteinG: valueOr(w.Nutrition.Protein, defaultProteinG),
			CarbsG:   valueOr(w.Nutrition.Carbs, defaultCarbsG),
			FatG:     valueOr(w.Nutrition.Fat, defaultFatG),
		}
	}

	return r
}

func valueOr(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func difficultyFor(ingredientCount int) string {
	if ingredientCount <= easyDifficultyMax {
		return "Easy"
	}
	return "Medium"
}

func firstIngredient(ingredients []string) string {
	if len(ingredients) == 0 {
		return "fresh ingredients"
	}
	return ingredients[0]
}

func joinIngredients(ingredients []string) string {
	if len(ingredients) == 0 {
		return "fresh ingredients"
	}
	return strings.Join(ingredients, ", ")
}
