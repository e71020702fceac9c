package chef

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/snapchef/internal/domain"
)

// Prompts live here so wording changes are a single-file edit.
// Keep them concise — every token costs money and latency.

// promptDetectSystem frames the vision call.
const promptDetectSystem = `You are SnapChef, a culinary vision assistant. You identify food ingredients in photos precisely and conservatively — never guess at items you cannot see.`

// promptDetectUser asks for a bare JSON array so the extractor has an
// easy job. The model still wraps it in prose often enough that the
// parser keeps its fallbacks.
const promptDetectUser = `List every distinct food ingredient you can see in this photo.

Respond with a JSON array of ingredient name strings and nothing else. Example:
["tomato", "basil", "mozzarella"]

Each name must be lowercase, trimmed, and longer than two characters. Do not include non-food items, brands, or duplicate entries.`

// promptGenerateSystem frames the recipe-generation call.
const promptGenerateSystem = `You are SnapChef, a creative recipe developer. You build complete, practical recipes from whatever ingredients the user has on hand, honoring every dietary restriction without exception.`

// buildGeneratePrompt renders the user message for a generation request.
// The response schema rides inside the prompt.
func buildGeneratePrompt(req domain.GenerateRequest, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create exactly %d different recipes using these ingredients: %s.\n",
		count, strings.Join(req.Ingredients, ", "))

	if len(req.Restrictions) > 0 {
		tags := make([]string, len(req.Restrictions))
		for i, r := range req.Restrictions {
			tags[i] = string(r)
		}
		fmt.Fprintf(&b, "Every recipe MUST be %s.\n", strings.Join(tags, " and "))
	}
	if req.Preference != domain.PreferenceNone {
		fmt.Fprintf(&b, "Lean toward %s dishes.\n", req.Preference)
	}

	b.WriteString(`
Respond with a JSON array of recipe objects and nothing else — no markdown fences, no explanation outside the JSON. Schema per object:
{
  "title": "Recipe name",
  "description": "One or two sentences.",
  "ingredients": ["2 cups of rice", "..."],
  "instructions": ["Step one.", "Step two.", "..."],
  "prepTime": "15 mins",
  "cookTime": "30 mins",
  "servings": 4,
  "difficulty": "Easy",
  "cuisine": "Italian",
  "nutritionFacts": {"calories": 450, "protein": 20, "carbs": 55, "fat": 12}
}`)

	return b.String()
}
