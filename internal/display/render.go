// Package display renders detection and generation results for the
// terminal. Pure formatting — it holds no state and makes no decisions.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/snapchef/internal/domain"
)

// ── Styles (soft palette) ────────────────────────────────────────

var (
	// Title — soft mint for recipe names.
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	// Primary text — light zinc for instructions and ingredients.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text — dimmed zinc for metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Tags — soft sky blue for restriction/preference badges.
	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))
)

// Ingredients renders a detected ingredient list.
func Ingredients(names []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Detected %d ingredients", len(names))))
	b.WriteString("\n")
	for _, name := range names {
		b.WriteString(primaryStyle.Render("  • " + name))
		b.WriteString("\n")
	}
	return b.String()
}

// Recipe renders one full recipe record.
func Recipe(r domain.Recipe) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(r.Title))
	b.WriteString("\n")
	b.WriteString(secondaryStyle.Render(r.Description))
	b.WriteString("\n")

	meta := fmt.Sprintf("%s · prep %s · cook %s · serves %d · %s",
		r.Cuisine, r.PrepTime, r.CookTime, r.Servings, r.Difficulty)
	b.WriteString(secondaryStyle.Render(meta))
	b.WriteString("\n")

	if tags := renderTags(r); tags != "" {
		b.WriteString(tagStyle.Render(tags))
		b.WriteString("\n")
	}

	if len(r.Ingredients) > 0 {
		b.WriteString(sepStyle.Render("— ingredients —"))
		b.WriteString("\n")
		for _, line := range r.Ingredients {
			b.WriteString(primaryStyle.Render("  • " + line))
			b.WriteString("\n")
		}
	}

	b.WriteString(sepStyle.Render("— instructions —"))
	b.WriteString("\n")
	for i, step := range r.Instructions {
		b.WriteString(primaryStyle.Render(fmt.Sprintf("  %d. %s", i+1, step)))
		b.WriteString("\n")
	}

	if r.Nutrition != nil {
		b.WriteString(secondaryStyle.Render(fmt.Sprintf(
			"per serving: %d kcal · %dg protein · %dg carbs · %dg fat",
			r.Nutrition.Calories, r.Nutrition.ProteinG, r.Nutrition.CarbsG, r.Nutrition.FatG)))
		b.WriteString("\n")
	}

	return b.String()
}

// Recipes renders a batch of recipes separated by rules.
func Recipes(recipes []domain.Recipe) string {
	parts := make([]string, 0, len(recipes))
	for _, r := range recipes {
		parts = append(parts, Recipe(r))
	}
	rule := sepStyle.Render(strings.Repeat("─", 48))
	return strings.Join(parts, rule+"\n")
}

func renderTags(r domain.Recipe) string {
	tags := make([]string, 0, len(r.Restrictions)+1)
	for _, restriction := range r.Restrictions {
		tags = append(tags, "["+string(restriction)+"]")
	}
	if r.Preference != domain.PreferenceNone {
		tags = append(tags, "["+string(r.Preference)+"]")
	}
	return strings.Join(tags, " ")
}
