package domain

import (
	"fmt"
	"strings"
)

// DietaryRestriction is a hard constraint a recipe must respect.
// The set is closed; use ParseRestriction for inbound strings.
type DietaryRestriction string

const (
	Vegan      DietaryRestriction = "vegan"
	Vegetarian DietaryRestriction = "vegetarian"
	GlutenFree DietaryRestriction = "gluten-free"
	DairyFree  DietaryRestriction = "dairy-free"
	NutFree    DietaryRestriction = "nut-free"
	Kosher     DietaryRestriction = "kosher"
	Halal      DietaryRestriction = "halal"
)

// Restrictions lists every valid dietary restriction.
var Restrictions = []DietaryRestriction{
	Vegan, Vegetarian, GlutenFree, DairyFree, NutFree, Kosher, Halal,
}

// ParseRestriction validates a restriction tag. Matching is case-insensitive.
func ParseRestriction(s string) (DietaryRestriction, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, r := range Restrictions {
		if string(r) == needle {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown dietary restriction %q", s)
}

// Preference is an optional style nudge for generation. At most one per
// request; the zero value means no preference.
type Preference string

const (
	PreferenceNone Preference = ""

	Sweet   Preference = "sweet"
	Savory  Preference = "savory"
	Baked   Preference = "baked"
	Grilled Preference = "grilled"
	Fried   Preference = "fried"
	Healthy Preference = "healthy"
	Quick   Preference = "quick"
	Gourmet Preference = "gourmet"
)

// Preferences lists every valid recipe preference.
var Preferences = []Preference{
	Sweet, Savory, Baked, Grilled, Fried, Healthy, Quick, Gourmet,
}

// ParsePreference validates a preference tag. An empty string is valid and
// means no preference.
func ParsePreference(s string) (Preference, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return PreferenceNone, nil
	}
	for _, p := range Preferences {
		if string(p) == needle {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preference %q", s)
}
