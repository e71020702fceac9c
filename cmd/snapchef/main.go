// SnapChef — turn a photo of your fridge into recipes.
//
// Usage:
//
//	snapchef -image fridge.jpg
//	snapchef -ingredients "tomato, basil, mozzarella" -restrictions vegetarian -count 3
//	snapchef -image fridge.jpg -preference quick
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/snapchef/internal/anthropic"
	"github.com/hammamikhairi/snapchef/internal/chef"
	"github.com/hammamikhairi/snapchef/internal/display"
	"github.com/hammamikhairi/snapchef/internal/domain"
	"github.com/hammamikhairi/snapchef/internal/imaging"
	"github.com/hammamikhairi/snapchef/internal/logger"
	"github.com/hammamikhairi/snapchef/internal/parse"
)

func main() {
	_ = godotenv.Load()

	imagePath := flag.String("image", "", "photo to detect ingredients from")
	ingredientsFlag := flag.String("ingredients", "", "comma-separated ingredient list (skips detection)")
	restrictionsFlag := flag.String("restrictions", "", "comma-separated dietary restrictions (vegan, vegetarian, gluten-free, dairy-free, nut-free, kosher, halal)")
	preferenceFlag := flag.String("preference", "", "optional style preference (sweet, savory, baked, grilled, fried, healthy, quick, gourmet)")
	count := flag.Int("count", domain.DefaultRecipeCount, "number of recipes to generate")
	rps := flag.Float64("rate", 0, "client-side request rate limit in calls/sec (0 = unlimited)")
	detectOnly := flag.Bool("detect-only", false, "stop after ingredient detection")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", "", "file to write logs to (default: stderr)")
	flag.Parse()

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	apiKey := os.Getenv(anthropic.EnvAPIKey)
	if apiKey == "" {
		fmt.Fprintf(os.Stderr, "error: %s is not set\n", anthropic.EnvAPIKey)
		os.Exit(1)
	}

	if *imagePath == "" && *ingredientsFlag == "" {
		fmt.Fprintln(os.Stderr, "error: provide -image or -ingredients")
		flag.Usage()
		os.Exit(2)
	}

	restrictions, preference, err := parseConstraints(*restrictionsFlag, *preferenceFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	// Cancelled on Ctrl-C so pending backoff waits are abandoned cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Wire dependencies.
	var clientOpts []anthropic.ClientOption
	if *rps > 0 {
		clientOpts = append(clientOpts, anthropic.WithRateLimit(*rps, 1))
	}
	client := anthropic.NewClient(apiKey, log, clientOpts...)
	normalizer := imaging.NewNormalizer(log)
	parser := parse.NewParser(log)
	snapchef := chef.New(client, normalizer, parser, log)

	ingredients := splitList(*ingredientsFlag)
	if *imagePath != "" {
		img, err := loadImage(*imagePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		detected, err := snapchef.DetectIngredients(ctx, img)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(display.Ingredients(detected))
		ingredients = append(ingredients, detected...)
	}

	if *detectOnly {
		return
	}

	recipes, err := snapchef.GenerateRecipes(ctx, domain.GenerateRequest{
		Ingredients:  ingredients,
		Restrictions: restrictions,
		Preference:   preference,
		Count:        *count,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(display.Recipes(recipes))
}

// parseConstraints validates the restriction and preference flags.
func parseConstraints(restrictions, preference string) ([]domain.DietaryRestriction, domain.Preference, error) {
	var parsed []domain.DietaryRestriction
	seen := make(map[domain.DietaryRestriction]struct{})
	for _, tag := range splitList(restrictions) {
		r, err := domain.ParseRestriction(tag)
		if err != nil {
			return nil, domain.PreferenceNone, err
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		parsed = append(parsed, r)
	}

	pref, err := domain.ParsePreference(preference)
	if err != nil {
		return nil, domain.PreferenceNone, err
	}
	return parsed, pref, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}
	return img, nil
}
