package chef

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/hammamikhairi/snapchef/internal/anthropic"
	"github.com/hammamikhairi/snapchef/internal/domain"
	"github.com/hammamikhairi/snapchef/internal/imaging"
	"github.com/hammamikhairi/snapchef/internal/logger"
	"github.com/hammamikhairi/snapchef/internal/parse"
)

// scriptedCompleter returns a fixed reply (or error) and records every
// request it sees.
type scriptedCompleter struct {
	reply string
	err   error

	mu   sync.Mutex
	reqs []anthropic.Request
}

func (f *scriptedCompleter) Complete(_ context.Context, req anthropic.Request) (string, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *scriptedCompleter) requests() []anthropic.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]anthropic.Request(nil), f.reqs...)
}

func testChef(completer Completer, opts ...Option) *Chef {
	log := logger.New(logger.LevelOff, nil)
	normalizer := imaging.NewNormalizer(log)
	parser := parse.NewParser(log, parse.WithRand(rand.New(rand.NewSource(1))))
	return New(completer, normalizer, parser, log, opts...)
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 4), uint8(y * 5), 90, 255})
		}
	}
	return img
}

func TestDetectIngredients(t *testing.T) {
	completer := &scriptedCompleter{reply: `Certainly! ["tomato", "basil", "mozzarella"] — happy cooking.`}
	c := testChef(completer)

	got, err := c.DetectIngredients(context.Background(), testImage())
	if err != nil {
		t.Fatalf("DetectIngredients: %v", err)
	}
	want := []string{"tomato", "basil", "mozzarella"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ingredients = %v, want %v", got, want)
	}

	reqs := completer.requests()
	if len(reqs) != 1 {
		t.Fatalf("completer saw %d requests, want 1", len(reqs))
	}
	req := reqs[0]
	if req.MaxTokens != detectMaxTokens || req.Temperature != detectTemperature {
		t.Errorf("sampling = (%d, %v), want (%d, %v)",
			req.MaxTokens, req.Temperature, detectMaxTokens, detectTemperature)
	}
	if len(req.Messages) != 1 || len(req.Messages[0].Content) != 2 {
		t.Fatalf("message shape = %+v, want one user message with text+image", req.Messages)
	}
	img := req.Messages[0].Content[1]
	if img.Type != "image" || img.Source == nil {
		t.Fatalf("second block = %+v, want inline image", img)
	}
	if img.Source.Type != "base64" || img.Source.MediaType != "image/jpeg" {
		t.Errorf("image source = %+v, want base64 image/jpeg", img.Source)
	}
	if img.Source.Data == "" {
		t.Error("image source carries no data")
	}
}

func TestDetectIngredientsPreprocessingFailure(t *testing.T) {
	completer := &scriptedCompleter{reply: `["tomato"]`}
	c := testChef(completer)

	_, err := c.DetectIngredients(context.Background(), nil)
	if !errors.Is(err, domain.ErrImagePreprocessing) {
		t.Fatalf("error = %v, want ErrImagePreprocessing", err)
	}
	if len(completer.requests()) != 0 {
		t.Error("network call attempted despite preprocessing failure")
	}
}

func TestDetectIngredientsUnrecoverableAnswer(t *testing.T) {
	// Nothing extractable from the reply: detection must propagate, never
	// invent ingredients.
	completer := &scriptedCompleter{reply: "!!"}
	c := testChef(completer)

	_, err := c.DetectIngredients(context.Background(), testImage())
	if !errors.Is(err, domain.ErrNoIngredients) {
		t.Fatalf("error = %v, want ErrNoIngredients", err)
	}
}

func TestDetectIngredientsTransportFailure(t *testing.T) {
	wantErr := &anthropic.TransportError{Category: anthropic.CategoryServerExhausted}
	completer := &scriptedCompleter{err: wantErr}
	c := testChef(completer)

	_, err := c.DetectIngredients(context.Background(), testImage())
	var terr *anthropic.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
}

func TestGenerateRecipesCountGuarantee(t *testing.T) {
	req := domain.GenerateRequest{
		Ingredients:  []string{"rice", "egg"},
		Restrictions: []domain.DietaryRestriction{domain.Vegetarian},
		Preference:   domain.Quick,
		Count:        4,
	}

	// Whatever the model says, the caller gets exactly Count recipes.
	for _, reply := range []string{
		`[{"title": "Egg Fried Rice", "instructions": ["Cook."]}]`,
		"total nonsense",
		"",
	} {
		completer := &scriptedCompleter{reply: reply}
		c := testChef(completer)

		recipes, err := c.GenerateRecipes(context.Background(), req)
		if err != nil {
			t.Fatalf("reply %q: %v", reply, err)
		}
		if len(recipes) != 4 {
			t.Errorf("reply %q: got %d recipes, want 4", reply, len(recipes))
		}
		for i, r := range recipes {
			if r.Title == "" || len(r.Instructions) == 0 {
				t.Errorf("reply %q recipe %d: incomplete record %+v", reply, i, r)
			}
			if !reflect.DeepEqual(r.Restrictions, req.Restrictions) || r.Preference != req.Preference {
				t.Errorf("reply %q recipe %d: constraints not echoed", reply, i)
			}
		}
	}
}

func TestGenerateRecipesPromptCarriesConstraints(t *testing.T) {
	completer := &scriptedCompleter{reply: "[]"}
	c := testChef(completer)

	_, err := c.GenerateRecipes(context.Background(), domain.GenerateRequest{
		Ingredients:  []string{"rice", "egg"},
		Restrictions: []domain.DietaryRestriction{domain.Vegan, domain.NutFree},
		Preference:   domain.Healthy,
		Count:        2,
	})
	if err != nil {
		t.Fatalf("GenerateRecipes: %v", err)
	}

	reqs := completer.requests()
	if len(reqs) != 1 {
		t.Fatalf("completer saw %d requests, want 1", len(reqs))
	}
	req := reqs[0]
	if req.MaxTokens != generateMaxTokens || req.Temperature != generateTemperature {
		t.Errorf("sampling = (%d, %v), want (%d, %v)",
			req.MaxTokens, req.Temperature, generateMaxTokens, generateTemperature)
	}
	prompt := req.Messages[0].Content[0].Text
	for _, fragment := range []string{"exactly 2", "rice, egg", "vegan and nut-free", "healthy"} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
}

func TestGenerateRecipesTransportFailurePropagates(t *testing.T) {
	completer := &scriptedCompleter{err: &anthropic.TransportError{Category: anthropic.CategoryNetwork}}
	c := testChef(completer)

	_, err := c.GenerateRecipes(context.Background(), domain.GenerateRequest{Ingredients: []string{"rice"}})
	if err == nil {
		t.Fatal("expected transport error to propagate")
	}
}

func TestDetectIngredientsBatch(t *testing.T) {
	completer := &scriptedCompleter{reply: `["tomato", "basil"]`}
	c := testChef(completer, WithBatchLimit(2))

	results, err := c.DetectIngredientsBatch(context.Background(), []image.Image{testImage(), testImage(), testImage()})
	if err != nil {
		t.Fatalf("DetectIngredientsBatch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	want := []string{"tomato", "basil"}
	for i, r := range results {
		if !reflect.DeepEqual(r, want) {
			t.Errorf("result %d = %v, want %v", i, r, want)
		}
	}
	if len(completer.requests()) != 3 {
		t.Errorf("completer saw %d requests, want 3", len(completer.requests()))
	}
}
