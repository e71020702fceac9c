// Package chef composes the image normalizer, the Anthropic transport,
// and the response parser into the two public operations: detecting
// ingredients from a photo, and generating recipes from an ingredient
// list. It is the single entry-point callers use for AI-powered features.
package chef

import (
	"context"
	"encoding/base64"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/snapchef/internal/anthropic"
	"github.com/hammamikhairi/snapchef/internal/domain"
	"github.com/hammamikhairi/snapchef/internal/imaging"
	"github.com/hammamikhairi/snapchef/internal/logger"
	"github.com/hammamikhairi/snapchef/internal/parse"
)

// Per-operation sampling parameters.
const (
	detectMaxTokens   = 1000
	detectTemperature = 0.7

	generateMaxTokens   = 4000
	generateTemperature = 0.8
)

// defaultBatchLimit bounds concurrent detections in a batch call.
const defaultBatchLimit = 4

// Compile-time interface checks.
var (
	_ domain.IngredientDetector = (*Chef)(nil)
	_ domain.RecipeGenerator    = (*Chef)(nil)
)

// Completer is the transport dependency. Satisfied by
// *anthropic.Client; tests swap in a scripted fake.
type Completer interface {
	Complete(ctx context.Context, req anthropic.Request) (string, error)
}

// Option configures the Chef.
type Option func(*Chef)

// WithBatchLimit caps how many detections run concurrently in
// DetectIngredientsBatch.
func WithBatchLimit(n int) Option {
	return func(c *Chef) { c.batchLimit = n }
}

// Chef orchestrates the core operations. Each call owns its own request
// state; a Chef is safe for concurrent use.
type Chef struct {
	completer  Completer
	normalizer *imaging.Normalizer
	parser     *parse.Parser
	log        *logger.Logger
	batchLimit int
}

// New creates a chef with the given collaborators.
func New(completer Completer, normalizer *imaging.Normalizer, parser *parse.Parser, log *logger.Logger, opts ...Option) *Chef {
	c := &Chef{
		completer:  completer,
		normalizer: normalizer,
		parser:     parser,
		log:        log,
		batchLimit: defaultBatchLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DetectIngredients identifies the food ingredients visible in img.
// Preprocessing failures and exhausted transport failures propagate; an
// answer from which no ingredient can be recovered propagates as
// domain.ErrNoIngredients rather than being papered over.
func (c *Chef) DetectIngredients(ctx context.Context, img image.Image) ([]string, error) {
	payload, err := c.normalizer.Normalize(img)
	if err != nil {
		return nil, err
	}
	if payload.Oversized {
		// Advisory only: the call is still attempted.
		c.log.Warn("chef: image payload is %d bytes after normalization, sending anyway", payload.SizeBytes)
	}

	req := anthropic.Request{
		MaxTokens:   detectMaxTokens,
		Temperature: detectTemperature,
		System:      promptDetectSystem,
		Messages: []anthropic.Message{
			anthropic.UserMessage(
				anthropic.TextBlock(promptDetectUser),
				anthropic.ImageBlock(payload.MediaType, base64.StdEncoding.EncodeToString(payload.Data)),
			),
		},
	}

	raw, err := c.completer.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	ingredients, err := c.parser.Ingredients(raw)
	if err != nil {
		return nil, err
	}
	c.log.Info("chef: detected %d ingredients", len(ingredients))
	return ingredients, nil
}

// GenerateRecipes produces exactly req.Count recipes (default 3). Only
// transport failures propagate; parsing shortfalls are absorbed by
// fallback synthesis so the count guarantee always holds.
func (c *Chef) GenerateRecipes(ctx context.Context, req domain.GenerateRequest) ([]domain.Recipe, error) {
	count := req.Count
	if count <= 0 {
		count = domain.DefaultRecipeCount
	}

	apiReq := anthropic.Request{
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
		System:      promptGenerateSystem,
		Messages: []anthropic.Message{
			anthropic.UserMessage(anthropic.TextBlock(buildGeneratePrompt(req, count))),
		},
	}

	raw, err := c.completer.Complete(ctx, apiReq)
	if err != nil {
		return nil, err
	}

	recipes := c.parser.Recipes(raw, req)
	c.log.Info("chef: produced %d recipes for %d ingredients", len(recipes), len(req.Ingredients))
	return recipes, nil
}

// DetectIngredientsBatch runs detection over several images with bounded
// concurrency. Results are positional; the first failure cancels the
// remaining work.
func (c *Chef) DetectIngredientsBatch(ctx context.Context, imgs []image.Image) ([][]string, error) {
	results := make([][]string, len(imgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchLimit)
	for i, img := range imgs {
		i, img := i, img
		g.Go(func() error {
			detected, err := c.DetectIngredients(ctx, img)
			if err != nil {
				return err
			}
			results[i] = detected
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
