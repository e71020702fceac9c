package parse

import (
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/hammamikhairi/snapchef/internal/domain"
	"github.com/hammamikhairi/snapchef/internal/logger"
)

// Option configures the Parser.
type Option func(*Parser)

// WithRand replaces the randomness source used for default fills and
// fallback synthesis (fixed seed ⇒ deterministic output in tests).
func WithRand(rng *rand.Rand) Option {
	return func(p *Parser) { p.rng = rng }
}

// Parser maps raw model text into typed domain records. Safe for
// concurrent use.
type Parser struct {
	log *logger.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewParser creates a parser with the given logger and options.
func NewParser(log *logger.Logger, opts ...Option) *Parser {
	p := &Parser{
		log: log,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// intn returns a value in [0,n) from the guarded rng.
func (p *Parser) intn(n int) int {
	p.rngMu.Lock()
	defer p.rngMu.Unlock()
	return p.rng.Intn(n)
}

// Ingredients parses model text into ingredient names. It tries a strict
// JSON string-array parse of the extracted span first, then falls back to
// a text heuristic. An empty result after both paths is an error —
// fabricating ingredients would be actively misleading.
func (p *Parser) Ingredients(raw string) ([]string, error) {
	if span, ok := ExtractArray(raw); ok {
		var items []string
		if err := json.Unmarshal([]byte(span), &items); err == nil && len(items) > 0 {
			// The model already returns trimmed, non-empty names on this
			// path; no further filtering.
			return items, nil
		}
		p.log.Debug("parse: extracted span is not a string array, using text heuristic")
	}

	items := heuristicIngredients(raw)
	if len(items) == 0 {
		return nil, domain.ErrNoIngredients
	}
	p.log.Info("parse: heuristic extraction recovered %d ingredients", len(items))
	return items, nil
}

// heuristicIngredients splits free-form text into candidate ingredient
// names: fragments between delimiters, trimmed, longer than two
// characters, deduplicated by exact text. Order is set semantics.
func heuristicIngredients(raw string) []string {
	fragments := strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', '.', '\n', '[', ']', '"':
			return true
		}
		return false
	})

	seen := make(map[string]struct{}, len(fragments))
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if len(f) <= 2 {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
