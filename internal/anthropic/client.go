// Package anthropic is the resilient transport to the Anthropic Messages
// API. It builds authenticated requests, retries transient failures with
// exponential backoff, and recovers the assistant's text from the several
// response envelopes the endpoint has been observed to return.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/hammamikhairi/snapchef/internal/domain"
	"github.com/hammamikhairi/snapchef/internal/logger"
)

// DefaultEndpoint is the production messages endpoint.
const DefaultEndpoint = "https://api.anthropic.com/v1/messages"

// DefaultModel is used when a Request leaves Model empty.
const DefaultModel = "claude-3-haiku-20240307"

// EnvAPIKey is the environment variable holding the API key.
const EnvAPIKey = "ANTHROPIC_API_KEY"

const (
	apiVersion     = "2023-06-01"
	attemptTimeout = 60 * time.Second

	// defaultMaxRetries retries ⇒ defaultMaxRetries+1 total attempts.
	defaultMaxRetries = 3
)

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithEndpoint overrides the messages endpoint URL.
func WithEndpoint(url string) ClientOption {
	return func(c *Client) { c.endpoint = url }
}

// WithModel overrides the default model name.
func WithModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

// WithHTTPClient replaces the underlying HTTP client. The per-attempt
// timeout on the provided client is respected as-is.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithMaxRetries sets the retry budget (n retries = n+1 attempts).
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) { c.maxRetries = n }
}

// WithSleeper replaces the backoff wait implementation.
func WithSleeper(s Sleeper) ClientOption {
	return func(c *Client) { c.sleeper = s }
}

// WithRateLimit gates outbound attempts through a client-side token
// bucket, as politeness toward the rate-limited endpoint.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithRand replaces the jitter randomness source (fixed seed in tests).
func WithRand(rng *rand.Rand) ClientOption {
	return func(c *Client) { c.rng = rng }
}

// Client talks to the Anthropic messages endpoint. Safe for concurrent
// use: every logical call owns its own request envelope and retry state.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	maxRetries int
	http       *http.Client
	sleeper    Sleeper
	limiter    *rate.Limiter
	log        *logger.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewClient creates a messages client with the given API key.
func NewClient(apiKey string, log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		apiKey:     apiKey,
		model:      DefaultModel,
		maxRetries: defaultMaxRetries,
		http:       &http.Client{Timeout: attemptTimeout},
		sleeper:    timerSleeper{},
		log:        log,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// jitter returns a uniform value in [0,1). The shared rng is guarded so
// concurrent calls stay safe.
func (c *Client) jitter() float64 {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Float64()
}

// Complete sends a messages request and returns the assistant's text.
// Network errors and 5xx responses are retried with exponential backoff
// (plus jitter for 5xx); everything else is terminal. Retries are
// sequential, and each attempt constructs a fresh HTTP request.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if req.Model == "" {
		req.Model = c.model
	}

	// Short ID tagging every log line of this logical call.
	callID := uuid.NewString()[:8]

	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", &TransportError{Category: CategoryNetwork, Err: err, Message: "rate limit wait aborted"}
			}
		}

		c.log.Debug("anthropic[%s]: attempt %d/%d", callID, attempt+1, c.maxRetries+1)

		text, terr := c.attempt(ctx, req)
		if terr == nil {
			c.log.Debug("anthropic[%s]: success (%d chars)", callID, len(text))
			return text, nil
		}

		if !terr.retryable {
			c.log.Error("anthropic[%s]: terminal failure: %v", callID, terr)
			return "", terr
		}
		if attempt >= c.maxRetries {
			c.log.Error("anthropic[%s]: retry budget exhausted: %v", callID, terr)
			return "", terr
		}

		delay := backoffDelay(attempt, terr.jitter, c.jitter)
		c.log.Warn("anthropic[%s]: %s, retrying in %s", callID, terr.Category, delay)
		if err := c.sleeper.Sleep(ctx, delay); err != nil {
			return "", &TransportError{Category: CategoryNetwork, Err: err, Message: "cancelled during backoff"}
		}
	}
}

// attempt performs one HTTP round-trip and classifies the outcome.
func (c *Client) attempt(ctx context.Context, req Request) (string, *TransportError) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", &TransportError{Category: CategoryMalformedResponse, Err: err, Message: "marshal request"}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &TransportError{Category: CategoryNetwork, Err: err, Message: "create request"}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		// Caller cancellation is not a transient network blip; don't burn
		// retries on it. A per-attempt timeout leaves ctx alive and is
		// retried like any other connection failure.
		if ctx.Err() != nil {
			return "", &TransportError{Category: CategoryNetwork, Err: err, Message: "request aborted"}
		}
		return "", &TransportError{Category: CategoryNetwork, Err: err, Message: "request failed", retryable: true}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Category: CategoryNetwork, Err: err, Message: "read response", retryable: true}
	}

	switch {
	case resp.StatusCode >= 500:
		return "", &TransportError{
			Category:   CategoryServerExhausted,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			Message:    "server error",
			retryable:  true,
			jitter:     true,
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return "", &TransportError{
			Category:   CategoryHTTPClient,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			Message:    fmt.Sprintf("request rejected: %s", string(respBody)),
		}
	}

	if len(respBody) == 0 {
		return "", &TransportError{
			Category: CategoryMalformedResponse,
			Err:      domain.ErrEmptyResponse,
			Message:  "no data received",
		}
	}
	return extractText(respBody)
}

// extractText pulls the assistant's text out of the response envelope,
// probing the known shapes in order.
func extractText(body []byte) (string, *TransportError) {
	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", &TransportError{Category: CategoryMalformedResponse, Err: err, Message: "response not JSON"}
	}

	if envelope.Message != nil && len(envelope.Message.Content) > 0 {
		return envelope.Message.Content[0].Text, nil
	}
	if len(envelope.Content) > 0 {
		return envelope.Content[0].Text, nil
	}
	if envelope.Completion != "" {
		return envelope.Completion, nil
	}
	if envelope.Error != nil {
		return "", &TransportError{Category: CategoryApplication, Message: envelope.Error.Message}
	}
	return "", &TransportError{Category: CategoryMalformedResponse, Message: "unrecognized response structure"}
}
