package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cliniscribe/cliniscribe/internal/domain/providers"
	"github.com/cliniscribe/cliniscribe/pkg/config"
	"github.com/cliniscribe/cliniscribe/pkg/retry"
)

// maxInputChars bounds the statement sent to the model; classifiers
// truncate long inputs anyway and oversized payloads waste quota.
const maxInputChars = 512

// Client calls a hosted sentiment classification endpoint. It implements
// providers.SentimentClassifier.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *tokenBucket
	retryCfg   retry.Config
}

// NewClient creates a new inference client. A missing endpoint URL is a
// configuration error surfaced at startup, not per-statement.
func NewClient(cfg *config.InferenceConfig) (*Client, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("%w: inference endpoint not configured", providers.ErrClassifierUnavailable)
	}

	model := cfg.Model
	if model == "" {
		model = "distilbert-sst2"
	}

	return &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		limiter:  newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst),
		retryCfg: retry.DefaultConfig(),
	}, nil
}

type classifyRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type classifyResponse struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify sends one statement to the model endpoint and returns its raw
// label and score. Transient failures are retried with backoff; 4xx
// responses are not.
func (c *Client) Classify(ctx context.Context, text string) (providers.RawClassification, error) {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			recordInferenceMetric(ctx, c.model, 0, err)
			return providers.RawClassification{}, err
		}
		recordInferenceRateLimitWait(ctx, c.model, time.Since(waitStart))
	}

	input := truncateInput(text, maxInputChars)

	body, err := json.Marshal(classifyRequest{Model: c.model, Input: input})
	if err != nil {
		return providers.RawClassification{}, err
	}

	var result classifyResponse
	start := time.Now()

	err = retry.Do(ctx, c.retryCfg, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/classify", bytes.NewReader(body))
		if reqErr != nil {
			return &retry.Permanent{Err: reqErr}
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return &retry.Permanent{Err: fmt.Errorf("%w: inference request rejected with status %d", providers.ErrClassifierUnavailable, resp.StatusCode)}
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("inference request failed with status %d", resp.StatusCode)
		}

		if decErr := json.NewDecoder(resp.Body).Decode(&result); decErr != nil {
			return &retry.Permanent{Err: fmt.Errorf("decode inference response: %w", decErr)}
		}
		return nil
	})

	recordInferenceMetric(ctx, c.model, time.Since(start), err)
	if err != nil {
		return providers.RawClassification{}, err
	}

	if result.Label == "" {
		return providers.RawClassification{}, errors.New("inference response missing label")
	}

	return providers.RawClassification{Label: result.Label, Score: result.Score}, nil
}

// truncateInput cuts the statement to at most max bytes without splitting
// a multi-byte rune at the boundary.
func truncateInput(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}

	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
	}
	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			select {
			case bucket.tokens <- struct{}{}:
			default:
			}
		}
	}()

	return bucket
}

type tokenBucket struct {
	tokens chan struct{}
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

type inferenceMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	rateLimitWait   metric.Float64Histogram
}

var (
	metricsOnce    sync.Once
	clientMetrics  inferenceMetrics
	metricsEnabled bool
)

func ensureInferenceMetrics() {
	meter := otel.Meter("github.com/cliniscribe/cliniscribe/inference")

	requestCount, err := meter.Int64Counter(
		"inference.client.request.count",
		metric.WithDescription("Number of inference requests"),
	)
	if err != nil {
		return
	}
	requestDuration, err := meter.Float64Histogram(
		"inference.client.request.duration",
		metric.WithDescription("Inference request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}
	requestErrors, err := meter.Int64Counter(
		"inference.client.request.errors",
		metric.WithDescription("Number of failed inference requests"),
	)
	if err != nil {
		return
	}
	rateLimitWait, err := meter.Float64Histogram(
		"inference.client.rate_limit.wait",
		metric.WithDescription("Time spent waiting on the client-side rate limiter in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}

	clientMetrics = inferenceMetrics{
		requestCount:    requestCount,
		requestDuration: requestDuration,
		requestErrors:   requestErrors,
		rateLimitWait:   rateLimitWait,
	}
	metricsEnabled = true
}

func recordInferenceMetric(ctx context.Context, model string, duration time.Duration, err error) {
	metricsOnce.Do(ensureInferenceMetrics)
	if !metricsEnabled {
		return
	}

	attrs := metric.WithAttributes(attribute.String("inference.model", model))
	clientMetrics.requestCount.Add(ctx, 1, attrs)
	if duration > 0 {
		clientMetrics.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
	if err != nil {
		clientMetrics.requestErrors.Add(ctx, 1, attrs)
	}
}

func recordInferenceRateLimitWait(ctx context.Context, model string, wait time.Duration) {
	metricsOnce.Do(ensureInferenceMetrics)
	if !metricsEnabled {
		return
	}
	clientMetrics.rateLimitWait.Record(ctx, float64(wait.Milliseconds()),
		metric.WithAttributes(attribute.String("inference.model", model)))
}
