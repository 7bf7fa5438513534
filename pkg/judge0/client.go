package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultPollInterval = time.Second

var (
	batchesSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "crackcode",
		Subsystem: "judge0",
		Name:      "batches_submitted_total",
		Help:      "Number of execution batches submitted to the engine",
	})

	pollAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "crackcode",
		Subsystem: "judge0",
		Name:      "poll_attempts_total",
		Help:      "Number of batch polling attempts against the engine",
	})

	remoteFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crackcode",
		Subsystem: "judge0",
		Name:      "remote_failures_total",
		Help:      "Number of failed calls to the execution engine",
	}, []string{"operation"})

	batchWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "crackcode",
		Subsystem: "judge0",
		Name:      "batch_wait_seconds",
		Help:      "Time spent waiting for a batch to reach terminal state",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
)

// ExecutionClient describes the submit/poll contract against the remote
// execution engine.
type ExecutionClient interface {
	SubmitBatch(ctx context.Context, requests []SubmissionRequest) ([]string, error)
	AwaitResults(ctx context.Context, tokens []string) ([]SubmissionResult, error)
}

// ClientConfig defines configuration options for the engine client.
type ClientConfig struct {
	BaseURL      string
	APIKey       string
	APIHost      string
	PollInterval time.Duration
	HTTPClient   *http.Client
	Logger       zerolog.Logger
}

// Client talks to a Judge0-compatible execution engine over HTTP.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	apiHost      string
	pollInterval time.Duration
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// NewClient constructs an engine client from the provided configuration.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		apiHost:      cfg.APIHost,
		pollInterval: pollInterval,
		logger:       cfg.Logger.With().Str("component", "judge0_client").Logger(),
		tracer:       otel.Tracer("github.com/vaishnaviugal12/CrackCode/pkg/judge0"),
	}
}

type batchCreatePayload struct {
	Submissions []SubmissionRequest `json:"submissions"`
}

type tokenEnvelope struct {
	Token string `json:"token"`
}

type batchResultsEnvelope struct {
	Submissions []SubmissionResult `json:"submissions"`
}

// SubmitBatch creates one execution job per request in a single remote call
// and returns the engine's opaque tokens, one per request in request order.
// The call is single-shot: it spends execution quota and is never retried
// internally, so callers must construct requests once and submit once.
func (c *Client) SubmitBatch(parent context.Context, requests []SubmissionRequest) ([]string, error) {
	if len(requests) == 0 {
		return nil, ErrEmptyBatch
	}

	ctx, span := c.tracer.Start(parent, "judge0.submit_batch", trace.WithAttributes(
		attribute.Int("batch.size", len(requests)),
	))
	defer span.End()

	body, err := json.Marshal(batchCreatePayload{Submissions: requests})
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}

	url := fmt.Sprintf("%s/submissions/batch?base64_encoded=false", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build batch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		remoteFailures.WithLabelValues("submit").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		remoteFailures.WithLabelValues("submit").Inc()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("%w: unexpected status %d: %s", ErrRemoteUnavailable, resp.StatusCode, strings.TrimSpace(string(detail)))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var envelopes []tokenEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelopes); err != nil {
		remoteFailures.WithLabelValues("submit").Inc()
		return nil, fmt.Errorf("decode batch response: %w", err)
	}

	if len(envelopes) != len(requests) {
		return nil, fmt.Errorf("engine returned %d tokens for %d submissions", len(envelopes), len(requests))
	}

	tokens := make([]string, len(envelopes))
	for i, envelope := range envelopes {
		if envelope.Token == "" {
			return nil, fmt.Errorf("engine returned an empty token at index %d", i)
		}
		tokens[i] = envelope.Token
	}

	batchesSubmitted.Inc()
	c.logger.Debug().Int("batch_size", len(tokens)).Msg("batch submitted")

	return tokens, nil
}

// AwaitResults polls the engine for the full batch on a fixed interval until
// every token has reached a terminal state, returning results in token order.
// A malformed or incomplete payload counts as "not yet ready" and is retried;
// transport failures are logged and retried on the same cadence. The loop has
// no deadline of its own: callers bound it through the context, and expiry
// surfaces as the context's error.
func (c *Client) AwaitResults(parent context.Context, tokens []string) ([]SubmissionResult, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyBatch
	}

	ctx, span := c.tracer.Start(parent, "judge0.await_results", trace.WithAttributes(
		attribute.Int("batch.size", len(tokens)),
	))
	defer span.End()

	start := time.Now()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		pollAttempts.Inc()

		results, err := c.fetchBatch(ctx, tokens)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				span.SetStatus(codes.Error, ctx.Err().Error())
				return nil, ctx.Err()
			}
			c.logger.Warn().Err(err).Msg("batch poll failed, retrying")
		case allTerminal(results, len(tokens)):
			batchWaitSeconds.Observe(time.Since(start).Seconds())
			return results, nil
		}

		select {
		case <-ctx.Done():
			span.SetStatus(codes.Error, ctx.Err().Error())
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) fetchBatch(ctx context.Context, tokens []string) ([]SubmissionResult, error) {
	url := fmt.Sprintf("%s/submissions/batch?tokens=%s&base64_encoded=false&fields=*", c.baseURL, strings.Join(tokens, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		remoteFailures.WithLabelValues("poll").Inc()
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		remoteFailures.WithLabelValues("poll").Inc()
		return nil, fmt.Errorf("%w: unexpected status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	var envelope batchResultsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}

	return envelope.Submissions, nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
	}
	if c.apiHost != "" {
		req.Header.Set("X-RapidAPI-Host", c.apiHost)
	}
}

func allTerminal(results []SubmissionResult, expected int) bool {
	if len(results) != expected {
		return false
	}
	for _, result := range results {
		if !result.Terminal() {
			return false
		}
	}
	return true
}
