// Package openai implements the embedding provider against the OpenAI
// embeddings API.
package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkoukk/tiktoken-go"

	"github.com/hirestack/candidate-ranker/internal/adapter/observability"
	"github.com/hirestack/candidate-ranker/internal/config"
	"github.com/hirestack/candidate-ranker/internal/domain"
)

// Client calls the OpenAI embeddings endpoint with retry and token-limit
// truncation.
type Client struct {
	cfg config.Config
	hc  *http.Client
	enc *tiktoken.Tiktoken
}

// New constructs an embeddings client. Encoder resolution failures disable
// truncation but not the client.
func New(cfg config.Config) *Client {
	enc, err := tiktoken.EncodingForModel(cfg.EmbeddingsModel)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			slog.Warn("tiktoken encoder unavailable; embedding inputs will not be truncated", slog.Any("error", err))
			enc = nil
		}
	}
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: 30 * time.Second},
		enc: enc,
	}
}

// Embed calls the OpenAI embeddings endpoint and returns one vector per text.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if c.cfg.OpenAIAPIKey == "" || c.cfg.EmbeddingsModel == "" {
		// Do not log secrets; only indicate presence
		slog.Error("OpenAI API key or model missing",
			slog.Bool("has_api_key", c.cfg.OpenAIAPIKey != ""),
			slog.String("model", c.cfg.EmbeddingsModel))
		return nil, fmt.Errorf("%w: OPENAI_API_KEY or EMBEDDINGS_MODEL missing", domain.ErrInvalidArgument)
	}

	input := make([]string, len(texts))
	for i, t := range texts {
		input[i] = c.truncate(t)
	}
	body := map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": input,
	}
	b, _ := json.Marshal(body)
	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	op := func() error {
		start := time.Now()
		// Recreate request each attempt to avoid reusing consumed bodies
		r, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+"/embeddings", bytes.NewReader(b))
		r.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
		r.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(r)
		observability.EmbeddingRequestDuration.WithLabelValues("openai").Observe(time.Since(start).Seconds())
		if err != nil {
			observability.EmbeddingRequestsTotal.WithLabelValues("openai", "transport_error").Inc()
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode == http.StatusTooManyRequests {
			observability.EmbeddingRequestsTotal.WithLabelValues("openai", "rate_limited").Inc()
			slog.Warn("embedding provider rate limited", slog.Int("status", resp.StatusCode))
			return fmt.Errorf("rate limited: 429")
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			observability.EmbeddingRequestsTotal.WithLabelValues("openai", "client_error").Inc()
			slog.Warn("embedding provider 4xx",
				slog.Int("status", resp.StatusCode),
				slog.String("body", readSnippet(resp.Body, 512)))
			return backoff.Permanent(fmt.Errorf("embed status %d", resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			observability.EmbeddingRequestsTotal.WithLabelValues("openai", "server_error").Inc()
			slog.Error("embedding provider non-2xx",
				slog.Int("status", resp.StatusCode),
				slog.String("body", readSnippet(resp.Body, 512)))
			return fmt.Errorf("embed status %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			observability.EmbeddingRequestsTotal.WithLabelValues("openai", "decode_error").Inc()
			return err
		}
		observability.EmbeddingRequestsTotal.WithLabelValues("openai", "ok").Inc()
		return nil
	}

	maxElapsed, initial, maxInterval, multiplier := c.cfg.GetEmbedBackoffConfig()
	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = maxElapsed
	expo.InitialInterval = initial
	expo.MaxInterval = maxInterval
	expo.Multiplier = multiplier
	if err := backoff.Retry(op, backoff.WithContext(expo, ctx)); err != nil {
		return nil, fmt.Errorf("openai embeddings failed: %w", err)
	}

	if len(out.Data) != len(texts) {
		return nil, errors.New("embedding count mismatch from OpenAI API")
	}
	res := make([][]float32, len(out.Data))
	for i := range out.Data {
		v := make([]float32, len(out.Data[i].Embedding))
		for j := range out.Data[i].Embedding {
			v[j] = float32(out.Data[i].Embedding[j])
		}
		res[i] = v
	}
	return res, nil
}

// truncate trims text to the configured embedding token budget.
func (c *Client) truncate(text string) string {
	if c.enc == nil || c.cfg.EmbedMaxTokens <= 0 {
		return text
	}
	toks := c.enc.Encode(text, nil, nil)
	if len(toks) <= c.cfg.EmbedMaxTokens {
		return text
	}
	slog.Debug("truncating embedding input",
		slog.Int("tokens", len(toks)), slog.Int("max", c.cfg.EmbedMaxTokens))
	return c.enc.Decode(toks[:c.cfg.EmbedMaxTokens])
}

func readSnippet(r io.Reader, n int64) string {
	b, _ := io.ReadAll(io.LimitReader(r, n))
	return string(b)
}
