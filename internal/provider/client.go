package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bargainer/internal/models"
	"bargainer/internal/ratelimit"
)

const requestTimeout = 10 * time.Second

// client bundles what every adapter variant needs to talk to its source:
// the configured endpoint, an HTTP client with a bounded timeout, the
// shared rate limiter, and a logger scoped to the source.
type client struct {
	source  models.Source
	http    *http.Client
	limiter *ratelimit.Limiter
	log     *slog.Logger
}

func newClient(source models.Source, limiter *ratelimit.Limiter, log *slog.Logger) *client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if limiter != nil && source.RateLimit > 0 {
		limiter.SetCap(source.Name, source.RateLimit)
	}

	return &client{
		source:  source,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: limiter,
		log:     log.With(slog.String("source", source.Name)),
	}
}

// get issues one GET against the source and returns the raw body. There is
// no retry: a single failure is terminal for the call.
func (c *client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil && !c.limiter.Allow(c.source.Name) {
		return nil, fmt.Errorf("%s: hourly rate limit reached", c.source.Name)
	}

	target := strings.TrimRight(c.source.BaseURL, "/") + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json, text/html")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	for key, value := range c.source.Headers {
		req.Header.Set(key, value)
	}
	if c.source.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.source.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request %s: unexpected status %d", target, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return body, nil
}

// getJSON fetches and decodes a JSON object response.
func (c *client) getJSON(ctx context.Context, path string, query url.Values) (map[string]any, error) {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return payload, nil
}

// items extracts the deal list from a decoded payload, trying the body keys
// the source family is known to use.
func items(payload map[string]any, keys ...string) []map[string]any {
	for _, key := range keys {
		list, ok := payload[key].([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(list))
		for _, el := range list {
			if item, ok := el.(map[string]any); ok {
				out = append(out, item)
			}
		}
		return out
	}
	return nil
}

// appendValid keeps a normalized record only when it passes schema
// validation; an invalid record is dropped without affecting siblings.
func (c *client) appendValid(deals []models.Deal, deal models.Deal) []models.Deal {
	if err := models.ValidateDeal(deal); err != nil {
		c.log.Debug("dropping invalid deal", slog.String("id", deal.ID), slog.Any("err", err))
		return deals
	}
	return append(deals, deal)
}
