// Package claude adapts the Anthropic Messages API to the extraction
// capability port. The PDF bytes travel as a base64 document block; the
// model is asked for a strict JSON object keyed by the requested canonical
// fields. Whether two values agree is decided by the comparison engine, not
// by the model.
package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kirillkom/claims-reconciler/internal/core/domain"
	"github.com/kirillkom/claims-reconciler/internal/infrastructure/resilience"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 2000
	apiVersion       = "2023-06-01"
)

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	// RequestsPerMinute throttles calls to the backend's rate limit.
	// Zero disables throttling.
	RequestsPerMinute int
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	caller     *resilience.Caller
	log        *slog.Logger
}

func New(cfg Config, caller *resilience.Caller, log *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ErrMissingCredential
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if caller == nil {
		caller = resilience.NewCaller("claude", resilience.DefaultPolicy(), ClassifyBackendError, log)
	}
	if log == nil {
		log = slog.Default()
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		limiter:    limiter,
		caller:     caller,
		log:        log,
	}, nil
}

// Extractor implements the FieldExtractor port for PDF invoices.
type Extractor struct {
	client *Client
}

func NewExtractor(client *Client) *Extractor {
	return &Extractor{client: client}
}

func (e *Extractor) Extract(ctx context.Context, handle domain.DocumentHandle, fields []string) (domain.ExtractedFields, error) {
	if handle.Kind != domain.MediaPDF {
		return nil, domain.NewExtractionError(handle.Filename, domain.ReasonUnsupported,
			fmt.Errorf("claude extractor handles PDFs, got %s", handle.Kind))
	}
	if len(handle.Data) == 0 {
		return nil, domain.NewExtractionError(handle.Filename, domain.ReasonUnreadable,
			fmt.Errorf("empty document"))
	}

	start := time.Now()
	raw, err := e.client.extractRaw(ctx, handle, fields)
	if err != nil {
		e.client.log.Warn("extraction call failed",
			"filename", handle.Filename,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"error", err,
		)
		return nil, toExtractionError(handle.Filename, err)
	}

	extracted, err := parseFieldsResponse(raw, fields)
	if err != nil {
		return nil, domain.NewExtractionError(handle.Filename, domain.ReasonBackend, err)
	}
	e.client.log.Debug("extraction call done",
		"filename", handle.Filename,
		"fields", len(extracted),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return extracted, nil
}

func (c *Client) extractRaw(ctx context.Context, handle domain.DocumentHandle, fields []string) (string, error) {
	payload := messagesRequest(c.cfg.Model, c.cfg.MaxTokens, handle, buildExtractionPrompt(fields))

	var text string
	err := c.caller.Call(ctx, "messages", func(callCtx context.Context) error {
		var response struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		}
		if err := c.postJSON(callCtx, "/v1/messages", payload, &response); err != nil {
			return err
		}
		for _, block := range response.Content {
			if block.Type == "text" {
				text = block.Text
				return nil
			}
		}
		return fmt.Errorf("no text block in messages response")
	})
	return text, err
}

// parseFieldsResponse keeps only the requested canonical fields, so a chatty
// response cannot smuggle extra keys into the comparison.
func parseFieldsResponse(raw string, fields []string) (domain.ExtractedFields, error) {
	var values map[string]string
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &values); err != nil {
		return nil, fmt.Errorf("parse extraction json: %w", err)
	}
	extracted := make(domain.ExtractedFields, len(fields))
	for _, field := range fields {
		value, ok := values[field]
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		extracted[field] = domain.FieldValue{Raw: strings.TrimSpace(value)}
	}
	return extracted, nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
