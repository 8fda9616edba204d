package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"swarm-agents/internal/config"
	"swarm-agents/internal/logging"
)

const maxErrorBody = 64 << 10

// Client issues one generateContent call per question. No retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	sem        *semaphore.Weighted
	log        *logrus.Entry
}

// NewClient creates a client; zero values in cfg fall back to the defaults.
func NewClient(cfg config.GeminiConfig) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = config.DefaultGeminiBaseURL
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	slots := int64(cfg.MaxConcurrent)
	if slots <= 0 {
		slots = 5
	}
	return &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		sem:        semaphore.NewWeighted(slots),
		log:        logging.For("gemini"),
	}
}

// HasKey reports whether an API key is configured.
func (c *Client) HasKey() bool {
	return c.apiKey != ""
}

func (c *Client) endpoint(model string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(model), url.QueryEscape(c.apiKey))
}

// Generate sends prompt to model and decodes the first candidate's first text part.
func (c *Client) Generate(ctx context.Context, model, prompt string) (*Reply, error) {
	if !c.HasKey() {
		return nil, ErrMissingAPIKey
	}

	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for gemini slot: %w", err)
	}
	defer c.sem.Release(1)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(model), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the request URL, which includes the key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, decodeAPIError(res)
	}

	var decoded generateResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	reply := &Reply{Usage: decoded.UsageMetadata}
	if len(decoded.Candidates) > 0 && len(decoded.Candidates[0].Content.Parts) > 0 {
		text := decoded.Candidates[0].Content.Parts[0].Text
		if text != "" {
			reply.Text = text
			reply.Found = true
		}
	}
	return reply, nil
}

func decodeAPIError(res *http.Response) error {
	apiErr := &APIError{StatusCode: res.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	var env errorEnvelope
	if json.Unmarshal(raw, &env) == nil && env.Error != nil {
		apiErr.Status = env.Error.Status
		apiErr.Message = env.Error.Message
	}
	return apiErr
}

// Ask never fails: a missing text field becomes FallbackText and any error
// becomes "Error: <err>".
func (c *Client) Ask(ctx context.Context, model, prompt string) Answer {
	start := time.Now()
	reply, err := c.Generate(ctx, model, prompt)
	elapsed := time.Since(start)

	if err != nil {
		c.log.WithFields(logrus.Fields{"model": model, "elapsed": elapsed.String()}).
			Warnf("generation failed: %v", err)
		return Answer{Text: "Error: " + err.Error(), Status: StatusError, Duration: elapsed}
	}
	if !reply.Found {
		c.log.WithField("model", model).Warn("reply had no text part")
		return Answer{Text: FallbackText, Status: StatusEmpty, Usage: reply.Usage, Duration: elapsed}
	}
	c.log.WithFields(logrus.Fields{"model": model, "elapsed": elapsed.String(), "chars": len(reply.Text)}).
		Debug("generation succeeded")
	return Answer{Text: reply.Text, Status: StatusOK, Usage: reply.Usage, Duration: elapsed}
}
