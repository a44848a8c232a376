package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sproutlearn/sproutlearn-backend/internal/observability"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/httpx"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

// Client talks to the local Ollama-compatible model server that
// produces tutoring responses. The process runs on the same host, so
// outages are treated as transient and retried with backoff.
type Client interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
	Healthy(ctx context.Context) error
}

type client struct {
	log        *logger.Logger
	baseURL    string
	model      string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	baseURL := strings.TrimSpace(os.Getenv("MODEL_BASE_URL"))
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := strings.TrimSpace(os.Getenv("MODEL_NAME"))
	if model == "" {
		model = "llama3.2"
	}

	timeoutSec := 120
	if v := os.Getenv("MODEL_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 3
	if v := os.Getenv("MODEL_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		log:        log.With("service", "ModelClient"),
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type modelHTTPError struct {
	StatusCode int
	Body       string
}

func (e *modelHTTPError) Error() string {
	return fmt.Sprintf("model http %d: %s", e.StatusCode, e.Body)
}

func (e *modelHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type generateRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system,omitempty"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	body := generateRequest{
		Model:  c.model,
		System: system,
		Prompt: user,
		Stream: false,
		Options: map[string]any{
			"temperature": 0.7,
		},
	}

	started := time.Now()
	var out generateResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate", body, &out); err != nil {
		observability.Get().ObserveModelRequest("error", time.Since(started).Seconds())
		return "", err
	}
	observability.Get().ObserveModelRequest("ok", time.Since(started).Seconds())
	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", fmt.Errorf("model returned empty response")
	}
	return text, nil
}

func (c *client) Healthy(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/tags", nil, nil)
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &modelHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("model decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		if !httpx.IsRetryableError(err) {
			return err
		}
		if attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 5*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("model request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}
