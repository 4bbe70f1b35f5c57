package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client wraps HTTP calls to the campus REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new API client. The base URL is the only external
// configuration point.
func NewClient(baseURL string, timeout ...time.Duration) *Client {
	httpTimeout := 30 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		httpTimeout = timeout[0]
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
		logger: slog.New(slog.DiscardHandler),
	}
}

// BaseURL returns the API root requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WithTimeout clones the client with a different HTTP timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	clone := NewClient(c.baseURL, timeout)
	clone.logger = c.logger
	return clone
}

// WithLogger returns a copy of the client that logs each request.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger == nil {
		return c
	}
	clone := *c
	clone.logger = logger
	return &clone
}

// Request performs one call and returns the raw JSON body. A 2xx response
// with an empty body returns a nil body and nil error. Every failure is a
// *TransportError.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, method, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, &TransportError{Detail: fmt.Sprintf("marshal body: %v", err), Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, &TransportError{Detail: fmt.Sprintf("create request: %v", err), Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With("method", method, "path", path, "request_id", requestID)
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("api request failed", "error", err, "duration", time.Since(started))
		return nil, networkFailure(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn("api response unreadable", "status", resp.StatusCode, "error", err)
		return nil, networkFailure(fmt.Errorf("read response: %w", err))
	}
	log.Debug("api request", "status", resp.StatusCode, "duration", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, ok := extractAPIErrorBody(respBody)
		if !ok {
			detail = genericDetail
		}
		return nil, &TransportError{Status: resp.StatusCode, Detail: detail}
	}

	trimmed := bytes.TrimSpace(respBody)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, networkFailure(fmt.Errorf("decode response: invalid JSON from %s %s", method, path))
	}
	return json.RawMessage(trimmed), nil
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// decodeInto decodes a body that may or may not use the {"data": ...}
// envelope.
func decodeInto[T any](data []byte, out *T) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope apiResponse[T]
		if err := json.Unmarshal(trimmed, &envelope); err == nil && envelope.Data != nil {
			*out = *envelope.Data
			return nil
		}
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// buildQuery appends query params to a path.
func buildQuery(path string, params QueryParams) string {
	if len(params) == 0 {
		return path
	}
	q := url.Values{}
	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// ResourcePath joins a collection name, an optional id and query params.
func ResourcePath(resource string, id *int64, params QueryParams) string {
	path := "/" + strings.Trim(resource, "/")
	if id != nil {
		path = fmt.Sprintf("%s/%d", path, *id)
	}
	return buildQuery(path, params)
}

func extractAPIErrorBody(body []byte) (string, bool) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", false
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}

	if msg, ok := parseErrorValue(payload["detail"]); ok {
		return msg, true
	}
	if msg, ok := parseErrorValue(payload["error"]); ok {
		return msg, true
	}
	if msg, ok := parseErrorValue(payload["message"]); ok {
		return msg, true
	}
	return "", false
}

func parseErrorValue(raw any) (string, bool) {
	switch value := raw.(type) {
	case string:
		msg := strings.TrimSpace(value)
		if msg == "" {
			return "", false
		}
		return msg, true
	case []any:
		// FastAPI validation errors: [{"loc": [...], "msg": "...", "type": "..."}]
		parts := make([]string, 0, len(value))
		for _, item := range value {
			if msg, ok := parseErrorValue(item); ok {
				parts = append(parts, msg)
			}
		}
		if len(parts) == 0 {
			return "", false
		}
		return strings.Join(parts, "; "), true
	case map[string]any:
		if msg, ok := value["msg"].(string); ok && strings.TrimSpace(msg) != "" {
			return formatLocatedError(value["loc"], msg), true
		}
		if nested, ok := parseErrorValue(value["error"]); ok {
			return nested, true
		}
		code, _ := value["code"].(string)
		message, _ := value["message"].(string)
		return formatAPIError(code, message)
	}
	return "", false
}

func formatLocatedError(loc any, msg string) string {
	items, ok := loc.([]any)
	if !ok || len(items) == 0 {
		return strings.TrimSpace(msg)
	}
	field := fmt.Sprintf("%v", items[len(items)-1])
	return fmt.Sprintf("%s: %s", field, strings.TrimSpace(msg))
}

func formatAPIError(code, message string) (string, bool) {
	code = strings.TrimSpace(code)
	message = strings.TrimSpace(message)
	switch {
	case code != "" && message != "":
		return fmt.Sprintf("%s: %s", code, message), true
	case code != "":
		return code, true
	case message != "":
		return message, true
	default:
		return "", false
	}
}
