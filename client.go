package nuclino

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production Nuclino API root.
const DefaultBaseURL = "https://api.nuclino.com/v0"

const (
	defaultRequestsPerMinute = 140
	defaultTimeout           = 30 * time.Second
	defaultUserAgent         = "nuclino-go/1.0 (+github.com/whatisyourname0/nuclino)"
)

// Client is a typed Nuclino API client. It owns the HTTP transport, the rate
// gate shared by all request methods, and the response dispatcher. A single
// Client is safe for concurrent use; the rate gate serializes admissions
// across callers.
//
// Construction validates configuration (non-empty API key, requests per
// minute ≥ 1) and fails with a ConfigError rather than deferring the problem
// to the first request.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	userAgent  string
	rpm        int
	gate       *rateGate
	metrics    *MetricsCollector
	debug      *DebugConfig
	logger     Logger
}

// New constructs a Client for the given API key using the provided
// functional options.
func New(apiKey string, options ...Option) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		userAgent:  defaultUserAgent,
		rpm:        defaultRequestsPerMinute,
		debug:      DefaultDebugConfig(),
	}

	for _, option := range options {
		option(c)
	}

	if err := c.validateConfiguration(); err != nil {
		return nil, err
	}

	c.gate = newRateGate(c.rpm)
	return c, nil
}

// Close releases the transport's idle connections. The Client must not be
// used after Close; pair construction with a deferred Close so the transport
// is released on every exit path.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Get performs a GET request against path with optional query parameters and
// dispatches the response payload.
func (c *Client) Get(ctx context.Context, path string, params map[string]string) (any, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Delete performs a DELETE request against path and dispatches the response
// payload (for delete endpoints, the untouched {"id": ...} acknowledgement).
func (c *Client) Delete(ctx context.Context, path string) (any, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Post performs a POST request with a JSON body and dispatches the response
// payload.
func (c *Client) Post(ctx context.Context, path string, body map[string]any) (any, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put performs a PUT request with a JSON body and dispatches the response
// payload.
func (c *Client) Put(ctx context.Context, path string, body map[string]any) (any, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// do is the single request pipeline behind the four primitives: rate gate
// admission, one outbound HTTP call, then response validation and dispatch.
// Nothing here retries; the only blocking wait is the gate's.
func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body map[string]any) (any, error) {
	start := time.Now()
	endpoint := "/" + strings.Trim(path, "/")

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("starting request", "requestID", requestID, "method", method, "endpoint", endpoint)
	}

	c.metrics.RecordRequestStart(method, endpoint)
	defer c.metrics.RecordRequestEnd(method, endpoint)

	gateStart := time.Now()
	c.gate.wait()
	waited := time.Since(gateStart)
	c.metrics.RecordGateWait(method, endpoint, waited)
	c.metrics.RecordGateOccupancy(c.gate.occupancy())
	if waited >= c.gate.interval && c.debug != nil && c.debug.Enabled && c.debug.LogRateGate && c.logger != nil {
		c.logger.Debug("rate gate delayed request", "requestID", requestID, "waited", waited)
	}

	result, status, err := c.send(ctx, method, joinURL(c.baseURL, path), params, body)

	c.metrics.RecordRequest(method, endpoint, status, time.Since(start))
	if err != nil {
		if apiErr, ok := err.(*APIError); ok {
			c.metrics.RecordError(apiErr.Type, method, endpoint)
			if c.debug != nil && c.debug.Enabled && c.debug.LogErrors && c.logger != nil {
				c.logger.Warn("request failed", "requestID", requestID, "type", apiErr.Type, "status", apiErr.StatusCode, "message", apiErr.Message)
			}
		}
		return nil, err
	}

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("request complete", "requestID", requestID, "method", method, "endpoint", endpoint, "duration", time.Since(start))
	}
	return result, nil
}

// send issues the HTTP call and hands the raw response to handleResponse.
// The returned status is 0 when the transport itself failed.
func (c *Client) send(ctx context.Context, method, rawURL string, params map[string]string, body map[string]any) (any, int, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, networkError("encoding request body", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	if len(params) > 0 {
		query := url.Values{}
		for k, v := range params {
			query.Set(k, v)
		}
		rawURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, 0, networkError("building request", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, networkError("request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, networkError("reading response body", err)
	}

	result, err := c.handleResponse(resp.StatusCode, raw)
	return result, resp.StatusCode, err
}

// handleResponse validates the wire envelope and dispatches its data payload.
// Every failure path ends in classifyStatus, so callers always see one
// concrete error kind, never a bare decoding error:
//
//   - un-parseable body → classified with the transport status and the raw
//     text attached for diagnostics
//   - non-200 status → classified with the body's message ("Unknown error"
//     when absent)
//   - 200 without a "data" field → classified as a synthesized server error;
//     absence of data on success is an error condition, not a silent default
func (c *Client) handleResponse(status int, raw []byte) (any, error) {
	var content map[string]any
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, classifyStatus(status, "invalid JSON response from API", map[string]any{
			"rawContent": string(raw),
		})
	}

	if status != http.StatusOK {
		message, _ := content["message"].(string)
		if message == "" {
			message = "Unknown error"
		}
		return nil, classifyStatus(status, message, content)
	}

	data, ok := content["data"]
	if !ok {
		return nil, classifyStatus(http.StatusInternalServerError, "API response missing 'data' field", content)
	}

	return c.parse(data)
}

// joinURL joins the base URL with a path, stripping redundant separators
// from both segments so neither double slashes nor missing ones appear.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Trim(path, "/")
}
