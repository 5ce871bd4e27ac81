// Package exchange performs the request/response cycle with the chat backend.
package exchange

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/linanwx/chatwidget/logger"
)

const (
	// DefaultEndpoint is the backend the widget talks to when nothing is configured.
	DefaultEndpoint = "http://localhost:5001/chat"

	maxResponseBytes = 4 << 20
)

// ErrExchangeFailed matches every error returned by Client.Send.
var ErrExchangeFailed = errors.New("exchange failed")

// Kind tells which stage of an exchange failed. Diagnostic only.
type Kind string

const (
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindDecode    Kind = "decode"
)

// Error describes a failed exchange.
type Error struct {
	Kind   Kind
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("exchange %s error (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("exchange %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports ErrExchangeFailed for every exchange error.
func (e *Error) Is(target error) bool { return target == ErrExchangeFailed }

// KindOf returns the failure kind of err, or "" when err is not an exchange error.
func KindOf(err error) Kind {
	var xe *Error
	if errors.As(err, &xe) {
		return xe.Kind
	}
	return ""
}

// Request is one outbound exchange.
type Request struct {
	ID      string // correlation id, sent as X-Request-Id when set
	Message string
}

// Client posts messages to a fixed chat endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for endpoint. A nil httpClient uses a client without timeout.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Send posts req.Message and returns the reply field of the response.
func (c *Client) Send(ctx context.Context, req Request) (string, error) {
	start := time.Now()

	body, err := sjson.SetBytes([]byte(`{}`), "message", req.Message)
	if err != nil {
		return "", &Error{Kind: KindTransport, Err: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindTransport, Err: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-Id", req.ID)
	}

	logger.Debug("exchange request", "id", req.ID, "endpoint", c.endpoint, "inputChars", len(req.Message))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &Error{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &Error{Kind: KindTransport, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if backendErr := gjson.GetBytes(data, "error"); backendErr.Type == gjson.String {
			msg = backendErr.String()
		}
		return "", &Error{Kind: KindStatus, Status: resp.StatusCode, Err: errors.New(msg)}
	}

	reply, err := parseReply(data)
	if err != nil {
		return "", &Error{Kind: KindDecode, Status: resp.StatusCode, Err: err}
	}

	logger.Debug(
		"exchange response",
		"id", req.ID,
		"status", resp.StatusCode,
		"outputChars", len(reply),
		"latencyMs", time.Since(start).Milliseconds(),
	)
	return reply, nil
}

// parseReply extracts the string reply field from a response body.
func parseReply(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", errors.New("response is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return "", errors.New("response is not a JSON object")
	}
	reply := root.Get("reply")
	if !reply.Exists() {
		return "", errors.New("response has no reply field")
	}
	if reply.Type != gjson.String {
		return "", fmt.Errorf("reply field is %s, want string", reply.Type)
	}
	return reply.String(), nil
}
