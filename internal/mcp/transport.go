package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// EnvAPIKey optionally adds a gateway API key header to every request.
const EnvAPIKey = "VIOLENTUTF_API_KEY"

// defaultTimeout bounds a single request/response exchange when the
// caller's context carries no deadline of its own.
const defaultTimeout = 30 * time.Second

// previewLimit caps how much of an undecodable body is echoed into a
// parse error message.
const previewLimit = 200

// Credentials supplies a bearer token for outgoing requests. ok=false
// means no usable credential exists and the request must not be sent.
type Credentials interface {
	BearerToken() (token string, ok bool)
}

// Transport performs exactly one JSON-RPC request/response exchange
// per Send against the backend MCP endpoint and normalizes every
// outcome — including transport and auth failures — to a *Response.
// Send never returns a Go error for protocol-level trouble.
type Transport struct {
	endpoint string
	http     *http.Client
	creds    Credentials
	apiKey   string
	timeout  time.Duration
	log      zerolog.Logger

	nextID atomic.Int64
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *Transport) { t.http = c }
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *Transport) { t.timeout = d }
}

// WithAPIKey sets the gateway API key header value explicitly instead
// of reading it from the environment.
func WithAPIKey(key string) TransportOption {
	return func(t *Transport) { t.apiKey = key }
}

// WithTransportLogger sets the diagnostic logger.
func WithTransportLogger(log zerolog.Logger) TransportOption {
	return func(t *Transport) { t.log = log }
}

// NewTransport creates a transport for the given MCP endpoint URL.
func NewTransport(endpoint string, creds Credentials, opts ...TransportOption) *Transport {
	t := &Transport{
		endpoint: endpoint,
		http:     &http.Client{},
		creds:    creds,
		apiKey:   os.Getenv(EnvAPIKey),
		timeout:  defaultTimeout,
		log:      zlog.Logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send performs one JSON-RPC exchange. The request id is assigned from
// a per-transport monotonic counter starting at 1 and is never reused.
func (t *Transport) Send(ctx context.Context, method string, params any) *Response {
	id := int(t.nextID.Add(1))

	token, ok := t.creds.BearerToken()
	if !ok {
		return errorResponse(id, CodeAuthFailed, "Authentication failed: no valid credentials")
	}

	body, err := json.Marshal(Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errorResponse(id, CodeInvalidRequest, fmt.Sprintf("Invalid request: %v", err))
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return errorResponse(id, CodeInternal, fmt.Sprintf("Internal error: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Gateway", "violentutf")
	if t.apiKey != "" {
		req.Header.Set("apikey", t.apiKey)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			t.log.Warn().Str("method", method).Int("id", id).Msg("request timed out")
			return errorResponse(id, CodeTimeout, "Request timeout")
		}
		t.log.Warn().Err(err).Str("method", method).Int("id", id).Msg("request failed")
		return errorResponse(id, CodeInternal, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorResponse(id, CodeInternal, fmt.Sprintf("reading response: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return errorResponse(id, CodeInternal, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, preview(raw)))
	}

	return t.decode(id, resp.Header.Get("Content-Type"), raw)
}

// decode maps a 200 body to a Response based on content type: direct
// JSON, SSE-framed JSON, or a best-effort JSON parse for anything
// unrecognized.
func (t *Transport) decode(id int, contentType string, body []byte) *Response {
	switch {
	case strings.HasPrefix(contentType, "application/json"):
		var response Response
		if err := json.Unmarshal(body, &response); err != nil {
			return errorResponse(id, CodeParseError, fmt.Sprintf("unparseable response: %s", preview(body)))
		}
		return &response
	case strings.HasPrefix(contentType, "text/event-stream"):
		if response := decodeEventStream(body); response != nil {
			return response
		}
		return errorResponse(id, CodeParseError, fmt.Sprintf("no JSON payload in event stream: %s", preview(body)))
	default:
		var response Response
		if err := json.Unmarshal(body, &response); err != nil {
			return errorResponse(id, CodeParseError, fmt.Sprintf("unparseable response (%s): %s", contentType, preview(body)))
		}
		return &response
	}
}

// decodeEventStream scans SSE framing line by line and returns the
// first data: frame carrying a valid JSON-RPC envelope. The transport
// expects exactly one logical reply per request, so any later frames
// in the same body are ignored.
func decodeEventStream(body []byte) *Response {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}
		var response Response
		if err := json.Unmarshal([]byte(payload), &response); err != nil {
			continue
		}
		if response.Result != nil || response.Error != nil {
			return &response
		}
	}
	return nil
}

func errorResponse(id, code int, message string) *Response {
	return &Response{ID: id, Error: &RPCError{Code: code, Message: message}}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func preview(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > previewLimit {
		return s[:previewLimit] + "..."
	}
	return s
}
