// Package mcp implements the MCP (Model Context Protocol) client
// subsystem: a JSON-RPC 2.0 transport over HTTP that tolerates both
// plain-JSON and SSE-framed replies, a session-aware typed client,
// and a blocking facade for synchronous hosts.
package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

const (
	protocolVersion = "2024-11-05"
	clientName      = "violentutf"
	clientVersion   = "0.1.0"
)

// Client maintains session state and exposes one typed method per
// protocol capability, all funneled through the Transport.
//
// The uniform contract of the convenience methods is "zero value on
// failure, logged error with context": a degraded backend capability
// never surfaces as a Go error here, so the host can keep rendering
// whatever still works.
type Client struct {
	transport *Transport
	log       zerolog.Logger

	mu           sync.Mutex
	initialized  bool
	serverInfo   *ServerInfo
	capabilities json.RawMessage
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger sets the diagnostic logger.
func WithClientLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient creates a client on top of the given transport.
func NewClient(transport *Transport, opts ...ClientOption) *Client {
	c := &Client{
		transport: transport,
		log:       zlog.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize performs the MCP handshake and records the server's
// name, version, and capabilities. Idempotent: calling it on an
// already-initialized client returns true without a network call.
// On failure it logs and returns false; it never panics or errors.
func (c *Client) Initialize(ctx context.Context, capabilities map[string]any) bool {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return true
	}
	c.mu.Unlock()

	if capabilities == nil {
		capabilities = map[string]any{}
	}
	resp := c.transport.Send(ctx, MethodInitialize, map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    capabilities,
		"clientInfo": map[string]any{
			"name":    clientName,
			"version": clientVersion,
		},
	})
	if resp.IsError() {
		c.log.Error().Int("code", resp.Error.Code).Str("message", resp.Error.Message).Msg("initialize failed")
		return false
	}
	if len(resp.Result) == 0 {
		c.log.Error().Msg("initialize returned empty result")
		return false
	}

	var result InitializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		c.log.Error().Err(err).Msg("initialize result did not decode")
		return false
	}

	c.mu.Lock()
	c.initialized = true
	c.serverInfo = result.ServerInfo
	c.capabilities = result.Capabilities
	c.mu.Unlock()
	return true
}

// ensure runs the handshake if it has not happened yet. Operations
// proceed to their own call either way; a failed handshake surfaces
// through that call's error containment.
func (c *Client) ensure(ctx context.Context) {
	c.mu.Lock()
	initialized := c.initialized
	c.mu.Unlock()
	if !initialized {
		c.Initialize(ctx, nil)
	}
}

// ListPrompts returns the server's prompt catalog, or an empty slice
// on any failure.
func (c *Client) ListPrompts(ctx context.Context) []Prompt {
	c.ensure(ctx)
	resp := c.transport.Send(ctx, MethodListPrompts, nil)
	if resp.IsError() {
		c.log.Error().Str("message", resp.ErrorMessage()).Msg("prompts/list failed")
		return []Prompt{}
	}
	var result struct {
		Prompts []Prompt `json:"prompts"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		c.log.Error().Err(err).Msg("prompts/list result did not decode")
		return []Prompt{}
	}
	if result.Prompts == nil {
		return []Prompt{}
	}
	return result.Prompts
}

// GetPrompt renders the named prompt with the given arguments and
// returns the message contents joined with newlines. Falls back to
// the flat "prompt" field for servers that return one. ok=false on
// any failure.
func (c *Client) GetPrompt(ctx context.Context, name string, arguments map[string]any) (string, bool) {
	c.ensure(ctx)
	params := map[string]any{"name": name}
	if arguments != nil {
		params["arguments"] = arguments
	}
	resp := c.transport.Send(ctx, MethodGetPrompt, params)
	if resp.IsError() {
		c.log.Error().Str("prompt", name).Str("message", resp.ErrorMessage()).Msg("prompts/get failed")
		return "", false
	}
	var result struct {
		Messages []PromptMessage `json:"messages"`
		Prompt   string          `json:"prompt"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		c.log.Error().Err(err).Str("prompt", name).Msg("prompts/get result did not decode")
		return "", false
	}
	if len(result.Messages) > 0 {
		parts := make([]string, len(result.Messages))
		for i, msg := range result.Messages {
			parts[i] = msg.Content.Text
		}
		return strings.Join(parts, "\n"), true
	}
	if result.Prompt != "" {
		return result.Prompt, true
	}
	return "", false
}

// ListResources returns the server's resource catalog, or an empty
// slice on any failure.
func (c *Client) ListResources(ctx context.Context) []Resource {
	c.ensure(ctx)
	resp := c.transport.Send(ctx, MethodListResources, nil)
	if resp.IsError() {
		c.log.Error().Str("message", resp.ErrorMessage()).Msg("resources/list failed")
		return []Resource{}
	}
	var result struct {
		Resources []Resource `json:"resources"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		c.log.Error().Err(err).Msg("resources/list result did not decode")
		return []Resource{}
	}
	if result.Resources == nil {
		return []Resource{}
	}
	return result.Resources
}

// ReadResource fetches a resource by URI and unwraps its contents: a
// single text entry becomes a string, a single structured entry is
// returned as decoded JSON, multiple entries collapse to the first
// entry's text, and a result without a contents list is returned raw.
// Returns nil on any failure.
func (c *Client) ReadResource(ctx context.Context, uri string) any {
	c.ensure(ctx)
	resp := c.transport.Send(ctx, MethodReadResource, map[string]any{"uri": uri})
	if resp.IsError() {
		c.log.Error().Str("uri", uri).Str("message", resp.ErrorMessage()).Msg("resources/read failed")
		return nil
	}

	var result struct {
		Contents []json.RawMessage `json:"contents"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil || result.Contents == nil {
		var raw any
		if err := json.Unmarshal(resp.Result, &raw); err != nil {
			c.log.Error().Err(err).Str("uri", uri).Msg("resources/read result did not decode")
			return nil
		}
		return raw
	}

	switch len(result.Contents) {
	case 0:
		return nil
	case 1:
		var entry struct {
			MimeType string  `json:"mimeType"`
			Text     *string `json:"text"`
		}
		if err := json.Unmarshal(result.Contents[0], &entry); err == nil && entry.Text != nil {
			return *entry.Text
		}
		var structured any
		if err := json.Unmarshal(result.Contents[0], &structured); err != nil {
			c.log.Error().Err(err).Str("uri", uri).Msg("resource content did not decode")
			return nil
		}
		return structured
	default:
		var entry struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(result.Contents[0], &entry); err != nil {
			c.log.Error().Err(err).Str("uri", uri).Msg("resource content did not decode")
			return nil
		}
		return entry.Text
	}
}

// ListTools returns the server's tool catalog, or an empty slice on
// any failure. The full error object is logged here, not just the
// message: tool discovery failures are otherwise silent and have
// historically been painful to diagnose.
func (c *Client) ListTools(ctx context.Context) []Tool {
	c.ensure(ctx)
	resp := c.transport.Send(ctx, MethodListTools, nil)
	if resp.IsError() {
		c.log.Error().
			Int("code", resp.Error.Code).
			Str("message", resp.Error.Message).
			Interface("data", resp.Error.Data).
			Msg("tools/list failed")
		return []Tool{}
	}
	var result struct {
		Tools []Tool `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		c.log.Error().Err(err).Msg("tools/list result did not decode")
		return []Tool{}
	}
	if result.Tools == nil {
		return []Tool{}
	}
	return result.Tools
}

// ExecuteTool invokes the named tool and returns the raw result
// verbatim, or nil on any failure.
func (c *Client) ExecuteTool(ctx context.Context, name string, arguments map[string]any) json.RawMessage {
	c.ensure(ctx)
	params := map[string]any{"name": name}
	if arguments != nil {
		params["arguments"] = arguments
	}
	resp := c.transport.Send(ctx, MethodExecuteTool, params)
	if resp.IsError() {
		c.log.Error().Str("tool", name).Str("message", resp.ErrorMessage()).Msg("tools/execute failed")
		return nil
	}
	return resp.Result
}

// HealthCheck forces a fresh handshake round trip rather than
// trusting cached state, and reports whether it succeeded.
func (c *Client) HealthCheck(ctx context.Context) bool {
	c.mu.Lock()
	c.initialized = false
	c.mu.Unlock()
	return c.Initialize(ctx, nil)
}

// Close resets the session state and clears the cached server info.
// The transport holds no persistent connection, so there is nothing
// else to release; a closed client can simply initialize again.
func (c *Client) Close() {
	c.mu.Lock()
	c.initialized = false
	c.serverInfo = nil
	c.capabilities = nil
	c.mu.Unlock()
}

// Initialized reports whether the handshake has completed.
func (c *Client) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// ServerInfo returns the server identity captured at initialization,
// or nil before the handshake.
func (c *Client) ServerInfo() *ServerInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.serverInfo == nil {
		return nil
	}
	info := *c.serverInfo
	return &info
}

// Capabilities returns the raw server capability metadata captured at
// initialization.
func (c *Client) Capabilities() json.RawMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capabilities
}
