package mcp

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// SyncClient adapts the Client to a plain blocking call style for
// synchronous hosts. A mutex serializes calls so exactly one
// operation is in flight per facade: one logical call fully completes
// before the next begins, matching a single-threaded page-rendering
// host where only one operation runs at a time.
//
// Methods here never return errors. Protocol failures have already
// been converted to zero values and logged by the Client; anything
// that escapes this layer is a genuine programming error.
type SyncClient struct {
	mu      sync.Mutex
	client  *Client
	timeout time.Duration
}

// NewSyncClient wraps a client with a blocking facade. Each call is
// bounded by the given timeout; zero means the transport's default
// applies.
func NewSyncClient(client *Client, timeout time.Duration) *SyncClient {
	return &SyncClient{client: client, timeout: timeout}
}

func (s *SyncClient) callCtx() (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.Background(), func() {}
	}
	return context.WithTimeout(context.Background(), s.timeout)
}

// Initialize runs the handshake to completion.
func (s *SyncClient) Initialize() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.callCtx()
	defer cancel()
	return s.client.Initialize(ctx, nil)
}

// ListPrompts blocks until the prompt catalog is fetched.
func (s *SyncClient) ListPrompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.callCtx()
	defer cancel()
	return s.client.ListPrompts(ctx)
}

// GetPrompt blocks until the prompt is rendered.
func (s *SyncClient) GetPrompt(name string, arguments map[string]any) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.callCtx()
	defer cancel()
	return s.client.GetPrompt(ctx, name, arguments)
}

// ListResources blocks until the resource catalog is fetched.
func (s *SyncClient) ListResources() []Resource {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.callCtx()
	defer cancel()
	return s.client.ListResources(ctx)
}

// ReadResource blocks until the resource is read and unwrapped.
func (s *SyncClient) ReadResource(uri string) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.callCtx()
	defer cancel()
	return s.client.ReadResource(ctx, uri)
}

// ListTools blocks until the tool catalog is fetched.
func (s *SyncClient) ListTools() []Tool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.callCtx()
	defer cancel()
	return s.client.ListTools(ctx)
}

// ExecuteTool blocks until the tool call completes.
func (s *SyncClient) ExecuteTool(name string, arguments map[string]any) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.callCtx()
	defer cancel()
	return s.client.ExecuteTool(ctx, name, arguments)
}

// HealthCheck blocks until a forced handshake round trip completes.
func (s *SyncClient) HealthCheck() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.callCtx()
	defer cancel()
	return s.client.HealthCheck(ctx)
}

// ServerInfo returns the cached server identity.
func (s *SyncClient) ServerInfo() *ServerInfo { return s.client.ServerInfo() }

// Close resets the underlying client's session state.
func (s *SyncClient) Close() { s.client.Close() }
