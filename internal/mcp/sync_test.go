package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestSyncClientBasicFlow(t *testing.T) {
	fs := newFakeServer(t)
	fs.set(MethodListTools, `{"tools":[{"name":"enhance_prompt"}]}`)
	fs.set(MethodGetPrompt, `{"prompt":"rendered"}`)
	s := NewSyncClient(fs.client(), time.Second)

	if !s.Initialize() {
		t.Fatal("initialize failed")
	}
	if tools := s.ListTools(); len(tools) != 1 {
		t.Errorf("tools = %+v", tools)
	}
	if text, ok := s.GetPrompt("x", nil); !ok || text != "rendered" {
		t.Errorf("prompt = %q, %v", text, ok)
	}
	if info := s.ServerInfo(); info == nil || info.Name != "violentutf-mcp" {
		t.Errorf("server info = %+v", info)
	}
}

func TestSyncClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(NewTransport(srv.URL, staticCreds{token: "t", ok: true}))
	s := NewSyncClient(client, 20*time.Millisecond)

	if s.Initialize() {
		t.Error("initialize succeeded against a stalled server")
	}
}

func TestSyncClientSerializesCalls(t *testing.T) {
	var mu sync.Mutex
	inFlight, maxInFlight := 0, 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()

		var req Request
		json.NewDecoder(r.Body).Decode(&req)
		resp := Response{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(`{"tools":[],"serverInfo":{"name":"s","version":"1"},"protocolVersion":"2024-11-05"}`)}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient(NewTransport(srv.URL, staticCreds{token: "t", ok: true}))
	s := NewSyncClient(client, time.Second)
	s.Initialize()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ListTools()
		}()
	}
	wg.Wait()

	if maxInFlight > 1 {
		t.Errorf("max concurrent requests = %d, want 1", maxInFlight)
	}
}

func TestSyncClientCloseAllowsReinitialize(t *testing.T) {
	fs := newFakeServer(t)
	s := NewSyncClient(fs.client(), time.Second)

	s.Initialize()
	s.Close()
	if !s.Initialize() {
		t.Fatal("reinitialize failed")
	}
	if n := fs.count(MethodInitialize); n != 2 {
		t.Errorf("initialize hit the server %d times, want 2", n)
	}
}
