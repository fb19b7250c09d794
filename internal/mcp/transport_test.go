package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type staticCreds struct {
	token string
	ok    bool
}

func (c staticCreds) BearerToken() (string, bool) { return c.token, c.ok }

func TestSendNoCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{ok: false})
	resp := tr.Send(context.Background(), MethodListTools, nil)

	if !resp.IsError() {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != CodeAuthFailed {
		t.Errorf("code = %d, want %d", resp.Error.Code, CodeAuthFailed)
	}
	if called {
		t.Error("request reached the server despite missing credentials")
	}
}

func TestSendHeaders(t *testing.T) {
	var got http.Header
	var gotBody Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{token: "tok-abc", ok: true}, WithAPIKey("gw-key"))
	resp := tr.Send(context.Background(), MethodListPrompts, map[string]any{"cursor": "x"})

	if resp.IsError() {
		t.Fatalf("unexpected error: %s", resp.ErrorMessage())
	}
	if v := got.Get("Authorization"); v != "Bearer tok-abc" {
		t.Errorf("Authorization = %q", v)
	}
	if v := got.Get("X-API-Gateway"); v != "violentutf" {
		t.Errorf("X-API-Gateway = %q", v)
	}
	if v := got.Get("apikey"); v != "gw-key" {
		t.Errorf("apikey = %q", v)
	}
	if gotBody.JSONRPC != "2.0" || gotBody.Method != MethodListPrompts {
		t.Errorf("request body = %+v", gotBody)
	}
}

func TestSendMonotonicIDs(t *testing.T) {
	var ids []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		json.NewDecoder(r.Body).Decode(&req)
		ids = append(ids, req.ID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Response{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(`{}`)})
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{token: "t", ok: true})
	for i := 0; i < 3; i++ {
		tr.Send(context.Background(), MethodListTools, nil)
	}

	if len(ids) != 3 || ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("ids = %v, want [1 2 3]", ids)
	}
}

func TestSendIDsAdvancePastLocalFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Response{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(`{}`)})
	}))
	defer srv.Close()

	denied := NewTransport(srv.URL, staticCreds{ok: false})
	first := denied.Send(context.Background(), MethodListTools, nil)
	second := denied.Send(context.Background(), MethodListTools, nil)
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", first.ID, second.ID)
	}
}

func TestSendTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{token: "t", ok: true}, WithTimeout(20*time.Millisecond))
	resp := tr.Send(context.Background(), MethodListTools, nil)

	if !resp.IsError() {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != CodeTimeout {
		t.Errorf("code = %d, want %d", resp.Error.Code, CodeTimeout)
	}
}

func TestSendCallerDeadlineWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	// The transport's own timeout is generous; the caller's deadline
	// must still cut the call short.
	tr := NewTransport(srv.URL, staticCreds{token: "t", ok: true}, WithTimeout(10*time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	resp := tr.Send(ctx, MethodListTools, nil)
	if !resp.IsError() || resp.Error.Code != CodeTimeout {
		t.Errorf("response = %+v, want timeout error", resp)
	}
}

func TestSendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{token: "t", ok: true})
	resp := tr.Send(context.Background(), MethodListTools, nil)

	if !resp.IsError() {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != CodeInternal {
		t.Errorf("code = %d, want %d", resp.Error.Code, CodeInternal)
	}
	if !strings.Contains(resp.Error.Message, "HTTP 502") {
		t.Errorf("message = %q, want HTTP status included", resp.Error.Message)
	}
}

func TestSendDirectJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"tools":[]}}`))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{token: "t", ok: true})
	resp := tr.Send(context.Background(), MethodListTools, nil)

	if resp.IsError() {
		t.Fatalf("unexpected error: %s", resp.ErrorMessage())
	}
	if string(resp.Result) != `{"tools":[]}` {
		t.Errorf("result = %s", resp.Result)
	}
}

func TestSendEventStream(t *testing.T) {
	body := "event: message\ndata: {\"jsonrpc\":\"2.0\",\"id\":7,\"result\":{\"ok\":true}}\n\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{token: "t", ok: true})
	resp := tr.Send(context.Background(), MethodListTools, nil)

	if resp.IsError() {
		t.Fatalf("unexpected error: %s", resp.ErrorMessage())
	}
	if resp.ID != 7 {
		t.Errorf("id = %d, want 7", resp.ID)
	}
	if string(resp.Result) != `{"ok":true}` {
		t.Errorf("result = %s", resp.Result)
	}
}

func TestSendEventStreamFirstFrameWins(t *testing.T) {
	body := strings.Join([]string{
		"data: not json at all",
		`data: {"jsonrpc":"2.0","id":3,"result":{"n":1}}`,
		`data: {"jsonrpc":"2.0","id":3,"result":{"n":2}}`,
		"",
	}, "\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{token: "t", ok: true})
	resp := tr.Send(context.Background(), MethodListTools, nil)

	if string(resp.Result) != `{"n":1}` {
		t.Errorf("result = %s, want first valid frame", resp.Result)
	}
}

func TestSendEventStreamNoPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(": keepalive\n\n"))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{token: "t", ok: true})
	resp := tr.Send(context.Background(), MethodListTools, nil)

	if !resp.IsError() || resp.Error.Code != CodeParseError {
		t.Errorf("response = %+v, want parse error", resp)
	}
}

func TestSendUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("<html>gateway error page</html>"))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{token: "t", ok: true})
	resp := tr.Send(context.Background(), MethodListTools, nil)

	if !resp.IsError() || resp.Error.Code != CodeParseError {
		t.Errorf("response = %+v, want parse error", resp)
	}
	if !strings.Contains(resp.Error.Message, "gateway error page") {
		t.Errorf("message = %q, want body preview included", resp.Error.Message)
	}
}

func TestSendUnknownContentTypeFallsBackToJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"ok":true}}`))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{token: "t", ok: true})
	resp := tr.Send(context.Background(), MethodListTools, nil)

	if resp.IsError() {
		t.Fatalf("unexpected error: %s", resp.ErrorMessage())
	}
}

func TestSendServerSideRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found"}}`))
	}))
	defer srv.Close()

	tr := NewTransport(srv.URL, staticCreds{token: "t", ok: true})
	resp := tr.Send(context.Background(), "no/such/method", nil)

	if !resp.IsError() {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != -32601 || resp.Error.Message != "Method not found" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestPreviewTruncation(t *testing.T) {
	long := strings.Repeat("x", previewLimit+50)
	got := preview([]byte(long))
	if len(got) != previewLimit+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("preview length = %d", len(got))
	}
}
