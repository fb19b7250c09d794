package mcp

import "encoding/json"

// Methods accepted by the ViolentUTF MCP endpoint. The catalog is
// fixed; the server does not grow methods at runtime.
const (
	MethodInitialize    = "initialize"
	MethodListPrompts   = "prompts/list"
	MethodGetPrompt     = "prompts/get"
	MethodListResources = "resources/list"
	MethodReadResource  = "resources/read"
	MethodListTools     = "tools/list"
	MethodExecuteTool   = "tools/execute"
	MethodCompletion    = "completion"
)

// JSON-RPC error codes produced by the transport. Negative per the
// JSON-RPC 2.0 convention; -32000/-32001 are implementation-defined.
const (
	CodeAuthFailed     = -32000
	CodeTimeout        = -32001
	CodeInvalidRequest = -32600
	CodeInternal       = -32603
	CodeParseError     = -32700
)

// Request is a JSON-RPC 2.0 request envelope.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response envelope. Exactly one of Result
// and Error is meaningful. The transport never hands callers a nil
// Response: every failure mode becomes an Error with a code.
type Response struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// IsError reports whether the response carries an error object.
func (r *Response) IsError() bool { return r.Error != nil }

// ErrorMessage returns the error message, or "" for a success.
func (r *Response) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Message
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ServerInfo identifies the server, captured at initialization.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the result of the initialize method.
type InitializeResult struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    json.RawMessage `json:"capabilities,omitempty"`
	ServerInfo      *ServerInfo     `json:"serverInfo,omitempty"`
}

// Prompt describes a server-side prompt template.
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes one argument a prompt accepts.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// PromptMessage is one rendered message of a prompt. Content arrives
// either as a bare string or as a {type, text} block depending on the
// server version; MessageContent absorbs both.
type PromptMessage struct {
	Role    string         `json:"role,omitempty"`
	Content MessageContent `json:"content"`
}

// MessageContent is the text of a prompt message.
type MessageContent struct {
	Text string
}

func (m *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.Text = s
		return nil
	}
	var block struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &block); err != nil {
		return err
	}
	m.Text = block.Text
	return nil
}

// Resource describes a server-side resource.
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// Tool describes an executable server-side tool.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}
