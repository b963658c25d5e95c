package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/codegauge/internal/metrics"
)

func newTestServer() *Server {
	return NewServer(&stubAnalyzer{}, metrics.DefaultThresholds, "test")
}

// serve feeds lines to s as one session and returns the response lines.
func serve(t *testing.T, s *Server, lines ...string) []string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	if err := s.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := strings.TrimSuffix(out.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

type rpcReply struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func decode(t *testing.T, line string) rpcReply {
	t.Helper()
	var r rpcReply
	if err := json.Unmarshal([]byte(line), &r); err != nil {
		t.Fatalf("decode %q: %v", line, err)
	}
	return r
}

func TestRun_Initialize(t *testing.T) {
	out := serve(t, newTestServer(), `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	if len(out) != 1 {
		t.Fatalf("expected 1 response, got %d", len(out))
	}

	var result struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(decode(t, out[0]).Result, &result); err != nil {
		t.Fatal(err)
	}
	if result.ProtocolVersion != protocolVersion {
		t.Errorf("protocolVersion = %q", result.ProtocolVersion)
	}
	if result.ServerInfo.Name != "codegauge" || result.ServerInfo.Version != "test" {
		t.Errorf("serverInfo = %+v", result.ServerInfo)
	}
}

func TestRun_ToolsList(t *testing.T) {
	s := newTestServer()
	s.registerTool(toolDef{
		Name:        "echo",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler: func(_ context.Context, args json.RawMessage) (any, error) {
			return args, nil
		},
	})

	out := serve(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	var result struct {
		Tools []struct {
			Name        string          `json:"name"`
			InputSchema json.RawMessage `json:"inputSchema"`
		} `json:"tools"`
	}
	if err := json.Unmarshal(decode(t, out[0]).Result, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Tools) != 5 {
		t.Fatalf("expected 5 tools, got %d", len(result.Tools))
	}
	if result.Tools[4].Name != "echo" {
		t.Errorf("last tool = %q, want echo", result.Tools[4].Name)
	}
	for _, tool := range result.Tools {
		if len(tool.InputSchema) == 0 {
			t.Errorf("tool %q has no input schema", tool.Name)
		}
	}
}

func TestRegisterTool_ReplacesByName(t *testing.T) {
	s := newTestServer()
	before := len(s.tools)
	s.registerTool(toolDef{Name: "list_languages", Handler: func(context.Context, json.RawMessage) (any, error) {
		return "replaced", nil
	}})
	if len(s.tools) != before {
		t.Errorf("tool count changed from %d to %d", before, len(s.tools))
	}

	out := serve(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"list_languages"}}`)
	var result callResult
	if err := json.Unmarshal(decode(t, out[0]).Result, &result); err != nil {
		t.Fatal(err)
	}
	if result.Content[0].Text != `"replaced"` {
		t.Errorf("text = %s", result.Content[0].Text)
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		code int
	}{
		{"parse error", `{not json`, codeParseError},
		{"unknown method", `{"jsonrpc":"2.0","id":3,"method":"nonexistent/method"}`, codeMethodNotFound},
		{"wrong version", `{"jsonrpc":"1.0","id":4,"method":"ping"}`, codeInvalidRequest},
		{"call without name", `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{}}`, codeInvalidParams},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := serve(t, newTestServer(), tc.line)
			if len(out) != 1 {
				t.Fatalf("expected 1 response, got %d", len(out))
			}
			r := decode(t, out[0])
			if r.Error == nil || r.Error.Code != tc.code {
				t.Errorf("error = %+v, want code %d", r.Error, tc.code)
			}
		})
	}
}

func TestRun_UnknownToolIsErrorResult(t *testing.T) {
	out := serve(t, newTestServer(), `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"nope"}}`)
	r := decode(t, out[0])
	if r.Error != nil {
		t.Fatalf("unexpected rpc error: %+v", r.Error)
	}
	var result callResult
	if err := json.Unmarshal(r.Result, &result); err != nil {
		t.Fatal(err)
	}
	if !result.IsError || result.Content[0].Text != "unknown tool: nope" {
		t.Errorf("result = %+v", result)
	}
}

func TestRun_NotificationsGetNoResponse(t *testing.T) {
	out := serve(t, newTestServer(),
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":"a","method":"ping"}`,
	)
	if len(out) != 1 {
		t.Fatalf("expected only the ping response, got %d: %q", len(out), out)
	}
	if id := string(decode(t, out[0]).ID); id != `"a"` {
		t.Errorf("id = %s, want \"a\"", id)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan error, 1)
	go func() { done <- newTestServer().Run(ctx, pr, io.Discard) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil on cancel, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestRun_WriteFailure(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")
	err := newTestServer().Run(context.Background(), in, failingWriter{})
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Errorf("expected write error, got %v", err)
	}
}

func TestToolErrorText(t *testing.T) {
	if got := toolErrorText(errors.New("plain")); got != "plain" {
		t.Errorf("got %q", got)
	}
}
