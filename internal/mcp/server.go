// Package mcp serves the analysis operations as Model Context Protocol tools
// over a line-delimited JSON-RPC 2.0 stdio transport.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/blackwell-systems/codegauge/internal/errs"
	"github.com/blackwell-systems/codegauge/internal/metrics"
	"github.com/blackwell-systems/codegauge/internal/pipeline"
)

// Analyzer is the analysis surface the tools call. *analysis.Service
// satisfies it.
type Analyzer interface {
	AnalyzeFile(filename, content string) (*metrics.FileMetrics, error)
	AnalyzeProject(ctx context.Context, rootPath string, batchSize int, hooks pipeline.Hooks) (*pipeline.Aggregate, error)
}

type toolHandler func(ctx context.Context, args json.RawMessage) (any, error)

type toolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
	Handler     toolHandler     `json:"-"`
}

// methodFunc answers one JSON-RPC method. A returned *rpcError becomes the
// response's error member.
type methodFunc func(ctx context.Context, params json.RawMessage) (any, *rpcError)

// Server dispatches JSON-RPC requests to MCP methods and registered tools.
type Server struct {
	analyzer   Analyzer
	thresholds metrics.Thresholds
	version    string
	logger     *slog.Logger

	tools   []toolDef
	byName  map[string]int
	methods map[string]methodFunc
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and tool failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer constructs a Server backed by a. th feeds the suggestion tool and
// should match the thresholds a scores with.
func NewServer(a Analyzer, th metrics.Thresholds, version string, opts ...Option) *Server {
	s := &Server{
		analyzer:   a,
		thresholds: th,
		version:    version,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		byName:     make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "mcp")
	s.methods = map[string]methodFunc{
		"initialize": s.initialize,
		"ping":       func(context.Context, json.RawMessage) (any, *rpcError) { return struct{}{}, nil },
		"tools/list": s.listTools,
		"tools/call": s.callTool,
	}
	addTools(s)
	return s
}

// registerTool adds def, replacing any tool already registered under its name.
func (s *Server) registerTool(def toolDef) {
	if i, ok := s.byName[def.Name]; ok {
		s.tools[i] = def
		return
	}
	s.byName[def.Name] = len(s.tools)
	s.tools = append(s.tools, def)
}

// Run serves requests read from r, writing responses to w, until r reaches
// EOF or ctx is done. Both end the session cleanly; only I/O failures are
// returned.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	lines, readErr := readLines(ctx, r)
	out := newLineWriter(w)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			resp := s.handle(ctx, line)
			if resp == nil {
				continue
			}
			if err := out.write(resp); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}
	}
}

// handle decodes one message and returns its response, or nil for
// notifications.
func (s *Server) handle(ctx context.Context, line []byte) *response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("malformed request", "error", err)
		return &response{JSONRPC: "2.0", ID: json.RawMessage("null"), Error: &rpcError{Code: codeParseError, Message: "Parse error"}}
	}
	if req.isNotification() {
		s.logger.Debug("notification", "method", req.Method)
		return nil
	}

	resp := &response{JSONRPC: "2.0", ID: req.ID}
	if req.JSONRPC != "2.0" || req.Method == "" {
		resp.Error = &rpcError{Code: codeInvalidRequest, Message: "Invalid Request"}
		return resp
	}
	method, ok := s.methods[req.Method]
	if !ok {
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "Method not found"}
		return resp
	}

	result, rerr := method(ctx, req.Params)
	if rerr != nil {
		resp.Error = rerr
		return resp
	}
	resp.Result = result
	return resp
}

func (s *Server) initialize(context.Context, json.RawMessage) (any, *rpcError) {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{"tools": map[string]any{}},
		"serverInfo":      map[string]any{"name": "codegauge", "version": s.version},
	}, nil
}

func (s *Server) listTools(context.Context, json.RawMessage) (any, *rpcError) {
	return map[string]any{"tools": s.tools}, nil
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (any, *rpcError) {
	var call struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments,omitempty"`
	}
	if err := json.Unmarshal(params, &call); err != nil || call.Name == "" {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}

	i, ok := s.byName[call.Name]
	if !ok {
		return textResult("unknown tool: "+call.Name, true), nil
	}
	args := call.Arguments
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage(`{}`)
	}

	result, err := s.tools[i].Handler(ctx, args)
	if err != nil {
		s.logger.Info("tool failed", "tool", call.Name, "error", err)
		return textResult(toolErrorText(err), true), nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return textResult(err.Error(), true), nil
	}
	return textResult(string(data), false), nil
}

// toolErrorText prefixes analysis errors with their code so clients can
// branch on it.
func toolErrorText(err error) string {
	if code := errs.CodeOf(err); code != "" {
		return fmt.Sprintf("%s: %s", code, err)
	}
	return err.Error()
}
