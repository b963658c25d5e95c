package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/blackwell-systems/codegauge/internal/lang"
	"github.com/blackwell-systems/codegauge/internal/pipeline"
	"github.com/blackwell-systems/codegauge/internal/suggest"
)

var (
	noArgsSchema      = json.RawMessage(`{"type":"object","properties":{},"additionalProperties":false}`)
	analyzeFileSchema = json.RawMessage(`{"type":"object","properties":{"filename":{"type":"string","description":"File name; its extension selects the language"},"content":{"type":"string","description":"Full file content"}},"required":["filename","content"],"additionalProperties":false}`)
	projectSchema     = json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Project directory inside the upload root"},"batch_size":{"type":"integer","description":"Files analyzed concurrently per batch"},"include_files":{"type":"boolean","description":"Include per-file metrics (default false)"}},"required":["path"],"additionalProperties":false}`)
	suggestSchema     = json.RawMessage(`{"type":"object","properties":{"path":{"type":"string","description":"Project directory inside the upload root"},"limit":{"type":"integer","description":"Maximum number of suggestions (default 10)"}},"required":["path"],"additionalProperties":false}`)
)

// addTools registers all tool handlers on s.
func addTools(s *Server) {
	s.registerTool(toolDef{
		Name:        "analyze_file",
		Description: "Line counts, complexity estimate and quality score for one source file.",
		InputSchema: analyzeFileSchema,
		Handler:     s.handleAnalyzeFile,
	})
	s.registerTool(toolDef{
		Name:        "analyze_project",
		Description: "Aggregate metrics for every supported file in a project directory.",
		InputSchema: projectSchema,
		Handler:     s.handleAnalyzeProject,
	})
	s.registerTool(toolDef{
		Name:        "suggest_improvements",
		Description: "Ranked improvement suggestions for a project directory.",
		InputSchema: suggestSchema,
		Handler:     s.handleSuggest,
	})
	s.registerTool(toolDef{
		Name:        "list_languages",
		Description: "Recognized languages and their file extensions.",
		InputSchema: noArgsSchema,
		Handler:     s.handleListLanguages,
	})
}

func (s *Server) handleAnalyzeFile(_ context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return s.analyzer.AnalyzeFile(params.Filename, params.Content)
}

func (s *Server) handleAnalyzeProject(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Path         string `json:"path"`
		BatchSize    int    `json:"batch_size"`
		IncludeFiles bool   `json:"include_files"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if params.Path == "" {
		return nil, errors.New("path is required")
	}

	agg, err := s.analyzer.AnalyzeProject(ctx, params.Path, params.BatchSize, pipeline.Hooks{})
	if err != nil {
		return nil, err
	}
	// Per-file metrics are large; only send them on request.
	if !params.IncludeFiles {
		trimmed := *agg
		trimmed.Files = nil
		agg = &trimmed
	}
	return agg, nil
}

func (s *Server) handleSuggest(ctx context.Context, args json.RawMessage) (any, error) {
	var params struct {
		Path  string `json:"path"`
		Limit *int   `json:"limit"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if params.Path == "" {
		return nil, errors.New("path is required")
	}
	limit := 10
	if params.Limit != nil && *params.Limit > 0 {
		limit = min(*params.Limit, 50)
	}

	agg, err := s.analyzer.AnalyzeProject(ctx, params.Path, 0, pipeline.Hooks{})
	if err != nil {
		return nil, err
	}
	suggestions := suggest.NewEngine(suggest.WithLimit(limit)).Run(suggest.FromAggregate(agg, s.thresholds))
	return map[string]any{"suggestions": suggestions}, nil
}

func (s *Server) handleListLanguages(_ context.Context, _ json.RawMessage) (any, error) {
	return map[string]any{"languages": lang.Languages()}, nil
}
