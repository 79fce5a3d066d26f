package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rbmap/rbmap/internal/search"
	"github.com/rbmap/rbmap/internal/types"
	"github.com/rbmap/rbmap/internal/version"
)

// DocumentParams identifies the document to analyze, either inline or on
// disk. Content is a pointer so an explicitly provided empty document is
// distinguishable from an absent argument.
type DocumentParams struct {
	Path    string  `json:"path,omitempty"`
	Content *string `json:"content,omitempty"`
}

// SearchParams extends DocumentParams with the outline_search inputs.
type SearchParams struct {
	DocumentParams
	Query string `json:"query"`
	Max   int    `json:"max,omitempty"`
}

// resolveContent loads the document bytes from params. Inline content wins
// whenever it is set, even when empty; relative paths resolve against the
// project root.
func (s *Server) resolveContent(params DocumentParams) ([]byte, error) {
	if params.Content != nil {
		return []byte(*params.Content), nil
	}
	if params.Path == "" {
		return nil, errors.New("either path or content is required")
	}
	path := params.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cfg.Project.Root, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", params.Path, err)
	}
	return content, nil
}

func (s *Server) analyze(params DocumentParams) (*types.StructureView, error) {
	content, err := s.resolveContent(params)
	if err != nil {
		return nil, err
	}
	return s.engine.Analyze(content)
}

func (s *Server) handleDocumentSymbols(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params DocumentParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse(fmt.Errorf("invalid parameters: %w", err))
	}
	view, err := s.analyze(params)
	if err != nil {
		return createErrorResponse(err)
	}
	return createJSONResponse(map[string]any{
		"symbols": view.Symbols,
	})
}

func (s *Server) handleFoldingRanges(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params DocumentParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse(fmt.Errorf("invalid parameters: %w", err))
	}
	view, err := s.analyze(params)
	if err != nil {
		return createErrorResponse(err)
	}
	return createJSONResponse(map[string]any{
		"foldingRanges": view.FoldingRanges,
	})
}

func (s *Server) handleOutlineSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params SearchParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse(fmt.Errorf("invalid parameters: %w", err))
	}
	if params.Query == "" {
		return createErrorResponse(errors.New("query is required"))
	}
	view, err := s.analyze(params.DocumentParams)
	if err != nil {
		return createErrorResponse(err)
	}
	matches := search.Filter(view.Symbols, params.Query, s.cfg.Filter.Threshold, params.Max)
	return createJSONResponse(map[string]any{
		"matches": matches,
	})
}

func (s *Server) handleInfo(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return createJSONResponse(map[string]any{
		"server_name":    "rbmap-mcp-server",
		"server_version": version.FullInfo(),
		"go_version":     runtime.Version(),
		"platform":       runtime.GOOS + "/" + runtime.GOARCH,
		"capabilities": []string{
			"stdio_transport",
			"document_symbols",
			"folding_ranges",
			"outline_search",
			"tree_sitter_parsing",
			"result_caching",
		},
	})
}
