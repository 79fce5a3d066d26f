// Package mcp exposes the structure-view engines over the Model Context
// Protocol with stdio transport.
package mcp

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rbmap/rbmap/internal/config"
	"github.com/rbmap/rbmap/internal/engine"
	"github.com/rbmap/rbmap/internal/version"
)

// Server wires the engine into MCP tools. Each tool call is one isolated
// engine invocation; concurrent calls for different documents never share
// listener state.
type Server struct {
	cfg    *config.Config
	engine *engine.Engine
	server *mcp.Server
}

// NewServer constructs the MCP server and registers its tools.
func NewServer(cfg *config.Config) (*Server, error) {
	eng, err := engine.New(cfg.Cache.MaxEntries)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		engine: eng,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "rbmap-mcp-server",
			Version: version.Info(),
		}, nil),
	}
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	documentSchema := map[string]*jsonschema.Schema{
		"path": {
			Type:        "string",
			Description: "Path to a Ruby file, absolute or relative to the project root",
		},
		"content": {
			Type:        "string",
			Description: "Ruby source to analyze directly; takes precedence over path",
		},
	}

	s.server.AddTool(&mcp.Tool{
		Name:        "document_symbols",
		Description: "Hierarchical outline of a Ruby document: classes, modules, methods, fields, constants, and variables with ranges and selection ranges.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: documentSchema,
		},
	}, s.handleDocumentSymbols)

	s.server.AddTool(&mcp.Tool{
		Name:        "folding_ranges",
		Description: "Collapsible line ranges of a Ruby document, with consecutive require statements merged into one imports range.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: documentSchema,
		},
	}, s.handleFoldingRanges)

	searchSchema := map[string]*jsonschema.Schema{
		"path":    documentSchema["path"],
		"content": documentSchema["content"],
		"query": {
			Type:        "string",
			Description: "Symbol name to match, with typo-tolerant fuzzy matching",
		},
		"max": {
			Type:        "integer",
			Description: "Maximum number of matches to return",
		},
	}

	s.server.AddTool(&mcp.Tool{
		Name:        "outline_search",
		Description: "Find symbols in a Ruby document by name, ranked by match quality.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: searchSchema,
			Required:   []string{"query"},
		},
	}, s.handleOutlineSearch)

	s.server.AddTool(&mcp.Tool{
		Name:        "info",
		Description: "Server name, version, and capabilities.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleInfo)
}

// Start runs the server over stdio until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
