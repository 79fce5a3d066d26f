package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbmap/rbmap/internal/config"
	"github.com/rbmap/rbmap/internal/types"
)

const sample = `require "json"
require "set"

class Invoice
  def initialize
  end

  def total
  end
end
`

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Project.Root = t.TempDir()
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

func inline(s string) *string {
	return &s
}

func callRequest(t *testing.T, params any) *mcp.CallToolRequest {
	t.Helper()
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	return &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: raw}}
}

func decodeResult(t *testing.T, res *mcp.CallToolResult, out any) {
	t.Helper()
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), out))
}

func TestDocumentSymbolsFromContent(t *testing.T) {
	s := testServer(t)

	res, err := s.handleDocumentSymbols(context.Background(),
		callRequest(t, DocumentParams{Content: inline(sample)}))
	require.NoError(t, err)

	var payload struct {
		Symbols []*types.DocumentSymbol `json:"symbols"`
	}
	decodeResult(t, res, &payload)

	require.Len(t, payload.Symbols, 1)
	assert.Equal(t, "Invoice", payload.Symbols[0].Name)
	assert.Equal(t, types.SymbolKindClass, payload.Symbols[0].Kind)
	require.Len(t, payload.Symbols[0].Children, 2)
	assert.Equal(t, types.SymbolKindConstructor, payload.Symbols[0].Children[0].Kind)
}

func TestDocumentSymbolsFromRelativePath(t *testing.T) {
	s := testServer(t)
	path := filepath.Join(s.cfg.Project.Root, "invoice.rb")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	res, err := s.handleDocumentSymbols(context.Background(),
		callRequest(t, DocumentParams{Path: "invoice.rb"}))
	require.NoError(t, err)

	var payload struct {
		Symbols []*types.DocumentSymbol `json:"symbols"`
	}
	decodeResult(t, res, &payload)
	require.Len(t, payload.Symbols, 1)
	assert.Equal(t, "Invoice", payload.Symbols[0].Name)
}

func TestDocumentSymbolsRequiresPathOrContent(t *testing.T) {
	s := testServer(t)

	res, err := s.handleDocumentSymbols(context.Background(),
		callRequest(t, DocumentParams{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestEmptyContentAnalyzesEmptyDocument(t *testing.T) {
	s := testServer(t)

	res, err := s.handleDocumentSymbols(context.Background(),
		callRequest(t, DocumentParams{Content: inline("")}))
	require.NoError(t, err)

	var payload struct {
		Symbols []*types.DocumentSymbol `json:"symbols"`
	}
	decodeResult(t, res, &payload)
	assert.Empty(t, payload.Symbols)
}

func TestEmptyContentWinsOverPath(t *testing.T) {
	s := testServer(t)
	path := filepath.Join(s.cfg.Project.Root, "invoice.rb")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	res, err := s.handleDocumentSymbols(context.Background(),
		callRequest(t, DocumentParams{Path: "invoice.rb", Content: inline("")}))
	require.NoError(t, err)

	var payload struct {
		Symbols []*types.DocumentSymbol `json:"symbols"`
	}
	decodeResult(t, res, &payload)
	assert.Empty(t, payload.Symbols)
}

func TestDocumentSymbolsMissingFile(t *testing.T) {
	s := testServer(t)

	res, err := s.handleDocumentSymbols(context.Background(),
		callRequest(t, DocumentParams{Path: "absent.rb"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestFoldingRangesMergesImports(t *testing.T) {
	s := testServer(t)

	res, err := s.handleFoldingRanges(context.Background(),
		callRequest(t, DocumentParams{Content: inline(sample)}))
	require.NoError(t, err)

	var payload struct {
		FoldingRanges []types.FoldingRange `json:"foldingRanges"`
	}
	decodeResult(t, res, &payload)

	require.NotEmpty(t, payload.FoldingRanges)
	assert.Equal(t, types.FoldingRange{StartLine: 0, EndLine: 1, Kind: types.FoldingRangeImports}, payload.FoldingRanges[0])
}

func TestOutlineSearch(t *testing.T) {
	s := testServer(t)

	res, err := s.handleOutlineSearch(context.Background(),
		callRequest(t, SearchParams{
			DocumentParams: DocumentParams{Content: inline(sample)},
			Query:          "total",
		}))
	require.NoError(t, err)

	var payload struct {
		Matches []struct {
			Path  string  `json:"path"`
			Score float64 `json:"score"`
		} `json:"matches"`
	}
	decodeResult(t, res, &payload)

	require.Len(t, payload.Matches, 1)
	assert.Equal(t, "Invoice::total", payload.Matches[0].Path)
	assert.Equal(t, 1.0, payload.Matches[0].Score)
}

func TestOutlineSearchRequiresQuery(t *testing.T) {
	s := testServer(t)

	res, err := s.handleOutlineSearch(context.Background(),
		callRequest(t, SearchParams{DocumentParams: DocumentParams{Content: inline(sample)}}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestInfo(t *testing.T) {
	s := testServer(t)

	res, err := s.handleInfo(context.Background(), callRequest(t, map[string]any{}))
	require.NoError(t, err)

	var payload struct {
		ServerName   string   `json:"server_name"`
		Capabilities []string `json:"capabilities"`
	}
	decodeResult(t, res, &payload)

	assert.Equal(t, "rbmap-mcp-server", payload.ServerName)
	assert.Contains(t, payload.Capabilities, "document_symbols")
	assert.Contains(t, payload.Capabilities, "folding_ranges")
}

func TestInvalidArgumentsJSON(t *testing.T) {
	s := testServer(t)

	req := &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: []byte("{not json")}}
	res, err := s.handleDocumentSymbols(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
