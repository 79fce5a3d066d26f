// Package search filters a document outline by symbol name, combining exact
// and substring matching with Jaro-Winkler similarity for typo tolerance.
package search

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/rbmap/rbmap/internal/types"
)

// Match is one symbol retained by a filter query.
type Match struct {
	// Path is the qualified symbol path, e.g. "Foo::Bar::baz".
	Path   string                `json:"path"`
	Symbol *types.DocumentSymbol `json:"symbol"`
	Score  float64               `json:"score"`
}

// Filter flattens the outline and ranks symbols against query. Symbols below
// threshold are dropped; results are ordered by descending score, ties in
// document order. max <= 0 means unlimited.
func Filter(symbols []*types.DocumentSymbol, query string, threshold float64, max int) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var matches []Match
	flatten(symbols, "", func(path string, sym *types.DocumentSymbol) {
		s := score(query, sym.Name)
		if s >= threshold {
			matches = append(matches, Match{Path: path, Symbol: sym, Score: s})
		}
	})

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if max > 0 && len(matches) > max {
		matches = matches[:max]
	}
	return matches
}

// score blends exact, prefix, substring, and fuzzy similarity into one 0..1
// value. Exact matches always win; substring hits floor at 0.8 so they
// survive any sane threshold.
func score(query, name string) float64 {
	lq, ln := strings.ToLower(query), strings.ToLower(name)
	switch {
	case lq == ln:
		return 1.0
	case strings.HasPrefix(ln, lq):
		return 0.9
	case strings.Contains(ln, lq):
		return 0.8
	}

	similarity, err := edlib.StringsSimilarity(lq, ln, edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	// Fuzzy-only hits never outrank substring hits.
	s := float64(similarity)
	if s > 0.8 {
		s = 0.8
	}
	return s
}

func flatten(symbols []*types.DocumentSymbol, prefix string, visit func(string, *types.DocumentSymbol)) {
	for _, sym := range symbols {
		path := sym.Name
		if prefix != "" {
			path = prefix + "::" + sym.Name
		}
		visit(path, sym)
		flatten(sym.Children, path, visit)
	}
}
