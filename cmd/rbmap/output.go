package main

import (
	"fmt"
	"strings"

	"github.com/rbmap/rbmap/internal/search"
	"github.com/rbmap/rbmap/internal/types"
)

func printOutline(path string, symbols []*types.DocumentSymbol) {
	fmt.Printf("%s:\n", path)
	if len(symbols) == 0 {
		fmt.Println("  (no symbols)")
		return
	}
	printSymbols(symbols, 1)
}

func printSymbols(symbols []*types.DocumentSymbol, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, sym := range symbols {
		fmt.Printf("%s%s %s [%d:%d-%d:%d]\n",
			indent, sym.Kind, sym.Name,
			sym.Range.StartLine, sym.Range.StartColumn,
			sym.Range.EndLine, sym.Range.EndColumn)
		printSymbols(sym.Children, depth+1)
	}
}

func printFolds(path string, ranges []types.FoldingRange) {
	fmt.Printf("%s:\n", path)
	if len(ranges) == 0 {
		fmt.Println("  (no folding ranges)")
		return
	}
	for _, r := range ranges {
		fmt.Printf("  %s %d-%d\n", r.Kind, r.StartLine, r.EndLine)
	}
}

func printMatches(path string, matches []search.Match) {
	fmt.Printf("%s:\n", path)
	if len(matches) == 0 {
		fmt.Println("  (no matches)")
		return
	}
	for _, m := range matches {
		fmt.Printf("  %s %s [%d:%d] score=%.2f\n",
			m.Symbol.Kind, m.Path,
			m.Symbol.SelectionRange.StartLine, m.Symbol.SelectionRange.StartColumn,
			m.Score)
	}
}
