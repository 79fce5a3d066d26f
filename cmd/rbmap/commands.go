package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/rbmap/rbmap/internal/config"
	"github.com/rbmap/rbmap/internal/engine"
	"github.com/rbmap/rbmap/internal/mcp"
	"github.com/rbmap/rbmap/internal/search"
	"github.com/rbmap/rbmap/internal/types"
	"github.com/rbmap/rbmap/internal/watch"
)

func outlineCommand() *cli.Command {
	return &cli.Command{
		Name:      "outline",
		Aliases:   []string{"o"},
		Usage:     "Print the document-symbol outline of Ruby files",
		ArgsUsage: "[files or globs...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
			&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: "Fuzzy-filter symbols by name"},
			&cli.IntFlag{Name: "max", Aliases: []string{"m"}, Usage: "Max filter matches per file", Value: 0},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			return forEachTarget(c, cfg, func(path string, view *types.StructureView) error {
				if query := c.String("filter"); query != "" {
					matches := search.Filter(view.Symbols, query, cfg.Filter.Threshold, c.Int("max"))
					if c.Bool("json") {
						return printJSON(map[string]any{"path": path, "matches": matches})
					}
					printMatches(path, matches)
					return nil
				}
				if c.Bool("json") {
					return printJSON(map[string]any{"path": path, "symbols": view.Symbols})
				}
				printOutline(path, view.Symbols)
				return nil
			})
		},
	}
}

func foldCommand() *cli.Command {
	return &cli.Command{
		Name:      "fold",
		Aliases:   []string{"f"},
		Usage:     "Print the folding ranges of Ruby files",
		ArgsUsage: "[files or globs...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			return forEachTarget(c, cfg, func(path string, view *types.StructureView) error {
				if c.Bool("json") {
					return printJSON(map[string]any{"path": path, "foldingRanges": view.FoldingRanges})
				}
				printFolds(path, view.FoldingRanges)
				return nil
			})
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			server, err := mcp.NewServer(cfg)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Start(ctx)
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch the project and reprint outlines on change",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Aliases: []string{"j"}, Usage: "Output as JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			eng, err := engine.New(cfg.Cache.MaxEntries)
			if err != nil {
				return err
			}

			asJSON := c.Bool("json")
			watcher, err := watch.New(cfg, func(paths []string) {
				sort.Strings(paths)
				for _, path := range paths {
					view, err := eng.AnalyzeFile(path)
					if err != nil {
						fmt.Fprintf(os.Stderr, "rbmap: %v\n", err)
						continue
					}
					if asJSON {
						_ = printJSON(map[string]any{"path": path, "symbols": view.Symbols})
					} else {
						printOutline(path, view.Symbols)
					}
				}
			})
			if err != nil {
				return err
			}
			if err := watcher.Start(); err != nil {
				return err
			}
			defer func() { _ = watcher.Stop() }()

			fmt.Fprintf(os.Stderr, "rbmap: watching %s\n", cfg.Project.Root)
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return nil
		},
	}
}

// forEachTarget expands CLI arguments (or the configured include globs) into
// Ruby files, analyzes them in parallel, and emits results in path order.
func forEachTarget(c *cli.Context, cfg *config.Config, emit func(string, *types.StructureView) error) error {
	paths, err := expandTargets(cfg, c.Args().Slice())
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no Ruby files matched")
	}

	eng, err := engine.New(cfg.Cache.MaxEntries)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	views := make(map[string]*types.StructureView, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		g.Go(func() error {
			view, err := eng.AnalyzeFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			views[path] = view
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Strings(paths)
	for _, path := range paths {
		if err := emit(path, views[path]); err != nil {
			return err
		}
	}
	return nil
}

// expandTargets resolves explicit arguments first (plain files, then globs
// against the project root); without arguments the configured include globs
// apply, filtered by the exclude globs.
func expandTargets(cfg *config.Config, args []string) ([]string, error) {
	seen := make(map[string]struct{})
	var paths []string
	add := func(path string) {
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = cfg.Include
	}

	for _, pattern := range patterns {
		if info, err := os.Stat(pattern); err == nil && !info.IsDir() {
			add(pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(filepath.Join(cfg.Project.Root, pattern))
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		for _, match := range matches {
			if excluded(cfg, match) {
				continue
			}
			if info, err := os.Stat(match); err == nil && !info.IsDir() {
				add(match)
			}
		}
	}
	return paths, nil
}

func excluded(cfg *config.Config, path string) bool {
	rel, err := filepath.Rel(cfg.Project.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range cfg.Exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func printJSON(data any) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
