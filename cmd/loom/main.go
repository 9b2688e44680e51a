package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/sanity-io/litter"

	"github.com/loom-lang/loom/internal/ast"
	"github.com/loom-lang/loom/internal/cache"
	"github.com/loom-lang/loom/internal/compile"
	"github.com/loom-lang/loom/internal/config"
	"github.com/loom-lang/loom/internal/pipeline"
)

const (
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

type cliOptions struct {
	syntax     string
	jobs       int
	verbose    bool
	noCache    bool
	noColor    bool
	failFast   bool
	configPath string
	paths      []string
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags] <file|dir>...

Commands:
  check    parse and check source files (default)
  desugar  check and print the core form of every definition

Flags:
  -syntax imp|fun|auto  force a surface grammar (default: auto)
  -jobs N               bound the parallel passes (default: all CPUs)
  -verbose              dump internal structures after a successful run
  -config FILE          use FILE instead of searching for loom.yaml
  -fail-fast            stop after the first error
  -no-cache             skip the on-disk check cache
  -no-color             disable colored diagnostics
`, os.Args[0])
}

func parseArgs(args []string) (*cliOptions, error) {
	opts := &cliOptions{syntax: "", jobs: 0}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-verbose" || arg == "--verbose":
			opts.verbose = true
		case arg == "-no-cache" || arg == "--no-cache":
			opts.noCache = true
		case arg == "-no-color" || arg == "--no-color":
			opts.noColor = true
		case arg == "-fail-fast" || arg == "--fail-fast":
			opts.failFast = true
		case arg == "-config" || arg == "--config":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-config requires a value")
			}
			i++
			opts.configPath = args[i]
		case arg == "-syntax" || arg == "--syntax":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-syntax requires a value")
			}
			i++
			opts.syntax = args[i]
		case arg == "-jobs" || arg == "--jobs":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("-jobs requires a value")
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("-jobs requires a non-negative number, got %q", args[i])
			}
			opts.jobs = n
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("unknown flag %q", arg)
		default:
			opts.paths = append(opts.paths, arg)
		}
	}
	return opts, nil
}

// applyConfig fills in options the command line left unset from loom.yaml,
// searching upward from the first input path.
func applyConfig(opts *cliOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		dir := "."
		if len(opts.paths) > 0 {
			dir = opts.paths[0]
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				dir = filepath.Dir(dir)
			}
		}
		found, err := config.FindConfig(dir)
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		if cfg.CacheDir == "" {
			cfg.CacheDir = filepath.Join(filepath.Dir(path), ".loom-cache")
		}
	}
	if opts.syntax == "" {
		opts.syntax = cfg.Syntax
	}
	if opts.jobs == 0 {
		opts.jobs = cfg.Jobs
	}
	if cfg.NoColor {
		opts.noColor = true
	}
	if cfg.FailFast {
		opts.failFast = true
	}
	return cfg, nil
}

func toSyntax(s string) (ast.Syntax, error) {
	switch s {
	case "", "auto":
		return pipeline.SyntaxAuto, nil
	case "imp":
		return ast.SyntaxImp, nil
	case "fun":
		return ast.SyntaxFun, nil
	default:
		return pipeline.SyntaxAuto, fmt.Errorf("syntax must be auto, imp, or fun, got %q", s)
	}
}

// collectUnits expands directories to their source files and reads
// everything into memory.
func collectUnits(paths []string) ([]compile.Unit, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), config.SourceFileExt) {
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}
	units := make([]compile.Unit, 0, len(files))
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		units = append(units, compile.Unit{Path: file, Source: string(src)})
	}
	return units, nil
}

// invocationKey hashes every unit together. Definitions reference
// constructors and functions across files, so a change anywhere
// invalidates the whole run.
func invocationKey(units []compile.Unit, syntax string) string {
	var buf strings.Builder
	for _, u := range units {
		buf.WriteString(u.Path)
		buf.WriteByte(0)
		buf.WriteString(u.Source)
		buf.WriteByte(0)
	}
	return cache.Key([]byte(buf.String()), syntax)
}

func run(command string, opts *cliOptions) int {
	cfg, err := applyConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	syntax, err := toSyntax(opts.syntax)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	units, err := collectUnits(opts.paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}
	if len(units) == 0 {
		fmt.Fprintln(os.Stderr, "No source files found")
		return 1
	}

	ctx := context.Background()

	var store *cache.Cache
	key := ""
	useCache := command == "check" && cfg.Cache && !opts.noCache && cfg.CacheDir != ""
	if useCache {
		if err := os.MkdirAll(cfg.CacheDir, 0o755); err == nil {
			store, err = cache.Open(filepath.Join(cfg.CacheDir, "checks.db"))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
				store = nil
			}
		}
	}
	if store != nil {
		defer store.Close()
		key = invocationKey(units, opts.syntax)
		hit, err := store.Hit(ctx, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
		} else if hit {
			fmt.Printf("Checked %d file(s) (cached)\n", len(units))
			return 0
		}
	}

	res := compile.Compile(ctx, units, compile.Options{Syntax: syntax, Jobs: opts.jobs})
	if len(res.Errors) > 0 {
		colored := !opts.noColor && isatty.IsTerminal(os.Stderr.Fd())
		shown := res.Errors
		if opts.failFast {
			shown = shown[:1]
		}
		for _, diag := range shown {
			if colored {
				fmt.Fprintf(os.Stderr, "- %s%s%s\n", colorRed, diag.Error(), colorReset)
			} else {
				fmt.Fprintf(os.Stderr, "- %s\n", diag.Error())
			}
		}
		fmt.Fprintf(os.Stderr, "%d error(s)\n", len(res.Errors))
		return 1
	}

	if store != nil {
		if err := store.Record(ctx, key, opts.paths[0], opts.syntax); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", err)
		}
	}

	switch command {
	case "desugar":
		fmt.Println(res.Book.String())
	default:
		fmt.Printf("Checked %d file(s), %d definition(s)\n", len(units), len(res.Book.Defs))
	}
	if opts.verbose {
		litter.Config.HidePrivateFields = true
		fmt.Fprintln(os.Stderr, litter.Sdump(res.Book))
	}
	return 0
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	args := os.Args[1:]
	if len(args) > 0 && (args[0] == "help" || args[0] == "-help" || args[0] == "--help") {
		usage()
		return
	}

	command := "check"
	if len(args) > 0 && (args[0] == "check" || args[0] == "desugar") {
		command = args[0]
		args = args[1:]
	}

	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		usage()
		os.Exit(1)
	}
	if len(opts.paths) == 0 {
		usage()
		os.Exit(1)
	}

	os.Exit(run(command, opts))
}
