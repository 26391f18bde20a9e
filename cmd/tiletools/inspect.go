package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"autotile-studio/internal/autotile"
	"autotile-studio/internal/render"
	"autotile-studio/internal/store"
)

// tableFiles lists the rule table files in dir, sorted.
func tableFiles(dir string) ([]string, error) {
	ids, err := store.NewFileStore(dir, store.Params{}).List()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(ids))
	for i, id := range ids {
		paths[i] = filepath.Join(dir, id+store.Suffix)
	}
	return paths, nil
}

// --- validate ---

type validateCmd struct{}

func (c *validateCmd) Name() string     { return "validate" }
func (c *validateCmd) Synopsis() string { return "decode every rule table in a directory" }
func (c *validateCmd) Usage() string {
	return "tiletools validate <dir>\n"
}
func (c *validateCmd) SetFlags(f *flag.FlagSet) {}

func (c *validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	bad, err := validateDir(os.Stdout, f.Arg(0))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if bad > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// validateDir reports on every table in dir and returns how many failed.
func validateDir(w io.Writer, dir string) (int, error) {
	paths, err := tableFiles(dir)
	if err != nil {
		return 0, err
	}

	bad := 0
	for _, path := range paths {
		fmt.Fprintf(w, "Validating %s...\n", filepath.Base(path))
		cfg, err := autotile.Load(path)
		if err != nil {
			kind := "ERROR"
			if errors.Is(err, autotile.ErrCorrupt) {
				kind = "CORRUPT"
			}
			fmt.Fprintf(w, "  %s: %v\n", kind, err)
			bad++
			continue
		}
		fmt.Fprintf(w, "  OK (%dx%d sheet, %d rules, coverage %d/256)\n",
			cfg.GridWidth, cfg.GridHeight, cfg.Len(), cfg.Coverage())
	}

	if bad > 0 {
		fmt.Fprintf(w, "\n%d of %d table(s) invalid\n", bad, len(paths))
	} else {
		fmt.Fprintf(w, "\nAll %d tables valid\n", len(paths))
	}
	return bad, nil
}

// --- viz ---

type vizCmd struct{}

func (c *vizCmd) Name() string     { return "viz" }
func (c *vizCmd) Synopsis() string { return "draw each rule as a 3x3 neighbourhood" }
func (c *vizCmd) Usage() string {
	return "tiletools viz <file>\n"
}
func (c *vizCmd) SetFlags(f *flag.FlagSet) {}

func (c *vizCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return withTable(f, viz)
}

// withTable loads the single file argument and hands it to fn.
func withTable(f *flag.FlagSet, fn func(io.Writer, *autotile.SpriteConfig)) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	cfg, err := autotile.Load(f.Arg(0))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	fn(os.Stdout, cfg)
	return subcommands.ExitSuccess
}

const vizPerRow = 8

func viz(w io.Writer, cfg *autotile.SpriteConfig) {
	rules := cfg.Rules()
	fmt.Fprintf(w, "%dx%d sheet, %d rules  (+ present, - absent, ? any)\n\n", cfg.GridWidth, cfg.GridHeight, len(rules))

	for start := 0; start < len(rules); start += vizPerRow {
		batch := rules[start:min(start+vizPerRow, len(rules))]

		var label strings.Builder
		for _, r := range batch {
			fmt.Fprintf(&label, "%-7s", r.Coord)
		}
		fmt.Fprintln(w, strings.TrimRight(label.String(), " "))

		glyphs := make([][3]string, len(batch))
		for i, r := range batch {
			glyphs[i] = render.RuleGlyphs(r.Requirements)
		}
		for row := 0; row < 3; row++ {
			parts := make([]string, len(batch))
			for i := range batch {
				parts[i] = glyphs[i][row]
			}
			fmt.Fprintln(w, strings.Join(parts, "    "))
		}
		fmt.Fprintln(w)
	}
}

// --- stats ---

type statsCmd struct{}

func (c *statsCmd) Name() string     { return "stats" }
func (c *statsCmd) Synopsis() string { return "summarize rules, wildcards and coverage" }
func (c *statsCmd) Usage() string {
	return "tiletools stats <file>\n"
}
func (c *statsCmd) SetFlags(f *flag.FlagSet) {}

func (c *statsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return withTable(f, stats)
}

func stats(w io.Writer, cfg *autotile.SpriteConfig) {
	rules := cfg.Rules()
	cells := cfg.GridWidth * cfg.GridHeight

	var concrete, expansions int
	byWildcards := make([]int, len(autotile.Directions)+1)
	for _, r := range rules {
		k := len(r.Requirements.Wildcards())
		byWildcards[k]++
		expansions += 1 << k
		if k == 0 {
			concrete++
		}
	}

	fmt.Fprintf(w, "%dx%d sheet (%d tiles), tile %dx%d px\n\n",
		cfg.GridWidth, cfg.GridHeight, cells, cfg.TileWidth, cfg.TileHeight)
	fmt.Fprintf(w, "Rules:      %d (%.1f%% of sheet)\n", len(rules), pct(len(rules), cells))
	fmt.Fprintf(w, "Concrete:   %d\n", concrete)
	fmt.Fprintf(w, "Expansions: %d\n", expansions)
	fmt.Fprintf(w, "Coverage:   %d/256 (%.1f%%)\n\n", cfg.Coverage(), pct(cfg.Coverage(), 256))

	fmt.Fprintln(w, "Wildcards per rule:")
	for k, n := range byWildcards {
		if n == 0 {
			continue
		}
		bar := strings.Repeat("█", int(pct(n, len(rules))/2))
		fmt.Fprintf(w, "  %d  %4d (%5.1f%%) %s\n", k, n, pct(n, len(rules)), bar)
	}
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// --- coverage ---

type coverageCmd struct{}

func (c *coverageCmd) Name() string     { return "coverage" }
func (c *coverageCmd) Synopsis() string { return "list orientations no rule matches" }
func (c *coverageCmd) Usage() string {
	return "tiletools coverage <file>\n"
}
func (c *coverageCmd) SetFlags(f *flag.FlagSet) {}

func (c *coverageCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	return withTable(f, coverage)
}

func coverage(w io.Writer, cfg *autotile.SpriteConfig) {
	missing := cfg.Uncovered()
	fmt.Fprintf(w, "Covered %d/256, missing %d\n", cfg.Coverage(), len(missing))
	for _, o := range missing {
		fmt.Fprintf(w, "  %3d  %s\n", uint8(o), o)
	}
}

// --- all ---

type allCmd struct{}

func (c *allCmd) Name() string     { return "all" }
func (c *allCmd) Synopsis() string { return "validate, then viz and stats every table in a directory" }
func (c *allCmd) Usage() string {
	return "tiletools all <dir>\n"
}
func (c *allCmd) SetFlags(f *flag.FlagSet) {}

func (c *allCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if err := runAll(os.Stdout, f.Arg(0)); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var errInvalid = errors.New("invalid rule tables")

func runAll(w io.Writer, dir string) error {
	fmt.Fprintln(w, "=== VALIDATE ===")
	bad, err := validateDir(w, dir)
	if err != nil {
		return err
	}
	if bad > 0 {
		return errInvalid
	}

	paths, err := tableFiles(dir)
	if err != nil {
		return err
	}
	for _, path := range paths {
		cfg, err := autotile.Load(path)
		if err != nil {
			return err
		}
		name := filepath.Base(path)
		fmt.Fprintf(w, "\n=== VIZ: %s ===\n", name)
		viz(w, cfg)
		fmt.Fprintf(w, "=== STATS: %s ===\n", name)
		stats(w, cfg)
	}
	return nil
}
