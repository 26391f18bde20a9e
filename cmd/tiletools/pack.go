package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"

	"autotile-studio/internal/autotile"
	"autotile-studio/internal/store"
)

// --- pack ---

type packCmd struct {
	keepBad bool
}

func (c *packCmd) Name() string     { return "pack" }
func (c *packCmd) Synopsis() string { return "copy a directory of rule tables into a SQLite pack" }
func (c *packCmd) Usage() string {
	return "tiletools pack [-keep-bad] <dir> <db>\n"
}
func (c *packCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.keepBad, "keep-bad", false, "store tables that fail to decode as-is")
}

func (c *packCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	n, err := pack(f.Arg(0), f.Arg(1), c.keepBad, os.Stderr)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Packed %d table(s)\n", n)
	return subcommands.ExitSuccess
}

// pack copies every table under dir into the SQLite database at dbPath
// and returns how many were stored. Progress goes to progress.
func pack(dir, dbPath string, keepBad bool, progress io.Writer) (int, error) {
	src := store.NewFileStore(dir, store.Params{})
	ids, err := src.List()
	if err != nil {
		return 0, err
	}

	dst, err := store.OpenSQLite(dbPath, store.Params{})
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	bar := progressbar.NewOptions(len(ids),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("pack"),
		progressbar.OptionShowCount())

	stored := 0
	for _, id := range ids {
		path, err := src.Path(id)
		if err != nil {
			return stored, err
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return stored, err
		}
		if _, err := autotile.Decode(body); err != nil && !keepBad {
			log.Printf("skipping %s: %v", id, err)
			bar.Add(1)
			continue
		}
		if err := dst.Put(id, body); err != nil {
			return stored, fmt.Errorf("store %s: %w", id, err)
		}
		stored++
		bar.Add(1)
	}
	bar.Finish()
	fmt.Fprintln(progress)
	return stored, nil
}

// --- unpack ---

type unpackCmd struct{}

func (c *unpackCmd) Name() string     { return "unpack" }
func (c *unpackCmd) Synopsis() string { return "write every table in a SQLite pack to a directory" }
func (c *unpackCmd) Usage() string {
	return "tiletools unpack <db> <dir>\n"
}
func (c *unpackCmd) SetFlags(f *flag.FlagSet) {}

func (c *unpackCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 2 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	n, err := unpack(f.Arg(0), f.Arg(1), os.Stderr)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Unpacked %d table(s)\n", n)
	return subcommands.ExitSuccess
}

// unpack decodes each packed table and saves it under dir. Tables that
// fail to decode are reported and skipped.
func unpack(dbPath, dir string, progress io.Writer) (int, error) {
	src, err := store.OpenSQLite(dbPath, store.Params{})
	if err != nil {
		return 0, err
	}
	defer src.Close()

	ids, err := src.List()
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}
	dst := store.NewFileStore(dir, store.Params{})

	bar := progressbar.NewOptions(len(ids),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("unpack"),
		progressbar.OptionShowCount())

	written := 0
	for _, id := range ids {
		body, ok, err := src.Get(id)
		if err != nil {
			return written, err
		}
		bar.Add(1)
		if !ok {
			continue
		}
		cfg, err := autotile.Decode(body)
		if err != nil {
			log.Printf("skipping %s: %v", id, err)
			continue
		}
		if err := dst.Save(id, cfg); err != nil {
			return written, err
		}
		written++
	}
	bar.Finish()
	fmt.Fprintln(progress)
	return written, nil
}
