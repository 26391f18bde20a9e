// Command tiletools inspects rule tables and moves them between a
// directory of JSON files and a SQLite pack.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"
)

func main() {
	log.SetFlags(0)

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&validateCmd{}, "inspect")
	subcommands.Register(&vizCmd{}, "inspect")
	subcommands.Register(&statsCmd{}, "inspect")
	subcommands.Register(&coverageCmd{}, "inspect")
	subcommands.Register(&allCmd{}, "inspect")
	subcommands.Register(&packCmd{}, "storage")
	subcommands.Register(&unpackCmd{}, "storage")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
