// Command pcfg converts grammars to Chomsky normal form and parses sentences
// with probabilistic grammars.
//
//	$ pcfg normalize grammar.cfg grammar.cnf
//	$ pcfg parse grammar.pcfg sentences.txt trees.txt
package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/zoew2/pcfg"
)

var (
	verbose bool
	jsonLog bool
)

func AllCommands() *commander.Command {
	return &commander.Command{
		UsageLine: os.Args[0] + " <command> [arguments]",
		Short:     "CNF conversion and probabilistic CKY parsing",
		Subcommands: []*commander.Command{
			NormalizeCmd(),
			ParseCmd(),
		},
		Flag: *flag.NewFlagSet("pcfg", flag.ExitOnError),
	}
}

// addLogFlags registers the logging flags shared by all commands
func addLogFlags(cmd *commander.Command) {
	cmd.Flag.BoolVar(&verbose, "v", false, "Log progress to stderr")
	cmd.Flag.BoolVar(&jsonLog, "json", false, "Log as JSON")
}

// newLogger returns the logger selected by the flags, nil when logging is off
func newLogger() (pcfg.Logger, func() error, error) {
	if !verbose {
		return nil, func() error { return nil }, nil
	}
	return pcfg.NewLogger(os.Stderr, jsonLog)
}

func main() {
	cmd := AllCommands()
	if err := cmd.Dispatch(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "**err**: %v\n", err)
		os.Exit(1)
	}
}
