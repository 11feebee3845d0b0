package main

import (
	"io"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
	"github.com/zoew2/pcfg"
)

func runNormalize(cmd *commander.Command, args []string) error {
	if len(args) != 2 {
		cmd.Usage()
		return errors.New("normalize: expected <grammar-file> <output-file>")
	}
	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	grammar, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	normalizer := pcfg.NewNormalizer()
	normalizer.SetLogger(logger)
	cnf, err := normalizer.Normalize(grammar)
	if err != nil {
		return errors.Wrapf(err, "%s", args[0])
	}

	return writeFile(args[1], func(w io.Writer) error {
		_, err := cnf.WriteTo(w)
		return err
	})
}

func NormalizeCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runNormalize,
		UsageLine: "normalize [options] <grammar-file> <output-file>",
		Short:     "converts a context-free grammar to Chomsky normal form",
		Long: `
converts a context-free grammar to Chomsky normal form

	$ pcfg normalize grammar.cfg grammar.cnf

The output starts with a %start line, followed by one line per left side:
	LHS -> ALT1 | ALT2 | ...
`,
		Flag: *flag.NewFlagSet("normalize", flag.ExitOnError),
	}
	addLogFlags(cmd)
	return cmd
}
