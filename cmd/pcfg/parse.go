package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
	"github.com/zoew2/pcfg"
)

var (
	unknownWord string
	noParse     string
	whitespace  bool
	scores      bool
	debugChart  bool
)

func runParse(cmd *commander.Command, args []string) error {
	if len(args) != 3 {
		cmd.Usage()
		return errors.New("parse: expected <cnf-pcfg-file> <sentences-file> <output-file>")
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
	cnfGrammar, err := pcfg.NewCNFGrammar(grammar)
	if err != nil {
		return errors.Wrapf(err, "%s", args[0])
	}
	parser := pcfg.NewParserFromGrammar(cnfGrammar)
	parser.Unknown = unknownWord
	parser.SetLogger(logger)
	if debugChart {
		parser.DebugMode()
	}

	sentences, err := os.Open(args[1])
	if err != nil {
		return errors.Wrap(err, "reading sentences")
	}
	defer sentences.Close()

	tokenize := pcfg.Tokenize
	if whitespace {
		tokenize = pcfg.Fields
	}

	return writeFile(args[2], func(w io.Writer) error {
		return parseAll(parser, tokenize, sentences, w)
	})
}

// parseAll writes one line per sentence of r: the best tree, or the no-parse
// marker
func parseAll(parser *pcfg.Parser, tokenize func(string) []string, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := noParse
		if tree := parser.Parse(tokenize(scanner.Text())); tree != nil {
			line = tree.StripAnnotations().String()
			if scores {
				line += "\t" + strconv.FormatFloat(tree.LogProb, 'g', -1, 64)
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return errors.Wrap(scanner.Err(), "reading sentences")
}

func ParseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       runParse,
		UsageLine: "parse [options] <cnf-pcfg-file> <sentences-file> <output-file>",
		Short:     "parses sentences with a probabilistic CNF grammar",
		Long: `
parses sentences with a probabilistic grammar in Chomsky normal form using CKY

	$ pcfg parse [-unk UNK] [-noparse marker] [-ws] [-scores] grammar.pcfg sentences.txt trees.txt

Every rule of the grammar needs a probability, like
	NP -> Det N [0.42]
The output has one line per sentence: the most probable tree, or the
no-parse marker (empty by default).
`,
		Flag: *flag.NewFlagSet("parse", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&unknownWord, "unk", pcfg.UnknownWord, "Terminal standing for unknown words, empty to disable")
	cmd.Flag.StringVar(&noParse, "noparse", "", "Line written for sentences without a parse")
	cmd.Flag.BoolVar(&whitespace, "ws", false, "Split sentences on white space only")
	cmd.Flag.BoolVar(&scores, "scores", false, "Append the log probability to each tree")
	cmd.Flag.BoolVar(&debugChart, "chart", false, "Log every row of the CKY chart (with -v)")
	addLogFlags(cmd)
	return cmd
}
