package main

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/zoew2/pcfg"
)

// readGrammar reads the grammar file at path
func readGrammar(path string) (*pcfg.Grammar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading grammar")
	}
	defer file.Close()

	grammar, err := pcfg.ReadGrammar(file)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return grammar, nil
}

// writeFile creates path and hands a buffered writer to write
func writeFile(path string, write func(w io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	out := bufio.NewWriter(file)
	if err := write(out); err != nil {
		file.Close()
		return err
	}
	if err := out.Flush(); err != nil {
		file.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(file.Close(), "closing %s", path)
}
