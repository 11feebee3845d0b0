package pcfg

import (
	"bytes"
	"strings"
	"testing"
)

type recordingLogger struct {
	nopLogger
	warnings []string
}

func (r *recordingLogger) Warn(msg string, keysAndValues ...interface{}) {
	r.warnings = append(r.warnings, msg)
}

func TestNormalizerWarnings(t *testing.T) {
	g, err := ParseGrammar("S -> \"the\" THE\nS -> A B\nA -> \"a\"")
	if err != nil {
		t.Fatal(err)
	}

	logger := &recordingLogger{}
	n := NewNormalizer()
	n.SetLogger(logger)
	if _, err := n.Normalize(g); err != nil {
		t.Fatal(err)
	}

	expected := []string{"isolating symbol renamed", "undefined non-terminal", "undefined non-terminal"}
	if strings.Join(logger.warnings, ",") != strings.Join(expected, ",") {
		t.Fatalf("%v != %v", logger.warnings, expected)
	}
}

func TestNormalizerWarnsUndefinedUnit(t *testing.T) {
	cases := map[string]int{
		"S -> A | \"s\"":            1,
		"S -> A | A B\nB -> \"b\"": 1,
		"S -> A | C\nA -> \"a\"":   1,
	}
	for text, count := range cases {
		g, err := ParseGrammar(text)
		if err != nil {
			t.Fatal(err)
		}

		logger := &recordingLogger{}
		n := NewNormalizer()
		n.SetLogger(logger)
		if _, err := n.Normalize(g); err != nil {
			t.Fatal(err)
		}
		if len(logger.warnings) != count {
			t.Fatalf("%q: warnings %v", text, logger.warnings)
		}
		for _, w := range logger.warnings {
			if w != "undefined non-terminal" {
				t.Fatalf("%q: unexpected warning %s", text, w)
			}
		}
	}
}

func TestNewLogger(t *testing.T) {
	var b bytes.Buffer
	logger, closeLog, err := NewLogger(&b, false)
	if err != nil {
		t.Fatal(err)
	}

	n := NewNormalizer()
	n.SetLogger(logger)
	g, err := ParseGrammar("NP -> Det Adj N")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := n.Normalize(g); err != nil {
		t.Fatal(err)
	}
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), "normalized grammar") {
		t.Fatalf("'%s' does not contain the log message", b.String())
	}
}
