package pcfg

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestParseRule(t *testing.T) {
	// TestCase-1
	r, err := ParseRule(`NP -> "the" Nom`)
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 1 {
		t.Fatal("len(r) == 1")
	}

	expected := `NP -> "the" Nom`
	if r[0].String() != expected {
		t.Fatalf("'%s' != '%s'", r[0].String(), expected)
	}
	if !r[0].Right[0].Terminal || r[0].Right[1].Terminal {
		t.Fatalf("unexpected symbol kinds in %v", r[0].Right)
	}

	// TestCase-2
	r, err = ParseRule("NP -> Det N [0.7] | 'John' [0.3]")
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 2 {
		t.Fatal("len(r) == 2")
	}

	expected = "NP -> Det N [0.7]"
	if r[0].String() != expected {
		t.Fatalf("'%s' != '%s'", r[0].String(), expected)
	}
	expected = `NP -> "John" [0.3]`
	if r[1].String() != expected {
		t.Fatalf("'%s' != '%s'", r[1].String(), expected)
	}

	// TestCase-3: '|' and spaces inside quotes
	r, err = ParseRule(`Sym -> "a | b" "New York" | "\"q\""`)
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 2 || r[0].Right[0].Name != "a | b" || r[0].Right[1].Name != "New York" || r[1].Right[0].Name != `"q"` {
		t.Fatalf("unexpected rules %v", r)
	}
}

func TestParseRuleErrors(t *testing.T) {
	cases := []struct {
		text  string
		cause error
	}{
		{`NP "the" Nom`, ErrSyntax},
		{`"np" -> Det N`, ErrSyntax},
		{`NP VP -> Det N`, ErrSyntax},
		{`NP -> Det N |`, ErrSyntax},
		{`NP -> | Det N`, ErrSyntax},
		{`NP -> "the Nom`, ErrSyntax},
		{`NP -> "" Nom`, ErrSyntax},
		{`NP -> "\q" Nom`, ErrSyntax},
		{`NP -> Det N [0.5`, ErrSyntax},
		{`NP -> Det [0.5] N`, ErrSyntax},
		{`NP -> Det N [0.5] [0.5]`, ErrSyntax},
		{`NP -> Det N [x]`, ErrProbability},
		{`NP -> Det N [0]`, ErrProbability},
		{`NP -> Det N [1.5]`, ErrProbability},
		{`NP -> Det N [-0.5]`, ErrProbability},
	}
	for _, c := range cases {
		_, err := ParseRule(c.text)
		if err == nil {
			t.Fatalf("'%s': err != nil expected", c.text)
		}
		if errors.Cause(err) != c.cause {
			t.Fatalf("'%s': cause %v, expected %v", c.text, errors.Cause(err), c.cause)
		}
	}
}

func TestParseRuleEscapes(t *testing.T) {
	r, err := ParseRule(`A -> "a\tb" 'it\'s' "\u00e9" 'say "hi"'`)
	if err != nil {
		t.Fatal(err)
	}
	expected := []Symbol{Terminal("a\tb"), Terminal("it's"), Terminal("é"), Terminal(`say "hi"`)}
	if !reflect.DeepEqual(r[0].Right, expected) {
		t.Fatalf("%v != %v", r[0].Right, expected)
	}

	// Terminals written by String read back unchanged
	for _, text := range []string{"a\tb", "back\\slash", `"q"`, "bell\a", "é"} {
		s := Terminal(text)
		r, err := ParseRule("A -> " + s.String())
		if err != nil {
			t.Fatal(err)
		}
		if r[0].Right[0] != s {
			t.Fatalf("%q read back as %q", s.Name, r[0].Right[0].Name)
		}
	}
}

func TestRuleShapes(t *testing.T) {
	rule := func(text string) *Rule {
		r, err := ParseRule(text)
		if err != nil {
			t.Fatal(err)
		}
		return r[0]
	}

	if r := rule(`A -> B C`); !r.IsCNF() || !r.IsBinary() || r.IsLong() || r.IsUnit() {
		t.Fatalf("'%s' is binary CNF", r)
	}
	if r := rule(`A -> "b"`); !r.IsCNF() || r.IsUnit() {
		t.Fatalf("'%s' is terminal CNF", r)
	}
	if r := rule(`A -> B`); r.IsCNF() || !r.IsUnit() {
		t.Fatalf("'%s' is a unit rule", r)
	}
	if r := rule(`A -> B C D`); r.IsCNF() || !r.IsLong() {
		t.Fatalf("'%s' is a long rule", r)
	}
	if r := rule(`A -> B "c" D`); r.IsCNF() || r.IsLong() || !r.HasTerminal() || !r.HasNonterminal() {
		t.Fatalf("'%s' is a hybrid rule", r)
	}
	if r := rule(`A -> "b" C`); r.IsCNF() {
		t.Fatalf("'%s' is not CNF", r)
	}
}
