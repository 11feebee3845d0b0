package pcfg

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Grammar consists of a start symbol and a list of rules in declared order
type Grammar struct {
	Start Symbol
	Rules []*Rule
}

const startDirective = "%start"

// ParseGrammar parses grammar from string
func ParseGrammar(grammarText string) (*Grammar, error) {
	return ReadGrammar(strings.NewReader(grammarText))
}

// ReadGrammar reads grammar text from r. Lines are rules like
//
//	S -> NP VP [1.0]
//
// a "%start S" directive, comments beginning with '#', or continuation lines
// beginning with '|' that add alternatives to the previous rule. Without a
// %start directive the left side of the first rule is the start symbol
func ReadGrammar(r io.Reader) (*Grammar, error) {
	grammar := &Grammar{Rules: []*Rule{}}
	var previous *Symbol

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Comments
		if line == "" || line[0] == '#' {
			continue
		}

		if strings.HasPrefix(line, startDirective) {
			fields := strings.Fields(line[len(startDirective):])
			if len(fields) != 1 || fields[0][0] == '"' || fields[0][0] == '\'' {
				return nil, atLine(errors.Wrapf(ErrNoStart, "bad directive '%s'", line), lineNo)
			}
			grammar.Start = Nonterminal(fields[0])
			continue
		}

		if line[0] == '|' {
			if previous == nil {
				return nil, atLine(errors.Wrap(ErrSyntax, "continuation line without a rule"), lineNo)
			}
			line = previous.Name + " -> " + line[1:]
		}

		// Parse this rule
		rules, err := ParseRule(line)
		if err != nil {
			return nil, atLine(err, lineNo)
		}
		for _, rule := range rules {
			rule.Line = lineNo
		}
		grammar.Rules = append(grammar.Rules, rules...)
		previous = &rules[0].Left
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading grammar")
	}

	if grammar.Start.Name == "" {
		if len(grammar.Rules) == 0 {
			return nil, errors.Wrap(ErrNoStart, "grammar has no rules")
		}
		grammar.Start = grammar.Rules[0].Left
	}
	return grammar, nil
}

// Productions returns the rules whose left side is lhs, in declared order
func (g *Grammar) Productions(lhs Symbol) []*Rule {
	rules := []*Rule{}
	for _, rule := range g.Rules {
		if rule.Left == lhs {
			rules = append(rules, rule)
		}
	}
	return rules
}

// occursLeft groups the rules by left side
func (g *Grammar) occursLeft() map[Symbol][]*Rule {
	occurs := map[Symbol][]*Rule{}
	for _, rule := range g.Rules {
		occurs[rule.Left] = append(occurs[rule.Left], rule)
	}
	return occurs
}

// Nonterminals returns the left sides of the grammar in order of first
// appearance
func (g *Grammar) Nonterminals() []Symbol {
	seen := map[Symbol]bool{}
	symbols := []Symbol{}
	for _, rule := range g.Rules {
		if !seen[rule.Left] {
			seen[rule.Left] = true
			symbols = append(symbols, rule.Left)
		}
	}
	return symbols
}

// Alternatives maps each left side to its right sides as written in grammar
// text, for example {"NP": ["THE Nom"], "THE": ["\"the\""]}
func (g *Grammar) Alternatives() map[string][]string {
	alternatives := map[string][]string{}
	for _, rule := range g.Rules {
		alternatives[rule.Left.Name] = append(alternatives[rule.Left.Name], rule.RightString())
	}
	return alternatives
}

// IsCNF reports whether every rule is A -> B C or A -> "b"
func (g *Grammar) IsCNF() bool {
	for _, rule := range g.Rules {
		if !rule.IsCNF() {
			return false
		}
	}
	return true
}

// String serializes the grammar: a %start line followed by one line per left
// side listing its alternatives
func (g *Grammar) String() string {
	var b strings.Builder
	b.WriteString(startDirective + " " + g.Start.Name + "\n")
	occurs := g.occursLeft()
	for _, lhs := range g.Nonterminals() {
		alternatives := []string{}
		for _, rule := range occurs[lhs] {
			alternatives = append(alternatives, rule.alternative())
		}
		b.WriteString(lhs.Name + " -> " + strings.Join(alternatives, " | ") + "\n")
	}
	return b.String()
}

// WriteTo writes the serialized grammar to w
func (g *Grammar) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, g.String())
	return int64(n), err
}

// ConvertToCNF converts the grammar to Chomsky normal form with a fresh
// Normalizer
func (g *Grammar) ConvertToCNF() (*Grammar, error) {
	return NewNormalizer().Normalize(g)
}
