package pcfg

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// Symbol represents a symbol in a grammar rule, both terminal and non-terminal
type Symbol struct {
	Name     string
	Terminal bool
}

// Terminal creates a terminal symbol. The text is stored in NFC form so that it
// matches tokens produced by Tokenize
func Terminal(text string) Symbol {
	return Symbol{Name: norm.NFC.String(text), Terminal: true}
}

// Nonterminal creates a non-terminal symbol
func Nonterminal(name string) Symbol {
	return Symbol{Name: name}
}

// String returns the symbol as it is written in grammar text: terminals are
// quoted, non-terminals are bare
func (s Symbol) String() string {
	if s.Terminal {
		return strconv.Quote(s.Name)
	}
	return s.Name
}

// Rule represents a production. Weight is the probability of the rule given
// its left side, or 0 when the grammar carries no probability for it
type Rule struct {
	Left   Symbol
	Right  []Symbol
	Weight float64

	// Line is the line of grammar text the rule was read from, 0 for rules
	// generated during normalization
	Line int
}

// IsBinary returns true if it's a binary rule, like A -> B C
func (r *Rule) IsBinary() bool {
	return len(r.Right) == 2
}

// IsUnary returns true if it's a unary rule, like A -> B or A -> "b"
func (r *Rule) IsUnary() bool {
	return len(r.Right) == 1
}

// HasTerminal reports whether any right side symbol is a terminal
func (r *Rule) HasTerminal() bool {
	return hasTerminal(r.Right)
}

// HasNonterminal reports whether any right side symbol is a non-terminal
func (r *Rule) HasNonterminal() bool {
	for _, s := range r.Right {
		if !s.Terminal {
			return true
		}
	}
	return false
}

// IsCNF returns true for A -> B C and A -> "b"
func (r *Rule) IsCNF() bool {
	return isCNF(r.Right)
}

// IsUnit returns true for A -> B
func (r *Rule) IsUnit() bool {
	return r.IsUnary() && !r.Right[0].Terminal
}

// IsLong returns true when the right side has more than two symbols, all of
// them non-terminals
func (r *Rule) IsLong() bool {
	return isLong(r.Right)
}

func isCNF(rhs []Symbol) bool {
	if len(rhs) == 1 {
		return rhs[0].Terminal
	}
	return len(rhs) == 2 && !rhs[0].Terminal && !rhs[1].Terminal
}

func isLong(rhs []Symbol) bool {
	if len(rhs) <= 2 {
		return false
	}
	for _, s := range rhs {
		if s.Terminal {
			return false
		}
	}
	return true
}

// RightString joins the right side the way it is written in grammar text
func (r *Rule) RightString() string {
	return rhsString(r.Right)
}

func rhsString(rhs []Symbol) string {
	symbols := make([]string, 0, len(rhs))
	for _, s := range rhs {
		symbols = append(symbols, s.String())
	}
	return strings.Join(symbols, " ")
}

// alternative formats a right side with its probability, if any
func (r *Rule) alternative() string {
	if r.Weight == 0 {
		return r.RightString()
	}
	return r.RightString() + " [" + strconv.FormatFloat(r.Weight, 'g', -1, 64) + "]"
}

// String converts rule to string format
func (r *Rule) String() string {
	return r.Left.Name + " -> " + r.alternative()
}

// ParseRule parse rule from string
// The rule would be like:
//
//	NP -> Det N [0.7] | "the" Nom [0.3]
//
// Then returns
//
//	[{NP, [Det, N], 0.7}, {NP, ["the", Nom], 0.3}]
func ParseRule(ruleText string) ([]*Rule, error) {
	fields := strings.SplitN(ruleText, "->", 2)
	if len(fields) != 2 {
		return nil, errors.Wrapf(ErrSyntax, "missing '->' in '%s'", ruleText)
	}

	// Left part
	left := strings.TrimSpace(fields[0])
	if left == "" || strings.ContainsAny(left, " \t") {
		return nil, errors.Wrapf(ErrSyntax, "unexpected left side '%s' in '%s'", left, ruleText)
	}
	if left[0] == '"' || left[0] == '\'' {
		return nil, errors.Wrapf(ErrSyntax, "'%s': terminal symbol in the left", ruleText)
	}
	leftSymbol := Nonterminal(left)

	alternatives, err := scanAlternatives(fields[1])
	if err != nil {
		return nil, errors.Wrapf(err, "in '%s'", ruleText)
	}

	rules := make([]*Rule, 0, len(alternatives))
	for _, alt := range alternatives {
		rules = append(rules, &Rule{
			Left:   leftSymbol,
			Right:  alt.symbols,
			Weight: alt.weight,
		})
	}
	return rules, nil
}

type scannedAlternative struct {
	symbols []Symbol
	weight  float64
}

// scanAlternatives splits the right part of a rule on '|' outside of quotes
// and reads the symbols and the optional [p] of each alternative
func scanAlternatives(text string) ([]scannedAlternative, error) {
	alternatives := []scannedAlternative{}
	current := scannedAlternative{symbols: []Symbol{}}
	hasWeight := false

	finish := func() error {
		if len(current.symbols) == 0 {
			return errors.Wrap(ErrSyntax, "empty alternative")
		}
		alternatives = append(alternatives, current)
		current = scannedAlternative{symbols: []Symbol{}}
		hasWeight = false
		return nil
	}

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '|':
			if err := finish(); err != nil {
				return nil, err
			}
			i++
		case c == '"' || c == '\'':
			if hasWeight {
				return nil, errors.Wrap(ErrSyntax, "symbol after probability")
			}
			terminal, next, err := scanQuoted(text, i)
			if err != nil {
				return nil, err
			}
			current.symbols = append(current.symbols, Terminal(terminal))
			i = next
		case c == '[':
			end := strings.IndexByte(text[i:], ']')
			if end < 0 {
				return nil, errors.Wrap(ErrSyntax, "unterminated '['")
			}
			if hasWeight {
				return nil, errors.Wrap(ErrSyntax, "more than one probability")
			}
			weight, err := parseProbability(strings.TrimSpace(text[i+1 : i+end]))
			if err != nil {
				return nil, err
			}
			current.weight = weight
			hasWeight = true
			i += end + 1
		default:
			if hasWeight {
				return nil, errors.Wrap(ErrSyntax, "symbol after probability")
			}
			end := i
			for end < len(text) && !strings.ContainsRune(" \t\r|[\"'", rune(text[end])) {
				end++
			}
			if strings.Contains(text[i:end], "]") {
				return nil, errors.Wrapf(ErrSyntax, "unexpected '%s'", text[i:end])
			}
			current.symbols = append(current.symbols, Nonterminal(text[i:end]))
			i = end
		}
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return alternatives, nil
}

// scanQuoted reads a quoted terminal starting at text[start], returning its
// text and the index after the closing quote. Escapes are those of Go string
// literals, so terminals written by Symbol.String read back unchanged
func scanQuoted(text string, start int) (string, int, error) {
	quote := text[start]
	var b strings.Builder
	rest := text[start+1:]
	for len(rest) > 0 && rest[0] != quote {
		r, multibyte, tail, err := strconv.UnquoteChar(rest, quote)
		if err != nil {
			return "", 0, errors.Wrapf(ErrSyntax, "bad escape in %s", text[start:])
		}
		if r < utf8.RuneSelf || !multibyte {
			b.WriteByte(byte(r))
		} else {
			b.WriteRune(r)
		}
		rest = tail
	}
	if len(rest) == 0 {
		return "", 0, errors.Wrapf(ErrSyntax, "unterminated quote %c", quote)
	}
	if b.Len() == 0 {
		return "", 0, errors.Wrap(ErrSyntax, "empty terminal")
	}
	return b.String(), len(text) - len(rest) + 1, nil
}

func parseProbability(text string) (float64, error) {
	p, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrProbability, "float expected but '%s' found", text)
	}
	if !(p > 0 && p <= 1) {
		return 0, errors.Wrapf(ErrProbability, "%s is not in (0, 1]", text)
	}
	return p, nil
}
