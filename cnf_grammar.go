package pcfg

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

// CNFRuleBase is the base struct for CNFRule and CNFTerminalRule
type CNFRuleBase struct {
	// SymbolId in the left of rule
	Source int

	// Probability of this rule
	Probability float64

	// Natural log of Probability
	LogProbability float64
}

// CNFRule stores a non-terminal rule in CNF grammar. All of the symbols in this
// rule are represented by symbol-id
type CNFRule struct {
	CNFRuleBase

	// SymbolIds in the right of rule
	FirstTarget  int
	SecondTarget int
}

// CNFTerminalRule stores the terminal rule in the grammar
type CNFTerminalRule struct {
	CNFRuleBase

	// Terminal symbol in this rule
	TerminalTarget string
}

// CNFGrammar stores a probabilistic grammar in Chomsky normal form, indexed
// for CKY parsing. It is not modified by parsing and may be shared between
// goroutines
type CNFGrammar struct {
	// Map from symbol name to its id
	SymbolIds map[string]int

	// Map from symbolId to symbol name
	Symbols []string

	// SymbolId of the start symbol
	Start int

	// Map from terminal string to the rules producing it
	TerminalRules map[string][]*CNFTerminalRule

	// Map from targets to rule. For example, rule: A -> B C. It maps (B, C) to
	// the rule itself
	Rules map[int]map[int][]*CNFRule
}

// NewCNFGrammar indexes g for parsing. Every rule of g must be A -> B C or
// A -> "b" and carry a probability in (0, 1]. Each rule list of the index is
// ordered by ascending probability, rules of equal probability keep their
// declared order
func NewCNFGrammar(g *Grammar) (*CNFGrammar, error) {
	grammar := &CNFGrammar{
		SymbolIds:     map[string]int{},
		Symbols:       []string{},
		Rules:         map[int]map[int][]*CNFRule{},
		TerminalRules: map[string][]*CNFTerminalRule{},
	}
	grammar.Start = grammar.getSymbolId(g.Start)

	for _, rule := range g.Rules {
		if err := grammar.addRule(rule); err != nil {
			return nil, err
		}
	}

	for _, rules := range grammar.TerminalRules {
		sort.SliceStable(rules, func(i, j int) bool {
			return rules[i].Probability < rules[j].Probability
		})
	}
	for _, byRight := range grammar.Rules {
		for _, rules := range byRight {
			sort.SliceStable(rules, func(i, j int) bool {
				return rules[i].Probability < rules[j].Probability
			})
		}
	}
	return grammar, nil
}

// getSymbolId get the id of given symbol. If the symbol not exist in grammar
// insert a new one
func (g *CNFGrammar) getSymbolId(s Symbol) int {
	if symbolId, ok := g.SymbolIds[s.Name]; ok {
		return symbolId
	}
	symbolId := len(g.Symbols)
	g.SymbolIds[s.Name] = symbolId
	g.Symbols = append(g.Symbols, s.Name)
	return symbolId
}

// addRule adds a new rule into grammar
func (g *CNFGrammar) addRule(rule *Rule) error {
	if !rule.IsCNF() {
		return atLine(errors.Wrapf(ErrNotCNF, "'%s'", rule), rule.Line)
	}
	if !(rule.Weight > 0 && rule.Weight <= 1) {
		return atLine(errors.Wrapf(ErrProbability, "'%s' needs a probability in (0, 1]", rule), rule.Line)
	}

	sourceId := g.getSymbolId(rule.Left)
	base := CNFRuleBase{
		Source:         sourceId,
		Probability:    rule.Weight,
		LogProbability: math.Log(rule.Weight),
	}
	if rule.IsBinary() {
		firstTargetId := g.getSymbolId(rule.Right[0])
		secondTargetId := g.getSymbolId(rule.Right[1])
		if _, ok := g.Rules[firstTargetId]; !ok {
			g.Rules[firstTargetId] = map[int][]*CNFRule{}
		}
		g.Rules[firstTargetId][secondTargetId] = append(
			g.Rules[firstTargetId][secondTargetId],
			&CNFRule{
				CNFRuleBase:  base,
				FirstTarget:  firstTargetId,
				SecondTarget: secondTargetId,
			})
		return nil
	}

	// It's a terminal rule, like Det -> "the"
	terminal := rule.Right[0].Name
	g.TerminalRules[terminal] = append(g.TerminalRules[terminal], &CNFTerminalRule{
		CNFRuleBase:    base,
		TerminalTarget: terminal,
	})
	return nil
}
