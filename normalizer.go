package pcfg

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Normalizer converts context-free grammars to Chomsky normal form.
//
// Rules are rewritten one by one, in declared order:
//
//	A -> B C, A -> "b"   copied unchanged
//	A -> "b" C "d" ...   terminals replaced by isolating non-terminals (B, D)
//	A -> B               productions of B inlined under A, transitively
//	A -> B C D ...       right-binarized through dummy non-terminals X1, X2, ...
//
// The dummy counter belongs to the Normalizer and is only reset by creating a
// new one, so the first dummy of a fresh Normalizer is always X1.
type Normalizer struct {
	dummyCount int
	logger     Logger
}

// NewNormalizer creates a new instance of Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{logger: nopLogger{}}
}

// SetLogger makes the normalizer report its rewrites to logger
func (n *Normalizer) SetLogger(logger Logger) {
	n.logger = orNop(logger)
}

// normalization holds the state of a single Normalize call
type normalization struct {
	*Normalizer

	occurs map[Symbol][]*Rule
	out    *Grammar

	// Emitted rules by left side and right side text
	emitted map[Symbol]map[string]*Rule

	// Non-terminal names already in use, by the input or by generated symbols
	taken map[string]bool

	// Isolating non-terminal of each terminal
	isolated map[Symbol]Symbol

	// Undefined non-terminals already reported
	undefined map[Symbol]bool
}

// Normalize returns a grammar in Chomsky normal form generating the same
// non-empty strings as g. It fails with ErrUnitCycle when the unit rules of g
// form a cycle. Non-terminals used but never defined are kept; they only make
// the rules using them unproductive
func (n *Normalizer) Normalize(g *Grammar) (*Grammar, error) {
	n.logger = orNop(n.logger)
	if err := checkUnitCycles(g); err != nil {
		return nil, err
	}

	c := &normalization{
		Normalizer: n,
		occurs:     g.occursLeft(),
		out:        &Grammar{Start: g.Start, Rules: []*Rule{}},
		emitted:    map[Symbol]map[string]*Rule{},
		taken:      map[string]bool{g.Start.Name: true},
		isolated:   map[Symbol]Symbol{},
		undefined:  map[Symbol]bool{},
	}
	for _, rule := range g.Rules {
		c.taken[rule.Left.Name] = true
		for _, s := range rule.Right {
			if !s.Terminal {
				c.taken[s.Name] = true
			}
		}
	}

	for _, rule := range g.Rules {
		n.logger.Debug("rewrite", "rule", rule.String())
		c.rewrite(rule.Left, rule.Right, rule.Weight)
	}

	c.reportUndefined()
	n.logger.Info("normalized grammar",
		"rules_in", len(g.Rules),
		"rules_out", len(c.out.Rules),
		"dummies", n.dummyCount)
	return c.out, nil
}

// checkUnitCycles finds cycles in the unit rules of g, like A -> B, B -> A
func checkUnitCycles(g *Grammar) error {
	graph := NewDirectedGraph()
	for _, rule := range g.Rules {
		if rule.IsUnit() {
			graph.Add(rule.Left, rule.Right[0])
		}
	}

	components := graph.StrongComponents()
	if len(components) == 0 {
		return nil
	}
	cycles := []string{}
	for _, component := range components {
		names := []string{}
		for _, s := range component {
			names = append(names, s.Name)
		}
		cycles = append(cycles, "{"+strings.Join(names, " ")+"}")
	}
	return errors.Wrapf(ErrUnitCycle, "%s", strings.Join(cycles, ", "))
}

// rewrite emits the CNF rules for lhs -> rhs
func (c *normalization) rewrite(lhs Symbol, rhs []Symbol, weight float64) {
	switch {
	case len(rhs) == 0:
		c.logger.Warn("empty rule skipped", "left", lhs.Name)
	case isCNF(rhs):
		c.add(lhs, rhs, weight)
	case len(rhs) > 1 && hasTerminal(rhs):
		c.isolateTerminals(lhs, rhs, weight)
	case len(rhs) == 1:
		c.inlineUnit(lhs, rhs[0], weight)
	default:
		c.binarize(lhs, rhs, weight)
	}
}

func hasTerminal(rhs []Symbol) bool {
	for _, s := range rhs {
		if s.Terminal {
			return true
		}
	}
	return false
}

// isolateTerminals replaces each terminal t in rhs with a non-terminal T and
// adds T -> t the first time T is created
func (c *normalization) isolateTerminals(lhs Symbol, rhs []Symbol, weight float64) {
	created := []Symbol{}
	replaced := make([]Symbol, len(rhs))
	for i, s := range rhs {
		if !s.Terminal {
			replaced[i] = s
			continue
		}
		nt, ok := c.isolated[s]
		if !ok {
			nt = Nonterminal(c.claim(isolatingName(s.Name)))
			c.isolated[s] = nt
			created = append(created, s)
		}
		replaced[i] = nt
	}

	if isLong(replaced) {
		c.binarize(lhs, replaced, weight)
	} else {
		c.add(lhs, replaced, weight)
	}

	for _, terminal := range created {
		c.add(c.isolated[terminal], []Symbol{terminal}, certain(weight))
	}
}

// isolatingName is the upper-cased terminal with every rune that is not a
// letter, a digit or one of _.$,:;!?- replaced by '_'. The result reads back
// as a bare non-terminal: it never starts with '#', '%' or '|' and never
// contains '->' or '^'
func isolatingName(terminal string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || strings.ContainsRune("_.$,:;!?-", r) {
			return r
		}
		return '_'
	}, strings.ToUpper(terminal))
}

// claim reserves name, or name_2, name_3, ... when it is already in use
func (c *normalization) claim(name string) string {
	candidate := name
	for k := 2; c.taken[candidate]; k++ {
		candidate = name + "_" + strconv.Itoa(k)
	}
	if candidate != name {
		c.logger.Warn("isolating symbol renamed", "symbol", name, "as", candidate)
	}
	c.taken[candidate] = true
	return candidate
}

// dummy creates the next X<n> symbol, skipping names already in use
func (c *normalization) dummy() Symbol {
	for {
		c.dummyCount++
		name := "X" + strconv.Itoa(c.dummyCount)
		if !c.taken[name] {
			c.taken[name] = true
			return Nonterminal(name)
		}
	}
}

// inlineUnit rewrites every production B -> γ as lhs -> γ. Unit chains are
// followed to their end, the intermediate unit rules are not emitted
func (c *normalization) inlineUnit(lhs, b Symbol, weight float64) {
	productions, ok := c.occurs[b]
	if !ok {
		c.warnUndefined(b)
		return
	}
	for _, next := range productions {
		c.logger.Debug("inline unit", "left", lhs.Name, "via", b.Name, "rule", next.String())
		c.rewrite(lhs, next.Right, chain(weight, next.Weight))
	}
}

// binarize converts lhs -> Y1 ... Yk into lhs -> X Yk, X -> Y1 ... Yk-1 and so
// on, until the right side has two symbols
func (c *normalization) binarize(lhs Symbol, rhs []Symbol, weight float64) {
	for len(rhs) > 2 {
		x := c.dummy()
		last := rhs[len(rhs)-1]
		c.add(lhs, []Symbol{x, last}, weight)
		lhs, rhs, weight = x, rhs[:len(rhs)-1], certain(weight)
	}
	c.add(lhs, rhs, weight)
}

// add emits lhs -> rhs. The same rule reached twice, through different unit
// chains, is emitted once with the probabilities summed
func (c *normalization) add(lhs Symbol, rhs []Symbol, weight float64) {
	key := rhsString(rhs)
	byRight, ok := c.emitted[lhs]
	if !ok {
		byRight = map[string]*Rule{}
		c.emitted[lhs] = byRight
	}
	if existing, ok := byRight[key]; ok {
		if existing.Weight > 0 && weight > 0 {
			existing.Weight = math.Min(1, existing.Weight+weight)
		}
		return
	}

	rule := &Rule{
		Left:   lhs,
		Right:  append([]Symbol(nil), rhs...),
		Weight: weight,
	}
	byRight[key] = rule
	c.out.Rules = append(c.out.Rules, rule)
}

// reportUndefined warns about non-terminals that are used but never defined
func (c *normalization) reportUndefined() {
	for _, rule := range c.out.Rules {
		for _, s := range rule.Right {
			if s.Terminal {
				continue
			}
			if _, ok := c.emitted[s]; !ok {
				c.warnUndefined(s)
			}
		}
	}
}

// warnUndefined reports s once per Normalize call
func (c *normalization) warnUndefined(s Symbol) {
	if c.undefined[s] {
		return
	}
	c.undefined[s] = true
	c.logger.Warn("undefined non-terminal", "symbol", s.Name)
}

// certain is the probability of rules introduced by the conversion: 1 when
// the grammar is probabilistic, absent otherwise
func certain(weight float64) float64 {
	if weight > 0 {
		return 1
	}
	return 0
}

// chain is the probability of lhs -> γ through the unit rule lhs -> B
func chain(unit, next float64) float64 {
	if unit > 0 && next > 0 {
		return unit * next
	}
	return 0
}
