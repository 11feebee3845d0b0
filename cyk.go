package pcfg

import (
	"fmt"
	"strings"
)

// UnknownWord is the default terminal used for tokens no terminal rule
// produces
const UnknownWord = "UNK"

// chartEntry is the best derivation of a symbol over a span
type chartEntry struct {
	symbol int
	logp   float64

	// Position of the token for entries of a terminal rule, -1 otherwise
	token int

	left  *chartEntry
	right *chartEntry
}

// chartCell maps symbols to their best derivation, keeping the order in which
// symbols were first derived
type chartCell struct {
	entries []*chartEntry
	index   map[int]*chartEntry
}

// entryPool is the pool that allocates and stores chart entries
const _PoolBatchSize = 4096

type entryPool struct {
	entries [][]chartEntry
	row     int
	column  int
}

// newEntryPool create a new instance of entryPool
func newEntryPool() *entryPool {
	return &entryPool{
		entries: [][]chartEntry{make([]chartEntry, _PoolBatchSize)},
	}
}

// Get allocates a new chartEntry from pool
func (pool *entryPool) Get() *chartEntry {
	entry := &pool.entries[pool.row][pool.column]

	pool.column++
	if pool.column >= _PoolBatchSize {
		pool.entries = append(pool.entries, make([]chartEntry, _PoolBatchSize))
		pool.row++
		pool.column = 0
	}
	return entry
}

// chart is the CKY table. cells[i][j] holds the span of tokens i..j-1
type chart struct {
	grammar *CNFGrammar
	query   []string
	cells   [][]*chartCell
	pool    *entryPool
}

func newChart(grammar *CNFGrammar, query []string) *chart {
	n := len(query)
	c := &chart{
		grammar: grammar,
		query:   query,
		cells:   make([][]*chartCell, n+1),
		pool:    newEntryPool(),
	}
	for i := 0; i < n; i++ {
		c.cells[i] = make([]*chartCell, n+1)
		for j := i + 1; j <= n; j++ {
			c.cells[i][j] = &chartCell{index: map[int]*chartEntry{}}
		}
	}
	return c
}

// relax stores the derivation in cell if symbol has none yet, or if it is
// strictly more probable than the stored one. On ties the first one stays
func (c *chart) relax(cell *chartCell, symbol int, logp float64, token int, left, right *chartEntry) {
	if entry, ok := cell.index[symbol]; ok {
		if logp > entry.logp {
			entry.logp = logp
			entry.token = token
			entry.left = left
			entry.right = right
		}
		return
	}

	entry := c.pool.Get()
	entry.symbol = symbol
	entry.logp = logp
	entry.token = token
	entry.left = left
	entry.right = right
	cell.entries = append(cell.entries, entry)
	cell.index[symbol] = entry
}

// fill runs the CKY algorithm over the whole chart. Tokens without terminal
// rules fall back to the rules of unknown, if unknown is not empty
func (c *chart) fill(unknown string, logger Logger, debug bool) {
	n := len(c.query)

	// Width 1: apply all terminal rules
	for i, tok := range c.query {
		rules := c.grammar.TerminalRules[tok]
		if len(rules) == 0 && unknown != "" {
			rules = c.grammar.TerminalRules[unknown]
		}
		for _, rule := range rules {
			c.relax(c.cells[i][i+1], rule.Source, rule.LogProbability, i, nil, nil)
		}
	}
	if debug {
		c.printRow(1, logger)
	}

	// Width 2 to n: apply non-terminal rules
	for width := 2; width <= n; width++ {
		for start := 0; start+width <= n; start++ {
			end := start + width
			cell := c.cells[start][end]
			for split := start + 1; split < end; split++ {
				c.combine(cell, c.cells[start][split], c.cells[split][end])
			}
		}
		if debug {
			c.printRow(width, logger)
		}
	}
}

// combine applies every rule A -> B C with B in left and C in right
func (c *chart) combine(cell, left, right *chartCell) {
	for _, l := range left.entries {
		rightRules, ok := c.grammar.Rules[l.symbol]
		if !ok {
			continue
		}
		for _, r := range right.entries {
			// Ok, there are some rules A -> B C that B == l and C == r
			for _, rule := range rightRules[r.symbol] {
				logp := rule.LogProbability + l.logp + r.logp
				c.relax(cell, rule.Source, logp, -1, l, r)
			}
		}
	}
}

// best returns the entry of symbol over tokens i..j-1
func (c *chart) best(i, j int, symbol string) (*chartEntry, bool) {
	symbolId, ok := c.grammar.SymbolIds[symbol]
	if !ok || i < 0 || j > len(c.query) || i >= j {
		return nil, false
	}
	entry, ok := c.cells[i][j].index[symbolId]
	return entry, ok
}

// printRow logs the cells of a width for debugging
func (c *chart) printRow(width int, logger Logger) {
	cells := []string{}
	for start := 0; start+width <= len(c.query); start++ {
		names := []string{}
		for _, entry := range c.cells[start][start+width].entries {
			names = append(names, c.grammar.Symbols[entry.symbol])
		}
		cells = append(cells, fmt.Sprintf("[%d: %s]", start, strings.Join(names, " ")))
	}
	logger.Debug("chart row", "width", width, "cells", strings.Join(cells, " "))
}

// constructParsingTree builds the derivation tree stored under entry
func (c *chart) constructParsingTree(entry *chartEntry) *Node {
	node := &Node{Symbol: c.grammar.Symbols[entry.symbol]}
	if entry.token >= 0 {
		node.Children = []*Node{{Symbol: c.query[entry.token]}}
		return node
	}
	node.Children = []*Node{
		c.constructParsingTree(entry.left),
		c.constructParsingTree(entry.right),
	}
	return node
}

// extract returns the tree of the start symbol over the whole query, or nil
func (c *chart) extract() *Tree {
	if len(c.query) == 0 {
		return nil
	}
	root, ok := c.cells[0][len(c.query)].index[c.grammar.Start]
	if !ok {
		// query didn't match grammar
		return nil
	}
	return &Tree{
		Node:    c.constructParsingTree(root),
		LogProb: root.logp,
	}
}

// CYK parses query using the probabilistic CKY algorithm. When query matches
// grammar, returns the most probable parsing tree. Otherwise returns nil.
// Tokens the grammar does not know are parsed as UnknownWord
func CYK(grammar *CNFGrammar, query []string) *Tree {
	c := newChart(grammar, query)
	c.fill(UnknownWord, nopLogger{}, false)
	return c.extract()
}
