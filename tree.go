package pcfg

import (
	"math"
	"strings"
)

// Node represents a single node in parsing tree
type Node struct {
	// Children nodes, nil for leaves
	Children []*Node

	// Symbol in current node: a non-terminal, or the token for leaves
	Symbol string
}

// Tree represents the parsing tree with its log probability
type Tree struct {
	*Node

	// Natural log of the probability of the derivation
	LogProb float64
}

// Probability returns the probability of the derivation
func (t *Tree) Probability() float64 {
	return math.Exp(t.LogProb)
}

// StripAnnotations returns a copy of the tree with parent annotations removed
// from non-terminal labels, so NP^S becomes NP
func (t *Tree) StripAnnotations() *Tree {
	return &Tree{Node: t.Node.stripAnnotations(), LogProb: t.LogProb}
}

func (n *Node) stripAnnotations() *Node {
	if n.Children == nil {
		return &Node{Symbol: n.Symbol}
	}
	symbol, _, _ := strings.Cut(n.Symbol, "^")
	stripped := &Node{Symbol: symbol, Children: make([]*Node, 0, len(n.Children))}
	for _, child := range n.Children {
		stripped.Children = append(stripped.Children, child.stripAnnotations())
	}
	return stripped
}

// Leaves returns the tokens of the tree from left to right
func (n *Node) Leaves() []string {
	if n.Children == nil {
		return []string{n.Symbol}
	}
	leaves := []string{}
	for _, child := range n.Children {
		leaves = append(leaves, child.Leaves()...)
	}
	return leaves
}

// String converts the node to its bracketed form on a single line, like
// (S (NP (Det the) (N dog)) (VP (V barks)))
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.Children == nil {
		b.WriteString(n.Symbol)
		return
	}
	b.WriteString("(")
	b.WriteString(n.Symbol)
	for _, child := range n.Children {
		b.WriteString(" ")
		child.write(b)
	}
	b.WriteString(")")
}

// Pretty converts the node to its bracketed form with one node per line
func (n *Node) Pretty() string {
	return n.repr(0)
}

// repr get the string representation of the node recursively
func (n *Node) repr(level int) string {
	// Don't wrap with parentheses when it's a leaf node
	prefix := strings.Repeat(" ", level*2)
	if level != 0 {
		prefix = "\n" + prefix
	}

	if n.Children == nil {
		return prefix + n.Symbol
	}
	childrenReprs := []string{}
	for _, child := range n.Children {
		childrenReprs = append(childrenReprs, child.repr(level+1))
	}
	return prefix + "(" + n.Symbol + " " + strings.Join(childrenReprs, " ") + ")"
}
