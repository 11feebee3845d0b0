package pcfg

// DirectedGraph represents the graph of unit rules, an arc A -> B for each
// rule A -> B. Vertices and arcs keep insertion order so that searches are
// deterministic
type DirectedGraph struct {
	Arcs     map[Symbol][]Symbol
	Vertices []Symbol
	known    map[Symbol]bool
}

// NewDirectedGraph creates a new DirectedGraph
func NewDirectedGraph() *DirectedGraph {
	return &DirectedGraph{
		Arcs:  map[Symbol][]Symbol{},
		known: map[Symbol]bool{},
	}
}

func (g *DirectedGraph) addVertex(v Symbol) {
	if !g.known[v] {
		g.known[v] = true
		g.Vertices = append(g.Vertices, v)
	}
}

// Add adds an arc into graph
func (g *DirectedGraph) Add(s, t Symbol) {
	g.addVertex(s)
	g.addVertex(t)
	if !g.HasArc(s, t) {
		g.Arcs[s] = append(g.Arcs[s], t)
	}
}

// HasArc returns whether arc (s, t) exists in this graph
func (g *DirectedGraph) HasArc(s, t Symbol) bool {
	for _, v := range g.Arcs[s] {
		if v == t {
			return true
		}
	}
	return false
}

// DFS runs depth-first search on graph and returns the vertices by finishing
// order. It will not visit the vertices where visited[V] == true.
// After finished, it will update the visited map
func (g *DirectedGraph) DFS(s Symbol, visited map[Symbol]bool) []Symbol {
	if visited[s] || !g.known[s] {
		return []Symbol{}
	}
	visited[s] = true

	order := []Symbol{}
	for _, next := range g.Arcs[s] {
		order = append(order, g.DFS(next, visited)...)
	}
	return append(order, s)
}

// Transpose returns the reversed graph of g
func (g *DirectedGraph) Transpose() *DirectedGraph {
	reversed := NewDirectedGraph()
	for _, v := range g.Vertices {
		reversed.addVertex(v)
	}
	for _, s := range g.Vertices {
		for _, t := range g.Arcs[s] {
			reversed.Add(t, s)
		}
	}
	return reversed
}

// StrongComponents finds the cycles of the graph with Kosaraju's algorithm:
// every strongly connected component with more than one vertex, and every
// vertex with an arc to itself
func (g *DirectedGraph) StrongComponents() [][]Symbol {
	visited := map[Symbol]bool{}
	finished := []Symbol{}
	for _, v := range g.Vertices {
		finished = append(finished, g.DFS(v, visited)...)
	}

	gt := g.Transpose()
	visited = map[Symbol]bool{}
	components := [][]Symbol{}
	for i := len(finished) - 1; i >= 0; i-- {
		v := finished[i]
		if visited[v] {
			continue
		}
		component := gt.DFS(v, visited)
		if len(component) > 1 || g.HasArc(v, v) {
			components = append(components, component)
		}
	}
	return components
}
