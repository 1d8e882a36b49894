// Package hierarchy models the project-wide class inheritance graph.
// It supports cycle detection, topological ordering, and breadth levels
// over base-to-subclass edges keyed by qualified class name.
package hierarchy

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/pylens/pkg/report"
)

// Node is one class in the graph.
type Node struct {
	// QualName is the dotted qualified name, unique within the graph.
	QualName string
	// Module is the source path the class was defined in.
	Module string
	// Line is the 1-based definition line.
	Line int
}

// Edge is one base-to-subclass link.
type Edge struct {
	Base string `json:"base"`
	Sub  string `json:"sub"`
}

// Graph is a directed graph of classes. Edges point from a base class to
// the classes deriving from it.
type Graph struct {
	nodes   map[string]*Node
	derived map[string][]string // base -> subclasses
	bases   map[string][]string // subclass -> bases, declaration order
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		derived: make(map[string][]string),
		bases:   make(map[string][]string),
	}
}

// Clear removes all nodes and edges.
func (g *Graph) Clear() {
	g.nodes = make(map[string]*Node)
	g.derived = make(map[string][]string)
	g.bases = make(map[string][]string)
}

// Add inserts a class node. Adding an existing name updates its position.
func (g *Graph) Add(qualName, module string, line int) {
	if n, exists := g.nodes[qualName]; exists {
		n.Module = module
		n.Line = line
		return
	}
	g.nodes[qualName] = &Node{QualName: qualName, Module: module, Line: line}
	g.derived[qualName] = []string{}
	g.bases[qualName] = []string{}
}

// Link records that sub derives from base. Both classes must already be
// in the graph, and a class cannot derive from itself.
func (g *Graph) Link(base, sub string) error {
	if _, exists := g.nodes[base]; !exists {
		return fmt.Errorf("base class %q is not in the graph", base)
	}
	if _, exists := g.nodes[sub]; !exists {
		return fmt.Errorf("subclass %q is not in the graph", sub)
	}
	if base == sub {
		return fmt.Errorf("class %q derives from itself", base)
	}

	// Repeated bases collapse to one edge.
	if !contains(g.derived[base], sub) {
		g.derived[base] = append(g.derived[base], sub)
	}
	if !contains(g.bases[sub], base) {
		g.bases[sub] = append(g.bases[sub], base)
	}
	return nil
}

// Node returns the node for a qualified name.
func (g *Graph) Node(qualName string) (*Node, bool) {
	n, exists := g.nodes[qualName]
	return n, exists
}

// Bases returns the direct bases of a class in declaration order.
func (g *Graph) Bases(qualName string) []string {
	return g.bases[qualName]
}

// Subclasses returns the direct subclasses of a class, sorted by name.
func (g *Graph) Subclasses(qualName string) []string {
	subs := append([]string(nil), g.derived[qualName]...)
	sort.Strings(subs)
	return subs
}

// Nodes returns every node, sorted by qualified name.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].QualName < nodes[j].QualName
	})
	return nodes
}

// Edges returns every base-to-subclass link, sorted by base then subclass.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for base, subs := range g.derived {
		for _, sub := range subs {
			edges = append(edges, Edge{Base: base, Sub: sub})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Base != edges[j].Base {
			return edges[i].Base < edges[j].Base
		}
		return edges[i].Sub < edges[j].Sub
	})
	return edges
}

// Len returns the number of classes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// EdgeCount returns the number of inheritance edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, subs := range g.derived {
		count += len(subs)
	}
	return count
}

// Cycle reports an inheritance cycle if one exists. The returned path
// starts and ends with the same class.
func (g *Graph) Cycle() ([]string, bool) {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	cameFrom := make(map[string]string)

	var cyclePath []string

	var dfs func(name string) bool
	dfs = func(name string) bool {
		visited[name] = true
		onStack[name] = true

		for _, sub := range g.derived[name] {
			if !visited[sub] {
				cameFrom[sub] = name
				if dfs(sub) {
					return true
				}
			} else if onStack[sub] {
				// Walk back from the current node to reconstruct the loop.
				cyclePath = []string{sub}
				for curr := name; curr != sub; curr = cameFrom[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{sub}, cyclePath...)
				return true
			}
		}

		onStack[name] = false
		return false
	}

	// Sorted start order keeps the reported path deterministic.
	for _, name := range g.sortedNames() {
		if !visited[name] {
			if dfs(name) {
				return cyclePath, true
			}
		}
	}
	return nil, false
}

// TopoOrder returns qualified names with every base before its subclasses.
// Returns an error if the graph contains an inheritance cycle.
func (g *Graph) TopoOrder() ([]string, error) {
	if path, found := g.Cycle(); found {
		return nil, fmt.Errorf("inheritance cycle: %v", path)
	}

	visited := make(map[string]bool)
	var order []string

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		for _, base := range g.bases[name] {
			visit(base)
		}
		order = append(order, name)
	}

	for _, name := range g.sortedNames() {
		visit(name)
	}
	return order, nil
}

// Levels groups classes by inheritance depth. Level 0 holds classes with
// no bases in the graph; a class sits one level below its deepest base.
func (g *Graph) Levels() ([][]string, error) {
	if path, found := g.Cycle(); found {
		return nil, fmt.Errorf("inheritance cycle: %v", path)
	}

	depth := make(map[string]int)

	var levelOf func(name string) int
	levelOf = func(name string) int {
		if d, ok := depth[name]; ok {
			return d
		}
		bases := g.bases[name]
		if len(bases) == 0 {
			depth[name] = 0
			return 0
		}
		deepest := 0
		for _, base := range bases {
			if d := levelOf(base); d > deepest {
				deepest = d
			}
		}
		depth[name] = deepest + 1
		return deepest + 1
	}

	maxDepth := 0
	for name := range g.nodes {
		if d := levelOf(name); d > maxDepth {
			maxDepth = d
		}
	}

	levels := make([][]string, maxDepth+1)
	for i := range levels {
		levels[i] = []string{}
	}
	for name, d := range depth {
		levels[d] = append(levels[d], name)
	}
	for i := range levels {
		sort.Strings(levels[i])
	}
	return levels, nil
}

// Descendants returns every class transitively deriving from the given
// one, sorted by name. The class itself is not included.
func (g *Graph) Descendants(qualName string) []string {
	seen := make(map[string]bool)

	var mark func(name string)
	mark = func(name string) {
		for _, sub := range g.derived[name] {
			if !seen[sub] {
				seen[sub] = true
				mark(sub)
			}
		}
	}
	mark(qualName)
	return sortedKeys(seen)
}

// Ancestors returns every class the given one transitively derives from,
// sorted by name. The class itself is not included.
func (g *Graph) Ancestors(qualName string) []string {
	seen := make(map[string]bool)

	var mark func(name string)
	mark = func(name string) {
		for _, base := range g.bases[name] {
			if !seen[base] {
				seen[base] = true
				mark(base)
			}
		}
	}
	mark(qualName)
	return sortedKeys(seen)
}

// Roots returns classes with no bases in the graph, sorted by name.
func (g *Graph) Roots() []string {
	var roots []string
	for name := range g.nodes {
		if len(g.bases[name]) == 0 {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns classes nothing derives from, sorted by name.
func (g *Graph) Leaves() []string {
	var leaves []string
	for name := range g.nodes {
		if len(g.derived[name]) == 0 {
			leaves = append(leaves, name)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// Subgraph returns a new graph restricted to the given classes and the
// edges between them.
func (g *Graph) Subgraph(qualNames []string) *Graph {
	sub := New()
	keep := make(map[string]bool)

	for _, name := range qualNames {
		keep[name] = true
		if n, exists := g.nodes[name]; exists {
			sub.Add(name, n.Module, n.Line)
		}
	}
	for _, name := range qualNames {
		for _, base := range g.bases[name] {
			if keep[base] {
				_ = sub.Link(base, name)
			}
		}
	}
	return sub
}

// FromAnalysis builds the inheritance graph over all classes in an
// analysis. Bases outside the analyzed project, builtins included, carry
// no edge; self-derivation is dropped here since inference already
// flags it on the class.
func FromAnalysis(a *report.Analysis) *Graph {
	g := New()
	for _, mod := range a.Modules {
		for _, cls := range mod.Classes {
			g.Add(cls.QualName, mod.Path, cls.Line)
		}
	}
	for _, mod := range a.Modules {
		for _, cls := range mod.Classes {
			for _, base := range cls.Bases {
				if _, known := g.nodes[base]; known && base != cls.QualName {
					_ = g.Link(base, cls.QualName)
				}
			}
		}
	}
	return g
}

func (g *Graph) sortedNames() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
