package hierarchy

import (
	"testing"

	"github.com/leapstack-labs/pylens/pkg/report"
)

func TestGraph_AddAndLink(t *testing.T) {
	g := New()

	g.Add("A", "app.py", 1)
	g.Add("B", "app.py", 4)
	g.Add("C", "app.py", 8)

	if g.Len() != 3 {
		t.Errorf("expected 3 classes, got %d", g.Len())
	}

	if err := g.Link("A", "B"); err != nil {
		t.Errorf("failed to link: %v", err)
	}
	if err := g.Link("B", "C"); err != nil {
		t.Errorf("failed to link: %v", err)
	}
	// Repeating a base must not duplicate the edge.
	if err := g.Link("A", "B"); err != nil {
		t.Errorf("failed to relink: %v", err)
	}

	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", g.EdgeCount())
	}
}

func TestGraph_Add_UpdatesPosition(t *testing.T) {
	g := New()
	g.Add("A", "old.py", 1)
	g.Add("A", "new.py", 9)

	n, ok := g.Node("A")
	if !ok {
		t.Fatal("expected node A to exist")
	}
	if n.Module != "new.py" || n.Line != 9 {
		t.Errorf("expected position new.py:9, got %s:%d", n.Module, n.Line)
	}
	if g.Len() != 1 {
		t.Errorf("expected 1 class after re-add, got %d", g.Len())
	}
}

func TestGraph_Link_UnknownClass(t *testing.T) {
	g := New()
	g.Add("A", "app.py", 1)

	if err := g.Link("A", "Missing"); err == nil {
		t.Error("expected error for unknown subclass")
	}
	if err := g.Link("Missing", "A"); err == nil {
		t.Error("expected error for unknown base")
	}
}

func TestGraph_Link_SelfDerivation(t *testing.T) {
	g := New()
	g.Add("A", "app.py", 1)

	if err := g.Link("A", "A"); err == nil {
		t.Error("expected error for class deriving from itself")
	}
}

func TestGraph_BasesKeepDeclarationOrder(t *testing.T) {
	g := New()
	g.Add("Mixin", "app.py", 1)
	g.Add("Base", "app.py", 4)
	g.Add("Model", "app.py", 8)

	// class Model(Mixin, Base): the declared order matters for readers.
	g.Link("Mixin", "Model")
	g.Link("Base", "Model")

	bases := g.Bases("Model")
	if len(bases) != 2 || bases[0] != "Mixin" || bases[1] != "Base" {
		t.Errorf("expected bases [Mixin Base], got %v", bases)
	}
}

func TestGraph_SubclassesSorted(t *testing.T) {
	g := New()
	g.Add("Base", "app.py", 1)
	g.Add("Zeta", "app.py", 4)
	g.Add("Alpha", "app.py", 8)

	g.Link("Base", "Zeta")
	g.Link("Base", "Alpha")

	subs := g.Subclasses("Base")
	if len(subs) != 2 || subs[0] != "Alpha" || subs[1] != "Zeta" {
		t.Errorf("expected subclasses [Alpha Zeta], got %v", subs)
	}
}

func TestGraph_Cycle_None(t *testing.T) {
	g := New()
	g.Add("A", "app.py", 1)
	g.Add("B", "app.py", 4)
	g.Add("C", "app.py", 8)

	g.Link("A", "B")
	g.Link("B", "C")

	if path, found := g.Cycle(); found {
		t.Errorf("expected no cycle, but found: %v", path)
	}
}

func TestGraph_Cycle_PathClosesLoop(t *testing.T) {
	g := New()
	g.Add("A", "app.py", 1)
	g.Add("B", "app.py", 4)
	g.Add("C", "app.py", 8)

	g.Link("A", "B")
	g.Link("B", "C")
	g.Link("C", "A") // textual cycle, rejected by the runtime but parseable

	path, found := g.Cycle()
	if !found {
		t.Fatal("expected cycle to be detected")
	}
	if len(path) < 3 {
		t.Fatalf("expected a closed path, got %v", path)
	}
	if path[0] != path[len(path)-1] {
		t.Errorf("expected path to start and end on the same class, got %v", path)
	}

	onPath := make(map[string]bool)
	for _, name := range path {
		onPath[name] = true
	}
	for _, name := range []string{"A", "B", "C"} {
		if !onPath[name] {
			t.Errorf("expected %s on the cycle path %v", name, path)
		}
	}
}

func TestGraph_TopoOrder_BasesFirst(t *testing.T) {
	g := New()
	g.Add("A", "app.py", 1)
	g.Add("B", "app.py", 4)
	g.Add("C", "app.py", 8)

	g.Link("A", "B")
	g.Link("B", "C")

	order, err := g.TopoOrder()
	if err != nil {
		t.Fatalf("failed to order: %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("expected 3 classes, got %d", len(order))
	}

	positions := make(map[string]int)
	for i, name := range order {
		positions[name] = i
	}
	if positions["A"] >= positions["B"] {
		t.Error("A should come before B")
	}
	if positions["B"] >= positions["C"] {
		t.Error("B should come before C")
	}
}

func TestGraph_TopoOrder_Diamond(t *testing.T) {
	// class L(Base), class R(Base), class D(L, R)
	g := New()
	g.Add("Base", "app.py", 1)
	g.Add("L", "app.py", 4)
	g.Add("R", "app.py", 8)
	g.Add("D", "app.py", 12)

	g.Link("Base", "L")
	g.Link("Base", "R")
	g.Link("L", "D")
	g.Link("R", "D")

	order, err := g.TopoOrder()
	if err != nil {
		t.Fatalf("failed to order: %v", err)
	}

	positions := make(map[string]int)
	for i, name := range order {
		positions[name] = i
	}

	if positions["Base"] != 0 {
		t.Error("Base should be first")
	}
	if positions["D"] != 3 {
		t.Error("D should be last")
	}
	if positions["L"] <= positions["Base"] || positions["L"] >= positions["D"] {
		t.Error("L should be between Base and D")
	}
	if positions["R"] <= positions["Base"] || positions["R"] >= positions["D"] {
		t.Error("R should be between Base and D")
	}
}

func TestGraph_TopoOrder_CycleFails(t *testing.T) {
	g := New()
	g.Add("A", "app.py", 1)
	g.Add("B", "app.py", 4)

	g.Link("A", "B")
	g.Link("B", "A")

	if _, err := g.TopoOrder(); err == nil {
		t.Error("expected error for cyclic graph")
	}
}

func TestGraph_Levels(t *testing.T) {
	g := New()
	g.Add("Base", "app.py", 1)
	g.Add("Mixin", "app.py", 5)
	g.Add("Model", "app.py", 9)
	g.Add("AuditedModel", "app.py", 14)

	// Model(Base); AuditedModel(Model, Mixin) sits below its deepest base.
	g.Link("Base", "Model")
	g.Link("Model", "AuditedModel")
	g.Link("Mixin", "AuditedModel")

	levels, err := g.Levels()
	if err != nil {
		t.Fatalf("failed to compute levels: %v", err)
	}

	if len(levels) != 3 {
		t.Fatalf("expected 3 levels, got %d", len(levels))
	}
	if len(levels[0]) != 2 || levels[0][0] != "Base" || levels[0][1] != "Mixin" {
		t.Errorf("expected [Base Mixin] at level 0, got %v", levels[0])
	}
	if len(levels[1]) != 1 || levels[1][0] != "Model" {
		t.Errorf("expected [Model] at level 1, got %v", levels[1])
	}
	if len(levels[2]) != 1 || levels[2][0] != "AuditedModel" {
		t.Errorf("expected [AuditedModel] at level 2, got %v", levels[2])
	}
}

func TestGraph_Levels_CycleFails(t *testing.T) {
	g := New()
	g.Add("A", "app.py", 1)
	g.Add("B", "app.py", 4)

	g.Link("A", "B")
	g.Link("B", "A")

	if _, err := g.Levels(); err == nil {
		t.Error("expected error for cyclic graph")
	}
}

func TestGraph_Descendants(t *testing.T) {
	g := New()
	g.Add("Base", "app.py", 1)
	g.Add("Model", "app.py", 4)
	g.Add("User", "app.py", 8)
	g.Add("Other", "app.py", 12)

	g.Link("Base", "Model")
	g.Link("Model", "User")

	descendants := g.Descendants("Base")
	if len(descendants) != 2 || descendants[0] != "Model" || descendants[1] != "User" {
		t.Errorf("expected descendants [Model User], got %v", descendants)
	}

	if got := g.Descendants("Other"); len(got) != 0 {
		t.Errorf("expected no descendants for Other, got %v", got)
	}
}

func TestGraph_Ancestors_Diamond(t *testing.T) {
	g := New()
	g.Add("Base", "app.py", 1)
	g.Add("L", "app.py", 4)
	g.Add("R", "app.py", 8)
	g.Add("D", "app.py", 12)

	g.Link("Base", "L")
	g.Link("Base", "R")
	g.Link("L", "D")
	g.Link("R", "D")

	ancestors := g.Ancestors("D")
	if len(ancestors) != 3 {
		t.Fatalf("expected 3 ancestors, got %d: %v", len(ancestors), ancestors)
	}
	if ancestors[0] != "Base" || ancestors[1] != "L" || ancestors[2] != "R" {
		t.Errorf("expected ancestors [Base L R], got %v", ancestors)
	}
}

func TestGraph_RootsAndLeaves(t *testing.T) {
	g := New()
	g.Add("Base", "app.py", 1)
	g.Add("Mixin", "app.py", 4)
	g.Add("Model", "app.py", 8)

	g.Link("Base", "Model")
	g.Link("Mixin", "Model")

	roots := g.Roots()
	if len(roots) != 2 || roots[0] != "Base" || roots[1] != "Mixin" {
		t.Errorf("expected roots [Base Mixin], got %v", roots)
	}

	leaves := g.Leaves()
	if len(leaves) != 1 || leaves[0] != "Model" {
		t.Errorf("expected leaves [Model], got %v", leaves)
	}
}

func TestGraph_Subgraph(t *testing.T) {
	g := New()
	g.Add("Base", "app.py", 1)
	g.Add("Model", "app.py", 4)
	g.Add("User", "app.py", 8)

	g.Link("Base", "Model")
	g.Link("Model", "User")

	sub := g.Subgraph([]string{"Base", "Model"})

	if sub.Len() != 2 {
		t.Errorf("expected 2 classes in subgraph, got %d", sub.Len())
	}
	if sub.EdgeCount() != 1 {
		t.Errorf("expected 1 edge in subgraph, got %d", sub.EdgeCount())
	}
	if _, ok := sub.Node("User"); ok {
		t.Error("User should not be in the subgraph")
	}
	if bases := sub.Bases("Model"); len(bases) != 1 || bases[0] != "Base" {
		t.Errorf("expected Model to keep base Base, got %v", bases)
	}
}

func TestGraph_Edges(t *testing.T) {
	g := New()
	g.Add("Base", "app.py", 1)
	g.Add("B", "app.py", 4)
	g.Add("A", "app.py", 8)

	g.Link("Base", "B")
	g.Link("Base", "A")

	edges := g.Edges()
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	if edges[0] != (Edge{Base: "Base", Sub: "A"}) {
		t.Errorf("expected first edge Base->A, got %+v", edges[0])
	}
	if edges[1] != (Edge{Base: "Base", Sub: "B"}) {
		t.Errorf("expected second edge Base->B, got %+v", edges[1])
	}
}

func TestGraph_Clear(t *testing.T) {
	g := New()
	g.Add("A", "app.py", 1)
	g.Add("B", "app.py", 4)
	g.Link("A", "B")

	g.Clear()

	if g.Len() != 0 || g.EdgeCount() != 0 {
		t.Errorf("expected empty graph after clear, got %d classes and %d edges", g.Len(), g.EdgeCount())
	}
}

func TestFromAnalysis(t *testing.T) {
	a := &report.Analysis{
		Modules: []report.Module{
			{
				Path: "app/models.py",
				Classes: []report.Class{
					{QualName: "Base", Name: "Base", Line: 1, Bases: []string{"object"}},
					{QualName: "User", Name: "User", Line: 5, Bases: []string{"Base"}},
				},
			},
			{
				Path: "app/admin.py",
				Classes: []report.Class{
					{QualName: "AdminUser", Name: "AdminUser", Line: 3, Bases: []string{"User", "object"}},
					{QualName: "Broken", Name: "Broken", Line: 9, Bases: []string{"Broken"}},
				},
			},
		},
	}

	g := FromAnalysis(a)

	if g.Len() != 4 {
		t.Fatalf("expected 4 classes, got %d", g.Len())
	}
	// object is not a project class, so those edges are dropped.
	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", g.EdgeCount())
	}

	n, ok := g.Node("AdminUser")
	if !ok {
		t.Fatal("expected AdminUser in the graph")
	}
	if n.Module != "app/admin.py" || n.Line != 3 {
		t.Errorf("expected AdminUser at app/admin.py:3, got %s:%d", n.Module, n.Line)
	}

	if bases := g.Bases("AdminUser"); len(bases) != 1 || bases[0] != "User" {
		t.Errorf("expected AdminUser bases [User], got %v", bases)
	}
	if subs := g.Subclasses("Base"); len(subs) != 1 || subs[0] != "User" {
		t.Errorf("expected Base subclasses [User], got %v", subs)
	}

	// Self-derivation from the source must not enter the graph.
	if bases := g.Bases("Broken"); len(bases) != 0 {
		t.Errorf("expected Broken to have no linked bases, got %v", bases)
	}
	if _, found := g.Cycle(); found {
		t.Error("expected no cycle in the built graph")
	}
}
