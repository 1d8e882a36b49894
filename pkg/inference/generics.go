package inference

import (
	"strings"

	"github.com/leapstack-labs/pylens/pkg/pytree"
)

// TypeVar is a generic type parameter introduced by a TypeVar(...) call
// assignment. Identity is the assignment site, so every reference to the
// same declaration infers to the same TypeVar.
type TypeVar struct {
	name string
	pos  pytree.Position
}

// Kind returns KindTypeVar.
func (t *TypeVar) Kind() Kind { return KindTypeVar }

// Name returns the declared parameter name.
func (t *TypeVar) Name() string { return t.name }

// String returns the display form.
func (t *TypeVar) String() string { return "typevar " + t.name }

// Position returns the declaration site.
func (t *TypeVar) Position() pytree.Position { return t.pos }

// GenericManager binds a class's declared type parameters, positionally, to
// value sets. An empty set in a slot is the explicit "no known value"
// marker.
type GenericManager struct {
	params []ValueSet
}

// NewGenericManager builds a manager over the given parameter bindings.
func NewGenericManager(params ...ValueSet) *GenericManager {
	return &GenericManager{params: params}
}

// Len returns the number of bound slots.
func (m *GenericManager) Len() int { return len(m.params) }

// Param returns the binding in slot i, or the empty set out of range.
func (m *GenericManager) Param(i int) ValueSet {
	if i < 0 || i >= len(m.params) {
		return NoValues
	}
	return m.params[i]
}

// ForName returns the binding for the type variable with the given name,
// matched positionally against the declared parameter list. The second
// result reports whether the name is a declared parameter at all.
func (m *GenericManager) ForName(typeVars []*TypeVar, name string) (ValueSet, bool) {
	for i, tv := range typeVars {
		if tv.Name() == name {
			return m.Param(i), true
		}
	}
	return NoValues, false
}

// String renders the bindings as [int, ?].
func (m *GenericManager) String() string {
	return "[" + m.displayList() + "]"
}

func (m *GenericManager) displayList() string {
	parts := make([]string, len(m.params))
	for i, p := range m.params {
		switch p.Len() {
		case 0:
			parts[i] = "?"
		case 1:
			parts[i] = p.Values()[0].Name()
		default:
			names := make([]string, 0, p.Len())
			for _, v := range p.Values() {
				names = append(names, v.Name())
			}
			parts[i] = strings.Join(names, "|")
		}
	}
	return strings.Join(parts, ", ")
}

/// GenericClass is a specialized variant of a source class: the class plus
// bound type parameters. It behaves like the class it wraps for every
// operation; lookups flowing through it substitute the bound parameters
// where the class body references them.
type GenericClass struct {
	*ClassValue
	generics *GenericManager
}

func newGenericClass(c *ClassValue, m *GenericManager) *GenericClass {
	return &GenericClass{ClassValue: c, generics: m}
}

// Generics returns the parameter bindings.
func (g *GenericClass) Generics() *GenericManager { return g.generics }

// String shows the bound parameters.
func (g *GenericClass) String() string {
	return "class " + g.QualName() + "[" + g.generics.displayList() + "]"
}

// MRO returns the wrapped class's ancestry with the specialized variant in
// the self slot. Specialized ancestors are remapped through g's bindings, so
// Base[T] seen from Sub[int] surfaces as Base[int].
func (g *GenericClass) MRO() []Class {
	base := g.s.mroOf(g.ClassValue)
	out := make([]Class, len(base))
	copy(out, base)
	if len(out) > 0 {
		out[0] = g
	}
	for i := 1; i < len(out); i++ {
		if anc, ok := out[i].(*GenericClass); ok {
			out[i] = anc.remapThrough(g)
		}
	}
	return out
}

// remapThrough replaces type-variable slots of an ancestor specialization
// with the values the subclass variant g binds for them.
func (a *GenericClass) remapThrough(g *GenericClass) *GenericClass {
	decl := g.TypeVars()
	params := make([]ValueSet, a.generics.Len())
	changed := false
	for i := range params {
		out := NoValues
		for _, v := range a.generics.Param(i).Values() {
			if tv, ok := v.(*TypeVar); ok {
				if bound, found := g.generics.ForName(decl, tv.Name()); found && !bound.IsEmpty() {
					out = out.Union(bound)
					changed = true
					continue
				}
			}
			out = out.Union(NewValueSet(v))
		}
		params[i] = out
	}
	if !changed {
		return a
	}
	return newGenericClass(a.ClassValue, NewGenericManager(params...))
}

// Filters routes lookup through the specialized variant so the self filter
// carries the bindings.
func (g *GenericClass) Filters(origin *pytree.Scope, isInstance bool) []Filter {
	return g.s.classFilters(g, origin, isInstance)
}

// Call instantiates the specialized variant.
func (g *GenericClass) Call(args *Arguments) ValueSet {
	return NewValueSet(newInstance(g.s, g, args))
}

// typeVarRefs collects the identifier expressions under a base argument that
// could name type variables: bare identifiers, subscript bases and indices,
// and tuple elements.
func typeVarRefs(e *pytree.Expr) []*pytree.Expr {
	if e == nil {
		return nil
	}
	switch e.Kind() {
	case pytree.ExprIdent:
		return []*pytree.Expr{e}
	case pytree.ExprSubscript:
		out := typeVarRefs(e.SubscriptBase())
		for _, idx := range e.SubscriptIndices() {
			out = append(out, typeVarRefs(idx)...)
		}
		return out
	case pytree.ExprTuple:
		var out []*pytree.Expr
		for _, el := range e.TupleElems() {
			out = append(out, typeVarRefs(el)...)
		}
		return out
	default:
		return nil
	}
}
