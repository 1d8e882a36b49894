package inference

import "github.com/leapstack-labs/pylens/pkg/pytree"

// Name is one candidate binding site for an identifier. The apply-wrapping
// flag reports whether descriptor/decorator transformation applies on
// resolution: true for class-level (unbound) access, false for instance
// access.
type Name interface {
	// Ident returns the bound identifier.
	Ident() string
	// ApplyWrapping reports the descriptor re-binding flag.
	ApplyWrapping() bool
	// Infer resolves the binding to its possible values.
	Infer() ValueSet
}

// DefName is a Name backed by a source definition.
type DefName struct {
	s        *Session
	def      *pytree.Def
	scope    *pytree.Scope
	owner    *ClassValue
	generics *GenericManager
	wrapping bool
}

func newDefName(s *Session, def *pytree.Def, scope *pytree.Scope, wrapping bool) *DefName {
	return &DefName{s: s, def: def, scope: scope, wrapping: wrapping}
}

// Ident returns the defined identifier.
func (n *DefName) Ident() string { return n.def.Name() }

// ApplyWrapping reports the descriptor re-binding flag.
func (n *DefName) ApplyWrapping() bool { return n.wrapping }

// Def returns the backing definition.
func (n *DefName) Def() *pytree.Def { return n.def }

// Position returns the definition site.
func (n *DefName) Position() pytree.Position { return n.def.Position() }

// Infer resolves the definition to its possible values. Assignments resolve
// their right-hand side (or annotation when no value exists); class and
// function definitions resolve to the corresponding value; parameters are
// opaque and resolve to nothing.
func (n *DefName) Infer() ValueSet {
	switch n.def.Kind() {
	case pytree.DefClass:
		cls := n.s.ClassFor(n.def.Class())
		if cls == nil {
			return NoValues
		}
		return NewValueSet(cls)
	case pytree.DefFunction:
		fn := n.s.functionFor(n.def)
		if fn == nil {
			return NoValues
		}
		return NewValueSet(fn)
	case pytree.DefAssign:
		return n.inferAssign()
	default:
		return NoValues
	}
}

func (n *DefName) inferAssign() ValueSet {
	if tv := n.s.typeVarFor(n.def); tv != nil {
		return NewValueSet(tv)
	}
	if bound, ok := n.substituteTypeVar(); ok {
		return bound
	}
	ctx := n.s.NewContext(n.scope)
	if v := n.def.Value(); v != nil {
		return ctx.Resolve(v)
	}
	if ann := n.def.Annotation(); ann != nil {
		// An annotated declaration without a value infers to instances of
		// the annotated classes. Unbound type variables stay as themselves.
		var out ValueSet
		for _, v := range ctx.Resolve(ann).Values() {
			switch av := v.(type) {
			case Class:
				out = out.Union(av.Call(nil))
			case *TypeVar:
				out = out.Union(NewValueSet(av))
			}
		}
		return out
	}
	return NoValues
}

// substituteTypeVar replaces a definition whose annotation or value is a
// bound type variable of the owning specialized class.
func (n *DefName) substituteTypeVar() (ValueSet, bool) {
	if n.generics == nil || n.owner == nil {
		return NoValues, false
	}
	for _, e := range []*pytree.Expr{n.def.Annotation(), n.def.Value()} {
		if e == nil || e.Kind() != pytree.ExprIdent {
			continue
		}
		if set, ok := n.generics.ForName(n.owner.TypeVars(), e.Ident()); ok {
			return set, true
		}
	}
	return NoValues, false
}
