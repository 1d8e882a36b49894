package inference

import "github.com/leapstack-labs/pylens/pkg/pytree"

// resolve maps an expression to its possible values, best-effort. Unknown
// forms resolve to the empty set, never an error. A session-wide depth
// counter bounds recursion, including the indirect kind where resolving a
// definition's value resolves the same name again.
func (s *Session) resolve(ctx *Context, e *pytree.Expr) ValueSet {
	if e == nil {
		return NoValues
	}
	s.resolveDepth++
	defer func() { s.resolveDepth-- }()
	if s.resolveDepth > s.limits.MaxResolveDepth {
		s.reportLimit(e.File(), e.Position(), "expression resolution")
		return NoValues
	}

	switch e.Kind() {
	case pytree.ExprIdent:
		return s.resolveIdent(ctx, e)
	case pytree.ExprAttribute:
		return s.resolveAttribute(ctx, e)
	case pytree.ExprSubscript:
		return s.resolveSubscript(ctx, e)
	case pytree.ExprCall:
		return s.resolveCall(ctx, e)
	case pytree.ExprString:
		return s.literalInstance("str")
	case pytree.ExprInteger:
		return s.literalInstance("int")
	case pytree.ExprFloat:
		return s.literalInstance("float")
	case pytree.ExprBool:
		return s.literalInstance("bool")
	case pytree.ExprNone:
		return s.literalInstance("NoneType")
	case pytree.ExprList:
		return s.literalInstance("list")
	case pytree.ExprTuple:
		// Tuples resolve to the union of their elements; a tuple in a base
		// list means each element is a candidate base.
		out := NoValues
		for _, el := range e.TupleElems() {
			out = out.Union(s.resolve(ctx, el))
		}
		return out
	default:
		return NoValues
	}
}

// resolveIdent walks the context's scope chain innermost-out, then falls
// back to the builtins stub and the native catalog. A bound name shadows
// outer scopes even when its own inference comes up empty.
func (s *Session) resolveIdent(ctx *Context, e *pytree.Expr) ValueSet {
	ident := e.Ident()
	if ident == "" {
		return NoValues
	}
	steps := 0
	for sc := ctx.Scope(); sc != nil; sc = sc.Parent() {
		if defs := sc.Lookup(ident); len(defs) > 0 {
			out := NoValues
			for _, def := range defs {
				out = out.Union(newDefName(s, def, sc, true).Infer())
			}
			return out
		}
		steps++
		if steps > s.limits.MaxScopeDepth {
			s.reportLimit(e.File(), e.Position(), "scope walk")
			return NoValues
		}
	}
	return s.builtinClass(ident)
}

// resolveAttribute resolves the base, then looks the member up on every
// class or instance it produced.
func (s *Session) resolveAttribute(ctx *Context, e *pytree.Expr) ValueSet {
	ident := e.AttrName()
	if ident == "" {
		return NoValues
	}
	out := NoValues
	for _, v := range s.resolve(ctx, e.AttrBase()).Values() {
		switch holder := v.(type) {
		case Class:
			if set, err := s.LookupMember(holder, ident, ctx.Scope(), false); err == nil {
				out = out.Union(set)
			}
		case *Instance:
			if set, err := holder.Member(ident, ctx.Scope()); err == nil {
				out = out.Union(set)
			}
		}
	}
	return out
}

// resolveSubscript specializes subscripted classes; native classes are not
// parameterizable and pass through unchanged.
func (s *Session) resolveSubscript(ctx *Context, e *pytree.Expr) ValueSet {
	base := s.resolve(ctx, e.SubscriptBase())
	if base.IsEmpty() {
		return NoValues
	}
	indices := NoValues
	for _, idx := range e.SubscriptIndices() {
		indices = indices.Union(s.resolve(ctx, idx))
	}
	out := NoValues
	for _, cls := range base.Classes() {
		switch holder := cls.(type) {
		case *NativeClass:
			out = out.Union(NewValueSet(holder))
		case *GenericClass:
			out = out.Union(holder.Subscript(indices, ctx))
		case *ClassValue:
			out = out.Union(holder.Subscript(indices, ctx))
		}
	}
	return out
}

// resolveCall instantiates called classes. A bare TypeVar(...) call only
// means something through the assignment naming it, and plain function
// calls have unknowable results here.
func (s *Session) resolveCall(ctx *Context, e *pytree.Expr) ValueSet {
	fn := e.CallFunc()
	if fn != nil && fn.Kind() == pytree.ExprIdent && fn.Ident() == "TypeVar" {
		return NoValues
	}
	out := NoValues
	args := NewArguments(ctx, e.CallArgs())
	for _, v := range s.resolve(ctx, fn).Values() {
		if cls, ok := v.(Class); ok {
			out = out.Union(cls.Call(args))
		}
	}
	return out
}

// literalInstance returns an instance of the named builtin class.
func (s *Session) literalInstance(name string) ValueSet {
	out := NoValues
	for _, cls := range s.builtinClass(name).Classes() {
		out = out.Union(cls.Call(nil))
	}
	return out
}
