package inference

import "github.com/leapstack-labs/pylens/pkg/pytree"

// Context is an evaluation context: the scope in which deferred expressions
// are resolved. Base-class expressions evaluate in the scope enclosing the
// class definition, not in the class body itself.
type Context struct {
	s     *Session
	scope *pytree.Scope
}

// NewContext builds a context over the given scope.
func (s *Session) NewContext(scope *pytree.Scope) *Context {
	return &Context{s: s, scope: scope}
}

// Scope returns the context's scope; nil only for builtin-internal contexts.
func (c *Context) Scope() *pytree.Scope { return c.scope }

// Session returns the owning session.
func (c *Context) Session() *Session { return c.s }

// Resolve infers the possible values of an expression in this context.
// Unresolvable expressions yield the empty set, never an error.
func (c *Context) Resolve(e *pytree.Expr) ValueSet {
	return c.s.resolve(c, e)
}
