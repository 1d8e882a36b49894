package inference

import "github.com/leapstack-labs/pylens/pkg/pytree"

// LazyValue defers evaluation of an (expression, context) pair until first
// demand. Evaluation is idempotent: the first result is cached and every
// later Infer call replays it.
type LazyValue struct {
	expr   *pytree.Expr
	ctx    *Context
	result ValueSet
	done   bool
}

// NewLazyValue wraps an expression to be resolved in ctx on demand.
func NewLazyValue(ctx *Context, expr *pytree.Expr) *LazyValue {
	return &LazyValue{expr: expr, ctx: ctx}
}

// KnownLazyValue wraps an already-known result, for defaults like the
// implicit object base.
func KnownLazyValue(set ValueSet) *LazyValue {
	return &LazyValue{result: set, done: true}
}

// Expr returns the deferred expression, or nil for known results.
func (l *LazyValue) Expr() *pytree.Expr { return l.expr }

// Infer evaluates the expression once and replays the cached set thereafter.
func (l *LazyValue) Infer() ValueSet {
	if l.done {
		return l.result
	}
	l.result = l.ctx.Resolve(l.expr)
	l.done = true
	return l.result
}
