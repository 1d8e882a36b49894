package inference

import "github.com/leapstack-labs/pylens/pkg/pytree"

// Arguments carries the syntactic arguments of a call together with the
// context they resolve in. Instantiation stores them unevaluated.
type Arguments struct {
	ctx  *Context
	args []pytree.Argument
}

// NewArguments wraps call arguments for later resolution.
func NewArguments(ctx *Context, args []pytree.Argument) *Arguments {
	return &Arguments{ctx: ctx, args: args}
}

// Len returns the argument count; a nil receiver is an empty call.
func (a *Arguments) Len() int {
	if a == nil {
		return 0
	}
	return len(a.args)
}

// Positional returns the plain positional argument expressions.
func (a *Arguments) Positional() []*pytree.Expr {
	if a == nil {
		return nil
	}
	var out []*pytree.Expr
	for _, arg := range a.args {
		if arg.Kind == pytree.ArgPositional {
			out = append(out, arg.Value)
		}
	}
	return out
}

// Keyword returns the expression bound to the named keyword, or nil.
func (a *Arguments) Keyword(name string) *pytree.Expr {
	if a == nil {
		return nil
	}
	for _, arg := range a.args {
		if arg.Kind == pytree.ArgKeyword && arg.Keyword == name {
			return arg.Value
		}
	}
	return nil
}

// Resolve infers one argument expression in the call's context.
func (a *Arguments) Resolve(e *pytree.Expr) ValueSet {
	if a == nil || a.ctx == nil || e == nil {
		return NoValues
	}
	return a.ctx.Resolve(e)
}
