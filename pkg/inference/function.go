package inference

import (
	"strings"

	"github.com/leapstack-labs/pylens/pkg/pytree"
)

// FunctionValue models a source-defined function or method.
type FunctionValue struct {
	s         *Session
	fn        *pytree.FuncDef
	decorated bool
}

// Kind returns KindFunction.
func (f *FunctionValue) Kind() Kind { return KindFunction }

// Name returns the function name.
func (f *FunctionValue) Name() string { return f.fn.Name() }

// String returns the display form.
func (f *FunctionValue) String() string { return "def " + f.fn.Name() }

// Position returns the definition site.
func (f *FunctionValue) Position() pytree.Position { return f.fn.Position() }

// Decorated reports whether the definition sits under a decorator.
func (f *FunctionValue) Decorated() bool { return f.decorated }

// Params returns the declared parameters, receiver included.
func (f *FunctionValue) Params() []pytree.Param { return f.fn.Params() }

// Signatures returns the unbound signature.
func (f *FunctionValue) Signatures() []*Signature {
	return []*Signature{{fn: f}}
}

// BindTo returns the signature with recv as the implicit receiver, hiding
// the first parameter.
func (f *FunctionValue) BindTo(recv Class) *Signature {
	return &Signature{fn: f, recv: recv}
}

// BoundMethod is a function reached through an instance: the receiver is
// already bound.
type BoundMethod struct {
	*FunctionValue
	recv *Instance
}

func newBoundMethod(fn *FunctionValue, recv *Instance) *BoundMethod {
	return &BoundMethod{FunctionValue: fn, recv: recv}
}

// String returns the display form.
func (b *BoundMethod) String() string { return "bound method " + b.Name() }

// Receiver returns the instance the method is bound to.
func (b *BoundMethod) Receiver() *Instance { return b.recv }

// Signature is a callable signature, optionally bound to a receiver class so
// the implicit first parameter is hidden.
type Signature struct {
	fn   *FunctionValue
	recv Class
}

// Func returns the underlying function.
func (s *Signature) Func() *FunctionValue { return s.fn }

// Bound reports whether a receiver is bound.
func (s *Signature) Bound() bool { return s.recv != nil }

// Params returns the visible parameters; bound signatures hide the receiver.
func (s *Signature) Params() []pytree.Param {
	params := s.fn.Params()
	if s.recv != nil && len(params) > 0 {
		return params[1:]
	}
	return params
}

// String renders the signature, using the receiver class's name for bound
// constructors.
func (s *Signature) String() string {
	name := s.fn.Name()
	if s.recv != nil {
		name = s.recv.Name()
	}
	parts := make([]string, 0, len(s.Params()))
	for _, p := range s.Params() {
		var b strings.Builder
		if p.Star {
			b.WriteByte('*')
		}
		if p.DoubleStar {
			b.WriteString("**")
		}
		b.WriteString(p.Name)
		if p.Annotation != nil {
			b.WriteString(": ")
			b.WriteString(p.Annotation.Text())
		}
		if p.HasDefault {
			b.WriteString("=...")
		}
		parts = append(parts, b.String())
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
