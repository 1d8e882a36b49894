// Package inference implements the class/type model of a static inference
// engine for Python sources. Given a class definition it computes, without
// executing the program, the sets of possible runtime values that name
// lookups, instantiations, and subscripts on that class could produce.
//
// Inference is best-effort, lazy, and set-valued: every question is answered
// with a ValueSet that may be empty or partial, never with a hard failure.
// All state is scoped to a Session; the package is single-threaded.
package inference

import (
	"github.com/leapstack-labs/pylens/pkg/pytree"
)

// Kind classifies an inferable value.
type Kind int

const (
	// KindClass is a class object, source-defined or native.
	KindClass Kind = iota
	// KindInstance is the result of instantiating a class.
	KindInstance
	// KindFunction covers plain functions and bound methods.
	KindFunction
	// KindTypeVar is a generic type parameter.
	KindTypeVar
)

// String returns the lowercase kind label used in reports.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case KindFunction:
		return "function"
	case KindTypeVar:
		return "typevar"
	default:
		return "unknown"
	}
}

// Value is any inferable static entity. Implementations are pointer types;
// two Values are the same entity exactly when the pointers are equal, which
// is what ValueSet membership and MRO deduplication rely on.
type Value interface {
	// Kind reports the value's classification.
	Kind() Kind
	// Name returns the value's simple name.
	Name() string
	// String returns a display form for diagnostics and reports.
	String() string
}

// Class is the capability shared by every class-capable value: source
// classes, their generic specializations, and native classes. The MRO and
// filter machinery distinguishes the variants by type switch.
type Class interface {
	Value
	// QualName returns the dotted qualified name within its module.
	QualName() string
	// MRO returns the linearized ancestor order, self first.
	MRO() []Class
	// Filters returns the ordered member filters for attribute lookup.
	Filters(origin *pytree.Scope, isInstance bool) []Filter
	// Call instantiates the class with the given arguments.
	Call(args *Arguments) ValueSet
	// Metaclasses resolves the classes controlling this class's construction.
	Metaclasses() ValueSet
}

// IsClass reports whether a value can serve as a base class.
func IsClass(v Value) bool {
	_, ok := v.(Class)
	return ok
}
