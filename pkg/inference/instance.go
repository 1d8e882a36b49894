package inference

import "github.com/leapstack-labs/pylens/pkg/pytree"

// Instance is the result of instantiating a class. It remembers the class
// and the call arguments; the constructor body is only consulted lazily,
// when attributes are looked up.
type Instance struct {
	s     *Session
	class Class
	args  *Arguments
}

func newInstance(s *Session, class Class, args *Arguments) *Instance {
	return &Instance{s: s, class: class, args: args}
}

// Kind returns KindInstance.
func (i *Instance) Kind() Kind { return KindInstance }

// Name returns the instantiated class's name.
func (i *Instance) Name() string { return i.class.Name() }

// String returns the display form.
func (i *Instance) String() string { return i.class.Name() + "()" }

// Class returns the instantiated class.
func (i *Instance) Class() Class { return i.class }

// Arguments returns the instantiation arguments, possibly nil.
func (i *Instance) Arguments() *Arguments { return i.args }

// Filters returns the attribute filters for instance access: first the
// attributes each source ancestor's methods assign on their receiver, then
// the class's own filters in instance mode.
func (i *Instance) Filters(origin *pytree.Scope) []Filter {
	var fs []Filter
	for _, anc := range i.class.MRO() {
		switch a := anc.(type) {
		case *GenericClass:
			fs = append(fs, &selfAttrFilter{s: i.s, class: a.ClassValue})
		case *ClassValue:
			fs = append(fs, &selfAttrFilter{s: i.s, class: a})
		}
	}
	fs = append(fs, i.class.Filters(origin, true)...)
	return fs
}

// Member resolves one attribute on the instance, walking the filters in
// order; functions reached this way become bound methods.
func (i *Instance) Member(ident string, origin *pytree.Scope) (ValueSet, error) {
	before := i.s.degraded
	for _, f := range i.Filters(origin) {
		names := f.Get(ident)
		if len(names) == 0 {
			continue
		}
		out := NoValues
		for _, n := range names {
			out = out.Union(i.bind(n.Infer()))
		}
		return out, nil
	}
	if i.s.degraded > before {
		return NoValues, nil
	}
	return NoValues, ErrAbsent
}

// bind wraps functions reached through the instance as bound methods.
func (i *Instance) bind(set ValueSet) ValueSet {
	bound := false
	out := make([]Value, 0, set.Len())
	for _, v := range set.Values() {
		if fn, ok := v.(*FunctionValue); ok {
			out = append(out, newBoundMethod(fn, i))
			bound = true
			continue
		}
		out = append(out, v)
	}
	if !bound {
		return set
	}
	return NewValueSet(out...)
}

// selfAttrFilter exposes the attributes a class's methods assign on their
// receiver (self.x = ...).
type selfAttrFilter struct {
	s     *Session
	class *ClassValue
}

// Class returns the MRO entry whose methods assign these attributes.
func (f *selfAttrFilter) Class() *ClassValue { return f.class }

// Get returns the receiver attributes binding ident.
func (f *selfAttrFilter) Get(ident string) []Name {
	var out []Name
	for _, def := range f.class.def.InstanceAttributes() {
		if def.Name() == ident {
			out = append(out, f.wrap(def))
		}
	}
	return out
}

// Names returns every receiver attribute.
func (f *selfAttrFilter) Names() []Name {
	var out []Name
	for _, def := range f.class.def.InstanceAttributes() {
		out = append(out, f.wrap(def))
	}
	return out
}

func (f *selfAttrFilter) wrap(def *pytree.Def) *DefName {
	// Assignment values resolve in the method scope they appear in.
	scope := f.class.def.Scope()
	if v := def.Value(); v != nil {
		scope = v.Scope()
	}
	return newDefName(f.s, def, scope, false)
}
