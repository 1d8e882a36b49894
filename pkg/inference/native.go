package inference

import "github.com/leapstack-labs/pylens/pkg/pytree"

// NativeClass is a host-provided class with no source definition: its
// members come from the generated catalog instead of a class body. It takes
// part in MROs next to source classes; the filter machinery routes it to its
// own member filter rather than a class-body filter.
type NativeClass struct {
	s       *Session
	name    string
	bases   []string
	members []string
}

// Kind returns KindClass.
func (n *NativeClass) Kind() Kind { return KindClass }

// Name returns the class name.
func (n *NativeClass) Name() string { return n.name }

// QualName returns the class name; natives are top-level by construction.
func (n *NativeClass) QualName() string { return n.name }

// String returns the display form.
func (n *NativeClass) String() string { return "native class " + n.name }

// Members returns the catalog member names.
func (n *NativeClass) Members() []string { return n.members }

// MRO returns the linearized ancestor order, self first. Catalog base names
// resolve against the builtins stub first, so native ancestries merge into
// source-defined ones.
func (n *NativeClass) MRO() []Class { return n.s.mroOf(n) }

// lazyBases resolves the catalog base names; catalog roots fall back to
// object like any other class.
func (n *NativeClass) lazyBases() []*LazyValue {
	var out []*LazyValue
	for _, base := range n.bases {
		if set := n.s.builtinClass(base); !set.IsEmpty() {
			out = append(out, KnownLazyValue(set))
		}
	}
	if len(out) == 0 && n.s.objectClass != nil {
		out = append(out, KnownLazyValue(NewValueSet(n.s.objectClass)))
	}
	return out
}

// Filters returns the ordered member filters for attribute lookup.
func (n *NativeClass) Filters(origin *pytree.Scope, isInstance bool) []Filter {
	return n.s.classFilters(n, origin, isInstance)
}

// MemberFilter returns the filter over the catalog members.
func (n *NativeClass) MemberFilter(isInstance bool) Filter {
	return &nativeFilter{class: n, wrapping: !isInstance}
}

// Class returns the native class the filter reads from.
func (f *nativeFilter) Class() *NativeClass { return f.class }

// Call instantiates the native class.
func (n *NativeClass) Call(args *Arguments) ValueSet {
	return NewValueSet(newInstance(n.s, n, args))
}

// Metaclasses returns the empty set; natives use default construction.
func (n *NativeClass) Metaclasses() ValueSet { return NoValues }

// nativeFilter exposes a native class's catalog members.
type nativeFilter struct {
	class    *NativeClass
	wrapping bool
}

// Get returns the member matching ident, if the catalog lists it.
func (f *nativeFilter) Get(ident string) []Name {
	for _, m := range f.class.members {
		if m == ident {
			return []Name{nativeName{class: f.class, ident: ident, wrapping: f.wrapping}}
		}
	}
	return nil
}

// Names returns every catalog member.
func (f *nativeFilter) Names() []Name {
	out := make([]Name, 0, len(f.class.members))
	for _, m := range f.class.members {
		out = append(out, nativeName{class: f.class, ident: m, wrapping: f.wrapping})
	}
	return out
}

// nativeName is a catalog member; it has a name but no inferable definition.
type nativeName struct {
	class    *NativeClass
	ident    string
	wrapping bool
}

func (n nativeName) Ident() string       { return n.ident }
func (n nativeName) ApplyWrapping() bool { return n.wrapping }
func (n nativeName) Infer() ValueSet     { return NoValues }
