package inference

// Filter is an ordered provider of Names for identifier lookup. A class's
// attribute resolution walks a sequence of Filters (metaclass overrides,
// then one per MRO entry); the first filter producing candidates wins.
type Filter interface {
	// Get returns the candidates binding the given identifier.
	Get(ident string) []Name
	// Names returns every candidate the filter can see.
	Names() []Name
}

// StaticFilter exposes a fixed list of member names, used by metaclass
// plugins that contribute synthesized attributes.
type StaticFilter struct {
	source string
	names  []Name
}

// NewStaticFilter builds a filter over literal member names. The source label
// identifies the contributing plugin in diagnostics.
func NewStaticFilter(source string, idents ...string) *StaticFilter {
	f := &StaticFilter{source: source}
	for _, ident := range idents {
		f.names = append(f.names, staticName{ident: ident})
	}
	return f
}

// Source returns the contributing plugin label.
func (f *StaticFilter) Source() string { return f.source }

// Get returns the matching static names.
func (f *StaticFilter) Get(ident string) []Name {
	var out []Name
	for _, n := range f.names {
		if n.Ident() == ident {
			out = append(out, n)
		}
	}
	return out
}

// Names returns all static names.
func (f *StaticFilter) Names() []Name { return f.names }

// staticName is a member name with no definition site; it infers to nothing.
type staticName struct {
	ident string
}

func (n staticName) Ident() string       { return n.ident }
func (n staticName) ApplyWrapping() bool { return true }
func (n staticName) Infer() ValueSet     { return NoValues }
