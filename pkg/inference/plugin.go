package inference

import "sort"

// MetaclassFilterFunc produces the extra member filters a metaclass
// contributes to the classes it constructs. Overrides receive the class
// under lookup and the full resolved metaclass set and may return nothing.
type MetaclassFilterFunc func(s *Session, class Class, metaclasses ValueSet, isInstance bool) []Filter

// PluginRegistry maps metaclass names to filter overrides. It is owned by
// the session it is handed to; there is no global hook state. The default
// behavior for an unhandled metaclass is to contribute nothing and leave a
// note-level diagnostic.
type PluginRegistry struct {
	overrides map[string]MetaclassFilterFunc
}

// NewPluginRegistry returns an empty registry.
func NewPluginRegistry() *PluginRegistry {
	return &PluginRegistry{overrides: make(map[string]MetaclassFilterFunc)}
}

// Register installs an override for the metaclass with the given name,
// replacing any previous one.
func (r *PluginRegistry) Register(name string, fn MetaclassFilterFunc) {
	r.overrides[name] = fn
}

// Names returns the registered metaclass names, sorted.
func (r *PluginRegistry) Names() []string {
	out := make([]string, 0, len(r.overrides))
	for name := range r.overrides {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered overrides.
func (r *PluginRegistry) Len() int { return len(r.overrides) }

// filtersFor consults the overrides for each resolved metaclass. Metaclasses
// nobody handles are noted once per (class, metaclass) pair.
func (r *PluginRegistry) filtersFor(s *Session, class Class, metas ValueSet, isInstance bool) []Filter {
	var out []Filter
	for _, meta := range metas.Values() {
		fn, ok := r.overrides[meta.Name()]
		if !ok {
			note := metaNote{class: class, meta: meta}
			if !s.notedMeta[note] {
				s.notedMeta[note] = true
				file, pos := classOrigin(class)
				s.report(DiagUnhandledMetaclass, file, pos,
					"metaclass %s of %s has no filter plugin", meta.Name(), class.Name())
			}
			continue
		}
		out = append(out, fn(s, class, metas, isInstance)...)
	}
	return out
}
