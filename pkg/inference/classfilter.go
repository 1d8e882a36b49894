package inference

import (
	"strings"

	"github.com/leapstack-labs/pylens/pkg/pytree"
)

// ClassFilter provides the names defined directly in one class body, with
// visibility rules applied. Ancestor traversal is not its concern: attribute
// lookup walks one ClassFilter per MRO entry.
type ClassFilter struct {
	s          *Session
	class      *ClassValue
	origin     *pytree.Scope
	isInstance bool
	generics   *GenericManager
}

func newClassFilter(s *Session, class *ClassValue, origin *pytree.Scope, isInstance bool, generics *GenericManager) *ClassFilter {
	return &ClassFilter{s: s, class: class, origin: origin, isInstance: isInstance, generics: generics}
}

// Class returns the class whose body this filter exposes.
func (f *ClassFilter) Class() *ClassValue { return f.class }

// Get returns the visible bindings of ident in the class body.
func (f *ClassFilter) Get(ident string) []Name {
	var out []Name
	for _, def := range f.class.def.Body() {
		if def.Name() != ident {
			continue
		}
		if !f.accessPossible(def) {
			continue
		}
		out = append(out, f.wrap(def))
	}
	return out
}

// Names returns every visible binding in the class body.
func (f *ClassFilter) Names() []Name {
	var out []Name
	for _, def := range f.class.def.Body() {
		if !f.accessPossible(def) {
			continue
		}
		out = append(out, f.wrap(def))
	}
	return out
}

// accessPossible applies the visibility rules: the ClassVar heuristic for
// class-level access, then name mangling for private identifiers.
func (f *ClassFilter) accessPossible(def *pytree.Def) bool {
	if !f.isInstance && def.Kind() == pytree.DefAssign {
		// Annotated class-body assignments are instance attributes unless
		// the annotation text carries the ClassVar marker. Textual match on
		// purpose; resolving the annotation would drag in the whole typing
		// surface for marginal gain.
		if ann := def.AnnotationText(); ann != "" && !strings.Contains(ann, "ClassVar") {
			return false
		}
	}
	name := def.Name()
	if strings.HasPrefix(name, "__") && !strings.HasSuffix(name, "__") {
		return f.originReachesClass()
	}
	return true
}

// originReachesClass reports whether the lookup origin is the class's own
// scope or one nested inside it, which is what unlocks mangled names.
func (f *ClassFilter) originReachesClass() bool {
	if f.origin == nil {
		return false
	}
	classScope := f.class.def.Scope()
	depth := 0
	for sc := f.origin; sc != nil; sc = sc.Parent() {
		if sc.Same(classScope) {
			return true
		}
		depth++
		if depth > f.s.limits.MaxScopeDepth {
			f.s.reportLimit(f.class.def.File(), f.class.def.Position(), "scope walk during mangling check")
			return false
		}
	}
	return false
}

func (f *ClassFilter) wrap(def *pytree.Def) *DefName {
	n := newDefName(f.s, def, f.class.def.Scope(), !f.isInstance)
	n.owner = f.class
	n.generics = f.generics
	return n
}
