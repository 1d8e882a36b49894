package inference

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/leapstack-labs/pylens/pkg/pytree"
)

// builtinsStub is a minimal source rendition of the builtin classes. Having
// object and type defined in source keeps the universal root and metaclass
// on the same filter machinery as user classes.
//
//go:embed builtins.pyi
var builtinsStub []byte

// loadBuiltins parses the embedded stub and pins the universal root and
// metaclass.
func (s *Session) loadBuiltins() error {
	f, err := pytree.Parse(context.Background(), "builtins.pyi", builtinsStub)
	if err != nil {
		return fmt.Errorf("load builtins stub: %w", err)
	}
	obj := f.ClassByName("object")
	typ := f.ClassByName("type")
	if obj == nil || typ == nil {
		f.Close()
		return fmt.Errorf("builtins stub lacks object or type")
	}
	s.builtins = f
	s.objectClass = s.ClassFor(obj)
	s.typeClass = s.ClassFor(typ)
	return nil
}

// builtinClass resolves a name against the stub module first, then the
// native catalog.
func (s *Session) builtinClass(name string) ValueSet {
	if s.builtins != nil {
		if def := s.builtins.ClassByName(name); def != nil {
			return NewValueSet(s.ClassFor(def))
		}
	}
	if nc := s.nativeFor(name); nc != nil {
		return NewValueSet(nc)
	}
	return NoValues
}

// nativeFor returns the session's NativeClass for a catalog entry, creating
// it on first request.
func (s *Session) nativeFor(name string) *NativeClass {
	if nc, ok := s.natives[name]; ok {
		return nc
	}
	entry, ok := nativeCatalog[name]
	if !ok {
		return nil
	}
	nc := &NativeClass{s: s, name: name, bases: entry.Bases, members: entry.Members}
	s.natives[name] = nc
	return nc
}
