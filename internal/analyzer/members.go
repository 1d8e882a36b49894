package analyzer

import (
	"strings"

	"github.com/leapstack-labs/pylens/pkg/inference"
	"github.com/leapstack-labs/pylens/pkg/pytree"
	"github.com/leapstack-labs/pylens/pkg/report"
)

const builtinsStubPath = "builtins.pyi"

// CollectMembers enumerates the attributes visible on a class or on its
// instances, walking the lookup filters in resolution order. Earlier
// definitions shadow later ones, so an override appears once with the
// class that defines it.
func CollectMembers(cv *inference.ClassValue, instanceView bool, origin *pytree.Scope) []report.Member {
	var members []report.Member
	seen := make(map[string]bool)
	for _, f := range memberFilters(cv, instanceView, origin) {
		owner, fromStub := filterOrigin(f)
		for _, name := range f.Names() {
			ident := name.Ident()
			if seen[ident] {
				continue
			}
			seen[ident] = true
			// Stub dunders would drown out the project's own members.
			if fromStub && strings.HasPrefix(ident, "__") {
				continue
			}
			members = append(members, newMember(name, owner))
		}
	}
	return members
}

func memberFilters(cv *inference.ClassValue, instanceView bool, origin *pytree.Scope) []inference.Filter {
	if !instanceView {
		return cv.Filters(origin, false)
	}
	for _, v := range cv.Call(nil).Values() {
		if inst, ok := v.(*inference.Instance); ok {
			return inst.Filters(origin)
		}
	}
	return cv.Filters(origin, true)
}

// filterOrigin reports which class a filter reads from and whether that
// class comes from the bundled builtins stub.
func filterOrigin(f inference.Filter) (string, bool) {
	switch f := f.(type) {
	case interface{ Class() *inference.ClassValue }:
		owner := f.Class()
		return owner.QualName(), owner.Def().File().Path() == builtinsStubPath
	case interface{ Class() *inference.NativeClass }:
		return f.Class().QualName(), true
	case *inference.StaticFilter:
		return f.Source(), false
	}
	return "", false
}

func newMember(name inference.Name, owner string) report.Member {
	m := report.Member{Name: name.Ident(), Kind: "synthesized", Origin: owner}
	if dn, ok := name.(*inference.DefName); ok {
		m.Kind = dn.Def().Kind().String()
		m.Line = dn.Position().Line
	}
	return m
}
