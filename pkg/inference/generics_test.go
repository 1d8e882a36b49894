package inference_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pylens/pkg/inference"
)

const genericsFixture = `
T = TypeVar('T')
T_co = TypeVar('T_co')

class Base(Generic[T_co]):
    content: T_co

class Sub(Base[T]):
    extra: T

class Payload:
    pass
`

func typeVarNames(vars []*inference.TypeVar) []string {
	out := make([]string, 0, len(vars))
	for _, tv := range vars {
		out = append(out, tv.Name())
	}
	return out
}

func TestTypeVars_Declared(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, genericsFixture)

	base := classValue(t, s, f, "Base")
	sub := classValue(t, s, f, "Sub")
	payload := classValue(t, s, f, "Payload")

	assert.Equal(t, []string{"T_co"}, typeVarNames(base.TypeVars()))
	assert.Equal(t, []string{"T"}, typeVarNames(sub.TypeVars()))
	assert.Empty(t, payload.TypeVars())

	tv := base.TypeVars()[0]
	assert.Equal(t, inference.KindTypeVar, tv.Kind())
	assert.Equal(t, "typevar T_co", tv.String())
}

func TestTypeVars_DedupAcrossBases(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, `
T = TypeVar('T')

class Left(Generic[T]):
    pass

class Right(Generic[T]):
    pass

class Multi(Left[T], Right[T]):
    pass
`)
	multi := classValue(t, s, f, "Multi")
	assert.Equal(t, []string{"T"}, typeVarNames(multi.TypeVars()))
}

func TestTypeVar_SessionIdentity(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, genericsFixture)

	base := classValue(t, s, f, "Base")
	sub := classValue(t, s, f, "Sub")
	require.Len(t, sub.TypeVars(), 1)

	// The declaration reached through the parameter list and through member
	// inference is one binding, so one pointer.
	vals, err := s.LookupMember(sub, "extra", nil, true)
	require.NoError(t, err)
	got, ok := vals.Single()
	require.True(t, ok)
	assert.Same(t, inference.Value(sub.TypeVars()[0]), got)

	assert.NotSame(t, base.TypeVars()[0], sub.TypeVars()[0])
}

func TestDefineGenerics_NoBindingsIsIdentity(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, genericsFixture)
	sub := classValue(t, s, f, "Sub")

	single, ok := sub.DefineGenerics(nil).Single()
	require.True(t, ok)
	assert.Same(t, inference.Value(sub), single)
}

func TestDefineGenerics_BindsByName(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, genericsFixture)
	sub := classValue(t, s, f, "Sub")
	payload := classValue(t, s, f, "Payload")

	single, ok := sub.DefineGenerics(map[string]inference.ValueSet{
		"T": inference.NewValueSet(payload),
	}).Single()
	require.True(t, ok)
	g, ok := single.(*inference.GenericClass)
	require.True(t, ok)

	require.Equal(t, 1, g.Generics().Len())
	bound, ok := g.Generics().Param(0).Single()
	require.True(t, ok)
	assert.Same(t, inference.Value(payload), bound)
	assert.Equal(t, "class Sub[Payload]", g.String())
}

func TestDefineGenerics_UnknownNameLeavesSlotOpen(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, genericsFixture)
	sub := classValue(t, s, f, "Sub")
	payload := classValue(t, s, f, "Payload")

	single, ok := sub.DefineGenerics(map[string]inference.ValueSet{
		"U": inference.NewValueSet(payload),
	}).Single()
	require.True(t, ok)
	g := single.(*inference.GenericClass)

	assert.True(t, g.Generics().Param(0).IsEmpty())
	assert.Equal(t, "class Sub[?]", g.String())
}

func TestGenericClass_MRORemapsAncestors(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, genericsFixture)
	sub := classValue(t, s, f, "Sub")
	payload := classValue(t, s, f, "Payload")

	single, _ := sub.DefineGenerics(map[string]inference.ValueSet{
		"T": inference.NewValueSet(payload),
	}).Single()
	g := single.(*inference.GenericClass)

	mro := g.MRO()
	assert.Equal(t, []string{"Sub", "Base", "Generic", "object"}, classNames(mro))
	assert.Same(t, inference.Class(g), mro[0])

	anc, ok := mro[1].(*inference.GenericClass)
	require.True(t, ok, "Base[T] must stay specialized in the subclass view")
	bound, ok := anc.Generics().Param(0).Single()
	require.True(t, ok)
	assert.Same(t, inference.Value(payload), bound)
}

func TestGenericSubstitution_OwnTypeVar(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, genericsFixture)
	sub := classValue(t, s, f, "Sub")
	payload := classValue(t, s, f, "Payload")

	single, _ := sub.DefineGenerics(map[string]inference.ValueSet{
		"T": inference.NewValueSet(payload),
	}).Single()
	g := single.(*inference.GenericClass)

	vals, err := s.LookupMember(g, "extra", nil, true)
	require.NoError(t, err)
	got, ok := vals.Single()
	require.True(t, ok)
	assert.Same(t, inference.Value(payload), got)
}

func TestGenericSubstitution_AncestorAlias(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, genericsFixture)
	sub := classValue(t, s, f, "Sub")
	payload := classValue(t, s, f, "Payload")

	single, _ := sub.DefineGenerics(map[string]inference.ValueSet{
		"T": inference.NewValueSet(payload),
	}).Single()
	g := single.(*inference.GenericClass)

	// content is declared on Base against T_co; the binding travels through
	// Sub's T.
	vals, err := s.LookupMember(g, "content", nil, true)
	require.NoError(t, err)
	got, ok := vals.Single()
	require.True(t, ok)
	assert.Same(t, inference.Value(payload), got)
}

func TestSubscript_SpecializedMemberLookup(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, `
T = TypeVar('T')

class Box(Generic[T]):
    item: T

class Payload:
    pass
`)
	box := classValue(t, s, f, "Box")
	payload := classValue(t, s, f, "Payload")
	ctx := s.NewContext(f.ModuleScope())

	single, ok := box.Subscript(inference.NewValueSet(payload), ctx).Single()
	require.True(t, ok)
	g := single.(*inference.GenericClass)

	vals, err := s.LookupMember(g, "item", nil, true)
	require.NoError(t, err)
	got, _ := vals.Single()
	assert.Same(t, inference.Value(payload), got)

	// Instantiating the specialization keeps the binding reachable from the
	// instance.
	inst, ok := g.Call(nil).Single()
	require.True(t, ok)
	member, err := inst.(*inference.Instance).Member("item", nil)
	require.NoError(t, err)
	got, _ = member.Single()
	assert.Same(t, inference.Value(payload), got)
}

func TestUnboundTypeVar_SurfacesAsItself(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, genericsFixture)
	sub := classValue(t, s, f, "Sub")

	// Without bindings the body reference resolves to the type variable.
	vals, err := s.LookupMember(sub, "extra", nil, true)
	require.NoError(t, err)
	single, ok := vals.Single()
	require.True(t, ok)
	assert.Equal(t, inference.KindTypeVar, single.Kind())
	assert.Equal(t, "T", single.Name())
}
