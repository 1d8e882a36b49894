package inference_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pylens/pkg/inference"
)

func TestBuiltinStub_StrInstanceMembers(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, "text = 'abc'\n")

	single, ok := resolveBinding(t, s, f, "text").Single()
	require.True(t, ok)
	inst, ok := single.(*inference.Instance)
	require.True(t, ok)

	vals, err := inst.Member("upper", nil)
	require.NoError(t, err)
	method, ok := vals.Single()
	require.True(t, ok)
	_, ok = method.(*inference.BoundMethod)
	assert.True(t, ok, "stub methods bind like source methods")

	_, err = inst.Member("nonexistent", nil)
	assert.ErrorIs(t, err, inference.ErrAbsent)
}

func TestBuiltinStub_ExceptionHierarchy(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, "e = ValueError\n")

	single, ok := resolveBinding(t, s, f, "e").Single()
	require.True(t, ok)
	cls, ok := single.(inference.Class)
	require.True(t, ok)

	assert.Equal(t,
		[]string{"ValueError", "Exception", "BaseException", "object"},
		classNames(cls.MRO()))
}

func TestNativeCatalog_MembersAndAncestry(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, "stop = StopIteration\n")

	single, ok := resolveBinding(t, s, f, "stop").Single()
	require.True(t, ok)
	native, ok := single.(*inference.NativeClass)
	require.True(t, ok)

	assert.Equal(t, "StopIteration", native.QualName())
	assert.Contains(t, native.Members(), "value")
	assert.Equal(t,
		[]string{"StopIteration", "Exception", "BaseException", "object"},
		classNames(native.MRO()))

	// Catalog members carry no inferable value, only their existence.
	vals, err := s.LookupMember(native, "value", nil, true)
	require.NoError(t, err)
	assert.True(t, vals.IsEmpty())

	_, err = s.LookupMember(native, "missing", nil, true)
	assert.ErrorIs(t, err, inference.ErrAbsent)
}

func TestNativeCatalog_SameNameSamePointer(t *testing.T) {
	s := newSession(t)
	f := parseFile(t, "a = range\nb = range\n")

	av, ok := resolveBinding(t, s, f, "a").Single()
	require.True(t, ok)
	bv, ok := resolveBinding(t, s, f, "b").Single()
	require.True(t, ok)
	assert.Same(t, av, bv)
}
