package inference_test

import (
	"testing"

	"github.com/leapstack-labs/pylens/pkg/inference"
)

// fakeValue is a minimal pointer-identity Value for set semantics tests.
type fakeValue struct{ name string }

func (f *fakeValue) Kind() inference.Kind { return inference.KindInstance }
func (f *fakeValue) Name() string         { return f.name }
func (f *fakeValue) String() string       { return f.name }

func TestNewValueSet_DedupKeepsFirstOrder(t *testing.T) {
	a := &fakeValue{name: "a"}
	b := &fakeValue{name: "b"}

	s := inference.NewValueSet(a, b, a, nil, b)
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	if got := s.Values(); got[0] != inference.Value(a) || got[1] != inference.Value(b) {
		t.Fatalf("order = [%s %s], want [a b]", got[0], got[1])
	}
	if !s.Has(a) || !s.Has(b) {
		t.Fatal("membership lost after dedup")
	}
	if s.Has(&fakeValue{name: "a"}) {
		t.Fatal("membership must be by identity, not by name")
	}
}

func TestValueSet_Empty(t *testing.T) {
	if !inference.NoValues.IsEmpty() || inference.NoValues.Len() != 0 {
		t.Fatal("NoValues must be empty")
	}
	if s := inference.NewValueSet(); !s.IsEmpty() {
		t.Fatal("NewValueSet() must be empty")
	}
	if got := inference.NoValues.String(); got != "{}" {
		t.Fatalf("String = %q, want {}", got)
	}
}

func TestValueSet_Single(t *testing.T) {
	a := &fakeValue{name: "a"}
	b := &fakeValue{name: "b"}

	if _, ok := inference.NoValues.Single(); ok {
		t.Fatal("empty set reported a single value")
	}
	if v, ok := inference.NewValueSet(a).Single(); !ok || v != inference.Value(a) {
		t.Fatal("one-element set must yield its element")
	}
	if _, ok := inference.NewValueSet(a, b).Single(); ok {
		t.Fatal("two-element set reported a single value")
	}
}

func TestValueSet_Union(t *testing.T) {
	a := &fakeValue{name: "a"}
	b := &fakeValue{name: "b"}
	c := &fakeValue{name: "c"}

	left := inference.NewValueSet(a, b)
	right := inference.NewValueSet(b, c)
	merged := left.Union(right)

	if merged.Len() != 3 {
		t.Fatalf("Len = %d, want 3", merged.Len())
	}
	got := merged.Values()
	if got[0] != inference.Value(a) || got[1] != inference.Value(b) || got[2] != inference.Value(c) {
		t.Fatalf("order = %v, want left members first", got)
	}
	// Union allocates; the operands stay as they were.
	if left.Len() != 2 || right.Len() != 2 {
		t.Fatal("union mutated an operand")
	}
}

func TestValueSet_UnionWithEmpty(t *testing.T) {
	a := &fakeValue{name: "a"}
	s := inference.NewValueSet(a)

	if got := s.Union(inference.NoValues); got.Len() != 1 {
		t.Fatalf("union with empty right: Len = %d, want 1", got.Len())
	}
	if got := inference.NoValues.Union(s); got.Len() != 1 {
		t.Fatalf("union with empty left: Len = %d, want 1", got.Len())
	}
}

func TestValueSet_Filter(t *testing.T) {
	a := &fakeValue{name: "a"}
	b := &fakeValue{name: "keep"}

	kept := inference.NewValueSet(a, b).Filter(func(v inference.Value) bool {
		return v.Name() == "keep"
	})
	if kept.Len() != 1 || !kept.Has(b) {
		t.Fatalf("Filter kept %v, want just b", kept.Values())
	}
}

func TestValueSet_String(t *testing.T) {
	a := &fakeValue{name: "a"}
	b := &fakeValue{name: "b"}
	if got := inference.NewValueSet(a, b).String(); got != "{a, b}" {
		t.Fatalf("String = %q, want {a, b}", got)
	}
}

func TestValueSet_ClassesSkipsNonClasses(t *testing.T) {
	a := &fakeValue{name: "a"}
	if got := inference.NewValueSet(a).Classes(); len(got) != 0 {
		t.Fatalf("Classes = %v, want none for plain values", got)
	}
}

func TestKnownLazyValue_Replays(t *testing.T) {
	a := &fakeValue{name: "a"}
	l := inference.KnownLazyValue(inference.NewValueSet(a))

	if l.Expr() != nil {
		t.Fatal("known results carry no expression")
	}
	first := l.Infer()
	second := l.Infer()
	if first.Len() != 1 || second.Len() != 1 || !second.Has(a) {
		t.Fatal("known lazy value must replay its set")
	}
}
