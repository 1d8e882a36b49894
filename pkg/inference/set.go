package inference

import "strings"

// ValueSet is an immutable, deduplicated collection of Values. Membership is
// by identity and insertion order is preserved, so repeated inference of the
// same expression yields the same sequence.
type ValueSet struct {
	order []Value
	index map[Value]struct{}
}

// NoValues is the empty set, also used as the explicit "no known value"
// marker in generic remapping.
var NoValues = ValueSet{}

// NewValueSet builds a set from the given values, dropping duplicates while
// keeping first-occurrence order.
func NewValueSet(values ...Value) ValueSet {
	if len(values) == 0 {
		return NoValues
	}
	s := ValueSet{
		order: make([]Value, 0, len(values)),
		index: make(map[Value]struct{}, len(values)),
	}
	for _, v := range values {
		if v == nil {
			continue
		}
		if _, dup := s.index[v]; dup {
			continue
		}
		s.index[v] = struct{}{}
		s.order = append(s.order, v)
	}
	return s
}

// Len returns the number of distinct values.
func (s ValueSet) Len() int { return len(s.order) }

// IsEmpty reports whether the set has no values.
func (s ValueSet) IsEmpty() bool { return len(s.order) == 0 }

// Has reports identity membership.
func (s ValueSet) Has(v Value) bool {
	_, ok := s.index[v]
	return ok
}

// Values returns the members in insertion order. The slice is shared; callers
// must not mutate it.
func (s ValueSet) Values() []Value { return s.order }

// Single returns the sole member, if the set has exactly one.
func (s ValueSet) Single() (Value, bool) {
	if len(s.order) == 1 {
		return s.order[0], true
	}
	return nil, false
}

// Union combines two sets, keeping this set's members first.
func (s ValueSet) Union(o ValueSet) ValueSet {
	if o.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return o
	}
	merged := make([]Value, 0, len(s.order)+len(o.order))
	merged = append(merged, s.order...)
	merged = append(merged, o.order...)
	return NewValueSet(merged...)
}

// Filter returns the members satisfying pred. Filtering never grows the set.
func (s ValueSet) Filter(pred func(Value) bool) ValueSet {
	var kept []Value
	for _, v := range s.order {
		if pred(v) {
			kept = append(kept, v)
		}
	}
	return NewValueSet(kept...)
}

// Classes returns the class-capable members.
func (s ValueSet) Classes() []Class {
	var out []Class
	for _, v := range s.order {
		if c, ok := v.(Class); ok {
			out = append(out, c)
		}
	}
	return out
}

// String renders the set as {a, b, c} for diagnostics.
func (s ValueSet) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range s.order {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteByte('}')
	return b.String()
}
