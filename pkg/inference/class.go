package inference

import "github.com/leapstack-labs/pylens/pkg/pytree"

// ClassValue models one source-defined class. Identity is the definition
// site: the session hands out one ClassValue per class definition, so
// pointer equality is class identity. All derived facts (bases, MRO,
// metaclasses, type variables) are computed lazily and memoized in the
// session; a ClassValue is never mutated after a fact is first computed.
type ClassValue struct {
	s   *Session
	def *pytree.ClassDef
	ctx *Context
}

// Kind returns KindClass.
func (c *ClassValue) Kind() Kind { return KindClass }

// Name returns the class's simple name.
func (c *ClassValue) Name() string { return c.def.Name() }

// QualName returns the dotted qualified name within its module.
func (c *ClassValue) QualName() string { return c.def.QualName() }

// String returns the display form.
func (c *ClassValue) String() string { return "class " + c.def.QualName() }

// Def returns the backing class definition.
func (c *ClassValue) Def() *pytree.ClassDef { return c.def }

// Position returns the definition site.
func (c *ClassValue) Position() pytree.Position { return c.def.Position() }

// Bases returns the declared bases as lazy values, in declaration order.
// Keyword arguments are routed to metaclass resolution and starred arguments
// are unsupported; neither contributes a base. A class with no declared
// bases inherits from object, unless it is object itself.
func (c *ClassValue) Bases() []*LazyValue {
	if cached, ok := c.s.cache.bases[c]; ok {
		return cached
	}
	var out []*LazyValue
	for _, arg := range c.def.Arguments() {
		if arg.Kind == pytree.ArgPositional {
			out = append(out, NewLazyValue(c.ctx, arg.Value))
		}
	}
	if len(out) == 0 && c.s.objectClass != nil && c != c.s.objectClass {
		out = append(out, KnownLazyValue(NewValueSet(c.s.objectClass)))
	}
	c.s.cache.bases[c] = out
	return out
}

// MRO returns the linearized ancestor order, self first.
func (c *ClassValue) MRO() []Class { return c.s.mroOf(c) }

// Call instantiates the class. The constructor body is never evaluated
// eagerly; the instance just remembers its arguments.
func (c *ClassValue) Call(args *Arguments) ValueSet {
	return NewValueSet(newInstance(c.s, c, args))
}

// ClassOf returns {type}: the class of every class is the universal
// metaclass, independent of any declared metaclass.
func (c *ClassValue) ClassOf() ValueSet {
	if c.s.typeClass == nil {
		return NoValues
	}
	return NewValueSet(c.s.typeClass)
}

// Filters returns the ordered member filters for attribute lookup on this
// class: metaclass plugin filters first, then one filter per MRO entry, and
// for class-level access the class-object attributes of type itself.
func (c *ClassValue) Filters(origin *pytree.Scope, isInstance bool) []Filter {
	return c.s.classFilters(c, origin, isInstance)
}

// Metaclasses resolves the classes controlling construction: the explicit
// metaclass keyword if it resolves to classes, otherwise the first base
// carrying a non-empty metaclass set, resolved transitively.
func (c *ClassValue) Metaclasses() ValueSet {
	if cached, ok := c.s.cache.metas[c]; ok {
		return cached
	}
	key := opKey{op: opMetaclasses, class: c}
	if c.s.inFlight[key] {
		// Cyclic bases; the outer walk finishes on its own.
		return NoValues
	}
	c.s.inFlight[key] = true
	defer delete(c.s.inFlight, key)

	if kw := c.metaclassArg(); kw != nil {
		if vals := c.ctx.Resolve(kw).Filter(IsClass); !vals.IsEmpty() {
			c.s.cache.metas[c] = vals
			return vals
		}
	}
	for _, lazy := range c.Bases() {
		for _, v := range lazy.Infer().Values() {
			base, ok := v.(Class)
			if !ok {
				continue
			}
			if metas := base.Metaclasses(); !metas.IsEmpty() {
				c.s.cache.metas[c] = metas
				return metas
			}
		}
	}
	c.s.cache.metas[c] = NoValues
	return NoValues
}

// metaclassArg returns the metaclass keyword expression, if declared.
func (c *ClassValue) metaclassArg() *pytree.Expr {
	for _, arg := range c.def.Arguments() {
		if arg.Kind == pytree.ArgKeyword && arg.Keyword == "metaclass" {
			return arg.Value
		}
	}
	return nil
}

// MetaclassFilters returns the plugin-contributed filters for the resolved
// metaclasses. Without a matching plugin nothing is contributed and a
// diagnostic records the unhandled metaclass.
func (c *ClassValue) MetaclassFilters(metas ValueSet, isInstance bool) []Filter {
	return c.s.metaclassFilters(c, metas, isInstance)
}

// TypeVars returns the type variables referenced in the base-argument list,
// in first-appearance order, deduplicated by name.
func (c *ClassValue) TypeVars() []*TypeVar {
	if cached, ok := c.s.cache.typeVars[c]; ok {
		return cached
	}
	var out []*TypeVar
	seen := make(map[string]bool)
	for _, arg := range c.def.Arguments() {
		if arg.Kind == pytree.ArgStar || arg.Kind == pytree.ArgDoubleStar {
			continue
		}
		for _, ref := range typeVarRefs(arg.Value) {
			for _, v := range c.ctx.Resolve(ref).Values() {
				tv, ok := v.(*TypeVar)
				if !ok || seen[tv.Name()] {
					continue
				}
				seen[tv.Name()] = true
				out = append(out, tv)
			}
		}
	}
	c.s.cache.typeVars[c] = out
	return out
}

// Subscript specializes the class, one variant per index value, each bound
// to that single index. An empty index set means the subscription could not
// be inferred and the class itself is the best answer.
func (c *ClassValue) Subscript(indices ValueSet, ctx *Context) ValueSet {
	if indices.IsEmpty() {
		return NewValueSet(c)
	}
	var out []Value
	for _, idx := range indices.Values() {
		out = append(out, newGenericClass(c, NewGenericManager(NewValueSet(idx))))
	}
	return NewValueSet(out...)
}

// DefineGenerics builds a specialized variant from a name-to-values mapping.
// Ancestors may declare differently named type variables than the subclass
// that binds them; remapping is by name, with the empty set standing in for
// anything unbound. An empty mapping leaves the class unspecialized.
func (c *ClassValue) DefineGenerics(bindings map[string]ValueSet) ValueSet {
	if len(bindings) == 0 {
		return NewValueSet(c)
	}
	tvs := c.TypeVars()
	params := make([]ValueSet, 0, len(tvs))
	for _, tv := range tvs {
		bound, ok := bindings[tv.Name()]
		if !ok {
			bound = NoValues
		}
		params = append(params, bound)
	}
	return NewValueSet(newGenericClass(c, NewGenericManager(params...)))
}

// ParamNames returns the constructor's parameter names, excluding the
// implicit receiver. Classes without a function-shaped __init__ have none.
func (c *ClassValue) ParamNames() []string {
	for _, v := range c.memberValues("__init__") {
		fn, ok := v.(*FunctionValue)
		if !ok {
			continue
		}
		params := fn.Params()
		if len(params) == 0 {
			return nil
		}
		names := make([]string, 0, len(params)-1)
		for _, p := range params[1:] {
			names = append(names, p.Name)
		}
		return names
	}
	return nil
}

// Signatures derives the call signatures by binding __init__ to the class as
// the implicit receiver.
func (c *ClassValue) Signatures() []*Signature {
	var out []*Signature
	for _, v := range c.memberValues("__init__") {
		if fn, ok := v.(*FunctionValue); ok {
			out = append(out, fn.BindTo(c))
		}
	}
	return out
}

func (c *ClassValue) memberValues(ident string) []Value {
	set, err := c.s.LookupMember(c, ident, nil, false)
	if err != nil {
		return nil
	}
	return set.Values()
}
