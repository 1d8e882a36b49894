package inference

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/pylens/pkg/pytree"
)

// Limits bounds the recursive walks so pathological or adversarial input
// degrades to a partial result instead of hanging or overflowing.
type Limits struct {
	// MaxMROEntries caps a single linearization and the ancestry depth.
	MaxMROEntries int
	// MaxScopeDepth caps enclosing-scope walks.
	MaxScopeDepth int
	// MaxResolveDepth caps recursive expression resolution.
	MaxResolveDepth int
}

// DefaultLimits returns the bounds used where Config leaves Limits zero.
func DefaultLimits() Limits {
	return Limits{MaxMROEntries: 256, MaxScopeDepth: 64, MaxResolveDepth: 40}
}

// Config configures a Session.
type Config struct {
	// Logger receives debug notes for diagnostics; nil discards them.
	Logger *slog.Logger
	// Limits bounds recursive walks; zero fields take defaults.
	Limits Limits
	// Plugins supplies metaclass-filter overrides; nil means none.
	Plugins *PluginRegistry
}

type op uint8

const (
	opMRO op = iota
	opMetaclasses
)

// opKey identifies one in-flight computation for re-entrancy detection.
type opKey struct {
	op    op
	class Class
}

// defKey identifies a definition site. Definitions are re-read from syntax
// on every body walk, so memoization keys on the site, not the Def object.
type defKey struct {
	file *pytree.File
	pos  pytree.Position
	name string
}

// metaNote dedupes unhandled-metaclass diagnostics per class and metaclass.
type metaNote struct {
	class Class
	meta  Value
}

type caches struct {
	bases    map[*ClassValue][]*LazyValue
	mro      map[Class][]Class
	metas    map[Class]ValueSet
	typeVars map[*ClassValue][]*TypeVar
}

// Session owns all inference state for one analysis run: the memoization
// caches, the builtins stub, and the identity tables that make pointer
// equality mean entity identity. A session is single-threaded and is
// discarded wholesale at the end of the run; Close releases the stub's
// parse tree.
type Session struct {
	logger   *slog.Logger
	limits   Limits
	registry *PluginRegistry

	builtins    *pytree.File
	objectClass *ClassValue
	typeClass   *ClassValue

	classes   map[*pytree.ClassDef]*ClassValue
	functions map[defKey]*FunctionValue
	typeVars  map[defKey]*TypeVar
	natives   map[string]*NativeClass

	cache    caches
	inFlight map[opKey]bool

	diags     []Diagnostic
	degraded  int
	notedMeta map[metaNote]bool

	resolveDepth int
	mroDepth     int
}

// NewSession builds a session and loads the embedded builtins stub, pinning
// the universal root and metaclass.
func NewSession(cfg Config) (*Session, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limits := cfg.Limits
	defaults := DefaultLimits()
	if limits.MaxMROEntries <= 0 {
		limits.MaxMROEntries = defaults.MaxMROEntries
	}
	if limits.MaxScopeDepth <= 0 {
		limits.MaxScopeDepth = defaults.MaxScopeDepth
	}
	if limits.MaxResolveDepth <= 0 {
		limits.MaxResolveDepth = defaults.MaxResolveDepth
	}
	registry := cfg.Plugins
	if registry == nil {
		registry = NewPluginRegistry()
	}
	s := &Session{
		logger:    logger,
		limits:    limits,
		registry:  registry,
		classes:   make(map[*pytree.ClassDef]*ClassValue),
		functions: make(map[defKey]*FunctionValue),
		typeVars:  make(map[defKey]*TypeVar),
		natives:   make(map[string]*NativeClass),
		cache: caches{
			bases:    make(map[*ClassValue][]*LazyValue),
			mro:      make(map[Class][]Class),
			metas:    make(map[Class]ValueSet),
			typeVars: make(map[*ClassValue][]*TypeVar),
		},
		inFlight:  make(map[opKey]bool),
		notedMeta: make(map[metaNote]bool),
	}
	if err := s.loadBuiltins(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the builtins parse tree.
func (s *Session) Close() {
	if s.builtins != nil {
		s.builtins.Close()
		s.builtins = nil
	}
}

// ObjectClass returns the universal root class.
func (s *Session) ObjectClass() *ClassValue { return s.objectClass }

// TypeClass returns the universal metaclass.
func (s *Session) TypeClass() *ClassValue { return s.typeClass }

// Plugins returns the metaclass-filter registry.
func (s *Session) Plugins() *PluginRegistry { return s.registry }

// Diagnostics returns the anomalies recorded so far, in order.
func (s *Session) Diagnostics() []Diagnostic { return s.diags }

// ClassFor returns the session's ClassValue for a class definition, creating
// it on first request. The same definition always yields the same pointer,
// which is what identity-based deduplication relies on.
func (s *Session) ClassFor(def *pytree.ClassDef) *ClassValue {
	if def == nil {
		return nil
	}
	if c, ok := s.classes[def]; ok {
		return c
	}
	c := &ClassValue{s: s, def: def, ctx: s.NewContext(def.EnclosingScope())}
	s.classes[def] = c
	return c
}

// functionFor returns the session's FunctionValue for a function definition.
func (s *Session) functionFor(def *pytree.Def) *FunctionValue {
	fd := def.Func()
	if fd == nil {
		return nil
	}
	key := defKey{file: def.File(), pos: def.Position(), name: def.Name()}
	if fn, ok := s.functions[key]; ok {
		return fn
	}
	fn := &FunctionValue{s: s, fn: fd, decorated: def.Decorated()}
	s.functions[key] = fn
	return fn
}

// typeVarFor returns the TypeVar a call-shaped assignment introduces, or nil
// when the assignment is not of the X = TypeVar("X") form.
func (s *Session) typeVarFor(def *pytree.Def) *TypeVar {
	v := def.Value()
	if v == nil || v.Kind() != pytree.ExprCall {
		return nil
	}
	fn := v.CallFunc()
	if fn == nil || fn.Ident() != "TypeVar" {
		return nil
	}
	key := defKey{file: def.File(), pos: def.Position(), name: def.Name()}
	if tv, ok := s.typeVars[key]; ok {
		return tv
	}
	name := def.Name()
	for _, arg := range v.CallArgs() {
		if arg.Kind == pytree.ArgPositional && arg.Value.Kind() == pytree.ExprString {
			if sv := arg.Value.StringValue(); sv != "" {
				name = sv
			}
			break
		}
	}
	tv := &TypeVar{name: name, pos: def.Position()}
	s.typeVars[key] = tv
	return tv
}

// mroOf linearizes the ancestry of self: depth-first, left-to-right over the
// bases, self first, first occurrence by identity wins. This is not C3, and
// conflicting diamond orders are not detected. Termination on cyclic graphs
// comes from the membership check plus the in-flight guard: a re-entrant
// computation returns the degenerate [self] without caching it.
func (s *Session) mroOf(self Class) []Class {
	if cached, ok := s.cache.mro[self]; ok {
		return cached
	}
	key := opKey{op: opMRO, class: self}
	if s.inFlight[key] {
		return []Class{self}
	}
	s.inFlight[key] = true
	s.mroDepth++
	defer func() {
		delete(s.inFlight, key)
		s.mroDepth--
	}()
	if s.mroDepth > s.limits.MaxMROEntries {
		file, pos := classOrigin(self)
		s.reportLimit(file, pos, "ancestry depth")
		return []Class{self}
	}

	mro := []Class{self}
	seen := map[Class]bool{self: true}
walk:
	for _, lazy := range s.classBases(self) {
		for _, v := range lazy.Infer().Values() {
			base, ok := v.(Class)
			if !ok {
				s.reportBase(lazy, v)
				continue
			}
			for _, anc := range base.MRO() {
				if seen[anc] {
					continue
				}
				if len(mro) >= s.limits.MaxMROEntries {
					file, pos := classOrigin(self)
					s.reportLimit(file, pos, "method resolution order")
					break walk
				}
				seen[anc] = true
				mro = append(mro, anc)
			}
		}
	}
	s.cache.mro[self] = mro
	return mro
}

// classBases returns the lazy base list for any class-capable variant.
func (s *Session) classBases(c Class) []*LazyValue {
	switch v := c.(type) {
	case *GenericClass:
		return v.ClassValue.Bases()
	case *ClassValue:
		return v.Bases()
	case *NativeClass:
		return v.lazyBases()
	}
	return nil
}

// classFilters assembles the ordered filter sequence for attribute lookup on
// a class: metaclass plugin filters, one filter per MRO entry, and, for
// class-level access, the class-object attributes obtained by instantiating
// type.
func (s *Session) classFilters(self Class, origin *pytree.Scope, isInstance bool) []Filter {
	var fs []Filter
	if metas := self.Metaclasses(); !metas.IsEmpty() {
		fs = append(fs, s.metaclassFilters(self, metas, isInstance)...)
	}
	// A specialized self shares its bindings with ancestor filters: slots
	// align positionally with each ancestor's own parameter list, which is
	// how a subclass's T reaches an ancestor that declared it as T_co.
	var mgr *GenericManager
	if g, ok := self.(*GenericClass); ok {
		mgr = g.generics
	}
	for _, anc := range self.MRO() {
		switch a := anc.(type) {
		case *GenericClass:
			fs = append(fs, newClassFilter(s, a.ClassValue, origin, isInstance, a.generics))
		case *ClassValue:
			fs = append(fs, newClassFilter(s, a, origin, isInstance, mgr))
		case *NativeClass:
			fs = append(fs, a.MemberFilter(isInstance))
		}
	}
	if !isInstance {
		fs = append(fs, s.typeInstanceFilters(self, origin)...)
	}
	return fs
}

// typeInstanceFilters splices in the filter exposing class-object attributes
// (the view of a class as an instance of type). The first two filters of
// that instance describe type through itself and are skipped, which is also
// what keeps type from recursing into this path.
func (s *Session) typeInstanceFilters(self Class, origin *pytree.Scope) []Filter {
	typ := s.typeClass
	if typ == nil || Class(typ) == self {
		return nil
	}
	for _, v := range typ.Call(nil).Values() {
		inst, ok := v.(*Instance)
		if !ok {
			continue
		}
		if fs := inst.Filters(origin); len(fs) > 2 {
			return fs[2:3]
		}
	}
	return nil
}

// metaclassFilters consults the plugin registry for each resolved metaclass.
func (s *Session) metaclassFilters(self Class, metas ValueSet, isInstance bool) []Filter {
	return s.registry.filtersFor(s, self, metas, isInstance)
}

// LookupMember resolves an attribute on a class by walking its filters in
// order; the first filter with candidates decides. A clean miss returns
// ErrAbsent; a walk that degraded partway returns the empty set with no
// error, so callers can tell definite absence from uncertainty.
func (s *Session) LookupMember(c Class, ident string, origin *pytree.Scope, isInstance bool) (ValueSet, error) {
	before := s.degraded
	for _, f := range c.Filters(origin, isInstance) {
		names := f.Get(ident)
		if len(names) == 0 {
			continue
		}
		out := NoValues
		for _, n := range names {
			out = out.Union(n.Infer())
		}
		return out, nil
	}
	if s.degraded > before {
		return NoValues, nil
	}
	return NoValues, ErrAbsent
}

// report records a diagnostic. Structural anomalies and tripped limits also
// count as degradation, which LookupMember uses to withhold ErrAbsent.
func (s *Session) report(kind DiagKind, file *pytree.File, pos pytree.Position, format string, args ...any) {
	d := Diagnostic{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
	if file != nil {
		d.Path = file.Path()
	}
	if kind == DiagStructuralAnomaly || kind == DiagLimitExceeded {
		s.degraded++
	}
	s.diags = append(s.diags, d)
	s.logger.Debug("inference diagnostic",
		"kind", kind.String(), "path", d.Path, "pos", d.Pos.String(), "msg", d.Message)
}

func (s *Session) reportLimit(file *pytree.File, pos pytree.Position, what string) {
	s.report(DiagLimitExceeded, file, pos, "%s cut short by configured limit", what)
}

func (s *Session) reportBase(lazy *LazyValue, v Value) {
	if e := lazy.Expr(); e != nil {
		s.report(DiagStructuralAnomaly, e.File(), e.Position(), "base %s is not a class", v.String())
		return
	}
	s.report(DiagStructuralAnomaly, nil, pytree.Position{}, "base %s is not a class", v.String())
}

// classOrigin returns the definition site of a source-backed class.
func classOrigin(c Class) (*pytree.File, pytree.Position) {
	switch v := c.(type) {
	case *GenericClass:
		return v.def.File(), v.def.Position()
	case *ClassValue:
		return v.def.File(), v.def.Position()
	}
	return nil, pytree.Position{}
}
