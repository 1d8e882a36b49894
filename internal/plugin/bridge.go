package plugin

import (
	"fmt"
	"log/slog"
	"sort"

	"go.starlark.net/starlark"

	"github.com/leapstack-labs/pylens/pkg/inference"
)

// Override adapts one Starlark function to a metaclass filter.
type Override struct {
	// Metaclass is the exact metaclass name this override serves.
	Metaclass string
	// Function is the exported Starlark function name.
	Function string
	// Namespace is the plugin file the function came from.
	Namespace string

	fn   starlark.Callable
	pool *threadPool
	log  *slog.Logger
}

func (l *Loader) newOverride(meta, fnName, namespace string, fn starlark.Callable) *Override {
	return &Override{
		Metaclass: meta,
		Function:  fnName,
		Namespace: namespace,
		fn:        fn,
		pool:      l.pool,
		log:       l.log,
	}
}

// Overrides returns the loaded overrides sorted by metaclass name.
func (s *Set) Overrides() []*Override {
	out := make([]*Override, 0, len(s.overrides))
	for _, ov := range s.overrides {
		out = append(out, ov)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metaclass < out[j].Metaclass })
	return out
}

// Install registers every override on the registry.
func (s *Set) Install(reg *inference.PluginRegistry) {
	for _, ov := range s.Overrides() {
		reg.Register(ov.Metaclass, ov.filterFunc())
	}
}

// filterFunc bridges the override into the inference registry. A failed
// or non-list call contributes no filters; absence stays certain.
func (o *Override) filterFunc() inference.MetaclassFilterFunc {
	return func(_ *inference.Session, class inference.Class, metas inference.ValueSet, _ bool) []inference.Filter {
		names, err := o.invoke(class.Name(), metaclassNames(metas))
		if err != nil {
			o.log.Warn("metaclass override failed",
				"plugin", o.Namespace, "function", o.Function, "class", class.Name(), "error", err)
			return nil
		}
		if len(names) == 0 {
			return nil
		}
		return []inference.Filter{inference.NewStaticFilter("plugin:"+o.Namespace, names...)}
	}
}

// invoke calls the override with (class_name, metaclass_names).
func (o *Override) invoke(className string, metaNames []string) ([]string, error) {
	thread := o.pool.get("plugin:" + o.Namespace)
	defer o.pool.put(thread)

	metas := make([]starlark.Value, len(metaNames))
	for i, name := range metaNames {
		metas[i] = starlark.String(name)
	}
	args := starlark.Tuple{starlark.String(className), starlark.NewList(metas)}

	result, err := starlark.Call(thread, o.fn, args, nil)
	if err != nil {
		return nil, err
	}
	return memberNames(result)
}

// memberNames converts an override result into member names.
func memberNames(v starlark.Value) ([]string, error) {
	if v == starlark.None {
		return nil, nil
	}

	it := starlark.Iterate(v)
	if it == nil {
		return nil, fmt.Errorf("override must return a list of member names, got %s", v.Type())
	}
	defer it.Done()

	var out []string
	var item starlark.Value
	for it.Next(&item) {
		s, ok := starlark.AsString(item)
		if !ok {
			return nil, fmt.Errorf("member name must be a string, got %s", item.Type())
		}
		out = append(out, s)
	}
	return out, nil
}

func metaclassNames(metas inference.ValueSet) []string {
	values := metas.Values()
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.Name())
	}
	return out
}
