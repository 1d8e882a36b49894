package analyzer

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/pylens/pkg/inference"
	"github.com/leapstack-labs/pylens/pkg/pytree"
	"github.com/leapstack-labs/pylens/pkg/report"
)

// InspectOptions select the attribute view Inspect renders.
type InspectOptions struct {
	// InstanceView lists the attributes of an instance instead of the class.
	InstanceView bool
	// Origin is the qualified name of the class whose scope attribute
	// lookups originate from; empty means an external caller.
	Origin string
}

// Inspect analyzes the source tree and renders a single class with the
// requested attribute view. Classes are matched by qualified name; when
// several modules define the same name, the first in path order wins.
func (a *Analyzer) Inspect(ctx context.Context, qualName string, opts InspectOptions) (*report.Class, error) {
	paths, err := discoverSources(a.cfg.SourceDir, a.cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("source discovery failed: %w", err)
	}

	modules, err := a.parseAll(ctx, paths)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, m := range modules {
			if m.file != nil {
				m.file.Close()
			}
		}
	}()

	session, err := inference.NewSession(inference.Config{
		Logger:  a.log,
		Limits:  a.cfg.Limits,
		Plugins: a.cfg.Plugins,
	})
	if err != nil {
		return nil, fmt.Errorf("inference session failed: %w", err)
	}
	defer session.Close()

	var def *pytree.ClassDef
	var modPath string
	var origin *pytree.Scope

	for _, m := range modules {
		if m.err != nil {
			continue
		}
		if def == nil {
			if d := m.file.ClassByName(qualName); d != nil {
				def = d
				modPath = m.relPath
			}
		}
		if opts.Origin != "" && origin == nil {
			if d := m.file.ClassByName(opts.Origin); d != nil {
				origin = d.Scope()
			}
		}
	}
	if def == nil {
		return nil, fmt.Errorf("class not found: %s", qualName)
	}
	if opts.Origin != "" && origin == nil {
		return nil, fmt.Errorf("origin class not found: %s", opts.Origin)
	}

	cls := a.buildClass(session, modPath, def)
	cls.Members = CollectMembers(session.ClassFor(def), opts.InstanceView, origin)
	return &cls, nil
}
