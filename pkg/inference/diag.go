package inference

import (
	"fmt"

	"github.com/leapstack-labs/pylens/pkg/pytree"
)

// DiagKind classifies a recoverable anomaly observed during inference.
type DiagKind int

const (
	// DiagStructuralAnomaly marks a declared base that did not resolve to a
	// class-capable value and was skipped.
	DiagStructuralAnomaly DiagKind = iota
	// DiagUnhandledMetaclass marks a metaclass no plugin provided filters for.
	DiagUnhandledMetaclass
	// DiagLimitExceeded marks a walk cut short by a configured limit.
	DiagLimitExceeded
)

// String returns the report label for the kind.
func (k DiagKind) String() string {
	switch k {
	case DiagStructuralAnomaly:
		return "structural-anomaly"
	case DiagUnhandledMetaclass:
		return "unhandled-metaclass"
	case DiagLimitExceeded:
		return "limit-exceeded"
	default:
		return "unknown"
	}
}

// Diagnostic records one recoverable anomaly. Inference never aborts on
// semantically inconsistent input; it degrades and leaves a Diagnostic.
type Diagnostic struct {
	Kind    DiagKind
	Path    string
	Pos     pytree.Position
	Message string
}

// String formats the diagnostic as path:line:col: kind: message.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s:%s: %s: %s", d.Path, d.Pos, d.Kind, d.Message)
}
