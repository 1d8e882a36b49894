package pytree

import sitter "github.com/smacker/go-tree-sitter"

// DefKind classifies a binding site.
type DefKind int

const (
	DefAssign DefKind = iota
	DefFunction
	DefClass
	DefParam
)

func (k DefKind) String() string {
	switch k {
	case DefAssign:
		return "assignment"
	case DefFunction:
		return "function"
	case DefClass:
		return "class"
	case DefParam:
		return "parameter"
	}
	return "unknown"
}

// Def is a single name binding: an assignment target, a function or class
// definition, or a parameter.
type Def struct {
	file      *File
	node      *sitter.Node
	kind      DefKind
	name      string
	ann       *sitter.Node
	value     *sitter.Node
	fn        *FuncDef
	class     *ClassDef
	decorated bool
}

// Name returns the bound identifier.
func (d *Def) Name() string { return d.name }

// Kind returns the binding kind.
func (d *Def) Kind() DefKind { return d.kind }

// Position returns the binding site's position.
func (d *Def) Position() Position { return d.file.position(d.node) }

// File returns the file the definition belongs to.
func (d *Def) File() *File { return d.file }

// Decorated reports whether the definition sits under a decorator.
func (d *Def) Decorated() bool { return d.decorated }

// Annotation returns the type annotation expression, or nil.
func (d *Def) Annotation() *Expr {
	if d.ann == nil {
		return nil
	}
	return &Expr{file: d.file, node: d.ann}
}

// AnnotationText returns the annotation's literal source text, or "".
func (d *Def) AnnotationText() string {
	return d.file.text(d.ann)
}

// Value returns the assigned expression, or nil (bare annotations,
// function and class definitions have none).
func (d *Def) Value() *Expr {
	if d.value == nil {
		return nil
	}
	return &Expr{file: d.file, node: d.value}
}

// Func returns the function definition for DefFunction bindings, or nil.
func (d *Def) Func() *FuncDef { return d.fn }

// Class returns the class definition for DefClass bindings, or nil.
func (d *Def) Class() *ClassDef { return d.class }
