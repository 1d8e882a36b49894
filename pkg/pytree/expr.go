package pytree

import sitter "github.com/smacker/go-tree-sitter"

// ExprKind classifies the expression forms the resolver distinguishes.
// Everything else is ExprUnknown and resolves to nothing.
type ExprKind int

const (
	ExprUnknown ExprKind = iota
	ExprIdent
	ExprAttribute
	ExprSubscript
	ExprCall
	ExprString
	ExprInteger
	ExprFloat
	ExprBool
	ExprNone
	ExprTuple
	ExprList
)

// Expr is a reference to an expression node in a parsed file.
type Expr struct {
	file *File
	node *sitter.Node
}

// Kind returns the expression's form. Parenthesized expressions report
// the form of their inner expression.
func (e *Expr) Kind() ExprKind {
	switch e.unwrap().Type() {
	case "identifier":
		return ExprIdent
	case "attribute":
		return ExprAttribute
	case "subscript":
		return ExprSubscript
	case "call":
		return ExprCall
	case "string", "concatenated_string":
		return ExprString
	case "integer":
		return ExprInteger
	case "float":
		return ExprFloat
	case "true", "false":
		return ExprBool
	case "none":
		return ExprNone
	case "tuple", "expression_list":
		return ExprTuple
	case "list":
		return ExprList
	}
	return ExprUnknown
}

func (e *Expr) unwrap() *sitter.Node {
	n := e.node
	for n.Type() == "parenthesized_expression" {
		inner := firstNamedChild(n)
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

func firstNamedChild(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.IsNamed() {
			return c
		}
	}
	return nil
}

// Text returns the expression's literal source text.
func (e *Expr) Text() string { return e.file.text(e.node) }

// Position returns the expression's start position.
func (e *Expr) Position() Position { return e.file.position(e.node) }

// File returns the file the expression belongs to.
func (e *Expr) File() *File { return e.file }

// Scope returns the scope enclosing this expression.
func (e *Expr) Scope() *Scope {
	for n := e.node.Parent(); n != nil; n = n.Parent() {
		if scopeOwner(n) {
			return &Scope{file: e.file, node: n}
		}
	}
	return e.file.ModuleScope()
}

// Ident returns the identifier text for ExprIdent, or "".
func (e *Expr) Ident() string {
	n := e.unwrap()
	if n.Type() != "identifier" {
		return ""
	}
	return e.file.text(n)
}

// AttrBase returns the object part of an attribute access, or nil.
func (e *Expr) AttrBase() *Expr {
	n := e.unwrap()
	obj := n.ChildByFieldName("object")
	if n.Type() != "attribute" || obj == nil {
		return nil
	}
	return &Expr{file: e.file, node: obj}
}

// AttrName returns the attribute name of an attribute access, or "".
func (e *Expr) AttrName() string {
	n := e.unwrap()
	if n.Type() != "attribute" {
		return ""
	}
	return e.file.text(n.ChildByFieldName("attribute"))
}

// CallFunc returns the called expression of a call, or nil.
func (e *Expr) CallFunc() *Expr {
	n := e.unwrap()
	fn := n.ChildByFieldName("function")
	if n.Type() != "call" || fn == nil {
		return nil
	}
	return &Expr{file: e.file, node: fn}
}

// CallArgs returns a call's arguments.
func (e *Expr) CallArgs() []Argument {
	n := e.unwrap()
	args := n.ChildByFieldName("arguments")
	if n.Type() != "call" || args == nil || args.Type() != "argument_list" {
		return nil
	}
	return parseArguments(e.file, args)
}

// SubscriptBase returns the subscripted expression, or nil.
func (e *Expr) SubscriptBase() *Expr {
	n := e.unwrap()
	v := n.ChildByFieldName("value")
	if n.Type() != "subscript" || v == nil {
		return nil
	}
	return &Expr{file: e.file, node: v}
}

// SubscriptIndices returns the index expressions between the brackets,
// in order. A[k] yields one, A[k, v] yields two.
func (e *Expr) SubscriptIndices() []*Expr {
	n := e.unwrap()
	if n.Type() != "subscript" {
		return nil
	}
	var out []*Expr
	open := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch {
		case c.Type() == "[":
			open = true
		case c.Type() == "]":
			open = false
		case open && c.IsNamed():
			out = append(out, &Expr{file: e.file, node: c})
		}
	}
	return out
}

// TupleElems returns the elements of a tuple or expression list.
func (e *Expr) TupleElems() []*Expr {
	n := e.unwrap()
	switch n.Type() {
	case "tuple", "expression_list", "list":
	default:
		return nil
	}
	var out []*Expr
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.IsNamed() {
			out = append(out, &Expr{file: e.file, node: c})
		}
	}
	return out
}

// StringValue returns the unquoted content of a string literal, best effort.
func (e *Expr) StringValue() string {
	n := e.unwrap()
	if n.Type() != "string" {
		return ""
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == "string_content" {
			return e.file.text(c)
		}
	}
	return ""
}
