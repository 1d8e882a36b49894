package pytree

import sitter "github.com/smacker/go-tree-sitter"

// Scope is a binding scope: the module, a class body, or a function body.
type Scope struct {
	file *File
	node *sitter.Node
}

// scopeOwner reports whether a node opens a scope.
func scopeOwner(n *sitter.Node) bool {
	switch n.Type() {
	case "module", "class_definition", "function_definition":
		return true
	}
	return false
}

// IsModule reports whether this is the file's top-level scope.
func (s *Scope) IsModule() bool { return s.node.Type() == "module" }

// IsClass reports whether this scope is a class body.
func (s *Scope) IsClass() bool { return s.node.Type() == "class_definition" }

// IsFunction reports whether this scope is a function body.
func (s *Scope) IsFunction() bool { return s.node.Type() == "function_definition" }

// File returns the owning file.
func (s *Scope) File() *File { return s.file }

// Position returns the scope's start position.
func (s *Scope) Position() Position { return s.file.position(s.node) }

// Parent returns the enclosing scope, or nil for the module scope.
func (s *Scope) Parent() *Scope {
	for n := s.node.Parent(); n != nil; n = n.Parent() {
		if scopeOwner(n) {
			return &Scope{file: s.file, node: n}
		}
	}
	return nil
}

// Same reports whether two scopes denote the same syntactic scope.
// Node handles are not canonical, so identity is byte-range based.
func (s *Scope) Same(o *Scope) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.file == o.file &&
		s.node.StartByte() == o.node.StartByte() &&
		s.node.Type() == o.node.Type()
}

// ClassDef returns the class this scope belongs to, or nil if it is not
// a class scope.
func (s *Scope) ClassDef() *ClassDef {
	if !s.IsClass() {
		return nil
	}
	return s.file.classAt(s.node)
}

// Definitions returns the names bound directly in this scope, in source
// order. Bindings inside nested conditional or loop blocks are included
// (flow-insensitively); bindings inside nested classes or functions are not.
func (s *Scope) Definitions() []*Def {
	body := s.node
	if !s.IsModule() {
		body = childOfType(s.node, "block")
		if body == nil {
			return nil
		}
	}
	return collectDefs(s.file, body, false)
}

// Lookup returns the definitions of name bound directly in this scope.
func (s *Scope) Lookup(name string) []*Def {
	var out []*Def
	for _, d := range s.Definitions() {
		if d.name == name {
			out = append(out, d)
		}
	}
	return out
}

func childOfType(n *sitter.Node, typ string) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

// collectDefs gathers bindings from a statement list. decorated marks
// definitions reached through a decorator wrapper.
func collectDefs(f *File, node *sitter.Node, decorated bool) []*Def {
	var out []*Def
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "expression_statement":
			if child.ChildCount() == 0 {
				continue
			}
			out = append(out, assignmentDefs(f, child.Child(0))...)
		case "function_definition":
			name := f.text(childOfType(child, "identifier"))
			if name != "" {
				out = append(out, &Def{
					file: f, node: child, kind: DefFunction, name: name,
					fn: &FuncDef{file: f, node: child, name: name}, decorated: decorated,
				})
			}
		case "class_definition":
			name := f.text(childOfType(child, "identifier"))
			if name != "" {
				out = append(out, &Def{
					file: f, node: child, kind: DefClass, name: name,
					class: f.classAt(child), decorated: decorated,
				})
			}
		case "decorated_definition":
			out = append(out, collectDefs(f, child, true)...)
		case "if_statement", "try_statement", "for_statement", "while_statement", "with_statement", "else_clause", "elif_clause", "except_clause", "finally_clause", "block":
			out = append(out, collectDefs(f, child, decorated)...)
		}
	}
	return out
}

// assignmentDefs extracts bindings from an assignment expression node.
func assignmentDefs(f *File, n *sitter.Node) []*Def {
	switch n.Type() {
	case "assignment", "augmented_assignment":
	default:
		return nil
	}

	left := n.ChildByFieldName("left")
	if left == nil {
		return nil
	}
	ann := n.ChildByFieldName("type")
	value := n.ChildByFieldName("right")

	switch left.Type() {
	case "identifier":
		return []*Def{{file: f, node: n, kind: DefAssign, name: f.text(left), ann: ann, value: value}}
	case "pattern_list", "tuple_pattern":
		var out []*Def
		for i := 0; i < int(left.ChildCount()); i++ {
			t := left.Child(i)
			if t.Type() == "identifier" {
				out = append(out, &Def{file: f, node: n, kind: DefAssign, name: f.text(t), value: value})
			}
		}
		return out
	}
	// Attribute and subscript targets do not bind names in this scope.
	return nil
}

// classAt finds the collected ClassDef for a class_definition node.
func (f *File) classAt(node *sitter.Node) *ClassDef {
	for _, c := range f.classes {
		if c.node.StartByte() == node.StartByte() {
			return c
		}
	}
	return nil
}
