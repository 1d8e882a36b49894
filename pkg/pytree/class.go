package pytree

import sitter "github.com/smacker/go-tree-sitter"

// ClassDef is a class definition site.
type ClassDef struct {
	file      *File
	node      *sitter.Node
	name      string
	qualName  string
	decorated bool
}

// Name returns the class's simple name.
func (c *ClassDef) Name() string { return c.name }

// QualName returns the dotted name including enclosing classes.
func (c *ClassDef) QualName() string { return c.qualName }

// File returns the defining file.
func (c *ClassDef) File() *File { return c.file }

// Position returns the definition's start position.
func (c *ClassDef) Position() Position { return c.file.position(c.node) }

// Decorated reports whether the class sits under a decorator.
func (c *ClassDef) Decorated() bool { return c.decorated }

// Scope returns the scope the class itself opens (its body).
func (c *ClassDef) Scope() *Scope {
	return &Scope{file: c.file, node: c.node}
}

// EnclosingScope returns the scope the class is defined in.
func (c *ClassDef) EnclosingScope() *Scope {
	return c.Scope().Parent()
}

// ArgKind classifies an entry of a class's base-argument list.
type ArgKind int

const (
	ArgPositional ArgKind = iota
	ArgKeyword
	ArgStar
	ArgDoubleStar
)

// Argument is one entry of a declared base-argument list or call.
type Argument struct {
	Kind    ArgKind
	Keyword string
	Value   *Expr
}

// Arguments returns the declared base-argument list in source order.
// Classes without parentheses return nil.
func (c *ClassDef) Arguments() []Argument {
	arglist := childOfType(c.node, "argument_list")
	if arglist == nil {
		return nil
	}
	return parseArguments(c.file, arglist)
}

func parseArguments(f *File, arglist *sitter.Node) []Argument {
	var out []Argument
	for i := 0; i < int(arglist.ChildCount()); i++ {
		arg := arglist.Child(i)
		switch arg.Type() {
		case "(", ")", ",", "comment":
			continue
		case "keyword_argument":
			name := arg.ChildByFieldName("name")
			value := arg.ChildByFieldName("value")
			if name == nil || value == nil {
				continue
			}
			out = append(out, Argument{
				Kind:    ArgKeyword,
				Keyword: f.text(name),
				Value:   &Expr{file: f, node: value},
			})
		case "list_splat":
			out = append(out, Argument{Kind: ArgStar, Value: splatValue(f, arg)})
		case "dictionary_splat":
			out = append(out, Argument{Kind: ArgDoubleStar, Value: splatValue(f, arg)})
		default:
			out = append(out, Argument{Kind: ArgPositional, Value: &Expr{file: f, node: arg}})
		}
	}
	return out
}

func splatValue(f *File, splat *sitter.Node) *Expr {
	for i := 0; i < int(splat.ChildCount()); i++ {
		c := splat.Child(i)
		if c.IsNamed() {
			return &Expr{file: f, node: c}
		}
	}
	return nil
}

// Body returns the names bound directly in the class body.
func (c *ClassDef) Body() []*Def {
	return c.Scope().Definitions()
}

// Method returns the class-body function with the given name, or nil.
func (c *ClassDef) Method(name string) *FuncDef {
	for _, d := range c.Body() {
		if d.kind == DefFunction && d.name == name {
			return d.fn
		}
	}
	return nil
}

// InstanceAttributes returns names bound on the receiver inside the class's
// own methods (self.x = ...), first binding per name wins. The receiver name
// is whatever each method declares as its first parameter.
func (c *ClassDef) InstanceAttributes() []*Def {
	var out []*Def
	seen := make(map[string]bool)
	for _, d := range c.Body() {
		if d.kind != DefFunction {
			continue
		}
		params := d.fn.Params()
		if len(params) == 0 || params[0].Star || params[0].DoubleStar {
			continue
		}
		receiver := params[0].Name
		block := childOfType(d.fn.node, "block")
		if block == nil {
			continue
		}
		collectSelfAssignments(c.file, block, receiver, seen, &out)
	}
	return out
}

func collectSelfAssignments(f *File, node *sitter.Node, receiver string, seen map[string]bool, out *[]*Def) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "function_definition", "class_definition":
			// Nested definitions have their own receiver.
			continue
		case "assignment", "augmented_assignment":
			left := child.ChildByFieldName("left")
			if left != nil && left.Type() == "attribute" {
				obj := left.ChildByFieldName("object")
				attr := left.ChildByFieldName("attribute")
				if obj != nil && attr != nil && obj.Type() == "identifier" && f.text(obj) == receiver {
					name := f.text(attr)
					if !seen[name] {
						seen[name] = true
						*out = append(*out, &Def{
							file: f, node: child, kind: DefAssign, name: name,
							ann:   child.ChildByFieldName("type"),
							value: child.ChildByFieldName("right"),
						})
					}
				}
			}
			collectSelfAssignments(f, child, receiver, seen, out)
		default:
			collectSelfAssignments(f, child, receiver, seen, out)
		}
	}
}

// FuncDef is a function definition site.
type FuncDef struct {
	file *File
	node *sitter.Node
	name string
}

// Name returns the function's name.
func (fd *FuncDef) Name() string { return fd.name }

// Position returns the definition's start position.
func (fd *FuncDef) Position() Position { return fd.file.position(fd.node) }

// Scope returns the scope the function opens.
func (fd *FuncDef) Scope() *Scope {
	return &Scope{file: fd.file, node: fd.node}
}

// Param is a declared function parameter.
type Param struct {
	Name       string
	Star       bool
	DoubleStar bool
	HasDefault bool
	Annotation *Expr
}

// Params returns the declared parameters in order.
func (fd *FuncDef) Params() []Param {
	paramsNode := childOfType(fd.node, "parameters")
	if paramsNode == nil {
		return nil
	}
	var out []Param
	for i := 0; i < int(paramsNode.ChildCount()); i++ {
		p := paramsNode.Child(i)
		switch p.Type() {
		case "identifier":
			out = append(out, Param{Name: fd.file.text(p)})
		case "typed_parameter":
			prm := Param{}
			for j := 0; j < int(p.ChildCount()); j++ {
				c := p.Child(j)
				if c.Type() == "identifier" && prm.Name == "" {
					prm.Name = fd.file.text(c)
				}
			}
			if t := p.ChildByFieldName("type"); t != nil {
				prm.Annotation = &Expr{file: fd.file, node: t}
			}
			if prm.Name != "" {
				out = append(out, prm)
			}
		case "default_parameter", "typed_default_parameter":
			prm := Param{HasDefault: true}
			if n := p.ChildByFieldName("name"); n != nil {
				prm.Name = fd.file.text(n)
			}
			if t := p.ChildByFieldName("type"); t != nil {
				prm.Annotation = &Expr{file: fd.file, node: t}
			}
			if prm.Name != "" {
				out = append(out, prm)
			}
		case "list_splat_pattern":
			if n := childOfType(p, "identifier"); n != nil {
				out = append(out, Param{Name: fd.file.text(n), Star: true})
			}
		case "dictionary_splat_pattern":
			if n := childOfType(p, "identifier"); n != nil {
				out = append(out, Param{Name: fd.file.text(n), DoubleStar: true})
			}
		}
	}
	return out
}
