// Package pytree provides read-only syntax access to Python source files.
// It wraps the tree-sitter Python grammar and exposes the definition sites,
// scopes, and expressions that the inference layer consumes. Trees are never
// mutated after parsing.
package pytree

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// DefaultMaxFileSize is the largest source file Parse accepts.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Position identifies a location in a source file (1-based line, 0-based column).
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// File is a parsed Python source file.
type File struct {
	path string
	src  []byte
	tree *sitter.Tree
	root *sitter.Node

	classes []*ClassDef
}

// Parse parses Python source into a File.
// The returned File owns the underlying tree; call Close when done.
func Parse(ctx context.Context, path string, src []byte) (*File, error) {
	if int64(len(src)) > DefaultMaxFileSize {
		return nil, &ParseError{Path: path, Message: fmt.Sprintf("file exceeds %d bytes", DefaultMaxFileSize)}
	}
	if !utf8.Valid(src) {
		return nil, &ParseError{Path: path, Message: "source is not valid UTF-8"}
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, &ParseError{Path: path, Message: "tree-sitter parse failed", Err: err}
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, &ParseError{Path: path, Message: "parser returned no root node"}
	}

	f := &File{path: path, src: src, tree: tree, root: root}
	f.classes = collectClasses(f, root, "")
	return f, nil
}

// ParseFile reads and parses the file at path.
func ParseFile(ctx context.Context, path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(ctx, path, src)
}

// Path returns the file path given at parse time.
func (f *File) Path() string { return f.path }

// Source returns the raw source bytes.
func (f *File) Source() []byte { return f.src }

// Close releases the underlying tree. The File must not be used afterwards.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// HasSyntaxErrors reports whether the parse produced error nodes.
// Such files still yield partial results.
func (f *File) HasSyntaxErrors() bool {
	return f.root.HasError()
}

// ModuleScope returns the top-level scope of the file.
func (f *File) ModuleScope() *Scope {
	return &Scope{file: f, node: f.root}
}

// Classes returns every class defined in the file, outermost first,
// including nested and decorated classes. Qualified names join nesting
// with dots ("Outer.Inner").
func (f *File) Classes() []*ClassDef {
	return f.classes
}

// ClassByName returns the class with the given qualified name, or nil.
func (f *File) ClassByName(qualName string) *ClassDef {
	for _, c := range f.classes {
		if c.qualName == qualName {
			return c
		}
	}
	return nil
}

// text slices the source for a node.
func (f *File) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(f.src[n.StartByte():n.EndByte()])
}

func (f *File) position(n *sitter.Node) Position {
	return Position{Line: int(n.StartPoint().Row) + 1, Column: int(n.StartPoint().Column)}
}

// collectClasses walks a subtree gathering class definitions in source order.
func collectClasses(f *File, node *sitter.Node, prefix string) []*ClassDef {
	var out []*ClassDef
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "class_definition":
			out = append(out, collectClass(f, child, prefix, false)...)
		case "decorated_definition":
			for j := 0; j < int(child.ChildCount()); j++ {
				inner := child.Child(j)
				if inner.Type() == "class_definition" {
					out = append(out, collectClass(f, inner, prefix, true)...)
				}
			}
		case "block", "if_statement", "try_statement":
			out = append(out, collectClasses(f, child, prefix)...)
		}
	}
	return out
}

func collectClass(f *File, node *sitter.Node, prefix string, decorated bool) []*ClassDef {
	name := ""
	var body *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			if name == "" {
				name = f.text(child)
			}
		case "block":
			body = child
		}
	}
	if name == "" {
		return nil
	}
	qual := name
	if prefix != "" {
		qual = prefix + "." + name
	}
	c := &ClassDef{file: f, node: node, name: name, qualName: qual, decorated: decorated}
	out := []*ClassDef{c}
	if body != nil {
		out = append(out, collectClasses(f, body, qual)...)
	}
	return out
}
