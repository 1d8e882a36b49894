// Package main provides a scraper that extracts builtin class metadata from
// the CPython documentation and generates the native class catalog for the
// inference package.
//
// Usage:
//
//	go run ./scripts/genbuiltins -out=pkg/inference/natives_gen.go
//
// The scraper reads the exception hierarchy and the per-class attribute ids
// from docs.python.org, flattens inherited members down the hierarchy, and
// merges a curated overlay for members the documentation does not model as
// definition ids. Classes already defined in the source stub are excluded.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"go/format"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/net/html"
)

const (
	baseURL       = "https://docs.python.org/3/library"
	exceptionsURL = baseURL + "/exceptions.html"
	stdtypesURL   = baseURL + "/stdtypes.html"
	functionsURL  = baseURL + "/functions.html"
)

var (
	outFlag  = flag.String("out", "pkg/inference/natives_gen.go", "output file path")
	stubFlag = flag.String("stub", "pkg/inference/builtins.pyi", "source stub whose classes are excluded")
)

// wanted lists the classes the catalog carries. The source stub covers the
// core types; everything named here rides the native path instead.
var wanted = []string{
	// Exceptions beyond the stub's core set.
	"ArithmeticError",
	"LookupError",
	"NotImplementedError",
	"OSError",
	"OverflowError",
	"RuntimeError",
	"StopIteration",
	"ZeroDivisionError",

	// Builtin types and descriptors.
	"bytearray",
	"classmethod",
	"complex",
	"enumerate",
	"filter",
	"map",
	"memoryview",
	"property",
	"range",
	"reversed",
	"staticmethod",
	"super",
	"zip",
}

// extraMembers supplements classes whose members the documentation does not
// model as definition ids: iterator protocol slots, descriptor internals,
// attributes documented in prose, and sequence methods documented once for
// all sequence types.
var extraMembers = map[string][]string{
	"classmethod":  {"__func__", "__wrapped__"},
	"complex":      {"imag", "real"},
	"enumerate":    {"__iter__", "__next__"},
	"filter":       {"__iter__", "__next__"},
	"map":          {"__iter__", "__next__"},
	"range":        {"count", "index"},
	"reversed":     {"__iter__", "__next__"},
	"staticmethod": {"__func__", "__wrapped__"},
	"super":        {"__self__", "__self_class__", "__thisclass__"},
	"zip":          {"__iter__", "__next__"},
}

// skipMembers drops platform-specific attributes from scraped results.
var skipMembers = map[string]bool{
	"winerror": true,
}

func main() {
	flag.Parse()

	if *outFlag == "" {
		log.Fatal("--out flag is required")
	}

	stub, err := stubClasses(*stubFlag)
	if err != nil {
		log.Fatalf("failed to read stub: %v", err)
	}
	log.Printf("Stub defines %d classes", len(stub))

	log.Printf("Fetching exception hierarchy from %s", exceptionsURL)
	excBody, err := fetchURL(exceptionsURL)
	if err != nil {
		log.Fatalf("failed to fetch exceptions page: %v", err)
	}

	parents, err := parseExceptionTree(excBody)
	if err != nil {
		log.Fatalf("failed to parse exception hierarchy: %v", err)
	}
	log.Printf("Parsed hierarchy for %d exceptions", len(parents))

	members := make(map[string][]string)
	parseMemberIDs(excBody, members)

	for _, url := range []string{stdtypesURL, functionsURL} {
		log.Printf("Fetching member ids from %s", url)
		body, err := fetchURL(url)
		if err != nil {
			log.Fatalf("failed to fetch %s: %v", url, err)
		}
		parseMemberIDs(body, members)
	}
	log.Printf("Collected member ids for %d classes", len(members))

	entries := buildCatalog(stub, parents, members)
	log.Printf("Catalog holds %d classes", len(entries))

	code := generateCode(entries)
	writeFormattedCode(*outFlag, code)
	log.Printf("Wrote %s", *outFlag)
}

// catalogEntry is one generated class: its base names and member names.
type catalogEntry struct {
	Name    string
	Bases   []string
	Members []string
}

// stubClasses returns the class names defined in the source stub.
func stubClasses(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	classes := make(map[string]bool)
	re := regexp.MustCompile(`(?m)^class\s+([A-Za-z_]\w*)`)
	for _, m := range re.FindAllSubmatch(data, -1) {
		classes[string(m[1])] = true
	}
	return classes, nil
}

func fetchURL(url string) ([]byte, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(context.Background(), "GET", url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Pylens/1.0; +https://github.com/leapstack-labs/pylens)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// parseExceptionTree extracts the child -> parent relation from the literal
// hierarchy block on the exceptions page. The block is a <pre> drawing like
//
//	BaseException
//	 ├── KeyboardInterrupt
//	 └── Exception
//	      ├── ArithmeticError
//	      │    └── OverflowError
//
// where each indent level is five columns wide.
func parseExceptionTree(body []byte) (map[string]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var block string
	var findBlock func(*html.Node)
	findBlock = func(n *html.Node) {
		if block != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "pre" {
			text := extractText(n)
			if strings.Contains(text, "BaseException") {
				block = text
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findBlock(c)
		}
	}
	findBlock(doc)

	if block == "" {
		return nil, fmt.Errorf("hierarchy block not found")
	}

	parents := make(map[string]string)
	var stack []string
	for _, line := range strings.Split(block, "\n") {
		name, depth := parseTreeLine(line)
		if name == "" {
			continue
		}
		if depth > len(stack) {
			depth = len(stack)
		}
		stack = stack[:depth]
		if len(stack) > 0 {
			parents[name] = stack[len(stack)-1]
		}
		stack = append(stack, name)
	}
	return parents, nil
}

// parseTreeLine returns the exception name on a hierarchy line and its
// depth, counted in five-column indent units.
func parseTreeLine(line string) (string, int) {
	col := -1
	for i, r := range []rune(line) {
		if unicode.IsLetter(r) {
			col = i
			break
		}
	}
	if col < 0 {
		return "", 0
	}

	name := strings.TrimSpace(string([]rune(line)[col:]))
	if idx := strings.IndexFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}); idx >= 0 {
		name = name[:idx]
	}
	return name, col / 5
}

// parseMemberIDs collects definition ids of the form "Class.member" into
// the accumulator. Dunder ids are skipped; protocol slots come from the
// curated overlay instead.
func parseMemberIDs(body []byte, acc map[string][]string) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return
	}

	ident := regexp.MustCompile(`^[A-Za-z_]\w*$`)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "dt" {
			for _, attr := range n.Attr {
				if attr.Key != "id" {
					continue
				}
				parts := strings.Split(attr.Val, ".")
				if len(parts) != 2 {
					break
				}
				class, member := parts[0], parts[1]
				if !ident.MatchString(class) || !ident.MatchString(member) {
					break
				}
				if strings.HasPrefix(member, "__") {
					break
				}
				acc[class] = append(acc[class], member)
				break
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

func extractText(n *html.Node) string {
	var buf bytes.Buffer
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

// buildCatalog assembles the sorted catalog entries. Exceptions flatten the
// scraped members of their ancestors so each entry stands alone; bases still
// point at the parent so native ancestries merge into stub-defined ones.
func buildCatalog(stub map[string]bool, parents map[string]string, members map[string][]string) []catalogEntry {
	var entries []catalogEntry
	for _, name := range wanted {
		if stub[name] {
			log.Printf("Skipping %s: already defined in stub", name)
			continue
		}

		set := make(map[string]bool)
		for _, m := range members[name] {
			set[m] = true
		}

		bases := []string{"object"}
		if parent, ok := parents[name]; ok {
			bases = []string{parent}
			for anc := parent; anc != ""; anc = parents[anc] {
				for _, m := range members[anc] {
					set[m] = true
				}
			}
		}

		for _, m := range extraMembers[name] {
			set[m] = true
		}
		for m := range skipMembers {
			delete(set, m)
		}

		list := make([]string, 0, len(set))
		for m := range set {
			list = append(list, m)
		}
		sort.Strings(list)

		entries = append(entries, catalogEntry{Name: name, Bases: bases, Members: list})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

func generateCode(entries []catalogEntry) string {
	var buf bytes.Buffer

	buf.WriteString("// Code generated by scripts/genbuiltins. DO NOT EDIT.\n")
	fmt.Fprintf(&buf, "// Source: %s\n", baseURL)
	fmt.Fprintf(&buf, "// Generated: %s\n\n", time.Now().Format("2006-01-02"))
	buf.WriteString("package inference\n\n")

	buf.WriteString("// nativeEntry describes one host-provided class: its base-class names and\n")
	buf.WriteString("// the member names it exposes.\n")
	buf.WriteString("type nativeEntry struct {\n")
	buf.WriteString("\tBases   []string\n")
	buf.WriteString("\tMembers []string\n")
	buf.WriteString("}\n\n")

	buf.WriteString("// nativeCatalog lists builtin classes that are not part of the source stub.\n")
	buf.WriteString("// Base names resolve against the stub first, so native ancestries terminate\n")
	buf.WriteString("// at object.\n")
	buf.WriteString("var nativeCatalog = map[string]nativeEntry{\n")

	for _, e := range entries {
		fmt.Fprintf(&buf, "\t%q: {\n", e.Name)
		fmt.Fprintf(&buf, "\t\tBases: []string{%s},\n", quoteJoin(e.Bases))
		writeMemberList(&buf, e.Members)
		buf.WriteString("\t},\n")
	}
	buf.WriteString("}\n")

	return buf.String()
}

// writeMemberList emits the member slice, inline for short lists and as a
// filled block otherwise.
func writeMemberList(buf *bytes.Buffer, members []string) {
	if len(members) <= 6 {
		fmt.Fprintf(buf, "\t\tMembers: []string{%s},\n", quoteJoin(members))
		return
	}

	const lineBudget = 72

	buf.WriteString("\t\tMembers: []string{\n")
	line := ""
	for _, m := range members {
		item := fmt.Sprintf("%q", m)
		if line == "" {
			line = item
			continue
		}
		if len(line)+len(item)+3 > lineBudget {
			fmt.Fprintf(buf, "\t\t\t%s,\n", line)
			line = item
			continue
		}
		line += ", " + item
	}
	if line != "" {
		fmt.Fprintf(buf, "\t\t\t%s,\n", line)
	}
	buf.WriteString("\t\t},\n")
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}

func writeFormattedCode(outPath, code string) {
	formatted, err := format.Source([]byte(code))
	if err != nil {
		log.Printf("Warning: failed to format generated code: %v", err)
		formatted = []byte(code)
	}

	if err := os.WriteFile(outPath, formatted, 0o600); err != nil {
		log.Fatalf("failed to write output: %v", err)
	}
}
