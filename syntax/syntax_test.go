package syntax

import (
	"strings"
	"testing"
)

func parseSource(t *testing.T, source string) *Tree {
	t.Helper()
	tree, err := NewSwiftParser().Parse(source, "test.swift")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if tree.Root == nil {
		t.Fatal("expected a root node")
	}
	return tree
}

// findAll collects every node of a kind in pre-order.
func findAll(n *Node, kind NodeKind) []*Node {
	var out []*Node
	if n.Kind == kind {
		out = append(out, n)
	}
	for _, c := range n.Children() {
		out = append(out, findAll(c, kind)...)
	}
	return out
}

func findOne(t *testing.T, root *Node, kind NodeKind) *Node {
	t.Helper()
	nodes := findAll(root, kind)
	if len(nodes) != 1 {
		t.Fatalf("expected exactly one %s, got %d", kind, len(nodes))
	}
	return nodes[0]
}

func TestParseClassDecl(t *testing.T) {
	source := `// A widget.
public class Widget {
    var size: Int = 0
    func resize(to width: Int, _ height: Int) -> Bool { return true }
}`
	tree := parseSource(t, source)
	class := findOne(t, tree.Root, KindClassDecl)
	name := class.ChildOfKind(KindNameToken)
	if name == nil || name.Text != "Widget" {
		t.Fatalf("class name wrong: %#v", name)
	}
	if got := source[class.Start():class.End()]; !strings.HasPrefix(got, "public class") || !strings.HasSuffix(got, "}") {
		t.Fatalf("class span wrong: %q", got)
	}
	members := class.ChildOfKind(KindMemberList)
	if members == nil {
		t.Fatal("expected member list")
	}
	if got := len(members.ChildrenOfKind(KindMemberItem)); got != 2 {
		t.Fatalf("expected 2 member items, got %d", got)
	}
}

func TestParseFunctionParameters(t *testing.T) {
	source := `func resize(to width: Int, _ height: Int) -> Bool { return true }`
	tree := parseSource(t, source)
	fn := findOne(t, tree.Root, KindFunctionDecl)
	if tok := fn.ChildOfKind(KindNameToken); tok == nil || tok.Text != "resize" {
		t.Fatalf("function name wrong: %#v", tok)
	}
	clause := fn.ChildOfKind(KindParameterClause)
	if clause == nil {
		t.Fatal("expected parameter clause")
	}
	params := clause.ChildrenOfKind(KindParameter)
	if len(params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(params))
	}
	if params[0].Text != "to" {
		t.Fatalf("first external label wrong: %q", params[0].Text)
	}
	if params[1].Text != "" {
		t.Fatalf("second parameter should be unlabeled, got %q", params[1].Text)
	}
	if source[clause.End()-1] != ')' {
		t.Fatalf("clause end should sit after ')': %q", source[:clause.End()])
	}
}

func TestParseOperatorFunction(t *testing.T) {
	source := `func ==(lhs: Point, rhs: Point) -> Bool { return false }`
	tree := parseSource(t, source)
	fn := findOne(t, tree.Root, KindFunctionDecl)
	if tok := fn.ChildOfKind(KindOperatorToken); tok == nil || tok.Text != "==" {
		t.Fatalf("operator name wrong: %#v", tok)
	}
}

func TestParseEnumCases(t *testing.T) {
	source := `enum Direction {
    case north, south
    case vector(x: Int, y: Int)
    case raw = 1
}`
	tree := parseSource(t, source)
	elements := findAll(tree.Root, KindEnumCaseElement)
	if len(elements) != 4 {
		t.Fatalf("expected 4 case elements, got %d", len(elements))
	}
	vector := elements[2]
	if tok := vector.ChildOfKind(KindNameToken); tok == nil || tok.Text != "vector" {
		t.Fatalf("vector name wrong: %#v", tok)
	}
	clause := vector.ChildOfKind(KindParameterClause)
	if clause == nil {
		t.Fatal("expected associated-value clause")
	}
	labels := clause.ChildrenOfKind(KindParameter)
	if len(labels) != 2 || labels[0].Text != "x" || labels[1].Text != "y" {
		t.Fatalf("associated labels wrong: %#v", labels)
	}
	if vector.End() != clause.End() {
		t.Fatal("element span should end at the clause")
	}
	raw := elements[3]
	if got := source[raw.Start():raw.End()]; got != "raw" {
		t.Fatalf("raw-value element should span only its name, got %q", got)
	}
}

func TestParseVariableBindings(t *testing.T) {
	source := `let a = 1, b = 2`
	tree := parseSource(t, source)
	decl := findOne(t, tree.Root, KindVariableDecl)
	list := decl.ChildOfKind(KindPatternBindingList)
	if list == nil {
		t.Fatal("expected binding list")
	}
	bindings := list.ChildrenOfKind(KindPatternBinding)
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}
	if got := source[bindings[0].Start():bindings[0].End()]; got != "a = 1" {
		t.Fatalf("first binding span wrong: %q", got)
	}
	if got := source[bindings[1].Start():bindings[1].End()]; got != "b = 2" {
		t.Fatalf("second binding span wrong: %q", got)
	}
	if pat := bindings[1].ChildOfKind(KindPattern); pat == nil || pat.Text != "b" {
		t.Fatalf("second pattern wrong: %#v", pat)
	}
}

func TestParseConditionalBindingIgnored(t *testing.T) {
	source := `func check(value: Int?) {
    if let unwrapped = value {
        print(unwrapped)
    }
}`
	tree := parseSource(t, source)
	if decls := findAll(tree.Root, KindVariableDecl); len(decls) != 0 {
		t.Fatalf("if-let should not produce a variable declaration, got %d", len(decls))
	}
}

func TestParseExtension(t *testing.T) {
	source := `extension Collection where Element: Equatable {
    func firstIndexOfDuplicate() -> Index? { return nil }
}`
	tree := parseSource(t, source)
	ext := findOne(t, tree.Root, KindExtensionDecl)
	typ := ext.ChildOfKind(KindTypeExpr)
	if typ == nil || typ.Text != "Collection" {
		t.Fatalf("extended type wrong: %#v", typ)
	}
	if ext.ChildOfKind(KindMemberList) == nil {
		t.Fatal("expected extension member list")
	}
}

func TestParseGenericClause(t *testing.T) {
	source := `struct Pair<First, Second: Equatable> { var first: First }`
	tree := parseSource(t, source)
	params := findAll(tree.Root, KindGenericParameter)
	if len(params) != 2 {
		t.Fatalf("expected 2 generic parameters, got %d", len(params))
	}
	if tok := params[0].ChildOfKind(KindNameToken); tok == nil || tok.Text != "First" {
		t.Fatalf("first generic parameter wrong: %#v", tok)
	}
	if got := source[params[1].Start():params[1].End()]; got != "Second: Equatable" {
		t.Fatalf("constrained parameter span wrong: %q", got)
	}
}

func TestParseTriviaExcluded(t *testing.T) {
	source := "/* leading */ struct S { }  // trailing"
	tree := parseSource(t, source)
	st := findOne(t, tree.Root, KindStructDecl)
	if got := source[st.Start():st.End()]; got != "struct S { }" {
		t.Fatalf("trivia not trimmed: %q", got)
	}
}

func TestParseNeverFails(t *testing.T) {
	sources := []string{
		"",
		"}}}{{{",
		"class",
		"func (",
		"let = \"unterminated",
	}
	for _, src := range sources {
		if _, err := NewSwiftParser().Parse(src, "odd.swift"); err != nil {
			t.Fatalf("parse of %q returned error: %v", src, err)
		}
	}
}

func TestParserRegistry(t *testing.T) {
	registry := NewParserRegistry()
	if _, ok := registry.GetParser("swift"); !ok {
		t.Fatal("expected swift parser to be registered")
	}
	if _, ok := registry.GetParser("python"); ok {
		t.Fatal("did not expect a python parser")
	}
	if langs := registry.SupportedLanguages(); len(langs) != 1 || langs[0] != "swift" {
		t.Fatalf("unexpected supported languages: %v", langs)
	}
}
