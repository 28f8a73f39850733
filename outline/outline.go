// Package outline turns a Swift declaration tree into the hierarchical
// document-symbol forest served to editors.
package outline

import (
	"strings"

	"go.lsp.dev/protocol"

	"github.com/lexcodex/swiftline/syntax"
)

// PositionMapper converts snapshot byte offsets to protocol positions.
// A false return aborts only the symbol being built.
type PositionMapper interface {
	Position(offset int) (protocol.Position, bool)
}

// Find walks a forest of syntax nodes depth-first and returns the
// symbols it contains, nested by tree containment. A node that denotes
// a symbol contributes exactly one entry whose children come from a
// fresh recursive pass over its own subtree; any other node splices its
// subtree's symbols into the current level. The result is pure:
// identical inputs yield identical output.
func Find(roots []*syntax.Node, mapper PositionMapper) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol
	for _, node := range roots {
		sym, outcome := classify(node, mapper)
		switch outcome {
		case isSymbol:
			sym.Children = Find(node.Children(), mapper)
			symbols = append(symbols, *sym)
		case notSymbol, skipNode:
			symbols = append(symbols, Find(node.Children(), mapper)...)
		case dropSubtree:
			// Position mapping failed for this symbol, so offsets in
			// this region cannot be trusted; nothing below it is
			// reported either.
		}
	}
	return symbols
}

type outcome int

const (
	// notSymbol: the node itself is no symbol; its subtree is still
	// searched at the current nesting level.
	notSymbol outcome = iota
	// isSymbol: the node produced exactly one symbol.
	isSymbol
	// skipNode: the node would be a symbol but lacks a required piece
	// (usually its name token); traversal continues below it.
	skipNode
	// dropSubtree: a boundary offset failed to map; the node and its
	// entire subtree are omitted.
	dropSubtree
)

// classify decides whether node directly denotes a symbol and, if so,
// computes its kind, display name, and both ranges.
func classify(node *syntax.Node, mapper PositionMapper) (*protocol.DocumentSymbol, outcome) {
	switch node.Kind {
	case syntax.KindActorDecl, syntax.KindClassDecl:
		return namedDecl(node, mapper, protocol.SymbolKindClass)
	case syntax.KindAssociatedTypeDecl, syntax.KindTypeAliasDecl:
		return namedDecl(node, mapper, protocol.SymbolKindTypeParameter)
	case syntax.KindEnumDecl:
		return namedDecl(node, mapper, protocol.SymbolKindEnum)
	case syntax.KindMacroDecl:
		return namedDecl(node, mapper, protocol.SymbolKindFunction)
	case syntax.KindOperatorDecl, syntax.KindPrecedenceGroupDecl:
		return namedDecl(node, mapper, protocol.SymbolKindOperator)
	case syntax.KindProtocolDecl:
		return namedDecl(node, mapper, protocol.SymbolKindInterface)
	case syntax.KindStructDecl:
		return namedDecl(node, mapper, protocol.SymbolKindStruct)
	case syntax.KindExtensionDecl:
		return extensionDecl(node, mapper)
	case syntax.KindFunctionDecl:
		return functionDecl(node, mapper)
	case syntax.KindInitializerDecl:
		return initializerDecl(node, mapper)
	case syntax.KindGenericParameter:
		return genericParameter(node, mapper)
	case syntax.KindEnumCaseElement:
		return enumCaseElement(node, mapper)
	case syntax.KindPatternBinding:
		return patternBinding(node, mapper)
	default:
		return nil, notSymbol
	}
}

// nameToken returns the declared name of a declaration: an identifier
// token, or the operator token for operator-flavored declarations.
func nameToken(node *syntax.Node) *syntax.Node {
	if tok := node.ChildOfKind(syntax.KindNameToken); tok != nil {
		return tok
	}
	return node.ChildOfKind(syntax.KindOperatorToken)
}

// namedDecl handles every declaration whose symbol is "name token plus
// whole-declaration range": types, protocols, typealiases, macros,
// operators, precedence groups.
func namedDecl(node *syntax.Node, mapper PositionMapper, kind protocol.SymbolKind) (*protocol.DocumentSymbol, outcome) {
	tok := nameToken(node)
	if tok == nil {
		return nil, skipNode
	}
	return build(mapper, tok.Text, kind,
		span{node.Start(), node.End()},
		span{tok.Start(), tok.End()})
}

// extensionDecl names the symbol after the extended type's source text.
func extensionDecl(node *syntax.Node, mapper PositionMapper) (*protocol.DocumentSymbol, outcome) {
	typ := node.ChildOfKind(syntax.KindTypeExpr)
	if typ == nil {
		return nil, skipNode
	}
	return build(mapper, strings.TrimSpace(typ.Text), protocol.SymbolKindNamespace,
		span{node.Start(), node.End()},
		span{typ.Start(), typ.End()})
}

// functionDecl synthesizes the call-site name, e.g. f(x:_:), and
// selects name through parameter list, excluding return type and body.
func functionDecl(node *syntax.Node, mapper PositionMapper) (*protocol.DocumentSymbol, outcome) {
	tok := nameToken(node)
	if tok == nil {
		return nil, skipNode
	}
	kind := protocol.SymbolKindFunction
	switch {
	case tok.Kind == syntax.KindOperatorToken:
		kind = protocol.SymbolKindOperator
	case node.Parent() != nil && node.Parent().Kind == syntax.KindMemberItem:
		kind = protocol.SymbolKindMethod
	}
	clause := node.ChildOfKind(syntax.KindParameterClause)
	selEnd := tok.End()
	if clause != nil {
		selEnd = clause.End()
	}
	return build(mapper, tok.Text+"("+labelList(clause)+")", kind,
		span{node.Start(), node.End()},
		span{tok.Start(), selEnd})
}

func initializerDecl(node *syntax.Node, mapper PositionMapper) (*protocol.DocumentSymbol, outcome) {
	kw := node.ChildOfKind(syntax.KindInitKeyword)
	if kw == nil {
		return nil, skipNode
	}
	selEnd := kw.End()
	if clause := node.ChildOfKind(syntax.KindParameterClause); clause != nil {
		selEnd = clause.End()
	}
	return build(mapper, "init", protocol.SymbolKindConstructor,
		span{node.Start(), node.End()},
		span{kw.Start(), selEnd})
}

func genericParameter(node *syntax.Node, mapper PositionMapper) (*protocol.DocumentSymbol, outcome) {
	tok := node.ChildOfKind(syntax.KindNameToken)
	if tok == nil {
		return nil, skipNode
	}
	full := span{node.Start(), node.End()}
	return build(mapper, tok.Text, protocol.SymbolKindTypeParameter, full, full)
}

// enumCaseElement covers one element of a case declaration. The range
// runs from the case name through the associated-value clause when one
// exists; both bounds are token offsets, so no further trimming applies.
func enumCaseElement(node *syntax.Node, mapper PositionMapper) (*protocol.DocumentSymbol, outcome) {
	tok := node.ChildOfKind(syntax.KindNameToken)
	if tok == nil {
		return nil, skipNode
	}
	name := tok.Text
	end := tok.End()
	if clause := node.ChildOfKind(syntax.KindParameterClause); clause != nil {
		name += "(" + labelList(clause) + ")"
		end = clause.End()
	}
	full := span{tok.Start(), end}
	return build(mapper, name, protocol.SymbolKindEnumMember, full, full)
}

// patternBinding emits a property or variable for one binding of a
// var/let declaration. A binding whose grandparent is not a variable
// declaration (for-loop and capture patterns) is not a symbol.
func patternBinding(node *syntax.Node, mapper PositionMapper) (*protocol.DocumentSymbol, outcome) {
	list := node.Parent()
	if list == nil || list.Parent() == nil || list.Parent().Kind != syntax.KindVariableDecl {
		return nil, notSymbol
	}
	varDecl := list.Parent()
	pattern := node.ChildOfKind(syntax.KindPattern)
	if pattern == nil {
		return nil, skipNode
	}
	kind := protocol.SymbolKindVariable
	if varDecl.Parent() != nil && varDecl.Parent().Kind == syntax.KindMemberItem {
		kind = protocol.SymbolKindProperty
	}
	// The var/let keyword belongs to no single binding when several
	// are comma-separated, so only a sole binding claims the whole
	// declaration.
	full := span{node.Start(), node.End()}
	if len(list.Children()) == 1 {
		full = span{varDecl.Start(), varDecl.End()}
	}
	return build(mapper, strings.TrimSpace(pattern.Text), kind,
		full,
		span{pattern.Start(), pattern.End()})
}

// labelList renders the call-site argument labels of a parameter
// clause: external label or _ for each parameter, each followed by a
// colon. Nil clauses render as the empty list.
func labelList(clause *syntax.Node) string {
	if clause == nil {
		return ""
	}
	var b strings.Builder
	for _, param := range clause.ChildrenOfKind(syntax.KindParameter) {
		label := param.Text
		if label == "" {
			label = "_"
		}
		b.WriteString(label)
		b.WriteString(":")
	}
	return b.String()
}

type span struct {
	start, end int
}

// build maps the four boundary offsets of a symbol. Any mapping failure
// drops the symbol and, per Find, its entire subtree.
func build(mapper PositionMapper, name string, kind protocol.SymbolKind, full, selection span) (*protocol.DocumentSymbol, outcome) {
	fullRange, ok := mapRange(mapper, full)
	if !ok {
		return nil, dropSubtree
	}
	selRange, ok := mapRange(mapper, selection)
	if !ok {
		return nil, dropSubtree
	}
	return &protocol.DocumentSymbol{
		Name:           name,
		Kind:           kind,
		Range:          fullRange,
		SelectionRange: selRange,
	}, isSymbol
}

func mapRange(mapper PositionMapper, s span) (protocol.Range, bool) {
	start, ok := mapper.Position(s.start)
	if !ok {
		return protocol.Range{}, false
	}
	end, ok := mapper.Position(s.end)
	if !ok {
		return protocol.Range{}, false
	}
	return protocol.Range{Start: start, End: end}, true
}
