package syntax

// NodeKind tags each node in the declaration tree.
type NodeKind string

const (
	KindSourceFile NodeKind = "source_file"

	KindActorDecl           NodeKind = "actor_decl"
	KindClassDecl           NodeKind = "class_decl"
	KindStructDecl          NodeKind = "struct_decl"
	KindEnumDecl            NodeKind = "enum_decl"
	KindProtocolDecl        NodeKind = "protocol_decl"
	KindExtensionDecl       NodeKind = "extension_decl"
	KindTypeAliasDecl       NodeKind = "typealias_decl"
	KindAssociatedTypeDecl  NodeKind = "associatedtype_decl"
	KindMacroDecl           NodeKind = "macro_decl"
	KindOperatorDecl        NodeKind = "operator_decl"
	KindPrecedenceGroupDecl NodeKind = "precedencegroup_decl"
	KindFunctionDecl        NodeKind = "function_decl"
	KindInitializerDecl     NodeKind = "initializer_decl"
	KindVariableDecl        NodeKind = "variable_decl"
	KindEnumCaseDecl        NodeKind = "enum_case_decl"

	KindMemberList             NodeKind = "member_list"
	KindMemberItem             NodeKind = "member_item"
	KindGenericParameterClause NodeKind = "generic_parameter_clause"
	KindGenericParameter       NodeKind = "generic_parameter"
	KindParameterClause        NodeKind = "parameter_clause"
	KindParameter              NodeKind = "parameter"
	KindEnumCaseElement        NodeKind = "enum_case_element"
	KindPatternBindingList     NodeKind = "pattern_binding_list"
	KindPatternBinding         NodeKind = "pattern_binding"
	KindPattern                NodeKind = "pattern"
	KindCodeBlock              NodeKind = "code_block"

	KindNameToken     NodeKind = "name_token"
	KindOperatorToken NodeKind = "operator_token"
	KindInitKeyword   NodeKind = "init_keyword"
	KindTypeExpr      NodeKind = "type_expr"

	KindOther NodeKind = "other"
)

// Node is one vertex of an immutable declaration tree. Offsets are byte
// offsets into the snapshot text with leading and trailing trivia
// (whitespace and comments) already excluded.
type Node struct {
	Kind NodeKind
	// Text carries the source rendering for token-like nodes (name tokens,
	// operator tokens, type expressions, patterns) and the external
	// argument label for parameters ("" means unlabeled).
	Text string

	parent   *Node
	children []*Node
	start    int
	end      int
}

// NewNode builds a detached node covering [start, end).
func NewNode(kind NodeKind, start, end int) *Node {
	return &Node{Kind: kind, start: start, end: end}
}

// Start returns the offset after the node's leading trivia.
func (n *Node) Start() int { return n.start }

// End returns the offset before the node's trailing trivia.
func (n *Node) End() int { return n.end }

// SetSpan adjusts the node's offsets during tree construction.
func (n *Node) SetSpan(start, end int) {
	n.start = start
	n.end = end
}

// Parent returns the enclosing node, or nil at a root. The link is
// non-owning and only used for traversal-time kind checks.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in source order.
func (n *Node) Children() []*Node { return n.children }

// AddChild appends a child and wires its parent link.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.parent = n
	n.children = append(n.children, child)
}

// ChildOfKind returns the first direct child with the given kind.
func (n *Node) ChildOfKind(kind NodeKind) *Node {
	for _, c := range n.children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// ChildrenOfKind returns all direct children with the given kind.
func (n *Node) ChildrenOfKind(kind NodeKind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
