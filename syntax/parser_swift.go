package syntax

import (
	"strings"
)

// SwiftParser builds declaration trees from Swift source. It is a
// declaration-level scanner, not a full Swift parser: it recognizes the
// constructs the outline feature cares about, skips expression and
// statement detail, and stays best-effort on malformed input.
type SwiftParser struct{}

// NewSwiftParser returns a ready-to-use Swift parser.
func NewSwiftParser() *SwiftParser { return &SwiftParser{} }

func (sp *SwiftParser) Language() string { return "swift" }

// Parse converts Swift source into a declaration tree. It never fails:
// unrecognized input is skipped and scanning continues.
func (sp *SwiftParser) Parse(content string, filePath string) (*Tree, error) {
	s := &swiftScanner{src: content, toks: lex(content)}
	root := NewNode(KindSourceFile, 0, len(content))
	s.scanBlock(root, blockTopLevel, false)
	return &Tree{Root: root}, nil
}

type blockContext int

const (
	blockTopLevel blockContext = iota
	blockMembers
	blockEnumMembers
	blockCode
)

type swiftScanner struct {
	src  string
	toks []token
	pos  int
}

func (s *swiftScanner) eof() bool { return s.pos >= len(s.toks) }

func (s *swiftScanner) peek() (token, bool) {
	if s.eof() {
		return token{}, false
	}
	return s.toks[s.pos], true
}

func (s *swiftScanner) next() token {
	t := s.toks[s.pos]
	s.pos++
	return t
}

func (s *swiftScanner) peekIs(text string) bool {
	t, ok := s.peek()
	return ok && t.text == text
}

func (s *swiftScanner) lastEnd() int {
	if s.pos == 0 {
		return 0
	}
	return s.toks[s.pos-1].end
}

// lineBreakBefore reports whether a newline separates the previously
// consumed token from the next one.
func (s *swiftScanner) lineBreakBefore() bool {
	if s.pos == 0 || s.eof() {
		return false
	}
	return strings.ContainsRune(s.src[s.toks[s.pos-1].end:s.toks[s.pos].start], '\n')
}

func tokenNode(kind NodeKind, t token) *Node {
	n := NewNode(kind, t.start, t.end)
	n.Text = t.text
	return n
}

var modifierWords = map[string]bool{
	"public": true, "private": true, "fileprivate": true, "internal": true,
	"open": true, "package": true, "static": true, "final": true,
	"override": true, "required": true, "convenience": true, "lazy": true,
	"weak": true, "unowned": true, "mutating": true, "nonmutating": true,
	"dynamic": true, "indirect": true, "optional": true, "nonisolated": true,
	"isolated": true, "distributed": true, "borrowing": true, "consuming": true,
}

var conditionWords = map[string]bool{
	"if": true, "guard": true, "while": true, "for": true, "case": true,
}

// scanBlock scans declarations until a closing brace (when stopAtBrace)
// or end of input, adding them to container. Member contexts wrap each
// declaration in a member-item node. Tokens that do not begin a
// declaration are skipped one at a time; a stray open brace is scanned
// recursively so declarations inside statement bodies still surface.
func (s *swiftScanner) scanBlock(container *Node, ctx blockContext, stopAtBrace bool) {
	prev := ""
	for !s.eof() {
		t, _ := s.peek()
		if t.kind == tokPunct && t.text == "}" {
			if stopAtBrace {
				return
			}
			s.next()
			prev = "}"
			continue
		}
		if decl := s.scanDecl(ctx, prev); decl != nil {
			if ctx == blockMembers || ctx == blockEnumMembers {
				item := NewNode(KindMemberItem, decl.Start(), decl.End())
				item.AddChild(decl)
				container.AddChild(item)
			} else {
				container.AddChild(decl)
			}
			prev = ""
			continue
		}
		s.next()
		if t.kind == tokPunct && t.text == "{" {
			s.scanBlock(container, blockCode, true)
			if s.peekIs("}") {
				s.next()
			}
		}
		prev = t.text
	}
}

// scanDecl attempts to scan one declaration, including its leading
// attributes and modifiers. Returns nil (with the scanner position
// restored) when the upcoming tokens do not begin a declaration.
func (s *swiftScanner) scanDecl(ctx blockContext, prev string) *Node {
	mark := s.pos
	first, ok := s.peek()
	if !ok {
		return nil
	}
	declStart := first.start

	for !s.eof() {
		t, _ := s.peek()
		if t.kind == tokPunct && t.text == "@" {
			s.next()
			if t2, ok := s.peek(); ok && t2.kind == tokIdent {
				s.next()
				if s.peekIs("(") {
					s.skipBalanced()
				}
			}
			continue
		}
		if t.kind == tokIdent && modifierWords[t.text] {
			s.next()
			if s.peekIs("(") {
				s.skipBalanced() // private(set), unowned(safe)
			}
			continue
		}
		if t.kind == tokIdent && t.text == "class" && s.pos+1 < len(s.toks) {
			// `class func` / `class var`: class acts as a modifier.
			if n := s.toks[s.pos+1].text; n == "func" || n == "var" || n == "let" {
				s.next()
				continue
			}
		}
		break
	}

	t, ok := s.peek()
	if !ok || t.kind != tokIdent {
		s.pos = mark
		return nil
	}
	switch t.text {
	case "class":
		return s.scanTypeDecl(KindClassDecl, declStart)
	case "actor":
		if s.pos+1 < len(s.toks) && s.toks[s.pos+1].kind == tokIdent {
			return s.scanTypeDecl(KindActorDecl, declStart)
		}
	case "struct":
		return s.scanTypeDecl(KindStructDecl, declStart)
	case "enum":
		return s.scanTypeDecl(KindEnumDecl, declStart)
	case "protocol":
		return s.scanTypeDecl(KindProtocolDecl, declStart)
	case "extension":
		return s.scanExtension(declStart)
	case "typealias":
		return s.scanSimpleNamed(KindTypeAliasDecl, declStart)
	case "associatedtype":
		return s.scanSimpleNamed(KindAssociatedTypeDecl, declStart)
	case "macro":
		return s.scanSimpleNamed(KindMacroDecl, declStart)
	case "func":
		return s.scanFunc(declStart)
	case "init":
		return s.scanInit(declStart)
	case "precedencegroup":
		return s.scanPrecedenceGroup(declStart)
	case "operator":
		return s.scanOperatorDecl(declStart)
	case "prefix", "infix", "postfix":
		if s.pos+1 < len(s.toks) && s.toks[s.pos+1].text == "operator" {
			s.next()
			return s.scanOperatorDecl(declStart)
		}
		if s.pos+1 < len(s.toks) && s.toks[s.pos+1].text == "func" {
			s.next()
			return s.scanFunc(declStart)
		}
	case "case":
		if ctx == blockEnumMembers {
			return s.scanEnumCase(declStart)
		}
	case "var", "let":
		if !conditionWords[prev] {
			return s.scanVariable(declStart)
		}
	}
	s.pos = mark
	return nil
}

func (s *swiftScanner) scanTypeDecl(kind NodeKind, declStart int) *Node {
	kw := s.next()
	node := NewNode(kind, declStart, kw.end)
	if t, ok := s.peek(); ok && t.kind == tokIdent {
		node.AddChild(tokenNode(KindNameToken, s.next()))
	}
	s.maybeGenericClause(node)
	s.consumeUntilBodyBrace()
	if s.peekIs("{") {
		open := s.next()
		members := NewNode(KindMemberList, open.start, open.end)
		memberCtx := blockMembers
		if kind == KindEnumDecl {
			memberCtx = blockEnumMembers
		}
		s.scanBlock(members, memberCtx, true)
		end := s.lastEnd()
		if s.peekIs("}") {
			end = s.next().end
		}
		members.SetSpan(open.start, end)
		node.AddChild(members)
		node.SetSpan(declStart, end)
	} else {
		node.SetSpan(declStart, s.lastEnd())
	}
	return node
}

func (s *swiftScanner) scanExtension(declStart int) *Node {
	kw := s.next()
	node := NewNode(KindExtensionDecl, declStart, kw.end)
	if t, ok := s.peek(); ok && (t.kind == tokIdent || t.kind == tokOperator) {
		start := t.start
		end := start
		for !s.eof() {
			t2, _ := s.peek()
			if t2.kind == tokPunct || t2.text == "where" {
				break
			}
			if s.lineBreakBefore() && end > start {
				break
			}
			end = s.next().end
		}
		if end > start {
			typ := NewNode(KindTypeExpr, start, end)
			typ.Text = s.src[start:end]
			node.AddChild(typ)
		}
	}
	s.consumeUntilBodyBrace()
	if s.peekIs("{") {
		open := s.next()
		members := NewNode(KindMemberList, open.start, open.end)
		s.scanBlock(members, blockMembers, true)
		end := s.lastEnd()
		if s.peekIs("}") {
			end = s.next().end
		}
		members.SetSpan(open.start, end)
		node.AddChild(members)
		node.SetSpan(declStart, end)
	} else {
		node.SetSpan(declStart, s.lastEnd())
	}
	return node
}

func (s *swiftScanner) scanSimpleNamed(kind NodeKind, declStart int) *Node {
	s.next() // keyword
	node := NewNode(kind, declStart, s.lastEnd())
	if t, ok := s.peek(); ok && t.kind == tokIdent {
		node.AddChild(tokenNode(KindNameToken, s.next()))
	}
	s.maybeGenericClause(node)
	end := s.consumeExpr(exprConsumeBraces)
	if end > node.End() {
		node.SetSpan(declStart, end)
	} else {
		node.SetSpan(declStart, s.lastEnd())
	}
	return node
}

func (s *swiftScanner) scanOperatorDecl(declStart int) *Node {
	s.next() // operator keyword
	node := NewNode(KindOperatorDecl, declStart, s.lastEnd())
	if t, ok := s.peek(); ok && t.kind == tokOperator {
		node.AddChild(tokenNode(KindOperatorToken, s.next()))
	}
	if s.peekIs(":") {
		s.next()
		if t, ok := s.peek(); ok && t.kind == tokIdent && !s.lineBreakBefore() {
			s.next()
		}
	}
	node.SetSpan(declStart, s.lastEnd())
	return node
}

func (s *swiftScanner) scanPrecedenceGroup(declStart int) *Node {
	s.next() // precedencegroup
	node := NewNode(KindPrecedenceGroupDecl, declStart, s.lastEnd())
	if t, ok := s.peek(); ok && t.kind == tokIdent {
		node.AddChild(tokenNode(KindNameToken, s.next()))
	}
	if s.peekIs("{") {
		s.skipBalanced()
	}
	node.SetSpan(declStart, s.lastEnd())
	return node
}

func (s *swiftScanner) scanFunc(declStart int) *Node {
	s.next() // func
	node := NewNode(KindFunctionDecl, declStart, s.lastEnd())
	if t, ok := s.peek(); ok {
		switch t.kind {
		case tokIdent:
			node.AddChild(tokenNode(KindNameToken, s.next()))
		case tokOperator:
			node.AddChild(tokenNode(KindOperatorToken, s.next()))
		}
	}
	s.maybeGenericClause(node)
	if s.peekIs("(") {
		node.AddChild(s.scanParameterClause())
	}
	end := s.scanSignatureTail(node)
	node.SetSpan(declStart, end)
	return node
}

func (s *swiftScanner) scanInit(declStart int) *Node {
	kw := s.next() // init
	node := NewNode(KindInitializerDecl, declStart, kw.end)
	node.AddChild(tokenNode(KindInitKeyword, kw))
	if t, ok := s.peek(); ok && t.kind == tokOperator && (t.text == "?" || t.text == "!") {
		s.next()
	}
	s.maybeGenericClause(node)
	if s.peekIs("(") {
		node.AddChild(s.scanParameterClause())
	}
	end := s.scanSignatureTail(node)
	node.SetSpan(declStart, end)
	return node
}

// scanSignatureTail consumes effect specifiers and the return clause,
// then the body if one follows. Returns the declaration end offset.
func (s *swiftScanner) scanSignatureTail(node *Node) int {
	for !s.eof() {
		t, _ := s.peek()
		if t.kind == tokPunct {
			if t.text == ":" || t.text == "," {
				s.next() // where-clause separators
				continue
			}
			break
		}
		if s.lineBreakBefore() && !strings.HasPrefix(t.text, "-") && t.kind != tokIdent {
			break
		}
		if t.kind == tokIdent {
			switch t.text {
			case "async", "throws", "rethrows", "where":
				s.next()
				continue
			}
			if s.pos > 0 && isReturnContext(s.toks[s.pos-1]) &&
				(!s.lineBreakBefore() || s.toks[s.pos-1].kind == tokOperator) {
				s.next()
				continue
			}
			break
		}
		s.next() // operators inside the return type, e.g. -> [Int: String]
	}
	for s.peekIs("[") || s.peekIs("(") {
		s.skipBalanced() // tuple or collection return types
		for !s.eof() {
			t, _ := s.peek()
			if t.kind == tokOperator || (t.kind == tokIdent && !s.lineBreakBefore()) {
				s.next()
				continue
			}
			break
		}
	}
	if s.peekIs("{") {
		open := s.next()
		body := NewNode(KindCodeBlock, open.start, open.end)
		s.scanBlock(body, blockCode, true)
		end := s.lastEnd()
		if s.peekIs("}") {
			end = s.next().end
		}
		body.SetSpan(open.start, end)
		node.AddChild(body)
		return end
	}
	return s.lastEnd()
}

func isReturnContext(prev token) bool {
	if prev.kind == tokOperator {
		return true
	}
	switch prev.text {
	case "async", "throws", "rethrows", "where", ",", ":":
		return true
	}
	return false
}

// scanParameterClause consumes a parenthesized parameter list. Each
// top-level comma-separated segment becomes a parameter node whose Text
// is the external argument label ("" when unlabeled).
func (s *swiftScanner) scanParameterClause() *Node {
	open := s.next() // "("
	clause := NewNode(KindParameterClause, open.start, open.end)
	depth := 1
	angle := 0
	var seg []token
	segHasColon := false
	flush := func() {
		if len(seg) == 0 {
			return
		}
		param := NewNode(KindParameter, seg[0].start, seg[len(seg)-1].end)
		if segHasColon && seg[0].kind == tokIdent && seg[0].text != "_" {
			param.Text = seg[0].text
		}
		clause.AddChild(param)
		seg = nil
		segHasColon = false
	}
	for !s.eof() {
		t := s.next()
		if t.kind == tokPunct {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
				if depth == 0 {
					flush()
					clause.SetSpan(open.start, t.end)
					return clause
				}
			case ",":
				if depth == 1 && angle == 0 {
					flush()
					continue
				}
			case ":":
				if depth == 1 && angle == 0 {
					segHasColon = true
				}
			}
		}
		if t.kind == tokOperator {
			angle += strings.Count(t.text, "<") - strings.Count(t.text, ">")
			if angle < 0 {
				angle = 0
			}
		}
		seg = append(seg, t)
	}
	flush()
	clause.SetSpan(open.start, s.lastEnd())
	return clause
}

func (s *swiftScanner) scanEnumCase(declStart int) *Node {
	s.next() // case
	decl := NewNode(KindEnumCaseDecl, declStart, s.lastEnd())
	for !s.eof() {
		t, _ := s.peek()
		if t.kind != tokIdent {
			break
		}
		name := s.next()
		elem := NewNode(KindEnumCaseElement, name.start, name.end)
		elem.AddChild(tokenNode(KindNameToken, name))
		if s.peekIs("(") {
			clause := s.scanParameterClause()
			elem.AddChild(clause)
			elem.SetSpan(name.start, clause.End())
		} else if s.peekIs("=") {
			s.next()
			s.consumeExpr(exprStopAtComma)
		}
		decl.AddChild(elem)
		decl.SetSpan(declStart, s.lastEnd())
		if s.peekIs(",") {
			s.next()
			continue
		}
		break
	}
	return decl
}

func (s *swiftScanner) scanVariable(declStart int) *Node {
	kw := s.next() // var or let
	decl := NewNode(KindVariableDecl, declStart, kw.end)
	list := NewNode(KindPatternBindingList, kw.end, kw.end)
	decl.AddChild(list)
	for {
		binding := s.scanPatternBinding()
		if binding == nil {
			break
		}
		list.AddChild(binding)
		if s.peekIs(",") {
			s.next()
			continue
		}
		break
	}
	if kids := list.Children(); len(kids) > 0 {
		list.SetSpan(kids[0].Start(), kids[len(kids)-1].End())
		decl.SetSpan(declStart, kids[len(kids)-1].End())
	}
	return decl
}

func (s *swiftScanner) scanPatternBinding() *Node {
	t, ok := s.peek()
	if !ok {
		return nil
	}
	var pat *Node
	switch {
	case t.kind == tokIdent:
		name := s.next()
		pat = NewNode(KindPattern, name.start, name.end)
		pat.Text = name.text
	case t.kind == tokPunct && t.text == "(":
		start := t.start
		end := s.skipBalanced()
		pat = NewNode(KindPattern, start, end)
		pat.Text = s.src[start:end]
	default:
		return nil
	}
	binding := NewNode(KindPatternBinding, pat.Start(), pat.End())
	binding.AddChild(pat)
	end := binding.End()
	if s.peekIs(":") {
		s.next()
		if e := s.consumeExpr(exprTypeAnnotation); e > end {
			end = e
		}
	}
	if s.peekIs("=") {
		s.next()
		if e := s.consumeExpr(exprStopAtComma | exprConsumeBraces); e > end {
			end = e
		}
	}
	if s.peekIs("{") {
		end = s.skipBalanced() // accessor block
	}
	binding.SetSpan(binding.Start(), end)
	return binding
}

type exprFlags int

const (
	exprStopAtComma exprFlags = 1 << iota
	exprConsumeBraces
	// exprTypeAnnotation stops before "=" and "{" so the caller can
	// hand the initializer or accessor block off separately.
	exprTypeAnnotation exprFlags = exprStopAtComma | 1<<8
)

// consumeExpr swallows one expression or type, balancing brackets.
// Stops without consuming at a top-level closing delimiter, semicolon,
// the configured stop tokens, or a logical end of line. Returns the end
// offset of the last consumed token, or 0 when nothing was consumed.
func (s *swiftScanner) consumeExpr(flags exprFlags) int {
	depth := 0
	end := 0
	typeMode := flags&(1<<8) != 0
	for !s.eof() {
		t, _ := s.peek()
		if depth == 0 {
			if t.kind == tokPunct {
				switch t.text {
				case ")", "]", "}", ";":
					return end
				case ",":
					if flags&exprStopAtComma != 0 {
						return end
					}
				case "{":
					if typeMode || flags&exprConsumeBraces == 0 {
						return end
					}
				}
			}
			if typeMode && t.kind == tokOperator && t.text == "=" {
				return end
			}
			if s.pos > 0 && s.lineBreakBefore() && !continuesExpr(s.toks[s.pos-1], t) {
				return end
			}
		}
		t = s.next()
		if t.kind == tokPunct {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			}
		}
		end = t.end
	}
	return end
}

// continuesExpr reports whether a newline between prev and next still
// belongs to the same expression (trailing operator or leading dot).
func continuesExpr(prev, next token) bool {
	if prev.kind == tokOperator || prev.text == "," || prev.text == ":" || prev.text == "=" {
		return true
	}
	return next.kind == tokOperator && strings.HasPrefix(next.text, ".")
}

// consumeUntilBodyBrace skips an inheritance or where clause, stopping
// before the body brace, a closing brace, or a logical end of line.
func (s *swiftScanner) consumeUntilBodyBrace() {
	consumed := false
	for !s.eof() {
		t, _ := s.peek()
		if t.kind == tokPunct && (t.text == "{" || t.text == "}") {
			return
		}
		if consumed && s.lineBreakBefore() && t.kind == tokIdent && t.text != "where" {
			return
		}
		s.next()
		consumed = true
	}
}

// skipBalanced consumes a bracketed region starting at the current
// opening token and returns the end offset of its closing token.
func (s *swiftScanner) skipBalanced() int {
	depth := 0
	end := s.lastEnd()
	for !s.eof() {
		t := s.next()
		end = t.end
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth <= 0 {
				return end
			}
		}
	}
	return end
}

// maybeGenericClause parses <...> after a declaration name, collecting
// one generic-parameter node per top-level comma-separated segment.
func (s *swiftScanner) maybeGenericClause(parent *Node) {
	t, ok := s.peek()
	if !ok || t.kind != tokOperator || !strings.HasPrefix(t.text, "<") {
		return
	}
	open := s.next()
	depth := strings.Count(open.text, "<") - strings.Count(open.text, ">")
	clause := NewNode(KindGenericParameterClause, open.start, open.end)
	var seg []token
	flush := func() {
		if len(seg) == 0 {
			return
		}
		param := NewNode(KindGenericParameter, seg[0].start, seg[len(seg)-1].end)
		for _, st := range seg {
			if st.kind == tokIdent {
				param.AddChild(tokenNode(KindNameToken, st))
				break
			}
		}
		clause.AddChild(param)
		seg = nil
	}
	for depth > 0 && !s.eof() {
		t := s.next()
		if t.kind == tokOperator {
			depth += strings.Count(t.text, "<") - strings.Count(t.text, ">")
			if depth <= 0 {
				flush()
				clause.SetSpan(clause.Start(), t.end)
				parent.AddChild(clause)
				return
			}
			seg = append(seg, t)
			continue
		}
		if t.kind == tokPunct && t.text == "," && depth == 1 {
			flush()
			continue
		}
		seg = append(seg, t)
	}
	flush()
	clause.SetSpan(clause.Start(), s.lastEnd())
	parent.AddChild(clause)
}
