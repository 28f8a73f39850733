package syntax

// Parser converts file contents into a declaration tree.
type Parser interface {
	Parse(content string, filePath string) (*Tree, error)
	Language() string
}

// Tree is the result of one parse. Node offsets refer to the snapshot
// text the parser was given.
type Tree struct {
	Root *Node
}

// Roots returns the forest handed to symbol extraction. The file node
// denotes no symbol itself, so extraction descends straight into it.
func (t *Tree) Roots() []*Node {
	if t == nil || t.Root == nil {
		return nil
	}
	return []*Node{t.Root}
}

// ParserRegistry keeps parser implementations keyed by language ID.
type ParserRegistry struct {
	parsers map[string]Parser
}

// NewParserRegistry constructs a registry with the built-in parsers.
func NewParserRegistry() *ParserRegistry {
	pr := &ParserRegistry{parsers: make(map[string]Parser)}
	pr.Register(NewSwiftParser())
	return pr
}

// Register adds a parser keyed by its Language.
func (pr *ParserRegistry) Register(parser Parser) {
	if parser == nil {
		return
	}
	pr.parsers[parser.Language()] = parser
}

// GetParser retrieves a parser by language identifier.
func (pr *ParserRegistry) GetParser(language string) (Parser, bool) {
	parser, ok := pr.parsers[language]
	return parser, ok
}

// SupportedLanguages returns all registered languages.
func (pr *ParserRegistry) SupportedLanguages() []string {
	langs := make([]string, 0, len(pr.parsers))
	for lang := range pr.parsers {
		langs = append(langs, lang)
	}
	return langs
}
