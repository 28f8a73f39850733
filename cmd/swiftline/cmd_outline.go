package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.lsp.dev/protocol"

	"github.com/lexcodex/swiftline/config"
	"github.com/lexcodex/swiftline/outline"
	"github.com/lexcodex/swiftline/syntax"
	"github.com/lexcodex/swiftline/textdoc"
)

func newOutlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outline <file>",
		Short: "Print the symbol outline of a Swift file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			symbols, _, err := extractFile(cfg, args[0])
			if err != nil {
				return err
			}
			printSymbols(cmd.OutOrStdout(), symbols, 0)
			return nil
		},
	}
}

// extractFile parses one file from disk and extracts its outline.
// Returns the symbols plus the text that was parsed.
func extractFile(cfg *config.Config, path string) ([]protocol.DocumentSymbol, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.Size() > cfg.MaxFileSize {
		return nil, "", fmt.Errorf("%s exceeds max file size (%d bytes)", path, cfg.MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	text := string(data)
	parser := syntax.NewSwiftParser()
	tree, err := parser.Parse(text, path)
	if err != nil {
		return nil, "", err
	}
	symbols := outline.Find(tree.Roots(), textdoc.NewLineTable(text))
	return symbols, text, nil
}

func printSymbols(w io.Writer, symbols []protocol.DocumentSymbol, depth int) {
	for i := range symbols {
		sym := &symbols[i]
		fmt.Fprintf(w, "%s%-14s %s  [%d:%d-%d:%d]\n",
			strings.Repeat("  ", depth),
			kindName(sym.Kind),
			sym.Name,
			sym.Range.Start.Line+1, sym.Range.Start.Character+1,
			sym.Range.End.Line+1, sym.Range.End.Character+1,
		)
		printSymbols(w, sym.Children, depth+1)
	}
}

func kindName(kind protocol.SymbolKind) string {
	switch kind {
	case protocol.SymbolKindClass:
		return "class"
	case protocol.SymbolKindStruct:
		return "struct"
	case protocol.SymbolKindEnum:
		return "enum"
	case protocol.SymbolKindEnumMember:
		return "enum-member"
	case protocol.SymbolKindInterface:
		return "interface"
	case protocol.SymbolKindNamespace:
		return "extension"
	case protocol.SymbolKindFunction:
		return "function"
	case protocol.SymbolKindMethod:
		return "method"
	case protocol.SymbolKindConstructor:
		return "constructor"
	case protocol.SymbolKindOperator:
		return "operator"
	case protocol.SymbolKindProperty:
		return "property"
	case protocol.SymbolKindVariable:
		return "variable"
	case protocol.SymbolKindTypeParameter:
		return "type-param"
	default:
		return fmt.Sprintf("kind(%d)", int(kind))
	}
}
