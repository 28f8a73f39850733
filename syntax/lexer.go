package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokOperator
	tokPunct
	tokString
	tokNumber
)

// token is a trivia-free lexeme with byte offsets into the source.
type token struct {
	kind  tokenKind
	text  string
	start int
	end   int
}

const operatorChars = "/=-+!*%<>&|^~.?#"

func isOperatorChar(r rune) bool {
	return strings.ContainsRune(operatorChars, r)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// lex splits source into tokens, discarding whitespace, line comments,
// nested block comments, and string literal contents. String literals
// collapse to a single token so brace and quote characters inside them
// cannot confuse the declaration scanner.
func lex(src string) []token {
	var toks []token
	i := 0
	n := len(src)
	for i < n {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
		case r == '/' && i+1 < n && src[i+1] == '*':
			depth := 1
			i += 2
			for i < n && depth > 0 {
				if i+1 < n && src[i] == '/' && src[i+1] == '*' {
					depth++
					i += 2
				} else if i+1 < n && src[i] == '*' && src[i+1] == '/' {
					depth--
					i += 2
				} else {
					i++
				}
			}
		case r == '"':
			start := i
			i = scanString(src, i)
			toks = append(toks, token{kind: tokString, text: src[start:i], start: start, end: i})
		case r == '`':
			start := i
			i++
			for i < n && src[i] != '`' && src[i] != '\n' {
				i++
			}
			if i < n && src[i] == '`' {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], start: start, end: i})
		case isIdentStart(r):
			start := i
			for i < n {
				r2, s2 := utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r2) {
					break
				}
				i += s2
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], start: start, end: i})
		case unicode.IsDigit(r):
			start := i
			for i < n {
				r2, s2 := utf8.DecodeRuneInString(src[i:])
				if !isIdentPart(r2) && r2 != '.' {
					break
				}
				if r2 == '.' && i+s2 < n && !isDigitAt(src, i+s2) {
					break
				}
				i += s2
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], start: start, end: i})
		case strings.ContainsRune("(){}[],:;@", r):
			toks = append(toks, token{kind: tokPunct, text: string(r), start: i, end: i + size})
			i += size
		case isOperatorChar(r):
			start := i
			for i < n {
				r2, s2 := utf8.DecodeRuneInString(src[i:])
				if !isOperatorChar(r2) {
					break
				}
				// Leave comment openers for the outer loop.
				if r2 == '/' && i+s2 < n && (src[i+s2] == '/' || src[i+s2] == '*') {
					break
				}
				i += s2
			}
			if i == start {
				i += size
			}
			toks = append(toks, token{kind: tokOperator, text: src[start:i], start: start, end: i})
		default:
			i += size
		}
	}
	return toks
}

func isDigitAt(src string, i int) bool {
	r, _ := utf8.DecodeRuneInString(src[i:])
	return unicode.IsDigit(r)
}

// scanString consumes a string literal starting at i and returns the
// offset just past it. Handles escapes, interpolation parens, and
// triple-quoted multiline literals.
func scanString(src string, i int) int {
	n := len(src)
	if strings.HasPrefix(src[i:], `"""`) {
		i += 3
		for i < n {
			if src[i] == '\\' {
				i += 2
				continue
			}
			if strings.HasPrefix(src[i:], `"""`) {
				return i + 3
			}
			i++
		}
		return n
	}
	i++
	for i < n {
		switch src[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		case '\n':
			// Unterminated single-line literal; stop at the newline.
			return i
		default:
			i++
		}
	}
	return n
}
