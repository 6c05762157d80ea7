// Package luau is a small trivia-preserving lexer and parser for Luau source.
//
// It understands the full statement, expression and type grammar well enough
// to tell well-formed modules from broken ones, to locate top-level type
// declarations and to re-emit any node byte-for-byte. It does not build
// scopes or type-check anything.
package luau

import "strings"

// Kind classifies a token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	Name
	Number
	String
	InterpolatedString
	Symbol
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of file"
	case Name:
		return "name"
	case Number:
		return "number"
	case String:
		return "string"
	case InterpolatedString:
		return "interpolated string"
	case Symbol:
		return "symbol"
	}

	return "unknown"
}

// TriviaKind classifies the non-semantic text around tokens.
type TriviaKind int

// Trivia kinds.
const (
	Whitespace TriviaKind = iota
	Newline
	Comment
)

// Trivia is a run of whitespace, a single line break, or a comment.
type Trivia struct {
	Kind TriviaKind
	Text string
}

// Token is a lexical token together with the trivia that surrounds it.
//
// Trailing trivia runs up to and including the first line break after the
// token; everything else before a token is its leading trivia.
type Token struct {
	Kind     Kind
	Text     string
	Offset   int
	Line     int
	Column   int
	Leading  []Trivia
	Trailing []Trivia
}

// Is reports whether the token is a symbol or name with exactly this text.
func (t Token) Is(text string) bool {
	return (t.Kind == Symbol || t.Kind == Name) && t.Text == text
}

// String renders the token text with all of its trivia.
func (t Token) String() string {
	var b strings.Builder

	writeTrivia(&b, t.Leading)
	b.WriteString(t.Text)
	writeTrivia(&b, t.Trailing)

	return b.String()
}

// LeadingText renders the leading trivia of the token.
func (t Token) LeadingText() string {
	var b strings.Builder

	writeTrivia(&b, t.Leading)

	return b.String()
}

// TrailingText renders the trailing trivia of the token.
func (t Token) TrailingText() string {
	var b strings.Builder

	writeTrivia(&b, t.Trailing)

	return b.String()
}

func writeTrivia(b *strings.Builder, trivia []Trivia) {
	for _, tr := range trivia {
		b.WriteString(tr.Text)
	}
}

var keywords = map[string]struct{}{
	"and": {}, "break": {}, "do": {}, "else": {}, "elseif": {}, "end": {},
	"false": {}, "for": {}, "function": {}, "if": {}, "in": {}, "local": {},
	"nil": {}, "not": {}, "or": {}, "repeat": {}, "return": {}, "then": {},
	"true": {}, "until": {}, "while": {},
}

// IsKeyword reports whether name is a reserved word. Contextual keywords such
// as type, export and continue are not reserved.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}

func (t Token) isIdentifier() bool {
	return t.Kind == Name && !IsKeyword(t.Text)
}
