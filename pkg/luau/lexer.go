package luau

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// SyntaxError reports a lexing or parsing failure at a source position.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// symbols is ordered longest first so the lexer always takes the longest match.
var symbols = []string{
	"//=", "...", "..=",
	"==", "~=", "<=", ">=", "->", "::", "+=", "-=", "*=", "/=", "%=", "^=", "//", "..",
	"+", "-", "*", "/", "%", "^", "#", "&", "|", "~", "<", ">", "=",
	"(", ")", "{", "}", "[", "]", ";", ":", ",", ".", "?", "@", "!",
}

type lexer struct {
	src    string
	pos    int
	line   int
	column int
}

// Tokenize splits src into tokens. The final token is always EOF and carries
// any trivia left at the end of the input as leading trivia.
func Tokenize(src string) ([]Token, error) {
	lx := &lexer{src: src, line: 1, column: 1}

	var (
		tokens  []Token
		pending []Trivia
	)

	for {
		trivia, err := lx.trivia()
		if err != nil {
			return nil, err
		}

		if len(tokens) > 0 {
			trailing, rest := splitTrailing(trivia)
			tokens[len(tokens)-1].Trailing = trailing
			pending = rest
		} else {
			pending = trivia
		}

		tok, err := lx.next()
		if err != nil {
			return nil, err
		}

		tok.Leading = pending
		tokens = append(tokens, tok)

		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}

// splitTrailing gives everything up to and including the first line break to
// the previous token.
func splitTrailing(trivia []Trivia) ([]Trivia, []Trivia) {
	for i, tr := range trivia {
		if tr.Kind == Newline {
			return trivia[:i+1], trivia[i+1:]
		}
	}

	return trivia, nil
}

func (lx *lexer) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Line: lx.line, Column: lx.column, Message: fmt.Sprintf(format, args...)}
}

func (lx *lexer) peekByte(offset int) byte {
	if lx.pos+offset >= len(lx.src) {
		return 0
	}

	return lx.src[lx.pos+offset]
}

func (lx *lexer) advance(n int) string {
	text := lx.src[lx.pos : lx.pos+n]
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lx.line++
			lx.column = 1
		} else {
			lx.column++
		}
	}

	lx.pos += n

	return text
}

func (lx *lexer) trivia() ([]Trivia, error) {
	var out []Trivia

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch {
		case c == '\n':
			out = append(out, Trivia{Kind: Newline, Text: lx.advance(1)})
		case c == '\r' && lx.peekByte(1) == '\n':
			out = append(out, Trivia{Kind: Newline, Text: lx.advance(2)})
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			n := 0
			for lx.pos+n < len(lx.src) {
				ch := lx.src[lx.pos+n]
				if ch != ' ' && ch != '\t' && ch != '\f' && ch != '\v' && (ch != '\r' || lx.peekByte(n+1) == '\n') {
					break
				}
				n++
			}

			if n == 0 {
				n = 1
			}

			out = append(out, Trivia{Kind: Whitespace, Text: lx.advance(n)})
		case c == '-' && lx.peekByte(1) == '-':
			text, err := lx.comment()
			if err != nil {
				return nil, err
			}

			out = append(out, Trivia{Kind: Comment, Text: text})
		default:
			return out, nil
		}
	}

	return out, nil
}

func (lx *lexer) comment() (string, error) {
	if lx.peekByte(2) == '[' {
		if level, ok := lx.longBracketLevel(2); ok {
			n, err := lx.longBracketLength(2, level)
			if err != nil {
				return "", err
			}

			return lx.advance(n), nil
		}
	}

	n := 2
	for lx.pos+n < len(lx.src) && lx.src[lx.pos+n] != '\n' {
		if lx.src[lx.pos+n] == '\r' && lx.peekByte(n+1) == '\n' {
			break
		}
		n++
	}

	return lx.advance(n), nil
}

// longBracketLevel checks for `[`, `[=`, `[==` ... `[` at offset.
func (lx *lexer) longBracketLevel(offset int) (int, bool) {
	if lx.peekByte(offset) != '[' {
		return 0, false
	}

	level := 0
	for lx.peekByte(offset+1+level) == '=' {
		level++
	}

	return level, lx.peekByte(offset+1+level) == '['
}

// longBracketLength returns the length from the current position to the end
// of the long bracket that opens at offset.
func (lx *lexer) longBracketLength(offset, level int) (int, error) {
	closing := "]" + strings.Repeat("=", level) + "]"
	start := lx.pos + offset + level + 2

	end := strings.Index(lx.src[start:], closing)
	if end < 0 {
		return 0, lx.errorf("unfinished long bracket")
	}

	return start + end + len(closing) - lx.pos, nil
}

func (lx *lexer) next() (Token, error) {
	tok := Token{Offset: lx.pos, Line: lx.line, Column: lx.column}

	if lx.pos >= len(lx.src) {
		tok.Kind = EOF
		return tok, nil
	}

	c := lx.src[lx.pos]

	switch {
	case isNameStart(c):
		n := 1
		for lx.pos+n < len(lx.src) && isNameChar(lx.src[lx.pos+n]) {
			n++
		}

		tok.Kind = Name
		tok.Text = lx.advance(n)
	case isDigit(c) || (c == '.' && isDigit(lx.peekByte(1))):
		tok.Kind = Number
		tok.Text = lx.advance(lx.numberLength())
	case c == '"' || c == '\'':
		n, err := lx.quotedLength(0, c)
		if err != nil {
			return tok, err
		}

		tok.Kind = String
		tok.Text = lx.advance(n)
	case c == '`':
		n, err := lx.interpolatedLength(0)
		if err != nil {
			return tok, err
		}

		tok.Kind = InterpolatedString
		tok.Text = lx.advance(n)
	case c == '[':
		if level, ok := lx.longBracketLevel(0); ok {
			n, err := lx.longBracketLength(0, level)
			if err != nil {
				return tok, err
			}

			tok.Kind = String
			tok.Text = lx.advance(n)

			return tok, nil
		}

		tok.Kind = Symbol
		tok.Text = lx.advance(1)
	default:
		for _, sym := range symbols {
			if strings.HasPrefix(lx.src[lx.pos:], sym) {
				tok.Kind = Symbol
				tok.Text = lx.advance(len(sym))

				return tok, nil
			}
		}

		return tok, lx.errorf("unexpected character %q", c)
	}

	return tok, nil
}

func (lx *lexer) numberLength() int {
	n := 0

	if lx.peekByte(0) == '0' && (lx.peekByte(1) == 'x' || lx.peekByte(1) == 'X' || lx.peekByte(1) == 'b' || lx.peekByte(1) == 'B') {
		n = 2
		for isHexDigit(lx.peekByte(n)) || lx.peekByte(n) == '_' {
			n++
		}

		return n
	}

	for {
		c := lx.peekByte(n)

		switch {
		case isDigit(c) || c == '.' || c == '_':
			n++
		case c == 'e' || c == 'E':
			n++
			if lx.peekByte(n) == '+' || lx.peekByte(n) == '-' {
				n++
			}
		default:
			return n
		}
	}
}

// quotedLength measures a '...' or "..." string starting at offset.
func (lx *lexer) quotedLength(offset int, quote byte) (int, error) {
	n := offset + 1

	for {
		c := lx.peekByte(n)

		switch {
		case lx.pos+n >= len(lx.src) || c == '\n':
			return 0, lx.errorf("unfinished string")
		case c == '\\':
			n += lx.escapeLength(n)
		case c == quote:
			return n + 1 - offset, nil
		default:
			n++
		}
	}
}

// escapeLength measures the escape sequence starting with the backslash at
// offset. A line break may be escaped, and \z also swallows the whitespace
// after it, line breaks included.
func (lx *lexer) escapeLength(offset int) int {
	switch lx.peekByte(offset + 1) {
	case '\r':
		if lx.peekByte(offset+2) == '\n' {
			return 3
		}
	case 'z':
		n := 2
		for lx.pos+offset+n < len(lx.src) && isSpace(lx.peekByte(offset+n)) {
			n++
		}

		return n
	}

	return 2
}

// interpolatedLength measures a backtick string, skipping over the
// expressions inside {} holes including nested strings and braces.
func (lx *lexer) interpolatedLength(offset int) (int, error) {
	n := offset + 1

	for {
		if lx.pos+n >= len(lx.src) {
			return 0, lx.errorf("unfinished interpolated string")
		}

		switch c := lx.peekByte(n); c {
		case '\\':
			n += 2
		case '`':
			return n + 1 - offset, nil
		case '{':
			end, err := lx.holeLength(n)
			if err != nil {
				return 0, err
			}

			n += end
		default:
			n++
		}
	}
}

func (lx *lexer) holeLength(offset int) (int, error) {
	depth := 0
	n := offset

	for lx.pos+n < len(lx.src) {
		switch c := lx.peekByte(n); c {
		case '{':
			depth++
			n++
		case '}':
			depth--
			n++

			if depth == 0 {
				return n - offset, nil
			}
		case '"', '\'':
			length, err := lx.quotedLength(n, c)
			if err != nil {
				return 0, err
			}

			n += length
		case '`':
			length, err := lx.interpolatedLength(n)
			if err != nil {
				return 0, err
			}

			n += length
		default:
			n++
		}
	}

	return 0, lx.errorf("unfinished interpolated string")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Unquote returns the value of a quoted or long-bracket string token.
func Unquote(tok Token) (string, error) {
	if tok.Kind != String {
		return "", fmt.Errorf("token %q is not a string literal", tok.Text)
	}

	text := tok.Text

	if strings.HasPrefix(text, "[") {
		level := strings.Index(text[1:], "[")
		body := text[level+2 : len(text)-level-2]

		// A line break directly after the opening bracket is skipped.
		body = strings.TrimPrefix(body, "\r\n")
		body = strings.TrimPrefix(body, "\n")

		return body, nil
	}

	return unescape(text[1 : len(text)-1])
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, "\\") {
		return s, nil
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}

		i++
		if i >= len(s) {
			return "", fmt.Errorf("dangling escape in %q", s)
		}

		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\\', '"', '\'', '\n':
			b.WriteByte(s[i])
		case '\r':
			b.WriteByte('\n')

			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case 'z':
			for i+1 < len(s) && isSpace(s[i+1]) {
				i++
			}
		case 'x':
			if i+2 >= len(s) || !isHexDigit(s[i+1]) || !isHexDigit(s[i+2]) {
				return "", fmt.Errorf("\\x needs two hex digits in %q", s)
			}

			v, _ := strconv.ParseUint(s[i+1:i+3], 16, 8)
			b.WriteByte(byte(v))

			i += 2
		case 'u':
			end := strings.IndexByte(s[i:], '}')
			if i+1 >= len(s) || s[i+1] != '{' || end < 3 {
				return "", fmt.Errorf("malformed \\u escape in %q", s)
			}

			v, err := strconv.ParseUint(s[i+2:i+end], 16, 32)
			if err != nil || v > unicode.MaxRune {
				return "", fmt.Errorf("invalid code point in \\u escape in %q", s)
			}

			b.WriteRune(rune(v))

			i += end
		default:
			if !isDigit(s[i]) {
				return "", fmt.Errorf("unsupported escape \\%c in %q", s[i], s)
			}

			j := i
			for j < len(s) && j < i+3 && isDigit(s[j]) {
				j++
			}

			v, _ := strconv.Atoi(s[i:j])
			if v > 255 {
				return "", fmt.Errorf("decimal escape too large in %q", s)
			}

			b.WriteByte(byte(v))

			i = j - 1
		}
	}

	return b.String(), nil
}
