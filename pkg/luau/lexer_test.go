package luau

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTexts(toks []Token) []string {
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Text)
	}

	return out
}

func TestTokenize_Kinds(t *testing.T) {
	toks, err := Tokenize("local x = 0x1F + 1.5e3 .. 'a' .. `b{c}` //= ...")
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"local", "x", "=", "0x1F", "+", "1.5e3", "..", "'a'", "..", "`b{c}`", "//=", "...", ""},
		tokenTexts(toks))

	kinds := []Kind{Name, Name, Symbol, Number, Symbol, Number, Symbol, String, Symbol, InterpolatedString, Symbol, Symbol, EOF}
	for i, kind := range kinds {
		assert.Equal(t, kind, toks[i].Kind, "token %d (%q)", i, toks[i].Text)
	}
}

func TestTokenize_TriviaOwnership(t *testing.T) {
	src := "-- header\nlocal a = 1 -- trailing\n\n  return a\n"

	toks, err := Tokenize(src)
	require.NoError(t, err)

	require.Equal(t, "local", toks[0].Text)
	assert.Equal(t, "-- header\n", toks[0].LeadingText())

	one := toks[3]
	require.Equal(t, "1", one.Text)
	assert.Equal(t, " -- trailing\n", one.TrailingText())

	ret := toks[4]
	require.Equal(t, "return", ret.Text)
	assert.Equal(t, "\n  ", ret.LeadingText())

	eof := toks[len(toks)-1]
	assert.Equal(t, EOF, eof.Kind)
	assert.Equal(t, "", eof.LeadingText())
	assert.Equal(t, "\n", toks[len(toks)-2].TrailingText())
}

func TestTokenize_Positions(t *testing.T) {
	toks, err := Tokenize("local a\n  = 1")
	require.NoError(t, err)

	assert.Equal(t, 1, toks[1].Line)
	assert.Equal(t, 7, toks[1].Column)
	assert.Equal(t, 2, toks[2].Line)
	assert.Equal(t, 3, toks[2].Column)
}

func TestTokenize_LongBrackets(t *testing.T) {
	src := "--[==[ block\ncomment ]==]\nlocal s = [[line\n]] .. [=[a]]b]=]\n"

	toks, err := Tokenize(src)
	require.NoError(t, err)

	assert.Equal(t, "--[==[ block\ncomment ]==]\n", toks[0].LeadingText())
	assert.Equal(t, "[[line\n]]", toks[3].Text)
	assert.Equal(t, String, toks[3].Kind)
	assert.Equal(t, "[=[a]]b]=]", toks[5].Text)
}

func TestTokenize_EscapedLineBreaks(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"z escape spanning lines", "local s = \"long \\z\n    message\"\n", "\"long \\z\n    message\""},
		{"z escape spanning blank lines", "local s = 'a\\z\r\n\r\n\tb'\n", "'a\\z\r\n\r\n\tb'"},
		{"escaped newline", "local s = \"a\\\nb\"\n", "\"a\\\nb\""},
		{"escaped crlf", "local s = \"a\\\r\nb\"\r\n", "\"a\\\r\nb\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.src)
			require.NoError(t, err)
			require.Len(t, toks, 5)
			assert.Equal(t, tt.want, toks[3].Text)
			assert.Equal(t, EOF, toks[4].Kind)
			assert.Greater(t, toks[4].Line, toks[3].Line+1)
		})
	}

	chunk, err := Parse("export type A = number\nlocal msg = \"long \\z\n    message\"\nreturn { msg = msg }\n")
	require.NoError(t, err)
	assert.Len(t, chunk.Stmts, 3)
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		column  int
		message string
	}{
		{"unfinished string", "local s = \"abc", 1, 11, "unfinished string"},
		{"string broken by newline", "local s = 'a\nb'", 1, 11, "unfinished string"},
		{"unfinished long string", "local s = [[abc", 1, 11, "unfinished long bracket"},
		{"unfinished long comment", "--[[ never closed", 1, 1, "unfinished long bracket"},
		{"unfinished interpolation", "local s = `a{b`", 1, 11, "unfinished interpolated string"},
		{"unknown character", "local $ = 1", 1, 7, "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.line, syntaxErr.Line)
			assert.Equal(t, tt.column, syntaxErr.Column)
			assert.Contains(t, syntaxErr.Message, tt.message)
		})
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{`"acme_foo@1.0.0"`, "acme_foo@1.0.0"},
		{`'it\'s'`, "it's"},
		{`"a\nb\tc\\"`, "a\nb\tc\\"},
		{`"long \z
    message"`, "long message"},
		{"\"a\\\r\nb\"", "a\nb"},
		{`"\x41\x6a"`, "Aj"},
		{`"\65\066\0067"`, "AB\x067"},
		{`"\u{48}\u{e9}\u{1F600}"`, "H\u00e9\U0001F600"},
		{"[[foo]]", "foo"},
		{"[==[\nfoo]]bar]==]", "foo]]bar"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := Unquote(Token{Kind: String, Text: tt.text})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Unquote(Token{Kind: Name, Text: "foo"})
	require.Error(t, err)

	for _, bad := range []string{`"\q"`, `"\x4"`, `"\xZZ"`, `"\u{}"`, `"\u41"`, `"\u{110000}"`, `"\256"`} {
		_, err = Unquote(Token{Kind: String, Text: bad})
		assert.Error(t, err, bad)
	}
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, IsKeyword("local"))
	assert.True(t, IsKeyword("function"))
	assert.False(t, IsKeyword("type"))
	assert.False(t, IsKeyword("export"))
	assert.False(t, IsKeyword("continue"))
}
