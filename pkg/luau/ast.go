package luau

import "strings"

// Span addresses a node as the half-open token range [Start, End) of its chunk.
type Span struct {
	Start int
	End   int
}

// Node is implemented by every statement, expression and type.
type Node interface {
	NodeSpan() Span
}

// NodeSpan returns the span itself so that embedding Span satisfies Node.
func (s Span) NodeSpan() Span {
	return s
}

// Chunk is a parsed source file. Tokens holds every token including the
// final EOF, so rendering all tokens reproduces the input exactly.
type Chunk struct {
	Tokens []Token
	Stmts  []Stmt
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Type is a type annotation node.
type Type interface {
	Node
	typeNode()
}

// StmtKind labels statements the parser does not model in detail.
type StmtKind string

// Statement kinds of OtherStmt.
const (
	StmtAssign        StmtKind = "assignment"
	StmtCall          StmtKind = "call"
	StmtDo            StmtKind = "do"
	StmtWhile         StmtKind = "while"
	StmtRepeat        StmtKind = "repeat"
	StmtIf            StmtKind = "if"
	StmtFor           StmtKind = "for"
	StmtFunction      StmtKind = "function"
	StmtLocalFunction StmtKind = "local function"
	StmtBreak         StmtKind = "break"
	StmtContinue      StmtKind = "continue"
	StmtEmpty         StmtKind = "empty"
)

type (
	// ReturnStmt is `return a, b`.
	ReturnStmt struct {
		Span
		Values []Expr
	}

	// LocalStmt is `local a: T, b = x, y`.
	LocalStmt struct {
		Span
		Names  []Token
		Values []Expr
	}

	// TypeStmt is `[export] type Name<...> = T` or `[export] type function Name ...`.
	TypeStmt struct {
		Span
		Exported bool
		Function bool
		Name     Token
		Generics []GenericParam
		Value    Type
	}

	// OtherStmt is any statement whose inner structure nothing needs.
	OtherStmt struct {
		Span
		Kind StmtKind
	}
)

func (*ReturnStmt) stmtNode() {}
func (*LocalStmt) stmtNode()  {}
func (*TypeStmt) stmtNode()   {}
func (*OtherStmt) stmtNode()  {}

// GenericParam is one entry of a generic declaration list: `T`, `T = U`,
// `T...` or `T... = ...U`.
type GenericParam struct {
	Span
	Name    Token
	Pack    bool
	Default Type
}

// ArgStyle says how the arguments of a call were written.
type ArgStyle int

// Call argument styles.
const (
	ArgsParens ArgStyle = iota
	ArgsString
	ArgsTable
)

// ExprKind labels expressions modeled only by their span.
type ExprKind string

// Expression kinds of OtherExpr.
const (
	ExprNumber       ExprKind = "number"
	ExprNil          ExprKind = "nil"
	ExprBoolean      ExprKind = "boolean"
	ExprVarargs      ExprKind = "varargs"
	ExprTable        ExprKind = "table"
	ExprFunction     ExprKind = "function"
	ExprBinary       ExprKind = "binary"
	ExprUnary        ExprKind = "unary"
	ExprIf           ExprKind = "if"
	ExprInterpolated ExprKind = "interpolated string"
)

type (
	// NameExpr is a bare identifier.
	NameExpr struct {
		Span
		Name Token
	}

	// StringExpr is a quoted or long-bracket string literal.
	StringExpr struct {
		Span
		Value Token
	}

	// IndexExpr is `obj.Field` (Key nil) or `obj[key]`.
	IndexExpr struct {
		Span
		Object Expr
		Field  Token
		Key    Expr
	}

	// CallExpr is `f(args)`, `f "s"`, `f {t}` or the method form `obj:m(args)`.
	CallExpr struct {
		Span
		Callee Expr
		Method *Token
		Style  ArgStyle
		Args   []Expr
	}

	// ParenExpr is `(inner)`.
	ParenExpr struct {
		Span
		Inner Expr
	}

	// AssertExpr is `inner :: T`.
	AssertExpr struct {
		Span
		Inner Expr
		Type  Type
	}

	// OtherExpr is any expression whose inner structure nothing needs.
	OtherExpr struct {
		Span
		Kind ExprKind
	}
)

func (*NameExpr) exprNode()   {}
func (*StringExpr) exprNode() {}
func (*IndexExpr) exprNode()  {}
func (*CallExpr) exprNode()   {}
func (*ParenExpr) exprNode()  {}
func (*AssertExpr) exprNode() {}
func (*OtherExpr) exprNode()  {}

type (
	// NamedType is `Name`, `Module.Name` or either with `<params>`.
	NamedType struct {
		Span
		Module *Token
		Name   Token
		Params []Type
	}

	// SingletonType is a string or boolean literal type.
	SingletonType struct {
		Span
		Value Token
	}

	// TypeofType is `typeof(expr)`.
	TypeofType struct {
		Span
	}

	// TableType is `{ ... }` with properties, an indexer or an array element.
	TableType struct {
		Span
		Fields []TableTypeField
	}

	// FunctionType is `<G>(params) -> returns`.
	FunctionType struct {
		Span
		Generics []GenericParam
		Params   []Type
		Returns  Type
	}

	// UnionType is `A | B` or, with Intersection set, `A & B`.
	UnionType struct {
		Span
		Intersection bool
		Parts        []Type
	}

	// OptionalType is `T?`.
	OptionalType struct {
		Span
		Inner Type
	}

	// ParenType is `(T)`.
	ParenType struct {
		Span
		Inner Type
	}

	// PackType is a type pack `(A, B, ...C)`.
	PackType struct {
		Span
		Types []Type
	}

	// VariadicType is `...T`.
	VariadicType struct {
		Span
		Inner Type
	}

	// GenericPackType is a reference to a generic pack `T...`.
	GenericPackType struct {
		Span
		Name Token
	}
)

// TableTypeField is one property (Key nil, Name set), indexer (Key set) or
// array element (both unset) of a table type.
type TableTypeField struct {
	Name  *Token
	Key   Type
	Value Type
}

func (*NamedType) typeNode()       {}
func (*SingletonType) typeNode()   {}
func (*TypeofType) typeNode()      {}
func (*TableType) typeNode()       {}
func (*FunctionType) typeNode()    {}
func (*UnionType) typeNode()       {}
func (*OptionalType) typeNode()    {}
func (*ParenType) typeNode()       {}
func (*PackType) typeNode()        {}
func (*VariadicType) typeNode()    {}
func (*GenericPackType) typeNode() {}

// Text renders the tokens of a node with all of their trivia.
func (c *Chunk) Text(n Node) string {
	span := n.NodeSpan()

	var b strings.Builder

	for _, tok := range c.Tokens[span.Start:span.End] {
		b.WriteString(tok.String())
	}

	return b.String()
}

// TrimmedText renders a node without the leading trivia of its first token
// and the trailing trivia of its last token.
func (c *Chunk) TrimmedText(n Node) string {
	span := n.NodeSpan()
	if span.End <= span.Start {
		return ""
	}

	var b strings.Builder

	for i := span.Start; i < span.End; i++ {
		tok := c.Tokens[i]

		if i != span.Start {
			writeTrivia(&b, tok.Leading)
		}

		b.WriteString(tok.Text)

		if i != span.End-1 {
			writeTrivia(&b, tok.Trailing)
		}
	}

	return b.String()
}

// Leading returns the leading trivia of the first token of a node.
func (c *Chunk) Leading(n Node) string {
	return c.Tokens[n.NodeSpan().Start].LeadingText()
}

// Tail returns the trivia after the last statement: the trailing trivia of
// the last real token followed by whatever precedes EOF.
func (c *Chunk) Tail() string {
	eof := c.Tokens[len(c.Tokens)-1]
	if len(c.Tokens) == 1 {
		return eof.LeadingText()
	}

	return c.Tokens[len(c.Tokens)-2].TrailingText() + eof.LeadingText()
}

// String renders the whole chunk; it always equals the parsed input.
func (c *Chunk) String() string {
	var b strings.Builder

	for _, tok := range c.Tokens {
		b.WriteString(tok.String())
	}

	return b.String()
}

// WalkType calls fn for t and, while fn returns true, for every type nested
// inside it, in source order.
func WalkType(t Type, fn func(Type) bool) {
	if t == nil || !fn(t) {
		return
	}

	switch n := t.(type) {
	case *NamedType:
		for _, p := range n.Params {
			WalkType(p, fn)
		}
	case *TableType:
		for _, f := range n.Fields {
			WalkType(f.Key, fn)
			WalkType(f.Value, fn)
		}
	case *FunctionType:
		for _, g := range n.Generics {
			WalkType(g.Default, fn)
		}

		for _, p := range n.Params {
			WalkType(p, fn)
		}

		WalkType(n.Returns, fn)
	case *UnionType:
		for _, p := range n.Parts {
			WalkType(p, fn)
		}
	case *OptionalType:
		WalkType(n.Inner, fn)
	case *ParenType:
		WalkType(n.Inner, fn)
	case *PackType:
		for _, p := range n.Types {
			WalkType(p, fn)
		}
	case *VariadicType:
		WalkType(n.Inner, fn)
	}
}
