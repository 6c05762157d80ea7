package luau

import "fmt"

type parser struct {
	toks []Token
	pos  int
}

// Parse tokenizes and parses a complete Luau chunk.
func Parse(src string) (*Chunk, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: toks}

	stmts, err := p.block()
	if err != nil {
		return nil, err
	}

	if p.cur().Kind != EOF {
		return nil, p.errorf("expected end of file, got %s", p.describe())
	}

	return &Chunk{Tokens: p.toks, Stmts: stmts}, nil
}

func (p *parser) cur() Token {
	return p.toks[p.pos]
}

func (p *parser) peek(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}

	return p.toks[p.pos+n]
}

func (p *parser) check(text string) bool {
	return p.cur().Is(text)
}

func (p *parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}

	return tok
}

func (p *parser) accept(text string) bool {
	if p.check(text) {
		p.advance()
		return true
	}

	return false
}

func (p *parser) expect(text string) error {
	if !p.accept(text) {
		return p.errorf("expected '%s', got %s", text, p.describe())
	}

	return nil
}

func (p *parser) identifier() (Token, error) {
	tok := p.cur()
	if !tok.isIdentifier() {
		return tok, p.errorf("expected identifier, got %s", p.describe())
	}

	p.advance()

	return tok, nil
}

func (p *parser) describe() string {
	tok := p.cur()
	if tok.Kind == EOF {
		return "end of file"
	}

	return fmt.Sprintf("'%s'", tok.Text)
}

func (p *parser) errorf(format string, args ...interface{}) error {
	tok := p.cur()
	return &SyntaxError{Line: tok.Line, Column: tok.Column, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) span(start int) Span {
	return Span{Start: start, End: p.pos}
}

func (p *parser) blockEnd() bool {
	tok := p.cur()
	return tok.Kind == EOF || tok.Is("end") || tok.Is("else") || tok.Is("elseif") || tok.Is("until")
}

func (p *parser) block() ([]Stmt, error) {
	var stmts []Stmt

	for !p.blockEnd() {
		if p.check("return") {
			stmt, err := p.returnStmt()
			if err != nil {
				return nil, err
			}

			stmts = append(stmts, stmt)

			if !p.blockEnd() {
				return nil, p.errorf("expected end of block after return, got %s", p.describe())
			}

			break
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
	}

	return stmts, nil
}

func (p *parser) returnStmt() (*ReturnStmt, error) {
	start := p.pos
	p.advance()

	var (
		values []Expr
		err    error
	)

	if !p.blockEnd() && !p.check(";") {
		values, err = p.exprList()
		if err != nil {
			return nil, err
		}
	}

	p.accept(";")

	return &ReturnStmt{Span: p.span(start), Values: values}, nil
}

func (p *parser) statement() (Stmt, error) {
	start := p.pos
	tok := p.cur()

	var (
		stmt Stmt
		err  error
	)

	switch {
	case tok.Is(";"):
		p.advance()
		return &OtherStmt{Span: p.span(start), Kind: StmtEmpty}, nil
	case tok.Is("local"):
		stmt, err = p.localStmt()
	case tok.Is("function"):
		stmt, err = p.functionStmt()
	case tok.Is("@"):
		stmt, err = p.attributedFunction()
	case tok.Is("if"):
		stmt, err = p.ifStmt()
	case tok.Is("while"):
		stmt, err = p.whileStmt()
	case tok.Is("repeat"):
		stmt, err = p.repeatStmt()
	case tok.Is("for"):
		stmt, err = p.forStmt()
	case tok.Is("do"):
		p.advance()

		if _, err = p.block(); err == nil {
			err = p.expect("end")
		}

		stmt = &OtherStmt{Kind: StmtDo}
	case tok.Is("break"):
		p.advance()
		stmt = &OtherStmt{Kind: StmtBreak}
	case tok.Is("continue") && p.continueStatement():
		p.advance()
		stmt = &OtherStmt{Kind: StmtContinue}
	case p.typeStatement():
		stmt, err = p.typeStmt()
	default:
		stmt, err = p.exprStmt()
	}

	if err != nil {
		return nil, err
	}

	p.accept(";")
	setSpan(stmt, p.span(start))

	return stmt, nil
}

func setSpan(stmt Stmt, span Span) {
	switch s := stmt.(type) {
	case *ReturnStmt:
		s.Span = span
	case *LocalStmt:
		s.Span = span
	case *TypeStmt:
		s.Span = span
	case *OtherStmt:
		s.Span = span
	}
}

// continueStatement tells `continue` the statement apart from a variable
// that happens to be called continue.
func (p *parser) continueStatement() bool {
	next := p.peek(1)
	if next.Kind == String || next.Kind == InterpolatedString {
		return false
	}

	for _, sym := range []string{"(", ".", "[", ":", "=", ",", "{", "+=", "-=", "*=", "/=", "//=", "%=", "^=", "..="} {
		if next.Is(sym) {
			return false
		}
	}

	return true
}

func (p *parser) typeStatement() bool {
	offset := 0
	if p.check("export") {
		offset = 1
	}

	if !p.peek(offset).Is("type") {
		return false
	}

	next := p.peek(offset + 1)
	if next.Is("function") {
		return p.peek(offset + 2).isIdentifier()
	}

	return next.isIdentifier()
}

func (p *parser) localStmt() (Stmt, error) {
	p.advance()

	if p.accept("function") {
		if _, err := p.identifier(); err != nil {
			return nil, err
		}

		if err := p.funcBody(); err != nil {
			return nil, err
		}

		return &OtherStmt{Kind: StmtLocalFunction}, nil
	}

	var names []Token

	for {
		name, err := p.binding()
		if err != nil {
			return nil, err
		}

		names = append(names, name)

		if !p.accept(",") {
			break
		}
	}

	stmt := &LocalStmt{Names: names}

	if p.accept("=") {
		values, err := p.exprList()
		if err != nil {
			return nil, err
		}

		stmt.Values = values
	}

	return stmt, nil
}

// binding parses `name [: Type]`.
func (p *parser) binding() (Token, error) {
	name, err := p.identifier()
	if err != nil {
		return name, err
	}

	if p.accept(":") {
		if _, err := p.typ(); err != nil {
			return name, err
		}
	}

	return name, nil
}

func (p *parser) functionStmt() (Stmt, error) {
	p.advance()

	if _, err := p.identifier(); err != nil {
		return nil, err
	}

	for p.accept(".") {
		if _, err := p.identifier(); err != nil {
			return nil, err
		}
	}

	if p.accept(":") {
		if _, err := p.identifier(); err != nil {
			return nil, err
		}
	}

	if err := p.funcBody(); err != nil {
		return nil, err
	}

	return &OtherStmt{Kind: StmtFunction}, nil
}

func (p *parser) attributes() error {
	for p.accept("@") {
		if p.accept("[") {
			if err := p.attributeList(); err != nil {
				return err
			}

			continue
		}

		if p.cur().Kind != Name {
			return p.errorf("expected attribute name, got %s", p.describe())
		}

		p.advance()
	}

	return nil
}

// attributeList parses the body of `@[name, name(args), ...]` up to and
// including the closing bracket.
func (p *parser) attributeList() error {
	for !p.check("]") {
		if p.cur().Kind != Name {
			return p.errorf("expected attribute name, got %s", p.describe())
		}

		p.advance()

		switch {
		case p.cur().Kind == String:
			p.advance()
		case p.check("{"):
			if err := p.table(); err != nil {
				return err
			}
		case p.check("("):
			if _, err := p.callArgs(p.pos, nil); err != nil {
				return err
			}
		}

		if !p.accept(",") {
			break
		}
	}

	return p.expect("]")
}

func (p *parser) attributedFunction() (Stmt, error) {
	if err := p.attributes(); err != nil {
		return nil, err
	}

	switch {
	case p.check("function"):
		return p.functionStmt()
	case p.check("local") && p.peek(1).Is("function"):
		return p.localStmt()
	}

	return nil, p.errorf("expected function after attribute, got %s", p.describe())
}

func (p *parser) funcBody() error {
	if p.check("<") {
		if _, err := p.genericList(); err != nil {
			return err
		}
	}

	if err := p.expect("("); err != nil {
		return err
	}

	for !p.check(")") {
		if p.accept("...") {
			if p.accept(":") {
				if _, err := p.typ(); err != nil {
					return err
				}
			}

			break
		}

		if _, err := p.binding(); err != nil {
			return err
		}

		if !p.accept(",") {
			break
		}
	}

	if err := p.expect(")"); err != nil {
		return err
	}

	if p.accept(":") {
		if _, err := p.typ(); err != nil {
			return err
		}
	}

	if _, err := p.block(); err != nil {
		return err
	}

	return p.expect("end")
}

func (p *parser) ifStmt() (Stmt, error) {
	p.advance()

	if err := p.condBlock(); err != nil {
		return nil, err
	}

	for p.accept("elseif") {
		if err := p.condBlock(); err != nil {
			return nil, err
		}
	}

	if p.accept("else") {
		if _, err := p.block(); err != nil {
			return nil, err
		}
	}

	if err := p.expect("end"); err != nil {
		return nil, err
	}

	return &OtherStmt{Kind: StmtIf}, nil
}

func (p *parser) condBlock() error {
	if _, err := p.expr(); err != nil {
		return err
	}

	if err := p.expect("then"); err != nil {
		return err
	}

	_, err := p.block()

	return err
}

func (p *parser) whileStmt() (Stmt, error) {
	p.advance()

	if _, err := p.expr(); err != nil {
		return nil, err
	}

	if err := p.doBlock(); err != nil {
		return nil, err
	}

	return &OtherStmt{Kind: StmtWhile}, nil
}

func (p *parser) doBlock() error {
	if err := p.expect("do"); err != nil {
		return err
	}

	if _, err := p.block(); err != nil {
		return err
	}

	return p.expect("end")
}

func (p *parser) repeatStmt() (Stmt, error) {
	p.advance()

	if _, err := p.block(); err != nil {
		return nil, err
	}

	if err := p.expect("until"); err != nil {
		return nil, err
	}

	if _, err := p.expr(); err != nil {
		return nil, err
	}

	return &OtherStmt{Kind: StmtRepeat}, nil
}

func (p *parser) forStmt() (Stmt, error) {
	p.advance()

	if _, err := p.binding(); err != nil {
		return nil, err
	}

	if p.accept("=") {
		if _, err := p.expr(); err != nil {
			return nil, err
		}

		if err := p.expect(","); err != nil {
			return nil, err
		}

		if _, err := p.expr(); err != nil {
			return nil, err
		}

		if p.accept(",") {
			if _, err := p.expr(); err != nil {
				return nil, err
			}
		}
	} else {
		for p.accept(",") {
			if _, err := p.binding(); err != nil {
				return nil, err
			}
		}

		if err := p.expect("in"); err != nil {
			return nil, err
		}

		if _, err := p.exprList(); err != nil {
			return nil, err
		}
	}

	if err := p.doBlock(); err != nil {
		return nil, err
	}

	return &OtherStmt{Kind: StmtFor}, nil
}

func (p *parser) typeStmt() (Stmt, error) {
	stmt := &TypeStmt{Exported: p.accept("export")}

	if err := p.expect("type"); err != nil {
		return nil, err
	}

	if p.accept("function") {
		name, err := p.identifier()
		if err != nil {
			return nil, err
		}

		stmt.Name = name
		stmt.Function = true

		return stmt, p.funcBody()
	}

	name, err := p.identifier()
	if err != nil {
		return nil, err
	}

	stmt.Name = name

	if p.check("<") {
		generics, err := p.genericList()
		if err != nil {
			return nil, err
		}

		stmt.Generics = generics
	}

	if err := p.expect("="); err != nil {
		return nil, err
	}

	value, err := p.typ()
	if err != nil {
		return nil, err
	}

	stmt.Value = value

	return stmt, nil
}

var compoundAssignments = []string{"+=", "-=", "*=", "/=", "//=", "%=", "^=", "..="}

func (p *parser) exprStmt() (Stmt, error) {
	target, err := p.suffixedExpr()
	if err != nil {
		return nil, err
	}

	if p.check("=") || p.check(",") {
		for p.accept(",") {
			if _, err := p.suffixedExpr(); err != nil {
				return nil, err
			}
		}

		if err := p.expect("="); err != nil {
			return nil, err
		}

		if _, err := p.exprList(); err != nil {
			return nil, err
		}

		return &OtherStmt{Kind: StmtAssign}, nil
	}

	for _, op := range compoundAssignments {
		if p.accept(op) {
			if _, err := p.expr(); err != nil {
				return nil, err
			}

			return &OtherStmt{Kind: StmtAssign}, nil
		}
	}

	if _, ok := target.(*CallExpr); !ok {
		return nil, p.errorf("expected statement, got %s", p.describe())
	}

	return &OtherStmt{Kind: StmtCall}, nil
}

func (p *parser) exprList() ([]Expr, error) {
	var exprs []Expr

	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, e)

		if !p.accept(",") {
			return exprs, nil
		}
	}
}

const unaryPriority = 8

var binaryPriority = map[string][2]int{
	"+": {6, 6}, "-": {6, 6},
	"*": {7, 7}, "/": {7, 7}, "//": {7, 7}, "%": {7, 7},
	"^":  {10, 9},
	"..": {5, 4},
	"==": {3, 3}, "~=": {3, 3}, "<": {3, 3}, "<=": {3, 3}, ">": {3, 3}, ">=": {3, 3},
	"and": {2, 2},
	"or":  {1, 1},
}

func (p *parser) binaryOp() ([2]int, bool) {
	tok := p.cur()
	if tok.Kind != Symbol && tok.Kind != Name {
		return [2]int{}, false
	}

	prio, ok := binaryPriority[tok.Text]

	return prio, ok
}

func (p *parser) expr() (Expr, error) {
	return p.subExpr(0)
}

func (p *parser) subExpr(limit int) (Expr, error) {
	start := p.pos

	var (
		left Expr
		err  error
	)

	if p.check("not") || p.check("-") || p.check("#") {
		p.advance()

		if _, err = p.subExpr(unaryPriority); err != nil {
			return nil, err
		}

		left = &OtherExpr{Span: p.span(start), Kind: ExprUnary}
	} else {
		left, err = p.simpleExpr()
		if err != nil {
			return nil, err
		}
	}

	for {
		prio, ok := p.binaryOp()
		if !ok || prio[0] <= limit {
			return left, nil
		}

		p.advance()

		if _, err := p.subExpr(prio[1]); err != nil {
			return nil, err
		}

		left = &OtherExpr{Span: p.span(start), Kind: ExprBinary}
	}
}

func (p *parser) simpleExpr() (Expr, error) {
	start := p.pos
	tok := p.cur()

	var (
		e   Expr
		err error
	)

	switch {
	case tok.Kind == Number:
		p.advance()
		e = &OtherExpr{Span: p.span(start), Kind: ExprNumber}
	case tok.Kind == String:
		p.advance()
		e = &StringExpr{Span: p.span(start), Value: tok}
	case tok.Kind == InterpolatedString:
		p.advance()
		e = &OtherExpr{Span: p.span(start), Kind: ExprInterpolated}
	case tok.Is("nil"):
		p.advance()
		e = &OtherExpr{Span: p.span(start), Kind: ExprNil}
	case tok.Is("true") || tok.Is("false"):
		p.advance()
		e = &OtherExpr{Span: p.span(start), Kind: ExprBoolean}
	case tok.Is("..."):
		p.advance()
		e = &OtherExpr{Span: p.span(start), Kind: ExprVarargs}
	case tok.Is("{"):
		if err = p.table(); err != nil {
			return nil, err
		}

		e = &OtherExpr{Span: p.span(start), Kind: ExprTable}
	case tok.Is("@") || tok.Is("function"):
		if err = p.attributes(); err != nil {
			return nil, err
		}

		if err = p.expect("function"); err != nil {
			return nil, err
		}

		if err = p.funcBody(); err != nil {
			return nil, err
		}

		e = &OtherExpr{Span: p.span(start), Kind: ExprFunction}
	case tok.Is("if"):
		if err = p.ifExpr(); err != nil {
			return nil, err
		}

		e = &OtherExpr{Span: p.span(start), Kind: ExprIf}
	default:
		e, err = p.suffixedExpr()
		if err != nil {
			return nil, err
		}
	}

	for p.accept("::") {
		t, err := p.typ()
		if err != nil {
			return nil, err
		}

		e = &AssertExpr{Span: p.span(start), Inner: e, Type: t}
	}

	return e, nil
}

func (p *parser) ifExpr() error {
	p.advance()

	for {
		if _, err := p.expr(); err != nil {
			return err
		}

		if err := p.expect("then"); err != nil {
			return err
		}

		if _, err := p.expr(); err != nil {
			return err
		}

		if !p.accept("elseif") {
			break
		}
	}

	if err := p.expect("else"); err != nil {
		return err
	}

	_, err := p.expr()

	return err
}

func (p *parser) suffixedExpr() (Expr, error) {
	start := p.pos
	tok := p.cur()

	var e Expr

	switch {
	case tok.isIdentifier():
		p.advance()
		e = &NameExpr{Span: p.span(start), Name: tok}
	case tok.Is("("):
		p.advance()

		inner, err := p.expr()
		if err != nil {
			return nil, err
		}

		if err := p.expect(")"); err != nil {
			return nil, err
		}

		e = &ParenExpr{Span: p.span(start), Inner: inner}
	default:
		return nil, p.errorf("unexpected %s", p.describe())
	}

	for {
		tok := p.cur()

		switch {
		case tok.Is("."):
			p.advance()

			field := p.cur()
			if field.Kind != Name {
				return nil, p.errorf("expected field name, got %s", p.describe())
			}

			p.advance()
			e = &IndexExpr{Span: p.span(start), Object: e, Field: field}
		case tok.Is("["):
			p.advance()

			key, err := p.expr()
			if err != nil {
				return nil, err
			}

			if err := p.expect("]"); err != nil {
				return nil, err
			}

			e = &IndexExpr{Span: p.span(start), Object: e, Key: key}
		case tok.Is(":"):
			p.advance()

			method := p.cur()
			if method.Kind != Name {
				return nil, p.errorf("expected method name, got %s", p.describe())
			}

			p.advance()

			if err := p.typeInstantiation(); err != nil {
				return nil, err
			}

			call, err := p.callArgs(start, e)
			if err != nil {
				return nil, err
			}

			call.Method = &method
			e = call
		case tok.Is("<") && p.peek(1).Is("<"):
			if err := p.typeInstantiation(); err != nil {
				return nil, err
			}

			call, err := p.callArgs(start, e)
			if err != nil {
				return nil, err
			}

			e = call
		case tok.Is("(") || tok.Is("{") || tok.Kind == String:
			call, err := p.callArgs(start, e)
			if err != nil {
				return nil, err
			}

			e = call
		default:
			return e, nil
		}
	}
}

// typeInstantiation skips explicit type arguments such as `<<number, T>>`
// placed between a callee and its arguments. It is a no-op when none follow.
func (p *parser) typeInstantiation() error {
	if !p.check("<") || !p.peek(1).Is("<") {
		return nil
	}

	p.advance()
	p.advance()

	for !p.check(">") && !p.check(">=") {
		if _, err := p.typ(); err != nil {
			return err
		}

		if !p.accept(",") {
			break
		}
	}

	if err := p.closeAngle(); err != nil {
		return err
	}

	return p.closeAngle()
}

func (p *parser) callArgs(start int, callee Expr) (*CallExpr, error) {
	call := &CallExpr{Callee: callee}
	argStart := p.pos
	tok := p.cur()

	switch {
	case tok.Kind == String:
		p.advance()
		call.Style = ArgsString
		call.Args = []Expr{&StringExpr{Span: p.span(argStart), Value: tok}}
	case tok.Is("{"):
		if err := p.table(); err != nil {
			return nil, err
		}

		call.Style = ArgsTable
		call.Args = []Expr{&OtherExpr{Span: p.span(argStart), Kind: ExprTable}}
	case tok.Is("("):
		p.advance()

		if !p.check(")") {
			args, err := p.exprList()
			if err != nil {
				return nil, err
			}

			call.Args = args
		}

		if err := p.expect(")"); err != nil {
			return nil, err
		}

		call.Style = ArgsParens
	default:
		return nil, p.errorf("expected call arguments, got %s", p.describe())
	}

	call.Span = p.span(start)

	return call, nil
}

func (p *parser) table() error {
	if err := p.expect("{"); err != nil {
		return err
	}

	for !p.check("}") {
		switch {
		case p.accept("["):
			if _, err := p.expr(); err != nil {
				return err
			}

			if err := p.expect("]"); err != nil {
				return err
			}

			if err := p.expect("="); err != nil {
				return err
			}
		case p.cur().Kind == Name && p.peek(1).Is("="):
			p.advance()
			p.advance()
		}

		if _, err := p.expr(); err != nil {
			return err
		}

		if !p.accept(",") && !p.accept(";") {
			break
		}
	}

	return p.expect("}")
}
