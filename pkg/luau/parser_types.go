package luau

// typ parses a full type: a union or intersection of optional types.
func (p *parser) typ() (Type, error) {
	start := p.pos

	leading := ""
	if p.check("|") || p.check("&") {
		leading = p.advance().Text
	}

	first, err := p.optionalType()
	if err != nil {
		return nil, err
	}

	op := leading
	if !p.check("|") && !p.check("&") {
		if leading == "" {
			return first, nil
		}

		return &UnionType{Span: p.span(start), Intersection: op == "&", Parts: []Type{first}}, nil
	}

	if op == "" {
		op = p.cur().Text
	}

	parts := []Type{first}

	for p.check("|") || p.check("&") {
		p.advance()

		part, err := p.optionalType()
		if err != nil {
			return nil, err
		}

		parts = append(parts, part)
	}

	return &UnionType{Span: p.span(start), Intersection: op == "&", Parts: parts}, nil
}

func (p *parser) optionalType() (Type, error) {
	start := p.pos

	t, err := p.simpleType()
	if err != nil {
		return nil, err
	}

	for p.accept("?") {
		t = &OptionalType{Span: p.span(start), Inner: t}
	}

	return t, nil
}

func (p *parser) simpleType() (Type, error) {
	start := p.pos
	tok := p.cur()

	switch {
	case tok.Is("nil"):
		p.advance()
		return &NamedType{Span: p.span(start), Name: tok}, nil
	case tok.Is("true") || tok.Is("false") || tok.Kind == String:
		p.advance()
		return &SingletonType{Span: p.span(start), Value: tok}, nil
	case tok.Is("typeof") && p.peek(1).Is("("):
		p.advance()
		p.advance()

		if _, err := p.expr(); err != nil {
			return nil, err
		}

		if err := p.expect(")"); err != nil {
			return nil, err
		}

		return &TypeofType{Span: p.span(start)}, nil
	case tok.isIdentifier():
		return p.namedType()
	case tok.Is("{"):
		return p.tableType()
	case tok.Is("(") || tok.Is("<"):
		return p.functionOrParenType()
	case tok.Is("..."):
		p.advance()

		inner, err := p.typ()
		if err != nil {
			return nil, err
		}

		return &VariadicType{Span: p.span(start), Inner: inner}, nil
	}

	return nil, p.errorf("expected type, got %s", p.describe())
}

func (p *parser) namedType() (Type, error) {
	start := p.pos
	name := p.advance()

	t := &NamedType{Name: name}

	if p.check(".") && p.peek(1).isIdentifier() {
		p.advance()

		module := name
		t.Module = &module
		t.Name = p.advance()
	} else if p.accept("...") {
		return &GenericPackType{Span: p.span(start), Name: name}, nil
	}

	if p.accept("<") {
		for !p.check(">") && !p.check(">=") {
			param, err := p.typ()
			if err != nil {
				return nil, err
			}

			t.Params = append(t.Params, param)

			if !p.accept(",") {
				break
			}
		}

		if err := p.closeAngle(); err != nil {
			return nil, err
		}
	}

	t.Span = p.span(start)

	return t, nil
}

// closeAngle consumes the `>` ending a generic list. A `>=` token, as in
// `type T<A>= B`, is split so the `=` stays available to the caller.
func (p *parser) closeAngle() error {
	tok := p.cur()

	if tok.Is(">=") {
		gt := tok
		gt.Text = ">"
		gt.Trailing = nil

		eq := Token{
			Kind:     Symbol,
			Text:     "=",
			Offset:   tok.Offset + 1,
			Line:     tok.Line,
			Column:   tok.Column + 1,
			Trailing: tok.Trailing,
		}

		rest := append([]Token{gt, eq}, p.toks[p.pos+1:]...)
		p.toks = append(p.toks[:p.pos], rest...)
	}

	return p.expect(">")
}

func (p *parser) genericList() ([]GenericParam, error) {
	if err := p.expect("<"); err != nil {
		return nil, err
	}

	var params []GenericParam

	for !p.check(">") && !p.check(">=") {
		start := p.pos

		name, err := p.identifier()
		if err != nil {
			return nil, err
		}

		param := GenericParam{Name: name, Pack: p.accept("...")}

		if p.accept("=") {
			def, err := p.typ()
			if err != nil {
				return nil, err
			}

			param.Default = def
		}

		param.Span = p.span(start)
		params = append(params, param)

		if !p.accept(",") {
			break
		}
	}

	if err := p.closeAngle(); err != nil {
		return nil, err
	}

	return params, nil
}

// functionOrParenType parses everything that starts with `(` or `<`: function
// types, parenthesized types and type packs.
func (p *parser) functionOrParenType() (Type, error) {
	start := p.pos

	var generics []GenericParam

	if p.check("<") {
		list, err := p.genericList()
		if err != nil {
			return nil, err
		}

		generics = list
	}

	if err := p.expect("("); err != nil {
		return nil, err
	}

	var (
		items []Type
		named bool
	)

	for !p.check(")") {
		if p.cur().isIdentifier() && p.peek(1).Is(":") {
			named = true

			p.advance()
			p.advance()
		}

		item, err := p.typ()
		if err != nil {
			return nil, err
		}

		items = append(items, item)

		if !p.accept(",") {
			break
		}
	}

	if err := p.expect(")"); err != nil {
		return nil, err
	}

	if p.accept("->") {
		returns, err := p.typ()
		if err != nil {
			return nil, err
		}

		return &FunctionType{Span: p.span(start), Generics: generics, Params: items, Returns: returns}, nil
	}

	if generics != nil {
		return nil, p.errorf("expected '->' after generic function parameters, got %s", p.describe())
	}

	if len(items) == 1 && !named && !isPackElement(items[0]) {
		return &ParenType{Span: p.span(start), Inner: items[0]}, nil
	}

	return &PackType{Span: p.span(start), Types: items}, nil
}

func isPackElement(t Type) bool {
	switch t.(type) {
	case *VariadicType, *GenericPackType:
		return true
	}

	return false
}

func (p *parser) tableType() (Type, error) {
	start := p.pos
	p.advance()

	t := &TableType{}

	if !p.check("}") && !p.propertyAhead() {
		value, err := p.typ()
		if err != nil {
			return nil, err
		}

		t.Fields = append(t.Fields, TableTypeField{Value: value})
	} else {
		for !p.check("}") {
			field, err := p.tableTypeField()
			if err != nil {
				return nil, err
			}

			t.Fields = append(t.Fields, field)

			if !p.accept(",") && !p.accept(";") {
				break
			}
		}
	}

	if err := p.expect("}"); err != nil {
		return nil, err
	}

	t.Span = p.span(start)

	return t, nil
}

// propertyAhead tells a property list apart from the array shorthand `{T}`.
func (p *parser) propertyAhead() bool {
	tok := p.cur()

	switch {
	case tok.Is("["):
		return true
	case tok.Kind == Name && p.peek(1).Is(":"):
		return true
	case (tok.Is("read") || tok.Is("write")) && p.peek(1).Kind == Name && p.peek(2).Is(":"):
		return true
	case (tok.Is("read") || tok.Is("write")) && p.peek(1).Is("["):
		return true
	}

	return false
}

func (p *parser) tableTypeField() (TableTypeField, error) {
	var field TableTypeField

	if (p.check("read") || p.check("write")) && (p.peek(1).Is("[") || (p.peek(1).Kind == Name && p.peek(2).Is(":"))) {
		p.advance()
	}

	if p.accept("[") {
		key, err := p.typ()
		if err != nil {
			return field, err
		}

		if err := p.expect("]"); err != nil {
			return field, err
		}

		field.Key = key
	} else {
		name := p.cur()
		if name.Kind != Name {
			return field, p.errorf("expected property name, got %s", p.describe())
		}

		p.advance()
		field.Name = &name
	}

	if err := p.expect(":"); err != nil {
		return field, err
	}

	value, err := p.typ()
	if err != nil {
		return field, err
	}

	field.Value = value

	return field, nil
}
