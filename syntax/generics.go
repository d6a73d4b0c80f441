package syntax

// genericParams parses the <...> list following a struct name.
func (p *parser) genericParams() ([]GenericParam, error) {
	open := p.next() // <
	var params []GenericParam
	seen := make(IdentSet)
	for !p.peek().Is(">") {
		if p.atEOF() {
			return nil, newParseError(open, "unclosed `<` in generic parameters")
		}
		attrs, err := p.outerAttrs()
		if err != nil {
			return nil, err
		}
		start := p.peek()

		var param GenericParam
		switch {
		case start.Kind == Lifetime:
			param, err = p.lifetimeParam()
		case start.Is("const"):
			param, err = p.constParam()
		default:
			param, err = p.typeParam()
		}
		if err != nil {
			return nil, err
		}
		if seen.Has(param.Name) {
			return nil, newParseError(start, "generic parameter `%s` declared twice", param.Name)
		}
		seen.Add(param.Name)
		param.Attrs = attrs
		param.Pos = start.Pos
		params = append(params, param)

		if !p.accept(",") && !p.peek().Is(">") {
			return nil, newParseError(p.peek(), "expected `,` or `>` in generic parameters, found %s", describe(p.peek()))
		}
	}
	p.next() // >
	return params, nil
}

func (p *parser) lifetimeParam() (GenericParam, error) {
	param := GenericParam{Kind: GenericLifetime, Name: p.next().Text}
	if !p.accept(":") {
		return param, nil
	}
	for p.peek().Kind == Lifetime {
		param.LifetimeBounds = append(param.LifetimeBounds, p.next().Text)
		if !p.accept("+") {
			break
		}
	}
	return param, nil
}

func (p *parser) constParam() (GenericParam, error) {
	p.next() // const
	name, err := p.expectName("const parameter name")
	if err != nil {
		return GenericParam{}, err
	}
	if _, err := p.expect(":"); err != nil {
		return GenericParam{}, err
	}
	ty, err := p.parseType()
	if err != nil {
		return GenericParam{}, err
	}
	param := GenericParam{Kind: GenericConst, Name: name.Text, ConstType: ty}
	if p.accept("=") {
		t := p.peek()
		switch {
		case t.Is("{"):
			p.next()
			body, err := p.balanced(t, "}")
			if err != nil {
				return GenericParam{}, err
			}
			group := append([]Token{t}, body...)
			param.ConstDefault = append(group, Token{Kind: Punct, Text: "}"})
		case t.Is("-") && p.peekN(1).Kind == Literal:
			p.next()
			lit := p.next()
			param.ConstDefault = []Token{t, lit}
		case t.Kind == Literal || t.Kind == Ident:
			param.ConstDefault = []Token{p.next()}
		default:
			return GenericParam{}, newParseError(t, "expected const default, found %s", describe(t))
		}
	}
	return param, nil
}

func (p *parser) typeParam() (GenericParam, error) {
	name, err := p.expectName("generic parameter")
	if err != nil {
		return GenericParam{}, err
	}
	param := GenericParam{Kind: GenericType, Name: name.Text}
	if p.accept(":") {
		if param.Bounds, err = p.bounds(); err != nil {
			return GenericParam{}, err
		}
	}
	if p.accept("=") {
		if param.Default, err = p.parseType(); err != nil {
			return GenericParam{}, err
		}
	}
	return param, nil
}
