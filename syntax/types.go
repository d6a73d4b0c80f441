package syntax

func (p *parser) parseType() (Type, error) {
	t := p.peek()
	switch {
	case t.Is("&"):
		p.next()
		ref := &RefType{}
		if p.peek().Kind == Lifetime {
			ref.Lifetime = p.next().Text
		}
		ref.Mut = p.accept("mut")
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ref.Elem = elem
		return ref, nil

	case t.Is("*"):
		p.next()
		ptr := &PtrType{}
		switch {
		case p.accept("mut"):
			ptr.Mut = true
		case p.accept("const"):
		default:
			return nil, newParseError(p.peek(), "expected `mut` or `const` in raw pointer type, found %s", describe(p.peek()))
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		ptr.Elem = elem
		return ptr, nil

	case t.Is("["):
		return p.sliceOrArray()

	case t.Is("("):
		return p.tupleOrParen()

	case t.Is("!"):
		p.next()
		return &NeverType{}, nil

	case t.Is("_"):
		p.next()
		return &InferType{}, nil

	case t.Is("<"):
		return p.qualifiedPath()

	case t.Is("::"):
		return p.pathOrMacro()

	case t.Is("fn"), t.Is("unsafe"), t.Is("extern"), t.Is("for"):
		return p.fnPointer()

	case t.Is("dyn"), t.Is("impl"):
		p.next()
		bounds, err := p.bounds()
		if err != nil {
			return nil, err
		}
		if len(bounds) == 0 {
			return nil, newParseError(p.peek(), "expected at least one bound after `%s`", t.Text)
		}
		return &TraitObjectType{Impl: t.Text == "impl", Bounds: bounds}, nil

	case t.Kind == Ident:
		return p.pathOrMacro()
	}
	return nil, newParseError(t, "expected type, found %s", describe(t))
}

func (p *parser) sliceOrArray() (Type, error) {
	open := p.next()
	elem, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.accept("]") {
		return &SliceType{Elem: elem}, nil
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	length, err := p.balanced(open, "]")
	if err != nil {
		return nil, err
	}
	if len(length) == 0 {
		return nil, newParseError(open, "expected array length")
	}
	return &ArrayType{Elem: elem, Len: length}, nil
}

func (p *parser) tupleOrParen() (Type, error) {
	p.next() // (
	if p.accept(")") {
		return &TupleType{}, nil
	}
	first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.accept(")") {
		return &ParenType{Elem: first}, nil
	}
	elems := []Type{first}
	for {
		if _, err := p.expect(","); err != nil {
			return nil, err
		}
		if p.accept(")") {
			return &TupleType{Elems: elems}, nil
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, ty)
		if p.accept(")") {
			return &TupleType{Elems: elems}, nil
		}
	}
}

// qualifiedPath parses <T as Trait>::Assoc or <T>::Assoc.
func (p *parser) qualifiedPath() (Type, error) {
	p.next() // <
	self, err := p.parseType()
	if err != nil {
		return nil, err
	}
	q := &QSelf{Type: self}
	if p.accept("as") {
		as, err := p.path(false)
		if err != nil {
			return nil, err
		}
		q.As = as
	}
	if _, err := p.expect(">"); err != nil {
		return nil, err
	}
	if _, err := p.expect("::"); err != nil {
		return nil, err
	}
	rest, err := p.path(false)
	if err != nil {
		return nil, err
	}
	rest.QSelf = q
	return rest, nil
}

func (p *parser) pathOrMacro() (Type, error) {
	path, err := p.path(true)
	if err != nil {
		return nil, err
	}
	if p.peek().Is("!") {
		p.next()
		open := p.peek()
		var closer string
		switch {
		case open.Is("("):
			closer = ")"
		case open.Is("["):
			closer = "]"
		case open.Is("{"):
			closer = "}"
		default:
			return nil, newParseError(open, "expected delimiter after macro name, found %s", describe(open))
		}
		p.next()
		body, err := p.balanced(open, closer)
		if err != nil {
			return nil, err
		}
		group := append([]Token{open}, body...)
		group = append(group, Token{Kind: Punct, Text: closer})
		return &MacroType{Path: path, Tokens: group}, nil
	}
	return path, nil
}

// path parses a `::`-separated path. withFn allows Fn(A) -> B sugar on the
// final segment.
func (p *parser) path(withFn bool) (*PathType, error) {
	path := &PathType{}
	if p.accept("::") {
		path.Global = true
	}
	for {
		name := p.peek()
		if name.Kind != Ident {
			return nil, newParseError(name, "expected path segment, found %s", describe(name))
		}
		p.next()
		seg := PathSegment{Name: name.Text}

		switch {
		case p.peek().Is("<"):
			args, err := p.genericArgs()
			if err != nil {
				return nil, err
			}
			seg.Args = args
		case p.peek().Is("::") && p.peekN(1).Is("<"):
			p.next()
			args, err := p.genericArgs()
			if err != nil {
				return nil, err
			}
			seg.Args = args
			seg.Turbofish = true
		case withFn && p.peek().Is("("):
			fn, err := p.parenArgs()
			if err != nil {
				return nil, err
			}
			seg.Fn = fn
		}
		path.Segments = append(path.Segments, seg)

		if p.peek().Is("::") && p.peekN(1).Kind == Ident {
			p.next()
			continue
		}
		return path, nil
	}
}

func (p *parser) parenArgs() (*ParenArgs, error) {
	p.next() // (
	args := &ParenArgs{}
	for !p.peek().Is(")") {
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args.Inputs = append(args.Inputs, ty)
		if !p.accept(",") && !p.peek().Is(")") {
			return nil, newParseError(p.peek(), "expected `,` or `)`, found %s", describe(p.peek()))
		}
	}
	p.next() // )
	if p.accept("->") {
		out, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args.Output = out
	}
	return args, nil
}

func (p *parser) genericArgs() ([]GenericArg, error) {
	open := p.next() // <
	var args []GenericArg
	for !p.peek().Is(">") {
		if p.atEOF() {
			return nil, newParseError(open, "unclosed `<`")
		}
		arg, err := p.genericArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(",") && !p.peek().Is(">") {
			return nil, newParseError(p.peek(), "expected `,` or `>`, found %s", describe(p.peek()))
		}
	}
	p.next() // >
	return args, nil
}

func (p *parser) genericArg() (GenericArg, error) {
	t := p.peek()
	switch {
	case t.Kind == Lifetime:
		p.next()
		return &LifetimeArg{Name: t.Text}, nil

	case t.Kind == Literal:
		p.next()
		return &ConstArg{Tokens: []Token{t}}, nil

	case t.Is("-") && p.peekN(1).Kind == Literal:
		p.next()
		lit := p.next()
		return &ConstArg{Tokens: []Token{t, lit}}, nil

	case t.Is("{"):
		p.next()
		body, err := p.balanced(t, "}")
		if err != nil {
			return nil, err
		}
		group := append([]Token{t}, body...)
		group = append(group, Token{Kind: Punct, Text: "}"})
		return &ConstArg{Tokens: group}, nil

	case t.Kind == Ident && p.peekN(1).Is("="):
		p.pos += 2
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &BindingArg{Name: t.Text, Type: ty}, nil

	case t.Kind == Ident && p.peekN(1).Is(":"):
		p.pos += 2
		bounds, err := p.bounds()
		if err != nil {
			return nil, err
		}
		return &ConstraintArg{Name: t.Text, Bounds: bounds}, nil
	}

	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &TypeArg{Type: ty}, nil
}

// bounds parses `Bound + Bound + ...`; a trailing `+` is allowed.
func (p *parser) bounds() ([]Bound, error) {
	var out []Bound
	for {
		t := p.peek()
		switch {
		case t.Kind == Lifetime:
			p.next()
			out = append(out, &LifetimeBound{Name: t.Text})
		case t.Is("?"), t.Is("for"), t.Is("::"), t.Kind == Ident && !IsKeyword(t.Text) || t.Is("self") || t.Is("super") || t.Is("crate") || t.Is("Self"):
			b, err := p.traitBound()
			if err != nil {
				return nil, err
			}
			out = append(out, b)
		case t.Is("("):
			open := p.next()
			b, err := p.traitBound()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(")"); err != nil {
				return nil, newParseError(open, "unclosed `(` in bound")
			}
			out = append(out, b)
		default:
			return out, nil
		}
		if !p.accept("+") {
			return out, nil
		}
	}
}

func (p *parser) traitBound() (*TraitBound, error) {
	b := &TraitBound{}
	if p.accept("?") {
		b.Maybe = true
	}
	if p.peek().Is("for") {
		lts, err := p.forLifetimes()
		if err != nil {
			return nil, err
		}
		b.ForLifetimes = lts
	}
	path, err := p.path(true)
	if err != nil {
		return nil, err
	}
	b.Path = path
	return b, nil
}

// forLifetimes parses for<'a, 'b>.
func (p *parser) forLifetimes() ([]string, error) {
	p.next() // for
	if _, err := p.expect("<"); err != nil {
		return nil, err
	}
	var lts []string
	for !p.peek().Is(">") {
		t := p.peek()
		if t.Kind != Lifetime {
			return nil, newParseError(t, "expected lifetime in `for<...>`, found %s", describe(t))
		}
		p.next()
		lts = append(lts, t.Text)
		if !p.accept(",") && !p.peek().Is(">") {
			return nil, newParseError(p.peek(), "expected `,` or `>`, found %s", describe(p.peek()))
		}
	}
	p.next()
	return lts, nil
}

func (p *parser) fnPointer() (Type, error) {
	fn := &FnType{}
	if p.peek().Is("for") {
		lts, err := p.forLifetimes()
		if err != nil {
			return nil, err
		}
		fn.ForLifetimes = lts
		if p.peek().Is("dyn") || p.peek().Is("impl") {
			return nil, newParseError(p.peek(), "higher-ranked trait objects must put `for<...>` after `%s`", p.peek().Text)
		}
	}
	fn.Unsafe = p.accept("unsafe")
	if p.accept("extern") {
		fn.Extern = true
		if p.peek().Kind == Literal {
			fn.ABI = p.next().Text
		}
	}
	if _, err := p.expect("fn"); err != nil {
		return nil, err
	}
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	for !p.peek().Is(")") {
		if p.accept("...") {
			fn.Variadic = true
			if !p.peek().Is(")") {
				return nil, newParseError(p.peek(), "variadic `...` must be the last parameter")
			}
			break
		}
		if _, err := p.outerAttrs(); err != nil {
			return nil, err
		}
		var param FnParam
		if t := p.peek(); t.Kind == Ident && p.peekN(1).Is(":") {
			param.Name = t.Text
			p.pos += 2
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		param.Type = ty
		fn.Params = append(fn.Params, param)
		if !p.accept(",") && !p.peek().Is(")") {
			return nil, newParseError(p.peek(), "expected `,` or `)`, found %s", describe(p.peek()))
		}
	}
	p.next() // )
	if p.accept("->") {
		out, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fn.Output = out
	}
	return fn, nil
}
