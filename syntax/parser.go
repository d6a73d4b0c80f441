package syntax

// parser is a recursive-descent parser over a token slice.
type parser struct {
	toks []Token
	pos  int
}

// ParseDeclaration parses a single struct declaration, with its outer
// attributes and visibility. Any deviation from the grammar is reported as a
// *ParseError (which matches errors.ErrMalformedDeclaration) positioned at
// the offending token.
func ParseDeclaration(src string) (*Declaration, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	decl, err := p.declaration()
	if err != nil {
		return nil, err
	}
	decl.Source = src
	return decl, nil
}

// ParseType parses a standalone type expression.
func ParseType(src string) (Type, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, newParseError(p.peek(), "unexpected %s after type", describe(p.peek()))
	}
	return ty, nil
}

func (p *parser) peek() Token {
	return p.peekN(0)
}

func (p *parser) peekN(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	t := p.peek()
	if t.Kind != EOF {
		p.pos++
	}
	return t
}

func (p *parser) atEOF() bool {
	return p.peek().Kind == EOF
}

// accept consumes the next token if it has the given text.
func (p *parser) accept(text string) bool {
	if p.peek().Is(text) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(text string) (Token, error) {
	t := p.peek()
	if !t.Is(text) {
		return t, newParseError(t, "expected `%s`, found %s", text, describe(t))
	}
	return p.next(), nil
}

// expectName consumes a non-keyword identifier (raw identifiers allowed).
func (p *parser) expectName(what string) (Token, error) {
	t := p.peek()
	if t.Kind != Ident || IsKeyword(t.Text) || t.Text == "_" {
		return t, newParseError(t, "expected %s, found %s", what, describe(t))
	}
	return p.next(), nil
}

func (p *parser) declaration() (*Declaration, error) {
	decl := &Declaration{}

	attrs, err := p.outerAttrs()
	if err != nil {
		return nil, err
	}
	decl.Attrs = attrs

	if decl.Vis, err = p.visibility(false); err != nil {
		return nil, err
	}

	kw := p.peek()
	switch {
	case kw.Is("struct"):
		p.next()
	case kw.Is("enum"), kw.Is("union"):
		return nil, newParseError(kw, "expected `struct`, found `%s`", kw.Text).
			WithSuggestion("only struct declarations can be dismantled")
	default:
		return nil, newParseError(kw, "expected `struct`, found %s", describe(kw))
	}

	name, err := p.expectName("struct name")
	if err != nil {
		return nil, err
	}
	decl.Name = name.Text
	decl.NamePos = name.Pos

	if p.peek().Is("<") {
		if decl.Generics, err = p.genericParams(); err != nil {
			return nil, err
		}
	}

	if p.peek().Is("where") {
		if decl.Where, err = p.whereClause(); err != nil {
			return nil, err
		}
	}

	t := p.peek()
	switch {
	case t.Is("{"):
		decl.Shape = ShapeNamed
		if decl.Fields, err = p.namedFields(); err != nil {
			return nil, err
		}
		decl.Terminator = p.accept(";")

	case t.Is("("):
		decl.Shape = ShapePositional
		if decl.Fields, err = p.positionalFields(); err != nil {
			return nil, err
		}
		if p.peek().Is("where") {
			if decl.Where, err = p.whereClause(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err.(*ParseError).WithSuggestion("tuple structs end with `;`")
		}
		decl.Terminator = true

	case t.Is(";"):
		p.next()
		decl.Shape = ShapeUnit
		decl.Terminator = true

	default:
		return nil, newParseError(t, "expected `{`, `(` or `;` after struct name, found %s", describe(t)).
			WithSuggestion("declare fields with `{ name: Type }`, `(Type)` or end a unit struct with `;`")
	}

	if !p.atEOF() {
		return nil, newParseError(p.peek(), "unexpected %s after struct declaration", describe(p.peek()))
	}
	return decl, nil
}

// outerAttrs parses zero or more #[...] attributes.
func (p *parser) outerAttrs() ([]Attribute, error) {
	var attrs []Attribute
	for p.peek().Is("#") {
		hash := p.next()
		if p.peek().Is("!") {
			return nil, newParseError(p.peek(), "inner attributes are not allowed on a struct declaration")
		}
		open, err := p.expect("[")
		if err != nil {
			return nil, err
		}
		body, err := p.balanced(open, "]")
		if err != nil {
			return nil, err
		}
		if len(body) == 0 {
			return nil, newParseError(open, "empty attribute")
		}
		attrs = append(attrs, Attribute{Tokens: body, Pos: hash.Pos})
	}
	return attrs, nil
}

// balanced consumes tokens up to the delimiter closing open and returns the
// tokens in between. The closing delimiter is consumed.
func (p *parser) balanced(open Token, closer string) ([]Token, error) {
	var out []Token
	stack := []string{closer}
	for {
		t := p.peek()
		if t.Kind == EOF {
			return nil, newParseError(open, "unclosed delimiter `%s`", open.Text)
		}
		p.next()
		if t.Kind == Punct {
			switch t.Text {
			case "(":
				stack = append(stack, ")")
			case "[":
				stack = append(stack, "]")
			case "{":
				stack = append(stack, "}")
			case ")", "]", "}":
				if t.Text != stack[len(stack)-1] {
					return nil, newParseError(t, "mismatched closing delimiter `%s`", t.Text)
				}
				stack = stack[:len(stack)-1]
				if len(stack) == 0 {
					return out, nil
				}
			}
		}
		out = append(out, t)
	}
}

// visibility parses pub, pub(crate), pub(self), pub(super), pub(in path) and
// the bare `crate` form. inTuple disambiguates `pub (A, B)` in tuple fields,
// where the parenthesis starts the field type.
func (p *parser) visibility(inTuple bool) (Visibility, error) {
	t := p.peek()
	if t.Is("crate") && !p.peekN(1).Is("::") {
		p.next()
		return Visibility{Kind: VisCrate, Bare: true}, nil
	}
	if !t.Is("pub") {
		return Visibility{Kind: VisInherited}, nil
	}
	p.next()
	if !p.peek().Is("(") {
		return Public, nil
	}
	inner := p.peekN(1)
	closes := p.peekN(2).Is(")")
	switch {
	case inner.Is("crate") && closes:
		p.pos += 3
		return Visibility{Kind: VisCrate}, nil
	case inner.Is("self") && closes:
		p.pos += 3
		return Visibility{Kind: VisSelf}, nil
	case inner.Is("super") && closes:
		p.pos += 3
		return Visibility{Kind: VisSuper}, nil
	case inner.Is("in"):
		open := p.next()
		p.next()
		body, err := p.balanced(open, ")")
		if err != nil {
			return Visibility{}, err
		}
		if len(body) == 0 {
			return Visibility{}, newParseError(open, "expected path after `in`")
		}
		return Visibility{Kind: VisIn, Path: renderTokens(body)}, nil
	}
	if !inTuple {
		return Visibility{}, newParseError(inner, "expected `crate`, `self`, `super` or `in` in visibility, found %s", describe(inner))
	}
	return Public, nil
}

func (p *parser) namedFields() ([]Field, error) {
	p.next() // {
	var fields []Field
	for !p.peek().Is("}") {
		attrs, err := p.outerAttrs()
		if err != nil {
			return nil, err
		}
		vis, err := p.visibility(false)
		if err != nil {
			return nil, err
		}
		name, err := p.expectName("field name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(":"); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Attrs: attrs, Vis: vis, Name: name.Text, Type: ty, Pos: name.Pos})
		if !p.accept(",") {
			if !p.peek().Is("}") {
				return nil, newParseError(p.peek(), "expected `,` or `}` after field, found %s", describe(p.peek()))
			}
		}
	}
	p.next() // }
	return fields, nil
}

func (p *parser) positionalFields() ([]Field, error) {
	p.next() // (
	var fields []Field
	for !p.peek().Is(")") {
		start := p.peek()
		attrs, err := p.outerAttrs()
		if err != nil {
			return nil, err
		}
		vis, err := p.visibility(true)
		if err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Attrs: attrs, Vis: vis, Type: ty, Pos: start.Pos})
		if !p.accept(",") {
			if !p.peek().Is(")") {
				return nil, newParseError(p.peek(), "expected `,` or `)` after field, found %s", describe(p.peek()))
			}
		}
	}
	p.next() // )
	return fields, nil
}

// whereClause consumes `where` and its predicates up to (not including) a
// top-level `{` or `;`.
func (p *parser) whereClause() ([]Token, error) {
	kw := p.next()
	var out []Token
	depth := 0
	for {
		t := p.peek()
		if t.Kind == EOF {
			return nil, newParseError(t, "unexpected end of input in where clause")
		}
		if depth == 0 && (t.Is("{") || t.Is(";")) {
			break
		}
		if t.Kind == Punct {
			switch t.Text {
			case "(", "[", "{", "<":
				depth++
			case ")", "]", "}", ">":
				depth--
				if depth < 0 {
					return nil, newParseError(t, "unbalanced `%s` in where clause", t.Text)
				}
			}
		}
		out = append(out, p.next())
	}
	if len(out) == 0 {
		return nil, newParseError(kw, "empty where clause")
	}
	return out, nil
}
