package syntax

import "strings"

// RenderType renders a type expression with canonical spacing.
func RenderType(ty Type) string {
	var sb strings.Builder
	writeType(&sb, ty)
	return sb.String()
}

// RenderBounds renders a bound list joined by " + ".
func RenderBounds(bounds []Bound) string {
	var sb strings.Builder
	writeBounds(&sb, bounds)
	return sb.String()
}

// RenderTokens renders a raw token run, keeping source spacing.
func RenderTokens(toks []Token) string {
	return renderTokens(toks)
}

// String renders the visibility modifier, empty for inherited visibility.
func (v Visibility) String() string {
	switch v.Kind {
	case VisPublic:
		return "pub"
	case VisCrate:
		if v.Bare {
			return "crate"
		}
		return "pub(crate)"
	case VisSelf:
		return "pub(self)"
	case VisSuper:
		return "pub(super)"
	case VisIn:
		return "pub(in " + v.Path + ")"
	default:
		return ""
	}
}

// String renders the attribute as #[...].
func (a Attribute) String() string {
	return "#[" + renderTokens(a.Tokens) + "]"
}

// DocAttribute builds a #[doc = "..."] attribute.
func DocAttribute(text string) Attribute {
	return Attribute{Tokens: []Token{
		{Kind: Ident, Text: "doc"},
		{Kind: Punct, Text: "=", SpaceBefore: true},
		{Kind: Literal, Text: QuoteString(text), SpaceBefore: true},
	}}
}

// String renders the parameter as declared, with bounds and default.
func (g GenericParam) String() string {
	var sb strings.Builder
	for _, a := range g.Attrs {
		sb.WriteString(a.String())
		sb.WriteByte(' ')
	}
	sb.WriteString(g.ImplString())
	switch g.Kind {
	case GenericType:
		if g.Default != nil {
			sb.WriteString(" = ")
			writeType(&sb, g.Default)
		}
	case GenericConst:
		if g.ConstDefault != nil {
			sb.WriteString(" = ")
			sb.WriteString(renderTokens(g.ConstDefault))
		}
	}
	return sb.String()
}

// ImplString renders the parameter as it appears on an impl: bounds kept,
// default dropped.
func (g GenericParam) ImplString() string {
	var sb strings.Builder
	switch g.Kind {
	case GenericLifetime:
		sb.WriteString(g.Name)
		if len(g.LifetimeBounds) > 0 {
			sb.WriteString(": ")
			sb.WriteString(strings.Join(g.LifetimeBounds, " + "))
		}
	case GenericType:
		sb.WriteString(g.Name)
		if len(g.Bounds) > 0 {
			sb.WriteString(": ")
			writeBounds(&sb, g.Bounds)
		}
	case GenericConst:
		sb.WriteString("const ")
		sb.WriteString(g.Name)
		sb.WriteString(": ")
		writeType(&sb, g.ConstType)
	}
	return sb.String()
}

// RenderGenerics renders a declaration-site parameter list, "" when empty.
func RenderGenerics(params []GenericParam) string {
	return joinGenerics(params, GenericParam.String)
}

// RenderImplGenerics renders the impl<...> list: bounds kept, defaults dropped.
func RenderImplGenerics(params []GenericParam) string {
	return joinGenerics(params, GenericParam.ImplString)
}

// RenderTypeGenerics renders the use-site argument list: names only.
func RenderTypeGenerics(params []GenericParam) string {
	return joinGenerics(params, func(g GenericParam) string { return g.Name })
}

func joinGenerics(params []GenericParam, render func(GenericParam) string) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, g := range params {
		parts[i] = render(g)
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// RenderWhere renders " where ..." or "" when the clause is empty.
func RenderWhere(where []Token) string {
	if len(where) == 0 {
		return ""
	}
	return " where " + renderTokens(where)
}

func writeType(sb *strings.Builder, ty Type) {
	switch t := ty.(type) {
	case *PathType:
		writePath(sb, t)
	case *RefType:
		sb.WriteByte('&')
		if t.Lifetime != "" {
			sb.WriteString(t.Lifetime)
			sb.WriteByte(' ')
		}
		if t.Mut {
			sb.WriteString("mut ")
		}
		writeType(sb, t.Elem)
	case *PtrType:
		if t.Mut {
			sb.WriteString("*mut ")
		} else {
			sb.WriteString("*const ")
		}
		writeType(sb, t.Elem)
	case *SliceType:
		sb.WriteByte('[')
		writeType(sb, t.Elem)
		sb.WriteByte(']')
	case *ArrayType:
		sb.WriteByte('[')
		writeType(sb, t.Elem)
		sb.WriteString("; ")
		sb.WriteString(renderTokens(t.Len))
		sb.WriteByte(']')
	case *TupleType:
		sb.WriteByte('(')
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeType(sb, e)
		}
		if len(t.Elems) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	case *ParenType:
		sb.WriteByte('(')
		writeType(sb, t.Elem)
		sb.WriteByte(')')
	case *NeverType:
		sb.WriteByte('!')
	case *InferType:
		sb.WriteByte('_')
	case *FnType:
		writeFn(sb, t)
	case *TraitObjectType:
		if t.Impl {
			sb.WriteString("impl ")
		} else {
			sb.WriteString("dyn ")
		}
		writeBounds(sb, t.Bounds)
	case *MacroType:
		writePath(sb, t.Path)
		sb.WriteByte('!')
		sb.WriteString(renderTokens(t.Tokens))
	}
}

func writePath(sb *strings.Builder, t *PathType) {
	if t.QSelf != nil {
		sb.WriteByte('<')
		writeType(sb, t.QSelf.Type)
		if t.QSelf.As != nil {
			sb.WriteString(" as ")
			writePath(sb, t.QSelf.As)
		}
		sb.WriteString(">::")
	} else if t.Global {
		sb.WriteString("::")
	}
	for i, seg := range t.Segments {
		if i > 0 {
			sb.WriteString("::")
		}
		sb.WriteString(seg.Name)
		if len(seg.Args) > 0 {
			if seg.Turbofish {
				sb.WriteString("::")
			}
			sb.WriteByte('<')
			for j, arg := range seg.Args {
				if j > 0 {
					sb.WriteString(", ")
				}
				writeArg(sb, arg)
			}
			sb.WriteByte('>')
		}
		if seg.Fn != nil {
			sb.WriteByte('(')
			for j, in := range seg.Fn.Inputs {
				if j > 0 {
					sb.WriteString(", ")
				}
				writeType(sb, in)
			}
			sb.WriteByte(')')
			if seg.Fn.Output != nil {
				sb.WriteString(" -> ")
				writeType(sb, seg.Fn.Output)
			}
		}
	}
}

func writeArg(sb *strings.Builder, arg GenericArg) {
	switch a := arg.(type) {
	case *TypeArg:
		writeType(sb, a.Type)
	case *LifetimeArg:
		sb.WriteString(a.Name)
	case *ConstArg:
		sb.WriteString(renderTokens(a.Tokens))
	case *BindingArg:
		sb.WriteString(a.Name)
		sb.WriteString(" = ")
		writeType(sb, a.Type)
	case *ConstraintArg:
		sb.WriteString(a.Name)
		sb.WriteString(": ")
		writeBounds(sb, a.Bounds)
	}
}

func writeBounds(sb *strings.Builder, bounds []Bound) {
	for i, b := range bounds {
		if i > 0 {
			sb.WriteString(" + ")
		}
		switch bb := b.(type) {
		case *LifetimeBound:
			sb.WriteString(bb.Name)
		case *TraitBound:
			if bb.Maybe {
				sb.WriteByte('?')
			}
			if len(bb.ForLifetimes) > 0 {
				sb.WriteString("for<")
				sb.WriteString(strings.Join(bb.ForLifetimes, ", "))
				sb.WriteString("> ")
			}
			writePath(sb, bb.Path)
		}
	}
}

func writeFn(sb *strings.Builder, t *FnType) {
	if len(t.ForLifetimes) > 0 {
		sb.WriteString("for<")
		sb.WriteString(strings.Join(t.ForLifetimes, ", "))
		sb.WriteString("> ")
	}
	if t.Unsafe {
		sb.WriteString("unsafe ")
	}
	if t.Extern {
		sb.WriteString("extern ")
		if t.ABI != "" {
			sb.WriteString(t.ABI)
			sb.WriteByte(' ')
		}
	}
	sb.WriteString("fn(")
	for i, prm := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if prm.Name != "" {
			sb.WriteString(prm.Name)
			sb.WriteString(": ")
		}
		writeType(sb, prm.Type)
	}
	if t.Variadic {
		if len(t.Params) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
	}
	sb.WriteByte(')')
	if t.Output != nil {
		sb.WriteString(" -> ")
		writeType(sb, t.Output)
	}
}
