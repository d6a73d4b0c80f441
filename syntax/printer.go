package syntax

import "strings"

// Print renders a declaration in canonical layout: one attribute per line,
// one field per line, four-space indentation. Comments other than doc
// comments do not survive.
func Print(d *Declaration) string {
	var sb strings.Builder
	for _, a := range d.Attrs {
		sb.WriteString(printAttr(a, ""))
	}
	if vis := d.Vis.String(); vis != "" {
		sb.WriteString(vis)
		sb.WriteByte(' ')
	}
	sb.WriteString("struct ")
	sb.WriteString(d.Name)
	sb.WriteString(RenderGenerics(d.Generics))

	switch d.Shape {
	case ShapeNamed:
		sb.WriteString(RenderWhere(d.Where))
		if len(d.Fields) == 0 {
			sb.WriteString(" {}")
		} else {
			sb.WriteString(" {\n")
			for _, f := range d.Fields {
				writeFieldLine(&sb, f)
			}
			sb.WriteByte('}')
		}
	case ShapePositional:
		if len(d.Fields) == 0 {
			sb.WriteString("()")
		} else {
			sb.WriteString("(\n")
			for _, f := range d.Fields {
				writeFieldLine(&sb, f)
			}
			sb.WriteByte(')')
		}
		sb.WriteString(RenderWhere(d.Where))
	case ShapeUnit:
		sb.WriteString(RenderWhere(d.Where))
	}
	if d.Terminator {
		sb.WriteByte(';')
	}
	sb.WriteByte('\n')
	return sb.String()
}

func writeFieldLine(sb *strings.Builder, f Field) {
	for _, a := range f.Attrs {
		sb.WriteString(printAttr(a, "    "))
	}
	sb.WriteString("    ")
	if vis := f.Vis.String(); vis != "" {
		sb.WriteString(vis)
		sb.WriteByte(' ')
	}
	if f.Name != "" {
		sb.WriteString(f.Name)
		sb.WriteString(": ")
	}
	sb.WriteString(RenderType(f.Type))
	sb.WriteString(",\n")
}

// printAttr renders doc attributes back as /// comments when their text
// fits on one line.
func printAttr(a Attribute, indent string) string {
	if text, ok := DocText(a); ok && !strings.Contains(text, "\n") {
		return indent + "///" + text + "\n"
	}
	return indent + a.String() + "\n"
}

// DocText returns the string of a #[doc = "..."] attribute.
func DocText(a Attribute) (string, bool) {
	if len(a.Tokens) != 3 || a.Name() != "doc" || !a.Tokens[1].Is("=") || a.Tokens[2].Kind != Literal {
		return "", false
	}
	return unquote(a.Tokens[2].Text)
}

// unquote reverses QuoteString for plain (non-raw) string literals.
func unquote(lit string) (string, bool) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", false
	}
	body := lit[1 : len(lit)-1]
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 >= len(body) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '0':
			sb.WriteByte(0)
		case '\\', '"', '\'':
			sb.WriteByte(body[i])
		default:
			return "", false
		}
	}
	return sb.String(), true
}
