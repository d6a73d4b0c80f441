package dismantle

import (
	"fmt"
	"strings"

	"github.com/teranos/dismantle/syntax"
)

// markerDerives are the derives of every field marker.
const markerDerives = "#[derive(Debug, Clone, Copy, Default, PartialEq, Eq, Hash)]"

// moduleAttrs are the attributes of the original declaration that also
// apply to the module; everything else stays on core.
var moduleAttrs = map[string]bool{
	"doc": true,
	"cfg": true,
}

// emitter writes indented Rust source.
type emitter struct {
	sb     strings.Builder
	indent int
}

func (e *emitter) emitLine(s string) {
	if s != "" {
		e.sb.WriteString(e.indentStr())
		e.sb.WriteString(s)
	}
	e.sb.WriteByte('\n')
}

func (e *emitter) emitLinef(format string, args ...any) {
	e.emitLine(fmt.Sprintf(format, args...))
}

// emitBlock writes multi-line text at the current indentation.
func (e *emitter) emitBlock(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		e.emitLine(line)
	}
}

func (e *emitter) emitDoc(doc string) {
	for _, line := range strings.Split(doc, "\n") {
		if line == "" {
			e.emitLine("///")
			continue
		}
		e.emitLine("/// " + line)
	}
}

func (e *emitter) incIndent() { e.indent++ }
func (e *emitter) decIndent() { e.indent-- }

func (e *emitter) indentStr() string {
	return strings.Repeat("    ", e.indent)
}

// EmitNamespace renders ns as one module: markers, independent aliases, the
// canonical record, then the contract and its implementation. Nothing is
// checked here.
func EmitNamespace(ns Namespace) string {
	var e emitter

	e.emitLine("#[allow(non_snake_case)]")
	for _, a := range ns.Attrs {
		if moduleAttrs[a.Name()] {
			e.emitLine(a.String())
		}
	}
	if vis := ns.Vis.String(); vis != "" {
		e.emitLinef("%s mod %s {", vis, ns.Name)
	} else {
		e.emitLinef("mod %s {", ns.Name)
	}
	e.incIndent()
	e.emitLine("#![allow(non_camel_case_types)]")
	e.emitLine("#![allow(dead_code)]")
	e.emitLine("use super::*;")

	if !ns.OmitMarkers {
		e.emitLine("")
		emitMarkers(&e, ns.Markers)
	}

	for _, a := range ns.Aliases {
		e.emitLine("")
		emitAlias(&e, a)
	}

	e.emitLine("")
	e.emitBlock(syntax.Print(ns.Record.Decl))

	e.emitLine("")
	emitContract(&e, ns.Record.Decl, ns.Contract)

	e.decIndent()
	e.emitLine("}")
	return e.sb.String()
}

func emitMarkers(e *emitter, markers []Marker) {
	if len(markers) == 0 {
		e.emitLinef("pub mod %s {}", FieldsName)
		return
	}
	e.emitLinef("pub mod %s {", FieldsName)
	e.incIndent()
	for i, m := range markers {
		if i > 0 {
			e.emitLine("")
		}
		e.emitDoc(m.Doc)
		e.emitLine(markerDerives)
		e.emitLinef("pub struct %s;", m.Ident)
	}
	e.decIndent()
	e.emitLine("}")
}

func emitAlias(e *emitter, a AliasDecl) {
	e.emitDoc(a.Doc)
	if hasAliasBounds(a.Generics) {
		e.emitLine("#[allow(type_alias_bounds)]")
	}
	e.emitLinef("pub type %s%s = %s;", a.Ident, syntax.RenderGenerics(a.Generics), syntax.RenderType(a.Type))
}

func emitContract(e *emitter, core *syntax.Declaration, c Contract) {
	e.emitDoc(c.Doc)
	e.emitLinef("pub trait %s {", ProtocolName)
	e.incIndent()
	e.emitLinef("type %s: %s;", SelfBinding, c.selfBound())
	for _, a := range c.Assoc {
		e.emitLine("")
		e.emitDoc(a.Doc)
		e.emitLinef("type %s;", a.Ident)
	}
	e.decIndent()
	e.emitLine("}")

	e.emitLine("")
	e.emitLinef("impl%s %s for %s%s%s {",
		syntax.RenderImplGenerics(c.Generics),
		ProtocolName,
		core.Name,
		syntax.RenderTypeGenerics(c.Generics),
		syntax.RenderWhere(c.Where))
	e.incIndent()
	e.emitLinef("type %s = Self;", SelfBinding)
	for _, a := range c.Assoc {
		e.emitDoc(a.Doc)
		e.emitLinef("type %s = %s;", a.Ident, syntax.RenderType(a.Type))
	}
	e.decIndent()
	e.emitLine("}")
}
