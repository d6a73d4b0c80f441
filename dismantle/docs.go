package dismantle

import (
	"strings"

	"github.com/teranos/dismantle/docgen"
	"github.com/teranos/dismantle/syntax"
)

// Documenter renders one documentation string.
type Documenter interface {
	Render(ctx docgen.Context) (string, error)
}

// Docs renders the documentation of one record's generated items.
type Docs struct {
	templates Documenter
	record    string
	source    string
}

// NewDocs binds a documenter to the record named record whose formatted
// source is source.
func NewDocs(templates Documenter, record, source string) *Docs {
	return &Docs{templates: templates, record: record, source: source}
}

func (d *Docs) field(ident, rendered string) (string, error) {
	return d.templates.Render(docgen.Context{
		Kind:   docgen.KindField,
		Name:   ident,
		Parent: d.record,
		Type:   docgen.CompactType(rendered),
	})
}

func (d *Docs) alias(ident, rendered string, generics []string, withSource bool) (string, error) {
	ctx := docgen.Context{
		Kind:     docgen.KindAlias,
		Name:     ident,
		Parent:   d.record,
		Type:     docgen.CompactType(rendered),
		Generics: generics,
	}
	if withSource {
		ctx.Source = d.source
	}
	return d.templates.Render(ctx)
}

func (d *Docs) canonical() (string, error) {
	return d.templates.Render(docgen.Context{Kind: docgen.KindRecord, Name: d.record, Source: d.source})
}

func (d *Docs) contract(generics []string) (string, error) {
	return d.templates.Render(docgen.Context{Kind: docgen.KindContract, Name: d.record, Generics: generics})
}

func (d *Docs) marker(ident string) (string, error) {
	return d.templates.Render(docgen.Context{Kind: docgen.KindMarker, Name: ident, Parent: d.record})
}

// docAttrs splits text into one doc attribute per line, each with the
// leading space a `///` comment would carry.
func docAttrs(text string) []syntax.Attribute {
	lines := strings.Split(text, "\n")
	attrs := make([]syntax.Attribute, len(lines))
	for i, line := range lines {
		if line != "" {
			line = " " + line
		}
		attrs[i] = syntax.DocAttribute(line)
	}
	return attrs
}
