// Package docgen renders the documentation strings attached to generated
// items. Rendering is a pure function of its input.
package docgen

import (
	"embed"
	"strings"
	"text/template"

	"github.com/teranos/dismantle/errors"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Kind selects which generated item is being documented.
type Kind string

const (
	KindField    Kind = "field"    // doc appended to a canonical record field
	KindAlias    Kind = "alias"    // field type alias or associated type
	KindRecord   Kind = "record"   // the canonical record
	KindContract Kind = "contract" // the generated trait
	KindMarker   Kind = "marker"   // zero-size field marker
)

// Context is the input of one documentation string.
type Context struct {
	Kind   Kind
	Name   string
	Parent string
	// Type is the field type with whitespace removed.
	Type     string
	Generics []string
	// Source is the formatted original declaration, embedded verbatim.
	Source string
}

// Templater renders documentation strings. Safe for concurrent use.
type Templater struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Templater, error) {
	tmpl, err := template.New("docgen").ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse documentation templates")
	}
	return &Templater{tmpl: tmpl}, nil
}

// Default is the templater built from the embedded templates.
var Default = mustNew()

func mustNew() *Templater {
	t, err := New()
	if err != nil {
		panic(err)
	}
	return t
}

// Render produces the documentation string for ctx.
func (t *Templater) Render(ctx Context) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.ExecuteTemplate(&sb, string(ctx.Kind)+".tmpl", ctx); err != nil {
		return "", errors.Wrapf(err, "failed to render %s documentation for %s", ctx.Kind, ctx.Name)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// CompactType removes all whitespace from a rendered type, giving a stable
// spelling for documentation.
func CompactType(rendered string) string {
	return strings.Join(strings.Fields(rendered), "")
}
