package dismantle

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/dismantle/docgen"
	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/logger"
	"github.com/teranos/dismantle/rustfmt"
	"github.com/teranos/dismantle/syntax"
)

// AttributeName is the attribute that marks a declaration for dismantling.
const AttributeName = "dismantle"

// Formatter normalizes Rust source for embedding in documentation.
type Formatter interface {
	Format(ctx context.Context, src string) (string, error)
}

// Options configures a Transformer. The zero value is usable.
type Options struct {
	// Formatter defaults to rustfmt.Builtin.
	Formatter Formatter
	// Docs defaults to docgen.Default.
	Docs Documenter
	// GenericAliases surfaces dependent fields as generic aliases as well.
	GenericAliases bool
	// OmitMarkers drops the `fields` marker module.
	OmitMarkers bool
	Logger      *zap.SugaredLogger
	// Verbosity gates the per-field classification log (-vv).
	Verbosity int
}

// Transformer turns one struct declaration into its module. It holds only
// immutable collaborators and may be shared between goroutines.
type Transformer struct {
	formatter      Formatter
	docs           Documenter
	genericAliases bool
	omitMarkers    bool
	verbosity      int
	log            *zap.SugaredLogger
}

// New creates a Transformer, filling unset options with defaults.
func New(opts Options) *Transformer {
	t := &Transformer{
		formatter:      opts.Formatter,
		docs:           opts.Docs,
		genericAliases: opts.GenericAliases,
		omitMarkers:    opts.OmitMarkers,
		verbosity:      opts.Verbosity,
		log:            opts.Logger,
	}
	if t.formatter == nil {
		t.formatter = rustfmt.Builtin{}
	}
	if t.docs == nil {
		t.docs = docgen.Default
	}
	if t.log == nil {
		t.log = logger.ComponentLogger("dismantle")
	}
	return t
}

// Result is the outcome of one transformation.
type Result struct {
	Declaration    *syntax.Declaration
	Classification Classification
	Namespace      Namespace
	// Formatted is the formatter's rendering of the input declaration.
	Formatted string
	// Output is the emitted module.
	Output string
}

// Transform parses src as one struct declaration and emits its module.
// Failures are ErrMalformedDeclaration (positioned *syntax.ParseError) or
// ErrUnformattableSource; both abort this declaration only.
func (t *Transformer) Transform(ctx context.Context, src string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	decl, err := syntax.ParseDeclaration(src)
	if err != nil {
		return nil, err
	}
	decl = stripMarker(decl)
	log := logger.ChildLogger(t.log, append(logger.FieldsFromContext(ctx), logger.FieldRecord, decl.Name)...)
	log.Debugw("parsed declaration",
		logger.FieldStage, "parse",
		"shape", decl.Shape.String(),
		"fields", len(decl.Fields),
		"generics", len(decl.Generics))

	formatted, err := t.formatter.Format(ctx, syntax.Print(decl))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.WrapUnformattable(err)
	}

	docs := NewDocs(t.docs, decl.Name, formatted)

	fields, err := NormalizeFields(decl, docs)
	if err != nil {
		return nil, err
	}

	cls := Classify(decl, fields)
	if logger.ShouldOutput(t.verbosity, logger.OutputClassification) {
		for _, f := range cls.Fields {
			log.Debugw("classified field",
				logger.FieldStage, "classify",
				logger.FieldField, f.Field.Ident,
				logger.FieldDependent, f.Dependent,
				"generics", f.GenericNames())
		}
	}

	aliases, err := SynthesizeAliases(cls, docs, t.genericAliases)
	if err != nil {
		return nil, err
	}
	contract, err := SynthesizeContract(decl, cls, docs)
	if err != nil {
		return nil, err
	}
	record, err := AssembleRecord(decl, fields, docs)
	if err != nil {
		return nil, err
	}

	ns := Namespace{
		Attrs:       decl.Attrs,
		Vis:         decl.Vis,
		Name:        decl.Name,
		OmitMarkers: t.omitMarkers,
		Aliases:     aliases,
		Record:      record,
		Contract:    contract,
	}
	if !t.omitMarkers {
		ns.Markers, err = markers(fields, docs)
		if err != nil {
			return nil, err
		}
	}

	out := EmitNamespace(ns)
	log.Debugw("emitted module",
		logger.FieldStage, "emit",
		"aliases", len(aliases),
		"assoc", len(contract.Assoc),
		logger.FieldDuration, time.Since(start).Milliseconds())

	return &Result{
		Declaration:    decl,
		Classification: cls,
		Namespace:      ns,
		Formatted:      formatted,
		Output:         out,
	}, nil
}

func markers(fields []FieldEntry, docs *Docs) ([]Marker, error) {
	out := make([]Marker, len(fields))
	for i, f := range fields {
		doc, err := docs.marker(f.Ident)
		if err != nil {
			return nil, err
		}
		out[i] = Marker{Doc: doc, Ident: f.Ident}
	}
	return out, nil
}

// stripMarker drops the #[dismantle] attribute itself, if present.
func stripMarker(decl *syntax.Declaration) *syntax.Declaration {
	if !slices.ContainsFunc(decl.Attrs, IsMarker) {
		return decl
	}
	d := *decl
	d.Attrs = slices.DeleteFunc(slices.Clone(decl.Attrs), IsMarker)
	return &d
}

// IsMarker reports whether a is #[dismantle] or a path ending in it, such
// as #[::dismantle] or #[crate::dismantle]. A trailing delimited argument
// group, as in #[dismantle(...)], is accepted and ignored.
func IsMarker(a syntax.Attribute) bool {
	toks := a.Tokens
	if len(toks) > 0 && toks[0].Is("::") {
		toks = toks[1:]
	}
	for i, t := range toks {
		if t.Is("(") || t.Is("[") || t.Is("{") {
			if !closesAtEnd(toks[i:]) {
				return false
			}
			toks = toks[:i]
			break
		}
	}
	n := len(toks)
	if n%2 == 0 {
		return false
	}
	for i := 1; i < n; i += 2 {
		if !toks[i].Is("::") || toks[i-1].Kind != syntax.Ident {
			return false
		}
	}
	return toks[n-1].Kind == syntax.Ident && toks[n-1].Text == AttributeName
}

// closesAtEnd reports whether the group opened by group[0] is closed by the
// last token.
func closesAtEnd(group []syntax.Token) bool {
	depth := 0
	for i, t := range group {
		if t.Kind != syntax.Punct {
			continue
		}
		switch t.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return i == len(group)-1
			}
		}
	}
	return false
}
