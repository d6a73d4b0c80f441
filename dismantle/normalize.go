package dismantle

import (
	"fmt"
	"slices"

	"github.com/teranos/dismantle/syntax"
)

// NormalizeFields assigns every field its canonical identifier, promotes it
// to public and appends its generated documentation. Entries are returned in
// declaration order; decl itself is not modified.
//
// Identifiers that would collide with a generated item, and duplicated
// identifiers, are malformed.
func NormalizeFields(decl *syntax.Declaration, docs *Docs) ([]FieldEntry, error) {
	entries := make([]FieldEntry, 0, len(decl.Fields))
	seen := make(map[string]bool, len(decl.Fields))

	for i, f := range decl.Fields {
		ident := f.Name
		if ident == "" {
			ident = fmt.Sprintf("field_%d", i)
		}
		if reservedNames[ident] {
			return nil, syntax.Errorf(f.Pos, "field `%s` collides with the generated item `%s`", ident, ident).
				WithSuggestion("rename the field")
		}
		if seen[ident] {
			return nil, syntax.Errorf(f.Pos, "field `%s` is declared more than once", ident)
		}
		seen[ident] = true

		rendered := syntax.RenderType(f.Type)
		doc, err := docs.field(ident, rendered)
		if err != nil {
			return nil, err
		}

		field := f
		field.Vis = syntax.Public
		field.Attrs = append(slices.Clone(f.Attrs), docAttrs(doc)...)

		entries = append(entries, FieldEntry{
			Index:    i,
			Ident:    ident,
			Type:     f.Type,
			Rendered: rendered,
			Doc:      doc,
			Field:    field,
		})
	}
	return entries, nil
}
