package dismantle

import (
	"slices"

	"github.com/teranos/dismantle/syntax"
)

// AssembleRecord re-emits decl as `pub struct core` with the normalized
// fields. Generics, where clause, shape and terminator are kept as parsed.
func AssembleRecord(decl *syntax.Declaration, fields []FieldEntry, docs *Docs) (CanonicalRecord, error) {
	doc, err := docs.canonical()
	if err != nil {
		return CanonicalRecord{}, err
	}

	core := *decl
	core.Name = CoreName
	core.Vis = syntax.Public
	core.Attrs = append(slices.Clone(decl.Attrs), docAttrs(doc)...)
	core.Fields = make([]syntax.Field, len(fields))
	for i, f := range fields {
		core.Fields[i] = f.Field
	}
	core.Source = ""
	return CanonicalRecord{Decl: &core}, nil
}
