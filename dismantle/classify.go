package dismantle

import (
	"github.com/teranos/dismantle/syntax"
)

// selfType makes a field dependent even without generic parameters: `Self`
// only means something inside the impl.
const selfType = "Self"

// Classification is the per-field dependency analysis of one record. It is
// computed once and shared by alias and contract synthesis.
type Classification struct {
	Record   string
	Generics []syntax.GenericParam
	Fields   []FieldTypeAlias
}

// Classify intersects every field's referenced identifiers with the record's
// generic parameters. The result is a pure function of its input.
func Classify(decl *syntax.Declaration, fields []FieldEntry) Classification {
	cls := Classification{
		Record:   decl.Name,
		Generics: decl.Generics,
		Fields:   make([]FieldTypeAlias, len(fields)),
	}
	for i, f := range fields {
		cls.Fields[i] = classifyField(decl.Generics, f)
	}
	return cls
}

func classifyField(generics []syntax.GenericParam, f FieldEntry) FieldTypeAlias {
	refs := syntax.HeadIdents(f.Type)
	alias := FieldTypeAlias{Field: f}
	for _, g := range generics {
		if refs.Has(g.Name) {
			alias.Generics = append(alias.Generics, g)
		}
	}
	alias.Dependent = len(alias.Generics) > 0 || refs.Has(selfType)
	return alias
}

// Independent returns the fields that get a zero-arity alias.
func (c Classification) Independent() []FieldTypeAlias {
	return c.filter(false)
}

// Dependent returns the fields that become associated types.
func (c Classification) Dependent() []FieldTypeAlias {
	return c.filter(true)
}

func (c Classification) filter(dependent bool) []FieldTypeAlias {
	var out []FieldTypeAlias
	for _, f := range c.Fields {
		if f.Dependent == dependent {
			out = append(out, f)
		}
	}
	return out
}
