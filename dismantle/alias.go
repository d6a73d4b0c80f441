package dismantle

import (
	"slices"

	"github.com/teranos/dismantle/syntax"
)

// SynthesizeAliases emits one zero-arity alias per independent field. With
// genericAliases set, dependent fields are surfaced too, parameterized over
// exactly the generic subset they reference; fields that name `Self` never
// are.
func SynthesizeAliases(cls Classification, docs *Docs, genericAliases bool) ([]AliasDecl, error) {
	var aliases []AliasDecl
	for _, f := range cls.Fields {
		if f.Dependent && (!genericAliases || namesSelf(f)) {
			continue
		}
		doc, err := docs.alias(f.Field.Ident, f.Field.Rendered, f.GenericNames(), true)
		if err != nil {
			return nil, err
		}
		aliases = append(aliases, AliasDecl{
			Doc:      doc,
			Ident:    f.Field.Ident,
			Generics: aliasGenerics(f.Generics, cls.Generics),
			Type:     f.Field.Type,
		})
	}
	return aliases, nil
}

func namesSelf(f FieldTypeAlias) bool {
	return syntax.HeadIdents(f.Field.Type).Has(selfType)
}

// aliasGenerics keeps the bounds and defaults of subset that do not mention
// a parameter of all outside subset. Defaults are then cleared up to the
// last parameter without one, since defaults must trail.
func aliasGenerics(subset, all []syntax.GenericParam) []syntax.GenericParam {
	if len(subset) == 0 {
		return nil
	}
	inside := make(syntax.IdentSet, len(subset))
	for _, g := range subset {
		inside.Add(g.Name)
	}
	outside := make(syntax.IdentSet)
	for _, g := range all {
		if !inside.Has(g.Name) {
			outside.Add(g.Name)
		}
	}
	closed := func(refs syntax.IdentSet) bool {
		for name := range refs {
			if outside.Has(name) {
				return false
			}
		}
		return true
	}

	out := make([]syntax.GenericParam, len(subset))
	for i, g := range subset {
		g.LifetimeBounds = slices.DeleteFunc(slices.Clone(g.LifetimeBounds), func(lt string) bool {
			return outside.Has(lt)
		})
		if !closed(syntax.BoundIdents(g.Bounds)) {
			g.Bounds = nil
		}
		if g.Default != nil && !closed(syntax.HeadIdents(g.Default)) {
			g.Default = nil
		}
		if g.ConstDefault != nil && !closed(syntax.TokenIdents(g.ConstDefault)) {
			g.ConstDefault = nil
		}
		out[i] = g
	}

	last := -1
	for i, g := range out {
		if g.Kind != syntax.GenericLifetime && !hasDefault(g) {
			last = i
		}
	}
	for i := 0; i < last; i++ {
		out[i].Default = nil
		out[i].ConstDefault = nil
	}
	return out
}

func hasDefault(g syntax.GenericParam) bool {
	return g.Default != nil || g.ConstDefault != nil
}

// hasAliasBounds reports whether any parameter carries a bound, which rustc
// ignores on type aliases and warns about.
func hasAliasBounds(generics []syntax.GenericParam) bool {
	for _, g := range generics {
		if len(g.Bounds) > 0 || len(g.LifetimeBounds) > 0 {
			return true
		}
	}
	return false
}
