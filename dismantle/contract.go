package dismantle

import (
	"strings"

	"github.com/teranos/dismantle/syntax"
)

// SynthesizeContract declares one associated type per dependent field of
// cls and binds each to its literal field type on core. The impl carries the
// record's full generic list and where clause.
func SynthesizeContract(decl *syntax.Declaration, cls Classification, docs *Docs) (Contract, error) {
	names := make([]string, len(decl.Generics))
	for i, g := range decl.Generics {
		names[i] = g.Name
	}
	doc, err := docs.contract(names)
	if err != nil {
		return Contract{}, err
	}

	contract := Contract{
		Doc:      doc,
		Generics: decl.Generics,
		Where:    decl.Where,
	}
	for _, f := range cls.Dependent() {
		assocDoc, err := docs.alias(f.Field.Ident, f.Field.Rendered, f.GenericNames(), false)
		if err != nil {
			return Contract{}, err
		}
		contract.Assoc = append(contract.Assoc, AssocType{
			Doc:   assocDoc,
			Ident: f.Field.Ident,
			Type:  f.Field.Type,
		})
	}
	return contract, nil
}

// selfBound renders the bound of the self-binding: the protocol with every
// associated type pinned to the implementer's own.
func (c Contract) selfBound() string {
	if len(c.Assoc) == 0 {
		return ProtocolName
	}
	binds := make([]string, len(c.Assoc))
	for i, a := range c.Assoc {
		binds[i] = a.Ident + " = Self::" + a.Ident
	}
	return ProtocolName + "<" + strings.Join(binds, ", ") + ">"
}
