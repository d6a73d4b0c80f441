package dismantle

import (
	"github.com/teranos/dismantle/syntax"
)

// Names of the items generated inside every module.
const (
	CoreName     = "core"
	ProtocolName = "protocol"
	FieldsName   = "fields"
	SelfBinding  = "__Core"
)

// reservedNames may not be used as field identifiers: a field alias or
// associated type with one of these names would collide with a generated
// item.
var reservedNames = map[string]bool{
	CoreName:     true,
	ProtocolName: true,
	FieldsName:   true,
	SelfBinding:  true,
}

// FieldEntry is one normalized field.
type FieldEntry struct {
	Index int
	// Ident is the declared name, or field_<Index> for positional fields.
	Ident string
	Type  syntax.Type
	// Rendered is Type with canonical spacing.
	Rendered string
	Doc      string
	// Field is the field as re-emitted on the canonical record: public,
	// with Doc appended to its attributes.
	Field syntax.Field
}

// FieldTypeAlias is the classification of one field.
type FieldTypeAlias struct {
	Field FieldEntry
	// Generics is the minimal subset of the record's generic parameters the
	// field type references, in declaration order.
	Generics []syntax.GenericParam
	// Dependent is set when Generics is non-empty or the type names Self.
	Dependent bool
}

// GenericNames returns the names in Generics.
func (a FieldTypeAlias) GenericNames() []string {
	names := make([]string, len(a.Generics))
	for i, g := range a.Generics {
		names[i] = g.Name
	}
	return names
}

// AliasDecl is a free-standing `pub type` at module scope.
type AliasDecl struct {
	Doc   string
	Ident string
	// Generics is empty for independent fields.
	Generics []syntax.GenericParam
	Type     syntax.Type
}

// AssocType is one associated type of the contract and its binding on core.
type AssocType struct {
	Doc   string
	Ident string
	Type  syntax.Type
}

// Contract is the protocol trait and its implementation for core.
type Contract struct {
	Doc   string
	Assoc []AssocType
	// Generics and Where parameterize the impl; they are the record's own.
	Generics []syntax.GenericParam
	Where    []syntax.Token
}

// CanonicalRecord is the declaration re-emitted as `pub struct core`.
type CanonicalRecord struct {
	Decl *syntax.Declaration
}

// Marker is a zero-size type naming one field.
type Marker struct {
	Doc   string
	Ident string
}

// Namespace is everything emitted for one declaration.
type Namespace struct {
	Attrs       []syntax.Attribute
	Vis         syntax.Visibility
	Name        string
	Markers     []Marker
	OmitMarkers bool
	Aliases     []AliasDecl
	Record      CanonicalRecord
	Contract    Contract
}
