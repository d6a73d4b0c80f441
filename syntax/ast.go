package syntax

// Shape is the closed set of struct body forms.
type Shape int

const (
	ShapeNamed      Shape = iota // struct S { a: T }
	ShapePositional              // struct S(T);
	ShapeUnit                    // struct S;
)

func (s Shape) String() string {
	switch s {
	case ShapeNamed:
		return "named"
	case ShapePositional:
		return "positional"
	case ShapeUnit:
		return "unit"
	default:
		return "unknown"
	}
}

// VisKind enumerates Rust visibility forms.
type VisKind int

const (
	VisInherited VisKind = iota // no modifier
	VisPublic                   // pub
	VisCrate                    // pub(crate) or bare `crate`
	VisSelf                     // pub(self)
	VisSuper                    // pub(super)
	VisIn                       // pub(in path)
)

// Visibility is an item or field visibility modifier.
type Visibility struct {
	Kind VisKind
	Path string // only for VisIn
	// Bare marks the legacy `crate` keyword form of VisCrate.
	Bare bool
}

// Public is the `pub` visibility forced onto generated items.
var Public = Visibility{Kind: VisPublic}

// Attribute is an outer attribute `#[...]`; doc comments arrive here as
// `#[doc = "..."]`.
type Attribute struct {
	Tokens []Token // tokens between the brackets
	Pos    Position
}

// Name returns the attribute path's first segment, e.g. "derive" or "doc".
func (a Attribute) Name() string {
	if len(a.Tokens) == 0 {
		return ""
	}
	return a.Tokens[0].Text
}

// GenericKind distinguishes the three kinds of generic parameters.
type GenericKind int

const (
	GenericLifetime GenericKind = iota
	GenericType
	GenericConst
)

// GenericParam is one declared generic parameter with its bounds and default.
type GenericParam struct {
	Attrs []Attribute
	Kind  GenericKind
	// Name is the identifier; lifetimes keep their leading quote ('a).
	Name string
	// LifetimeBounds holds the outlives bounds of a lifetime param ('a: 'b + 'c).
	LifetimeBounds []string
	// Bounds holds the trait and lifetime bounds of a type param.
	Bounds []Bound
	// Default is the default type of a type param.
	Default Type
	// ConstType is the declared type of a const param.
	ConstType Type
	// ConstDefault is the default expression of a const param.
	ConstDefault []Token
	Pos          Position
}

// Field is one declared struct field.
type Field struct {
	Attrs []Attribute
	Vis   Visibility
	// Name is empty for positional fields.
	Name string
	Type Type
	Pos  Position
}

// Declaration is a parsed struct declaration. It is never mutated after
// ParseDeclaration returns.
type Declaration struct {
	Attrs    []Attribute
	Vis      Visibility
	Name     string
	NamePos  Position
	Generics []GenericParam
	// Where holds the raw where-clause predicates (without the keyword).
	Where      []Token
	Shape      Shape
	Fields     []Field
	Terminator bool
	// Source is the exact text that was parsed.
	Source string
}

// GenericNames returns the identifiers of every declared generic parameter.
func (d *Declaration) GenericNames() IdentSet {
	set := make(IdentSet, len(d.Generics))
	for _, g := range d.Generics {
		set.Add(g.Name)
	}
	return set
}

// Type is a Rust type expression. The set of implementations is closed.
type Type interface {
	typeNode()
}

// PathType is a possibly qualified path: Vec<T>, ::std::fmt::Result, <T as Iterator>::Item.
type PathType struct {
	QSelf    *QSelf
	Global   bool // leading ::
	Segments []PathSegment
}

// QSelf is the `<T as Trait>` prefix of a qualified path.
type QSelf struct {
	Type Type
	// As is the trait path, nil for `<T>::Assoc`.
	As *PathType
}

// PathSegment is one `::`-separated segment with optional arguments.
type PathSegment struct {
	Name      string
	Turbofish bool
	Args      []GenericArg
	// Fn holds parenthesized arguments of Fn-like sugar: Fn(A, B) -> C.
	Fn *ParenArgs
}

// ParenArgs are the inputs and output of Fn(A) -> B sugar.
type ParenArgs struct {
	Inputs []Type
	Output Type
}

// GenericArg is one argument inside <...>.
type GenericArg interface {
	genericArg()
}

// TypeArg is a type argument.
type TypeArg struct{ Type Type }

// LifetimeArg is a lifetime argument.
type LifetimeArg struct{ Name string }

// ConstArg is a const expression argument: a literal, a block or a negated literal.
type ConstArg struct{ Tokens []Token }

// BindingArg binds an associated type: Item = T.
type BindingArg struct {
	Name string
	Type Type
}

// ConstraintArg bounds an associated type: Item: Clone.
type ConstraintArg struct {
	Name   string
	Bounds []Bound
}

// Bound is a trait or lifetime bound.
type Bound interface {
	bound()
}

// TraitBound is `?Sized`, `for<'a> Fn(&'a T)`, `Iterator<Item = u8>`.
type TraitBound struct {
	Maybe        bool
	ForLifetimes []string
	Path         *PathType
}

// LifetimeBound is a lifetime used as a bound.
type LifetimeBound struct{ Name string }

// RefType is &'a mut T.
type RefType struct {
	Lifetime string
	Mut      bool
	Elem     Type
}

// PtrType is *const T or *mut T.
type PtrType struct {
	Mut  bool
	Elem Type
}

// SliceType is [T].
type SliceType struct{ Elem Type }

// ArrayType is [T; N].
type ArrayType struct {
	Elem Type
	Len  []Token
}

// TupleType is (), (T,) or (A, B).
type TupleType struct{ Elems []Type }

// ParenType is a parenthesized type (T).
type ParenType struct{ Elem Type }

// NeverType is !.
type NeverType struct{}

// InferType is _.
type InferType struct{}

// FnParam is one parameter of a fn pointer type.
type FnParam struct {
	Name string
	Type Type
}

// FnType is a function pointer: for<'a> unsafe extern "C" fn(x: &'a u8, ...) -> R.
type FnType struct {
	ForLifetimes []string
	Unsafe       bool
	Extern       bool
	ABI          string // quoted literal, empty for the default ABI
	Params       []FnParam
	Variadic     bool
	Output       Type
}

// TraitObjectType is `dyn A + B` or `impl A + B`.
type TraitObjectType struct {
	Impl   bool
	Bounds []Bound
}

// MacroType is a macro invocation in type position: m!(...).
type MacroType struct {
	Path   *PathType
	Tokens []Token // delimited group including delimiters
}

func (*PathType) typeNode()        {}
func (*RefType) typeNode()         {}
func (*PtrType) typeNode()         {}
func (*SliceType) typeNode()       {}
func (*ArrayType) typeNode()       {}
func (*TupleType) typeNode()       {}
func (*ParenType) typeNode()       {}
func (*NeverType) typeNode()       {}
func (*InferType) typeNode()       {}
func (*FnType) typeNode()          {}
func (*TraitObjectType) typeNode() {}
func (*MacroType) typeNode()       {}

func (*TypeArg) genericArg()       {}
func (*LifetimeArg) genericArg()   {}
func (*ConstArg) genericArg()      {}
func (*BindingArg) genericArg()    {}
func (*ConstraintArg) genericArg() {}

func (*TraitBound) bound()    {}
func (*LifetimeBound) bound() {}
