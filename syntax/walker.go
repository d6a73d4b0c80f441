package syntax

import "sort"

// IdentSet is a set of identifiers. Lifetimes keep their leading quote.
type IdentSet map[string]struct{}

// Add inserts name into the set.
func (s IdentSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is in the set.
func (s IdentSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexical order.
func (s IdentSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HeadIdents returns the head identifier of every type path nested anywhere
// in ty: generic arguments, references, tuples, arrays, fn pointers and the
// generic arguments of trait-object bounds. Lifetimes and identifiers inside
// const expressions (array lengths, const arguments) are collected as well,
// so lifetime and const parameters are detected like type parameters.
//
// The walk is purely syntactic. An unrelated type that happens to share a
// generic parameter's name is indistinguishable from the parameter.
func HeadIdents(ty Type) IdentSet {
	w := walker{out: make(IdentSet)}
	w.typ(ty)
	return w.out
}

// BoundIdents returns the identifiers referenced by a bound list, using the
// same rules as HeadIdents. Trait paths themselves contribute their head.
func BoundIdents(bounds []Bound) IdentSet {
	w := walker{out: make(IdentSet)}
	for _, b := range bounds {
		if tb, ok := b.(*TraitBound); ok {
			w.head(tb.Path)
		}
		w.bound(b)
	}
	return w.out
}

// TokenIdents returns the head identifiers and lifetimes in a raw token run.
func TokenIdents(toks []Token) IdentSet {
	w := walker{out: make(IdentSet)}
	w.tokens(toks)
	return w.out
}

type walker struct {
	out IdentSet
}

func (w *walker) typ(ty Type) {
	switch t := ty.(type) {
	case *PathType:
		w.head(t)
		w.pathArgs(t)
	case *RefType:
		if t.Lifetime != "" {
			w.out.Add(t.Lifetime)
		}
		w.typ(t.Elem)
	case *PtrType:
		w.typ(t.Elem)
	case *SliceType:
		w.typ(t.Elem)
	case *ArrayType:
		w.typ(t.Elem)
		w.tokens(t.Len)
	case *TupleType:
		for _, e := range t.Elems {
			w.typ(e)
		}
	case *ParenType:
		w.typ(t.Elem)
	case *FnType:
		for _, prm := range t.Params {
			w.typ(prm.Type)
		}
		if t.Output != nil {
			w.typ(t.Output)
		}
	case *TraitObjectType:
		for _, b := range t.Bounds {
			w.bound(b)
		}
	case *MacroType:
		w.head(t.Path)
		w.tokens(t.Tokens)
	case *NeverType, *InferType, nil:
	}
}

// head records the leading segment of a type path. For a qualified path the
// self type is walked and the trait's head is what names the path.
func (w *walker) head(t *PathType) {
	if t.QSelf != nil {
		w.typ(t.QSelf.Type)
		if t.QSelf.As != nil {
			w.head(t.QSelf.As)
			w.pathArgs(t.QSelf.As)
			return
		}
	}
	if len(t.Segments) > 0 {
		w.out.Add(t.Segments[0].Name)
	}
}

func (w *walker) pathArgs(t *PathType) {
	for _, seg := range t.Segments {
		for _, arg := range seg.Args {
			w.arg(arg)
		}
		if seg.Fn != nil {
			for _, in := range seg.Fn.Inputs {
				w.typ(in)
			}
			if seg.Fn.Output != nil {
				w.typ(seg.Fn.Output)
			}
		}
	}
}

func (w *walker) arg(arg GenericArg) {
	switch a := arg.(type) {
	case *TypeArg:
		w.typ(a.Type)
	case *LifetimeArg:
		w.out.Add(a.Name)
	case *ConstArg:
		w.tokens(a.Tokens)
	case *BindingArg:
		w.typ(a.Type)
	case *ConstraintArg:
		for _, b := range a.Bounds {
			w.bound(b)
		}
	}
}

// bound walks a trait bound's arguments; the trait name itself is not a
// type path and is not collected.
func (w *walker) bound(b Bound) {
	switch bb := b.(type) {
	case *TraitBound:
		w.pathArgs(bb.Path)
	case *LifetimeBound:
		w.out.Add(bb.Name)
	}
}

func (w *walker) tokens(toks []Token) {
	for i, t := range toks {
		switch t.Kind {
		case Lifetime:
			w.out.Add(t.Text)
		case Ident:
			if i > 0 && toks[i-1].Is("::") {
				continue
			}
			w.out.Add(t.Text)
		}
	}
}
