package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/dismantle/errors"
)

func fieldTypes(d *Declaration) []string {
	out := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		out[i] = RenderType(f.Type)
	}
	return out
}

func TestParseDeclarationNamed(t *testing.T) {
	src := `
/// A container.
#[derive(Debug, Clone)]
pub struct Container<C: Clone, T = i64> {
    a: i32,
    pub(crate) b: Vec<i32>,
    #[serde(default)]
    c: Vec<T>,
    d: C,
    e: T,
}`
	d, err := ParseDeclaration(src)
	require.NoError(t, err)

	assert.Equal(t, "Container", d.Name)
	assert.Equal(t, ShapeNamed, d.Shape)
	assert.Equal(t, VisPublic, d.Vis.Kind)
	assert.False(t, d.Terminator)
	require.Len(t, d.Attrs, 2)
	assert.Equal(t, "doc", d.Attrs[0].Name())
	assert.Equal(t, "#[derive(Debug, Clone)]", d.Attrs[1].String())

	require.Len(t, d.Generics, 2)
	assert.Equal(t, "C: Clone", d.Generics[0].String())
	assert.Equal(t, "T = i64", d.Generics[1].String())
	assert.Equal(t, "T", d.Generics[1].ImplString())

	assert.Equal(t, []string{"i32", "Vec<i32>", "Vec<T>", "C", "T"}, fieldTypes(d))
	assert.Equal(t, "b", d.Fields[1].Name)
	assert.Equal(t, VisCrate, d.Fields[1].Vis.Kind)
	require.Len(t, d.Fields[2].Attrs, 1)
	assert.Equal(t, "#[serde(default)]", d.Fields[2].Attrs[0].String())
	assert.Equal(t, src, d.Source)
}

func TestParseDeclarationPositional(t *testing.T) {
	d, err := ParseDeclaration("struct Tuple2<T>(i32, pub T) where T: Copy;")
	require.NoError(t, err)

	assert.Equal(t, ShapePositional, d.Shape)
	assert.True(t, d.Terminator)
	assert.Equal(t, VisInherited, d.Vis.Kind)
	assert.Equal(t, []string{"i32", "T"}, fieldTypes(d))
	assert.Equal(t, "", d.Fields[0].Name)
	assert.Equal(t, VisPublic, d.Fields[1].Vis.Kind)
	assert.Equal(t, " where T: Copy", RenderWhere(d.Where))
}

func TestParseDeclarationPositionalPubTuple(t *testing.T) {
	d, err := ParseDeclaration("struct P(pub (u8, u8), pub(crate) u8);")
	require.NoError(t, err)

	assert.Equal(t, []string{"(u8, u8)", "u8"}, fieldTypes(d))
	assert.Equal(t, VisPublic, d.Fields[0].Vis.Kind)
	assert.Equal(t, VisCrate, d.Fields[1].Vis.Kind)
}

func TestParseDeclarationUnit(t *testing.T) {
	d, err := ParseDeclaration("#[derive(Default)] pub(super) struct Empty;")
	require.NoError(t, err)

	assert.Equal(t, ShapeUnit, d.Shape)
	assert.Empty(t, d.Fields)
	assert.True(t, d.Terminator)
	assert.Equal(t, "pub(super)", d.Vis.String())
}

func TestParseDeclarationNamedWithWhereAndTerminator(t *testing.T) {
	d, err := ParseDeclaration("struct W<'a, T: ?Sized + 'a, const N: usize = 4> where T: Fn(&'a u8) -> bool { f: &'a T, g: [u8; N] };")
	require.NoError(t, err)

	assert.True(t, d.Terminator)
	require.Len(t, d.Generics, 3)
	assert.Equal(t, GenericLifetime, d.Generics[0].Kind)
	assert.Equal(t, "T: ?Sized + 'a", d.Generics[1].String())
	assert.Equal(t, "const N: usize = 4", d.Generics[2].String())
	assert.Equal(t, "const N: usize", d.Generics[2].ImplString())
	assert.Equal(t, " where T: Fn(&'a u8) -> bool", RenderWhere(d.Where))
	assert.Equal(t, []string{"&'a T", "[u8; N]"}, fieldTypes(d))
	assert.Equal(t, "<'a, T, N>", RenderTypeGenerics(d.Generics))
}

func TestParseTypeRoundTrip(t *testing.T) {
	tests := []string{
		"i32",
		"Vec<Vec<T>>",
		"::std::collections::HashMap<String, Vec<u8>>",
		"Option<&'static str>",
		"&mut [u8]",
		"*const u8",
		"*mut T",
		"[u8; 32]",
		"[T; { N + 1 }]",
		"()",
		"(T,)",
		"(i32, String, bool)",
		"(T)",
		"!",
		"_",
		"<T as Iterator>::Item",
		"<Vec<T>>::IntoIter",
		"Box<dyn Fn(i32) -> i32 + Send + 'static>",
		"impl Iterator<Item = u8>",
		"Box<dyn Iterator<Item: Clone>>",
		"fn(i32, x: &str) -> bool",
		"for<'a> unsafe extern \"C\" fn(&'a u8, ...)",
		"PhantomData<fn() -> T>",
		"Foo<'a, 3, -1, { M }>",
		"Vec::<u8>",
		"ty!(T, u8)",
		"Cow<'a, [T]>",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			ty, err := ParseType(src)
			require.NoError(t, err)
			assert.Equal(t, src, RenderType(ty))
		})
	}
}

func TestParseTypeNormalizesSpacing(t *testing.T) {
	ty, err := ParseType("HashMap < String ,Vec< u8 > >")
	require.NoError(t, err)
	assert.Equal(t, "HashMap<String, Vec<u8>>", RenderType(ty))
}

func TestParseDeclarationErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
		wantChar int
		contains string
	}{
		{"enum is rejected", "enum E { A }", 1, 0, "expected `struct`, found `enum`"},
		{"union is rejected", "pub union U { a: u8 }", 1, 4, "expected `struct`, found `union`"},
		{"missing name", "struct { a: u8 }", 1, 7, "expected struct name"},
		{"keyword as name", "struct fn;", 1, 7, "expected struct name"},
		{"tuple without semicolon", "struct T(u8)", 1, 12, "expected `;`"},
		{"unit without semicolon", "struct U", 1, 8, "expected `{`, `(` or `;`"},
		{"missing colon", "struct S { a u8 }", 1, 13, "expected `:`"},
		{"missing comma", "struct S { a: u8 b: u8 }", 1, 17, "expected `,` or `}`"},
		{"bad type", "struct S { a: = }", 1, 14, "expected type"},
		{"unclosed generics", "struct S<T { }", 1, 11, "expected `,` or `>`"},
		{"trailing tokens", "struct S; fn f() {}", 1, 10, "unexpected `fn`"},
		{"duplicate generic", "struct S<T, T>;", 1, 12, "declared twice"},
		{"inner attribute", "#![allow(x)] struct S;", 1, 1, "inner attributes"},
		{"bad visibility", "pub(foo) struct S;", 1, 4, "in visibility"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeclaration(tt.src)
			require.Error(t, err)
			assert.True(t, errors.IsMalformed(err), "error should match ErrMalformedDeclaration")

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.wantLine, pe.Pos.Line)
			assert.Equal(t, tt.wantChar, pe.Pos.Character)
			assert.Contains(t, pe.Message, tt.contains)
		})
	}
}

func TestParseErrorSuggestions(t *testing.T) {
	_, err := ParseDeclaration("enum E { A }")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Suggestions, "only struct declarations can be dismantled")
	assert.Contains(t, pe.Error(), "1:1: expected `struct`")

	r := pe.Range()
	assert.Equal(t, 4, r.End.Character)
}
