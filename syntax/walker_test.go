package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadIdents(t *testing.T) {
	tests := []struct {
		ty   string
		want []string
	}{
		{"i32", []string{"i32"}},
		{"Vec<T>", []string{"T", "Vec"}},
		{"std::collections::HashMap<K, Vec<V>>", []string{"K", "V", "Vec", "std"}},
		{"&'a mut T", []string{"'a", "T"}},
		{"(A, (B, C))", []string{"A", "B", "C"}},
		{"[T; N]", []string{"N", "T"}},
		{"[u8; consts::LEN]", []string{"consts", "u8"}},
		{"<T as Iterator>::Item", []string{"Iterator", "T"}},
		{"Box<dyn Fn(A) -> B + Send>", []string{"A", "B", "Box"}},
		{"impl Iterator<Item = T>", []string{"T"}},
		{"fn(&X) -> Y", []string{"X", "Y"}},
		{"PhantomData<fn() -> T>", []string{"PhantomData", "T"}},
		{"Foo<{ N * 2 }>", []string{"Foo", "N"}},
		{"m!(T)", []string{"T", "m"}},
		{"!", []string{}},
		{"()", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.ty, func(t *testing.T) {
			ty, err := ParseType(tt.ty)
			require.NoError(t, err)
			assert.Equal(t, tt.want, HeadIdents(ty).Sorted())
		})
	}
}

func TestHeadIdentsIsSyntactic(t *testing.T) {
	// A module path that shares a generic's name is still collected.
	ty, err := ParseType("T::Output")
	require.NoError(t, err)
	assert.True(t, HeadIdents(ty).Has("T"))

	// Later path segments are never heads.
	ty, err = ParseType("module::T")
	require.NoError(t, err)
	assert.False(t, HeadIdents(ty).Has("T"))
}

func TestBoundIdents(t *testing.T) {
	d, err := ParseDeclaration("struct S<'a, U, T: Into<U> + 'a>;")
	require.NoError(t, err)
	assert.Equal(t, []string{"'a", "Into", "U"}, BoundIdents(d.Generics[2].Bounds).Sorted())
}

func TestTokenIdents(t *testing.T) {
	toks, err := Tokenize("T: Clone + 'b, U::Assoc: Copy")
	require.NoError(t, err)
	assert.Equal(t, []string{"'b", "Clone", "Copy", "T", "U"}, TokenIdents(toks).Sorted())
}
