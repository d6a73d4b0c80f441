package expand

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teranos/dismantle/dismantle"
	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/syntax"
)

func newTransformer() *dismantle.Transformer {
	return dismantle.New(dismantle.Options{Logger: zap.NewNop().Sugar()})
}

const file = `use std::collections::HashMap;

/// Two things.
#[dismantle]
#[derive(Debug)]
pub struct Pair<T> {
    a: i32,
    b: T,
}

#[derive(Clone)]
struct Untouched {
    x: u8,
}

#[dismantle]
struct Tuple(i32, HashMap<String, u8>);

fn main() {
    let s = "#[dismantle] struct NotAnItem;";
}
`

func TestFile(t *testing.T) {
	res, err := File(context.Background(), file, newTransformer())
	require.NoError(t, err)
	require.NoError(t, res.Err())
	require.Len(t, res.Items, 2)

	assert.Equal(t, "Pair", res.Items[0].Name())
	assert.Equal(t, "Tuple", res.Items[1].Name())
	assert.Equal(t, 3, res.Items[0].Range.Start.Line)
	assert.True(t, strings.HasPrefix(res.Items[0].Source, "/// Two things.\n#[dismantle]"))
	assert.True(t, strings.HasSuffix(res.Items[0].Source, "    b: T,\n}"))
	assert.Equal(t, "#[dismantle]\nstruct Tuple(i32, HashMap<String, u8>);", res.Items[1].Source)

	out := res.Output
	assert.True(t, strings.HasPrefix(out, "use std::collections::HashMap;\n\n#[allow(non_snake_case)]\n#[doc = \" Two things.\"]\npub mod Pair {\n"))
	assert.Contains(t, out, "#[derive(Clone)]\nstruct Untouched {\n    x: u8,\n}\n")
	assert.Contains(t, out, "mod Tuple {\n")
	assert.Contains(t, out, "pub type field_1 = HashMap<String, u8>;")
	assert.Contains(t, out, `let s = "#[dismantle] struct NotAnItem;";`)
	assert.True(t, strings.HasSuffix(out, "}\n\nfn main() {\n    let s = \"#[dismantle] struct NotAnItem;\";\n}\n"))
	assert.Equal(t, 2, strings.Count(out, "#[allow(non_snake_case)]"))
}

func TestFileNestedItemIsReindented(t *testing.T) {
	src := "mod inner {\n    #[dismantle]\n    struct S;\n}\n"
	res, err := File(context.Background(), src, newTransformer())
	require.NoError(t, err)
	require.NoError(t, res.Err())

	assert.True(t, strings.HasPrefix(res.Output, "mod inner {\n    #[allow(non_snake_case)]\n    mod S {\n        #![allow(non_camel_case_types)]\n"))
	assert.True(t, strings.HasSuffix(res.Output, "\n    }\n}\n"))
}

func TestFileFailuresAreIndependent(t *testing.T) {
	src := `#[dismantle]
struct Good { a: u8 }

#[dismantle]
enum Bad { A, B }

#[dismantle]
struct AlsoBad {
    core: u8,
}

#[dismantle]
struct AlsoGood;
`
	res, err := File(context.Background(), src, newTransformer())
	require.NoError(t, err)
	require.Len(t, res.Items, 4)

	failed := res.Failed()
	require.Len(t, failed, 2)
	assert.Contains(t, failed[0].Source, "enum Bad")
	assert.Contains(t, failed[1].Source, "struct AlsoBad")

	for _, it := range failed {
		assert.True(t, errors.IsMalformed(it.Err))
	}
	var pe *syntax.ParseError
	require.True(t, errors.As(failed[0].Err, &pe))
	assert.Equal(t, 5, pe.Pos.Line)
	require.True(t, errors.As(failed[1].Err, &pe))
	assert.Equal(t, 9, pe.Pos.Line)
	assert.Equal(t, 4, pe.Pos.Character)

	// Failed items stay as written.
	assert.Contains(t, res.Output, "#[dismantle]\nenum Bad { A, B }\n")
	assert.Contains(t, res.Output, "#[dismantle]\nstruct AlsoBad {\n    core: u8,\n}\n")
	assert.Contains(t, res.Output, "mod Good {")
	assert.Contains(t, res.Output, "mod AlsoGood {")

	err = res.Err()
	require.Error(t, err)
	assert.True(t, errors.IsMalformed(err))
}

func TestFileBracesInHeader(t *testing.T) {
	tests := []struct {
		name string
		item string
	}{
		{"const default block", "struct A<const N: usize = { 2 }> { a: [u8; N] }"},
		{"const arg in where clause", "struct B<const N: usize> where Wrap<{ N }>: Copy { b: [u8; N] }"},
		{"tuple with const arg", "struct C<const N: usize>(Wrap<{ N + 1 }>);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "#[dismantle]\n" + tt.item + "\n\nfn after() {}\n"
			res, err := File(context.Background(), src, newTransformer())
			require.NoError(t, err)
			require.NoError(t, res.Err())
			require.Len(t, res.Items, 1)

			assert.Equal(t, "#[dismantle]\n"+tt.item, res.Items[0].Source)
			assert.True(t, strings.HasSuffix(res.Output, "}\n\nfn after() {}\n"))
		})
	}
}

func TestFileMarkerSpellings(t *testing.T) {
	for _, attr := range []string{"#[dismantle()]", "#[::dismantle]", "#[crate::dismantle(anything)]"} {
		t.Run(attr, func(t *testing.T) {
			res, err := File(context.Background(), attr+"\nstruct S { a: u8 }\n", newTransformer())
			require.NoError(t, err)
			require.NoError(t, res.Err())
			require.Len(t, res.Items, 1)
			assert.Equal(t, "S", res.Items[0].Name())
			assert.NotContains(t, res.Output, "dismantle")
		})
	}
}

func TestFileWithoutItems(t *testing.T) {
	src := "#[derive(Debug)]\nstruct S;\n"
	res, err := File(context.Background(), src, newTransformer())
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, src, res.Output)
	assert.NoError(t, res.Err())
}

func TestFileUntokenizable(t *testing.T) {
	_, err := File(context.Background(), "struct S { a: \"unterminated }", newTransformer())
	require.Error(t, err)
	assert.True(t, errors.IsMalformed(err))
}

func TestFileCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := File(ctx, "#[dismantle]\nstruct S;\n", newTransformer())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShift(t *testing.T) {
	base := syntax.Position{Line: 10, Character: 4, Offset: 200}
	assert.Equal(t, syntax.Position{Line: 10, Character: 7, Offset: 203},
		shift(syntax.Position{Line: 1, Character: 3, Offset: 3}, base))
	assert.Equal(t, syntax.Position{Line: 12, Character: 3, Offset: 230},
		shift(syntax.Position{Line: 3, Character: 3, Offset: 30}, base))
}
