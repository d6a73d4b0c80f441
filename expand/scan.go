package expand

import (
	"github.com/teranos/dismantle/dismantle"
	"github.com/teranos/dismantle/syntax"
)

// findItems locates every item carrying a #[dismantle] attribute. The span
// starts at the item's first outer attribute and ends after its body: the
// first top-level `;`, or the brace block that closes the item.
func findItems(toks []syntax.Token) []syntax.Range {
	var spans []syntax.Range
	for i := 0; i < len(toks); {
		if !isAttrStart(toks, i) {
			i++
			continue
		}
		start := i
		marked := false
		for isAttrStart(toks, i) {
			end := closeBracket(toks, i+1)
			if end < 0 {
				return spans
			}
			if dismantle.IsMarker(syntax.Attribute{Tokens: toks[i+2 : end]}) {
				marked = true
			}
			i = end + 1
		}
		if !marked {
			continue
		}
		last := itemEnd(toks, i)
		if last < 0 {
			return spans
		}
		spans = append(spans, syntax.Range{Start: toks[start].Pos, End: endOf(toks[last])})
		i = last + 1
	}
	return spans
}

func isAttrStart(toks []syntax.Token, i int) bool {
	return i+1 < len(toks) && toks[i].Is("#") && toks[i+1].Is("[")
}

// closeBracket returns the index of the token closing the group opened at
// open, or -1 when the input ends first.
func closeBracket(toks []syntax.Token, open int) int {
	depth := 0
	for j := open; j < len(toks); j++ {
		switch toks[j].Text {
		case "(", "[", "{":
			if toks[j].Kind == syntax.Punct {
				depth++
			}
		case ")", "]", "}":
			if toks[j].Kind == syntax.Punct {
				depth--
				if depth == 0 {
					return j
				}
			}
		}
	}
	return -1
}

// itemEnd returns the index of the item's last token. Braces inside `<...>`
// or right after `=` are const expressions (`const N: usize = { 2 }`,
// `Foo<{ N }>`) and do not open the body.
func itemEnd(toks []syntax.Token, i int) int {
	angle := 0
	for j := i; j < len(toks); j++ {
		t := toks[j]
		if t.Kind == syntax.EOF {
			return -1
		}
		if t.Kind != syntax.Punct {
			continue
		}
		switch t.Text {
		case "<":
			angle++
		case ">":
			if angle > 0 {
				angle--
			}
		case ";":
			if angle == 0 {
				return j
			}
		case "{":
			end := closeBracket(toks, j)
			if end < 0 {
				return -1
			}
			if angle == 0 && !toks[j-1].Is("=") {
				return end
			}
			j = end
		case "(", "[":
			end := closeBracket(toks, j)
			if end < 0 {
				return -1
			}
			j = end
		}
	}
	return -1
}

func endOf(t syntax.Token) syntax.Position {
	end := t.Pos
	end.Character += len([]rune(t.Text))
	end.Offset += len(t.Text)
	return end
}
