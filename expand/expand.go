// Package expand rewrites every #[dismantle] struct in a Rust source file.
// Items are independent: one that fails to transform is left as written and
// reported, the others are still expanded.
package expand

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/teranos/dismantle/dismantle"
	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/syntax"
)

// Transformer is the per-item transformation.
type Transformer interface {
	Transform(ctx context.Context, src string) (*dismantle.Result, error)
}

// Item is one annotated item of a file.
type Item struct {
	// Range spans the item in the file, attributes included.
	Range  syntax.Range
	Source string
	Result *dismantle.Result
	// Err is set when the item could not be transformed. Parse errors are
	// positioned relative to the file.
	Err error
}

// Name returns the declared name, or "" when the item failed to parse.
func (it Item) Name() string {
	if it.Result == nil {
		return ""
	}
	return it.Result.Declaration.Name
}

// Result is an expanded file.
type Result struct {
	Output string
	Items  []Item
}

// Failed returns the items that were not transformed.
func (r *Result) Failed() []Item {
	var out []Item
	for _, it := range r.Items {
		if it.Err != nil {
			out = append(out, it)
		}
	}
	return out
}

// Err joins the errors of all failed items, nil when every item expanded.
func (r *Result) Err() error {
	var errs []error
	for _, it := range r.Failed() {
		errs = append(errs, it.Err)
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// File expands every annotated item in src. The returned error covers only
// problems with the file as a whole (it cannot be tokenized, ctx is done);
// per-item failures are in Result.Items.
func File(ctx context.Context, src string, tr Transformer) (*Result, error) {
	toks, err := syntax.Tokenize(src)
	if err != nil {
		return nil, err
	}

	spans := findItems(toks)
	items := make([]Item, len(spans))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sp := range spans {
		items[i] = Item{Range: sp, Source: src[sp.Start.Offset:sp.End.Offset]}
		g.Go(func() error {
			it := &items[i]
			res, err := tr.Transform(gctx, it.Source)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				it.Err = rebase(err, sp.Start)
				return nil
			}
			it.Result = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{Output: splice(src, items), Items: items}, nil
}

// splice replaces every transformed item with its output, re-indented to
// the column the item started at.
func splice(src string, items []Item) string {
	var sb strings.Builder
	last := 0
	for _, it := range items {
		if it.Result == nil {
			continue
		}
		sb.WriteString(src[last:it.Range.Start.Offset])
		sb.WriteString(indent(strings.TrimRight(it.Result.Output, "\n"), lineIndent(src, it.Range.Start.Offset)))
		last = it.Range.End.Offset
	}
	sb.WriteString(src[last:])
	return sb.String()
}

// lineIndent returns the whitespace before offset on its line, or "" when
// something other than whitespace precedes it.
func lineIndent(src string, offset int) string {
	start := strings.LastIndexByte(src[:offset], '\n') + 1
	prefix := src[start:offset]
	if strings.TrimLeft(prefix, " \t") != "" {
		return ""
	}
	return prefix
}

func indent(text, prefix string) string {
	if prefix == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

// rebase moves a parse error positioned within an item to file coordinates.
func rebase(err error, base syntax.Position) error {
	var pe *syntax.ParseError
	if !errors.As(err, &pe) {
		return err
	}
	moved := *pe
	moved.Pos = shift(pe.Pos, base)
	if pe.Token != nil {
		tok := *pe.Token
		tok.Pos = shift(tok.Pos, base)
		moved.Token = &tok
	}
	return &moved
}

func shift(p, base syntax.Position) syntax.Position {
	if p.Line == 1 {
		p.Character += base.Character
	}
	p.Line += base.Line - 1
	p.Offset += base.Offset
	return p
}
