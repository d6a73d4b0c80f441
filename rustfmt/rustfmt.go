// Package rustfmt formats Rust declarations for embedding in generated
// documentation. Formatters are pure functions of their input and are passed
// explicitly to whoever needs them.
package rustfmt

import (
	"context"

	"github.com/teranos/dismantle/errors"
	"github.com/teranos/dismantle/syntax"
)

// Formatter normalizes Rust source text.
type Formatter interface {
	Format(ctx context.Context, src string) (string, error)
}

// Engine names a formatter implementation in configuration.
type Engine string

const (
	EngineBuiltin Engine = "builtin"
	EngineRustfmt Engine = "rustfmt"
)

// Builtin formats a single struct declaration without leaving the process:
// it re-parses the text and prints it in canonical layout.
type Builtin struct{}

// Format implements Formatter.
func (Builtin) Format(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	decl, err := syntax.ParseDeclaration(src)
	if err != nil {
		return "", errors.Wrap(err, "builtin formatter")
	}
	return syntax.Print(decl), nil
}

// Settings selects and configures a formatter.
type Settings struct {
	Engine    Engine
	Path      string // rustfmt binary; looked up on PATH when empty
	Edition   string // empty lets rustfmt pick its default
	CacheSize int    // 0 disables caching
	Verbosity int    // formatter calls are logged at -vvv
}

// FromSettings builds the formatter described by s.
func FromSettings(s Settings) (Formatter, error) {
	var f Formatter
	switch s.Engine {
	case EngineBuiltin, "":
		f = Builtin{}
	case EngineRustfmt:
		f = &External{Path: s.Path, Edition: s.Edition, Verbosity: s.Verbosity}
	default:
		return nil, errors.WithHint(
			errors.Newf("unknown format engine %q", s.Engine),
			"use \"builtin\" or \"rustfmt\"")
	}
	if s.CacheSize <= 0 {
		return f, nil
	}
	c, err := NewCached(f, s.CacheSize)
	if err != nil {
		return nil, err
	}
	c.verbosity = s.Verbosity
	return c, nil
}
