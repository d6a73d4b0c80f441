package syntax

import "strings"

// TokenKind represents the kind of token.
type TokenKind int

const (
	EOF TokenKind = iota
	Ident
	Lifetime
	Literal
	Punct
)

func (k TokenKind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Ident:
		return "identifier"
	case Lifetime:
		return "lifetime"
	case Literal:
		return "literal"
	case Punct:
		return "punctuation"
	default:
		return "unknown"
	}
}

// Token is a lexical token of Rust source.
type Token struct {
	Kind TokenKind
	Text string
	Pos  Position
	// SpaceBefore records whether whitespace or a comment preceded the
	// token in the source. Used to re-render raw token runs.
	SpaceBefore bool
}

// Is reports whether the token is punctuation or an identifier with the given text.
func (t Token) Is(text string) bool {
	return (t.Kind == Punct || t.Kind == Ident) && t.Text == text
}

// keywords that may never be used as a plain identifier (struct/field/param names).
var strictKeywords = map[string]bool{
	"as": true, "async": true, "await": true, "break": true, "const": true,
	"continue": true, "crate": true, "dyn": true, "else": true, "enum": true,
	"extern": true, "false": true, "fn": true, "for": true, "if": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true,
	"mod": true, "move": true, "mut": true, "pub": true, "ref": true,
	"return": true, "self": true, "Self": true, "static": true, "struct": true,
	"super": true, "trait": true, "true": true, "type": true, "unsafe": true,
	"use": true, "where": true, "while": true, "yield": true,
}

// IsKeyword reports whether name is a reserved Rust keyword.
func IsKeyword(name string) bool {
	return strictKeywords[name]
}

// renderTokens joins a raw token run, keeping a single space wherever the
// source had whitespace.
func renderTokens(toks []Token) string {
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 && t.SpaceBefore {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}
