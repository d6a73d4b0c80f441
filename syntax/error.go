package syntax

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/dismantle/errors"
)

// ErrorContext selects how a ParseError renders itself
type ErrorContext int

const (
	ErrorContextPlain    ErrorContext = iota // logs, tests, machine consumers
	ErrorContextTerminal                     // colored CLI output
)

// ParseError represents a malformed declaration, positioned at the offending token
type ParseError struct {
	Message     string   // Human-readable message
	Pos         Position // Where the offending token starts
	Token       *Token   // Token that caused the error (nil at end of input)
	Suggestions []string // Possible fixes
}

// Error implements error interface
func (e *ParseError) Error() string {
	return e.FormatError(ErrorContextPlain)
}

// Unwrap lets errors.Is match ErrMalformedDeclaration
func (e *ParseError) Unwrap() error {
	return errors.ErrMalformedDeclaration
}

// FormatError generates context-appropriate error message
func (e *ParseError) FormatError(ctx ErrorContext) string {
	if ctx == ErrorContextTerminal {
		return e.formatTerminalError()
	}
	msg := fmt.Sprintf("%s: %s", e.Pos, e.Message)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(". Suggestions: %s", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// formatTerminalError creates rich colored error for terminal
func (e *ParseError) formatTerminalError() string {
	var sb strings.Builder
	sb.WriteString(pterm.Red(e.Message))
	sb.WriteString(fmt.Sprintf("\n  %s %s", pterm.Yellow("at"), e.Pos))
	if e.Token != nil {
		sb.WriteString(fmt.Sprintf("\n  %s '%s'", pterm.Yellow("token"), e.Token.Text))
	}
	if len(e.Suggestions) > 0 {
		sb.WriteString(fmt.Sprintf("\n%s", pterm.Green("suggestions:")))
		for _, s := range e.Suggestions {
			sb.WriteString(fmt.Sprintf("\n  • %s", s))
		}
	}
	return sb.String()
}

// Range returns the source span of the offending token
func (e *ParseError) Range() Range {
	end := e.Pos
	if e.Token != nil {
		end.Character += len([]rune(e.Token.Text))
		end.Offset += len(e.Token.Text)
	}
	return Range{Start: e.Pos, End: end}
}

// newParseError creates a ParseError positioned at tok
func newParseError(tok Token, format string, args ...interface{}) *ParseError {
	pe := &ParseError{
		Message: fmt.Sprintf(format, args...),
		Pos:     tok.Pos,
	}
	if tok.Kind != EOF {
		t := tok
		pe.Token = &t
	}
	return pe
}

// WithSuggestion adds a suggestion for fixing the error
func (e *ParseError) WithSuggestion(suggestion string) *ParseError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// describe renders a token for use in "found X" messages
func describe(t Token) string {
	if t.Kind == EOF {
		return "end of input"
	}
	return "`" + t.Text + "`"
}

// Errorf creates a ParseError at pos for problems found after parsing,
// such as names that collide with generated items.
func Errorf(pos Position, format string, args ...interface{}) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Pos: pos}
}
