package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// multi-character punctuation kept whole. '<' and '>' are never merged so
// nested generics like Vec<Vec<T>> close one bracket per token.
var multiPunct = []string{"...", "..=", "::", "->", "..", "==", "!="}

// lexer scans Rust source into tokens.
type lexer struct {
	src    string
	cur    int
	pos    *positionTracker
	tokens []Token
	space  bool
}

// Tokenize scans src into tokens, converting doc comments into
// `#[doc = "..."]` attribute tokens and dropping other comments.
func Tokenize(src string) ([]Token, error) {
	lx := &lexer{src: src, pos: newPositionTracker()}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.tokens, nil
}

func (lx *lexer) peekRune(ahead int) rune {
	i := lx.cur
	for n := 0; n < ahead; n++ {
		if i >= len(lx.src) {
			return 0
		}
		_, w := utf8.DecodeRuneInString(lx.src[i:])
		i += w
	}
	if i >= len(lx.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[i:])
	return r
}

func (lx *lexer) advance() rune {
	r, w := utf8.DecodeRuneInString(lx.src[lx.cur:])
	lx.cur += w
	lx.pos.advance(r, w)
	return r
}

func (lx *lexer) emit(kind TokenKind, text string, at Position) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Text: text, Pos: at, SpaceBefore: lx.space})
	lx.space = false
}

func (lx *lexer) errorAt(at Position, text, format string, args ...interface{}) *ParseError {
	return newParseError(Token{Kind: Punct, Text: text, Pos: at}, format, args...)
}

func (lx *lexer) run() error {
	for lx.cur < len(lx.src) {
		r := lx.peekRune(0)
		at := lx.pos.mark()

		switch {
		case unicode.IsSpace(r):
			lx.advance()
			lx.space = true

		case strings.HasPrefix(lx.src[lx.cur:], "//"):
			lx.lineComment(at)

		case strings.HasPrefix(lx.src[lx.cur:], "/*"):
			if err := lx.blockComment(at); err != nil {
				return err
			}

		case r == '\'':
			if err := lx.quote(at); err != nil {
				return err
			}

		case r == '"':
			if err := lx.str(at, ""); err != nil {
				return err
			}

		case isIdentStart(r):
			if err := lx.identOrPrefixed(at); err != nil {
				return err
			}

		case r >= '0' && r <= '9':
			lx.number(at)

		default:
			lx.punct(at)
		}
	}
	lx.tokens = append(lx.tokens, Token{Kind: EOF, Pos: lx.pos.mark(), SpaceBefore: lx.space})
	return nil
}

func (lx *lexer) lineComment(at Position) {
	start := lx.cur
	for lx.cur < len(lx.src) && lx.peekRune(0) != '\n' {
		lx.advance()
	}
	text := lx.src[start:lx.cur]
	if strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////") {
		lx.docAttr(at, text[3:])
		return
	}
	lx.space = true
}

func (lx *lexer) blockComment(at Position) error {
	start := lx.cur
	lx.advance()
	lx.advance()
	depth := 1
	for depth > 0 {
		if lx.cur >= len(lx.src) {
			return lx.errorAt(at, "/*", "unterminated block comment")
		}
		rest := lx.src[lx.cur:]
		switch {
		case strings.HasPrefix(rest, "/*"):
			lx.advance()
			lx.advance()
			depth++
		case strings.HasPrefix(rest, "*/"):
			lx.advance()
			lx.advance()
			depth--
		default:
			lx.advance()
		}
	}
	text := lx.src[start:lx.cur]
	if strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***") && text != "/**/" {
		lx.docAttr(at, text[3:len(text)-2])
		return nil
	}
	lx.space = true
	return nil
}

// docAttr expands a doc comment into the tokens of #[doc = "..."]
func (lx *lexer) docAttr(at Position, body string) {
	space := lx.space
	lx.tokens = append(lx.tokens,
		Token{Kind: Punct, Text: "#", Pos: at, SpaceBefore: space},
		Token{Kind: Punct, Text: "[", Pos: at},
		Token{Kind: Ident, Text: "doc", Pos: at},
		Token{Kind: Punct, Text: "=", Pos: at, SpaceBefore: true},
		Token{Kind: Literal, Text: QuoteString(body), Pos: at, SpaceBefore: true},
		Token{Kind: Punct, Text: "]", Pos: at},
	)
	lx.space = true
}

// quote scans either a lifetime ('a, 'static) or a char literal ('x', '\n').
func (lx *lexer) quote(at Position) error {
	start := lx.cur
	lx.advance()
	next := lx.peekRune(0)
	if next == '\\' {
		return lx.charBody(at, start)
	}
	if lx.peekRune(1) == '\'' {
		return lx.charBody(at, start)
	}
	if !isIdentStart(next) {
		return lx.errorAt(at, "'", "invalid lifetime or character literal")
	}
	for lx.cur < len(lx.src) && isIdentContinue(lx.peekRune(0)) {
		lx.advance()
	}
	lx.emit(Lifetime, lx.src[start:lx.cur], at)
	return nil
}

func (lx *lexer) charBody(at Position, start int) error {
	for {
		if lx.cur >= len(lx.src) || lx.peekRune(0) == '\n' {
			return lx.errorAt(at, "'", "unterminated character literal")
		}
		r := lx.advance()
		if r == '\\' {
			lx.advance()
			continue
		}
		if r == '\'' {
			break
		}
	}
	lx.emit(Literal, lx.src[start:lx.cur], at)
	return nil
}

// str scans a (possibly prefixed) string literal; the prefix is already consumed.
func (lx *lexer) str(at Position, prefix string) error {
	start := lx.cur - len(prefix)
	lx.advance()
	for {
		if lx.cur >= len(lx.src) {
			return lx.errorAt(at, "\"", "unterminated string literal")
		}
		r := lx.advance()
		if r == '\\' {
			if lx.cur < len(lx.src) {
				lx.advance()
			}
			continue
		}
		if r == '"' {
			break
		}
	}
	lx.emit(Literal, lx.src[start:lx.cur], at)
	return nil
}

// rawStr scans r"..." / r#"..."# after the prefix letters are consumed.
func (lx *lexer) rawStr(at Position, prefix string) error {
	start := lx.cur - len(prefix)
	hashes := 0
	for lx.peekRune(0) == '#' {
		lx.advance()
		hashes++
	}
	if lx.peekRune(0) != '"' {
		return lx.errorAt(at, prefix, "invalid raw string literal")
	}
	lx.advance()
	closing := "\"" + strings.Repeat("#", hashes)
	for {
		if lx.cur >= len(lx.src) {
			return lx.errorAt(at, prefix, "unterminated raw string literal")
		}
		if strings.HasPrefix(lx.src[lx.cur:], closing) {
			for range closing {
				lx.advance()
			}
			break
		}
		lx.advance()
	}
	lx.emit(Literal, lx.src[start:lx.cur], at)
	return nil
}

func (lx *lexer) identOrPrefixed(at Position) error {
	start := lx.cur
	r := lx.peekRune(0)
	n1 := lx.peekRune(1)

	// literal prefixes: b"..", b'..', br"..", r"..", r#"..", c"..", cr"..", raw idents r#name
	switch {
	case (r == 'b' || r == 'c') && n1 == '"':
		lx.advance()
		return lx.str(at, lx.src[start:lx.cur])
	case r == 'b' && n1 == '\'':
		lx.advance()
		lx.advance()
		return lx.charBody(at, start)
	case (r == 'b' || r == 'c') && n1 == 'r' && (lx.peekRune(2) == '"' || lx.peekRune(2) == '#'):
		lx.advance()
		lx.advance()
		return lx.rawStr(at, lx.src[start:lx.cur])
	case r == 'r' && n1 == '"':
		lx.advance()
		return lx.rawStr(at, "r")
	case r == 'r' && n1 == '#' && lx.peekRune(2) == '"':
		lx.advance()
		return lx.rawStr(at, "r")
	case r == 'r' && n1 == '#' && isIdentStart(lx.peekRune(2)):
		lx.advance()
		lx.advance()
	}

	for lx.cur < len(lx.src) && isIdentContinue(lx.peekRune(0)) {
		lx.advance()
	}
	lx.emit(Ident, lx.src[start:lx.cur], at)
	return nil
}

func (lx *lexer) number(at Position) {
	start := lx.cur
	for lx.cur < len(lx.src) {
		r := lx.peekRune(0)
		if isIdentContinue(r) {
			lx.advance()
			continue
		}
		if r == '.' && unicode.IsDigit(lx.peekRune(1)) {
			lx.advance()
			continue
		}
		break
	}
	lx.emit(Literal, lx.src[start:lx.cur], at)
}

func (lx *lexer) punct(at Position) {
	rest := lx.src[lx.cur:]
	for _, p := range multiPunct {
		if strings.HasPrefix(rest, p) {
			for range p {
				lx.advance()
			}
			lx.emit(Punct, p, at)
			return
		}
	}
	r := lx.advance()
	lx.emit(Punct, string(r), at)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// QuoteString renders s as a Rust string literal.
func QuoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
