// Package lexer implements the lexical analyzer for the Monke programming language.
//
// It turns a raw source string into a stream of token.Token values, one at a
// time, on demand: NextToken advances the scanner by exactly one token and
// never looks further ahead than the single byte of lookahead peekChar
// exposes. The parser drives the lexer by calling NextToken until it sees
// token.EOF.
package lexer

import (
	"strings"

	"github.com/duskfall/gibbon/token"
)

// singleByteTokens maps a one-byte operator/delimiter to the token it
// produces when it is NOT the first half of a longer two-byte operator
// (==, !=, <=, >=). Keeping this as a table instead of a long switch makes
// it obvious at a glance which characters need no lookahead at all.
var singleByteTokens = map[byte]token.Type{
	'+': token.Plus,
	'-': token.Minus,
	'/': token.Slash,
	'*': token.Asterisk,
	';': token.Semicolon,
	':': token.Colon,
	',': token.Comma,
	'(': token.Lparen,
	')': token.Rparen,
	'{': token.Lbrace,
	'}': token.Rbrace,
	'[': token.Lbracket,
	']': token.Rbracket,
}

// Lexer scans a Monke source string into tokens.
type Lexer struct {
	input        string
	position     int  // index of ch
	readPosition int  // index of the next character to read
	ch           byte // current character under examination, 0 at EOF
}

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken scans and returns the next token, advancing past it.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	switch l.ch {
	case '=':
		return l.oneOrTwoByte('=', token.Assign, token.Eq)
	case '!':
		return l.oneOrTwoByte('=', token.Bang, token.NotEq)
	case '<':
		return l.oneOrTwoByte('=', token.Lt, token.Lte)
	case '>':
		return l.oneOrTwoByte('=', token.Gt, token.Gte)
	case '"':
		return l.nextStringToken()
	case 0:
		return token.Token{Type: token.EOF, Literal: ""}
	}

	if tt, ok := singleByteTokens[l.ch]; ok {
		lit := string(l.ch)
		l.readChar()
		return token.Token{Type: tt, Literal: lit}
	}

	switch {
	case isLetter(l.ch):
		literal := l.readWhile(isLetter)
		return token.Token{Type: token.LookupIdent(literal), Literal: literal}
	case isDigit(l.ch):
		return token.Token{Type: token.Int, Literal: l.readWhile(isDigit)}
	default:
		lit := string(l.ch)
		l.readChar()
		return token.Token{Type: token.Illegal, Literal: lit}
	}
}

// oneOrTwoByte handles an operator that is one byte on its own (oneType) but
// becomes a different, two-byte token when immediately followed by second.
func (l *Lexer) oneOrTwoByte(second byte, oneType, twoType token.Type) token.Token {
	first := l.ch
	if l.peekChar() != second {
		l.readChar()
		return token.Token{Type: oneType, Literal: string(first)}
	}
	l.readChar()
	l.readChar()
	return token.Token{Type: twoType, Literal: string(first) + string(second)}
}

// nextStringToken scans a double-quoted string literal, including escape
// sequences, starting with l.ch == '"'.
func (l *Lexer) nextStringToken() token.Token {
	lit, ok := l.readString()
	if !ok {
		return token.Token{Type: token.Illegal, Literal: "unterminated string"}
	}
	l.readChar() // past the closing quote
	return token.Token{Type: token.String, Literal: lit}
}

// readChar advances the scan position by one byte, setting ch to 0 at EOF.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar returns the byte after l.ch without consuming it.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// readWhile consumes characters satisfying pred and returns the consumed run.
func (l *Lexer) readWhile(pred func(byte) bool) string {
	start := l.position
	for pred(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// skipWhitespaceAndComments consumes runs of whitespace and `//` line
// comments, alternating between the two until neither is present.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case isSpace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			l.readChar()
			l.readChar()
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readString reads the body of a string literal, interpreting backslash
// escapes, and reports whether it found a closing quote before EOF. l.ch
// must be the opening quote on entry; on return l.ch is the closing quote
// (success) or 0 (unterminated).
func (l *Lexer) readString() (string, bool) {
	var out strings.Builder
	l.readChar() // step past the opening quote

	for {
		switch l.ch {
		case '"':
			return out.String(), true
		case 0:
			return out.String(), false
		case '\\':
			l.readChar()
			if l.ch == 0 {
				return out.String(), false
			}
			if escaped, ok := unescape(l.ch); ok {
				out.WriteByte(escaped)
			} else {
				// unknown escape: keep the backslash alongside the literal char
				out.WriteByte('\\')
				out.WriteByte(l.ch)
			}
		default:
			out.WriteByte(l.ch)
		}
		l.readChar()
	}
}

// unescape maps a character following a backslash to its escaped value. ok
// is false for an unrecognized escape, which the caller preserves verbatim.
func unescape(ch byte) (escaped byte, ok bool) {
	switch ch {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	default:
		return 0, false
	}
}

func isSpace(ch byte) bool  { return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' }
func isLetter(ch byte) bool { return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' }
func isDigit(ch byte) bool  { return '0' <= ch && ch <= '9' }
