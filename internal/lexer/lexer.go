// Package lexer tokenizes Reso source text. Grounded on the teacher's
// frontend/lexer.go scanning discipline (rune-at-a-time, line/column
// tracking, longest-match keyword table) but generalized from its
// goroutine/channel handoff into a single pass over the input, consistent
// with §5's single-threaded Walker: nothing downstream of the lexer in this
// module runs more than one compilation job concurrently, so there is no
// producer/consumer boundary worth a channel.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind differentiates a scanned Token.
type Kind int

const (
	EOF Kind = iota
	Ident
	Int
	Float
	Char
	String
	Keyword
	Punct
)

// Token is one lexeme with its source position.
type Token struct {
	Kind Kind
	Text string
	Line int
	Col  int
}

func (t Token) String() string {
	return fmt.Sprintf("%q (line %d:%d)", t.Text, t.Line, t.Col)
}

// keywords is the reserved-word table, mirroring the teacher's rw table in
// frontend/lang.go but flattened since Reso's keyword set is small enough
// that a plain map reads as clearly as the length-bucketed array.
var keywords = map[string]bool{
	"fn": true, "resource": true, "type": true, "var": true, "mut": true,
	"if": true, "else": true, "while": true, "for": true, "return": true,
	"null": true, "true": true, "false": true, "new": true, "as": true,
}

// Lexer scans Reso source text into Tokens on demand via Next.
type Lexer struct {
	file  string
	src   string
	pos   int
	line  int
	col   int
	peekT *Token
}

// New returns a Lexer ready to scan src, identified as file in diagnostics.
func New(file, src string) *Lexer {
	return &Lexer{file: file, src: src, pos: 0, line: 1, col: 1}
}

func (l *Lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	return r, size
}

func (l *Lexer) advance() rune {
	r, size := l.peekRune()
	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipTrivia() {
	for {
		r, _ := l.peekRune()
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		case r == '/' && strings.HasPrefix(l.src[l.pos:], "//"):
			for {
				r, size := l.peekRune()
				if size == 0 || r == '\n' {
					break
				}
				l.advance()
			}
		default:
			return
		}
	}
}

// Peek returns the next Token without consuming it.
func (l *Lexer) Peek() Token {
	if l.peekT == nil {
		t := l.scan()
		l.peekT = &t
	}
	return *l.peekT
}

// Next consumes and returns the next Token.
func (l *Lexer) Next() Token {
	if l.peekT != nil {
		t := *l.peekT
		l.peekT = nil
		return t
	}
	return l.scan()
}

var threeCharPunct = []string{"<<=", ">>="}
var twoCharPunct = []string{"==", "!=", "<=", ">=", "&&", "||", "->", "<<", ">>"}

func (l *Lexer) scan() Token {
	l.skipTrivia()
	line, col := l.line, l.col
	r, size := l.peekRune()
	if size == 0 {
		return Token{Kind: EOF, Line: line, Col: col}
	}

	switch {
	case isIdentStart(r):
		start := l.pos
		for {
			r, size := l.peekRune()
			if size == 0 || !isIdentPart(r) {
				break
			}
			l.advance()
		}
		text := l.src[start:l.pos]
		if keywords[text] {
			return Token{Kind: Keyword, Text: text, Line: line, Col: col}
		}
		return Token{Kind: Ident, Text: text, Line: line, Col: col}

	case isDigit(r):
		return l.scanNumber(line, col)

	case r == '\'':
		return l.scanChar(line, col)

	case r == '"':
		return l.scanString(line, col)

	default:
		for _, p := range threeCharPunct {
			if strings.HasPrefix(l.src[l.pos:], p) {
				for range p {
					l.advance()
				}
				return Token{Kind: Punct, Text: p, Line: line, Col: col}
			}
		}
		for _, p := range twoCharPunct {
			if strings.HasPrefix(l.src[l.pos:], p) {
				l.advance()
				l.advance()
				return Token{Kind: Punct, Text: p, Line: line, Col: col}
			}
		}
		l.advance()
		return Token{Kind: Punct, Text: string(r), Line: line, Col: col}
	}
}

func (l *Lexer) scanNumber(line, col int) Token {
	start := l.pos
	isFloat := false
	for {
		r, size := l.peekRune()
		if size == 0 {
			break
		}
		if r == '.' && !isFloat {
			isFloat = true
			l.advance()
			continue
		}
		if !isDigit(r) {
			break
		}
		l.advance()
	}
	text := l.src[start:l.pos]
	if isFloat {
		return Token{Kind: Float, Text: text, Line: line, Col: col}
	}
	return Token{Kind: Int, Text: text, Line: line, Col: col}
}

func (l *Lexer) scanChar(line, col int) Token {
	l.advance() // opening quote
	start := l.pos
	if r, _ := l.peekRune(); r == '\\' {
		l.advance()
	}
	l.advance()
	text := l.src[start:l.pos]
	if r, _ := l.peekRune(); r == '\'' {
		l.advance()
	}
	return Token{Kind: Char, Text: text, Line: line, Col: col}
}

func (l *Lexer) scanString(line, col int) Token {
	l.advance() // opening quote
	start := l.pos
	for {
		r, size := l.peekRune()
		if size == 0 || r == '"' {
			break
		}
		if r == '\\' {
			l.advance()
		}
		l.advance()
	}
	text := l.src[start:l.pos]
	if r, _ := l.peekRune(); r == '"' {
		l.advance()
	}
	return Token{Kind: String, Text: text, Line: line, Col: col}
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
