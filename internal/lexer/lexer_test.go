package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanKeywordsIdentsAndPunct(t *testing.T) {
	l := New("t.reso", "fn main() -> i32 { return 1 + 2; }")

	want := []struct {
		kind Kind
		text string
	}{
		{Keyword, "fn"}, {Ident, "main"}, {Punct, "("}, {Punct, ")"},
		{Punct, "->"}, {Ident, "i32"}, {Punct, "{"}, {Keyword, "return"},
		{Int, "1"}, {Punct, "+"}, {Int, "2"}, {Punct, ";"}, {Punct, "}"},
	}
	for _, w := range want {
		tok := l.Next()
		require.Equal(t, w.kind, tok.Kind, "token %q", tok.Text)
		require.Equal(t, w.text, tok.Text)
	}
	require.Equal(t, EOF, l.Next().Kind)
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := New("t.reso", "x = 1;")
	first := l.Peek()
	second := l.Peek()
	require.Equal(t, first, second)
	require.Equal(t, first, l.Next())
}

func TestTwoCharPunctuation(t *testing.T) {
	l := New("t.reso", "a == b && c != d || e <= f >= g")
	var ops []string
	for {
		tok := l.Next()
		if tok.Kind == EOF {
			break
		}
		if tok.Kind == Punct {
			ops = append(ops, tok.Text)
		}
	}
	require.Equal(t, []string{"==", "&&", "!=", "||", "<=", ">="}, ops)
}

func TestLineAndColumnTracking(t *testing.T) {
	l := New("t.reso", "fn f() {\n  return 1;\n}")
	for i1 := 0; i1 < 6; i1++ {
		l.Next()
	}
	tok := l.Next() // "1"
	require.Equal(t, 2, tok.Line)
	require.Equal(t, 10, tok.Col)
}

func TestCommentsAreSkipped(t *testing.T) {
	l := New("t.reso", "x // trailing comment\n y")
	require.Equal(t, "x", l.Next().Text)
	require.Equal(t, "y", l.Next().Text)
}

func TestStringAndCharLiterals(t *testing.T) {
	l := New("t.reso", `"hi\n" 'a'`)
	str := l.Next()
	require.Equal(t, String, str.Kind)
	require.Equal(t, `hi\n`, str.Text)
	ch := l.Next()
	require.Equal(t, Char, ch.Kind)
	require.Equal(t, "a", ch.Text)
}
