package jexllexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexer_BasicTokens(t *testing.T) {
	l := New(`1 + 2 * 3 == a.b?.c ?? "x"`)
	var types []Type
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	want := []Type{INT, PLUS, INT, STAR, INT, EQ, IDENT, DOT, IDENT, QUESTION_DOT, IDENT, QUESTION_QUESTION, STRING, EOF}
	require.Equal(t, want, types)
}

func TestLexer_RangeVsDot(t *testing.T) {
	l := New("1..5")
	require.Equal(t, INT, l.NextToken().Type)
	require.Equal(t, RANGE, l.NextToken().Type)
	require.Equal(t, INT, l.NextToken().Type)
}

func TestLexer_MatchOperators(t *testing.T) {
	l := New(`a =~ b !~ c =^ d =$ e`)
	var types []Type
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		types = append(types, tok.Type)
	}
	require.Contains(t, types, MATCH)
	require.Contains(t, types, NOT_MATCH)
	require.Contains(t, types, STARTS)
	require.Contains(t, types, ENDS)
}

func TestLexer_TemplateString(t *testing.T) {
	l := New("`hello ${who}`")
	tok := l.NextToken()
	require.Equal(t, TEMPLATE_STR, tok.Type)
	require.Equal(t, "hello ${who}", tok.Literal)
}
