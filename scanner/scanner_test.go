package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineScanner_BasicIteration(t *testing.T) {
	sc := New("abc")
	ch, ok := sc.Next()
	require.True(t, ok)
	assert.Equal(t, byte('a'), ch)
	assert.Equal(t, 0, sc.Pos())

	ch, ok = sc.Next()
	require.True(t, ok)
	assert.Equal(t, byte('b'), ch)

	ch, ok = sc.Next()
	require.True(t, ok)
	assert.Equal(t, byte('c'), ch)

	_, ok = sc.Next()
	assert.False(t, ok)
}

func TestLineScanner_DoubleQuotedString(t *testing.T) {
	sc := New(`x = "hello" + y`)
	var codeBytes, strBytes []byte
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() {
			strBytes = append(strBytes, ch)
		} else {
			codeBytes = append(codeBytes, ch)
		}
	}
	assert.Equal(t, `x =  + y`, string(codeBytes))
	assert.Equal(t, `"hello"`, string(strBytes))
}

func TestLineScanner_DoubledQuotes(t *testing.T) {
	sc := New(`s = "he said ""hi""" & t`)
	var strBytes []byte
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() {
			strBytes = append(strBytes, ch)
		}
	}
	assert.Equal(t, `"he said ""hi"""`, string(strBytes))
}

func TestLineScanner_EscapedQuote(t *testing.T) {
	sc := New(`s = "a\"b" + y`)
	var codeBytes []byte
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InCode() {
			codeBytes = append(codeBytes, ch)
		}
	}
	assert.Equal(t, `s =  + y`, string(codeBytes))
}

func TestLineScanner_Bracket(t *testing.T) {
	sc := New(`[A1!B2].Value = 5`)
	var bracketBytes, codeBytes []byte
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InBracket() {
			bracketBytes = append(bracketBytes, ch)
		} else {
			codeBytes = append(codeBytes, ch)
		}
	}
	assert.Equal(t, `[A1!B2]`, string(bracketBytes))
	assert.Equal(t, `.Value = 5`, string(codeBytes))
}

func TestLineScanner_QuoteInsideBracket(t *testing.T) {
	// a quote inside a bracketed name does not open a string
	sc := New(`[a"b] + "x"`)
	var strBytes []byte
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() {
			strBytes = append(strBytes, ch)
		}
	}
	assert.Equal(t, `"x"`, string(strBytes))
}

func TestLineScanner_Peek(t *testing.T) {
	sc := New("ab")
	ch, ok := sc.Peek()
	require.True(t, ok)
	assert.Equal(t, byte('a'), ch)

	sc.Next()
	sc.Next()
	_, ok = sc.Peek()
	assert.False(t, ok)
}

func TestLineScanner_InCodeForCommentDetection(t *testing.T) {
	line := `x = "it's fine" ' real comment`
	sc := New(line)
	commentAt := -1
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if ch == '\'' && sc.InCode() {
			commentAt = sc.Pos()
			break
		}
	}
	require.NotEqual(t, -1, commentAt)
	assert.Equal(t, `' real comment`, line[commentAt:])
}
