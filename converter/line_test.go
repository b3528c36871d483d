package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbajs/vb2js/preprocess"
)

// tokenize runs a line through the tokenizer and collects the
// canonicalized tokens.
func tokenize(t *testing.T, src string) []string {
	t.Helper()
	l := newLine(newScope()).parse(src)
	var toks []string
	for {
		tok := l.getToken(true)
		if tok == "" || tok == preprocess.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestTokenizeKeywordCanonicalization(t *testing.T) {
	assert.Equal(t, []string{"Dim", "x", "As", "Integer"}, tokenize(t, "dim x as integer"))
	assert.Equal(t, []string{"For", "i", "=", "1", "To", "10"}, tokenize(t, "FOR i = 1 TO 10"))
}

func TestTokenizeCompoundKeywords(t *testing.T) {
	assert.Equal(t, []string{"End If"}, tokenize(t, "End If"))
	assert.Equal(t, []string{"End Function"}, tokenize(t, "End Function"))
	assert.Equal(t, []string{"On Error", "GoTo", "lab"}, tokenize(t, "On Error GoTo lab"))
}

func TestTokenizeTossedModifiers(t *testing.T) {
	// Let and Set are silently consumed
	assert.Equal(t, []string{"x", "=", "y"}, tokenize(t, "Set x = y"))
	assert.Equal(t, []string{"x", "=", "1"}, tokenize(t, "Let x = 1"))
}

func TestTokenizeVisibilityCanonicalization(t *testing.T) {
	// before tokenizing, visibility modifiers are stripped or fold into
	// Dim, and Property accessors become Function
	assert.Equal(t, []string{"Dim", "x"}, tokenize(t, "Private x"))
	assert.Equal(t, []string{"Sub", "Foo"}, tokenize(t, "Public Sub Foo"))
	assert.Equal(t, []string{"Function", "Get", "Foo"}, tokenize(t, "Property Get Foo"))
}

func TestTokenizeHex(t *testing.T) {
	assert.Equal(t, []string{"x", "=", "0x1F"}, tokenize(t, "x = &H1F"))
}

func TestTokenizeDate(t *testing.T) {
	assert.Equal(t, []string{"d", "=", `"1/2/2003"`}, tokenize(t, "d = #1/2/2003#"))
}

func TestTokenizeNumSuffix(t *testing.T) {
	assert.Equal(t, []string{"123"}, tokenize(t, "123&"))
	assert.Equal(t, []string{"3.14"}, tokenize(t, "3.14#"))
	assert.Equal(t, []string{"1e3"}, tokenize(t, "1e3"))
}

func TestTokenizeBang(t *testing.T) {
	assert.Equal(t, []string{"a", ".", "b"}, tokenize(t, "a!b"))
}

func TestTokenizeMultiCharOperators(t *testing.T) {
	assert.Equal(t, []string{"a", "<>", "b"}, tokenize(t, "a <> b"))
	assert.Equal(t, []string{"a", "<=", "b"}, tokenize(t, "a <= b"))
	assert.Equal(t, []string{"a", ":=", "b"}, tokenize(t, "a := b"))
}

func TestTokenizeStringDoubling(t *testing.T) {
	assert.Equal(t, []string{"x", "=", `"a\"b"`}, tokenize(t, `x = "a""b"`))
}

func TestParseExtractsComment(t *testing.T) {
	l := newLine(newScope()).parse("x = 1 ' hello there")
	require.True(t, l.hasComment())
	assert.Equal(t, " hello there", l.comment)
	assert.Equal(t, []string{"x", "=", "1"}, tokenize(t, "x = 1 ' hello there"))
}

func TestParseQuoteInsideString(t *testing.T) {
	l := newLine(newScope()).parse(`x = "it's fine" ' note`)
	assert.Equal(t, " note", l.comment)
}

func TestParseBracketBecomesRange(t *testing.T) {
	assert.Equal(t, []string{"Range", "(", `"A1"`, ")"}, tokenize(t, "[A1]"))
	assert.Equal(t, []string{"Range", "(", `"Sales.A1"`, ")"}, tokenize(t, "[Sales!A1]"))
}

func TestCanonicalizationIdempotence(t *testing.T) {
	samples := []string{
		"dim x as integer",
		"for i = 1 to 10 step 2",
		"if x >= 1 and y <> 2 then",
		"do while a or b",
	}
	for _, src := range samples {
		first := tokenize(t, src)
		second := tokenize(t, strings.Join(first, " "))
		assert.Equal(t, first, second, "tokens changed on relex of %q", src)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := newLine(newScope()).parse("x = 1")
	assert.Equal(t, "x", l.peek())
	assert.Equal(t, "x", l.peek())
	assert.Equal(t, "x", l.getToken(true))
	assert.Equal(t, "=", l.peek())
}

func TestPeekRunawayGuard(t *testing.T) {
	l := newLine(newScope()).parse("x = 1")
	assert.Panics(t, func() {
		for i := 0; i <= maxPeekLimit; i++ {
			l.peek()
		}
	})
}

func TestPeekCountResetsOnConsume(t *testing.T) {
	l := newLine(newScope()).parse("x = 1")
	for i := 0; i < maxPeekLimit-1; i++ {
		l.peek()
	}
	l.getToken(true)
	assert.NotPanics(t, func() {
		for i := 0; i < maxPeekLimit-1; i++ {
			l.peek()
		}
	})
}

func TestEatIsPermissiveByDefault(t *testing.T) {
	l := newLine(newScope()).parse("x")
	assert.NotPanics(t, func() { l.eat("If") })
}

func TestEatStrictMode(t *testing.T) {
	l := newLine(newScope()).parse("x")
	l.strict = true
	assert.Panics(t, func() { l.eat("If") })
}

func TestFixOperators(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"=", " == "},
		{"<>", " != "},
		{"<=", " <= "},
		{">=", " >= "},
		{"<", " < "},
		{">", " > "},
		{"&", " + "},
		{"+", " + "},
		{"-", " - "},
		{"*", " * "},
		{"/", " / "},
		{"\\", " / "},
		{"^", " BUG exp() "},
		{"Xor", " ^ "},
		{"And", " && "},
		{"Or", " || "},
		{"Is", " == "},
		{"IsNot", " != "},
		{"Mod", " % "},
		{"New", "new "},
		{"Not", "!"},
		{"foo", "foo"},
		{",", ","},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fixOperators(tt.in), "fixOperators(%q)", tt.in)
	}
}

func TestExpressionPrecedenceFlattening(t *testing.T) {
	l := newLine(newScope()).parse("a + b * 2")
	assert.Equal(t, "a + b * 2", l.expression())
}

func TestExpressionRelational(t *testing.T) {
	l := newLine(newScope()).parse("x >= 1")
	assert.Equal(t, "x >= 1", l.expression())
}

func TestExpressionNot(t *testing.T) {
	l := newLine(newScope()).parse("Not y")
	assert.Equal(t, "!y", l.expression())
}

func TestExpressionNotParenthesizesOperand(t *testing.T) {
	l := newLine(newScope()).parse("Not a > b")
	assert.Equal(t, "!(a > b)", l.expression())
}

func TestExpressionExponent(t *testing.T) {
	l := newLine(newScope()).parse("2 ^ 3")
	assert.Equal(t, "exp(2, 3)", l.expression())
}

func TestExpressionExponentRightAssociative(t *testing.T) {
	l := newLine(newScope()).parse("2 ^ 3 ^ 4")
	assert.Equal(t, "exp(2, exp(3, 4))", l.expression())
}

func TestExpressionLike(t *testing.T) {
	l := newLine(newScope()).parse(`s Like "a*"`)
	assert.Equal(t, `Like(s,"a*")`, l.expression())
}

func TestExpressionNamedArgument(t *testing.T) {
	l := newLine(newScope()).parse("Title := 5")
	assert.Equal(t, `"Title :=", 5`, l.expression())
}

func TestNameArraySubscript(t *testing.T) {
	scope := newScope()
	scope.addGlobalName("arr")
	l := newLine(scope).parse("arr(1, 2)")
	assert.Equal(t, "arr[1][2]", l.name())
}

func TestNameNonArrayKeepsParens(t *testing.T) {
	l := newLine(newScope()).parse("Foo(1, 2)")
	assert.Equal(t, "Foo(1, 2)", l.name())
}

func TestNameArrayNestedCallKeepsCommas(t *testing.T) {
	scope := newScope()
	scope.addGlobalName("arr")
	l := newLine(scope).parse("arr(f(1), 2)")
	assert.Equal(t, "arr[f(1), 2]", l.name())
}

func TestNameChainedMembers(t *testing.T) {
	l := newLine(newScope()).parse(`Range("A3").Selection.Cells(1, j)`)
	assert.Equal(t, `Range("A3").Selection.Cells(1, j)`, l.name())
}

func TestNameWithPrefix(t *testing.T) {
	scope := newScope()
	scope.pushWith("Sheet")
	l := newLine(scope).parse(".Cells(1)")
	assert.Equal(t, "Sheet.Cells(1)", l.name())
}

func TestExpressionListEmptySlots(t *testing.T) {
	l := newLine(newScope()).parse("(a,,b)")
	assert.Equal(t, "(a, undefined, b)", l.expressionList())
}

func TestSetBrackets(t *testing.T) {
	assert.Equal(t, "[1][2]", setBrackets("(1, 2)"))
	assert.Equal(t, "[i]", setBrackets("(i)"))
	// inner parens suppress the comma split
	assert.Equal(t, "[f(1), 2]", setBrackets("(f(1), 2)"))
}

func TestScopeWithStack(t *testing.T) {
	s := newScope()
	assert.Equal(t, "", s.withName())
	s.pushWith("a")
	s.pushWith("b")
	assert.Equal(t, "b", s.withName())
	require.True(t, s.popWith())
	assert.Equal(t, "a", s.withName())
	require.True(t, s.popWith())
	assert.False(t, s.popWith())
}

func TestScopeArrayNames(t *testing.T) {
	s := newScope()
	s.addGlobalName("g")
	s.addLocalName("l")
	assert.True(t, s.isArrayName("g"))
	assert.True(t, s.isArrayName("l"))
	s.clearLocalNames()
	assert.True(t, s.isArrayName("g"))
	assert.False(t, s.isArrayName("l"))
}
