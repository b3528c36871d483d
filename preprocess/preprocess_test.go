package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupTrimsAndAppendsSentinel(t *testing.T) {
	lines := Cleanup([]string{"  x = 1  ", "\ty = 2"})
	require.Equal(t, []string{"x = 1", "y = 2", EOF}, lines)
}

func TestCleanupEmptyInput(t *testing.T) {
	lines := Cleanup(nil)
	require.Equal(t, []string{EOF}, lines)
}

func TestContinuationMerge(t *testing.T) {
	lines := Cleanup([]string{"x = 1 + _", "2"})
	require.Equal(t, []string{"x = 1 + 2", EOF}, lines)
}

func TestContinuationMergeChain(t *testing.T) {
	lines := Cleanup([]string{"a _", "b _", "c"})
	require.Equal(t, []string{"a b c", EOF}, lines)
}

func TestContinuationMergePreservesPrefix(t *testing.T) {
	// merged line equals lineN minus the underscore plus lineN+1
	lines := Cleanup([]string{"Call foo(a, _", "b)"})
	require.Equal(t, "Call foo(a, b)", lines[0])
}

func TestOneLineIfExpansion(t *testing.T) {
	lines := Cleanup([]string{"If x > 0 Then y = 1"})
	require.Equal(t, []string{"If x > 0 Then", "y = 1", "End If", EOF}, lines)
}

func TestOneLineIfElseExpansion(t *testing.T) {
	lines := Cleanup([]string{"If x > 0 Then y = 1 Else y = 2"})
	require.Equal(t,
		[]string{"If x > 0 Then", "y = 1", "Else", "y = 2", "End If", EOF},
		lines)
}

func TestOneLineIfCaseInsensitive(t *testing.T) {
	lines := Cleanup([]string{"if x then y = 1"})
	assert.Equal(t, "y = 1", lines[1])
	assert.Equal(t, "End If", lines[2])
}

func TestMultiLineIfNotExpanded(t *testing.T) {
	input := []string{"If x > 0 Then", "y = 1", "End If"}
	lines := Cleanup(input)
	require.Equal(t, []string{"If x > 0 Then", "y = 1", "End If", EOF}, lines)
}

func TestOneLineIfIgnoresQuotedThen(t *testing.T) {
	input := []string{`s = "If a Then b"`}
	lines := Cleanup(input)
	require.Equal(t, []string{`s = "If a Then b"`, EOF}, lines)
}

func TestOneLineIfIgnoresCommentedThen(t *testing.T) {
	input := []string{"x = 1 ' If a Then b"}
	lines := Cleanup(input)
	require.Equal(t, []string{"x = 1 ' If a Then b", EOF}, lines)
}

func TestOneLineIfExactlyOneEndIf(t *testing.T) {
	lines := Cleanup([]string{
		"If a Then b = 1",
		"If c Then d = 2 Else e = 3",
	})
	endIfs := 0
	for _, line := range lines {
		if line == "End If" {
			endIfs++
		}
	}
	assert.Equal(t, 2, endIfs)
}

func TestIsOneLineIf(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"then with body", "If x Then y = 1", true},
		{"then else", "If x Then y = 1 Else y = 2", true},
		{"block if", "If x Then", false},
		{"quoted then", `s = "x Then y"`, false},
		{"comment then", "x = 1 ' Then y", false},
		{"unrelated", "y = 2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOneLineIf(tt.line))
		})
	}
}

func TestCodeOnly(t *testing.T) {
	assert.Equal(t, "x =  + y", CodeOnly(`x = "a Then b" + y`))
	assert.Equal(t, "x = 1 ", CodeOnly("x = 1 ' trailing"))
	assert.Equal(t, ".Value = 5", CodeOnly("[A1].Value = 5"))
}

func TestCleanupDoesNotModifyInput(t *testing.T) {
	input := []string{"If x Then y = 1"}
	Cleanup(input)
	require.Equal(t, []string{"If x Then y = 1"}, input)
}
