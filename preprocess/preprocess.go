// Package preprocess performs the whole-buffer line rewrites that run
// before statement translation: trimming, merging of continuation lines,
// expansion of single-line If statements into block form, and appending
// of the end-of-input sentinel.
package preprocess

import (
	"regexp"
	"strings"

	"github.com/vbajs/vb2js/scanner"
)

// EOF is the sentinel appended after the last input line.
const EOF = "(EOF)"

var (
	oneLineIfThenElse = regexp.MustCompile(`(?i)Then .+ Else .*`)
	oneLineIfThen     = regexp.MustCompile(`(?i)Then .+`)

	thenTail = regexp.MustCompile(`(?i)Then .*`)
	headThen = regexp.MustCompile(`(?i).*Then `)
	elseTail = regexp.MustCompile(`(?i)Else .*`)
	headElse = regexp.MustCompile(`(?i).*Else `)
	hasElse  = regexp.MustCompile(`(?i).*Else .+`)
)

// Cleanup prepares raw input lines for translation:
//
//  1. every line is trimmed;
//  2. lines ending in the continuation character _ are merged with
//     their successors;
//  3. single-line "If ... Then ... [Else ...]" statements are expanded
//     into multi-line form;
//  4. the EOF sentinel is appended.
//
// The returned slice is freshly allocated; the input is not modified.
func Cleanup(input []string) []string {
	lines := make([]string, 0, len(input)+1)
	for _, line := range input {
		lines = append(lines, strings.TrimSpace(line))
	}

	// Merge continuation lines (ending with _) into one long one.
	// Walking in reverse collapses chains of continuations in one pass.
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasSuffix(lines[i], "_") && i+1 < len(lines) {
			lines[i] = strings.TrimSuffix(lines[i], "_") + lines[i+1]
			lines = append(lines[:i+1], lines[i+2:]...)
		}
	}

	// Convert 1-line If's into multi-line.
	for i := len(lines) - 1; i >= 0; i-- {
		if IsOneLineIf(lines[i]) {
			lines = expandOneLineIf(lines, i)
		}
	}

	return append(lines, EOF)
}

// IsOneLineIf reports whether line is a single-line
// "If ... Then ... [Else ...]" statement. The test runs against the
// code-only view of the line so that a quoted "Then" substring or a
// trailing comment cannot false-match.
func IsOneLineIf(line string) bool {
	code := CodeOnly(line)
	return oneLineIfThenElse.MatchString(code) || oneLineIfThen.MatchString(code)
}

// CodeOnly returns the line with its comment removed and the contents of
// string literals and [bracketed] names dropped. Only the code bytes
// survive, which is all the one-line-If detector needs to look at.
func CodeOnly(line string) string {
	var b strings.Builder
	sc := scanner.New(line)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if !sc.InCode() {
			continue
		}
		if ch == '\'' {
			break
		}
		b.WriteByte(ch)
	}
	return b.String()
}

// expandOneLineIf rewrites lines[i], a single-line If, into block form:
// the head up through Then stays on line i, the then-body (and the Else
// keyword plus else-body, when present) are spliced in as separate
// lines, and a terminating "End If" closes the block. The rewrite works
// on the raw line so comments and string contents survive in the bodies.
func expandOneLineIf(lines []string, i int) []string {
	original := lines[i]

	lines[i] = replaceFirst(thenTail, original, "Then")

	thenPart := replaceFirst(headThen, original, "")
	thenPart = strings.TrimSpace(replaceFirst(elseTail, thenPart, ""))
	where := i + 1
	lines = insert(lines, where, thenPart)

	if hasElse.MatchString(original) {
		elsePart := strings.TrimSpace(replaceFirst(headElse, original, ""))
		where++
		lines = insert(lines, where, "Else")
		where++
		lines = insert(lines, where, elsePart)
	}
	return insert(lines, where+1, "End If")
}

// replaceFirst replaces the first match of re in s with repl.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}

func insert(lines []string, i int, line string) []string {
	lines = append(lines, "")
	copy(lines[i+1:], lines[i:])
	lines[i] = line
	return lines
}
