package converter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vbajs/vb2js/preprocess"
)

// maxPeekLimit caps consecutive peeks without an intervening consume.
// Tripping it means the translator is looping on ill-formed input.
const maxPeekLimit = 1000

// Line localizes most of the processing for tokenizing a single line of
// input. parse() does strings, brackets and comments. Lots of ad hocery
// here: ! is a component separator in VB, just blindly rewritten to .
// here. $ is valid at the end of a VB name.
type Line struct {
	scope *Scope

	original  string
	converted string
	peekCount int
	comment   string

	kind  TokenKind
	token string

	// strict makes eat() enforce its expected token. Off by default:
	// the translator tolerates odd VBA in the wild and relies on the
	// final nesting check instead.
	strict bool
}

func newLine(scope *Scope) *Line {
	return &Line{scope: scope}
}

// canonicalizations simplify subsequent processing: Property accessors
// become plain functions, visibility modifiers are stripped or folded
// into Dim. Order matters; the catch-all visibility rewrite runs last.
var canonicalizations = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`Property Get `), "Function Get "},
	{regexp.MustCompile(`Property Let `), "Function Let "},
	{regexp.MustCompile(`Property Set `), "Function Set "},
	{regexp.MustCompile(`End Property`), "End Function"},
	{regexp.MustCompile(`(Public|Private|Friend) +Sub`), "Sub"},
	{regexp.MustCompile(`(Public|Private|Friend) +Function`), "Function"},
	{regexp.MustCompile(`(Public|Private|Friend) +Dim`), "Dim"},
	{regexp.MustCompile(`(Public|Private|Friend) +Global`), "Global"},
	{regexp.MustCompile(`(Public|Private|Friend|Global) +Const`), "Const"},
	{regexp.MustCompile(`(Public|Private|Friend) +Declare`), "Declare"},
	{regexp.MustCompile(`(Public|Private|Static)`), "Dim"},
}

// parse resets the Line to a new physical line. It isolates the comment
// if any, while partially coping with horrors like single quotes inside
// double quotes, quotes in comments, etc.
func (l *Line) parse(text string) *Line {
	l.original = text
	l.peekCount = 0
	l.comment = ""
	l.kind = KindNone
	l.token = ""

	var conv strings.Builder
	rest := text
	for rest != "" {
		switch rest[0] {
		case '\'':
			l.comment = rest[1:]
			rest = ""
		case '"':
			rest = collectString(&conv, rest)
		case '[':
			rest = collectBracketed(&conv, rest)
		default:
			conv.WriteByte(rest[0])
			rest = rest[1:]
		}
	}

	converted := strings.TrimSpace(conv.String())
	for _, canon := range canonicalizations {
		converted = canon.re.ReplaceAllString(converted, canon.repl)
	}
	l.converted = converted
	return l
}

// collectString copies a quoted string onto conv in canonical form:
// doubled "" becomes \", a lone backslash is doubled. Returns the
// residue after the closing quote.
func collectString(conv *strings.Builder, str string) string {
	var parsed strings.Builder
	parsed.WriteByte('"')
	input := str[1:]
	for input != "" {
		c := input[0]
		if c == '\\' {
			parsed.WriteString(`\\`)
			input = input[1:]
		} else if c == '"' && len(input) > 1 && input[1] == '"' {
			parsed.WriteString(`\"`)
			input = input[2:]
		} else if c == '"' {
			parsed.WriteByte('"')
			input = input[1:]
			break
		} else {
			parsed.WriteByte(c)
			input = input[1:]
		}
	}
	conv.WriteString(parsed.String())
	return input
}

// collectBracketed rewrites [name] into Range("name"), translating
// embedded ! separators to dots. Returns the residue after the closing
// bracket.
func collectBracketed(conv *strings.Builder, str string) string {
	var inside strings.Builder
	rest := str[1:]
	for rest != "" {
		c := rest[0]
		rest = rest[1:]
		if c == ']' {
			break
		}
		if c == '!' {
			inside.WriteByte('.')
		} else {
			inside.WriteByte(c)
		}
	}
	conv.WriteString(`Range("`)
	conv.WriteString(inside.String())
	conv.WriteString(`")`)
	return rest
}

// getToken returns the next token, consuming it when advance is true.
// Keywords are canonicalized in the returned text; the token field keeps
// the matched spelling.
func (l *Line) getToken(advance bool) string {
	if strings.TrimSpace(l.original) == preprocess.EOF {
		return preprocess.EOF
	}

	l.converted = strings.TrimSpace(l.converted)
	for {
		matched := false
		for _, tp := range tokenPatterns {
			loc := tp.re.FindStringIndex(l.converted)
			if loc == nil {
				continue
			}
			l.kind = tp.kind
			l.token = l.converted[:loc[1]]

			if tp.kind == KindToss {
				// silently consumed; rescan from the top
				l.converted = strings.TrimSpace(l.converted[len(l.token):])
				matched = true
				break
			}
			switch tp.kind {
			case KindStr:
				// the table regex for strings is too naive, clean up
				l.token = extractString(l.converted)
			case KindDate:
				// replace # by "
				l.token = `"` + l.token[1:len(l.token)-1] + `"`
			case KindHex:
				l.token = "0x" + l.token[2:]
			}
			if l.token == "!" {
				l.token = "."
			}
			if advance {
				l.converted = l.converted[len(l.token):] // left for next time
				l.peekCount = 0
			}
			if tp.kind == KindNum { // drop the VB type suffix
				l.token = strings.TrimRight(l.token, "&#")
			}
			return canonicalKeyword(l.token)
		}
		if !matched {
			panic(newParseError("Unknown token, can't parse: " + l.converted))
		}
	}
}

// extractString returns the real string at the head of str, skipping
// embedded \" pairs.
func extractString(str string) string {
	i := 1
	for i < len(str) {
		if str[i] == '"' {
			break
		}
		if str[i] == '\\' {
			i++
		}
		i++
	}
	if i >= len(str) {
		return str
	}
	return str[:i+1]
}

// peek returns the next token without consuming it.
func (l *Line) peek() string {
	if strings.TrimSpace(l.original) == preprocess.EOF {
		return preprocess.EOF
	}
	l.peekCount++
	if l.peekCount > maxPeekLimit {
		panic(newParseError("Looping because of illegal input: " + l.original))
	}
	return l.getToken(false)
}

// eat steps over the expected token. Mismatches are tolerated unless
// strict is set; the final nesting check is the safety net.
func (l *Line) eat(expected string) {
	token := l.getToken(true)
	if l.strict && token != expected {
		panic(newParseError(fmt.Sprintf("Expected token [%s], got [%s] instead", expected, token)))
	}
}

func (l *Line) hasComment() bool { return l.comment != "" }

func (l *Line) hasToken() bool { return l.token != "" }

// text returns whatever remains of the converted residue.
func (l *Line) text() string { return strings.TrimSpace(l.converted) }

// originalTrimmed returns the trimmed original input.
func (l *Line) originalTrimmed() string { return strings.TrimSpace(l.original) }

// rest returns whatever remains of the current input line, with
// operators fixed up.
func (l *Line) rest() string {
	var sb strings.Builder
	for l.peek() != "" && l.peek() != preprocess.EOF {
		sb.WriteString(fixOperators(l.getToken(true)))
	}
	return sb.String()
}

// balancedParens returns a balanced-paren sequence of tokens, parens
// included. Called with ( as the peek token. Converts array(i) to
// array[i] along the way.
func (l *Line) balancedParens() string {
	var balanced strings.Builder
	balanced.WriteString(l.getToken(true))
	for l.peek() != ")" && l.peek() != "" {
		if l.peek() == "(" {
			balanced.WriteString(l.balancedParens())
		} else if l.peek() == "." {
			balanced.WriteString(l.scope.withName())
			balanced.WriteString(l.getToken(true))
			balanced.WriteString(l.name())
		} else if l.kind == KindID {
			name := l.name()
			balanced.WriteString(name)
			if l.scope.isArrayName(name) && l.peek() == "(" {
				balanced.WriteString(setBrackets(l.balancedParens()))
			}
		} else {
			balanced.WriteString(fixOperators(l.getToken(true)))
		}
	}
	balanced.WriteString(l.getToken(true)) // the terminating )
	return balanced.String()
}
