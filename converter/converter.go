// Package converter translates VBA (up to version 6) into approximately
// equivalent JavaScript. It is based on a recursive descent parser over
// a line buffer and does a syntactical conversion, leaving
// application-specific constructs untouched. Some constructs are
// translated to the greatest degree possible and the responsibility for
// further processing is left to the compatibility layer or the user:
// named parameter lists have no JS counterpart and are broken up into a
// name part and a value part; Like becomes a helper call; lines the
// translator declines to rewrite come out as comment-marked UNTOUCHED.
package converter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vbajs/vb2js/preprocess"
)

// Converter drives one conversion: it dispatches on the peek token of
// the current line and emits indented JS into the output buffer. A
// Converter is single-use and not safe for concurrent use; Convert
// creates a fresh one per call.
type Converter struct {
	unit *TranslationUnit
	out  jsWriter
}

// Convert translates a sequence of VBA source lines and returns the
// generated JS. Empty input yields an empty string. Failures are
// reported as a *ParseError.
func Convert(vba []string) (string, error) {
	return newConverter().convert(vba)
}

// ConvertString splits text on newlines and delegates to Convert.
func ConvertString(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	return Convert(strings.Split(text, "\n"))
}

func newConverter() *Converter {
	return &Converter{unit: newTranslationUnit()}
}

func (c *Converter) convert(vba []string) (out string, err error) {
	if len(vba) == 0 {
		return "", nil
	}

	// The tokenizer and the statement translators report failure by
	// panicking with a *ParseError; this is the single recovery point
	// that turns them into error values.
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		pe, ok := r.(*ParseError)
		if !ok {
			panic(r)
		}
		if pe.LineNumber == -1 {
			pe.LineNumber = c.unit.lineNumber + 1
			pe.LineText = c.unit.lineAt(c.unit.lineNumber)
		}
		out, err = "", pe
	}()

	c.unit.cleanup(vba)

	c.unit.advance()
	for c.unit.line.peek() != preprocess.EOF {
		c.translate()
	}

	// Consistency check on indent level.
	if c.unit.depth != 0 {
		return "", &ParseError{
			Msg:        fmt.Sprintf("Statement nesting error: depth = %d", c.unit.depth),
			LineNumber: c.unit.lineNumber + 1,
			LineText:   c.unit.lineAt(c.unit.lineNumber),
		}
	}

	return c.out.String(), nil
}

// translate decides what kind of statement the current line starts with
// and calls the right translation function.
func (c *Converter) translate() {
	line := c.unit.line
	peek := line.peek()
	kind := line.kind

	if peek == preprocess.EOF {
		panic(&ParseError{
			Msg:        "Unexpected end of file, line " + line.originalTrimmed(),
			LineNumber: c.unit.lineNumber + 1,
		})
	}

	switch {
	case peek == "":
		c.translateEmpty()
	case peek == "Dim" || peek == "ReDim" || peek == "Global" || peek == "Const":
		c.translateDim()
	case peek == "If":
		c.translateIf()
	case peek == "For":
		c.translateFor()
	case peek == "Do":
		c.translateDo()
	case peek == "While":
		c.translateWhile()
	case peek == "Sub":
		c.translateSub()
	case peek == "Function":
		c.translateFunction()
	case peek == "Call":
		c.translateCall()
	case peek == "Select":
		c.translateSelect()
	case peek == "Exit":
		c.translateExit()
	case peek == "With":
		c.translateWith()
	case peek == "Type":
		c.translateType()
	case kind == KindPunt:
		c.translatePunt()
	case peek == "On Error":
		c.translateOnError()
	case kind == KindID:
		c.translateAssignmentOrCall()
	case peek == ".":
		c.translateAssignmentOrCall()
	default:
		c.translateOther()
	}
}

// emit generates a single line of output, with the current line's
// comment (if any) at the proper indentation level.
func (c *Converter) emit(pieces ...string) {
	jsLine := strings.Join(pieces, "")

	comment := ""
	if c.unit.line.hasComment() {
		comment = " // " + strings.TrimSpace(c.unit.line.comment)
	}
	if jsLine == "" {
		comment = strings.TrimSpace(comment)
	}

	c.out.Line(c.unit.depth, jsLine+comment)
}

// markUntouched wraps a line the translator doesn't know how to handle.
// They are commented out for now; this behavior might change.
func markUntouched(pieces ...string) string {
	return "// " + strings.Join(pieces, "") + "; // UNTOUCHED"
}

var (
	bareWord   = regexp.MustCompile(`^\w+$`)
	bareString = regexp.MustCompile(`^"[^"]*"$`)
	callLike   = regexp.MustCompile(`\(.*\)$`)
)

// parenthesize puts parens around str unless it is a single word or a
// plain string literal.
func parenthesize(str string) string {
	if bareWord.MatchString(str) || bareString.MatchString(str) {
		return str
	}
	return "(" + str + ")"
}

// setArrayName records name as an array in the scope matching the
// current Sub/Function nesting.
func (c *Converter) setArrayName(name string) {
	if c.unit.subNesting > 0 {
		c.unit.scope.addLocalName(name)
	} else {
		c.unit.scope.addGlobalName(name)
	}
}

// skipEmptyLines prints empty lines (which might include comments)
// until a real statement turns up.
func (c *Converter) skipEmptyLines() {
	for c.unit.line.peek() == "" {
		c.translateEmpty()
	}
}
