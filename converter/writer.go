package converter

import "strings"

// indentSpaces is the per-level indent of the generated script.
const indentSpaces = "  "

// jsWriter manages indented JS output for the converter. It only knows
// about indentation; comment placement is the converter's business.
type jsWriter struct {
	sb strings.Builder
}

// Line writes one output line at the given indentation depth.
func (w *jsWriter) Line(depth int, text string) {
	w.sb.WriteString(strings.Repeat(indentSpaces, depth))
	w.sb.WriteString(text)
	w.sb.WriteString("\n")
}

// String returns the accumulated output.
func (w *jsWriter) String() string { return w.sb.String() }
