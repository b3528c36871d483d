package converter

import "github.com/vbajs/vb2js/preprocess"

// TranslationUnit owns the line buffer and cursor for one conversion:
// the cleaned-up input lines, the current line being tokenized, the
// output nesting depth, and the Sub/Function context.
type TranslationUnit struct {
	scope *Scope

	// line is the single reusable Line object; advance() re-parses it.
	line *Line

	// lines holds all input after cleanup, no newlines.
	lines []string

	// lineNumber is the cursor into lines. Advance happens first, so it
	// starts at -1.
	lineNumber int

	// depth of nested constructs; must return to 0 at end of input.
	depth int

	// functionName names the function currently being translated, empty
	// for subs and top level.
	functionName string

	// subNesting counts Sub/Function nesting; local array names are
	// dropped when it returns to 0.
	subNesting int

	// typeNames records user-defined Type names. For normal variables
	// the type is just erased (Dim x As String => var x; // String),
	// but a Type already has members bound to it, so those declarations
	// become var x = new MyType();.
	typeNames map[string]struct{}
}

func newTranslationUnit() *TranslationUnit {
	scope := newScope()
	return &TranslationUnit{
		scope:      scope,
		line:       newLine(scope),
		lineNumber: -1,
		typeNames:  make(map[string]struct{}),
	}
}

// cleanup runs the pre-parse rewrites over the raw input and installs
// the result as the line buffer.
func (u *TranslationUnit) cleanup(vba []string) {
	u.lines = preprocess.Cleanup(vba)
}

// advance moves the cursor to the next line and re-parses it.
func (u *TranslationUnit) advance() {
	u.lineNumber++
	if u.lineNumber < len(u.lines) {
		u.line.parse(u.lines[u.lineNumber])
	}
}

// enterSub records entry into a Sub/Function.
func (u *TranslationUnit) enterSub() {
	u.subNesting++
}

// leaveSub records leaving a Sub/Function; local array names die with
// the outermost one.
func (u *TranslationUnit) leaveSub() {
	u.subNesting--
	if u.subNesting == 0 {
		u.scope.clearLocalNames()
	}
}

func (u *TranslationUnit) indent() { u.depth++ }

func (u *TranslationUnit) undent() { u.depth-- }

func (u *TranslationUnit) isTypeName(name string) bool {
	_, ok := u.typeNames[name]
	return ok
}

func (u *TranslationUnit) addTypeName(name string) {
	u.typeNames[name] = struct{}{}
}

// lineAt returns the buffered line at 0-based index n, or "" when out
// of range. Used for error reporting only.
func (u *TranslationUnit) lineAt(n int) string {
	if n < 0 || n >= len(u.lines) {
		return ""
	}
	return u.lines[n]
}
