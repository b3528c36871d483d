package converter

import (
	"regexp"
	"strings"
)

// emptyArg is the value generated for non-existent arguments.
const emptyArg = "undefined"

// The expression grammar is a recursive descent cascade with 6-7 levels
// of precedence. From the bottom: :=, logical ops, negation, relational
// ops, arithmetic, unary, exponentiation. It isn't complete but it's
// simpler; it assumes that the input is already sensibly parenthesized
// so it doesn't generate spurious parens.

// expression returns the next expression from the input. A named
// argument "name := value" becomes two arguments, the name part and the
// value part.
func (l *Line) expression() string {
	expr := l.arg()
	if l.peek() == ":=" { // named argument
		l.getToken(true)
		expr = `"` + expr + ` :=", ` + l.logic()
	}
	return expr
}

func (l *Line) arg() string {
	var sb strings.Builder
	sb.WriteString(l.logic())
	for logicalOps[l.peek()] {
		sb.WriteString(fixOperators(l.getToken(true)))
		sb.WriteString(l.logic())
	}
	return sb.String()
}

// logic parenthesizes the operand of Not when it looks like it needs it.
func (l *Line) logic() string {
	var sb strings.Builder
	if l.peek() != "Not" {
		sb.WriteString(l.notOp())
	}
	for l.peek() == "Not" {
		sb.WriteString(fixOperators(l.getToken(true)))
		sb.WriteString(addParen(l.logic()))
	}
	return sb.String()
}

func (l *Line) notOp() string {
	expr := l.compare()
	for relationalOps[l.peek()] {
		op := fixOperators(l.getToken(true))
		if op == "Like" {
			// Like becomes a helper call supplied by the runtime
			// compatibility layer.
			expr = "Like(" + expr + "," + l.compare() + ")"
		} else {
			expr += op + l.compare()
		}
	}
	return expr
}

func (l *Line) compare() string {
	var sb strings.Builder
	sb.WriteString(l.unary())
	for arithmeticOps[l.peek()] {
		sb.WriteString(fixOperators(l.getToken(true)))
		sb.WriteString(l.unary())
	}
	return sb.String()
}

func (l *Line) unary() string {
	op := ""
	for l.peek() == "+" || l.peek() == "-" {
		op += l.getToken(true)
	}
	return op + l.exponent()
}

// exponent handles ^, right-associative via recursion. VB's a ^ b
// becomes exp(a, b).
func (l *Line) exponent() string {
	expr := l.factor()
	for l.peek() == "^" {
		l.getToken(true)
		expr = "exp(" + expr + ", " + l.exponent() + ")"
	}
	return expr
}

// factor returns a single entity: number, name, string, or (expr). This
// also returns things like comma, which is a botch.
func (l *Line) factor() string {
	var sb strings.Builder
	p := l.peek()
	if l.kind == KindID {
		name := l.name()
		sb.WriteString(name)
		if l.scope.isArrayName(name) && l.peek() == "(" {
			sb.WriteString(setBrackets(l.balancedParens()))
		}
	} else if l.kind == KindNum {
		sb.WriteString(l.getToken(true))
	} else if l.kind == KindStr {
		sb.WriteString(l.getToken(true))
	} else if p == "." { // .name inside a With block
		sb.WriteString(l.scope.withName())
		sb.WriteString(l.getToken(true))
		sb.WriteString(l.name())
	} else if p == "Not" {
		sb.WriteString(l.logic())
	} else if p == "(" {
		sb.WriteString(l.getToken(true))
		sb.WriteString(l.expression())
		sb.WriteString(l.getToken(true))
	} else {
		sb.WriteString(l.getToken(true))
	}
	return sb.String()
}

// name returns the next name from the input, with . expanded, () turned
// into [] for known arrays, and chained members absorbed, e.g.
// Range("A3").Selection.Cells(1,j).
func (l *Line) name() string {
	if l.peek() == "." {
		return l.scope.withName() + l.getToken(true) + l.name()
	}
	if l.kind != KindID {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(l.getToken(true))
	if l.peek() == "(" { // e.g., Range("A3")
		expressions := l.expressionList()
		if l.scope.isArrayName(sb.String()) {
			expressions = setBrackets(expressions)
		}
		sb.WriteString(expressions)
	}
	if l.peek() == "(" { // e.g., Range("A1")(cnt)
		sb.WriteString(l.expressionList())
	}
	for l.peek() == "." {
		sb.WriteString(l.getToken(true))
		sb.WriteString(l.name())
	}
	return sb.String()
}

// expressionList returns a comma-separated list of expressions, parens
// included. Called with ( as the peek token. Empty slots produce the
// undefined placeholder.
func (l *Line) expressionList() string {
	var sb strings.Builder
	sb.WriteString(l.getToken(true)) // "("
	for l.peek() != ")" && l.peek() != "" {
		if l.peek() == "," { // empty expr
			sb.WriteString(emptyArg)
			sb.WriteString(l.getToken(true))
			sb.WriteString(" ")
			if l.peek() == ")" { // empty expr
				sb.WriteString(emptyArg)
			}
			continue
		}
		sb.WriteString(l.expression())
		if l.peek() == "," {
			sb.WriteString(l.getToken(true))
			sb.WriteString(" ")
			if l.peek() == ")" { // empty expr
				sb.WriteString(emptyArg)
			}
		}
	}
	sb.WriteString(l.getToken(true)) // the terminating )
	return sb.String()
}

var commaSpace = regexp.MustCompile(`, *`)

// setBrackets converts an outer (...) subscript into [...], splitting
// dimensions on commas. Deliberately skipped when nested parens are
// present: inner commas may belong to function calls or strings, and
// splitting those would corrupt them.
func setBrackets(str string) string {
	inside := str[1 : len(str)-1]
	if !strings.Contains(inside, "(") {
		inside = commaSpace.ReplaceAllString(inside, "][")
	}
	return "[" + inside + "]"
}

var needsParen = regexp.MustCompile(`[-+*/%^<>=!&|]`)

// addParen adds outer parens if str appears to need them.
func addParen(str string) string {
	if needsParen.MatchString(str) {
		return "(" + str + ")"
	}
	return str
}
