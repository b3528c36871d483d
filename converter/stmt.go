package converter

import (
	"regexp"
	"strings"

	"github.com/vbajs/vb2js/preprocess"
)

// translateEmpty prints an empty line (perhaps with comment).
func (c *Converter) translateEmpty() {
	c.emit("")
	c.unit.advance()
}

// translateAssignmentOrCall handles foo, foo(bar) and foo bar. Gets it
// wrong if the first argument starts with a paren -- too ambiguous.
// This is balanced on a pinhead.
func (c *Converter) translateAssignmentOrCall() {
	line := c.unit.line
	name := line.name()

	if line.peek() == ":" { // a label?
		rest := strings.TrimSpace(line.rest())
		c.emit(markUntouched(name, " ", rest))
		c.unit.advance()
		return
	}

	// For cases like: foo (p1), (p2). These are transformed into
	// foo((p1), (p2)) and put back into the list of lines.
	if line.peek() == "," {
		original := line.originalTrimmed()
		if sep := strings.Index(original, " "); sep >= 0 {
			line.parse(original) // start over with the original line
			text := line.text()
			if sep < len(text) {
				text = text[:sep] + "(" + strings.TrimSpace(text[sep+1:]) + ")"
			}
			if line.hasComment() { // restore comment if there was one
				text += "' " + line.comment
			}
			line.parse(text)
			c.translateAssignmentOrCall()
			return
		}
	}

	var expr string
	p := line.peek()
	switch {
	case p == "=": // assignment
		line.eat("=")
		if name == c.unit.functionName {
			name = "_" + name
		}
		newstr := ""
		if line.peek() == "New" {
			line.eat("New")
			newstr = "new "
		} else if strings.HasPrefix(line.peek(), "Array") {
			newstr = "new "
			c.setArrayName(name)
		}
		expr = name + " = " + newstr + line.expression()
	case line.kind == KindID || line.kind == KindNum || line.kind == KindStr || p == "-":
		// probably foo bar,glop
		var params strings.Builder
		for line.peek() != "" && line.kind != KindKey && line.peek() != ":" {
			params.WriteString(line.expression())
			if line.peek() == "," {
				params.WriteString(line.getToken(true))
				params.WriteString(" ")
			}
		}
		expr = name + "(" + params.String() + ")"
	default: // who knows
		rest := strings.TrimSpace(line.rest())
		if rest == "" && !callLike.MatchString(name) {
			expr = name + "()" // guess it's a function call
		} else {
			expr = name + " " + rest
		}
	}
	c.emit(strings.TrimSpace(expr), ";")

	// Multiple statements on one line separated by :
	if line.peek() == ":" {
		line.eat(":")
	} else {
		c.unit.advance()
	}
}

// translateCall handles an explicit Call statement, either
// Call this, that, theother or Call(this, that, theother).
func (c *Converter) translateCall() {
	line := c.unit.line
	line.eat("Call")
	name := line.name()
	var params strings.Builder
	if line.peek() == "" { // Call foo(...) or Call foo
		if callLike.MatchString(name) {
			c.emit(name, ";")
		} else {
			c.emit(name, "();")
		}
	} else if line.peek() == "(" {
		for line.peek() != "" {
			params.WriteString(line.expression())
			if line.peek() == "," {
				params.WriteString(line.getToken(true))
				params.WriteString(" ")
			}
		}
		c.emit(name, params.String(), ";")
	} else {
		for line.peek() != "" {
			params.WriteString(line.expression())
			if line.peek() == "," {
				params.WriteString(line.getToken(true))
				params.WriteString(" ")
			}
		}
		c.emit(name, "(", params.String(), ");")
	}
	c.unit.advance()
}

var dimRange = regexp.MustCompile(`(.*)To(.*)`)

// translateDim handles Dim x As type, y(10) As type, z As type = expr.
// Generates new Array() for arrays and remembers names so () can be
// converted to [] when used in an expression.
func (c *Converter) translateDim() {
	line := c.unit.line
	kind := line.getToken(true) // Dim, ReDim, Global or Const
	var indices []string

	for {
		isUserDefinedType := false
		varName := line.getToken(true)
		if varName == "Preserve" {
			varName = line.getToken(true)
		}

		dim := "" // not an array
		if line.peek() == "(" {
			dim = line.balancedParens()

			indices = strings.Split(strings.ReplaceAll(strings.ReplaceAll(dim, "(", ""), ")", ""), ",")
			for i := range indices {
				// only the upper limit of a To range survives
				if m := dimRange.FindStringSubmatch(indices[i]); m != nil {
					indices[i] = m[2]
				}
			}

			if strings.Contains(dim, "To") {
				dim = strings.ReplaceAll(dim, "To", " To ")
				dim = "(/* " + dim + " */)"
			}
		}

		vtype := ""
		if line.peek() == "As" { // As [New] type
			line.eat("As")
			if line.peek() == "New" {
				vtype = "New "
				line.eat("New")
			}
			vtype += line.name()

			// Dim foo As String * 100 (String with length 100)
			if line.peek() == "*" {
				vtype += line.getToken(true)
				vtype += line.expression()
			}
		}

		var expr strings.Builder
		if line.peek() == "=" { // some kind of initializer
			line.eat("=")
			if line.peek() == "{" {
				line.eat("{")
				for line.peek() != "}" && line.peek() != preprocess.EOF {
					expr.WriteString(line.getToken(true))
				}
				line.eat("}")
			} else {
				// scalar
				expr.WriteString(line.expression())
			}
		}

		if vtype != "" {
			if c.unit.isTypeName(vtype) {
				isUserDefinedType = true
			} else {
				vtype = "// " + vtype
			}
		}

		if dim == "" { // it's not an array
			init := expr.String()
			if init != "" {
				init = " = " + init
			}
			if isUserDefinedType {
				c.emit("var ", varName, init, " = new ", vtype, "();")
			} else {
				c.emit("var ", varName, init, "; ", vtype)
			}
		} else if kind == "ReDim" {
			if !c.unit.scope.isArrayName(varName) { // uses ReDim to declare array
				c.emit("var ", varName, " = new Array", dim, "; ", vtype, " // ReDim decl")
				c.setArrayName(varName)
			} else if strings.Contains(dim, ",") { // flag multi-dim ReDim
				c.generateMultiDimArray(varName, vtype, indices)
			}
		} else { // it is an array
			if expr.Len() == 0 {
				if len(indices) > 1 {
					vtype += " // multi-dim"
					c.generateMultiDimArray(varName, vtype, indices)
				} else {
					c.emit("var ", varName, " = new Array(", indices[0], ");")
				}
			} else {
				c.emit("var ", varName, " = new Array(", expr.String(), "); ", vtype)
			}
			c.setArrayName(varName)
		}

		if line.peek() != "," {
			break
		}
		line.eat(",")
	}
	c.unit.advance()
}

// generateMultiDimArray generates and properly initializes a
// multi-dimensional JS array: an array of arrays, each dimension
// initialized in its own nested loop. The loop variables use the fact
// that VB names cannot start with an underscore, so _a, _b, ... cannot
// clash with user variables.
func (c *Converter) generateMultiDimArray(varName, vtype string, indices []string) {
	c.emit("var ", varName, " = new Array(", indices[0], "); ", vtype)
	idx := 'a'
	subscript := ""
	for i := 1; i < len(indices); i++ {
		internalIdx := "_" + string(idx)
		c.emit("for (var ", internalIdx, " = 0; ", internalIdx, " < ", indices[i-1],
			"; ++", internalIdx, ") {")
		c.unit.indent()
		subscript += "[" + internalIdx + "]"
		idx++
		c.emit(varName, subscript, " = new Array(", indices[i], ");")
	}

	// Back out of the nested for loops.
	for i := 1; i < len(indices); i++ {
		c.unit.undent()
		c.emit("}")
	}
}

// translateDo handles Do [While/Until e] ... Loop [While/Until e].
func (c *Converter) translateDo() {
	line := c.unit.line
	line.eat("Do")
	if line.peek() == "While" {
		line.eat("While")
		c.emit("while (", line.expression(), ") {")
	} else if line.peek() == "Until" {
		line.eat("Until")
		c.emit("while (!(", line.expression(), ")) {")
	} else {
		c.emit("while (1) {")
	}

	c.unit.advance()
	c.unit.indent()

	for line.peek() != "Loop" {
		c.translate()
	}

	line.eat("Loop")
	if line.peek() == "While" {
		line.eat("While")
		c.emit("if (!(", line.expression(), "))")
		c.unit.indent()
		c.emit("break;")
		c.unit.undent()
	} else if line.peek() == "Until" {
		line.eat("Until")
		c.emit("if (", line.expression(), ")")
		c.unit.indent()
		c.emit("break;")
		c.unit.undent()
	}

	c.unit.undent()
	c.emit("}")
	c.unit.advance()
}

// translateExit handles the various kinds of Exits.
func (c *Converter) translateExit() {
	line := c.unit.line
	line.eat("Exit")
	token := line.getToken(true)
	switch token {
	case "For", "While", "Do":
		c.emit("break;")
	case "Sub":
		c.emit("return;")
	case "Function":
		c.emit("return _", c.unit.functionName, ";")
	default:
		c.emit(line.rest(), "; // BUG")
	}
	c.unit.advance()
}

// translateFor handles For i = startExpr To stopExpr [Step stepExpr],
// which becomes for (var i = start; i <= stop; i += step).
func (c *Converter) translateFor() {
	line := c.unit.line
	line.eat("For")

	if line.peek() == "Each" {
		c.translateForEach()
		return
	}

	varName := line.getToken(true)
	line.eat("=")
	startExpr := line.expression()
	updown := line.getToken(true)

	var rel, incr string
	if updown == "To" {
		rel = "<="
		incr = "+="
	} else { // Downto
		rel = ">="
		incr = "-="
	}

	stopExpr := line.expression()

	stepExpr := "1"
	if line.peek() == "Step" {
		line.eat("Step")
		stepExpr = line.expression()
		if strings.HasPrefix(stepExpr, "-") {
			rel = ">="
			incr = "+="
		}
	}

	// Convert increments/decrements of 1 to ++/--.
	var reincr string
	switch {
	case stepExpr == "1" && incr == "+=":
		reincr = "++" + varName
	case stepExpr == "-1" && incr == "-=":
		reincr = "++" + varName
	case stepExpr == "1" && incr == "-=":
		reincr = "--" + varName
	case stepExpr == "-1" && incr == "+=":
		reincr = "--" + varName
	default:
		reincr = varName + " " + incr + " " + stepExpr
	}

	// JS hoists all variables to function scope.
	c.emit("for (var ", varName, " = ", startExpr, "; ", varName, " ", rel, " ", stopExpr, "; ",
		reincr, ") {")
	c.unit.indent()
	c.unit.advance()

	for line.peek() != "Next" && line.peek() != preprocess.EOF {
		c.translate()
	}

	c.unit.undent()
	c.emit("}")
	c.unit.advance()
}

// translateForEach handles For Each var In whatever ... Next.
func (c *Converter) translateForEach() {
	line := c.unit.line
	line.eat("Each")
	varName := line.getToken(true)
	if line.peek() == "As" { // skip optional As type
		line.eat("As")
		line.name()
	}
	line.eat("In")
	expr := line.expression()
	c.emit("for (var ", varName, " in ", expr, ") {")
	c.unit.indent()
	c.unit.advance()
	for line.peek() != "Next" && line.peek() != preprocess.EOF {
		c.translate()
	}
	c.unit.undent()
	c.emit("}")
	c.unit.advance()
}

// translateFunction handles Function whatever(arglist) As whatever ...
// End Function. The function name doubles as the return variable, so a
// synthetic _name holds the return value.
func (c *Converter) translateFunction() {
	line := c.unit.line
	c.unit.enterSub()
	line.eat("Function")
	c.unit.functionName = line.getToken(true)
	argList := c.collectArgList()
	returnVariable := "_" + c.unit.functionName

	// Whatever trails the argument list (usually "As Type") becomes a
	// comment on the function line.
	ret := ""
	for line.hasToken() {
		line.getToken(true)
		if !strings.EqualFold(line.token, "As") { // skip 'As Double'
			ret += line.token
		} else {
			line.eat("As")
			ret += line.token
		}
	}
	if ret != "" {
		ret = " // " + ret
	}

	c.emit("function ", c.unit.functionName, "(", argList, ") {", ret)
	c.unit.indent()
	c.emit("var ", returnVariable, " = \"\"; // Stores return value")
	c.unit.advance()

	for line.peek() != "End Function" {
		c.translate()
	}

	line.eat("End Function")
	c.emit("return ", returnVariable, ";")
	c.unit.undent()
	c.unit.functionName = ""
	c.emit("}")
	c.unit.leaveSub()
	c.unit.advance()
}

// translateSub handles Sub name(arglist) ... End Sub.
func (c *Converter) translateSub() {
	line := c.unit.line
	c.unit.enterSub()
	line.eat("Sub")
	subname := line.getToken(true)
	argList := c.collectArgList()
	c.emit("function ", subname, "(", argList, ") {")
	c.unit.indent()
	c.unit.advance()

	for line.peek() != "End Sub" && line.peek() != preprocess.EOF {
		c.translate()
	}

	line.eat("End Sub")
	c.unit.undent()
	c.emit("}")
	c.unit.leaveSub()
	c.unit.advance()
}

// collectArgList collects the argument list for subroutine and function
// definitions. Deletes ByVal, preserves ByRef/Optional and defaults as
// comments.
func (c *Converter) collectArgList() string {
	line := c.unit.line
	argList := ""
	if line.peek() != "(" {
		return argList
	}

	line.eat("(")

	for line.peek() != ")" {
		ref := ""
		switch line.peek() {
		case "ByRef":
			ref = "/*ByRef*/"
			line.eat("ByRef")
		case "Optional":
			ref = "/*Optional*/"
			line.eat("Optional")
		case "ByVal":
			line.eat("ByVal")
		}
		peeked := line.peek()
		name := line.name()
		if peeked != name {
			// the declarator carried parens, so the argument is an array
			c.setArrayName(peeked)
		}

		argList += ref + peeked

		if line.peek() == "As" {
			line.getToken(true) // As
			line.name()         // type
		}

		if line.peek() == "=" { // presumably only if Optional
			line.eat("=")
			argList += " /*= " + line.expression() + "*/"
		}

		if line.peek() == "," {
			argList += line.getToken(true) + " "
		}
	}
	line.eat(")")
	return argList
}

// translateIf handles If ... Then \n stat \n [ElseIf ... \n stat]
// [Else \n stat] End If.
func (c *Converter) translateIf() {
	line := c.unit.line
	line.eat("If")
	expression := line.expression()
	line.eat("Then")
	c.emit("if (", expression, ") {")
	c.unit.indent()
	c.unit.advance()

	for line.peek() != "End If" && line.peek() != "Else" && line.peek() != "ElseIf" {
		c.translate()
	}

	for line.peek() == "ElseIf" {
		line.eat("ElseIf")
		c.unit.undent()
		expression = line.expression()
		line.eat("Then")
		c.emit("} else if (", expression, ") {")
		c.unit.indent()
		c.unit.advance()

		for line.peek() != "End If" && line.peek() != "Else" && line.peek() != "ElseIf" {
			c.translate()
		}
	}

	if line.peek() == "Else" {
		line.eat("Else")
		c.unit.undent()
		c.emit("} else {")
		c.unit.advance()
		c.unit.indent()
		for line.peek() != "End If" {
			c.translate()
		}
	}

	line.eat("End If")
	c.unit.undent()
	c.emit("}")
	c.unit.advance()
}

// translateOnError handles On Error GoTo label by wrapping everything
// up to the label in try and the remainder of the Sub/Function in
// catch. On Error Resume and On Error GoTo 0 come out untouched;
// "scope" is probably the wrong idea for these, more like setting a
// state.
func (c *Converter) translateOnError() {
	line := c.unit.line
	line.eat("On Error")
	if line.peek() == "Resume" {
		line.eat("Resume")
		c.emit("// On Error Resume ", line.rest(), "; // UNTOUCHED")
		c.unit.advance()
	} else if line.peek() == "GoTo" {
		line.eat("GoTo")
		token := line.getToken(true)
		if token == "0" {
			// special case in VB: restore normal handling
			c.emit("// On Error GoTo 0; // UNTOUCHED")
			c.unit.advance()
			return
		}

		c.emit("try {")
		c.unit.indent()
		c.unit.advance()

		for line.peek() != token {
			c.translate()
		}

		c.unit.advance()
		c.unit.undent()
		c.emit("} catch(e) { // ", token)
		c.unit.indent()

		for line.peek() != "End Sub" && line.peek() != "End Function" {
			c.translate()
		}

		c.unit.undent()
		c.emit("}")
	}
}

// translateOther: not sure, so just put it out.
func (c *Converter) translateOther() {
	c.emit(markUntouched(c.unit.line.rest()))
	c.unit.advance()
}

// translatePunt handles something sufficiently bad that we know to
// ignore it, e.g. Attribute, Option, Open, Close, Declare.
func (c *Converter) translatePunt() {
	c.emit(markUntouched(c.unit.line.text()))
	c.unit.advance()
}

// translateSelect handles Select Case ... Case ... [Case Else]
// End Select. This is a nightmare statement because Case exprs are a
// mess; the whole thing becomes an if/else-if chain.
func (c *Converter) translateSelect() {
	line := c.unit.line
	line.eat("Select")
	line.eat("Case")
	expr := line.expression()
	c.skipEmptyLines()
	n := 1

	for line.peek() != "End Select" {
		if line.peek() == preprocess.EOF {
			panic(&ParseError{
				Msg:        "Unexpected end of file, line " + line.originalTrimmed(),
				LineNumber: c.unit.lineNumber + 1,
			})
		}
		if line.peek() == "Case" {
			c.translateCase(expr, n)
			n++
		}
	}

	line.eat("End Select")
	c.emit("}")
	c.unit.advance()
}

// translateCase handles the innards of a single Case. Alternatives come
// in three forms: expr1 To expr2, [Is] op expr, and plain expr;
// comma-separated items are joined with ||.
func (c *Converter) translateCase(expr string, n int) {
	line := c.unit.line
	line.eat("Case")
	elsePart := ""
	if n != 1 {
		elsePart = "} else "
	}

	if line.peek() == "Else" {
		line.eat("Else")
		c.emit("} else {")
	} else {
		ifExpr := ""
		for line.peek() != "" && line.peek() != ":" {
			if line.peek() == "Is" {
				line.eat("Is")
			}
			if line.kind == KindOp && line.peek() != "-" && line.peek() != "+" {
				relOp := fixOperators(line.getToken(true))
				toExpr := line.expression()
				ifExpr += expr + " " + relOp + " " + parenthesize(toExpr)
			} else {
				toExpr := line.expression()
				if line.peek() == "To" {
					line.eat("To")
					hi := line.expression()
					ifExpr += expr + " >= " + toExpr + " && " + expr + " <= " + hi
				} else {
					ifExpr += expr + " == " + parenthesize(toExpr)
				}
			}
			if line.peek() == "," {
				line.eat(",")
				ifExpr += " || "
			}
		}
		c.emit(elsePart, "if (", ifExpr, ") {")
	}
	c.unit.indent()
	if line.peek() == ":" { // meant to handle 1-liners
		line.eat(":")
		c.translate()
	} else {
		c.unit.advance()
		for line.peek() != "Case" && line.peek() != "End Select" {
			c.translate()
		}
	}
	c.unit.undent()
}

// translateType handles user-defined VB types:
//
//	Type foo
//	  x As Integer
//	  y
//	End Type
//
// becomes an empty constructor with prototype attachments.
func (c *Converter) translateType() {
	line := c.unit.line
	isUserDefinedType := false
	line.eat("Type")
	typeName := line.getToken(true)

	// Remember the name in case the user declares variables of this
	// type later.
	c.unit.addTypeName(typeName)

	c.unit.advance()

	// JS class constructor
	c.emit(typeName, " = function() {};  // Creates an empty class")

	for line.peek() != "End Type" {
		if line.peek() == preprocess.EOF {
			panic(&ParseError{
				Msg:        "Unexpected end of file, line " + line.originalTrimmed(),
				LineNumber: c.unit.lineNumber + 1,
			})
		}
		name := line.getToken(true)
		vtype := ""
		if line.peek() == "As" {
			line.eat("As")
			vtype = line.peek()
		}

		if c.unit.isTypeName(vtype) {
			isUserDefinedType = true
		} else {
			vtype = "// " + vtype
		}

		if name == "" {
			// only a comment
			c.emit(line.rest())
		} else {
			// attach the member to the prototype
			if isUserDefinedType {
				c.emit(typeName, ".prototype.", name, " = new ", vtype, "();")
			} else {
				c.emit(typeName, ".prototype.", name, "; ", vtype)
			}
		}
		c.unit.advance()
	}

	line.eat("End Type")
	c.unit.advance()
}

// translateWhile handles While e ... End While (or Wend).
func (c *Converter) translateWhile() {
	line := c.unit.line
	line.eat("While")
	expr := line.expression()
	c.unit.advance()
	c.emit("while (", expr, ") {")
	c.unit.indent()

	for line.peek() != "End While" && line.peek() != "Wend" {
		c.translate()
	}

	line.getToken(true) // End While or Wend
	c.unit.undent()
	c.emit("}")
	c.unit.advance()
}

// translateWith handles With name ... End With. The target is kept
// implicit: .member occurrences inside the block pick up the prefix in
// the name producer.
func (c *Converter) translateWith() {
	line := c.unit.line
	line.eat("With")
	c.unit.scope.pushWith(line.name())
	c.emit("// With ", c.unit.scope.withName())
	c.unit.advance()

	for line.peek() != "End With" {
		c.translate()
	}

	line.eat("End With")
	if !c.unit.scope.popWith() {
		panic(newParseError("Failed while translating With... End With. Out of statements to parse."))
	}
	c.unit.advance()
}
