package converter

import (
	"regexp"
	"strings"
)

// TokenKind classifies the tokens produced by Line.
type TokenKind int

const (
	KindNone TokenKind = iota
	KindOp             // operators, word operators (Mod, And, New, ...)
	KindEndXX          // End If / End Sub / End Function / ...
	KindExit           // Exit
	KindToss           // discarded modifiers (Let, Set, leftover visibility)
	KindPunt           // statements we refuse to translate
	KindKey            // structural keywords (Then, Else, To, Step, As, ...)
	KindType           // Type / End Type
	KindID             // identifier
	KindDate           // #m/d/y# date literal
	KindNum            // numeric literal
	KindHex            // &H... hex literal
	KindStr            // quoted string
	KindComment        // unterminated string residue
	KindChr            // any single leftover character
	KindEnd            // end of line
	KindOnError        // On Error
)

var tokenKindNames = map[TokenKind]string{
	KindNone: "NONE", KindOp: "OP", KindEndXX: "ENDXX", KindExit: "EXIT",
	KindToss: "TOSS", KindPunt: "PUNT", KindKey: "KEY", KindType: "TYPE",
	KindID: "ID", KindDate: "DATE", KindNum: "NUM", KindHex: "HEX",
	KindStr: "STR", KindComment: "COMMENT", KindChr: "CHR", KindEnd: "END",
	KindOnError: "ONERROR",
}

func (k TokenKind) String() string { return tokenKindNames[k] }

type tokenPattern struct {
	re   *regexp.Regexp
	kind TokenKind
}

// VB operator precedence, high to low, from the VB manual:
// exponentiation (^); unary identity and negation (+, -);
// multiplication and floating-point division (*, /); integer
// division (\); Mod; addition and subtraction; string concatenation
// (&); bit shift (<<, >>); comparison (=, <>, <, <=, >, >=, Is,
// IsNot, Like); Not; And/AndAlso; Or/OrElse; Xor.
// All operators are evaluated left to right. And, Or, Xor are bitwise
// on integers and logical on booleans; AndAlso/OrElse short-circuit.

// tokenPatterns classifies the leading token of the current residue.
// The order is significant: compound keywords and multi-character
// operators must be tried before their prefixes.
var tokenPatterns = []tokenPattern{
	{regexp.MustCompile(`^(?i)\b(Mod|Is|Not|AndAlso|And|OrElse|Or|Xor|Eqv|Like|New)\b`), KindOp},
	{regexp.MustCompile(`^(?i)\b(End +(If|Sub|Function|While|With|Select))\b`), KindEndXX},
	{regexp.MustCompile(`^(?i)\b(Exit)\b`), KindExit},
	{regexp.MustCompile(`^(?i)\b(Private|Public|Static|Let|Set)\b`), KindToss},
	{regexp.MustCompile(`^(?i)\b(Attribute|Option|Declare)\b`), KindPunt},
	{regexp.MustCompile(`^(?i)\b(Open .* For |Close #\w+)\b`), KindPunt},
	{regexp.MustCompile(`^(?i)\b(Print #|Line Input #)\b`), KindPunt},
	{regexp.MustCompile(`^(?i)\b(On Error (Resume Next|GoTo 0)|Resume|GoTo)\b`), KindPunt},
	{regexp.MustCompile(`^(?i)\b(On Error)\b`), KindOnError},
	{regexp.MustCompile(`^(?i)\b(Then|Else|To|Downto|Step|As|ByVal|ByRef)\b`), KindKey},
	{regexp.MustCompile(`^(?i)\b(Type|End Type)\b`), KindType},
	{regexp.MustCompile(`^[a-zA-Z]\w*\$?`), KindID},
	{regexp.MustCompile(`^#\d+/\d+/\d+#`), KindDate},
	{regexp.MustCompile(`^((\d+\.?\d*)|(\.\d+))([eE][-+]?\d+)?[&#]?`), KindNum},
	{regexp.MustCompile(`^&H[a-fA-F0-9]+`), KindHex},
	{regexp.MustCompile(`^(<>|<=|>=|:=)`), KindOp},
	{regexp.MustCompile(`^[*^/\\+\-&=><]`), KindOp},
	{regexp.MustCompile(`^"[^"]*"`), KindStr},
	{regexp.MustCompile(`^".*`), KindComment},
	{regexp.MustCompile(`^.`), KindChr},
	{regexp.MustCompile(`^$`), KindEnd},
}

// keywords canonicalizes the case of likely keywords.
var keywords = map[string]string{
	"and":          "And",
	"as":           "As",
	"byref":        "ByRef",
	"byval":        "ByVal",
	"case":         "Case",
	"const":        "Const",
	"dim":          "Dim",
	"do":           "Do",
	"double":       "Double",
	"downto":       "Downto",
	"each":         "Each",
	"else":         "Else",
	"elseif":       "ElseIf",
	"end":          "End",
	"end function": "End Function",
	"end if":       "End If",
	"end sub":      "End Sub",
	"end select":   "End Select",
	"end while":    "End While",
	"end with":     "End With",
	"error":        "Error",
	"exit":         "Exit",
	"false":        "False",
	"for":          "For",
	"function":     "Function",
	"global":       "Global",
	"goto":         "GoTo",
	"if":           "If",
	"integer":      "Integer",
	"is":           "Is",
	"like":         "Like",
	"loop":         "Loop",
	"mod":          "Mod",
	"new":          "New",
	"next":         "Next",
	"not":          "Not",
	"nothing":      "Nothing",
	"null":         "Null",
	"on":           "On",
	"or":           "Or",
	"private":      "Private",
	"public":       "Public",
	"resume":       "Resume",
	"select":       "Select",
	"single":       "Single",
	"static":       "Static",
	"step":         "Step",
	"sub":          "Sub",
	"then":         "Then",
	"to":           "To",
	"true":         "True",
	"type":         "Type",
	"until":        "Until",
	"while":        "While",
	"with":         "With",
	"xor":          "Xor",
}

var logicalOps = map[string]bool{
	"And": true,
	"Or":  true,
	"Xor": true,
}

var relationalOps = map[string]bool{
	"<":     true,
	">":     true,
	"=":     true,
	"<=":    true,
	">=":    true,
	"<>":    true,
	"Is":    true,
	"IsNot": true,
	"Like":  true,
}

var arithmeticOps = map[string]bool{
	"+":   true,
	"-":   true,
	"*":   true,
	"/":   true,
	"\\":  true,
	"Mod": true,
	"&":   true,
	">>":  true,
	"<<":  true,
}

type operatorFix struct {
	re   *regexp.Regexp
	repl string
}

// operatorFixes maps VB operator tokens to their JS spellings. Ordered:
// <> must be tried before < and >, and multi-character sequences before
// single characters.
var operatorFixes = []operatorFix{
	{regexp.MustCompile(`^=$`), " == "},
	{regexp.MustCompile(`^<>$`), " != "},
	{regexp.MustCompile(`^<=$`), " <= "},
	{regexp.MustCompile(`^>=$`), " >= "},
	{regexp.MustCompile(`^<$`), " < "},
	{regexp.MustCompile(`^>$`), " > "},
	{regexp.MustCompile(`^&$`), " + "},
	{regexp.MustCompile(`^\+$`), " + "},
	{regexp.MustCompile(`^-$`), " - "},
	{regexp.MustCompile(`^\*$`), " * "},
	{regexp.MustCompile(`^/$`), " / "},
	{regexp.MustCompile(`^\\$`), " / "},
	{regexp.MustCompile(`^\^$`), " BUG exp() "},
	{regexp.MustCompile(`^Xor$`), " ^ "},
	{regexp.MustCompile(`^And$`), " && "},
	{regexp.MustCompile(`^Or$`), " || "},
	{regexp.MustCompile(`^Is$`), " == "},
	{regexp.MustCompile(`^IsNot$`), " != "},
	{regexp.MustCompile(`^Mod$`), " % "},
	{regexp.MustCompile(`^New$`), "new "},
	{regexp.MustCompile(`^Not$`), "!"},
}

// fixOperators replaces a VB operator token with its JS spelling, or
// returns the token unchanged. Not applied to string tokens.
func fixOperators(token string) string {
	for _, fix := range operatorFixes {
		if fix.re.MatchString(token) {
			return fix.repl
		}
	}
	return token
}

// canonicalKeyword canonicalizes the case of a likely keyword.
func canonicalKeyword(token string) string {
	if canon, ok := keywords[strings.ToLower(token)]; ok {
		return canon
	}
	return token
}
