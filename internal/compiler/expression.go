package compiler

import (
	"regexp"
	"strings"
)

var (
	trueRe  = regexp.MustCompile(`\btrue\b`)
	falseRe = regexp.MustCompile(`\bfalse\b`)
	andRe   = regexp.MustCompile(`\s*&&\s*`)
	orRe    = regexp.MustCompile(`\s*\|\|\s*`)
	notRe   = regexp.MustCompile(`!([^=])`)
)

// ConvertExpression rewrites a flow-script expression into the Python that
// Ren'Py evaluates: boolean literals are capitalized and the C-style
// operators become keywords. "!=" stays as it is.
func ConvertExpression(expr string) string {
	s := strings.TrimSpace(expr)
	s = trueRe.ReplaceAllString(s, "True")
	s = falseRe.ReplaceAllString(s, "False")
	s = andRe.ReplaceAllString(s, " and ")
	s = orRe.ReplaceAllString(s, " or ")
	for {
		next := notRe.ReplaceAllString(s, "not $1")
		if next == s {
			break
		}
		s = next
	}
	return s
}

// Instructions splits an instruction script on semicolons and converts each
// statement. Empty statements are dropped.
func Instructions(script string) []string {
	var out []string
	for _, part := range strings.Split(script, ";") {
		stmt := ConvertExpression(part)
		if stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}

// singleLine collapses a multi-line field into one line so it can sit inside
// an if clause or a menu condition.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
