// Package template fills mandate titles and descriptions from package templates.
package template

import "strings"

type Token string

const (
	TokenClientName  Token = "{client_name}"
	TokenPackageName Token = "{package_name}"
	TokenStartDate   Token = "{start_date}"
	TokenEndDate     Token = "{end_date}"
)

// Render replaces every occurrence of each token in a single pass, so values
// that themselves contain tokens are left untouched.
func Render(text string, values map[Token]string) string {
	if text == "" || len(values) == 0 {
		return text
	}
	pairs := make([]string, 0, len(values)*2)
	for token, value := range values {
		pairs = append(pairs, string(token), value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
