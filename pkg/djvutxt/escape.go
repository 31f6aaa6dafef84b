package djvutxt

import "strings"

var escaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Escape prepares s for a quoted hidden-text string: backslashes are doubled
// and double quotes are backslash-escaped.
func Escape(s string) string {
	return escaper.Replace(s)
}
