package util

import "regexp"

var (
	jinjaVarPattern   = regexp.MustCompile(`\{\{[^}]*\}\}`)
	jinjaBlockPattern = regexp.MustCompile(`(?m)^[ \t]*\{[%#].*[%#]\}[ \t]*\r?\n?`)
	jinjaInlineBlock  = regexp.MustCompile(`\{[%#][^}]*[%#]\}`)
)

// StripJinja2 makes a Jinja2 template parseable as YAML: {{ var }}
// expressions become a placeholder value, {% %} and {# #} tags are dropped
// along with lines holding nothing else.
func StripJinja2(content string) string {
	content = jinjaBlockPattern.ReplaceAllString(content, "")
	content = jinjaInlineBlock.ReplaceAllString(content, "")
	return jinjaVarPattern.ReplaceAllString(content, "PLACEHOLDER")
}
