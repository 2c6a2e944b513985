// Package escape encodes values for insertion into markup text content and
// into quoted attribute values.
package escape

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"\u00a0", "&nbsp;",
		"<", "&lt;",
		">", "&gt;",
	)

	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"'", "&apos;",
		`"`, "&quot;",
		"<", "&lt;",
		">", "&gt;",
	)
)

// Text escapes s the way a text node is serialized.
func Text(s string) string {
	return textEscaper.Replace(s)
}

// Attr escapes s so it can sit inside a single- or double-quoted attribute
// value.
func Attr(s string) string {
	return attrEscaper.Replace(s)
}
