// Package compiler turns captured markup with embedded marker tokens into an
// ordered list of literal text and binding references. It knows nothing about
// the host tree; anything exposing its marker can be compiled.
package compiler

import "strings"

// Marked is implemented by bindings that have been assigned a marker token.
type Marked interface {
	Marker() string
}

// Part is either a literal fragment of markup or a reference to exactly one
// binding.
type Part[B Marked] struct {
	Literal string
	Binding B
	bound   bool
}

// Literal builds a literal part.
func Literal[B Marked](text string) Part[B] {
	return Part[B]{Literal: text}
}

// Ref builds a binding part.
func Ref[B Marked](binding B) Part[B] {
	return Part[B]{Binding: binding, bound: true}
}

// IsLiteral reports whether the part is literal text.
func (p Part[B]) IsLiteral() bool {
	return !p.bound
}

// Split decomposes markup into parts. Bindings are processed in order; every
// occurrence of a binding's marker inside a literal part splits that literal
// and interleaves a reference to the binding between the fragments. Markers
// are unique and never nested, so the result does not depend on the order of
// bindings.
func Split[B Marked](markup string, bindings []B) []Part[B] {
	parts := []Part[B]{Literal[B](markup)}
	for _, binding := range bindings {
		parts = splitOn(parts, binding)
	}
	return parts
}

func splitOn[B Marked](parts []Part[B], binding B) []Part[B] {
	token := binding.Marker()
	if token == "" {
		return parts
	}

	out := make([]Part[B], 0, len(parts)+2)
	for _, part := range parts {
		if !part.IsLiteral() || !strings.Contains(part.Literal, token) {
			out = append(out, part)
			continue
		}
		for i, fragment := range strings.Split(part.Literal, token) {
			if i > 0 {
				out = append(out, Ref(binding))
			}
			out = append(out, Literal[B](fragment))
		}
	}
	return out
}

// Join concatenates the parts, writing each binding as render(binding).
// Joining with Marker as render reproduces the markup Split started from.
func Join[B Marked](parts []Part[B], render func(B) string) string {
	var b strings.Builder
	for _, part := range parts {
		if part.IsLiteral() {
			b.WriteString(part.Literal)
			continue
		}
		b.WriteString(render(part.Binding))
	}
	return b.String()
}

// Marker is a render func for Join that writes the binding's own marker.
func Marker[B Marked](binding B) string {
	return binding.Marker()
}
