package engine

import (
	"strings"

	"github.com/goliatone/go-tie/pkg/escape"
	"github.com/goliatone/go-tie/pkg/resolve"
	"github.com/goliatone/go-tie/pkg/sanitize"
)

// Kind identifies how a binding renders its value.
type Kind int

const (
	KindHTML Kind = iota
	KindText
	KindSafeHTML
	KindAttr
	KindClass
	KindLoop
)

func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindText:
		return "text"
	case KindSafeHTML:
		return "safeHtml"
	case KindAttr:
		return "attr"
	case KindClass:
		return "class"
	case KindLoop:
		return "loop"
	default:
		return "unknown"
	}
}

// Binding is one substitution point of a template.
type Binding struct {
	// Selector picks the target locations; empty means the template root.
	Selector string
	// Attr is set when the binding writes into an attribute value.
	Attr string
	// AppendSeparator joins the rendered value to the attribute's existing
	// value instead of replacing it.
	AppendSeparator string
	// Source picks the value out of the render data; nil passes the data
	// through.
	Source resolve.Source
	// Default is rendered when a property lookup misses.
	Default any

	kind   Kind
	marker string
	render func(value any) string
}

// Marker returns the token assigned at registration.
func (b *Binding) Marker() string { return b.marker }

// Kind reports how the binding renders its value.
func (b *Binding) Kind() Kind { return b.kind }

// Render produces the markup fragment for an already resolved value.
func (b *Binding) Render(value any) string {
	return b.render(value)
}

// Resolve picks the binding's value out of data.
func (b *Binding) Resolve(data any) any {
	return resolve.Value(data, b.Source, b.Default)
}

func renderRaw(value any) string {
	return resolve.Stringify(value)
}

func renderText(value any) string {
	return escape.Text(resolve.Stringify(value))
}

func renderSafe(value any) string {
	return sanitize.HTML(resolve.Stringify(value))
}

func renderAttr(value any) string {
	return escape.Attr(resolve.Stringify(value))
}

func renderClass(value any) string {
	if items, ok := resolve.Sequence(value); ok && value != nil {
		names := make([]string, len(items))
		for i, item := range items {
			names[i] = resolve.Stringify(item)
		}
		return escape.Attr(strings.Join(names, " "))
	}
	return escape.Attr(resolve.Stringify(value))
}
