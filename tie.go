// Package tie binds data into static markup. A template is captured from an
// element of a parsed HTML document, bindings mark the locations that receive
// data, and rendering re-emits the markup with the data filled in:
//
//	doc, _ := tie.ParseHTML(page)
//	tmpl, _ := tie.CreateTemplate(doc, "#greeting")
//	_ = tmpl.BindText("span", tie.Prop("name"))
//	out, _ := tmpl.Render(map[string]any{"name": "Peter"})
//
// The packages under pkg/ expose the pieces individually; this package
// re-exports the common entry points.
package tie

import (
	"io"

	"github.com/goliatone/go-tie/pkg/engine"
	"github.com/goliatone/go-tie/pkg/manifest"
	"github.com/goliatone/go-tie/pkg/markup"
	"github.com/goliatone/go-tie/pkg/markup/htmldom"
	"github.com/goliatone/go-tie/pkg/resolve"
)

// Template aliases engine.Template.
type Template = engine.Template

// Source aliases resolve.Source, the value source accepted by every binding.
type Source = resolve.Source

// NotFoundError aliases engine.NotFoundError.
type NotFoundError = engine.NotFoundError

// InvalidArgumentError aliases engine.InvalidArgumentError.
type InvalidArgumentError = engine.InvalidArgumentError

// CreateTemplate detaches the element at location from doc and captures it as
// a template. location is a selector string or a markup.Element.
func CreateTemplate(doc markup.Document, location any, options ...engine.Option) (*Template, error) {
	return engine.New(doc, location, options...)
}

// CreateTemplateAt captures a clone of the element at location and keeps the
// original in place; every render replaces it with the output.
func CreateTemplateAt(doc markup.Document, location any, options ...engine.Option) (*Template, error) {
	return engine.NewAt(doc, location, options...)
}

// ParseHTML parses a complete HTML document into a tree templates can be
// created from.
func ParseHTML(r io.Reader) (*htmldom.Document, error) {
	return htmldom.Parse(r)
}

// LoadManifest reads a binding manifest from a JSON or YAML file.
func LoadManifest(path string) (*manifest.Manifest, error) {
	return manifest.Load(path)
}

// Prop selects a single data property by name.
func Prop(name string) Source {
	return resolve.Prop(name)
}

// Func selects the value returned by fn.
func Func(fn func(data any) any) Source {
	return resolve.Func(fn)
}
