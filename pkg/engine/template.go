package engine

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-tie/pkg/compiler"
	"github.com/goliatone/go-tie/pkg/marker"
	"github.com/goliatone/go-tie/pkg/markup"
)

// Part is one entry of a compiled template: literal markup or a binding.
type Part = compiler.Part[*Binding]

// Template owns a working root, the markup captured from it, the bindings
// registered against it and, once rendered, the compiled parts-list.
type Template struct {
	cfg config

	root    markup.Element
	wrapper markup.Element
	markup  string

	markers  *marker.Generator
	bindings []*Binding
	children []*Template

	compileOnce sync.Once
	compiled    bool
	parts       []Part
}

// New resolves location, detaches the element from its parent and captures
// it as the template markup. location is a selector string resolved against
// doc, or a markup.Element.
func New(doc markup.Document, location any, options ...Option) (*Template, error) {
	return newTemplate(doc, location, false, newConfig(options))
}

// NewAt is New in keep-position mode: the element stays in the host tree as
// a wrapper whose content is cleared, the template works on a deep clone, and
// every render replaces the wrapper with the output.
func NewAt(doc markup.Document, location any, options ...Option) (*Template, error) {
	return newTemplate(doc, location, true, newConfig(options))
}

func newTemplate(doc markup.Document, location any, keepPosition bool, cfg config) (*Template, error) {
	el, err := locate(doc, location)
	if err != nil {
		return nil, err
	}

	t := &Template{
		cfg:     cfg,
		markers: marker.New(cfg.markerStart),
	}
	if keepPosition {
		t.wrapper = el
		t.root = el.Clone()
		el.SetContent("")
	} else {
		el.Detach()
		t.root = el
	}

	if err := t.capture(); err != nil {
		return nil, err
	}
	t.cfg.logger.Debug("template created",
		"keepPosition", keepPosition,
		"bytes", len(t.markup),
	)
	return t, nil
}

func locate(doc markup.Document, location any) (markup.Element, error) {
	switch loc := location.(type) {
	case string:
		if strings.TrimSpace(loc) == "" {
			return nil, &InvalidArgumentError{Argument: loc, Reason: "no selector or element given"}
		}
		if doc == nil {
			return nil, &InvalidArgumentError{Argument: loc, Reason: "a document is required to resolve a selector"}
		}
		el, err := doc.QuerySelector(loc)
		if err != nil {
			return nil, &InvalidArgumentError{Argument: loc, Reason: "invalid selector", Err: err}
		}
		if !markup.IsElement(el) {
			return nil, &NotFoundError{Selector: loc}
		}
		return el, nil
	case markup.Element:
		if !markup.IsElement(loc) {
			return nil, &InvalidArgumentError{Argument: location, Reason: "element handle is nil"}
		}
		return loc, nil
	default:
		return nil, &InvalidArgumentError{
			Argument: fmt.Sprintf("%T", location),
			Reason:   "only a selector string or a markup.Element is allowed",
		}
	}
}

func (t *Template) capture() error {
	out, err := t.root.OuterHTML()
	if err != nil {
		return fmt.Errorf("engine: serialize template root: %w", err)
	}
	t.markup = out
	return nil
}

func (t *Template) nextMarker() string {
	return t.markers.Next(func(token string) bool {
		return strings.Contains(t.markup, token)
	})
}

// Markup returns the captured markup including embedded markers.
func (t *Template) Markup() string { return t.markup }

// Root returns the working root the template was captured from.
func (t *Template) Root() markup.Element { return t.root }

// Bindings returns the registered bindings in registration order.
func (t *Template) Bindings() []*Binding {
	return append([]*Binding(nil), t.bindings...)
}

// Children returns the nested templates created by Loop and If.
func (t *Template) Children() []*Template {
	return append([]*Template(nil), t.children...)
}

// Parts compiles the template if needed and returns a copy of the
// parts-list.
func (t *Template) Parts() []Part {
	t.compile()
	return append([]Part(nil), t.parts...)
}

// Compiled reports whether the parts-list has been built.
func (t *Template) Compiled() bool { return t.compiled }

func (t *Template) compile() {
	t.compileOnce.Do(func() {
		t.parts = compiler.Split(t.markup, t.bindings)
		t.compiled = true
		t.cfg.logger.Debug("template compiled",
			"bindings", len(t.bindings),
			"parts", len(t.parts),
		)
	})
}
