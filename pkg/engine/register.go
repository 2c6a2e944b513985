package engine

import (
	"fmt"

	"github.com/goliatone/go-tie/pkg/markup"
	"github.com/goliatone/go-tie/pkg/resolve"
)

// BindHTML sets the content of every location matching selector to the raw
// string form of the resolved value.
func (t *Template) BindHTML(selector string, src resolve.Source) error {
	return t.register(&Binding{Selector: selector, Source: src, kind: KindHTML, render: renderRaw})
}

// BindText is BindHTML with the value escaped as text content.
func (t *Template) BindText(selector string, src resolve.Source) error {
	return t.register(&Binding{Selector: selector, Source: src, kind: KindText, render: renderText})
}

// BindSafeHTML is BindHTML with the value passed through the sanitize
// policy first.
func (t *Template) BindSafeHTML(selector string, src resolve.Source) error {
	return t.register(&Binding{Selector: selector, Source: src, kind: KindSafeHTML, render: renderSafe})
}

// BindAttr replaces the value of attr on every matching location with the
// attribute-escaped value.
func (t *Template) BindAttr(selector, attr string, src resolve.Source) error {
	if attr == "" {
		return &InvalidArgumentError{Argument: selector, Reason: "attribute name is required"}
	}
	return t.register(&Binding{Selector: selector, Attr: attr, Source: src, kind: KindAttr, render: renderAttr})
}

// BindClass appends the value to the class attribute of every matching
// location. Sequences are joined with single spaces.
func (t *Template) BindClass(selector string, src resolve.Source) error {
	return t.register(&Binding{
		Selector:        selector,
		Attr:            "class",
		AppendSeparator: " ",
		Source:          src,
		kind:            KindClass,
		render:          renderClass,
	})
}

func (t *Template) register(b *Binding) error {
	if t.compiled {
		return fmt.Errorf("%w: cannot bind %q", ErrCompiled, b.Selector)
	}

	b.marker = t.nextMarker()

	locations, err := t.locations(b.Selector)
	if err != nil {
		return err
	}
	for _, loc := range locations {
		t.mark(loc, b)
	}
	if err := t.capture(); err != nil {
		return err
	}

	t.bindings = append(t.bindings, b)
	t.cfg.logger.Debug("binding registered",
		"kind", b.kind.String(),
		"selector", b.Selector,
		"attr", b.Attr,
		"marker", b.marker,
		"locations", len(locations),
	)
	return nil
}

func (t *Template) locations(selector string) ([]markup.Element, error) {
	if selector == "" {
		return []markup.Element{t.root}, nil
	}
	found, err := t.root.QuerySelectorAll(selector)
	if err != nil {
		return nil, &InvalidArgumentError{Argument: selector, Reason: "invalid selector", Err: err}
	}
	return found, nil
}

func (t *Template) mark(loc markup.Element, b *Binding) {
	if b.Attr == "" {
		loc.SetContent(b.marker)
		return
	}

	value := b.marker
	if b.AppendSeparator != "" {
		if current, ok := loc.Attr(b.Attr); ok && current != "" {
			value = current + b.AppendSeparator + b.marker
		}
	}
	loc.SetAttr(b.Attr, value)
}
