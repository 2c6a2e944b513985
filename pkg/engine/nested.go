package engine

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-tie/pkg/markup"
	"github.com/goliatone/go-tie/pkg/resolve"
)

// Loop carves the first location matching selector out into a child
// template. The location is replaced by a marker; at render time the child is
// rendered once per element of the resolved sequence. Unlike the Bind
// methods, Loop requires a match and fails with a NotFoundError otherwise.
// The child has its own marker generator and bindings and is configured the
// same way as the parent. Loop must be registered before any binding that
// targets a location inside the carved out sub-tree; such a location belongs
// to the child and is bound there instead.
func (t *Template) Loop(selector string, src resolve.Source) (*Template, error) {
	if t.compiled {
		return nil, fmt.Errorf("%w: cannot loop %q", ErrCompiled, selector)
	}

	target, err := t.root.QuerySelector(selector)
	if err != nil {
		return nil, &InvalidArgumentError{Argument: selector, Reason: "invalid selector", Err: err}
	}
	if !markup.IsElement(target) {
		return nil, &NotFoundError{Selector: selector}
	}

	subtree := target.Clone()
	if err := t.checkUnbound(selector, subtree); err != nil {
		return nil, err
	}

	token := t.nextMarker()
	if _, err := target.ReplaceWith(token); err != nil {
		return nil, fmt.Errorf("engine: replace loop location %q: %w", selector, err)
	}
	if err := t.capture(); err != nil {
		return nil, err
	}

	child, err := newTemplate(nil, subtree, false, t.cfg)
	if err != nil {
		return nil, fmt.Errorf("engine: build nested template %q: %w", selector, err)
	}

	b := &Binding{
		Selector: selector,
		Source:   src,
		Default:  []any{},
		kind:     KindLoop,
		marker:   token,
	}
	b.render = func(value any) string {
		items, ok := resolve.Sequence(value)
		if !ok {
			t.cfg.logger.Debug("loop value is not a sequence",
				"selector", selector,
				"type", fmt.Sprintf("%T", value),
			)
			return ""
		}
		var out strings.Builder
		for _, item := range items {
			out.WriteString(child.execute(item))
		}
		return out.String()
	}

	t.bindings = append(t.bindings, b)
	t.children = append(t.children, child)
	t.cfg.logger.Debug("loop registered", "selector", selector, "marker", token)
	return child, nil
}

func (t *Template) checkUnbound(selector string, subtree markup.Element) error {
	if len(t.bindings) == 0 {
		return nil
	}
	out, err := subtree.OuterHTML()
	if err != nil {
		return fmt.Errorf("engine: serialize loop location %q: %w", selector, err)
	}
	for _, b := range t.bindings {
		if strings.Contains(out, b.marker) {
			return &InvalidArgumentError{
				Argument: selector,
				Reason:   fmt.Sprintf("location holds the %s binding on %q, register it on the nested template", b.kind, b.Selector),
			}
		}
	}
	return nil
}

// If is a Loop that renders the section zero or one times. The flag is
// resolved from src with a default of false; when it is truthy the child is
// rendered once with the unmodified current data. Truthiness follows
// text/template, so empty slices, maps and strings hide the section.
func (t *Template) If(selector string, src resolve.Source) (*Template, error) {
	return t.Loop(selector, func(data any) (any, bool) {
		flag := resolve.Value(data, src, false)
		if resolve.Truthy(flag) {
			return []any{data}, true
		}
		return []any{}, true
	})
}
