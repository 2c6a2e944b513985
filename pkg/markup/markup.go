// Package markup defines the narrow host tree capabilities a template needs
// while it is being built: selector lookup, attribute and content mutation,
// cloning, detaching, serialization and in-place replacement. The compiler and
// renderer never touch these interfaces; only template construction and
// binding registration do.
package markup

import "reflect"

// Document is the host tree a template root is resolved against.
type Document interface {
	// QuerySelector returns the first element matching selector, or nil when
	// nothing matches.
	QuerySelector(selector string) (Element, error)
}

// Element is a handle on a single element of the host tree.
type Element interface {
	// QuerySelector returns the first descendant matching selector, or nil.
	QuerySelector(selector string) (Element, error)
	// QuerySelectorAll returns every descendant matching selector in
	// document order.
	QuerySelectorAll(selector string) ([]Element, error)

	Attr(name string) (string, bool)
	SetAttr(name, value string)

	// SetContent replaces all children with a single text node. An empty
	// text clears the element.
	SetContent(text string)

	// OuterHTML serializes the element and its subtree.
	OuterHTML() (string, error)

	// Clone returns a deep copy of the subtree that has no parent.
	Clone() Element

	// Detach unlinks the element from its parent. Detaching a free-standing
	// element is a no-op.
	Detach()

	// ReplaceWith parses markup in the context of the element's parent and
	// swaps the element for the resulting nodes. The returned element is the
	// single element node the markup produced, or nil when it produced none
	// or several.
	ReplaceWith(markup string) (Element, error)
}

// IsElement reports whether v is a usable element handle. Typed nil
// pointers stored in the interface are rejected.
func IsElement(v any) bool {
	el, ok := v.(Element)
	if !ok || el == nil {
		return false
	}
	rv := reflect.ValueOf(el)
	return rv.Kind() != reflect.Pointer || !rv.IsNil()
}
