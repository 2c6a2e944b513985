// Package htmldom adapts golang.org/x/net/html node trees to the markup
// capabilities templates are built from. Selectors are CSS selectors compiled
// with cascadia; serialization follows the browser outerHTML algorithm rather
// than html.Render so void elements come out as <img> instead of <img/>.
package htmldom

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-tie/pkg/markup"
)

// ErrDetached is returned when an element without a parent is asked to
// replace itself.
var ErrDetached = errors.New("htmldom: element has no parent")

// Document wraps a parsed node tree.
type Document struct {
	root *html.Node
}

var (
	_ markup.Document = (*Document)(nil)
	_ markup.Element  = (*Element)(nil)
)

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// ParseFragment parses markup as body content and hangs the resulting nodes
// under a bare document node, so no html/head/body scaffolding is added.
func ParseFragment(src string) (*Document, error) {
	nodes, err := html.ParseFragment(strings.NewReader(src), bodyContext())
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse fragment: %w", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return &Document{root: root}, nil
}

// Wrap exposes an existing node tree as a Document.
func Wrap(root *html.Node) *Document {
	return &Document{root: root}
}

// Node returns the underlying root node.
func (d *Document) Node() *html.Node {
	return d.root
}

// QuerySelector returns the first element in the document matching selector.
func (d *Document) QuerySelector(selector string) (markup.Element, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	if n := cascadia.Query(d.root, m); n != nil {
		return &Element{node: n}, nil
	}
	return nil, nil
}

// Body returns the body element, or nil for fragment documents.
func (d *Document) Body() *Element {
	if n := findAtom(d.root, atom.Body); n != nil {
		return &Element{node: n}
	}
	return nil
}

// HTML serializes the whole document.
func (d *Document) HTML() (string, error) {
	var b strings.Builder
	if err := writeChildren(&b, d.root); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Element is a handle on one element node.
type Element struct {
	node *html.Node
}

// NewElement wraps a node. The node must be an element node.
func NewElement(n *html.Node) *Element {
	return &Element{node: n}
}

// Node returns the wrapped node.
func (e *Element) Node() *html.Node {
	return e.node
}

func (e *Element) QuerySelector(selector string) (markup.Element, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	if n := cascadia.Query(e.node, m); n != nil {
		return &Element{node: n}, nil
	}
	return nil, nil
}

func (e *Element) QuerySelectorAll(selector string) ([]markup.Element, error) {
	m, err := compile(selector)
	if err != nil {
		return nil, err
	}
	nodes := cascadia.QueryAll(e.node, m)
	out := make([]markup.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &Element{node: n})
	}
	return out, nil
}

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func (e *Element) SetAttr(name, value string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

func (e *Element) SetContent(text string) {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
	if text != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func (e *Element) OuterHTML() (string, error) {
	var b strings.Builder
	if err := writeNode(&b, e.node); err != nil {
		return "", err
	}
	return b.String(), nil
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() (string, error) {
	var b strings.Builder
	if err := writeChildren(&b, e.node); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (e *Element) Clone() markup.Element {
	return &Element{node: cloneNode(e.node)}
}

func (e *Element) Detach() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

func (e *Element) ReplaceWith(src string) (markup.Element, error) {
	parent := e.node.Parent
	if parent == nil {
		return nil, ErrDetached
	}

	context := parent
	if parent.Type != html.ElementNode {
		context = bodyContext()
	}
	nodes, err := html.ParseFragment(strings.NewReader(src), context)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse replacement: %w", err)
	}

	var single *html.Node
	elements := 0
	for _, n := range nodes {
		parent.InsertBefore(n, e.node)
		if n.Type == html.ElementNode {
			single = n
			elements++
		}
	}
	parent.RemoveChild(e.node)

	if elements != 1 {
		return nil, nil
	}
	return &Element{node: single}, nil
}

func compile(selector string) (cascadia.Matcher, error) {
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("htmldom: parse selector %q: %w", selector, err)
	}
	return group, nil
}

func bodyContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

func findAtom(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAtom(c, a); found != nil {
			return found
		}
	}
	return nil
}

func cloneNode(n *html.Node) *html.Node {
	out := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		out.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(cloneNode(c))
	}
	return out
}
