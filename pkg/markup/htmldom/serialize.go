package htmldom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-tie/pkg/escape"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "basefont": true, "bgsound": true, "br": true,
	"col": true, "embed": true, "frame": true, "hr": true, "img": true,
	"input": true, "keygen": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

var rawTextElements = map[string]bool{
	"style": true, "script": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "plaintext": true,
}

var attrValueEscaper = strings.NewReplacer(
	"&", "&amp;",
	"\u00a0", "&nbsp;",
	`"`, "&quot;",
)

func writeNode(b *strings.Builder, n *html.Node) error {
	switch n.Type {
	case html.DocumentNode:
		return writeChildren(b, n)
	case html.DoctypeNode:
		b.WriteString("<!DOCTYPE ")
		b.WriteString(n.Data)
		b.WriteString(">")
	case html.CommentNode:
		b.WriteString("<!--")
		b.WriteString(n.Data)
		b.WriteString("-->")
	case html.TextNode:
		if p := n.Parent; p != nil && p.Type == html.ElementNode && p.Namespace == "" && rawTextElements[p.Data] {
			b.WriteString(n.Data)
		} else {
			b.WriteString(escape.Text(n.Data))
		}
	case html.ElementNode:
		return writeElement(b, n)
	case html.RawNode:
		b.WriteString(n.Data)
	default:
		return fmt.Errorf("htmldom: cannot serialize node type %d", n.Type)
	}
	return nil
}

func writeElement(b *strings.Builder, n *html.Node) error {
	b.WriteByte('<')
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteByte(' ')
		if a.Namespace != "" {
			b.WriteString(a.Namespace)
			b.WriteByte(':')
		}
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(attrValueEscaper.Replace(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if n.Namespace == "" && voidElements[n.Data] {
		if n.FirstChild != nil {
			return fmt.Errorf("htmldom: void element <%s> has child nodes", n.Data)
		}
		return nil
	}

	if err := writeChildren(b, n); err != nil {
		return err
	}
	b.WriteString("</")
	b.WriteString(n.Data)
	b.WriteByte('>')
	return nil
}

func writeChildren(b *strings.Builder, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := writeNode(b, c); err != nil {
			return err
		}
	}
	return nil
}
