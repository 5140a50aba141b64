package render

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// Document is a parsed HTML page whose elements can be addressed by id.
type Document struct {
	root *html.Node
}

func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("html.Parse: %w", err)
	}
	return &Document{root: root}, nil
}

func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

// SetText replaces the children of the element with the given id by a single
// text node. It reports false, and changes nothing, if there is no such element.
func (d *Document) SetText(id, text string) bool {
	n := findByID(d.root, id)
	if n == nil {
		return false
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return true
}

// Text returns the concatenated text content of the element with the given id.
func (d *Document) Text(id string) (string, bool) {
	n := findByID(d.root, id)
	if n == nil {
		return "", false
	}

	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String(), true
}

func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
