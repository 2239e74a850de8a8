package xml21

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// node is a generic XML element: attributes, trimmed character data and
// child elements in document order.
type node struct {
	name     string
	attrs    map[string]string
	text     string
	children []*node
}

// decodeTree reads the whole document into a node tree without recursion.
func decodeTree(data []byte) (*node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *node
		stack []*node
		text  []*strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			last := len(stack) - 1
			stack[last].text = strings.TrimSpace(text[last].String())
			stack = stack[:last]
			text = text[:last]
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("empty document")
	}
	if len(stack) != 0 {
		return nil, errors.New("unexpected end of document")
	}
	return root, nil
}

// child returns the first child element with the given name.
func (n *node) child(name string) *node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// childrenNamed returns every child element with the given name.
func (n *node) childrenNamed(name string) []*node {
	if n == nil {
		return nil
	}
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// structured reports whether n carries more than character data.
func (n *node) structured() bool {
	return n != nil && (len(n.children) > 0 || len(n.attrs) > 0)
}

// elems looks keys up among the text of leaf child elements.
type elems struct{ n *node }

func (e elems) Lookup(key string) (any, bool) {
	c := e.n.child(key)
	if c == nil || len(c.children) > 0 {
		return nil, false
	}
	return c.text, true
}

// attrs looks keys up among the element's attributes.
type attrs struct{ n *node }

func (a attrs) Lookup(key string) (any, bool) {
	if a.n == nil {
		return nil, false
	}
	v, ok := a.n.attrs[key]
	return v, ok
}
