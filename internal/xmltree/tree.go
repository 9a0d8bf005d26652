// Package xmltree decodes an XML document into a schema-free element tree.
//
// Namespace prefixes are dropped: elements are addressed by local name only.
// All lookup methods are nil-safe so callers can chain Find calls without
// checking each step.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoRoot is returned for documents without a root element.
var ErrNoRoot = errors.New("xml document has no root element")

// Node is one element of the tree.
type Node struct {
	Name     string            // local name
	Space    string            // namespace URI
	Attrs    map[string]string // by local name
	Text     string            // trimmed character data
	Nil      bool              // xsi:nil="true"
	Children []*Node
}

// Parse decodes data into a tree and returns its root element.
func Parse(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		root  *Node
		stack []*Node
		texts []*strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Space: t.Name.Space}
			for _, a := range t.Attr {
				if n.Attrs == nil {
					n.Attrs = make(map[string]string, len(t.Attr))
				}
				n.Attrs[a.Name.Local] = a.Value
				if a.Name.Local == "nil" && a.Value == "true" {
					n.Nil = true
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			} else {
				return nil, errors.New("parse xml: multiple root elements")
			}
			stack = append(stack, n)
			texts = append(texts, &strings.Builder{})

		case xml.EndElement:
			n := stack[len(stack)-1]
			n.Text = strings.TrimSpace(texts[len(texts)-1].String())
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]

		case xml.CharData:
			if len(texts) > 0 {
				texts[len(texts)-1].Write(t)
			}
		}
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// Child returns the first direct child with the given local name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child with the given local name.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Find descends through direct children following path.
func (n *Node) Find(path ...string) *Node {
	cur := n
	for _, name := range path {
		cur = cur.Child(name)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FindFirst returns the first descendant (depth first, self excluded) with the
// given local name.
func (n *Node) FindFirst(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
		if found := c.FindFirst(name); found != nil {
			return found
		}
	}
	return nil
}

// Value returns the text of the node at path, or "" if absent.
func (n *Node) Value(path ...string) string {
	found := n.Find(path...)
	if found == nil {
		return ""
	}
	return found.Text
}

// Map returns the text of every leaf child keyed by local name.
func (n *Node) Map() map[string]string {
	if n == nil {
		return nil
	}
	out := make(map[string]string, len(n.Children))
	for _, c := range n.Children {
		if len(c.Children) == 0 {
			out[c.Name] = c.Text
		}
	}
	return out
}
