// Package kbin implements the kbin binary container format: a dual-buffer
// binary encoding of a small XML-like tree, used to exchange typed,
// structured data without the overhead of parsing text XML. It supports
// reading and writing the binary form, bridging to and from text XML, and
// printing a tree for diagnostics.
package kbin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scigolib/kbin/internal/core"
)

// parseIndex recognizes a pointer-path token as a plain array index: no
// leading '+' and no leading '0' unless the token is exactly "0".
func parseIndex(s string) (int, bool) {
	if strings.HasPrefix(s, "+") {
		return 0, false
	}
	if len(s) != 1 && strings.HasPrefix(s, "0") {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// attr is one key/value pair of a Node's attribute set, kept in a slice to
// preserve insertion order.
type attr struct {
	key   string
	value string
}

// Node is the logical tree produced by Decode and consumed by Encode: a
// key, an optional typed Value, an ordered attribute set and an ordered
// list of children.
type Node struct {
	key        string
	attributes []attr
	children   []*Node
	value      *core.Value
}

// NewNode creates a childless, valueless node with the given key.
func NewNode(key string) *Node {
	return &Node{key: key}
}

// NewValueNode creates a node carrying a typed value.
func NewValueNode(key string, value *core.Value) *Node {
	return &Node{key: key, value: value}
}

// Key returns the node's identifier.
func (n *Node) Key() string { return n.key }

// SetKey renames the node.
func (n *Node) SetKey(key string) { n.key = key }

// Value returns the node's typed value, or nil for a pure container node.
func (n *Node) Value() *core.Value { return n.value }

// SetValue replaces the node's value, returning the previous one.
func (n *Node) SetValue(value *core.Value) *core.Value {
	prev := n.value
	n.value = value
	return prev
}

// Attrs returns the node's attributes in insertion order.
func (n *Node) Attrs() []struct{ Key, Value string } {
	out := make([]struct{ Key, Value string }, len(n.attributes))
	for i, a := range n.attributes {
		out[i] = struct{ Key, Value string }{a.key, a.value}
	}
	return out
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.attributes {
		if a.key == key {
			return a.value, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute's value, preserving its original
// position if it already existed.
func (n *Node) SetAttr(key, value string) {
	for i, a := range n.attributes {
		if a.key == key {
			n.attributes[i].value = value
			return
		}
	}
	n.attributes = append(n.attributes, attr{key, value})
}

// Children returns the node's children in document order.
func (n *Node) Children() []*Node { return n.children }

// AppendChild appends a child node.
func (n *Node) AppendChild(child *Node) { n.children = append(n.children, child) }

// GetChild returns the first child with the given key.
func (n *Node) GetChild(key string) *Node {
	for _, c := range n.children {
		if c.key == key {
			return c
		}
	}
	return nil
}

// RemoveChild removes and returns the first child with the given key.
func (n *Node) RemoveChild(key string) *Node {
	for i, c := range n.children {
		if c.key == key {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return c
		}
	}
	return nil
}

// Pointer resolves a path given as a slice of child keys or numeric
// indices relative to n. A leading '+' or a leading '0' in a multi-digit token is
// never treated as a numeric index — it falls back to a key lookup instead.
func (n *Node) Pointer(path []string) *Node {
	target := n
	for _, token := range path {
		var next *Node
		if idx, ok := parseIndex(token); ok {
			if idx >= 0 && idx < len(target.children) {
				next = target.children[idx]
			}
		} else {
			next = target.GetChild(token)
		}
		if next == nil {
			return nil
		}
		target = next
	}
	return target
}

func nodeFromCollection(coll *core.NodeCollection) (*Node, error) {
	key, err := coll.Base().KeyText()
	if err != nil {
		return nil, err
	}

	n := &Node{key: key}
	if coll.Base().Type.ID != core.IDNodeStart {
		v, err := coll.Base().Value()
		if err != nil {
			return nil, err
		}
		n.value = v
	}

	for _, a := range coll.Attributes() {
		akey, err := a.KeyText()
		if err != nil {
			return nil, err
		}
		v, err := a.Value()
		if err != nil {
			return nil, err
		}
		n.SetAttr(akey, v.Text())
	}

	for _, child := range coll.Children() {
		childNode, err := nodeFromCollection(child)
		if err != nil {
			return nil, err
		}
		n.AppendChild(childNode)
	}

	return n, nil
}

// nodeType resolves the wire type and array flag this node will be
// written as: NodeStart for a container, or the value's own type.
func (n *Node) nodeType() (*core.Type, bool, error) {
	if n.value == nil {
		t, err := core.ByID(core.IDNodeStart)
		if err != nil {
			return nil, false, err
		}
		return t, false, nil
	}
	return n.value.StandardType(), n.value.IsArray, nil
}

func (n *Node) String() string {
	return fmt.Sprintf("Node{key: %q, attrs: %d, children: %d}", n.key, len(n.attributes), len(n.children))
}
