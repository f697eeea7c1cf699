package kbin

import (
	"github.com/scigolib/kbin/internal/core"
	"github.com/scigolib/kbin/internal/writer"
)

// nodeWriteable adapts *Node to internal/writer's Writeable interface,
// keeping that adaptation out of Node itself so Node's public API stays
// shaped around the logical tree rather than the wire format.
type nodeWriteable struct {
	n *Node
}

func (w nodeWriteable) Key() string { return w.n.key }

func (w nodeWriteable) WireType() (*core.Type, bool, error) { return w.n.nodeType() }

func (w nodeWriteable) Value() *core.Value { return w.n.value }

func (w nodeWriteable) AttrPairs() [][2]string {
	pairs := make([][2]string, len(w.n.attributes))
	for i, a := range w.n.attributes {
		pairs[i] = [2]string{a.key, a.value}
	}
	return pairs
}

func (w nodeWriteable) Children() []writer.Writeable {
	out := make([]writer.Writeable, len(w.n.children))
	for i, c := range w.n.children {
		out[i] = nodeWriteable{c}
	}
	return out
}
