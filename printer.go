package kbin

import (
	"fmt"
	"io"
)

// Print writes an indented, human-readable trace of n and its subtree to w:
// one line per node giving its key, wire type and value, followed by its
// attributes. Intended for inspecting malformed or unfamiliar kbin files.
func Print(w io.Writer, n *Node) error {
	return printNode(w, n, 0)
}

func printNode(w io.Writer, n *Node, depth int) error {
	t, isArray, err := n.nodeType()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%*s- %s (%s, array: %t)", depth*2, "", n.key, t.Tag, isArray)
	if n.value != nil {
		fmt.Fprintf(w, " = %s", n.value.ToString())
	}
	fmt.Fprintln(w)

	for _, a := range n.attributes {
		fmt.Fprintf(w, "%*s  @%s = %s\n", depth*2, "", a.key, a.value)
	}

	for _, child := range n.children {
		if err := printNode(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
