// Package tree projects a parsed document onto an expandable outline.
// Child nodes are built the first time they are needed, so large documents
// cost nothing until they are opened.
package tree

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mcncl/devkit/internal/models"
)

// Node is one row of the outline.
type Node struct {
	// Label is the mapping key or the 0-based sequence index.
	Label string
	// Value is "..." for a mapping, "[k items]" for a sequence, otherwise
	// the scalar's text.
	Value string

	tree     *Tree
	source   models.JSONValue
	children []*Node
	loaded   bool
	expanded bool
}

// Tree holds the top-level nodes and the default expansion state.
type Tree struct {
	nodes    []*Node
	expanded bool
}

// Build creates the outline for root. A scalar root has no nodes.
func Build(root models.JSONValue) *Tree {
	t := &Tree{expanded: true}
	t.nodes = t.childrenOf(root)
	return t
}

// Nodes returns the top-level nodes.
func (t *Tree) Nodes() []*Node {
	return t.nodes
}

// Toggle flips a container between expanded and collapsed. Leaves are ignored.
func (t *Tree) Toggle(n *Node) {
	if n.Expandable() {
		n.expanded = !n.expanded
	}
}

// ExpandAll expands every container, including ones not built yet.
func (t *Tree) ExpandAll() {
	t.setAll(true)
}

// CollapseAll collapses every container, including ones not built yet.
func (t *Tree) CollapseAll() {
	t.setAll(false)
}

func (t *Tree) setAll(expanded bool) {
	t.expanded = expanded
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if !n.Expandable() {
				continue
			}
			n.expanded = expanded
			if n.loaded {
				walk(n.children)
			}
		}
	}
	walk(t.nodes)
}

// Render writes the visible rows, two spaces of indent per level.
// Containers are marked "-" when expanded and "+" when collapsed.
func (t *Tree) Render(w io.Writer) error {
	return render(w, t.nodes, 0)
}

func render(w io.Writer, nodes []*Node, depth int) error {
	for _, n := range nodes {
		marker := " "
		if n.Expandable() {
			marker = "+"
			if n.expanded {
				marker = "-"
			}
		}
		if _, err := fmt.Fprintf(w, "%s%s %s: %s\n", strings.Repeat("  ", depth), marker, n.Label, n.Value); err != nil {
			return err
		}
		if n.Expanded() {
			if err := render(w, n.Children(), depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// Expandable reports whether the node is a container.
func (n *Node) Expandable() bool {
	switch n.source.(type) {
	case models.JSONArray, *models.JSONObject:
		return true
	default:
		return false
	}
}

// Expanded reports whether the node's children are shown.
func (n *Node) Expanded() bool {
	return n.Expandable() && n.expanded
}

// Loaded reports whether the children have been built.
func (n *Node) Loaded() bool {
	return n.loaded
}

// Children returns the node's children, building them on first call.
func (n *Node) Children() []*Node {
	if !n.loaded {
		n.children = n.tree.childrenOf(n.source)
		n.loaded = true
	}
	return n.children
}

func (t *Tree) childrenOf(v models.JSONValue) []*Node {
	switch c := v.(type) {
	case *models.JSONObject:
		keys := c.Keys()
		nodes := make([]*Node, 0, len(keys))
		for _, key := range keys {
			child, _ := c.Get(key)
			nodes = append(nodes, t.newNode(key, child))
		}
		return nodes
	case models.JSONArray:
		nodes := make([]*Node, 0, len(c))
		for i, child := range c {
			nodes = append(nodes, t.newNode(strconv.Itoa(i), child))
		}
		return nodes
	default:
		return nil
	}
}

func (t *Tree) newNode(label string, v models.JSONValue) *Node {
	n := &Node{Label: label, Value: ValueText(v), tree: t, source: v}
	if n.Expandable() {
		n.expanded = t.expanded
	} else {
		n.loaded = true
	}
	return n
}

// ValueText returns the value column text for v.
func ValueText(v models.JSONValue) string {
	switch c := v.(type) {
	case *models.JSONObject:
		return "..."
	case models.JSONArray:
		return fmt.Sprintf("[%d items]", len(c))
	case models.JSONString:
		return string(c)
	case models.JSONNumber:
		return string(c)
	case models.JSONBool:
		return strconv.FormatBool(bool(c))
	default:
		return "null"
	}
}
