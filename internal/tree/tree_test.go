package tree

import (
	"strings"
	"testing"

	"github.com/mcncl/devkit/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, input string) *Tree {
	t.Helper()
	doc, err := parser.ParseString(input)
	require.NoError(t, err)
	return Build(doc.Root)
}

func TestBuild_Labels(t *testing.T) {
	tr := build(t, `{"name": "Ann", "age": 30, "ok": true, "none": null, "tags": ["a", "b"], "addr": {"city": "Oslo"}}`)

	var got [][2]string
	for _, n := range tr.Nodes() {
		got = append(got, [2]string{n.Label, n.Value})
	}
	assert.Equal(t, [][2]string{
		{"name", "Ann"},
		{"age", "30"},
		{"ok", "true"},
		{"none", "null"},
		{"tags", "[2 items]"},
		{"addr", "..."},
	}, got)
}

func TestBuild_SequenceIndexes(t *testing.T) {
	tr := build(t, `[10, [1, 2, 3], {}]`)
	nodes := tr.Nodes()
	require.Len(t, nodes, 3)
	assert.Equal(t, "0", nodes[0].Label)
	assert.Equal(t, "[3 items]", nodes[1].Value)
	assert.Equal(t, "2", nodes[2].Label)
	assert.Equal(t, "...", nodes[2].Value)
	assert.Empty(t, nodes[2].Children())
}

func TestBuild_ScalarRoot(t *testing.T) {
	assert.Empty(t, build(t, "42").Nodes())
}

func TestLazyChildren(t *testing.T) {
	tr := build(t, `{"a": {"b": {"c": 1}}}`)
	a := tr.Nodes()[0]

	assert.True(t, a.Expandable())
	assert.True(t, a.Expanded())
	assert.False(t, a.Loaded())

	b := a.Children()[0]
	assert.True(t, a.Loaded())
	assert.False(t, b.Loaded())
	assert.Equal(t, "b", b.Label)
}

func TestLeaves(t *testing.T) {
	leaf := build(t, `{"x": 1}`).Nodes()[0]
	assert.False(t, leaf.Expandable())
	assert.False(t, leaf.Expanded())
	assert.Empty(t, leaf.Children())
}

func TestToggle(t *testing.T) {
	tr := build(t, `{"a": [1], "b": 2}`)
	a, b := tr.Nodes()[0], tr.Nodes()[1]

	tr.Toggle(a)
	assert.False(t, a.Expanded())
	tr.Toggle(a)
	assert.True(t, a.Expanded())

	tr.Toggle(b)
	assert.False(t, b.Expanded())
}

func TestExpandCollapseAll(t *testing.T) {
	tr := build(t, `{"a": {"b": {"c": [1]}}, "d": [[2]]}`)
	a := tr.Nodes()[0]
	_ = a.Children()

	tr.CollapseAll()
	assert.False(t, a.Expanded())
	assert.False(t, a.Children()[0].Expanded())
	// nodes built after the collapse follow it
	assert.False(t, tr.Nodes()[1].Children()[0].Expanded())

	tr.ExpandAll()
	assert.True(t, a.Expanded())
	assert.True(t, a.Children()[0].Children()[0].Expanded())
}

func TestRender(t *testing.T) {
	tr := build(t, `{"name": "Ann", "tags": ["x"], "addr": {"city": "Oslo"}}`)

	var sb strings.Builder
	require.NoError(t, tr.Render(&sb))
	assert.Equal(t, strings.Join([]string{
		"  name: Ann",
		"- tags: [1 items]",
		"    0: x",
		"- addr: ...",
		"    city: Oslo",
		"",
	}, "\n"), sb.String())

	tr.Toggle(tr.Nodes()[1])
	sb.Reset()
	require.NoError(t, tr.Render(&sb))
	assert.Equal(t, strings.Join([]string{
		"  name: Ann",
		"+ tags: [1 items]",
		"- addr: ...",
		"    city: Oslo",
		"",
	}, "\n"), sb.String())
}
