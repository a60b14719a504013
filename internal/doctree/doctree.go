// Package doctree models a markdown document as an ordered sequence of
// top-level nodes: an optional YAML frontmatter node at index 0 followed by
// body block nodes.
//
// The node set is deliberately closed (FrontmatterNode, BlockNode) so callers
// dispatch with an exhaustive type switch instead of runtime kind strings.
// Serialization is lossless: block nodes tile the body bytes exactly.
package doctree

// Node is a top-level document node. Implementations are limited to
// FrontmatterNode and BlockNode.
type Node interface {
	node()
}

// FrontmatterNode carries the raw YAML text of a frontmatter block, without
// the `---` delimiters.
type FrontmatterNode struct {
	raw []byte

	// padded marks a synthesized node that renders with a blank line
	// between the closing delimiter and the body.
	padded bool
}

func (n *FrontmatterNode) node() {}

// Raw returns a copy of the node's YAML text.
func (n *FrontmatterNode) Raw() []byte {
	return append([]byte(nil), n.raw...)
}

// SetRaw replaces the node's YAML text.
func (n *FrontmatterNode) SetRaw(raw []byte) {
	n.raw = append([]byte(nil), raw...)
}

// BlockNode carries the raw markdown text of one top-level body block,
// including any surrounding blank lines assigned to it during parsing.
type BlockNode struct {
	raw []byte
}

func (n *BlockNode) node() {}

// Raw returns a copy of the block's markdown text.
func (n *BlockNode) Raw() []byte {
	return append([]byte(nil), n.raw...)
}

// Style captures formatting details needed for stable rewriting.
//
// It intentionally focuses on newline shape and does not attempt to preserve
// original YAML formatting beyond what yaml.Node round-tripping provides.
type Style struct {
	Newline string
}

// Tree is the parsed document: ordered nodes plus the captured newline style.
//
// A Tree is owned exclusively by the call that created it. Nothing in this
// package reads or writes shared state, so trees for different documents can
// be processed concurrently without coordination.
type Tree struct {
	nodes []Node
	style Style
}

// Nodes returns the node sequence. The slice must not be reordered by
// callers; node contents are mutated through the node types' own methods.
func (t *Tree) Nodes() []Node {
	return t.nodes
}

// Len returns the number of top-level nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Style returns the newline style detected when the document was parsed.
func (t *Tree) Style() Style {
	return t.style
}

// InsertFrontmatter prepends a new frontmatter node carrying raw YAML text,
// shifting all existing nodes down by one position. When the tree has body
// nodes, the new block renders with a blank line before them.
func (t *Tree) InsertFrontmatter(raw []byte) {
	fm := &FrontmatterNode{
		raw:    append([]byte(nil), raw...),
		padded: len(t.nodes) > 0,
	}
	t.nodes = append([]Node{fm}, t.nodes...)
}

// Bytes serializes the tree back to document bytes.
//
// Frontmatter renders as `---` delimited YAML using the tree's newline style;
// body blocks are emitted verbatim, so a parse/serialize round trip without
// mutation reproduces the input exactly.
func (t *Tree) Bytes() []byte {
	nl := t.style.Newline
	if nl == "" {
		nl = "\n"
	}

	delim := []byte("---" + nl)
	var out []byte
	for i, n := range t.nodes {
		switch n := n.(type) {
		case *FrontmatterNode:
			out = append(out, delim...)
			out = append(out, n.raw...)
			out = append(out, delim...)
			if n.padded && i+1 < len(t.nodes) {
				out = append(out, nl...)
			}
		case *BlockNode:
			out = append(out, n.raw...)
		}
	}
	return out
}
