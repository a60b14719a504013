// Package layout injects a default `layout` key into a markdown document's
// YAML frontmatter.
//
// The transform is a pure function over a doctree.Tree: documents without
// frontmatter gain a synthesized block carrying only the layout key; documents
// with frontmatter get the key set unless the author already declared one and
// SkipIfHasLayout is set. Applying the transform twice with the same options
// is a no-op on the second pass.
package layout

import (
	"git.home.luguber.info/inful/mdlayout/internal/doctree"
	"git.home.luguber.info/inful/mdlayout/internal/metadata"
)

// Key is the frontmatter key this transform manages.
const Key = "layout"

// DefaultLayoutRef is the layout reference written when none is configured.
const DefaultLayoutRef = "src/layout/layout.astro"

// Options configures a single Apply call.
//
// Options is passed by value per call and never cached at package level, so
// concurrent per-document invocations are safe by construction.
type Options struct {
	// DefaultLayout is the value written into the layout key.
	DefaultLayout string

	// SkipIfHasLayout leaves a document untouched when it already declares
	// a layout, preserving the author's override. When false, the layout
	// is forcibly overwritten.
	SkipIfHasLayout bool
}

// DefaultOptions returns the standard configuration: write DefaultLayoutRef,
// keep existing author overrides.
func DefaultOptions() Options {
	return Options{
		DefaultLayout:   DefaultLayoutRef,
		SkipIfHasLayout: true,
	}
}

// Apply ensures tree's frontmatter declares a layout, per opts.
//
// Errors from malformed frontmatter (metadata.ErrParse, metadata.ErrNotMapping)
// are returned as-is; the tree is left unmodified in that case. Callers that
// know the document's identity are expected to attach it when wrapping,
// because a silently skipped document would ship without layout metadata.
func Apply(tree *doctree.Tree, opts Options) error {
	fm := locate(tree)
	if fm == nil {
		return synthesize(tree, opts)
	}
	return inject(fm, tree.Style(), opts)
}

// locate returns the tree's frontmatter node, or nil when the document has
// none. Only the first node is examined; frontmatter anywhere else cannot
// exist by construction.
func locate(tree *doctree.Tree) *doctree.FrontmatterNode {
	nodes := tree.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	switch n := nodes[0].(type) {
	case *doctree.FrontmatterNode:
		return n
	case *doctree.BlockNode:
		return nil
	}
	// The node set is closed; no other variants exist.
	return nil
}

// synthesize prepends a new frontmatter node whose mapping is exactly
// {layout: opts.DefaultLayout}. Existing nodes shift down one position and
// are not otherwise touched.
func synthesize(tree *doctree.Tree, opts Options) error {
	m := metadata.New()
	m.Set(Key, opts.DefaultLayout)

	raw, err := m.Encode(tree.Style().Newline)
	if err != nil {
		return err
	}
	tree.InsertFrontmatter(raw)
	return nil
}

// inject sets the layout key in an existing frontmatter node.
//
// The skip case returns before any re-serialization so the node's text stays
// byte-identical to the input. Otherwise the key is set in place and the
// mapping re-encoded; all other keys keep their values and relative order.
func inject(fm *doctree.FrontmatterNode, style doctree.Style, opts Options) error {
	m, err := metadata.Parse(fm.Raw())
	if err != nil {
		return err
	}

	if opts.SkipIfHasLayout && m.Has(Key) {
		return nil
	}

	m.Set(Key, opts.DefaultLayout)
	raw, err := m.Encode(style.Newline)
	if err != nil {
		return err
	}
	fm.SetRaw(raw)
	return nil
}
