package doctree

import (
	"bytes"
	"errors"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Parse parses raw document bytes into a Tree.
//
// A document starting with a `---` line is split into frontmatter and body;
// only this first block is ever treated as frontmatter, so later `---` runs
// stay ordinary body content. The body is segmented into top-level blocks
// using Goldmark's block boundaries.
func Parse(content []byte) (*Tree, error) {
	style := detectStyle(content)

	fmRaw, body, had, err := splitFrontmatter(content, style)
	if err != nil {
		return nil, err
	}

	var nodes []Node
	if had {
		nodes = append(nodes, &FrontmatterNode{raw: append([]byte(nil), fmRaw...)})
	}
	for _, block := range segmentBlocks(body) {
		nodes = append(nodes, block)
	}

	return &Tree{nodes: nodes, style: style}, nil
}

// splitFrontmatter separates `---` delimited YAML frontmatter from the body.
// If the document does not start with a delimiter, had is false and body is
// the full input.
func splitFrontmatter(content []byte, style Style) (fmRaw, body []byte, had bool, err error) {
	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]

	// Empty block: the closing delimiter immediately follows the opening one.
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(rest, closeSeq)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}

	fmEnd := idx + len(nl)
	bodyStart := idx + len(closeSeq)
	return rest[:fmEnd], rest[bodyStart:], true, nil
}

// segmentBlocks splits body bytes into BlockNodes at the start offsets of
// Goldmark's top-level blocks.
//
// Boundaries are best effort: blocks without recorded source lines (thematic
// breaks, some HTML blocks) merge into their neighbor, and fenced code
// interiors begin after the opening fence. The tiling invariant is what
// matters for correctness: the produced blocks always cover the body
// contiguously, so concatenating their raw bytes reproduces it exactly.
func segmentBlocks(body []byte) []*BlockNode {
	if len(body) == 0 {
		return nil
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	cuts := []int{0}
	for child := root.FirstChild(); child != nil; child = child.NextSibling() {
		lines := child.Lines()
		if lines.Len() == 0 {
			continue
		}
		start := lines.At(0).Start
		if start > cuts[len(cuts)-1] && start < len(body) {
			cuts = append(cuts, start)
		}
	}

	blocks := make([]*BlockNode, 0, len(cuts))
	for i, cut := range cuts {
		end := len(body)
		if i+1 < len(cuts) {
			end = cuts[i+1]
		}
		blocks = append(blocks, &BlockNode{raw: append([]byte(nil), body[cut:end]...)})
	}
	return blocks
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i < len(content); i++ {
		if content[i] != '\n' {
			continue
		}
		if i > 0 && content[i-1] == '\r' {
			newline = "\r\n"
		}
		break
	}
	return Style{Newline: newline}
}
