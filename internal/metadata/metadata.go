// Package metadata provides a string-keyed, insertion-order-preserving view
// of a YAML frontmatter mapping.
//
// The mapping is backed directly by yaml.v3 nodes rather than a Go map, so a
// parse/encode round trip keeps key order, scalar styles, and comments of
// untouched entries intact.
package metadata

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrParse indicates frontmatter text that is not well-formed YAML.
var ErrParse = errors.New("frontmatter is not valid yaml")

// ErrNotMapping indicates well-formed YAML whose root is not a mapping
// (e.g. a bare scalar or a sequence).
var ErrNotMapping = errors.New("frontmatter root is not a yaml mapping")

// Mapping is a mutable view over a YAML mapping node.
type Mapping struct {
	root *yaml.Node
}

// New returns an empty mapping.
func New() *Mapping {
	return &Mapping{root: &yaml.Node{Kind: yaml.MappingNode}}
}

// Parse parses raw YAML frontmatter (without delimiters) into a Mapping.
//
// Empty input parses to an empty mapping. Malformed YAML returns an error
// wrapping ErrParse; a non-mapping root returns an error wrapping
// ErrNotMapping. Parse never attempts repair.
func Parse(raw []byte) (*Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return New(), nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: found %s", ErrNotMapping, kindName(root.Kind))
	}
	return &Mapping{root: root}, nil
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	return len(m.root.Content) / 2
}

// Keys returns the keys in document order.
func (m *Mapping) Keys() []string {
	c := m.root.Content
	keys := make([]string, 0, len(c)/2)
	for i := 0; i+1 < len(c); i += 2 {
		keys = append(keys, c[i].Value)
	}
	return keys
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.valueNode(key)
	return ok
}

// Value returns the scalar value for key. ok is false when the key is absent
// or its value is not a scalar.
func (m *Mapping) Value(key string) (value string, ok bool) {
	n, ok := m.valueNode(key)
	if !ok || n.Kind != yaml.ScalarNode {
		return "", false
	}
	return n.Value, true
}

// Set assigns a string value to key. An existing entry is overwritten in
// place; a new entry is appended, so the relative order of all other keys is
// preserved exactly.
func (m *Mapping) Set(key, value string) {
	val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}

	c := m.root.Content
	for i := 0; i+1 < len(c); i += 2 {
		if c[i].Kind == yaml.ScalarNode && c[i].Value == key {
			c[i+1] = val
			return
		}
	}
	m.root.Content = append(m.root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		val,
	)
}

// Encode serializes the mapping to YAML bytes (without delimiters) using a
// 2-space indent. The returned bytes use the given newline ("" defaults to
// \n). An empty mapping encodes to an empty slice.
func (m *Mapping) Encode(newline string) ([]byte, error) {
	if m.Len() == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m.root); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if newline != "" && newline != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(newline))
	}
	return out, nil
}

func (m *Mapping) valueNode(key string) (*yaml.Node, bool) {
	c := m.root.Content
	for i := 0; i+1 < len(c); i += 2 {
		if c[i].Kind == yaml.ScalarNode && c[i].Value == key {
			return c[i+1], true
		}
	}
	return nil, false
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
