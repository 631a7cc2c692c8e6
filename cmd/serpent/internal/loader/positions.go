package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/samedit66/eiffel-compiler/pkg/ast"
)

// positions resolves the source location of entries in a class file.
// The strict decode works on JSON-converted data and loses positions, so the
// same bytes are parsed again into a yaml.Node tree and walked side by side
// with the decoded document.
type positions struct {
	file    string
	classes *yaml.Node
}

func parsePositions(file string, data []byte) (*positions, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}

	p := &positions{file: file}
	// The actual document is the first content node
	if len(node.Content) > 0 {
		_, p.classes = lookup(node.Content[0], "classes")
	}
	return p, nil
}

// lookup returns the key and value nodes of key in the mapping n.
func lookup(n *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
			return k, n.Content[i+1]
		}
	}
	return nil, nil
}

// field returns the value node of key in the mapping n.
func field(n *yaml.Node, key string) *yaml.Node {
	_, v := lookup(n, key)
	return v
}

// item returns the i-th entry of the sequence n.
func item(n *yaml.Node, i int) *yaml.Node {
	if n == nil || n.Kind != yaml.SequenceNode || i >= len(n.Content) {
		return nil
	}
	return n.Content[i]
}

// at returns the location of the entry n, pointing at its name key when it
// has one.
func (p *positions) at(n *yaml.Node) *ast.Location {
	if n == nil {
		return &ast.Location{File: p.file}
	}
	if key, _ := lookup(n, "name"); key != nil {
		n = key
	}
	return ast.At(p.file, n.Line, n.Column)
}
