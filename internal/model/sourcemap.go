package model

import "strings"

// SourcemapNode is one instance of a Rojo sourcemap tree. After loading, the
// tree is read-only and FilePaths holds canonical absolute paths.
type SourcemapNode struct {
	Name      string           `json:"name"`
	ClassName string           `json:"className"`
	FilePaths []Path           `json:"filePaths,omitempty"`
	Children  []*SourcemapNode `json:"children,omitempty"`
}

// FindChild returns the first child named name, or nil.
func (n *SourcemapNode) FindChild(name string) *SourcemapNode {
	for _, child := range n.Children {
		if child.Name == name {
			return child
		}
	}

	return nil
}

// HasFile reports whether path is one of the node's files.
func (n *SourcemapNode) HasFile(path Path) bool {
	for _, p := range n.FilePaths {
		if p == path {
			return true
		}
	}

	return false
}

// AncestorChain is the root-to-node path through the tree. Chains are built
// per lookup; nodes never point back to their parents.
type AncestorChain []*SourcemapNode

// Tail returns the last node of the chain, or nil for an empty chain.
func (c AncestorChain) Tail() *SourcemapNode {
	if len(c) == 0 {
		return nil
	}

	return c[len(c)-1]
}

// Names lists the instance names along the chain.
func (c AncestorChain) Names() []string {
	names := make([]string, 0, len(c))
	for _, node := range c {
		names = append(names, node.Name)
	}

	return names
}

func (c AncestorChain) String() string {
	return strings.Join(c.Names(), ".")
}

// Clone copies the chain so appends never alias the original.
func (c AncestorChain) Clone() AncestorChain {
	out := make(AncestorChain, len(c))
	copy(out, c)

	return out
}
