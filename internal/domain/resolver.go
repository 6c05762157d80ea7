package domain

import (
	"context"
	"log/slog"

	"linktypes.dev/pkg/linktypes/internal/adapter"
	m "linktypes.dev/pkg/linktypes/internal/model"
)

// Resolver answers questions about a loaded sourcemap tree: who owns a file,
// where a require path leads and which file backs a module instance.
type Resolver interface {
	Canonicalize(ctx context.Context, tree *m.SourcemapNode, baseDir m.Path) error
	LocateOwner(tree *m.SourcemapNode, path m.Path) (m.AncestorChain, error)
	Resolve(tree *m.SourcemapNode, requestingFile m.Path, components m.PathComponents) (*m.SourcemapNode, error)
	SelectModuleFile(node *m.SourcemapNode) (m.Path, error)
}

type resolver struct {
	adapter.SourceFSAdapter
}

// NewResolver constructs a Resolver backed by the provided filesystem adapter.
func NewResolver(fsAdapter adapter.SourceFSAdapter) Resolver {
	return &resolver{
		SourceFSAdapter: fsAdapter,
	}
}

// Canonicalize rewrites every file path of the tree to its canonical
// absolute form. Relative paths are taken relative to baseDir, or to the
// working directory when baseDir is empty. The first path that cannot be
// resolved aborts the walk.
func (r *resolver) Canonicalize(ctx context.Context, tree *m.SourcemapNode, baseDir m.Path) error {
	if tree == nil {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	for i, path := range tree.FilePaths {
		canonical, err := r.CanonicalPath(baseDir, path)
		if err != nil {
			slog.Error("Failed to canonicalize sourcemap path", "path", path, "node", tree.Name, "error", err)
			return &PathCanonicalizationError{Path: path, Node: tree.Name, Err: err}
		}

		tree.FilePaths[i] = canonical
	}

	for _, child := range tree.Children {
		if err := r.Canonicalize(ctx, child, baseDir); err != nil {
			return err
		}
	}

	return nil
}

// LocateOwner returns the root-to-node chain of the first node, in depth-first
// child order, whose files include path.
func (r *resolver) LocateOwner(tree *m.SourcemapNode, path m.Path) (m.AncestorChain, error) {
	if tree != nil {
		if chain := locate(m.AncestorChain{tree}, path); chain != nil {
			return chain, nil
		}
	}

	return nil, &OwnerNotFoundError{Path: path}
}

func locate(chain m.AncestorChain, path m.Path) m.AncestorChain {
	node := chain.Tail()
	if node.HasFile(path) {
		return chain
	}

	for _, child := range node.Children {
		if found := locate(append(chain.Clone(), child), path); found != nil {
			return found
		}
	}

	return nil
}

// Resolve walks components from their anchor and returns the node they name.
func (r *resolver) Resolve(tree *m.SourcemapNode, requestingFile m.Path, components m.PathComponents) (*m.SourcemapNode, error) {
	var chain m.AncestorChain

	switch anchor := components.Anchor(); anchor {
	case m.AnchorScript:
		owner, err := r.LocateOwner(tree, requestingFile)
		if err != nil {
			return nil, err
		}

		chain = owner
	case m.AnchorGame:
		chain = m.AncestorChain{tree}
	default:
		return nil, &UnsupportedAnchorError{Anchor: anchor}
	}

	for i, component := range components[1:] {
		if component == m.ParentComponent {
			if len(chain) <= 1 {
				return nil, &BrokenPathError{Components: components, Index: i + 1}
			}

			chain = chain[:len(chain)-1]

			continue
		}

		child := chain.Tail().FindChild(component)
		if child == nil {
			return nil, &UnresolvedChildError{Child: component, Chain: chain.String()}
		}

		chain = append(chain.Clone(), child)
	}

	slog.Debug("Resolved require path", "from", requestingFile, "path", components.String(), "chain", chain.String())

	return chain.Tail(), nil
}

// SelectModuleFile returns the first .lua or .luau file of node.
func (r *resolver) SelectModuleFile(node *m.SourcemapNode) (m.Path, error) {
	for _, path := range node.FilePaths {
		if m.IsModuleFile(string(path)) {
			return path, nil
		}
	}

	return "", &NoModuleFileError{Node: node.Name, FilePaths: node.FilePaths}
}
