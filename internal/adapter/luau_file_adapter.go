package adapter

import (
	"context"
	"fmt"

	m "linktypes.dev/pkg/linktypes/internal/model"
	"linktypes.dev/pkg/linktypes/pkg/luau"
)

// LuauFileAdapter encapsulates Luau parsing and declaration extraction so the
// domain layer can reason about links and forwarding without syntax details.
type LuauFileAdapter interface {
	// Parse builds a trivia-preserving syntax tree for the provided source.
	Parse(ctx context.Context, path m.Path, src []byte) (*luau.Chunk, error)

	// ExtractDeclarations returns the top-level exported type aliases of a
	// chunk in source order. Exported type functions are not aliases and are
	// skipped.
	ExtractDeclarations(chunk *luau.Chunk) []m.ExportedTypeDeclaration
}

// LocalLuauFileAdapter provides a LuauFileAdapter backed by pkg/luau.
type LocalLuauFileAdapter struct{}

// NewLocalLuauFileAdapter constructs a LocalLuauFileAdapter.
func NewLocalLuauFileAdapter() *LocalLuauFileAdapter {
	return &LocalLuauFileAdapter{}
}

// Parse parses src, reporting syntax errors with the file path.
func (a *LocalLuauFileAdapter) Parse(ctx context.Context, path m.Path, src []byte) (*luau.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chunk, err := luau.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s:%w", path, err)
	}

	return chunk, nil
}

// ExtractDeclarations collects exported aliases together with the type names
// each generic default mentions.
func (a *LocalLuauFileAdapter) ExtractDeclarations(chunk *luau.Chunk) []m.ExportedTypeDeclaration {
	var decls []m.ExportedTypeDeclaration

	for _, stmt := range chunk.Stmts {
		ts, ok := stmt.(*luau.TypeStmt)
		if !ok || !ts.Exported || ts.Function {
			continue
		}

		decl := m.ExportedTypeDeclaration{
			Name: ts.Name.Text,
			Body: chunk.TrimmedText(ts.Value),
		}

		for _, g := range ts.Generics {
			param := m.GenericParameter{Name: g.Name.Text, Variadic: g.Pack}

			if g.Default != nil {
				param.Default = describeDefault(chunk, g.Default)
			}

			decl.Generics = append(decl.Generics, param)
		}

		decls = append(decls, decl)
	}

	return decls
}

func describeDefault(chunk *luau.Chunk, t luau.Type) *m.TypeDefault {
	def := &m.TypeDefault{Text: chunk.TrimmedText(t)}
	seen := make(map[string]struct{})

	collectReferences(t, map[string]struct{}{}, def, seen)

	return def
}

// collectReferences records every free type name in t. Names bound by the
// generic list of an enclosing function type are not free.
func collectReferences(t luau.Type, bound map[string]struct{}, def *m.TypeDefault, seen map[string]struct{}) {
	add := func(name string) {
		if _, ok := bound[name]; ok {
			return
		}

		if _, ok := seen[name]; ok {
			return
		}

		seen[name] = struct{}{}
		def.References = append(def.References, name)
	}

	luau.WalkType(t, func(n luau.Type) bool {
		switch node := n.(type) {
		case *luau.NamedType:
			if node.Module != nil {
				def.Opaque = true
			} else {
				add(node.Name.Text)
			}
		case *luau.GenericPackType:
			add(node.Name.Text)
		case *luau.TypeofType:
			def.Opaque = true
		case *luau.FunctionType:
			inner := make(map[string]struct{}, len(bound)+len(node.Generics))
			for name := range bound {
				inner[name] = struct{}{}
			}

			for _, g := range node.Generics {
				inner[g.Name.Text] = struct{}{}
			}

			for _, g := range node.Generics {
				if g.Default != nil {
					collectReferences(g.Default, inner, def, seen)
				}
			}

			for _, p := range node.Params {
				collectReferences(p, inner, def, seen)
			}

			collectReferences(node.Returns, inner, def, seen)

			return false
		}

		return true
	})
}
