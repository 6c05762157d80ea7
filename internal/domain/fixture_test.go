package domain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	m "linktypes.dev/pkg/linktypes/internal/model"
)

const (
	fooLinkSource = `return require(script.Parent._Index["acme_foo@1.0.0"]["foo"])` + "\n"
	bazLinkSource = "return require(script.Parent._Index[\"acme_baz@0.1.0\"].baz)\n"
	barLinkSource = "return require(script.Parent.Parent[\"acme_bar@2.0.0\"][\"bar\"])\n"

	fooModuleSource = `--!strict
type Internal = { id: number }

export type Action = { kind: string }
export type Value<T, S = Action> = { value: T, state: S }
export type Handler<T = Internal> = (T) -> ()

local Foo = {}

return Foo
`

	barModuleSource = "export type Bar = number\n\nreturn {}\n"
	bazModuleSource = "local Baz = {}\n\nfunction Baz.hello()\n\treturn \"hi\"\nend\n\nreturn Baz\n"

	fooLinkRewritten = `local REQUIRED_MODULE = require(script.Parent._Index["acme_foo@1.0.0"]["foo"])
export type Action = REQUIRED_MODULE.Action
export type Value<T, S = Action> = REQUIRED_MODULE.Value<T, S>
export type Handler<T> = REQUIRED_MODULE.Handler<T>
return REQUIRED_MODULE
`

	barLinkRewritten = `local REQUIRED_MODULE = require(script.Parent.Parent["acme_bar@2.0.0"]["bar"])
export type Bar = REQUIRED_MODULE.Bar
return REQUIRED_MODULE
`
)

// project is a Wally install on disk together with the Rojo sourcemap that
// describes it.
type project struct {
	dir       string
	sourcemap m.Path
	tree      *m.SourcemapNode
}

func (p *project) path(rel string) string {
	return filepath.Join(p.dir, filepath.FromSlash(rel))
}

func (p *project) write(t *testing.T, rel, content string) {
	t.Helper()

	path := p.path(rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (p *project) read(t *testing.T, rel string) string {
	t.Helper()

	data, err := os.ReadFile(p.path(rel))
	require.NoError(t, err)

	return string(data)
}

// peek reads a file without failing the test; it is safe to call from
// polling conditions.
func (p *project) peek(rel string) string {
	data, err := os.ReadFile(p.path(rel))
	if err != nil {
		return ""
	}

	return string(data)
}

func (p *project) writeSourcemap(t *testing.T) {
	t.Helper()

	data, err := json.MarshalIndent(p.tree, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(string(p.sourcemap), data, 0o644))
}

func moduleNode(name string, files ...string) *m.SourcemapNode {
	node := &m.SourcemapNode{Name: name, ClassName: "ModuleScript"}
	for _, f := range files {
		node.FilePaths = append(node.FilePaths, m.Path(f))
	}

	return node
}

func folderNode(name string, children ...*m.SourcemapNode) *m.SourcemapNode {
	return &m.SourcemapNode{Name: name, ClassName: "Folder", Children: children}
}

// newProject lays out:
//
//	Packages/Foo.lua                            link to acme_foo's foo
//	Packages/Baz.lua                            link to acme_baz's baz (no types)
//	Packages/_Index/acme_foo@1.0.0/bar.lua      link to acme_bar's bar
//	Packages/_Index/acme_foo@1.0.0/foo/init.lua
//	Packages/_Index/acme_bar@2.0.0/bar/init.lua
//	Packages/_Index/acme_baz@0.1.0/baz/init.lua
//
// The sourcemap uses paths relative to the project directory.
func newProject(t *testing.T) *project {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	p := &project{dir: dir, sourcemap: m.Path(filepath.Join(dir, "sourcemap.json"))}

	p.write(t, "Packages/Foo.lua", fooLinkSource)
	p.write(t, "Packages/Baz.lua", bazLinkSource)
	p.write(t, "Packages/_Index/acme_foo@1.0.0/bar.lua", barLinkSource)
	p.write(t, "Packages/_Index/acme_foo@1.0.0/foo/init.lua", fooModuleSource)
	p.write(t, "Packages/_Index/acme_bar@2.0.0/bar/init.lua", barModuleSource)
	p.write(t, "Packages/_Index/acme_baz@0.1.0/baz/init.lua", bazModuleSource)

	p.tree = &m.SourcemapNode{
		Name:      "Game",
		ClassName: "DataModel",
		Children: []*m.SourcemapNode{
			{
				Name:      "ReplicatedStorage",
				ClassName: "ReplicatedStorage",
				Children: []*m.SourcemapNode{
					folderNode("Packages",
						moduleNode("Foo", "Packages/Foo.lua"),
						moduleNode("Baz", "Packages/Baz.lua"),
						folderNode("_Index",
							folderNode("acme_foo@1.0.0",
								moduleNode("bar", "Packages/_Index/acme_foo@1.0.0/bar.lua"),
								moduleNode("foo", "Packages/_Index/acme_foo@1.0.0/foo/init.lua"),
							),
							folderNode("acme_bar@2.0.0",
								moduleNode("bar", "Packages/_Index/acme_bar@2.0.0/bar/init.lua"),
							),
							folderNode("acme_baz@0.1.0",
								moduleNode("baz", "Packages/_Index/acme_baz@0.1.0/baz/init.lua"),
							),
						),
					),
				},
			},
		},
	}

	p.writeSourcemap(t)

	return p
}
