package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "linktypes.dev/pkg/linktypes/internal/model"
)

const sampleSourcemap = `{
  "name": "Game",
  "className": "DataModel",
  "children": [
    {
      "name": "ReplicatedStorage",
      "className": "ReplicatedStorage",
      "children": [
        {
          "name": "Packages",
          "className": "Folder",
          "filePaths": ["Packages"],
          "children": [
            {"name": "Foo", "className": "ModuleScript", "filePaths": ["Packages/Foo.lua"]}
          ]
        }
      ]
    }
  ]
}`

func TestLocalSourcemapStore_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sourcemap.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleSourcemap), 0o600))

	tree, err := NewLocalSourcemapStore().Load(m.Path(path))
	require.NoError(t, err)

	assert.Equal(t, "Game", tree.Name)
	assert.Equal(t, "DataModel", tree.ClassName)

	packages := tree.FindChild("ReplicatedStorage").FindChild("Packages")
	require.NotNil(t, packages)
	assert.Equal(t, []m.Path{"Packages"}, packages.FilePaths)

	foo := packages.FindChild("Foo")
	require.NotNil(t, foo)
	assert.Equal(t, []m.Path{"Packages/Foo.lua"}, foo.FilePaths)
	assert.Empty(t, foo.Children)
}

func TestLocalSourcemapStore_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		wantErr string
	}{
		{name: "missing file", content: nil, wantErr: "no such file"},
		{name: "invalid json", content: ptr(`{"name": `), wantErr: "decode sourcemap"},
		{name: "empty document", content: ptr(`{}`), wantErr: "no root instance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sourcemap.json")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o600))
			}

			_, err := NewLocalSourcemapStore().Load(m.Path(path))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func ptr(s string) *string {
	return &s
}
