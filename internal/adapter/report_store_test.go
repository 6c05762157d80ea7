package adapter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "linktypes.dev/pkg/linktypes/internal/model"
)

type hintedError struct{}

func (hintedError) Error() string { return "no child \"foo\"" }
func (hintedError) Hint() string  { return "reinstall packages" }

func TestYAMLReportStore_SaveAndLoad(t *testing.T) {
	store := NewReportStore()
	path := m.Path(filepath.Join(t.TempDir(), "reports", "last.yaml"))

	report := m.BatchReport{
		Sourcemap: "sourcemap.json",
		Roots:     []m.Path{"Packages"},
		Results: []m.LinkResult{
			{
				Path:         "Packages/Foo.lua",
				Outcome:      m.RewriteOutcome{Kind: m.Changed, Content: []byte("x")},
				Require:      m.PathComponents{"script", "Parent", "_Index"},
				Target:       "/abs/Packages/_Index/foo/init.lua",
				Declarations: 2,
				Written:      true,
			},
			{
				Path:    "Packages/Bar.lua",
				Outcome: m.RewriteOutcome{Kind: m.Failed, Err: fmtWrap(hintedError{})},
			},
			{
				Path:    "Packages/Baz.lua",
				Outcome: m.RewriteOutcome{Kind: m.Unchanged},
			},
		},
	}

	require.NoError(t, store.SaveReport(path, report))

	loaded, err := store.LoadReport(path)
	require.NoError(t, err)

	assert.Equal(t, "sourcemap.json", loaded.Sourcemap)
	assert.Equal(t, []string{"Packages"}, loaded.Roots)
	assert.False(t, loaded.DryRun)
	assert.Equal(t, ReportSummary{Changed: 1, Unchanged: 1, Failed: 1}, loaded.Summary)
	require.Len(t, loaded.Links, 3)

	assert.Equal(t, LinkRecord{
		Path:         "Packages/Foo.lua",
		Outcome:      "changed",
		Require:      "script/Parent/_Index",
		Target:       "/abs/Packages/_Index/foo/init.lua",
		Declarations: 2,
		Written:      true,
	}, loaded.Links[0])

	assert.Equal(t, "failed", loaded.Links[1].Outcome)
	assert.Contains(t, loaded.Links[1].Error, "no child")
	assert.Equal(t, "reinstall packages", loaded.Links[1].Hint)
	assert.Empty(t, loaded.Links[2].Error)
}

func TestYAMLReportStore_LoadErrors(t *testing.T) {
	store := NewReportStore()
	dir := t.TempDir()

	_, err := store.LoadReport(m.Path(filepath.Join(dir, "missing.yaml")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("links: [unterminated"), 0o600))

	_, err = store.LoadReport(m.Path(broken))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode report")
}

func fmtWrap(err error) error {
	return &wrapped{err}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "resolve: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }
