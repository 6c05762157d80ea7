// Package controller provides output adapters for displaying link rewrite results.
package controller

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"linktypes.dev/pkg/linktypes/internal/adapter"
	m "linktypes.dev/pkg/linktypes/internal/model"
)

// UI defines how the workflow reports progress and results.
// Implementations decide how to render them (plain text, styled, paged).
type UI interface {
	DisplayDiscovery(ctx context.Context, roots []m.Path, links int, threads int)
	DisplayLinkResult(ctx context.Context, result m.LinkResult)
	DisplayDiff(ctx context.Context, result m.LinkResult) error
	DisplayLinks(ctx context.Context, results []m.LinkResult)
	DisplaySummary(ctx context.Context, report m.BatchReport)
	DisplayReport(ctx context.Context, report *adapter.Report) error
	DisplayWatchInfo(ctx context.Context, sourcemap m.Path, debounce time.Duration)
	DisplayError(ctx context.Context, err error)
}

// NewUI returns the UI for cmd. Styling and paging are enabled only when
// stdout is a terminal.
func NewUI(cmd *cobra.Command, tty bool) UI {
	return NewSimpleUI(cmd, tty)
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
