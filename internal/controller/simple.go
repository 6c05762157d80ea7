package controller

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"linktypes.dev/pkg/linktypes/internal/adapter"
	m "linktypes.dev/pkg/linktypes/internal/model"
)

// batchFailedHint is shown whenever a run ends with failed links.
const batchFailedHint = "regenerate link files upstream (`wally install`) and the sourcemap, then run again"

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd   *cobra.Command
	color bool
}

// NewSimpleUI creates a new SimpleUI. With color set, statuses and hints are
// styled and long reports are paged.
func NewSimpleUI(cmd *cobra.Command, color bool) *SimpleUI {
	return &SimpleUI{cmd: cmd, color: color}
}

// DisplayDiscovery shows how many links were found and how they are processed.
func (s *SimpleUI) DisplayDiscovery(ctx context.Context, roots []m.Path, links int, threads int) {
	if err := ctx.Err(); err != nil {
		return
	}

	names := make([]string, 0, len(roots))
	for _, root := range roots {
		names = append(names, string(root))
	}

	s.printf("Processing %d link file(s) in %s with %d worker(s)\n", links, strings.Join(names, ", "), threads)
}

// DisplayLinkResult prints one line per processed link.
func (s *SimpleUI) DisplayLinkResult(ctx context.Context, result m.LinkResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	status := renderStatus(result.Outcome.Kind, s.color)

	switch result.Outcome.Kind {
	case m.Failed:
		s.printf("%s %s: %v\n", status, result.Path, result.Outcome.Err)
	case m.Changed:
		s.printf("%s %s (%d type(s) forwarded)\n", status, result.Path, result.Declarations)
	default:
		s.printf("%s %s\n", status, result.Path)
	}
}

// DisplayDiff prints a unified diff between a link and its pending rewrite.
func (s *SimpleUI) DisplayDiff(ctx context.Context, result m.LinkResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if result.Outcome.Kind != m.Changed {
		return nil
	}

	diff, err := renderDiff(result)
	if err != nil {
		return fmt.Errorf("render diff for %s: %w", result.Path, err)
	}

	s.printf("%s\n", diff)

	return nil
}

func renderDiff(result m.LinkResult) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(result.Original)),
		B:        difflib.SplitLines(string(result.Outcome.Content)),
		FromFile: string(result.Path),
		ToFile:   string(result.Path) + " (rewritten)",
		Context:  3,
	})
}

// DisplayLinks prints a table of links and what they resolve to.
func (s *SimpleUI) DisplayLinks(ctx context.Context, results []m.LinkResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s", renderLinksTable(results))
}

func renderLinksTable(results []m.LinkResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Link", "Require", "Target", "Types", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT,
	})

	for _, result := range results {
		table.Append([]string{
			string(result.Path),
			result.Require.String(),
			displayPath(result.Target),
			fmt.Sprintf("%d", result.Declarations),
			result.Outcome.Kind.String(),
		})
	}

	table.SetFooter([]string{fmt.Sprintf("Total Links %d", len(results)), "", "", "", ""})
	table.Render()

	return tableBuffer.String()
}

// displayPath shortens absolute paths below the working directory.
func displayPath(path m.Path) string {
	if path == "" {
		return "-"
	}

	wd, err := os.Getwd()
	if err != nil {
		return string(path)
	}

	rel, err := filepath.Rel(wd, string(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return string(path)
	}

	return rel
}

// DisplaySummary prints the outcome counts and, on failure, remediation hints.
func (s *SimpleUI) DisplaySummary(ctx context.Context, report m.BatchReport) {
	if err := ctx.Err(); err != nil {
		return
	}

	mode := "Summary"
	if report.DryRun {
		mode = "Summary (dry run)"
	}

	s.printf("\n%s\n%s", renderTitle(mode, s.color), renderSummaryTable(report.Changed(), report.Unchanged(), report.Failed()))

	for _, hint := range collectHints(report) {
		s.printf("%s\n", renderHint(hint, s.color))
	}
}

func renderSummaryTable(changed, unchanged, failed int) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Changed", "Unchanged", "Failed", "Total"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER,
	})
	table.Append([]string{
		fmt.Sprintf("%d", changed),
		fmt.Sprintf("%d", unchanged),
		fmt.Sprintf("%d", failed),
		fmt.Sprintf("%d", changed+unchanged+failed),
	})
	table.Render()

	return tableBuffer.String()
}

// collectHints returns the distinct hints of failed links, in order, followed
// by the general advice for failed runs.
func collectHints(report m.BatchReport) []string {
	if report.Succeeded() {
		return nil
	}

	var hints []string

	seen := make(map[string]struct{})

	for _, result := range report.Results {
		hint := m.HintFor(result.Outcome.Err)
		if hint == "" {
			continue
		}

		if _, ok := seen[hint]; ok {
			continue
		}

		seen[hint] = struct{}{}
		hints = append(hints, hint)
	}

	return append(hints, batchFailedHint)
}

// DisplayReport prints a saved report, paging it when it does not fit the terminal.
func (s *SimpleUI) DisplayReport(ctx context.Context, report *adapter.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content := renderReport(report)

	if s.color {
		if paged, err := pageIfNeeded(s.cmd.OutOrStdout(), "Link report", content); paged || err != nil {
			return err
		}
	}

	s.printf("%s", content)

	return nil
}

func renderReport(report *adapter.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Sourcemap: %s\n", report.Sourcemap)
	fmt.Fprintf(&b, "Roots: %s\n", strings.Join(report.Roots, ", "))

	if report.DryRun {
		b.WriteString("Mode: dry run\n")
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Link", "Outcome", "Types", "Error"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, link := range report.Links {
		table.Append([]string{link.Path, link.Outcome, fmt.Sprintf("%d", link.Declarations), link.Error})
	}

	table.Render()

	b.WriteString("\n")
	b.WriteString(tableBuffer.String())
	b.WriteString(renderSummaryTable(report.Summary.Changed, report.Summary.Unchanged, report.Summary.Failed))

	return b.String()
}

// DisplayWatchInfo announces watch mode.
func (s *SimpleUI) DisplayWatchInfo(ctx context.Context, sourcemap m.Path, debounce time.Duration) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Watching %s for changes (debounce %s). Press Ctrl+C to stop.\n", sourcemap, debounce)
}

// DisplayError prints an error that ended a run, with its hint when it has one.
func (s *SimpleUI) DisplayError(ctx context.Context, err error) {
	if ctxErr := ctx.Err(); ctxErr != nil || err == nil {
		return
	}

	s.printf("error: %v\n", err)

	if hint := m.HintFor(err); hint != "" {
		s.printf("%s\n", renderHint(hint, s.color))
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
