// Package domain contains the link rewriting workflow: sourcemap resolution,
// require matching, type forwarding and batch processing.
package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"linktypes.dev/pkg/linktypes/internal/adapter"
	"linktypes.dev/pkg/linktypes/internal/controller"
	m "linktypes.dev/pkg/linktypes/internal/model"
)

// indexDir holds the per-package folders of a Wally install.
const indexDir = "_Index"

// defaultLinkPerm is used only when a link file vanished before writing.
const defaultLinkPerm os.FileMode = 0o644

// RunArgs contains the arguments shared by run, check and list.
type RunArgs struct {
	Sourcemap m.Path
	BaseDir   m.Path
	Roots     []m.Path
	Exclude   []string
	Threads   int
	DryRun    bool
	Report    m.Path
}

// ViewArgs contains the arguments for viewing a saved report.
type ViewArgs struct {
	Report m.Path
}

// Workflow drives batches of link rewrites.
type Workflow interface {
	// Run rewrites every link under the roots, writing Changed links unless
	// DryRun is set. It returns ErrBatchFailed when any link failed.
	Run(ctx context.Context, args RunArgs) error
	// Check computes all rewrites without writing and prints their diffs.
	// It returns ErrPendingChanges when any link would change.
	Check(ctx context.Context, args RunArgs) error
	// List prints every link with the module it resolves to.
	List(ctx context.Context, args RunArgs) error
	// View prints a report saved by an earlier run.
	View(ctx context.Context, args ViewArgs) error
	// Watch runs once, then again whenever the sourcemap changes.
	Watch(ctx context.Context, args WatchArgs) error
}

type workflow struct {
	adapter.SourceFSAdapter
	adapter.SourcemapStore
	adapter.ReportStore
	controller.UI
	Resolver
	Linker
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	sourcemapStore adapter.SourcemapStore,
	reportStore adapter.ReportStore,
	ui controller.UI,
	resolver Resolver,
	linker Linker,
) Workflow {
	return &workflow{
		SourceFSAdapter: fsAdapter,
		SourcemapStore:  sourcemapStore,
		ReportStore:     reportStore,
		UI:              ui,
		Resolver:        resolver,
		Linker:          linker,
	}
}

func (w *workflow) Run(ctx context.Context, args RunArgs) error {
	report, err := w.process(ctx, args, !args.DryRun)
	if err != nil {
		return err
	}

	for _, result := range report.Results {
		w.DisplayLinkResult(ctx, result)
	}

	w.DisplaySummary(ctx, report)

	if err := w.saveReport(args, report); err != nil {
		return err
	}

	if !report.Succeeded() {
		return ErrBatchFailed
	}

	return nil
}

func (w *workflow) Check(ctx context.Context, args RunArgs) error {
	args.DryRun = true

	report, err := w.process(ctx, args, false)
	if err != nil {
		return err
	}

	for _, result := range report.Results {
		w.DisplayLinkResult(ctx, result)

		if err := w.DisplayDiff(ctx, result); err != nil {
			return err
		}
	}

	w.DisplaySummary(ctx, report)

	if err := w.saveReport(args, report); err != nil {
		return err
	}

	var errs []error
	if !report.Succeeded() {
		errs = append(errs, ErrBatchFailed)
	}

	if report.Changed() > 0 {
		errs = append(errs, ErrPendingChanges)
	}

	return errors.Join(errs...)
}

func (w *workflow) List(ctx context.Context, args RunArgs) error {
	args.DryRun = true

	report, err := w.process(ctx, args, false)
	if err != nil {
		return err
	}

	w.DisplayLinks(ctx, report.Results)

	if !report.Succeeded() {
		return ErrBatchFailed
	}

	return nil
}

func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	report, err := w.LoadReport(args.Report)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	return w.DisplayReport(ctx, report)
}

func (w *workflow) saveReport(args RunArgs, report m.BatchReport) error {
	if args.Report == "" {
		return nil
	}

	if err := w.SaveReport(args.Report, report); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	slog.Info("Saved report", "path", args.Report)

	return nil
}

// process loads the sourcemap, discovers links and rewrites them. Only a
// broken sourcemap or unusable roots abort the batch; link failures are
// recorded in the report.
func (w *workflow) process(ctx context.Context, args RunArgs, write bool) (m.BatchReport, error) {
	report := m.BatchReport{Sourcemap: args.Sourcemap, DryRun: args.DryRun}

	tree, err := w.loadTree(ctx, args.Sourcemap, args.BaseDir)
	if err != nil {
		return report, err
	}

	roots, err := w.existingRoots(args.Roots)
	if err != nil {
		return report, err
	}

	report.Roots = roots

	links, err := w.discoverLinks(roots, args.Exclude)
	if err != nil {
		return report, err
	}

	threads := args.Threads
	if threads < 1 {
		threads = 1
	}

	w.DisplayDiscovery(ctx, roots, len(links), threads)

	results, err := w.processAll(ctx, tree, links, threads, write)
	if err != nil {
		return report, err
	}

	report.Results = results

	slog.Info("Processed link files",
		"changed", report.Changed(),
		"unchanged", report.Unchanged(),
		"failed", report.Failed(),
		"dryRun", args.DryRun)

	return report, nil
}

func (w *workflow) loadTree(ctx context.Context, path, baseDir m.Path) (*m.SourcemapNode, error) {
	tree, err := w.Load(path)
	if err != nil {
		slog.Error("Failed to load sourcemap", "path", path, "error", err)
		return nil, &SourcemapLoadError{Path: path, Err: err}
	}

	if err := w.Canonicalize(ctx, tree, baseDir); err != nil {
		return nil, err
	}

	slog.Debug("Loaded sourcemap", "path", path, "root", tree.Name)

	return tree, nil
}

// existingRoots drops roots that do not exist. At least one must remain.
func (w *workflow) existingRoots(roots []m.Path) ([]m.Path, error) {
	var existing []m.Path

	for _, root := range roots {
		info, err := w.FileInfo(root)
		if err != nil {
			slog.Warn("Skipping missing package root", "root", root, "error", err)
			continue
		}

		if !info.IsDir() {
			return nil, fmt.Errorf("package root %s is not a directory", root)
		}

		existing = append(existing, root)
	}

	if len(existing) == 0 {
		return nil, fmt.Errorf("none of the package roots exist: %v", roots)
	}

	return existing, nil
}

// discoverLinks lists the link files of every root: module files directly in
// the root and directly inside each _Index/<package> folder. The result is
// sorted and free of duplicates.
func (w *workflow) discoverLinks(roots []m.Path, exclude []string) ([]m.Path, error) {
	patterns, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	seen := make(map[m.Path]struct{})

	var links []m.Path

	for _, root := range roots {
		err := w.Walk(root, true, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			rel, err := w.RelPath(root, m.Path(path))
			if err != nil {
				return err
			}

			parts := strings.Split(filepath.ToSlash(string(rel)), "/")

			if info.IsDir() {
				if rel == "." || (parts[0] == indexDir && len(parts) <= 2) {
					return nil
				}

				return filepath.SkipDir
			}

			if !m.IsModuleFile(path) {
				return nil
			}

			if len(parts) != 1 && (len(parts) != 3 || parts[0] != indexDir) {
				return nil
			}

			link := m.Path(path)
			if excluded(path, patterns) {
				slog.Debug("Excluded link file", "path", path)
				return nil
			}

			if _, ok := seen[link]; !ok {
				seen[link] = struct{}{}
				links = append(links, link)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan package root %s: %w", root, err)
		}
	}

	sort.Slice(links, func(i, j int) bool {
		return links[i] < links[j]
	})

	return links, nil
}

func compileExcludes(exclude []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exclude))

	for _, expr := range exclude {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", expr, err)
		}

		patterns = append(patterns, re)
	}

	return patterns, nil
}

func excluded(path string, patterns []*regexp.Regexp) bool {
	slashed := filepath.ToSlash(path)

	for _, re := range patterns {
		if re.MatchString(slashed) {
			return true
		}
	}

	return false
}

// processAll rewrites links with at most threads workers. Results keep the
// order of links. Once ctx is done the remaining links fail with its error.
func (w *workflow) processAll(ctx context.Context, tree *m.SourcemapNode, links []m.Path, threads int, write bool) ([]m.LinkResult, error) {
	results := make([]m.LinkResult, len(links))

	var group errgroup.Group

	group.SetLimit(threads)

	for i, link := range links {
		group.Go(func() error {
			results[i] = w.processLink(ctx, tree, link, write)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (w *workflow) processLink(ctx context.Context, tree *m.SourcemapNode, link m.Path, write bool) m.LinkResult {
	if err := ctx.Err(); err != nil {
		return m.LinkResult{Path: link, Outcome: m.RewriteOutcome{Kind: m.Failed, Err: err}}
	}

	canonical, err := w.CanonicalPath("", link)
	if err != nil {
		return m.LinkResult{
			Path:    link,
			Outcome: m.RewriteOutcome{Kind: m.Failed, Err: &LinkIOError{Path: link, Op: "resolve", Err: err}},
		}
	}

	result := w.Rewrite(ctx, tree, canonical)
	result.Path = link

	if result.Outcome.Kind != m.Changed || !write {
		return result
	}

	if err := w.WriteFile(link, result.Outcome.Content, defaultLinkPerm); err != nil {
		slog.Error("Failed to write link", "path", link, "error", err)
		result.Outcome = m.RewriteOutcome{Kind: m.Failed, Err: &LinkIOError{Path: link, Op: "write", Err: err}}

		return result
	}

	result.Written = true
	slog.Info("Rewrote link", "path", link, "target", result.Target, "declarations", result.Declarations)

	return result
}
