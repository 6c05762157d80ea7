package domain

import (
	"errors"
	"fmt"
	"strings"

	m "linktypes.dev/pkg/linktypes/internal/model"
)

var (
	// ErrBatchFailed is returned by a run in which at least one link failed.
	ErrBatchFailed = errors.New("one or more link files could not be processed")
	// ErrPendingChanges is returned by a check that found links to rewrite.
	ErrPendingChanges = errors.New("link files are out of date")
)

// Every typed error carries a remediation hint.
var (
	_ m.Hinter = (*SourcemapLoadError)(nil)
	_ m.Hinter = (*PathCanonicalizationError)(nil)
	_ m.Hinter = (*MalformedLinkError)(nil)
	_ m.Hinter = (*UnsupportedRequireShapeError)(nil)
	_ m.Hinter = (*UnsupportedAnchorError)(nil)
	_ m.Hinter = (*BrokenPathError)(nil)
	_ m.Hinter = (*UnresolvedChildError)(nil)
	_ m.Hinter = (*OwnerNotFoundError)(nil)
	_ m.Hinter = (*NoModuleFileError)(nil)
	_ m.Hinter = (*TypeExtractionError)(nil)
	_ m.Hinter = (*LinkIOError)(nil)
)

// SourcemapLoadError means the sourcemap could not be read or decoded.
type SourcemapLoadError struct {
	Path m.Path
	Err  error
}

func (e *SourcemapLoadError) Error() string {
	return fmt.Sprintf("load sourcemap %s: %v", e.Path, e.Err)
}

func (e *SourcemapLoadError) Unwrap() error { return e.Err }

// Hint implements model.Hinter.
func (e *SourcemapLoadError) Hint() string {
	return "generate it with `rojo sourcemap --output sourcemap.json` or point --sourcemap at it"
}

// PathCanonicalizationError means a file listed in the sourcemap does not exist.
type PathCanonicalizationError struct {
	Path m.Path
	Node string
	Err  error
}

func (e *PathCanonicalizationError) Error() string {
	return fmt.Sprintf("canonicalize %s (instance %s): %v", e.Path, e.Node, e.Err)
}

func (e *PathCanonicalizationError) Unwrap() error { return e.Err }

// Hint implements model.Hinter.
func (e *PathCanonicalizationError) Hint() string {
	return "the sourcemap is stale; regenerate it after installing packages"
}

// MalformedLinkError means a link file does not have a recognized shape.
type MalformedLinkError struct {
	Path   m.Path
	Reason string
	Err    error
}

func (e *MalformedLinkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed link %s: %s: %v", e.Path, e.Reason, e.Err)
	}

	return fmt.Sprintf("malformed link %s: %s", e.Path, e.Reason)
}

func (e *MalformedLinkError) Unwrap() error { return e.Err }

// Hint implements model.Hinter.
func (e *MalformedLinkError) Hint() string {
	return "regenerate link files upstream with `wally install`"
}

// UnsupportedRequireShapeError means the returned expression is not a plain
// require of a static instance path.
type UnsupportedRequireShapeError struct {
	Expression string
	Reason     string
}

func (e *UnsupportedRequireShapeError) Error() string {
	return fmt.Sprintf("unsupported require expression %q: %s", e.Expression, e.Reason)
}

// Hint implements model.Hinter.
func (e *UnsupportedRequireShapeError) Hint() string {
	return "links must return require(<instance path>) with a static path"
}

// UnsupportedAnchorError means the require path starts with something other
// than script or game.
type UnsupportedAnchorError struct {
	Anchor string
}

func (e *UnsupportedAnchorError) Error() string {
	return fmt.Sprintf("unsupported require anchor %q", e.Anchor)
}

// Hint implements model.Hinter.
func (e *UnsupportedAnchorError) Hint() string {
	return "require paths must start with script or game"
}

// BrokenPathError means a Parent step went above the root of the tree.
type BrokenPathError struct {
	Components m.PathComponents
	Index      int
}

func (e *BrokenPathError) Error() string {
	return fmt.Sprintf("require path %s walks above the root at component %d", e.Components, e.Index)
}

// Hint implements model.Hinter.
func (e *BrokenPathError) Hint() string {
	return "the link points outside the project; regenerate link files upstream"
}

// UnresolvedChildError means a named child does not exist under the chain.
type UnresolvedChildError struct {
	Child string
	Chain string
}

func (e *UnresolvedChildError) Error() string {
	return fmt.Sprintf("no child %q under %s", e.Child, e.Chain)
}

// Hint implements model.Hinter.
func (e *UnresolvedChildError) Hint() string {
	return "the package is missing from the sourcemap; reinstall packages and regenerate the sourcemap"
}

// OwnerNotFoundError means no sourcemap node lists the requesting file.
type OwnerNotFoundError struct {
	Path m.Path
}

func (e *OwnerNotFoundError) Error() string {
	return fmt.Sprintf("no sourcemap instance owns %s", e.Path)
}

// Hint implements model.Hinter.
func (e *OwnerNotFoundError) Hint() string {
	return "the sourcemap does not cover this file; regenerate it with `rojo sourcemap`"
}

// NoModuleFileError means the target node has no .lua or .luau file.
type NoModuleFileError struct {
	Node      string
	FilePaths []m.Path
}

func (e *NoModuleFileError) Error() string {
	paths := make([]string, 0, len(e.FilePaths))
	for _, p := range e.FilePaths {
		paths = append(paths, string(p))
	}

	return fmt.Sprintf("instance %s has no module file (files: [%s])", e.Node, strings.Join(paths, ", "))
}

// Hint implements model.Hinter.
func (e *NoModuleFileError) Hint() string {
	return "the link targets an instance without Luau source"
}

// TypeExtractionError means the target module could not be parsed.
type TypeExtractionError struct {
	Path m.Path
	Err  error
}

func (e *TypeExtractionError) Error() string {
	return fmt.Sprintf("extract types from %s: %v", e.Path, e.Err)
}

func (e *TypeExtractionError) Unwrap() error { return e.Err }

// Hint implements model.Hinter.
func (e *TypeExtractionError) Hint() string {
	return "the package module does not parse as Luau; check the installed package version"
}

// LinkIOError means a link or module file could not be read or written.
type LinkIOError struct {
	Path m.Path
	Op   string
	Err  error
}

func (e *LinkIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LinkIOError) Unwrap() error { return e.Err }

// Hint implements model.Hinter.
func (e *LinkIOError) Hint() string {
	return "check file permissions in the package directory"
}
