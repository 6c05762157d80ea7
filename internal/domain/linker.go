package domain

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"linktypes.dev/pkg/linktypes/internal/adapter"
	m "linktypes.dev/pkg/linktypes/internal/model"
	"linktypes.dev/pkg/linktypes/pkg/luau"
)

// Linker computes the rewrite of a single link file. It never writes; the
// caller decides what to do with a Changed outcome.
type Linker interface {
	Rewrite(ctx context.Context, tree *m.SourcemapNode, path m.Path) m.LinkResult
}

type linker struct {
	adapter.SourceFSAdapter
	adapter.LuauFileAdapter
	Resolver
}

// NewLinker constructs a Linker backed by the provided adapters and resolver.
func NewLinker(fsAdapter adapter.SourceFSAdapter, luauAdapter adapter.LuauFileAdapter, resolver Resolver) Linker {
	return &linker{
		SourceFSAdapter: fsAdapter,
		LuauFileAdapter: luauAdapter,
		Resolver:        resolver,
	}
}

// linkRun carries the state of one rewrite so transitions are logged in one place.
type linkRun struct {
	result m.LinkResult
	state  m.LinkState
}

func (r *linkRun) transition(next m.LinkState) {
	slog.Debug("Link state changed", "path", r.result.Path, "from", r.state, "to", next)
	r.state = next
}

func (r *linkRun) fail(err error) m.LinkResult {
	r.transition(m.StateFailed)
	slog.Error("Failed to rewrite link", "path", r.result.Path, "error", err)

	r.result.Outcome = m.RewriteOutcome{Kind: m.Failed, Err: err}

	return r.result
}

func (r *linkRun) finish(kind m.OutcomeKind, content []byte) m.LinkResult {
	if kind == m.Changed {
		r.transition(m.StateRewritten)
	} else {
		r.transition(m.StateUnchanged)
	}

	r.result.Outcome = m.RewriteOutcome{Kind: kind, Content: content}

	return r.result
}

// Rewrite parses the link at path, resolves its require against tree and
// synthesizes a link that also forwards the target's exported types.
func (l *linker) Rewrite(ctx context.Context, tree *m.SourcemapNode, path m.Path) m.LinkResult {
	run := &linkRun{result: m.LinkResult{Path: path}, state: m.StateStart}

	if err := ctx.Err(); err != nil {
		return run.fail(err)
	}

	original, err := l.ReadFile(path)
	if err != nil {
		return run.fail(&LinkIOError{Path: path, Op: "read", Err: err})
	}

	run.result.Original = original

	chunk, err := l.Parse(ctx, path, original)
	if err != nil {
		return run.fail(&MalformedLinkError{Path: path, Reason: "link does not parse", Err: err})
	}

	expr, err := linkExpression(chunk)
	if err != nil {
		return run.fail(&MalformedLinkError{Path: path, Reason: err.Error()})
	}

	run.transition(m.StateParsed)

	components, err := MatchRequire(chunk, expr)
	if err != nil {
		return run.fail(err)
	}

	run.result.Require = components

	node, err := l.Resolve(tree, path, components)
	if err != nil {
		return run.fail(err)
	}

	run.transition(m.StateAnchorResolved)

	target, err := l.SelectModuleFile(node)
	if err != nil {
		return run.fail(err)
	}

	run.result.Target = target
	run.transition(m.StateModuleLocated)

	source, err := l.ReadFile(target)
	if err != nil {
		return run.fail(&LinkIOError{Path: target, Op: "read", Err: err})
	}

	module, err := l.Parse(ctx, target, source)
	if err != nil {
		return run.fail(&TypeExtractionError{Path: target, Err: err})
	}

	decls := l.ExtractDeclarations(module)
	run.result.Declarations = len(decls)
	run.transition(m.StateTypesExtracted)

	if len(decls) == 0 {
		return run.finish(m.Unchanged, nil)
	}

	content := synthesizeLink(chunk, expr, ForwardDeclarations(decls), lineEnding(original))
	if bytes.Equal(content, original) {
		return run.finish(m.Unchanged, nil)
	}

	return run.finish(m.Changed, content)
}

type linkShapeError string

func (e linkShapeError) Error() string { return string(e) }

// linkExpression returns the expression a link exports. Two shapes are
// accepted: a lone `return <expr>`, and the rewritten form
// `local REQUIRED_MODULE = <expr>`, type statements, `return REQUIRED_MODULE`.
func linkExpression(chunk *luau.Chunk) (luau.Expr, error) {
	stmts := chunk.Stmts
	if len(stmts) == 0 {
		return nil, linkShapeError("link file is empty")
	}

	ret, ok := stmts[len(stmts)-1].(*luau.ReturnStmt)
	if !ok {
		return nil, linkShapeError("last statement must be a return")
	}

	if len(ret.Values) != 1 {
		return nil, linkShapeError("return must have exactly one value")
	}

	if len(stmts) == 1 {
		return ret.Values[0], nil
	}

	local, ok := stmts[0].(*luau.LocalStmt)
	if !ok || len(local.Names) != 1 || local.Names[0].Text != RequiredModule || len(local.Values) != 1 {
		return nil, linkShapeError("unexpected statement before return")
	}

	for _, stmt := range stmts[1 : len(stmts)-1] {
		if _, ok := stmt.(*luau.TypeStmt); !ok {
			return nil, linkShapeError("only type declarations may follow " + RequiredModule)
		}
	}

	name, ok := ret.Values[0].(*luau.NameExpr)
	if !ok || name.Name.Text != RequiredModule {
		return nil, linkShapeError("link must return " + RequiredModule)
	}

	return local.Values[0], nil
}

// synthesizeLink keeps the header trivia, the require expression and the
// trailing trivia of the original link byte for byte. Generated lines end
// with eol.
func synthesizeLink(chunk *luau.Chunk, expr luau.Expr, decls []string, eol string) []byte {
	var b strings.Builder

	b.WriteString(chunk.Leading(chunk.Stmts[0]))
	b.WriteString("local " + RequiredModule + " = " + chunk.TrimmedText(expr) + eol)

	for _, decl := range decls {
		b.WriteString(decl + eol)
	}

	b.WriteString("return " + RequiredModule)

	tail := chunk.Tail()
	if tail == "" {
		tail = eol
	}

	b.WriteString(tail)

	return []byte(b.String())
}

// lineEnding reports the line terminator used by the first line of src,
// defaulting to "\n".
func lineEnding(src []byte) string {
	i := bytes.IndexByte(src, '\n')
	if i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}

	return "\n"
}
