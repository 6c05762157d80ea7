package domain

import (
	"strings"

	m "linktypes.dev/pkg/linktypes/internal/model"
	"linktypes.dev/pkg/linktypes/pkg/luau"
)

const requireFunction = "require"

// MatchRequire extracts the instance path of `require(<path>)`. The path must
// be an identifier followed by `.name` or `["name"]` suffixes only.
func MatchRequire(chunk *luau.Chunk, expr luau.Expr) (m.PathComponents, error) {
	call, ok := expr.(*luau.CallExpr)
	if !ok {
		return nil, unsupportedShape(chunk, expr, "expected a call to require")
	}

	callee, ok := call.Callee.(*luau.NameExpr)
	if !ok || callee.Name.Text != requireFunction || call.Method != nil {
		return nil, unsupportedShape(chunk, expr, "callee is not require")
	}

	if call.Style != luau.ArgsParens {
		return nil, unsupportedShape(chunk, expr, "require must be called with parentheses")
	}

	if len(call.Args) != 1 {
		return nil, unsupportedShape(chunk, expr, "require takes exactly one argument")
	}

	return matchPath(chunk, call.Args[0])
}

func matchPath(chunk *luau.Chunk, expr luau.Expr) (m.PathComponents, error) {
	switch e := expr.(type) {
	case *luau.NameExpr:
		return m.PathComponents{e.Name.Text}, nil
	case *luau.IndexExpr:
		parent, err := matchPath(chunk, e.Object)
		if err != nil {
			return nil, err
		}

		if e.Key == nil {
			return append(parent, e.Field.Text), nil
		}

		key, ok := e.Key.(*luau.StringExpr)
		if !ok || strings.HasPrefix(key.Value.Text, "[") {
			return nil, unsupportedShape(chunk, e.Key, "index must be a quoted string")
		}

		name, err := luau.Unquote(key.Value)
		if err != nil {
			return nil, unsupportedShape(chunk, e.Key, err.Error())
		}

		return append(parent, name), nil
	}

	return nil, unsupportedShape(chunk, expr, "not a static instance path")
}

func unsupportedShape(chunk *luau.Chunk, expr luau.Expr, reason string) error {
	return &UnsupportedRequireShapeError{Expression: chunk.TrimmedText(expr), Reason: reason}
}
