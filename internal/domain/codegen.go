package domain

import (
	"strings"

	m "linktypes.dev/pkg/linktypes/internal/model"
)

// RequiredModule is the local that holds the required module in a rewritten link.
const RequiredModule = "REQUIRED_MODULE"

// builtinTypeNames are visible from every module without a declaration.
var builtinTypeNames = []string{
	"any", "unknown", "never", "nil", "boolean", "number", "string",
	"thread", "buffer", "userdata", "vector", "true", "false",
}

// ResolvableSet is the set of type names a forwarded default may mention.
type ResolvableSet map[string]struct{}

// Contains reports whether name is resolvable.
func (s ResolvableSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// BuildResolvableSet returns the names visible to the declaration at index
// once forwarded into a link: builtins, the forwarded declarations up to and
// including it, and its own generic parameters.
func BuildResolvableSet(decls []m.ExportedTypeDeclaration, index int) ResolvableSet {
	set := make(ResolvableSet, len(builtinTypeNames)+index+1)

	for _, name := range builtinTypeNames {
		set[name] = struct{}{}
	}

	for i := 0; i <= index && i < len(decls); i++ {
		set[decls[i].Name] = struct{}{}
	}

	if index >= 0 && index < len(decls) {
		for _, g := range decls[index].Generics {
			set[g.Name] = struct{}{}
		}
	}

	return set
}

// Forward turns a module declaration into its link counterpart. Defaults that
// mention names outside resolvable are dropped; the parameters stay.
func Forward(decl m.ExportedTypeDeclaration, resolvable ResolvableSet) m.ExportedTypeDeclaration {
	out := m.ExportedTypeDeclaration{
		Name:     decl.Name,
		Generics: make([]m.GenericParameter, 0, len(decl.Generics)),
	}

	args := make([]string, 0, len(decl.Generics))

	for _, g := range decl.Generics {
		param := m.GenericParameter{Name: g.Name, Variadic: g.Variadic}
		if g.Default != nil && defaultResolvable(g.Default, resolvable) {
			param.Default = g.Default
		}

		out.Generics = append(out.Generics, param)
		args = append(args, renderParamName(g))
	}

	out.Body = RequiredModule + "." + decl.Name
	if len(args) > 0 {
		out.Body += "<" + strings.Join(args, ", ") + ">"
	}

	return out
}

func defaultResolvable(def *m.TypeDefault, resolvable ResolvableSet) bool {
	if def.Opaque {
		return false
	}

	for _, name := range def.References {
		if !resolvable.Contains(name) {
			return false
		}
	}

	return true
}

func renderParamName(g m.GenericParameter) string {
	if g.Variadic {
		return g.Name + "..."
	}

	return g.Name
}

// RenderDeclaration prints a declaration as an `export type` statement.
func RenderDeclaration(decl m.ExportedTypeDeclaration) string {
	var b strings.Builder

	b.WriteString("export type ")
	b.WriteString(decl.Name)

	if len(decl.Generics) > 0 {
		params := make([]string, 0, len(decl.Generics))

		for _, g := range decl.Generics {
			param := renderParamName(g)
			if g.Default != nil {
				param += " = " + g.Default.Text
			}

			params = append(params, param)
		}

		b.WriteString("<" + strings.Join(params, ", ") + ">")
	}

	b.WriteString(" = ")
	b.WriteString(decl.Body)

	return b.String()
}

// ForwardDeclarations forwards every declaration in order and renders each
// as one statement.
func ForwardDeclarations(decls []m.ExportedTypeDeclaration) []string {
	lines := make([]string, 0, len(decls))

	for i, decl := range decls {
		lines = append(lines, RenderDeclaration(Forward(decl, BuildResolvableSet(decls, i))))
	}

	return lines
}
