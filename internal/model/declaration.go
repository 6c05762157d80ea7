package model

// TypeDefault is the default of a generic parameter: its source text as
// written, the type names it mentions, and whether it mentions anything that
// can never be resolved from a link (module-qualified names, typeof).
type TypeDefault struct {
	Text       string
	References []string
	Opaque     bool
}

// GenericParameter is one generic parameter of an exported type.
type GenericParameter struct {
	Name     string
	Variadic bool
	Default  *TypeDefault
}

// ExportedTypeDeclaration is a top-level `export type` alias of a module.
type ExportedTypeDeclaration struct {
	Name     string
	Generics []GenericParameter
	Body     string
}
