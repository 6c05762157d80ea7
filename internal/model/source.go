// Package model holds the data types shared by the linktypes layers.
package model

import "strings"

// Path represents a file system path.
type Path string

// Lua and Luau source file extensions.
const (
	LuaExt  = ".lua"
	LuauExt = ".luau"
)

// IsModuleFile reports whether path carries a Lua or Luau extension.
func IsModuleFile(path string) bool {
	return strings.HasSuffix(path, LuauExt) || strings.HasSuffix(path, LuaExt)
}

// Anchor keywords a require path may start with.
const (
	AnchorScript = "script"
	AnchorGame   = "game"

	// ParentComponent moves one level up the sourcemap tree.
	ParentComponent = "Parent"
)

// PathComponents is a require path split into its parts. Component zero is
// the anchor keyword, every following entry is either Parent or a child name.
type PathComponents []string

// Anchor returns the first component, or an empty string for an empty path.
func (p PathComponents) Anchor() string {
	if len(p) == 0 {
		return ""
	}

	return p[0]
}

func (p PathComponents) String() string {
	return strings.Join(p, "/")
}
