package registry

import (
	"embed"
)

//go:embed levels/*.txt levels/levels.yaml
var builtinFS embed.FS

// Builtin returns the registry of levels shipped with the game:
// easy, middle and hard.
func Builtin() (*Registry, error) {
	return New(builtinFS, "levels")
}
