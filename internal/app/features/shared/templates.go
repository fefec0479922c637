// internal/app/features/shared/templates.go
package shared

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

// Layout and partials used by every page.
//
//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "shared",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
