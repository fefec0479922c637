// internal/app/features/session/templates.go
package session

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "session",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
