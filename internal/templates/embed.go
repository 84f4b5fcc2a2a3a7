// Package templates embeds the demo site pages, the run report layout and
// the site stylesheet.
package templates

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var TemplateFS embed.FS

//go:embed static/*
var StaticFS embed.FS

// Parse parses the named files from templates/ into one template set.
func Parse(names ...string) (*template.Template, error) {
	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = "templates/" + n
	}
	return template.ParseFS(TemplateFS, paths...)
}
