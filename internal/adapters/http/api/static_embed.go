package api

import (
	"embed"
	"html/template"
)

//go:embed static/dashboard.html
var apiStaticFS embed.FS

// dashboardTemplate is parsed once at startup.
var dashboardTemplate = template.Must(
	template.New("dashboard.html").Funcs(template.FuncMap{
		"glyph": glyph,
	}).ParseFS(apiStaticFS, "static/dashboard.html"),
)
