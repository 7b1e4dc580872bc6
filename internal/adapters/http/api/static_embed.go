package api

import (
	"embed"
	"html/template"
)

//go:embed static/*
var apiStaticFS embed.FS

// pageTemplate renders the main view.
var pageTemplate = template.Must(template.ParseFS(apiStaticFS, "static/view.html"))
