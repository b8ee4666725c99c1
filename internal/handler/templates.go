package handler

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

// LoadTemplates parses the embedded user pages for gin's HTML renderer.
func LoadTemplates() (*template.Template, error) {
	return template.New("users").Funcs(template.FuncMap{
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04:05")
		},
	}).ParseFS(templatesFS, "templates/*.html")
}
