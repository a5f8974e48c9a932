package server

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/Zachkp/portfolio/web"
	"github.com/gin-gonic/gin"
)

var templateFuncs = template.FuncMap{
	"join": strings.Join,
	"fieldError": func(errs map[string]string, name string) string {
		return errs[name]
	},
}

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(web.FS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

func mountStatic(r *gin.Engine) error {
	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}
	r.StaticFS("/static", http.FS(static))
	return nil
}
