package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/campusbites/campusbites-client/pkg/logger"
)

//go:embed templates/*.tmpl
var files embed.FS

// Renderer executes embedded page templates. Pages render to a buffer first
// so a template error never leaks a half-written body.
type Renderer struct {
	tmpl *template.Template
	logg *logger.Logger
}

func NewRenderer(logg *logger.Logger) (*Renderer, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(files, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Renderer{tmpl: tmpl, logg: logg}, nil
}

func (r *Renderer) Render(ctx context.Context, w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.logg.Error(ctx, "template render failed", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
