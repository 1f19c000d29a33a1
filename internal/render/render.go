// Package render produces the browser surface: the chat page, the login page,
// static assets and the standalone chart documents shown in the chart tabs.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/cortexai/datachat/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData feeds the chat page.
type PageData struct {
	Turns         []models.Turn
	Questions     []string
	Authenticated bool
}

// LoginData feeds the login page.
type LoginData struct {
	Invalid bool
}

// Renderer executes the page templates for one locale.
type Renderer struct {
	title     string
	apiPrefix string
	labels    Labels
	page      *template.Template
	login     *template.Template
}

func New(title, locale, apiPrefix string) (*Renderer, error) {
	page, err := template.ParseFS(templateFS, "templates/layout.html", "templates/chat.html")
	if err != nil {
		return nil, fmt.Errorf("parse chat template: %w", err)
	}
	login, err := template.ParseFS(templateFS, "templates/layout.html", "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("parse login template: %w", err)
	}
	return &Renderer{
		title:     title,
		apiPrefix: apiPrefix,
		labels:    LabelsFor(locale),
		page:      page,
		login:     login,
	}, nil
}

// Labels returns the locale labels used by the templates.
func (r *Renderer) Labels() Labels { return r.labels }

type view struct {
	Title     string
	APIPrefix string
	L         Labels
	Data      any
}

// Page writes the chat page.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	return r.page.ExecuteTemplate(w, "layout", view{r.title, r.apiPrefix, r.labels, data})
}

// Login writes the login page.
func (r *Renderer) Login(w io.Writer, data LoginData) error {
	return r.login.ExecuteTemplate(w, "layout", view{r.title, r.apiPrefix, r.labels, data})
}

// Static serves the embedded assets. Mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
