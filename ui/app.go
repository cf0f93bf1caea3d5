package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"haloscope/internal/explore"
	"haloscope/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html static/* content/*.md
var embeddedFiles embed.FS

// App represents the UI application
type App struct {
	router    *chi.Mux
	explorer  *explore.Service
	sessions  *session.Store
	templates *template.Template
	about     template.HTML
}

// NewApp creates the UI application. api, when set, is mounted under /api.
func NewApp(explorer *explore.Service, sessions *session.Store, api http.Handler) (*App, error) {
	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	aboutMD, err := embeddedFiles.ReadFile("content/about.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read about page: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		explorer:  explorer,
		sessions:  sessions,
		templates: templates,
		about:     renderMarkdown(aboutMD),
	}

	if err := app.setupMiddleware(); err != nil {
		return nil, err
	}
	app.setupRoutes(api)

	return app, nil
}

// ServeHTTP makes the app an http.Handler
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() error {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to open static files: %w", err)
	}
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	return nil
}

// setupRoutes configures the application routes
func (a *App) setupRoutes(api http.Handler) {
	a.router.Group(func(r chi.Router) {
		r.Use(a.withSession)
		r.Get("/", a.handleIndex)
		r.Get("/download/{catalog}", a.handleDownload)
	})
	a.router.Get("/about", a.handleAbout)
	a.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	if api != nil {
		a.router.Mount("/api", api)
	}
}
