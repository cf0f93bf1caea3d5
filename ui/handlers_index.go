package ui

import (
	"html/template"
	"log"
	"net/http"
	"net/url"

	"haloscope/domain/halo"
	"haloscope/internal/errors"
	"haloscope/internal/explore"
)

type downloadLink struct {
	Catalog string
	Legend  string
	Rows    int
}

type indexPage struct {
	Title      string
	Error      string
	View       explore.View
	Options    *explore.Options
	ScatterSVG template.HTML
	LineSVG    template.HTML
	Downloads  []downloadLink
}

// handleIndex renders both explorer panels for the session's view. A
// submitted form replaces the view before rendering.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := sessionID(r)

	_, view := a.sessions.Get(id)
	if q := r.URL.Query(); q.Get("submitted") != "" {
		view = viewFromForm(view, q)
		a.sessions.Update(id, func(v *explore.View) { *v = view })
	}

	opts, err := a.explorer.Options(ctx)
	if err != nil {
		log.Printf("[UI] Failed to load options: %v", err)
		http.Error(w, err.Error(), errors.HTTPStatus(err))
		return
	}

	page := indexPage{Title: "Explore", View: view, Options: opts}
	status := http.StatusOK
	fail := func(err error) {
		if page.Error == "" {
			page.Error = err.Error()
			status = errors.HTTPStatus(err)
		}
	}

	rows := map[halo.Catalog]int{}
	snap, err := a.explorer.Load(ctx, view.Filter)
	if err != nil {
		fail(err)
	} else {
		for catalog, t := range snap.Tables {
			rows[catalog] = t.Len()
		}
		if plot, err := explore.Scatter(snap, view); err != nil {
			fail(err)
		} else if page.ScatterSVG, err = renderScatter(plot); err != nil {
			fail(err)
		}

		if plot, err := a.explorer.StandardPlot(snap, view.Plot); err != nil {
			fail(err)
		} else if page.LineSVG, err = renderLines(plot); err != nil {
			fail(err)
		}
	}

	for _, catalog := range halo.Catalogs() {
		page.Downloads = append(page.Downloads, downloadLink{
			Catalog: string(catalog),
			Legend:  catalog.DisplayName(),
			Rows:    rows[catalog],
		})
	}

	a.renderTemplate(w, status, "index", page)
}

// viewFromForm reads the explorer form. Unchecked checkboxes are absent.
func viewFromForm(view explore.View, q url.Values) explore.View {
	view.Filter = q.Get("filter")
	if x := q.Get("x"); x != "" {
		view.X = x
	}
	if y := q.Get("y"); y != "" {
		view.Y = y
	}
	if p := q.Get("plot"); p != "" {
		view.Plot = p
	}
	view.LogX = q.Get("logx") != ""
	view.LogY = q.Get("logy") != ""
	return view
}

func (a *App) handleAbout(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, http.StatusOK, "about", struct {
		Title string
		Body  template.HTML
	}{Title: "About", Body: a.about})
}
