package ui

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"haloscope/adapters/export"
	"haloscope/domain/halo"
	"haloscope/internal/errors"

	"github.com/go-chi/chi/v5"
)

// handleDownload serves one catalog as a file: either the rows selected by
// the filter (scope=query) or the whole catalog (scope=catalog). The query
// scope uses the filter parameter when present, else the session's filter.
func (a *App) handleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	catalog, err := halo.ParseCatalog(chi.URLParam(r, "catalog"))
	if err != nil {
		writeError(w, errors.NotFound("catalog "+chi.URLParam(r, "catalog")))
		return
	}
	scope, err := export.ParseScope(q.Get("scope"))
	if err != nil {
		writeError(w, err)
		return
	}
	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		writeError(w, err)
		return
	}

	var table *halo.Table
	if scope == export.ScopeCatalog {
		table, err = a.explorer.Catalog(ctx, catalog)
	} else {
		_, view := a.sessions.Get(sessionID(r))
		text := view.Filter
		if q.Has("filter") {
			text = q.Get("filter")
		}
		table, err = a.explorer.Query(ctx, catalog, text)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, table, format); err != nil {
		writeError(w, errors.Wrap(err, "failed to encode download"))
		return
	}

	filename := export.FileName(catalog, scope, format)
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[Download] Error writing %s: %v", filename, err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[UI] Request failed: %v", err)
	}
	http.Error(w, err.Error(), status)
}
