package ui

import (
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"haloscope/internal/explore"
	"haloscope/internal/session"
	"haloscope/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestApp(t *testing.T, api http.Handler) *App {
	t.Helper()
	svc := explore.NewService(testkit.Store(t), 10, nil)
	app, err := NewApp(svc, session.NewStore(time.Hour, explore.DefaultView("")), api)
	require.NoError(t, err)
	return app
}

func get(app http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	app.ServeHTTP(w, req)
	return w
}

func TestIndex_RendersDefaultView(t *testing.T) {
	app := newTestApp(t, nil)
	w := get(app, "/")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `value="where vmax &gt; 10 and dist &lt; 100"`)
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "Vmax (km/s)")
	assert.Contains(t, body, "Infall Time (Gyrs)")
	assert.Contains(t, body, "DMO: 3 rows · Disk: 2 rows")
	assert.Contains(t, body, "DMO Query")
	assert.Contains(t, body, "Disk Catalog")
	assert.Equal(t, 3+2, strings.Count(body, "<circle"))
}

func TestIndex_FormUpdatesSession(t *testing.T) {
	app := newTestApp(t, nil)
	first := get(app, "/")
	cookie := first.Result().Cookies()[0]
	assert.Equal(t, session.CookieName, cookie.Name)

	w := get(app, "/?submitted=1&filter=&x=dist&y=vmax&logy=on&plot=Pericenter", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Log10  Vmax (km/s)")
	assert.Contains(t, w.Body.String(), "Pericenter (kpc)")

	w = get(app, "/", cookie)
	assert.Contains(t, w.Body.String(), "Log10  Vmax (km/s)")
	assert.Contains(t, w.Body.String(), "DMO: 4 rows")
}

func TestIndex_RelationsFormSharesFilter(t *testing.T) {
	app := newTestApp(t, nil)
	first := get(app, "/")
	cookie := first.Result().Cookies()[0]

	w := get(app, "/?submitted=1&x=vmax&y=mvir&filter=where+vmax+%3E+100&plot=Infall", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 2, strings.Count(body, `name="filter" value="where vmax &gt; 100"`))
	assert.Contains(t, body, "DMO: 1 rows · Disk: 1 rows")
	assert.Equal(t, 1+1, strings.Count(body, "<circle"))
	assert.NotContains(t, body, "plot_filter")
}

func TestIndex_InvalidFilter(t *testing.T) {
	app := newTestApp(t, nil)
	w := get(app, "/?submitted=1&filter=where+mass+%3E+1&x=vmax&y=mvir&plot=Infall")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `unknown column &#34;mass&#34;`)
}

func TestDownload_QueryCSV(t *testing.T) {
	app := newTestApp(t, nil)
	w := get(app, "/download/dmo?scope=query&filter=host_id+%3D+2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv;charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="dmo_query.csv"`, w.Header().Get("Content-Disposition"))

	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"index", "host_id", "mvir", "vmax", "vpeak", "dist", "infall", "peri"}, records[0])
	assert.Equal(t, "2", records[1][0])
	assert.Equal(t, "3", records[2][0])
}

func TestDownload_SessionFilterAndCatalog(t *testing.T) {
	app := newTestApp(t, nil)

	w := get(app, "/download/disk")
	require.Equal(t, http.StatusOK, w.Code)
	records, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1+2)

	w = get(app, "/download/dmo?scope=catalog&format=xlsx")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="dmo_catalog.xlsx"`, w.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Len(t, rows, 1+4)
}

func TestDownload_Errors(t *testing.T) {
	app := newTestApp(t, nil)
	assert.Equal(t, http.StatusNotFound, get(app, "/download/hydro").Code)
	assert.Equal(t, http.StatusBadRequest, get(app, "/download/dmo?format=json").Code)
	assert.Equal(t, http.StatusBadRequest, get(app, "/download/dmo?scope=all").Code)
	assert.Equal(t, http.StatusBadRequest, get(app, "/download/dmo?filter=vmax+%3E").Code)
}

func TestAbout(t *testing.T) {
	app := newTestApp(t, nil)
	w := get(app, "/about")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<table>")
	assert.Contains(t, w.Body.String(), "About haloscope")
}

func TestMountsAPI(t *testing.T) {
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	})
	app := newTestApp(t, api)
	w := get(app, "/api/options")
	assert.Equal(t, "/api/options", w.Body.String())
}
