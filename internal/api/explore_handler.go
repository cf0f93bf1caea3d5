package api

import (
	"log"
	"net/http"
	"strconv"

	"haloscope/domain/halo"
	"haloscope/internal/errors"
	"haloscope/internal/explore"
	"haloscope/internal/histogram"
	"haloscope/internal/session"

	"github.com/gin-gonic/gin"
)

// ExploreHandler serves the explorer as JSON
type ExploreHandler struct {
	explorer *explore.Service
	sessions *session.Store
}

// NewExploreHandler creates a new explore handler
func NewExploreHandler(explorer *explore.Service, sessions *session.Store) *ExploreHandler {
	return &ExploreHandler{
		explorer: explorer,
		sessions: sessions,
	}
}

// NewRouter returns a gin engine serving the handler under /api
func NewRouter(h *ExploreHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	h.Register(router.Group("/api"))
	return router
}

// Register mounts the explorer routes on r
func (h *ExploreHandler) Register(r gin.IRouter) {
	r.GET("/options", h.GetOptions)
	r.GET("/scatter", h.GetScatter)
	r.GET("/plots/:name", h.GetStandardPlot)
	r.GET("/summary", h.GetSummary)
	r.GET("/count/:catalog", h.GetCount)
	r.GET("/view", h.GetView)
	r.PUT("/view", h.PutView)
	r.DELETE("/view", h.ResetView)
}

// GetOptions returns the selectable columns, plots and catalogs
func (h *ExploreHandler) GetOptions(c *gin.Context) {
	opts, err := h.explorer.Options(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// GetScatter returns the scatter series of both catalogs. Query parameters
// override the session view for this request only.
func (h *ExploreHandler) GetScatter(c *gin.Context) {
	view, err := h.viewFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	snap, err := h.explorer.Load(c.Request.Context(), view.Filter)
	if err != nil {
		respondError(c, err)
		return
	}
	plot, err := explore.Scatter(snap, view)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filter": snap.Filter.String(),
		"counts": counts(snap),
		"plot":   plot,
	})
}

// GetStandardPlot returns a standard plot for both catalogs
func (h *ExploreHandler) GetStandardPlot(c *gin.Context) {
	view, err := h.viewFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := h.explorer.Load(c.Request.Context(), view.Filter)
	if err != nil {
		respondError(c, err)
		return
	}
	plot, err := h.explorer.StandardPlot(snap, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filter": snap.Filter.String(),
		"counts": counts(snap),
		"plot":   plot,
	})
}

// GetSummary returns descriptive statistics of the filtered catalogs
func (h *ExploreHandler) GetSummary(c *gin.Context) {
	view, err := h.viewFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	snap, err := h.explorer.Load(c.Request.Context(), view.Filter)
	if err != nil {
		respondError(c, err)
		return
	}
	summaries, err := h.explorer.Summary(snap)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filter":   snap.Filter.String(),
		"catalogs": summaries,
	})
}

// GetCount returns how many rows of one catalog the filter selects
func (h *ExploreHandler) GetCount(c *gin.Context) {
	catalog, err := halo.ParseCatalog(c.Param("catalog"))
	if err != nil {
		respondError(c, errors.NotFound("catalog "+c.Param("catalog")))
		return
	}
	view, err := h.viewFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	n, err := h.explorer.Count(c.Request.Context(), catalog, view.Filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"catalog": catalog, "count": n})
}

// GetView returns the session's view
func (h *ExploreHandler) GetView(c *gin.Context) {
	id, view := h.sessions.Get(sessionID(c))
	setSessionCookie(c, id)
	c.JSON(http.StatusOK, view)
}

// viewPatch is a partial view update; nil fields are left unchanged.
// plot_filter is accepted as another name for filter since both tabs
// share one filter; filter wins when both are sent.
type viewPatch struct {
	Filter     *string `json:"filter"`
	X          *string `json:"x"`
	Y          *string `json:"y"`
	LogX       *bool   `json:"log_x"`
	LogY       *bool   `json:"log_y"`
	Plot       *string `json:"plot"`
	PlotFilter *string `json:"plot_filter"`
}

// PutView validates and applies a partial update to the session's view
func (h *ExploreHandler) PutView(c *gin.Context) {
	var patch viewPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, errors.InvalidInput("invalid view: "+err.Error()))
		return
	}

	if patch.Filter == nil {
		patch.Filter = patch.PlotFilter
	}

	ctx := c.Request.Context()
	if patch.Filter != nil {
		if _, err := h.explorer.ParseFilter(ctx, *patch.Filter); err != nil {
			respondError(c, err)
			return
		}
	}
	opts, err := h.explorer.Options(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	for _, col := range []*string{patch.X, patch.Y} {
		if col != nil && !contains(opts.Columns, *col) {
			respondError(c, errors.UnknownColumn(*col))
			return
		}
	}
	if patch.Plot != nil {
		def, ok := histogram.LookupStandardPlot(*patch.Plot)
		if !ok {
			respondError(c, errors.NotFound("standard plot "+*patch.Plot))
			return
		}
		patch.Plot = &def.Name
	}

	id, view := h.sessions.Update(sessionID(c), func(v *explore.View) {
		if patch.Filter != nil {
			v.Filter = *patch.Filter
		}
		if patch.X != nil {
			v.X = *patch.X
		}
		if patch.Y != nil {
			v.Y = *patch.Y
		}
		if patch.LogX != nil {
			v.LogX = *patch.LogX
		}
		if patch.LogY != nil {
			v.LogY = *patch.LogY
		}
		if patch.Plot != nil {
			v.Plot = *patch.Plot
		}
	})
	setSessionCookie(c, id)
	c.JSON(http.StatusOK, view)
}

// ResetView puts the session back to the default view
func (h *ExploreHandler) ResetView(c *gin.Context) {
	id, _ := h.sessions.Get(sessionID(c))
	view := h.sessions.Reset(id)
	setSessionCookie(c, id)
	c.JSON(http.StatusOK, view)
}

// viewFromQuery starts from the session view and applies query overrides
func (h *ExploreHandler) viewFromQuery(c *gin.Context) (explore.View, error) {
	id, view := h.sessions.Get(sessionID(c))
	setSessionCookie(c, id)

	if v, ok := c.GetQuery("filter"); ok {
		view.Filter = v
	}
	if v := c.Query("x"); v != "" {
		view.X = v
	}
	if v := c.Query("y"); v != "" {
		view.Y = v
	}
	for key, dst := range map[string]*bool{"logx": &view.LogX, "logy": &view.LogY} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return view, errors.InvalidInput(key + " must be a boolean")
		}
		*dst = b
	}
	return view, nil
}

func counts(snap *explore.Snapshot) map[string]int {
	out := make(map[string]int, len(snap.Tables))
	for catalog, t := range snap.Tables {
		out[string(catalog)] = t.Len()
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func sessionID(c *gin.Context) string {
	id, err := c.Cookie(session.CookieName)
	if err != nil {
		return ""
	}
	return id
}

func setSessionCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, id, 0, "/", "", false, true)
}

func respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
