package explore

import (
	"strings"

	"haloscope/internal/histogram"
)

// DefaultFilter is applied when a client has not typed one yet
const DefaultFilter = "where vmax > 10 and dist < 100"

// View is the state of one explorer client
type View struct {
	// Filter selects the rows of both the scatter and the standard plot
	Filter string `json:"filter"`
	X      string `json:"x"`
	Y      string `json:"y"`
	LogX   bool   `json:"log_x"`
	LogY   bool   `json:"log_y"`

	Plot string `json:"plot"`
}

// DefaultView returns the initial view; an empty filter falls back to DefaultFilter
func DefaultView(filterText string) View {
	if strings.TrimSpace(filterText) == "" {
		filterText = DefaultFilter
	}
	return View{
		Filter: filterText,
		X:      "vmax",
		Y:      "mvir",
		Plot:   histogram.StandardPlotNames()[0],
	}
}
