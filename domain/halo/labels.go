package halo

// axisExcluded columns are positional or categorical and never offered as plot axes
var axisExcluded = map[string]bool{
	"x":          true,
	"y":          true,
	"z":          true,
	ColumnIndex:  true,
	ColumnHostID: true,
}

var labels = map[string]string{
	"vmax":   "Vmax (km/s)",
	"mvir":   "Mvir (M_sun)",
	"rvir":   "Rvir (kpc)",
	"dist":   "Dist from MW (kpc)",
	"peri":   "Pericenter (kpc)",
	"vpeak":  "Vpeak (km/s)",
	"vr":     "Radial Velocity (km/s)",
	"vtan":   "Tangential Velocity (km/s)",
	"infall": "Infall Time (Gyrs)",
}

// LogPrefix is prepended to the label of a log10-scaled axis
const LogPrefix = "Log10  "

// Label returns the human-readable axis label for a column
func Label(column string) string {
	if l, ok := labels[column]; ok {
		return l
	}
	return column
}

// AxisLabel returns the label for an axis, accounting for log scaling
func AxisLabel(column string, log bool) string {
	if log {
		return LogPrefix + Label(column)
	}
	return Label(column)
}

// Plottable reports whether a column may be chosen as a scatter axis
func Plottable(column string) bool {
	return !axisExcluded[column]
}

// PlottableColumns filters a schema down to the columns offered as axis choices
func PlottableColumns(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if Plottable(c) {
			out = append(out, c)
		}
	}
	return out
}
