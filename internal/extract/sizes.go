package extract

import "strings"

// Относительные размеры matplotlib (font_manager.font_scalings).
var namedScalings = map[string]float64{
	"xx-small": 0.579,
	"x-small":  0.694,
	"small":    0.833,
	"medium":   1.0,
	"large":    1.2,
	"x-large":  1.44,
	"xx-large": 1.728,
	"larger":   1.2,
	"smaller":  0.833,
}

// NamedSize resolves 'small', 'x-large', ... relative to base.
func NamedSize(name string, base float64) (float64, bool) {
	s, ok := namedScalings[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, false
	}
	return s * base, true
}

// rcDefaults: значения rcParams по умолчанию, относительно font.size.
var rcDefaults = map[string]string{
	"axes.titlesize":        "large",
	"figure.titlesize":      "large",
	"axes.labelsize":        "medium",
	"xtick.labelsize":       "medium",
	"ytick.labelsize":       "medium",
	"legend.fontsize":       "medium",
	"legend.title_fontsize": "medium",
}

// roleKeys maps a role to the rcParams key that sets its default size.
var roleKeys = map[Role]string{
	RoleTitle:     "axes.titlesize",
	RoleAxisLabel: "axes.labelsize",
	RoleTickLabel: "xtick.labelsize",
	RoleLegend:    "legend.fontsize",
}

// DefaultSize returns the size matplotlib uses for a role when the call
// gives none, honouring the rcParams set in the script.
func (f Figure) DefaultSize(role Role) float64 {
	key, ok := roleKeys[role]
	if !ok {
		return f.FontSize
	}
	if v, ok := f.RC[key]; ok {
		return v
	}
	if v, ok := NamedSize(rcDefaults[key], f.FontSize); ok {
		return v
	}
	return f.FontSize
}
