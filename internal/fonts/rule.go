package fonts

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"chartlint/internal/extract"
)

// Step is one row of the magnification table: from Fraction of the slide
// width upwards, sizes are multiplied by Factor.
type Step struct {
	Fraction float64 `toml:"fraction"`
	Factor   float64 `toml:"factor"`
}

// Rule is the font policy: per-role minimum sizes at full slide width and
// the magnification needed when the chart is embedded smaller.
type Rule struct {
	Minimums         map[extract.Role]float64
	Table            []Step
	InlineMultiplier float64
	CriticalFloor    float64
}

// DefaultRule returns the built-in policy.
func DefaultRule() Rule {
	return Rule{
		Minimums: map[extract.Role]float64{
			extract.RoleTitle:      16,
			extract.RoleAxisLabel:  14,
			extract.RoleTickLabel:  12,
			extract.RoleLegend:     12,
			extract.RoleAnnotation: 12,
			extract.RoleDefault:    12,
		},
		Table: []Step{
			{Fraction: 1.0, Factor: 1.0},
			{Fraction: 0.8, Factor: 1.25},
			{Fraction: 0.6, Factor: 1.5},
			{Fraction: 0.5, Factor: 1.75},
			{Fraction: 0.4, Factor: 2.0},
		},
		InlineMultiplier: 1.3,
		CriticalFloor:    8,
	}
}

// RCRoles maps the rcParams keys the enforcer checks to the role whose
// minimum applies.
var RCRoles = map[string]extract.Role{
	"font.size":             extract.RoleDefault,
	"axes.titlesize":        extract.RoleTitle,
	"figure.titlesize":      extract.RoleTitle,
	"axes.labelsize":        extract.RoleAxisLabel,
	"xtick.labelsize":       extract.RoleTickLabel,
	"ytick.labelsize":       extract.RoleTickLabel,
	"legend.fontsize":       extract.RoleLegend,
	"legend.title_fontsize": extract.RoleLegend,
}

// Minimum returns the minimum size of role at full width. Roles missing
// from the rule fall back to the default role.
func (r Rule) Minimum(role extract.Role) float64 {
	if v, ok := r.Minimums[role]; ok {
		return v
	}
	return r.Minimums[extract.RoleDefault]
}

// Factor returns the magnification for an embedding fraction: the factor of
// the largest table key not exceeding fraction. Below the smallest key the
// smallest key's factor applies.
func (r Rule) Factor(fraction float64) float64 {
	if len(r.Table) == 0 {
		return 1
	}
	best := -1
	lowest := 0
	for i, s := range r.Table {
		if s.Fraction < r.Table[lowest].Fraction {
			lowest = i
		}
		if s.Fraction <= fraction && (best < 0 || s.Fraction > r.Table[best].Fraction) {
			best = i
		}
	}
	if best < 0 {
		best = lowest
	}
	return r.Table[best].Factor
}

// Required is the smallest source size that stays legible for role at
// fraction: ceil(minimum × factor).
func (r Rule) Required(role extract.Role, fraction float64) float64 {
	return math.Ceil(r.Minimum(role)*r.Factor(fraction) - 1e-9)
}

// InlineReplacement is the size an inline fontsize= literal is raised to.
func (r Rule) InlineReplacement(current, fraction float64) float64 {
	return max(math.Round(current*r.InlineMultiplier), r.Required(extract.RoleDefault, fraction))
}

// Effective is the on-slide size of a source size at fraction.
func (r Rule) Effective(size, fraction float64) float64 {
	return size / r.Factor(fraction)
}

// Validate checks that the rule is usable.
func (r Rule) Validate() error {
	var errs []error
	if _, ok := r.Minimums[extract.RoleDefault]; !ok {
		errs = append(errs, errors.New("fonts: no minimum for the default role"))
	}
	for role, v := range r.Minimums {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("fonts: minimum for %s must be positive, got %g", role, v))
		}
	}
	if len(r.Table) == 0 {
		errs = append(errs, errors.New("fonts: magnification table is empty"))
	}
	seen := make(map[float64]bool, len(r.Table))
	for _, s := range r.Table {
		if s.Fraction <= 0 || s.Fraction > 1 {
			errs = append(errs, fmt.Errorf("fonts: table fraction %g outside (0, 1]", s.Fraction))
		}
		if s.Factor <= 0 {
			errs = append(errs, fmt.Errorf("fonts: table factor %g must be positive", s.Factor))
		}
		if seen[s.Fraction] {
			errs = append(errs, fmt.Errorf("fonts: duplicate table fraction %g", s.Fraction))
		}
		seen[s.Fraction] = true
	}
	if r.InlineMultiplier < 1 {
		errs = append(errs, fmt.Errorf("fonts: inline multiplier %g must be >= 1", r.InlineMultiplier))
	}
	if r.CriticalFloor < 0 {
		errs = append(errs, fmt.Errorf("fonts: critical floor %g must not be negative", r.CriticalFloor))
	}
	return errors.Join(errs...)
}

// SortedTable returns the table from the largest fraction down.
func (r Rule) SortedTable() []Step {
	out := slices.Clone(r.Table)
	slices.SortFunc(out, func(a, b Step) int {
		switch {
		case a.Fraction > b.Fraction:
			return -1
		case a.Fraction < b.Fraction:
			return 1
		}
		return 0
	})
	return out
}

// ValidateFraction checks an embedding fraction.
func ValidateFraction(f float64) error {
	if f <= 0 || f > 1 || math.IsNaN(f) {
		return fmt.Errorf("embedding scale %g outside (0, 1]", f)
	}
	return nil
}
