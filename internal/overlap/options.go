// Package overlap finds colliding text labels, from estimated geometry
// (CheckStatic) or from boxes reported by the renderer (CheckDynamic).
package overlap

type Options struct {
	// Margin: зазор (доля осей), меньше которого тексты считаются наложенными.
	Margin float64
	// EdgeMargin: расстояние центра текста до края фигуры.
	EdgeMargin float64
	// Grid делит единичный квадрат на Grid×Grid ячеек.
	Grid int
	// CrowdThreshold: сколько центров в ячейке ещё допустимо.
	CrowdThreshold int
}

func DefaultOptions() Options {
	return Options{
		Margin:         0.02,
		EdgeMargin:     0.02,
		Grid:           5,
		CrowdThreshold: 3,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Margin < 0 {
		o.Margin = d.Margin
	}
	if o.EdgeMargin < 0 {
		o.EdgeMargin = d.EdgeMargin
	}
	if o.Grid <= 0 {
		o.Grid = d.Grid
	}
	if o.CrowdThreshold <= 0 {
		o.CrowdThreshold = d.CrowdThreshold
	}
	return o
}
