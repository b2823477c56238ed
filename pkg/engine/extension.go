package engine

import "math"

const (
	// DefaultUncertainty is the neutrosophic indeterminacy parameter.
	DefaultUncertainty = 0.1

	// DefaultGreyDelta is the grey interval half-width.
	DefaultGreyDelta = 0.2
)

type extensionMode int

const (
	extNone extensionMode = iota
	extNeutrosophic
	extGrey
)

// Extension reinterprets a base closeness score through an uncertainty
// model. The three variants are mutually exclusive by construction; the
// zero value passes scores through unchanged.
type Extension struct {
	mode        extensionMode
	uncertainty float64
	delta       float64
}

// NoExtension returns the pass-through extension.
func NoExtension() Extension {
	return Extension{mode: extNone}
}

// Neutrosophic returns the truth/indeterminacy/falsity score extension.
// A non-positive uncertainty falls back to the default.
func Neutrosophic(uncertainty float64) Extension {
	if uncertainty <= 0 {
		uncertainty = DefaultUncertainty
	}
	return Extension{mode: extNeutrosophic, uncertainty: uncertainty}
}

// Grey returns the grey-interval score extension. A non-positive delta
// falls back to the default.
func Grey(delta float64) Extension {
	if delta <= 0 {
		delta = DefaultGreyDelta
	}
	return Extension{mode: extGrey, delta: delta}
}

// ParseExtension maps a mode name to an extension; unknown names mean
// no extension.
func ParseExtension(mode string, uncertainty, delta float64) Extension {
	switch mode {
	case "neutrosophic":
		return Neutrosophic(uncertainty)
	case "grey":
		return Grey(delta)
	default:
		return NoExtension()
	}
}

// Active reports whether the extension changes scores.
func (e Extension) Active() bool {
	return e.mode != extNone
}

// Mode returns the extension mode name.
func (e Extension) Mode() string {
	switch e.mode {
	case extNeutrosophic:
		return "neutrosophic"
	case extGrey:
		return "grey"
	default:
		return "none"
	}
}

// withTraining applies training-data overrides for the active mode.
func (e Extension) withTraining(t *Training) Extension {
	if t == nil {
		return e
	}
	switch e.mode {
	case extNeutrosophic:
		if t.Uncertainty != nil && *t.Uncertainty > 0 {
			e.uncertainty = *t.Uncertainty
		}
	case extGrey:
		if t.GreyDelta != nil && *t.GreyDelta > 0 {
			e.delta = *t.GreyDelta
		}
	}
	return e
}

// Apply maps a base score through the active uncertainty model.
func (e Extension) Apply(score float64) float64 {
	switch e.mode {
	case extNeutrosophic:
		t, i, f := NeutrosophicComponents(score, e.uncertainty)
		return t - f - 0.5*i
	case extGrey:
		lo, hi := GreyInterval(score, e.delta)
		return (lo + hi) / 2
	default:
		return score
	}
}

// NeutrosophicComponents maps a score to its truth, indeterminacy and
// falsity components.
func NeutrosophicComponents(score, uncertainty float64) (t, i, f float64) {
	t = clamp01(score)
	i = math.Min(uncertainty, 1-t)
	f = math.Max(0, 1-t-i)
	return t, i, f
}

// GreyInterval maps a score to the [score-delta, score+delta] interval
// clamped to [0,1].
func GreyInterval(score, delta float64) (lo, hi float64) {
	return clamp01(score - delta), clamp01(score + delta)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
