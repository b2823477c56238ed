package engine

import (
	"math"

	"github.com/pkg/errors"
)

const (
	// WeightTolerance is the allowed drift from 1.0 for a weight vector sum.
	WeightTolerance = 1e-6

	CriterionCost        = "cost"
	CriterionTime        = "time"
	CriterionReliability = "reliability"
	CriterionTracking    = "tracking"
)

// Kind tags a criterion column as benefit (higher is better)
// or cost (lower is better).
type Kind string

const (
	Benefit Kind = "benefit"
	Cost    Kind = "cost"
)

// Criterion is a named decision column. Weights bind to criteria by name,
// never by position.
type Criterion struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// DefaultCriteria returns the standard forwarder criteria set.
func DefaultCriteria() []Criterion {
	return []Criterion{
		{Name: CriterionCost, Kind: Cost},
		{Name: CriterionTime, Kind: Cost},
		{Name: CriterionReliability, Kind: Benefit},
		{Name: CriterionTracking, Kind: Benefit},
	}
}

// CriterionIndex returns the position of the named criterion, or -1.
func CriterionIndex(criteria []Criterion, name string) int {
	for i, c := range criteria {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Weights is an ordered weight vector aligned with a criteria list.
type Weights []float64

// DefaultWeights returns the standard distribution for the default criteria:
// cost 40%, time 30%, reliability 20%, tracking 10%.
func DefaultWeights() Weights {
	return Weights{0.4, 0.3, 0.2, 0.1}
}

func (w Weights) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Validate checks that weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return errors.New("empty weight vector")
	}
	for i, v := range w {
		if v < 0 {
			return errors.Errorf("negative weight at index %d: %f", i, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > WeightTolerance {
		return errors.Errorf("weights sum to %.6f, must sum to 1", w.Sum())
	}
	return nil
}

// Normalize returns a copy scaled to sum to 1. A zero vector is returned
// unchanged.
func (w Weights) Normalize() Weights {
	out := make(Weights, len(w))
	total := w.Sum()
	if total == 0 {
		copy(out, w)
		return out
	}
	for i, v := range w {
		out[i] = v / total
	}
	return out
}

// Fit truncates or renormalizes weights to match the criteria count.
// Used when a tracking column is absent and the caller supplied the
// four-criterion default vector.
func (w Weights) Fit(n int) (Weights, error) {
	if len(w) < n {
		return nil, errors.Errorf("weight vector has %d entries, need %d", len(w), n)
	}
	return Weights(w[:n]).Normalize(), nil
}

// Urgency is the shipment urgency level driving time/cost reweighting.
type Urgency string

const (
	UrgencyStandard Urgency = "standard"
	UrgencyExpress  Urgency = "express"
	UrgencyRush     Urgency = "rush"
)

// ParseUrgency maps a string to an urgency level, defaulting to standard.
func ParseUrgency(s string) Urgency {
	switch Urgency(s) {
	case UrgencyExpress:
		return UrgencyExpress
	case UrgencyRush:
		return UrgencyRush
	default:
		return UrgencyStandard
	}
}

// AdjustForUrgency shifts weight from cost to time for urgent shipments:
// express moves 50% of the current time weight, rush moves 100%. The cost
// and time components are located by criterion name. Negative results are
// clipped to zero and the vector is renormalized.
func AdjustForUrgency(w Weights, criteria []Criterion, urgency Urgency) Weights {
	out := make(Weights, len(w))
	copy(out, w)

	var boost float64
	switch urgency {
	case UrgencyExpress:
		boost = 0.5
	case UrgencyRush:
		boost = 1.0
	default:
		return out
	}

	ti := CriterionIndex(criteria, CriterionTime)
	ci := CriterionIndex(criteria, CriterionCost)
	if ti < 0 || ci < 0 || ti >= len(out) || ci >= len(out) {
		return out
	}

	shift := out[ti] * boost
	out[ti] += shift
	out[ci] -= shift

	for i, v := range out {
		if v < 0 {
			out[i] = 0
		}
	}
	return out.Normalize()
}
