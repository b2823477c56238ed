package engine

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Training carries learned correction factors. The engine reads it per
// ranking call and never mutates it.
type Training struct {
	// WeightAdjustments are per-criterion weight multipliers, keyed by
	// criterion name.
	WeightAdjustments map[string]float64 `json:"weight_adjustments,omitempty" yaml:"weight_adjustments,omitempty"`

	// Uncertainty overrides the neutrosophic indeterminacy parameter.
	Uncertainty *float64 `json:"uncertainty,omitempty" yaml:"uncertainty,omitempty"`

	// GreyDelta overrides the grey interval half-width.
	GreyDelta *float64 `json:"grey_delta,omitempty" yaml:"grey_delta,omitempty"`

	// ForwarderAdjustments are per-forwarder score multipliers, keyed by
	// forwarder id.
	ForwarderAdjustments map[string]float64 `json:"forwarder_adjustments,omitempty" yaml:"forwarder_adjustments,omitempty"`
}

// LoadTraining reads training data from a yaml (or json) file. A missing
// file is not an error: training data is optional.
func LoadTraining(path string) (*Training, error) {
	if path == "" {
		return nil, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debugf("no training data at %s", path)
			return nil, nil
		}
		return nil, errors.Wrapf(err, "error reading training data: %s", path)
	}

	var t Training
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, errors.Wrapf(err, "error parsing training data: %s", path)
	}
	return &t, nil
}

// AdjustWeights multiplies weight components by the per-criterion training
// multipliers, matched by name, and renormalizes. Unknown criterion names
// in the training data are ignored.
func (t *Training) AdjustWeights(w Weights, criteria []Criterion) Weights {
	if t == nil || len(t.WeightAdjustments) == 0 {
		return w
	}

	out := make(Weights, len(w))
	copy(out, w)
	for name, mult := range t.WeightAdjustments {
		i := CriterionIndex(criteria, name)
		if i < 0 || i >= len(out) {
			log.Debugf("weight adjustment for unknown criterion: %s", name)
			continue
		}
		if mult < 0 {
			log.Debugf("ignoring negative weight multiplier for %s: %f", name, mult)
			continue
		}
		out[i] *= mult
	}
	return out.Normalize()
}

// scoreMultiplier returns the training multiplier for a forwarder id,
// or 1 when none applies.
func (t *Training) scoreMultiplier(forwarderID string) (float64, bool) {
	if t == nil || forwarderID == "" {
		return 1, false
	}
	m, ok := t.ForwarderAdjustments[forwarderID]
	if !ok {
		return 1, false
	}
	return m, true
}
