package engine

// sensitivityCriteria are the criteria probed by the perturbation runs.
var sensitivityCriteria = []string{CriterionCost, CriterionTime, CriterionReliability}

// sensitivityPerturbations are the relative weight changes tested.
var sensitivityPerturbations = []float64{0.1, -0.1}

// sensitivity recomputes one forwarder's score with each probed criterion's
// weight scaled by ±10% (vector renormalized), reporting the percentage
// change relative to the unperturbed, fully adjusted score. The same
// extension and training multiplier used for the reference score apply to
// each perturbed run, so changes are consistent with what the caller sees.
func sensitivity(matrix [][]float64, w Weights, criteria []Criterion, ext Extension, t *Training, forwarderID string, row int, reference float64) (*SensitivityReport, error) {
	rep := &SensitivityReport{
		Entries: make([]SensitivityEntry, 0, len(sensitivityCriteria)*len(sensitivityPerturbations)),
	}

	for _, name := range sensitivityCriteria {
		ci := CriterionIndex(criteria, name)
		if ci < 0 || ci >= len(w) {
			continue
		}

		for _, p := range sensitivityPerturbations {
			perturbed := make(Weights, len(w))
			copy(perturbed, w)
			perturbed[ci] *= 1 + p
			perturbed = perturbed.Normalize()

			o, err := Score(matrix, perturbed, criteria)
			if err != nil {
				return nil, err
			}
			score := adjustedScore(o.Scores[row], ext, t, forwarderID)

			var changePct float64
			if reference > closenessEpsilon {
				changePct = (score - reference) / reference * 100
			}

			rep.Entries = append(rep.Entries, SensitivityEntry{
				Criterion:      name,
				Perturbation:   p,
				ScoreChangePct: changePct,
			})
		}
	}

	return rep, nil
}
