package engine

import (
	"sort"

	"github.com/pkg/errors"
)

// RankRequest is the full input to a ranking call. Criteria and Weights
// default to the standard forwarder set when omitted.
type RankRequest struct {
	Table     *Table
	Weights   Weights
	Criteria  []Criterion
	Urgency   Urgency
	Depth     int
	Extension Extension
	Training  *Training
}

// NewTable wraps an already-resolved forwarder list as a decision table.
func NewTable(forwarders []Forwarder) *Table {
	return &Table{Forwarders: forwarders, HasTracking: true}
}

// Rank runs the full pipeline: training weight adjustment, urgency
// reweighting, TOPSIS scoring, uncertainty extension, per-forwarder
// training adjustment, and depth-gated result assembly. Rank is always a
// property of the final, post-adjustment ordering.
func Rank(req RankRequest) ([]RankedResult, error) {
	if req.Table == nil || len(req.Table.Forwarders) == 0 {
		return nil, errors.New("no forwarders to rank")
	}
	if req.Depth == 0 {
		req.Depth = DepthDefault
	}
	if req.Depth < DepthScore || req.Depth > DepthSensitivity {
		return nil, errors.Errorf("analysis depth out of range: %d", req.Depth)
	}

	criteria := req.Criteria
	if len(criteria) == 0 {
		criteria = req.Table.Criteria()
	}

	w := req.Weights
	if len(w) == 0 {
		w = DefaultWeights()
	}
	w, err := w.Fit(len(criteria))
	if err != nil {
		return nil, err
	}

	w = req.Training.AdjustWeights(w, criteria)
	w = AdjustForUrgency(w, criteria, req.Urgency)
	if err := w.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid weight vector after adjustment")
	}

	ext := req.Extension.withTraining(req.Training)

	matrix := req.Table.Matrix(criteria)
	outcome, err := Score(matrix, w, criteria)
	if err != nil {
		return nil, err
	}

	results := assemble(req.Table.Forwarders, criteria, outcome, ext, req.Training)

	if req.Depth >= DepthSensitivity {
		for i := range results {
			rep, err := sensitivity(matrix, w, criteria, ext, req.Training,
				req.Table.Forwarders[results[i].row].ID, results[i].row, results[i].RankedResult.Score)
			if err != nil {
				return nil, err
			}
			results[i].RankedResult.Sensitivity = rep
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].RankedResult.Score > results[b].RankedResult.Score
	})

	out := make([]RankedResult, len(results))
	for i, r := range results {
		r.RankedResult.Rank = i + 1
		pruneForDepth(&r.RankedResult, req.Depth)
		out[i] = r.RankedResult
	}
	return out, nil
}

// indexedResult keeps the original row index alongside the result so
// sensitivity and detail lookups survive re-sorting.
type indexedResult struct {
	row int
	RankedResult
}

func assemble(forwarders []Forwarder, criteria []Criterion, o *Outcome, ext Extension, t *Training) []indexedResult {
	results := make([]indexedResult, len(forwarders))
	for i, f := range forwarders {
		score := adjustedScore(o.Scores[i], ext, t, f.ID)

		r := RankedResult{
			ID:    f.ID,
			Name:  f.Name,
			Score: score,
			Factors: func() map[string]float64 {
				m := make(map[string]float64, len(criteria))
				for j, c := range criteria {
					m[c.Name] = o.Normalized[i][j]
				}
				return m
			}(),
			Raw: &RawValues{
				Cost:        f.Cost,
				Time:        f.Time,
				Reliability: f.Reliability,
				Tracking:    f.Tracking,
			},
			Separation: &SeparationDetail{
				Ideal:     o.SPlus[i],
				AntiIdeal: o.SMinus[i],
				Contributions: func() map[string]float64 {
					contrib := o.Contributions(i)
					m := make(map[string]float64, len(criteria))
					for j, c := range criteria {
						m[c.Name] = contrib[j]
					}
					return m
				}(),
			},
		}
		results[i] = indexedResult{row: i, RankedResult: r}
	}
	return results
}

// adjustedScore applies the uncertainty extension and then the forwarder's
// training multiplier. Clamping applies only when a multiplier does.
func adjustedScore(base float64, ext Extension, t *Training, forwarderID string) float64 {
	score := ext.Apply(base)
	if mult, ok := t.scoreMultiplier(forwarderID); ok {
		score = clamp01(score * mult)
	}
	return score
}

func pruneForDepth(r *RankedResult, depth int) {
	if depth < DepthFactors {
		r.Factors = nil
	}
	if depth < DepthRaw {
		r.Raw = nil
	}
	if depth < DepthSeparation {
		r.Separation = nil
	}
	if depth < DepthSensitivity {
		r.Sensitivity = nil
	}
}
