package engine

// Analysis depth levels gate how much detail a RankedResult carries.
const (
	DepthScore       = 1 // identity, rank, score
	DepthFactors     = 2 // + normalized factor values
	DepthRaw         = 3 // + raw attribute values
	DepthSeparation  = 4 // + separation measures and contributions
	DepthSensitivity = 5 // + weight-perturbation sensitivity

	DepthDefault = DepthRaw
)

// RawValues echoes the forwarder's raw decision attributes.
type RawValues struct {
	Cost        float64 `json:"cost" yaml:"cost"`
	Time        float64 `json:"time" yaml:"time"`
	Reliability float64 `json:"reliability" yaml:"reliability"`
	Tracking    bool    `json:"tracking" yaml:"tracking"`
}

// SeparationDetail reports the distances to the reference points and the
// per-criterion contribution share of the closeness score.
type SeparationDetail struct {
	Ideal         float64            `json:"ideal" yaml:"ideal"`
	AntiIdeal     float64            `json:"anti_ideal" yaml:"antiIdeal"`
	Contributions map[string]float64 `json:"contributions" yaml:"contributions"`
}

// SensitivityEntry is one weight-perturbation run: the named criterion's
// weight scaled by (1 + Perturbation), vector renormalized, score
// recomputed.
type SensitivityEntry struct {
	Criterion      string  `json:"criterion" yaml:"criterion"`
	Perturbation   float64 `json:"perturbation" yaml:"perturbation"`
	ScoreChangePct float64 `json:"score_change_pct" yaml:"scoreChangePct"`
}

// SensitivityReport characterizes local ranking robustness under weight
// perturbation.
type SensitivityReport struct {
	Entries []SensitivityEntry `json:"entries" yaml:"entries"`
}

// RankedResult is one forwarder's final ranking record. Detail fields
// beyond rank and score are populated according to the requested analysis
// depth.
type RankedResult struct {
	ID          string             `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string             `json:"name" yaml:"name"`
	Rank        int                `json:"rank" yaml:"rank"`
	Score       float64            `json:"score" yaml:"score"`
	Factors     map[string]float64 `json:"factors,omitempty" yaml:"factors,omitempty"`
	Raw         *RawValues         `json:"raw,omitempty" yaml:"raw,omitempty"`
	Separation  *SeparationDetail  `json:"separation,omitempty" yaml:"separation,omitempty"`
	Sensitivity *SensitivityReport `json:"sensitivity,omitempty" yaml:"sensitivity,omitempty"`
}
