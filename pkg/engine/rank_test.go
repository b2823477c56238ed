package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankFixture() *Table {
	return NewTable([]Forwarder{
		{ID: "f1", Name: "AfricaLogistics", Cost: 1200, Time: 14, Reliability: 0.85, Tracking: true},
		{ID: "f2", Name: "GlobalFreight", Cost: 950, Time: 18, Reliability: 0.78, Tracking: false},
		{ID: "f3", Name: "ExpressShip", Cost: 1450, Time: 10, Reliability: 0.92, Tracking: true},
	})
}

func TestRank_Validation(t *testing.T) {
	_, err := Rank(RankRequest{})
	assert.Error(t, err)

	_, err = Rank(RankRequest{Table: rankFixture(), Depth: 9})
	assert.Error(t, err)

	_, err = Rank(RankRequest{Table: rankFixture(), Weights: Weights{0.5, 0.5}})
	assert.Error(t, err)
}

func TestRank_Standard(t *testing.T) {
	results, err := Rank(RankRequest{Table: rankFixture()})
	require.NoError(t, err)
	require.Len(t, results, 3)

	// cost-heavy default weights favor the balanced option
	assert.Equal(t, "AfricaLogistics", results[0].Name)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, 2, results[1].Rank)
	assert.Equal(t, 3, results[2].Rank)
	assert.Equal(t, "GlobalFreight", results[2].Name)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRank_RushFavorsFastest(t *testing.T) {
	results, err := Rank(RankRequest{Table: rankFixture(), Urgency: UrgencyRush})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "ExpressShip", results[0].Name)
}

func TestRank_DepthGating(t *testing.T) {
	tests := []struct {
		depth       int
		factors     bool
		raw         bool
		separation  bool
		sensitivity bool
	}{
		{DepthScore, false, false, false, false},
		{DepthFactors, true, false, false, false},
		{DepthRaw, true, true, false, false},
		{DepthSeparation, true, true, true, false},
		{DepthSensitivity, true, true, true, true},
	}

	for _, tc := range tests {
		results, err := Rank(RankRequest{Table: rankFixture(), Depth: tc.depth})
		require.NoError(t, err)
		r := results[0]

		assert.NotEmpty(t, r.Name)
		assert.Equal(t, tc.factors, r.Factors != nil, "depth %d factors", tc.depth)
		assert.Equal(t, tc.raw, r.Raw != nil, "depth %d raw", tc.depth)
		assert.Equal(t, tc.separation, r.Separation != nil, "depth %d separation", tc.depth)
		assert.Equal(t, tc.sensitivity, r.Sensitivity != nil, "depth %d sensitivity", tc.depth)
	}
}

func TestRank_DefaultDepth(t *testing.T) {
	results, err := Rank(RankRequest{Table: rankFixture()})
	require.NoError(t, err)
	r := results[0]
	assert.NotNil(t, r.Factors)
	assert.NotNil(t, r.Raw)
	assert.Nil(t, r.Separation)
	assert.Nil(t, r.Sensitivity)
}

func TestRank_RawEchoesInput(t *testing.T) {
	results, err := Rank(RankRequest{Table: rankFixture(), Depth: DepthRaw})
	require.NoError(t, err)

	for _, r := range results {
		if r.Name == "ExpressShip" {
			require.NotNil(t, r.Raw)
			assert.Equal(t, 1450.0, r.Raw.Cost)
			assert.Equal(t, 10.0, r.Raw.Time)
			assert.Equal(t, 0.92, r.Raw.Reliability)
			assert.True(t, r.Raw.Tracking)
		}
	}
}

func TestRank_Sensitivity(t *testing.T) {
	results, err := Rank(RankRequest{Table: rankFixture(), Depth: DepthSensitivity})
	require.NoError(t, err)

	for _, r := range results {
		require.NotNil(t, r.Sensitivity)
		// cost, time, reliability at +10% and -10% each
		assert.Len(t, r.Sensitivity.Entries, 6)
		for _, e := range r.Sensitivity.Entries {
			assert.Contains(t, []string{CriterionCost, CriterionTime, CriterionReliability}, e.Criterion)
			assert.Contains(t, []float64{0.1, -0.1}, e.Perturbation)
		}
	}
}

func TestRank_TrainingMultiplierReRanks(t *testing.T) {
	baseline, err := Rank(RankRequest{Table: rankFixture()})
	require.NoError(t, err)
	require.Equal(t, "AfricaLogistics", baseline[0].Name)

	// a strong penalty on the baseline winner drops it below the rest
	results, err := Rank(RankRequest{
		Table:    rankFixture(),
		Training: &Training{ForwarderAdjustments: map[string]float64{"f1": 0.1}},
	})
	require.NoError(t, err)
	assert.NotEqual(t, "AfricaLogistics", results[0].Name)
	assert.Equal(t, "AfricaLogistics", results[2].Name)

	// ranks always reflect the post-adjustment order
	for i, r := range results {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestRank_TrainingMultiplierClamps(t *testing.T) {
	results, err := Rank(RankRequest{
		Table:    rankFixture(),
		Training: &Training{ForwarderAdjustments: map[string]float64{"f3": 100}},
	})
	require.NoError(t, err)

	for _, r := range results {
		if r.ID == "f3" {
			assert.Equal(t, 1.0, r.Score)
		}
	}
}

func TestRank_NoTrackingColumn(t *testing.T) {
	tbl, err := BuildTable([]map[string]any{
		{"id": "a", "name": "A", "cost": 100.0, "time": 10.0, "reliability": 0.9},
		{"id": "b", "name": "B", "cost": 200.0, "time": 12.0, "reliability": 0.7},
	})
	require.NoError(t, err)
	require.False(t, tbl.HasTracking)

	results, err := Rank(RankRequest{Table: tbl, Depth: DepthFactors})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "A", results[0].Name)
	assert.NotContains(t, results[0].Factors, CriterionTracking)
	assert.Contains(t, results[0].Factors, CriterionCost)
}

func TestRank_NeutrosophicKeepsOrder(t *testing.T) {
	plain, err := Rank(RankRequest{Table: rankFixture()})
	require.NoError(t, err)

	neut, err := Rank(RankRequest{Table: rankFixture(), Extension: Neutrosophic(0.1)})
	require.NoError(t, err)

	require.Len(t, neut, len(plain))
	for i := range plain {
		assert.Equal(t, plain[i].Name, neut[i].Name)
		assert.NotEqual(t, plain[i].Score, neut[i].Score)
	}
}

func TestRank_SingleForwarder(t *testing.T) {
	tbl := NewTable([]Forwarder{
		{ID: "only", Name: "Solo", Cost: 500, Time: 7, Reliability: 0.9, Tracking: true},
	})
	results, err := Rank(RankRequest{Table: tbl})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Rank)
	assert.GreaterOrEqual(t, results[0].Score, 0.0)
	assert.LessOrEqual(t, results[0].Score, 1.0)
}
