package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecords() []map[string]any {
	return []map[string]any{
		{"id": "f1", "name": "AfricaLogistics", "cost": 1200.0, "time": 14.0, "reliability": 0.85, "tracking": true},
		{"id": "f2", "name": "GlobalFreight", "cost": 950.0, "time": 18.0, "reliability": 0.78, "tracking": false},
	}
}

func TestBuildTable(t *testing.T) {
	tbl, err := BuildTable(validRecords())
	require.NoError(t, err)
	require.Len(t, tbl.Forwarders, 2)
	assert.True(t, tbl.HasTracking)
	assert.Empty(t, tbl.Skipped)
	assert.Equal(t, "AfricaLogistics", tbl.Forwarders[0].Name)
	assert.Equal(t, 950.0, tbl.Forwarders[1].Cost)
}

func TestBuildTable_Empty(t *testing.T) {
	_, err := BuildTable(nil)
	assert.Error(t, err)
}

func TestBuildTable_SkipsBadRecords(t *testing.T) {
	records := append(validRecords(),
		map[string]any{"cost": 100.0, "time": 5.0, "reliability": 0.9},
		map[string]any{"name": "NoCost", "time": 5.0, "reliability": 0.9},
		map[string]any{"name": "BadTime", "cost": 100.0, "time": "soon", "reliability": 0.9},
	)

	tbl, err := BuildTable(records)
	require.NoError(t, err)
	assert.Len(t, tbl.Forwarders, 2)
	require.Len(t, tbl.Skipped, 3)
	assert.Equal(t, 2, tbl.Skipped[0].Index)
	assert.Contains(t, tbl.Skipped[0].Reason, "missing name")
	assert.Equal(t, "NoCost", tbl.Skipped[1].Name)
	assert.Contains(t, tbl.Skipped[2].Reason, "bad time")
}

func TestBuildTable_AllSkipped(t *testing.T) {
	_, err := BuildTable([]map[string]any{
		{"cost": 1.0},
		{"time": 2.0},
	})
	assert.Error(t, err)
}

func TestBuildTableStrict(t *testing.T) {
	_, err := BuildTableStrict(append(validRecords(),
		map[string]any{"name": "Broken", "cost": -5.0, "time": 1.0, "reliability": 0.5}))
	require.Error(t, err)

	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Broken", serr.Name)
	assert.Contains(t, serr.Reason, "negative cost")
}

func TestBuildTable_CoercesStrings(t *testing.T) {
	tbl, err := BuildTable([]map[string]any{
		{"name": "Stringly", "cost": "1200", "time": "14", "reliability": "0.85", "tracking": "true"},
	})
	require.NoError(t, err)
	require.Len(t, tbl.Forwarders, 1)
	f := tbl.Forwarders[0]
	assert.Equal(t, 1200.0, f.Cost)
	assert.Equal(t, 14.0, f.Time)
	assert.Equal(t, 0.85, f.Reliability)
	assert.True(t, f.Tracking)
}

func TestBuildTable_ReliabilityPercent(t *testing.T) {
	tbl, err := BuildTable([]map[string]any{
		{"name": "Percenty", "cost": 100.0, "time": 5.0, "reliability": 85.0},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.85, tbl.Forwarders[0].Reliability, 1e-9)

	_, err = BuildTableStrict([]map[string]any{
		{"name": "TooBig", "cost": 100.0, "time": 5.0, "reliability": 250.0},
	})
	assert.Error(t, err)
}

func TestBuildTable_NoTrackingColumn(t *testing.T) {
	tbl, err := BuildTable([]map[string]any{
		{"name": "A", "cost": 100.0, "time": 5.0, "reliability": 0.9},
		{"name": "B", "cost": 120.0, "time": 4.0, "reliability": 0.8},
	})
	require.NoError(t, err)
	assert.False(t, tbl.HasTracking)
	assert.Len(t, tbl.Criteria(), 3)
}

func TestTable_Matrix(t *testing.T) {
	tbl, err := BuildTable(validRecords())
	require.NoError(t, err)

	criteria := tbl.Criteria()
	require.Len(t, criteria, 4)

	m := tbl.Matrix(criteria)
	require.Len(t, m, 2)
	assert.Equal(t, []float64{1200, 14, 0.85, 1}, m[0])
	assert.Equal(t, []float64{950, 18, 0.78, 0}, m[1])
}

func TestSchemaError_Error(t *testing.T) {
	e := &SchemaError{Index: 3, Name: "Acme", Reason: "missing cost"}
	assert.Equal(t, "record 3 (Acme): missing cost", e.Error())

	e = &SchemaError{Index: 0, Reason: "missing name"}
	assert.Equal(t, "record 0: missing name", e.Error())
}
