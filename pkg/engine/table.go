package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Forwarder is one row of the canonical decision table.
type Forwarder struct {
	ID          string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string  `json:"name" yaml:"name"`
	Cost        float64 `json:"cost" yaml:"cost"`
	Time        float64 `json:"time" yaml:"time"`
	Reliability float64 `json:"reliability" yaml:"reliability"`
	Tracking    bool    `json:"tracking" yaml:"tracking"`
	Source      string  `json:"source,omitempty" yaml:"source,omitempty"`
}

// SchemaError describes a raw record that could not be coerced into a
// table row.
type SchemaError struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

func (e *SchemaError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("record %d (%s): %s", e.Index, e.Name, e.Reason)
	}
	return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
}

// Table is the canonical numeric forwarder table. HasTracking reports
// whether any record supplied a tracking flag, which decides if the
// tracking column participates in scoring.
type Table struct {
	Forwarders  []Forwarder    `json:"forwarders"`
	HasTracking bool           `json:"has_tracking"`
	Skipped     []*SchemaError `json:"skipped,omitempty"`
}

// Criteria returns the criteria columns this table supports, in the fixed
// cost, time, reliability, tracking order.
func (t *Table) Criteria() []Criterion {
	c := DefaultCriteria()
	if !t.HasTracking {
		return c[:3]
	}
	return c
}

// Matrix renders the table as rows over the given criteria columns.
func (t *Table) Matrix(criteria []Criterion) [][]float64 {
	m := make([][]float64, len(t.Forwarders))
	for i, f := range t.Forwarders {
		row := make([]float64, len(criteria))
		for j, c := range criteria {
			switch c.Name {
			case CriterionCost:
				row[j] = f.Cost
			case CriterionTime:
				row[j] = f.Time
			case CriterionReliability:
				row[j] = f.Reliability
			case CriterionTracking:
				if f.Tracking {
					row[j] = 1
				}
			}
		}
		m[i] = row
	}
	return m
}

// BuildTable coerces heterogeneous forwarder records into a canonical
// table. Records that lack a name or carry uncoercible required fields are
// skipped and collected in Table.Skipped. The transform is pure.
func BuildTable(records []map[string]any) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New("no forwarder records")
	}

	t := &Table{
		Forwarders: make([]Forwarder, 0, len(records)),
	}

	for i, rec := range records {
		f, serr := coerceRecord(i, rec)
		if serr != nil {
			t.Skipped = append(t.Skipped, serr)
			continue
		}
		if _, ok := rec["tracking"]; ok {
			t.HasTracking = true
		}
		t.Forwarders = append(t.Forwarders, *f)
	}

	if len(t.Forwarders) == 0 {
		return nil, errors.Errorf("all %d records skipped", len(records))
	}
	return t, nil
}

// BuildTableStrict is BuildTable with a fail-the-batch policy: the first
// bad record aborts the whole build.
func BuildTableStrict(records []map[string]any) (*Table, error) {
	t, err := BuildTable(records)
	if err != nil {
		return nil, err
	}
	if len(t.Skipped) > 0 {
		return nil, t.Skipped[0]
	}
	return t, nil
}

func coerceRecord(idx int, rec map[string]any) (*Forwarder, *SchemaError) {
	name, ok := rec["name"].(string)
	if !ok || strings.TrimSpace(name) == "" {
		return nil, &SchemaError{Index: idx, Reason: "missing name"}
	}

	f := &Forwarder{Name: name}
	if id, ok := rec["id"].(string); ok {
		f.ID = id
	}

	for _, field := range []string{"cost", "time", "reliability"} {
		raw, ok := rec[field]
		if !ok {
			return nil, &SchemaError{Index: idx, Name: name, Reason: "missing " + field}
		}
		v, err := toFloat(raw)
		if err != nil {
			return nil, &SchemaError{Index: idx, Name: name, Reason: fmt.Sprintf("bad %s: %v", field, err)}
		}
		switch field {
		case "cost":
			if v < 0 {
				return nil, &SchemaError{Index: idx, Name: name, Reason: "negative cost"}
			}
			f.Cost = v
		case "time":
			if v < 0 {
				return nil, &SchemaError{Index: idx, Name: name, Reason: "negative time"}
			}
			f.Time = v
		case "reliability":
			// Percentages come in from older data sources.
			if v > 1 && v <= 100 {
				v /= 100
			}
			if v < 0 || v > 1 {
				return nil, &SchemaError{Index: idx, Name: name, Reason: fmt.Sprintf("reliability out of range: %f", v)}
			}
			f.Reliability = v
		}
	}

	if raw, ok := rec["tracking"]; ok {
		b, err := toBool(raw)
		if err != nil {
			return nil, &SchemaError{Index: idx, Name: name, Reason: fmt.Sprintf("bad tracking: %v", err)}
		}
		f.Tracking = b
	}

	return f, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, errors.Errorf("not a number: %q", n)
		}
		return f, nil
	default:
		return 0, errors.Errorf("unsupported type %T", v)
	}
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case int:
		return b != 0, nil
	case float64:
		return b != 0, nil
	case string:
		p, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, errors.Errorf("not a boolean: %q", b)
		}
		return p, nil
	default:
		return false, errors.Errorf("unsupported type %T", v)
	}
}
