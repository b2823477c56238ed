package main

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/deepcal/deepcal/pkg/config"
	"github.com/deepcal/deepcal/pkg/data"
	"github.com/deepcal/deepcal/pkg/engine"
	"github.com/deepcal/deepcal/pkg/resolve"
	"github.com/deepcal/deepcal/pkg/snapshot"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var (
	originFlag = &cli.StringFlag{
		Name:     "origin",
		Aliases:  []string{"o"},
		Usage:    "Shipment origin",
		Required: true,
	}

	destinationFlag = &cli.StringFlag{
		Name:     "destination",
		Aliases:  []string{"d"},
		Usage:    "Shipment destination",
		Required: true,
	}

	cargoFlag = &cli.StringFlag{
		Name:  "cargo",
		Usage: "Cargo type",
		Value: "general",
	}

	urgencyFlag = &cli.StringFlag{
		Name:    "urgency",
		Aliases: []string{"u"},
		Usage:   "Urgency level [standard, express, rush]",
	}

	depthFlag = &cli.IntFlag{
		Name:  "depth",
		Usage: "Analysis depth (1-5)",
	}

	extensionFlag = &cli.StringFlag{
		Name:  "extension",
		Usage: "Score extension [none, neutrosophic, grey]",
		Value: "none",
	}

	uncertaintyFlag = &cli.Float64Flag{
		Name:  "uncertainty",
		Usage: "Neutrosophic indeterminacy parameter",
	}

	deltaFlag = &cli.Float64Flag{
		Name:  "delta",
		Usage: "Grey interval half-width",
	}

	snapshotFlag = &cli.StringFlag{
		Name:  "snapshot",
		Usage: "Live snapshot source (file path or base URL)",
	}

	trainingFlag = &cli.StringFlag{
		Name:  "training",
		Usage: "Path to training-data file (optional)",
	}

	weightsFlag = &cli.StringFlag{
		Name:  "weights",
		Usage: "Comma-separated criterion weights (e.g. 0.4,0.3,0.2,0.1)",
	}

	pairwiseFlag = &cli.StringFlag{
		Name:  "pairwise",
		Usage: "Path to a yaml pairwise-comparison matrix to derive weights from",
	}

	rankCmd = &cli.Command{
		Name:    "rank",
		Aliases: []string{"r"},
		Usage:   "Rank forwarders for a route",
		Action:  cmdRank,
		Flags: []cli.Flag{
			originFlag,
			destinationFlag,
			cargoFlag,
			urgencyFlag,
			depthFlag,
			extensionFlag,
			uncertaintyFlag,
			deltaFlag,
			snapshotFlag,
			trainingFlag,
			weightsFlag,
			pairwiseFlag,
		},
	}
)

// rankRequest is the full ranking input shared by the CLI and the server.
type rankRequest struct {
	Origin      string             `json:"origin" yaml:"origin"`
	Destination string             `json:"destination" yaml:"destination"`
	CargoType   string             `json:"cargo_type" yaml:"cargoType"`
	Urgency     string             `json:"urgency,omitempty" yaml:"urgency,omitempty"`
	Depth       int                `json:"depth,omitempty" yaml:"depth,omitempty"`
	Extension   string             `json:"extension,omitempty" yaml:"extension,omitempty"`
	Uncertainty float64            `json:"uncertainty,omitempty" yaml:"uncertainty,omitempty"`
	Delta       float64            `json:"delta,omitempty" yaml:"delta,omitempty"`
	Weights     []float64          `json:"weights,omitempty" yaml:"weights,omitempty"`
	Pairwise    [][]float64        `json:"pairwise,omitempty" yaml:"pairwise,omitempty"`
	Snapshot    *snapshot.Snapshot `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
	Training    *engine.Training   `json:"training,omitempty" yaml:"training,omitempty"`
	Forwarders  []map[string]any   `json:"forwarders,omitempty" yaml:"forwarders,omitempty"`
}

type rankResponse struct {
	Origin      string                `json:"origin" yaml:"origin"`
	Destination string                `json:"destination" yaml:"destination"`
	CargoType   string                `json:"cargo_type" yaml:"cargoType"`
	DataSource  resolve.Tier          `json:"data_source" yaml:"dataSource"`
	Urgency     engine.Urgency        `json:"urgency" yaml:"urgency"`
	Depth       int                   `json:"analysis_depth" yaml:"analysisDepth"`
	Extension   string                `json:"extension" yaml:"extension"`
	Weights     map[string]float64    `json:"weights" yaml:"weights"`
	Skipped     []*engine.SchemaError `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Results     []engine.RankedResult `json:"results" yaml:"results"`
}

func cmdRank(c *cli.Context) error {
	cfg := getConfig(c)

	req := &rankRequest{
		Origin:      c.String(originFlag.Name),
		Destination: c.String(destinationFlag.Name),
		CargoType:   c.String(cargoFlag.Name),
		Urgency:     c.String(urgencyFlag.Name),
		Depth:       c.Int(depthFlag.Name),
		Extension:   c.String(extensionFlag.Name),
		Uncertainty: c.Float64(uncertaintyFlag.Name),
		Delta:       c.Float64(deltaFlag.Name),
	}

	if v := c.String(weightsFlag.Name); v != "" {
		w, err := parseWeights(v)
		if err != nil {
			return err
		}
		req.Weights = w
	}

	if path := c.String(pairwiseFlag.Name); path != "" {
		m, err := loadPairwiseMatrix(path)
		if err != nil {
			return err
		}
		req.Pairwise = m
	}

	if src := c.String(snapshotFlag.Name); src != "" {
		snap, err := loadSnapshot(c.Context, src)
		if err != nil {
			return err
		}
		req.Snapshot = snap
	}

	trainingPath := c.String(trainingFlag.Name)
	if trainingPath == "" {
		trainingPath = cfg.Conf.TrainingPath
	}
	t, err := engine.LoadTraining(trainingPath)
	if err != nil {
		return err
	}
	req.Training = t

	res, err := runRank(data.NewStore(cfg.DB), cfg.Conf, req)
	if err != nil {
		return err
	}
	return encode(res)
}

// runRank wires the pipeline: resolve forwarders, derive or validate
// weights, rank, and assemble the response envelope.
func runRank(store *data.Store, conf *config.Config, req *rankRequest) (*rankResponse, error) {
	var (
		table *engine.Table
		tier  resolve.Tier
		err   error
	)

	if len(req.Forwarders) > 0 {
		// Caller-supplied raw records bypass the cascade.
		table, err = engine.BuildTable(req.Forwarders)
		if err != nil {
			return nil, err
		}
		tier = resolve.TierLive
	} else {
		resolver := &resolve.Resolver{Mirror: store}
		var forwarders []engine.Forwarder
		forwarders, tier, err = resolver.Resolve(req.Origin, req.Destination, req.CargoType, req.Snapshot)
		if err != nil {
			return nil, err
		}
		table = engine.NewTable(forwarders)
	}

	criteria := table.Criteria()

	w := engine.Weights(req.Weights)
	if len(req.Pairwise) > 0 {
		w, err = engine.DeriveWeights(req.Pairwise)
		if err != nil {
			return nil, err
		}
	}
	if len(w) == 0 {
		w = engine.DefaultWeights()
	}

	urgency := req.Urgency
	if urgency == "" && conf != nil {
		urgency = conf.DefaultUrgency
	}

	depth := req.Depth
	if depth == 0 && conf != nil {
		depth = conf.DefaultDepth
	}

	ext := engine.ParseExtension(req.Extension, req.Uncertainty, req.Delta)

	results, err := engine.Rank(engine.RankRequest{
		Table:     table,
		Weights:   w,
		Criteria:  criteria,
		Urgency:   engine.ParseUrgency(urgency),
		Depth:     depth,
		Extension: ext,
		Training:  req.Training,
	})
	if err != nil {
		return nil, err
	}

	fitted, err := w.Fit(len(criteria))
	if err != nil {
		return nil, err
	}
	named := make(map[string]float64, len(criteria))
	for i, c := range criteria {
		named[c.Name] = fitted[i]
	}

	return &rankResponse{
		Origin:      req.Origin,
		Destination: req.Destination,
		CargoType:   req.CargoType,
		DataSource:  tier,
		Urgency:     engine.ParseUrgency(urgency),
		Depth:       depth,
		Extension:   ext.Mode(),
		Weights:     named,
		Skipped:     table.Skipped,
		Results:     results,
	}, nil
}

func parseWeights(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	w := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Errorf("invalid weight: %q", p)
		}
		w = append(w, v)
	}
	return w, nil
}

func loadPairwiseMatrix(path string) ([][]float64, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var m [][]float64
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrapf(err, "error parsing pairwise matrix: %s", path)
	}
	return m, nil
}

func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading file: %s", path)
	}
	return b, nil
}

func loadSnapshot(ctx context.Context, src string) (*snapshot.Snapshot, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return snapshot.Fetch(ctx, src)
	}
	return snapshot.Load(src)
}
