package main

import (
	"github.com/deepcal/deepcal/pkg/engine"
	"github.com/urfave/cli/v2"
)

var (
	pairwiseRequiredFlag = &cli.StringFlag{
		Name:     "pairwise",
		Usage:    "Path to a yaml pairwise-comparison matrix",
		Required: true,
	}

	weightsCmd = &cli.Command{
		Name:    "weights",
		Aliases: []string{"w"},
		Usage:   "Derive a priority weight vector from a pairwise-comparison matrix",
		Action:  cmdWeights,
		Flags: []cli.Flag{
			pairwiseRequiredFlag,
			urgencyFlag,
		},
	}
)

type weightsResponse struct {
	Weights engine.Weights     `json:"weights" yaml:"weights"`
	Named   map[string]float64 `json:"named,omitempty" yaml:"named,omitempty"`
	Urgency engine.Urgency     `json:"urgency,omitempty" yaml:"urgency,omitempty"`
}

func cmdWeights(c *cli.Context) error {
	m, err := loadPairwiseMatrix(c.String(pairwiseRequiredFlag.Name))
	if err != nil {
		return err
	}

	w, err := engine.DeriveWeights(m)
	if err != nil {
		return err
	}

	res := &weightsResponse{Weights: w}

	// The named view and urgency adjustment only apply when the matrix
	// matches the standard criteria set.
	criteria := engine.DefaultCriteria()
	if len(w) == len(criteria) {
		if u := c.String(urgencyFlag.Name); u != "" {
			res.Urgency = engine.ParseUrgency(u)
			w = engine.AdjustForUrgency(w, criteria, res.Urgency)
			res.Weights = w
		}
		res.Named = make(map[string]float64, len(criteria))
		for i, crit := range criteria {
			res.Named[crit.Name] = w[i]
		}
	}

	return encode(res)
}
