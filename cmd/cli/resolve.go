package main

import (
	"github.com/deepcal/deepcal/pkg/data"
	"github.com/deepcal/deepcal/pkg/engine"
	"github.com/deepcal/deepcal/pkg/resolve"
	"github.com/urfave/cli/v2"
)

var resolveCmd = &cli.Command{
	Name:   "resolve",
	Usage:  "Resolve the forwarder set for a route without ranking",
	Action: cmdResolve,
	Flags: []cli.Flag{
		originFlag,
		destinationFlag,
		cargoFlag,
		snapshotFlag,
	},
}

type resolveResponse struct {
	Origin      string             `json:"origin" yaml:"origin"`
	Destination string             `json:"destination" yaml:"destination"`
	CargoType   string             `json:"cargo_type" yaml:"cargoType"`
	DataSource  resolve.Tier       `json:"data_source" yaml:"dataSource"`
	Forwarders  []engine.Forwarder `json:"forwarders" yaml:"forwarders"`
}

func cmdResolve(c *cli.Context) error {
	cfg := getConfig(c)

	var err error
	req := &rankRequest{
		Origin:      c.String(originFlag.Name),
		Destination: c.String(destinationFlag.Name),
		CargoType:   c.String(cargoFlag.Name),
	}

	if src := c.String(snapshotFlag.Name); src != "" {
		req.Snapshot, err = loadSnapshot(c.Context, src)
		if err != nil {
			return err
		}
	}

	resolver := &resolve.Resolver{Mirror: data.NewStore(cfg.DB)}
	forwarders, tier, err := resolver.Resolve(req.Origin, req.Destination, req.CargoType, req.Snapshot)
	if err != nil {
		return err
	}

	return encode(&resolveResponse{
		Origin:      req.Origin,
		Destination: req.Destination,
		CargoType:   req.CargoType,
		DataSource:  tier,
		Forwarders:  forwarders,
	})
}
