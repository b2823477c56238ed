package main

import (
	"github.com/deepcal/deepcal/pkg/data"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var (
	sourceFlag = &cli.StringFlag{
		Name:  "source",
		Usage: "Snapshot source to merge (file path or base URL)",
	}

	statusFlag = &cli.BoolFlag{
		Name:  "status",
		Usage: "Print mirror sync status instead of merging",
	}

	mirrorCmd = &cli.Command{
		Name:    "mirror",
		Aliases: []string{"m"},
		Usage:   "Merge a live snapshot into the local mirror",
		Action:  cmdMirror,
		Flags: []cli.Flag{
			sourceFlag,
			statusFlag,
		},
	}
)

type mirrorStatus struct {
	DBPath   string `json:"db_path" yaml:"dbPath"`
	LastSync string `json:"last_sync,omitempty" yaml:"lastSync,omitempty"`
}

func cmdMirror(c *cli.Context) error {
	cfg := getConfig(c)
	store := data.NewStore(cfg.DB)

	if c.Bool(statusFlag.Name) {
		last, err := store.LastSync()
		if err != nil {
			return err
		}
		return encode(&mirrorStatus{DBPath: cfg.DBPath, LastSync: last})
	}

	src := c.String(sourceFlag.Name)
	if src == "" {
		src = cfg.Conf.SnapshotURL
	}
	if src == "" {
		return errors.New("no snapshot source: pass --source or set snapshot_url in config")
	}

	snap, err := loadSnapshot(c.Context, src)
	if err != nil {
		return err
	}

	res, err := store.MergeSnapshot(snap)
	if err != nil {
		return err
	}
	return encode(res)
}
