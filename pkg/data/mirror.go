package data

import (
	"time"

	"github.com/deepcal/deepcal/pkg/snapshot"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	upsertForwarderSQL = `INSERT INTO forwarder (id, name)
		VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = ?
	`

	upsertRouteSQL = `INSERT INTO route (id, origin, destination, transit_days)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			origin = ?,
			destination = ?,
			transit_days = ?
	`

	upsertRateCardSQL = `INSERT INTO rate_card (id, route_id, forwarder_id, cargo_type, base_cost)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			route_id = ?,
			forwarder_id = ?,
			cargo_type = ?,
			base_cost = ?
	`

	upsertServiceSQL = `INSERT INTO forwarder_service (id, forwarder_id, tracking)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			forwarder_id = ?,
			tracking = ?
	`

	upsertAnalyticsSQL = `INSERT INTO performance_analytics (id, route_id, forwarder_id, reliability)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			route_id = ?,
			forwarder_id = ?,
			reliability = ?
	`

	upsertSyncStateSQL = `INSERT INTO sync_state (id, last_sync)
		VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET
			last_sync = ?
	`
)

// MergeResult summarizes one snapshot merge.
type MergeResult struct {
	Forwarders int    `json:"forwarders" yaml:"forwarders"`
	Routes     int    `json:"routes" yaml:"routes"`
	RateCards  int    `json:"rate_cards" yaml:"rateCards"`
	Services   int    `json:"services" yaml:"services"`
	Analytics  int    `json:"analytics" yaml:"analytics"`
	SyncedAt   string `json:"synced_at" yaml:"syncedAt"`
}

// MergeSnapshot folds a live snapshot into the mirror, keyed by record id:
// existing record fields are overwritten by incoming fields, new ids are
// appended. The whole merge runs in one transaction.
func (s *Store) MergeSnapshot(snap *snapshot.Snapshot) (*MergeResult, error) {
	if s.db == nil {
		return nil, errDBNotInitialized
	}
	if snap.Empty() {
		return nil, errors.New("empty snapshot")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin merge transaction")
	}

	res := &MergeResult{
		SyncedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, fwd := range snap.Forwarders {
		if _, err := tx.Exec(upsertForwarderSQL, fwd.ID, fwd.Name, fwd.Name); err != nil {
			rollbackTransaction(tx)
			return nil, errors.Wrapf(err, "failed to upsert forwarder: %s", fwd.ID)
		}
		res.Forwarders++
	}

	for _, r := range snap.Routes {
		if _, err := tx.Exec(upsertRouteSQL,
			r.ID, r.Origin, r.Destination, r.TransitDays,
			r.Origin, r.Destination, r.TransitDays); err != nil {
			rollbackTransaction(tx)
			return nil, errors.Wrapf(err, "failed to upsert route: %s", r.ID)
		}
		res.Routes++
	}

	for _, rc := range snap.RateCards {
		if _, err := tx.Exec(upsertRateCardSQL,
			rc.ID, rc.RouteID, rc.ForwarderID, rc.CargoType, rc.BaseCost,
			rc.RouteID, rc.ForwarderID, rc.CargoType, rc.BaseCost); err != nil {
			rollbackTransaction(tx)
			return nil, errors.Wrapf(err, "failed to upsert rate card: %s", rc.ID)
		}
		res.RateCards++
	}

	for _, svc := range snap.Services {
		tracking := 0
		if svc.Tracking {
			tracking = 1
		}
		if _, err := tx.Exec(upsertServiceSQL,
			svc.ID, svc.ForwarderID, tracking,
			svc.ForwarderID, tracking); err != nil {
			rollbackTransaction(tx)
			return nil, errors.Wrapf(err, "failed to upsert service: %s", svc.ID)
		}
		res.Services++
	}

	for _, pa := range snap.Analytics {
		if _, err := tx.Exec(upsertAnalyticsSQL,
			pa.ID, pa.RouteID, pa.ForwarderID, pa.Reliability,
			pa.RouteID, pa.ForwarderID, pa.Reliability); err != nil {
			rollbackTransaction(tx)
			return nil, errors.Wrapf(err, "failed to upsert analytics: %s", pa.ID)
		}
		res.Analytics++
	}

	if _, err := tx.Exec(upsertSyncStateSQL, res.SyncedAt, res.SyncedAt); err != nil {
		rollbackTransaction(tx)
		return nil, errors.Wrap(err, "failed to update sync state")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit merge transaction")
	}

	log.Debugf("merged snapshot into mirror: %+v", res)
	return res, nil
}
