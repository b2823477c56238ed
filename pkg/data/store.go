package data

import (
	"database/sql"

	"github.com/deepcal/deepcal/pkg/snapshot"
	"github.com/pkg/errors"
)

const (
	selectRouteByEndpointsSQL = `SELECT id, origin, destination, transit_days
		FROM route
		WHERE origin = ? AND destination = ?
		LIMIT 1
	`

	selectRateCardsSQL = `SELECT id, route_id, forwarder_id, cargo_type, base_cost
		FROM rate_card
		WHERE route_id = ? AND cargo_type = ?
		ORDER BY id
	`

	selectForwarderSQL = `SELECT id, name FROM forwarder WHERE id = ?`

	selectServiceSQL = `SELECT id, forwarder_id, tracking
		FROM forwarder_service
		WHERE forwarder_id = ?
		LIMIT 1
	`

	selectAnalyticsSQL = `SELECT id, route_id, forwarder_id, reliability
		FROM performance_analytics
		WHERE route_id = ? AND forwarder_id = ?
		LIMIT 1
	`

	selectLastSyncSQL = `SELECT last_sync FROM sync_state WHERE id = 1`
)

// Store is the persisted local mirror. It satisfies the cascade's read
// surface; writes happen only through MergeSnapshot.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open mirror database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) RouteByEndpoints(origin, destination string) (*snapshot.Route, error) {
	if s.db == nil {
		return nil, errDBNotInitialized
	}

	var r snapshot.Route
	err := s.db.QueryRow(selectRouteByEndpointsSQL, origin, destination).
		Scan(&r.ID, &r.Origin, &r.Destination, &r.TransitDays)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query route")
	}
	return &r, nil
}

func (s *Store) RateCardsFor(routeID, cargoType string) ([]snapshot.RateCard, error) {
	if s.db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := s.db.Query(selectRateCardsSQL, routeID, cargoType)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(err, "failed to query rate cards")
	}
	defer rows.Close()

	var cards []snapshot.RateCard
	for rows.Next() {
		var rc snapshot.RateCard
		if err := rows.Scan(&rc.ID, &rc.RouteID, &rc.ForwarderID, &rc.CargoType, &rc.BaseCost); err != nil {
			return nil, errors.Wrap(err, "failed to scan rate card row")
		}
		cards = append(cards, rc)
	}
	return cards, rows.Err()
}

func (s *Store) ForwarderByID(id string) (*snapshot.Forwarder, error) {
	if s.db == nil {
		return nil, errDBNotInitialized
	}

	var fwd snapshot.Forwarder
	err := s.db.QueryRow(selectForwarderSQL, id).Scan(&fwd.ID, &fwd.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query forwarder: %s", id)
	}
	return &fwd, nil
}

func (s *Store) ServiceFor(forwarderID string) (*snapshot.Service, error) {
	if s.db == nil {
		return nil, errDBNotInitialized
	}

	var svc snapshot.Service
	var tracking int
	err := s.db.QueryRow(selectServiceSQL, forwarderID).Scan(&svc.ID, &svc.ForwarderID, &tracking)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query service for: %s", forwarderID)
	}
	svc.Tracking = tracking != 0
	return &svc, nil
}

func (s *Store) AnalyticsFor(routeID, forwarderID string) (*snapshot.Analytics, error) {
	if s.db == nil {
		return nil, errDBNotInitialized
	}

	var pa snapshot.Analytics
	err := s.db.QueryRow(selectAnalyticsSQL, routeID, forwarderID).
		Scan(&pa.ID, &pa.RouteID, &pa.ForwarderID, &pa.Reliability)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query analytics")
	}
	return &pa, nil
}

// LastSync returns the time of the last snapshot merge, empty when the
// mirror has never been synced.
func (s *Store) LastSync() (string, error) {
	if s.db == nil {
		return "", errDBNotInitialized
	}

	var ts string
	err := s.db.QueryRow(selectLastSyncSQL).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to query sync state")
	}
	return ts, nil
}
