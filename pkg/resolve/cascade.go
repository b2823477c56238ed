// Package resolve assembles the forwarder set eligible for a route by
// trying, in order, a live snapshot, the local mirror, and synthetic
// defaults. First non-empty tier wins.
package resolve

import (
	"github.com/deepcal/deepcal/pkg/engine"
	"github.com/deepcal/deepcal/pkg/snapshot"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Tier identifies which cascade tier produced the resolved forwarders.
type Tier string

const (
	TierLive      Tier = "live"
	TierMirror    Tier = "mirrored"
	TierSynthetic Tier = "synthetic"

	// reliabilityDefault applies when no performance analytics cover a
	// route/forwarder pair.
	reliabilityDefault = 0.8
)

// Source is the read surface shared by the in-memory snapshot and the
// persisted mirror. Not-found is (nil, nil); joins are attribute-equality
// only.
type Source interface {
	RouteByEndpoints(origin, destination string) (*snapshot.Route, error)
	RateCardsFor(routeID, cargoType string) ([]snapshot.RateCard, error)
	ForwarderByID(id string) (*snapshot.Forwarder, error)
	ServiceFor(forwarderID string) (*snapshot.Service, error)
	AnalyticsFor(routeID, forwarderID string) (*snapshot.Analytics, error)
}

// Resolver runs the cascade. Mirror is an injected read dependency so the
// cascade is testable with fixture data; nil disables the mirrored tier.
type Resolver struct {
	Mirror Source
}

// Resolve produces the forwarder list for an (origin, destination,
// cargo type) triple and reports the tier that produced it. The synthetic
// tier is non-empty by construction, so the cascade always terminates with
// a usable table.
func (r *Resolver) Resolve(origin, destination, cargoType string, snap *snapshot.Snapshot) ([]engine.Forwarder, Tier, error) {
	if origin == "" || destination == "" {
		return nil, "", errors.New("origin and destination are required")
	}
	if cargoType == "" {
		cargoType = "general"
	}

	if !snap.Empty() {
		list, err := collect(snap, origin, destination, cargoType, TierLive)
		if err != nil {
			return nil, "", errors.Wrap(err, "error resolving from live snapshot")
		}
		if len(list) > 0 {
			log.Debugf("resolved %d forwarders from live snapshot", len(list))
			return list, TierLive, nil
		}
	}

	if r.Mirror != nil {
		list, err := collect(r.Mirror, origin, destination, cargoType, TierMirror)
		if err != nil {
			return nil, "", errors.Wrap(err, "error resolving from mirror")
		}
		if len(list) > 0 {
			log.Debugf("resolved %d forwarders from mirror", len(list))
			return list, TierMirror, nil
		}
	}

	log.Debugf("no forwarders for %s -> %s (%s), using synthetic set", origin, destination, cargoType)
	return Synthetic(), TierSynthetic, nil
}

// collect runs the join: route by endpoints, rate cards by
// (route_id, cargo_type), forwarder by id, then cost from the rate card,
// time from the route, reliability from analytics, tracking from service
// flags.
func collect(src Source, origin, destination, cargoType string, tier Tier) ([]engine.Forwarder, error) {
	route, err := src.RouteByEndpoints(origin, destination)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, nil
	}

	cards, err := src.RateCardsFor(route.ID, cargoType)
	if err != nil {
		return nil, err
	}

	var list []engine.Forwarder
	for _, card := range cards {
		fwd, err := src.ForwarderByID(card.ForwarderID)
		if err != nil {
			return nil, err
		}
		if fwd == nil {
			log.Debugf("rate card %s references unknown forwarder: %s", card.ID, card.ForwarderID)
			continue
		}

		f := engine.Forwarder{
			ID:          fwd.ID,
			Name:        fwd.Name,
			Cost:        card.BaseCost,
			Time:        route.TransitDays,
			Reliability: reliabilityDefault,
			Source:      string(tier),
		}

		if pa, err := src.AnalyticsFor(route.ID, fwd.ID); err != nil {
			return nil, err
		} else if pa != nil {
			f.Reliability = pa.Reliability
		}

		if svc, err := src.ServiceFor(fwd.ID); err != nil {
			return nil, err
		} else if svc != nil {
			f.Tracking = svc.Tracking
		}

		list = append(list, f)
	}

	return list, nil
}
