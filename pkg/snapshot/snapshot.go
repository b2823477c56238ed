package snapshot

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Forwarder is a carrier identity record.
type Forwarder struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Route links an origin/destination pair with its typical transit time.
type Route struct {
	ID          string  `json:"id" yaml:"id"`
	Origin      string  `json:"origin" yaml:"origin"`
	Destination string  `json:"destination" yaml:"destination"`
	TransitDays float64 `json:"transit_days" yaml:"transitDays"`
}

// RateCard prices a forwarder on a route for a cargo type. The
// (route_id, cargo_type) join key must match exactly for a card to apply.
type RateCard struct {
	ID          string  `json:"id" yaml:"id"`
	RouteID     string  `json:"route_id" yaml:"routeId"`
	ForwarderID string  `json:"forwarder_id" yaml:"forwarderId"`
	CargoType   string  `json:"cargo_type" yaml:"cargoType"`
	BaseCost    float64 `json:"base_cost" yaml:"baseCost"`
}

// Service carries a forwarder's service flags.
type Service struct {
	ID          string `json:"id" yaml:"id"`
	ForwarderID string `json:"forwarder_id" yaml:"forwarderId"`
	Tracking    bool   `json:"tracking" yaml:"tracking"`
}

// Analytics is route/forwarder-specific performance data.
type Analytics struct {
	ID          string  `json:"id" yaml:"id"`
	RouteID     string  `json:"route_id" yaml:"routeId"`
	ForwarderID string  `json:"forwarder_id" yaml:"forwarderId"`
	Reliability float64 `json:"reliability" yaml:"reliability"`
}

// Snapshot is one tabular capture of the five record collections the
// resolution cascade joins over.
type Snapshot struct {
	Forwarders []Forwarder `json:"forwarders" yaml:"forwarders"`
	Routes     []Route     `json:"routes" yaml:"routes"`
	RateCards  []RateCard  `json:"rate_cards" yaml:"rateCards"`
	Services   []Service   `json:"forwarder_services" yaml:"forwarderServices"`
	Analytics  []Analytics `json:"performance_analytics" yaml:"performanceAnalytics"`
}

// Empty reports whether the snapshot carries no records at all.
func (s *Snapshot) Empty() bool {
	return s == nil ||
		len(s.Forwarders)+len(s.Routes)+len(s.RateCards)+len(s.Services)+len(s.Analytics) == 0
}

// Load reads a snapshot document from a JSON file.
func Load(path string) (*Snapshot, error) {
	if path == "" {
		return nil, errors.New("snapshot path not specified")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading snapshot: %s", path)
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, errors.Wrapf(err, "error parsing snapshot: %s", path)
	}
	return &s, nil
}

// The lookup methods below give the in-memory snapshot the same read
// surface as the persisted mirror, so the cascade can run one join against
// either. Joins are attribute-equality only; not-found is (nil, nil).

func (s *Snapshot) RouteByEndpoints(origin, destination string) (*Route, error) {
	for i := range s.Routes {
		if s.Routes[i].Origin == origin && s.Routes[i].Destination == destination {
			return &s.Routes[i], nil
		}
	}
	return nil, nil
}

func (s *Snapshot) RateCardsFor(routeID, cargoType string) ([]RateCard, error) {
	var cards []RateCard
	for _, rc := range s.RateCards {
		if rc.RouteID == routeID && rc.CargoType == cargoType {
			cards = append(cards, rc)
		}
	}
	return cards, nil
}

func (s *Snapshot) ForwarderByID(id string) (*Forwarder, error) {
	for i := range s.Forwarders {
		if s.Forwarders[i].ID == id {
			return &s.Forwarders[i], nil
		}
	}
	return nil, nil
}

func (s *Snapshot) ServiceFor(forwarderID string) (*Service, error) {
	for i := range s.Services {
		if s.Services[i].ForwarderID == forwarderID {
			return &s.Services[i], nil
		}
	}
	return nil, nil
}

func (s *Snapshot) AnalyticsFor(routeID, forwarderID string) (*Analytics, error) {
	for i := range s.Analytics {
		if s.Analytics[i].RouteID == routeID && s.Analytics[i].ForwarderID == forwarderID {
			return &s.Analytics[i], nil
		}
	}
	return nil, nil
}
