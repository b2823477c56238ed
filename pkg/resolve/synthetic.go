package resolve

import "github.com/deepcal/deepcal/pkg/engine"

// Synthetic returns the fixed illustrative forwarder set used when neither
// the live snapshot nor the mirror cover a route. Values are plausible but
// not grounded in real data; every record is tier-tagged so callers can
// surface the provenance.
func Synthetic() []engine.Forwarder {
	return []engine.Forwarder{
		{ID: "syn-1", Name: "AfricaLogistics", Cost: 1200, Time: 14, Reliability: 0.85, Tracking: true, Source: string(TierSynthetic)},
		{ID: "syn-2", Name: "GlobalFreight", Cost: 950, Time: 18, Reliability: 0.78, Tracking: false, Source: string(TierSynthetic)},
		{ID: "syn-3", Name: "ExpressShip", Cost: 1450, Time: 10, Reliability: 0.92, Tracking: true, Source: string(TierSynthetic)},
		{ID: "syn-4", Name: "TransAfrica", Cost: 1100, Time: 15, Reliability: 0.80, Tracking: false, Source: string(TierSynthetic)},
		{ID: "syn-5", Name: "FastCargo", Cost: 1300, Time: 12, Reliability: 0.83, Tracking: true, Source: string(TierSynthetic)},
	}
}
