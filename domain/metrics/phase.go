package metrics

import "fmt"

// MarketPhase is the quadrant label the upstream service derives from the
// signs of two change-rate metrics. It is consumed as-is for display and
// filtering; this codebase never computes it.
type MarketPhase string

const (
	PhaseExpansion MarketPhase = "expansion"
	PhaseSlowdown  MarketPhase = "slowdown"
	PhaseRecession MarketPhase = "recession"
	PhaseRecovery  MarketPhase = "recovery"
)

// Validate returns an error for labels outside the upstream vocabulary, so
// a drifting upstream enum is caught at the ingestion boundary rather than
// rendered verbatim.
func (p MarketPhase) Validate() error {
	switch p {
	case PhaseExpansion, PhaseSlowdown, PhaseRecession, PhaseRecovery:
		return nil
	}
	return fmt.Errorf("unknown market phase %q", string(p))
}

// String returns the string representation
func (p MarketPhase) String() string { return string(p) }
