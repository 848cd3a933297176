package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	// Use UUID v7 for time-ordered, sortable IDs
	// Falls back to v4 if v7 is not available (for compatibility)
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific identifier types
type (
	// RegionID identifies an atomic administrative region (a district) or a
	// coarser grouping (a metro area). It is opaque: the flow and correlation
	// code never parses it, only compares and maps it.
	RegionID string

	// MetricKey names a metric series, e.g. "hpi_change" or "net_migration".
	MetricKey string

	// SourceID identifies a configured upstream data source.
	SourceID ID
)

// String conversions for domain IDs
func (id RegionID) String() string { return string(id) }
func (k MetricKey) String() string { return string(k) }
func (id SourceID) String() string { return ID(id).String() }

// ParseRegionID parses a string into a RegionID
func ParseRegionID(s string) (RegionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("region ID cannot be empty")
	}
	return RegionID(s), nil
}

// ParseMetricKey parses a string into a MetricKey
func ParseMetricKey(s string) (MetricKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("metric key cannot be empty")
	}
	return MetricKey(s), nil
}
