package numerator

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// Zone is the civil time zone all period keys are computed in.
const Zone = "Asia/Dhaka"

// Deriver computes period keys in a fixed location.
type Deriver struct {
	loc *time.Location
}

var defaultDeriver = NewDeriver(mustLoadLocation(Zone))

// NewDeriver creates a Deriver for loc. A nil loc means UTC.
func NewDeriver(loc *time.Location) *Deriver {
	if loc == nil {
		loc = time.UTC
	}
	return &Deriver{loc: loc}
}

// Location returns the zone the deriver works in.
func (d *Deriver) Location() *time.Location {
	return d.loc
}

// Derive returns the allocation scope for now:
// YYMMDD for orders, PXCYYYYMM for customers.
func (d *Deriver) Derive(kind Kind, now time.Time) string {
	local := now.In(d.loc)
	switch kind {
	case KindOrder:
		return local.Format("060102")
	case KindCustomer:
		return CustomerPrefix + local.Format("200601")
	default:
		panic(fmt.Sprintf("numerator: unknown kind %d", int(kind)))
	}
}

// PeriodKey derives the key for now in Asia/Dhaka.
func PeriodKey(kind Kind, now time.Time) string {
	return defaultDeriver.Derive(kind, now)
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// tzdata is embedded, so this only fires on a misspelled name
		panic(fmt.Sprintf("numerator: load location %q: %v", name, err))
	}
	return loc
}
