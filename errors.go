package rangeseek

import "github.com/teranos/rangeseek/trip"

// Error kinds returned by the slider. Every error is a *trip.Trip whose
// Type matches one of these, so callers test with errors.Is:
//
//	if errors.Is(err, rangeseek.ErrInvalidRange) { ... }
var (
	// ErrConfiguration rejects an unusable scale, geometry or gap. The slider
	// is not usable until it is constructed with valid values.
	ErrConfiguration error = trip.Configuration

	// ErrInvalidRange rejects a lesser value above the larger one.
	ErrInvalidRange error = trip.InvalidRange

	// ErrOutOfRange rejects a value outside [min, max].
	ErrOutOfRange error = trip.OutOfRange
)

func configurationTrip(message string, context trip.Context) *trip.Trip {
	return trip.NewFall(trip.Configuration, message, context)
}
