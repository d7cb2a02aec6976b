package rangeseek

import (
	"math"

	"github.com/teranos/rangeseek/trip"
)

// Scale is the value range a slider quantizes into Steps equal steps.
type Scale struct {
	Min   float64
	Max   float64
	Steps int
}

// Track is the pixel geometry of the slider track. Start and Length are
// horizontal; Top is the y of the handle row.
type Track struct {
	Start  float64
	Length float64
	Top    float64
}

// Axis maps pixel positions on the track to quantized steps and back.
//
// An Axis is an immutable value. When the track geometry changes a new Axis
// is built with WithTrack and swapped in whole.
type Axis struct {
	track    Track
	scale    Scale
	stepSize float64
}

// NewAxis validates the scale and track and returns the mapping between them.
//
// Fails with ErrConfiguration when Steps < 1, Max <= Min, Length < 0 or any
// bound is not finite.
func NewAxis(track Track, scale Scale) (Axis, error) {
	if !finite(scale.Min) || !finite(scale.Max) {
		return Axis{}, configurationTrip("min and max must be finite", trip.Context{
			"min": scale.Min,
			"max": scale.Max,
		})
	}
	if scale.Steps < 1 {
		return Axis{}, configurationTrip("stepCount must be at least 1", trip.Context{
			"steps": scale.Steps,
		})
	}
	if !(scale.Max > scale.Min) {
		return Axis{}, configurationTrip("max must be greater than min", trip.Context{
			"min": scale.Min,
			"max": scale.Max,
		})
	}
	if err := validateTrack(track); err != nil {
		return Axis{}, err
	}

	return Axis{
		track:    track,
		scale:    scale,
		stepSize: (scale.Max - scale.Min) / float64(scale.Steps),
	}, nil
}

func validateTrack(track Track) error {
	if !finite(track.Start) || !finite(track.Length) || !finite(track.Top) {
		return configurationTrip("track geometry must be finite", trip.Context{
			"start":  track.Start,
			"length": track.Length,
			"top":    track.Top,
		})
	}
	if track.Length < 0 {
		return configurationTrip("track length must not be negative", trip.Context{
			"length": track.Length,
		})
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// WithTrack returns a copy of the axis laid out on a new track.
func (a Axis) WithTrack(track Track) (Axis, error) {
	if err := validateTrack(track); err != nil {
		return Axis{}, err
	}
	a.track = track
	return a, nil
}

// PixelToStep returns the step nearest to pixel x. Positions outside the
// track are clamped to its ends, and a zero-length track maps everything to
// step 0.
func (a Axis) PixelToStep(x float64) int {
	if a.track.Length == 0 {
		return 0
	}

	end := a.track.Start + a.track.Length
	if x < a.track.Start {
		x = a.track.Start
	}
	if x > end {
		x = end
	}

	offset := (x - a.track.Start) / a.track.Length * (a.scale.Max - a.scale.Min)
	return a.clampStep(a.quantize(offset))
}

// StepToPixel returns the pixel position of step on the track.
func (a Axis) StepToPixel(step int) float64 {
	return a.track.Start + float64(step)*a.track.Length/float64(a.scale.Steps)
}

// StepForValue returns the step nearest to value, using the same rounding
// as PixelToStep. The value is not range-checked.
func (a Axis) StepForValue(value float64) int {
	return a.clampStep(a.quantize(value - a.scale.Min))
}

// quantize rounds up only when the remainder is strictly more than half a
// step. The remainder is taken from the same quotient as the floor; a
// separate math.Mod can disagree with it by a whole step when stepSize is
// not exactly representable.
func (a Axis) quantize(offset float64) int {
	q := offset / a.stepSize
	step := math.Floor(q)
	if q-step > 0.5 {
		step++
	}
	return int(step)
}

func (a Axis) clampStep(step int) int {
	if step < 0 {
		return 0
	}
	if step > a.scale.Steps {
		return a.scale.Steps
	}
	return step
}

// Progress returns the value at step.
func (a Axis) Progress(step int) float64 {
	return a.scale.Min + a.stepSize*float64(step)
}

// Contains reports whether value lies within [min, max].
func (a Axis) Contains(value float64) bool {
	return value >= a.scale.Min && value <= a.scale.Max
}

func (a Axis) StepSize() float64 { return a.stepSize }
func (a Axis) Steps() int        { return a.scale.Steps }
func (a Axis) Min() float64      { return a.scale.Min }
func (a Axis) Max() float64      { return a.scale.Max }
func (a Axis) Scale() Scale      { return a.scale }
func (a Axis) Track() Track      { return a.track }
