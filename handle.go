package rangeseek

import (
	"github.com/teranos/rangeseek/trip"
)

// Side identifies one of the two handles, or neither.
type Side int

const (
	SideNone Side = iota
	SideLesser
	SideLarger
)

func (s Side) String() string {
	switch s {
	case SideLesser:
		return "lesser"
	case SideLarger:
		return "larger"
	default:
		return "none"
	}
}

// Size is the intrinsic pixel size of a handle glyph.
type Size struct {
	Width  float64
	Height float64
}

// Point is a pixel position.
type Point struct {
	X float64
	Y float64
}

// Rect is a pixel rectangle with inclusive edges.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Expand grows the rectangle by d on every side.
func (r Rect) Expand(d float64) Rect {
	return Rect{Left: r.Left - d, Top: r.Top - d, Right: r.Right + d, Bottom: r.Bottom + d}
}

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// ChangeFunc is called by a handle after a committed step change.
type ChangeFunc func(h *Handle, progress float64, fromUser bool)

// Handle owns the quantized state of one end of the range.
//
// Its progress, center and bounds are all derived from the current step and
// the axis it was last placed on.
type Handle struct {
	side     Side
	size     Size
	axis     Axis
	step     int
	center   Point
	bounds   Rect
	onChange ChangeFunc
}

// NewHandle creates a handle at step 0 on axis.
func NewHandle(side Side, axis Axis, size Size) *Handle {
	h := &Handle{side: side, size: size}
	h.place(axis)
	return h
}

// OnChange sets the single listener notified of committed step changes.
func (h *Handle) OnChange(fn ChangeFunc) {
	h.onChange = fn
}

// place lays the handle out on a new axis, keeping its step.
func (h *Handle) place(axis Axis) {
	h.axis = axis
	h.step = axis.clampStep(h.step)
	h.refresh()
}

func (h *Handle) refresh() {
	track := h.axis.Track()
	cx := h.axis.StepToPixel(h.step)
	h.center = Point{X: cx, Y: track.Top + h.size.Height/2}
	h.bounds = Rect{
		Left:   cx - h.size.Width/2,
		Top:    track.Top,
		Right:  cx + h.size.Width/2,
		Bottom: track.Top + h.size.Height,
	}
}

// SetProgress moves the handle to the step nearest value without marking
// the change as user-driven.
//
// Fails with ErrOutOfRange when value is outside [min, max]; the handle is
// left untouched.
func (h *Handle) SetProgress(value float64) error {
	if !h.axis.Contains(value) {
		return trip.NewTrip(trip.OutOfRange, "progress must be between min and max", trip.Context{
			"side":  h.side.String(),
			"value": value,
			"min":   h.axis.Min(),
			"max":   h.axis.Max(),
		})
	}
	h.SetStep(h.axis.StepForValue(value), false, true)
	return nil
}

// SetStep clamps step into [0, steps] and commits it. Nothing happens when
// the clamped step equals the current one; otherwise the listener is
// notified if emit is set.
func (h *Handle) SetStep(step int, fromUser, emit bool) {
	step = h.axis.clampStep(step)
	if step == h.step {
		return
	}
	h.step = step
	h.refresh()
	if emit && h.onChange != nil {
		h.onChange(h, h.Progress(), fromUser)
	}
}

// HitTest reports whether (x, y) falls on the handle's drawn bounds grown by
// tolerance on both axes.
func (h *Handle) HitTest(x, y, tolerance float64) bool {
	return h.bounds.Expand(tolerance).Contains(x, y)
}

func (h *Handle) Side() Side        { return h.side }
func (h *Handle) Step() int         { return h.step }
func (h *Handle) Progress() float64 { return h.axis.Progress(h.step) }
func (h *Handle) Center() Point     { return h.center }
func (h *Handle) Bounds() Rect      { return h.bounds }
func (h *Handle) Size() Size        { return h.size }
