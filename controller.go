package rangeseek

import (
	"github.com/sirupsen/logrus"

	"github.com/teranos/rangeseek/trip"
)

// DragState is the pointer state of a Controller.
type DragState int

const (
	Idle DragState = iota
	DraggingLesser
	DraggingLarger
)

func (s DragState) String() string {
	switch s {
	case DraggingLesser:
		return "dragging_lesser"
	case DraggingLarger:
		return "dragging_larger"
	default:
		return "idle"
	}
}

// Side returns the handle being dragged, or SideNone.
func (s DragState) Side() Side {
	switch s {
	case DraggingLesser:
		return SideLesser
	case DraggingLarger:
		return SideLarger
	default:
		return SideNone
	}
}

// ProgressFunc receives both values after every committed step change.
type ProgressFunc func(lesser, larger float64, fromUser bool)

// Config holds everything a Controller needs at construction time.
//
// Example:
//
//	ctrl, err := rangeseek.NewController(rangeseek.Config{
//		Scale:      rangeseek.Scale{Min: 0, Max: 100, Steps: 20},
//		Track:      rangeseek.Track{Start: 1, Length: 60},
//		HandleSize: rangeseek.Size{Width: 1, Height: 1},
//		Gap:        1,
//		Tolerance:  1,
//	})
type Config struct {
	Scale      Scale
	Track      Track
	HandleSize Size
	// Gap is the minimum number of steps kept between the handles.
	Gap int
	// Tolerance grows each handle's hit area on every side, in pixels.
	Tolerance float64
	// Logger defaults to the logrus standard logger.
	Logger logrus.FieldLogger
}

// Validate checks the configuration without building a controller.
func (c Config) Validate() error {
	_, err := c.axis()
	return err
}

func (c Config) axis() (Axis, error) {
	axis, err := NewAxis(c.Track, c.Scale)
	if err != nil {
		return Axis{}, err
	}
	if c.Gap < 0 || c.Gap > c.Scale.Steps {
		return Axis{}, configurationTrip("gap must be between 0 and stepCount", trip.Context{
			"gap":   c.Gap,
			"steps": c.Scale.Steps,
		})
	}
	if !finite(c.HandleSize.Width) || !finite(c.HandleSize.Height) || c.HandleSize.Width < 0 || c.HandleSize.Height < 0 {
		return Axis{}, configurationTrip("handle size must not be negative", trip.Context{
			"width":  c.HandleSize.Width,
			"height": c.HandleSize.Height,
		})
	}
	if !finite(c.Tolerance) || c.Tolerance < 0 {
		return Axis{}, configurationTrip("tolerance must be finite and not negative", trip.Context{
			"tolerance": c.Tolerance,
		})
	}
	return axis, nil
}

type subscriber struct {
	id int
	fn ProgressFunc
}

// Controller owns the lesser and larger handles and runs the pointer state
// machine that drags them.
//
// A Controller is not safe for concurrent use; feed it events from one
// goroutine, in arrival order.
type Controller struct {
	axis      Axis
	lesser    *Handle
	larger    *Handle
	gap       int
	tolerance float64

	active Side
	lastX  float64

	subscribers []subscriber
	nextID      int

	logger logrus.FieldLogger
}

// NewController validates cfg and returns a controller spanning the whole
// scale: lesser at step 0, larger at the last step.
//
// Fails with ErrConfiguration.
func NewController(cfg Config) (*Controller, error) {
	axis, err := cfg.axis()
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	c := &Controller{
		axis:      axis,
		lesser:    NewHandle(SideLesser, axis, cfg.HandleSize),
		larger:    NewHandle(SideLarger, axis, cfg.HandleSize),
		gap:       cfg.Gap,
		tolerance: cfg.Tolerance,
		logger:    logger.WithField("component", "rangeseek"),
	}
	c.larger.SetStep(axis.Steps(), false, false)

	c.lesser.OnChange(c.handleChanged)
	c.larger.OnChange(c.handleChanged)

	return c, nil
}

func (c *Controller) handleChanged(_ *Handle, _ float64, fromUser bool) {
	lesser, larger := c.Progress()
	for _, s := range c.subscribers {
		s.fn(lesser, larger, fromUser)
	}
}

// Subscribe registers fn for change notifications and returns a function
// that removes it again.
func (c *Controller) Subscribe(fn ProgressFunc) (unsubscribe func()) {
	id := c.nextID
	c.nextID++
	c.subscribers = append(c.subscribers, subscriber{id: id, fn: fn})

	return func() {
		for i, s := range c.subscribers {
			if s.id == id {
				c.subscribers = append(c.subscribers[:i:i], c.subscribers[i+1:]...)
				return
			}
		}
	}
}

// PointerDown starts a drag when (x, y) hits a handle. The lesser handle
// wins when both are hit. It returns false when neither is hit so an
// enclosing container can claim the gesture.
func (c *Controller) PointerDown(x, y float64) bool {
	switch {
	case c.lesser.HitTest(x, y, c.tolerance):
		c.active = SideLesser
	case c.larger.HitTest(x, y, c.tolerance):
		c.active = SideLarger
	default:
		c.active = SideNone
		return false
	}

	c.lastX = x
	c.logger.WithFields(logrus.Fields{
		"side": c.active.String(),
		"x":    x,
		"y":    y,
	}).Debug("drag started")
	return true
}

// PointerMove drags the active handle toward x.
//
// A handle never moves past the gap boundary. Moving the lesser handle
// rightward past the boundary hands the drag to the larger handle, and
// moving the larger handle leftward past it hands the drag to the lesser
// one; the handoff event itself moves nothing. Moving away from the
// boundary while jammed against it is ignored.
//
// Returns false, and does nothing, when no drag is in progress.
func (c *Controller) PointerMove(x, y float64) bool {
	if c.active == SideNone {
		return false
	}

	dx := x - c.lastX
	c.lastX = x
	candidate := c.axis.PixelToStep(x)

	switch c.active {
	case SideLesser:
		bound := c.larger.Step() - c.gap
		switch {
		case candidate > bound && dx > 0:
			c.handoff(SideLarger, candidate)
		case candidate <= bound:
			c.lesser.SetStep(candidate, true, true)
		}
	case SideLarger:
		bound := c.lesser.Step() + c.gap
		switch {
		case candidate < bound && dx < 0:
			c.handoff(SideLesser, candidate)
		case candidate >= bound:
			c.larger.SetStep(candidate, true, true)
		}
	}

	return true
}

func (c *Controller) handoff(to Side, candidate int) {
	c.logger.WithFields(logrus.Fields{
		"from":      c.active.String(),
		"to":        to.String(),
		"candidate": candidate,
	}).Debug("drag handed off")
	c.active = to
}

// PointerUp ends the drag. Steps committed during the gesture are kept.
// Returns whether a drag was in progress.
func (c *Controller) PointerUp() bool {
	return c.endDrag("drag ended")
}

// PointerCancel abandons the drag without reverting committed steps.
// Returns whether a drag was in progress.
func (c *Controller) PointerCancel() bool {
	return c.endDrag("drag cancelled")
}

func (c *Controller) endDrag(message string) bool {
	wasActive := c.active != SideNone
	if wasActive {
		c.logger.WithFields(logrus.Fields{
			"lesser_step": c.lesser.Step(),
			"larger_step": c.larger.Step(),
		}).Debug(message)
	}
	c.active = SideNone
	c.lastX = 0
	return wasActive
}

// SetProgress moves both handles to the steps nearest the given values.
//
// Fails with ErrInvalidRange when lesser > larger and with ErrOutOfRange
// when either value is outside [min, max]. On failure neither handle moves.
//
// Example:
//
//	if err := ctrl.SetProgress(20, 80); err != nil {
//		return err
//	}
func (c *Controller) SetProgress(lesser, larger float64) error {
	if lesser > larger {
		err := trip.NewTrip(trip.InvalidRange, "lesserProgress must be less than largerProgress", trip.Context{
			"lesser": lesser,
			"larger": larger,
		})
		c.logger.WithError(err).Warn("progress rejected")
		return err
	}
	for _, value := range []float64{lesser, larger} {
		if !c.axis.Contains(value) {
			err := trip.NewTrip(trip.OutOfRange, "progress must be between min and max", trip.Context{
				"value": value,
				"min":   c.axis.Min(),
				"max":   c.axis.Max(),
			})
			c.logger.WithError(err).Warn("progress rejected")
			return err
		}
	}

	// Both values are known good, so neither call below can fail. The
	// larger handle goes first when the lesser would pass it, so no
	// notification reports an inverted range.
	if c.axis.StepForValue(lesser) > c.larger.Step() {
		_ = c.larger.SetProgress(larger)
		_ = c.lesser.SetProgress(lesser)
		return nil
	}
	_ = c.lesser.SetProgress(lesser)
	_ = c.larger.SetProgress(larger)
	return nil
}

// SetTrack lays the slider out on new track geometry. Both handles keep
// their steps and no notification is sent.
//
// Fails with ErrConfiguration for a negative length; the old layout stays.
func (c *Controller) SetTrack(track Track) error {
	axis, err := c.axis.WithTrack(track)
	if err != nil {
		return err
	}
	c.axis = axis
	c.lesser.place(axis)
	c.larger.place(axis)
	return nil
}

// Progress returns the lesser and larger values.
func (c *Controller) Progress() (lesser, larger float64) {
	return c.lesser.Progress(), c.larger.Progress()
}

// Steps returns the lesser and larger steps.
func (c *Controller) Steps() (lesser, larger int) {
	return c.lesser.Step(), c.larger.Step()
}

// State returns the drag state.
func (c *Controller) State() DragState {
	return dragStateFor(c.active)
}

func dragStateFor(side Side) DragState {
	switch side {
	case SideLesser:
		return DraggingLesser
	case SideLarger:
		return DraggingLarger
	default:
		return Idle
	}
}

func (c *Controller) Active() Side       { return c.active }
func (c *Controller) Axis() Axis         { return c.axis }
func (c *Controller) Lesser() *Handle    { return c.lesser }
func (c *Controller) Larger() *Handle    { return c.larger }
func (c *Controller) Gap() int           { return c.gap }
func (c *Controller) Tolerance() float64 { return c.tolerance }
