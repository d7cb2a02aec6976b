package rangeseek

import (
	"github.com/teranos/rangeseek/trip"
)

// State is the payload persisted across restarts: just the two steps.
// How it is framed on disk is up to the caller.
type State struct {
	LesserStep int `json:"lesserStep" yaml:"lesserStep"`
	LargerStep int `json:"largerStep" yaml:"largerStep"`
}

// SaveState captures the current steps.
func (c *Controller) SaveState() State {
	lesser, larger := c.Steps()
	return State{LesserStep: lesser, LargerStep: larger}
}

// RestoreState puts both handles back at the saved steps, clamped into
// [0, steps]. Subscribers are not notified, and a drag in progress ends.
//
// Fails with ErrInvalidRange when the clamped lesser step exceeds the larger
// one; nothing changes in that case.
func (c *Controller) RestoreState(state State) error {
	lesser := c.axis.clampStep(state.LesserStep)
	larger := c.axis.clampStep(state.LargerStep)
	if lesser > larger {
		return trip.NewTrip(trip.InvalidRange, "saved lesser step exceeds larger step", trip.Context{
			"lesser_step": state.LesserStep,
			"larger_step": state.LargerStep,
		})
	}

	c.endDrag("drag ended by restore")
	c.lesser.SetStep(lesser, false, false)
	c.larger.SetStep(larger, false, false)
	return nil
}
