package rangeseek

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/rangeseek/trip"
)

// Press simulates pressing the left mouse button at cell (x, y).
func (d *StageDirector) Press(x, y int) *StageDirector {
	d.sendMessage(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	d.recordStageAction("press", fmt.Sprintf("%d,%d", x, y))
	return d
}

// DragTo simulates moving the mouse to cell (x, y) with the button held.
func (d *StageDirector) DragTo(x, y int) *StageDirector {
	d.sendMessage(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	d.recordStageAction("drag", fmt.Sprintf("%d,%d", x, y))
	return d
}

// DragAcross moves one column at a time from fromX to toX on row y, the way
// a terminal reports a real drag with cell motion enabled. fromX itself is
// not sent.
func (d *StageDirector) DragAcross(fromX, toX, y int) *StageDirector {
	step := 1
	if toX < fromX {
		step = -1
	}
	for x := fromX; x != toX; {
		x += step
		d.DragTo(x, y)
	}
	return d
}

// Release simulates releasing the left mouse button at cell (x, y).
func (d *StageDirector) Release(x, y int) *StageDirector {
	d.sendMessage(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	d.recordStageAction("release", fmt.Sprintf("%d,%d", x, y))
	return d
}

// Gesture presses at fromX, drags across to toX and releases there.
func (d *StageDirector) Gesture(fromX, toX, y int) *StageDirector {
	return d.Press(fromX, y).DragAcross(fromX, toX, y).Release(toX, y)
}

// PressEscape simulates pressing the Escape key, which cancels a drag.
func (d *StageDirector) PressEscape() *StageDirector {
	d.sendMessage(tea.KeyMsg{Type: tea.KeyEsc})
	d.recordStageAction("keypress", "escape")
	return d
}

// PressKey simulates typing a single rune key such as "q".
func (d *StageDirector) PressKey(key rune) *StageDirector {
	d.sendMessage(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}})
	d.recordStageAction("keypress", string(key))
	return d
}

// Resize simulates the terminal changing size.
func (d *StageDirector) Resize(width, height int) *StageDirector {
	d.sendMessage(tea.WindowSizeMsg{Width: width, Height: height})
	d.recordStageAction("resize", fmt.Sprintf("%dx%d", width, height))
	return d
}

// AssertViewContains verifies that the current view contains the specified text
func (d *StageDirector) AssertViewContains(text string) *StageDirector {
	view := d.getCurrentView()
	if !strings.Contains(view, text) {
		d.recordTrip(newStageTrip(trip.Assertion, "View does not contain expected text: "+text, map[string]interface{}{
			"expected":    text,
			"actual_view": view,
		}))
		return d
	}
	d.recordStageAction("assertion", "contains="+text)
	return d
}

// AssertDragState verifies the drag state by name: "idle",
// "dragging_lesser" or "dragging_larger".
func (d *StageDirector) AssertDragState(expected string) *StageDirector {
	actual := d.model.DragState()
	if actual != expected {
		d.recordTrip(newStageTrip(trip.Assertion, "Expected drag state "+expected+", got "+actual, map[string]interface{}{
			"expected": expected,
			"actual":   actual,
		}))
		return d
	}
	d.recordStageAction("assertion", "state="+expected)
	return d
}

// AssertSteps verifies both committed steps.
func (d *StageDirector) AssertSteps(lesser, larger int) *StageDirector {
	gotLesser, gotLarger := d.model.Steps()
	if gotLesser != lesser || gotLarger != larger {
		d.recordTrip(newStageTrip(trip.Assertion, fmt.Sprintf("Expected steps %d..%d, got %d..%d", lesser, larger, gotLesser, gotLarger), map[string]interface{}{
			"expected_lesser": lesser,
			"expected_larger": larger,
			"actual_lesser":   gotLesser,
			"actual_larger":   gotLarger,
		}))
		return d
	}
	d.recordStageAction("assertion", fmt.Sprintf("steps=%d..%d", lesser, larger))
	return d
}

// AssertCondition verifies a named model condition.
func (d *StageDirector) AssertCondition(condition string) *StageDirector {
	if !d.model.CheckCondition(condition) {
		d.recordTrip(newStageTrip(trip.Assertion, "Condition does not hold: "+condition, map[string]interface{}{
			"condition": condition,
		}))
		return d
	}
	d.recordStageAction("assertion", "condition="+condition)
	return d
}

// AssertChangeCount verifies how many progress notifications were emitted.
func (d *StageDirector) AssertChangeCount(expected int) *StageDirector {
	if len(d.changes) != expected {
		d.recordTrip(newStageTrip(trip.Assertion, fmt.Sprintf("Expected %d progress changes, got %d", expected, len(d.changes)), map[string]interface{}{
			"expected": expected,
			"actual":   len(d.changes),
		}))
		return d
	}
	d.recordStageAction("assertion", fmt.Sprintf("changes=%d", expected))
	return d
}

// sendMessage delivers msg and everything its commands produce.
func (d *StageDirector) sendMessage(msg tea.Msg) {
	if !d.started {
		d.recordTrip(newStageTrip(trip.System, "interaction before Start", map[string]interface{}{
			"tea_msg": fmt.Sprintf("%T", msg),
		}))
		return
	}
	if !d.tripHandler.ShouldContinue() {
		return
	}

	d.dispatch([]tea.Msg{msg})
	d.captureSnapshot("interaction")
}

// dispatch delivers queued messages in order, appending the messages
// produced by each Update's command to the queue.
func (d *StageDirector) dispatch(queue []tea.Msg) {
	for delivered := 0; len(queue) > 0; delivered++ {
		if delivered >= d.config.MaxDispatch {
			d.recordTrip(newStageTrip(trip.System, "message chain did not settle", map[string]interface{}{
				"max_dispatch": d.config.MaxDispatch,
				"pending":      len(queue),
			}))
			return
		}

		msg := queue[0]
		queue = queue[1:]
		queue = append(queue, d.runCmd(d.update(msg))...)
	}
}

// runCmd runs cmd to completion, flattening batches. Quit requests are
// noted rather than delivered.
func (d *StageDirector) runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var msgs []tea.Msg
		for _, c := range msg {
			msgs = append(msgs, d.runCmd(c)...)
		}
		return msgs
	case tea.QuitMsg:
		d.quit = true
		return nil
	case ProgressChangedMsg:
		d.changes = append(d.changes, msg)
		return []tea.Msg{msg}
	default:
		return []tea.Msg{msg}
	}
}

// recordStageAction logs an interaction step
func (d *StageDirector) recordStageAction(actionType string, details interface{}) {
	d.interactions = append(d.interactions, StageAction{
		Timestamp: time.Now(),
		Type:      actionType,
		Details:   details,
	})
}

// captureSnapshot captures the current state of the slider
func (d *StageDirector) captureSnapshot(reason string) {
	if !d.config.CaptureViews || d.model == nil {
		return
	}

	lesser, larger := d.model.Steps()
	d.snapshots = append(d.snapshots, StageSnapshot{
		Timestamp: time.Now(),
		Reason:    reason,
		View:      d.getCurrentView(),
		State:     d.model.DragState(),
		Lesser:    lesser,
		Larger:    larger,
	})
}

// logf logs to the test when the director has one.
func (d *StageDirector) logf(format string, args ...interface{}) {
	if d.t != nil {
		d.t.Helper()
		d.t.Logf(format, args...)
	}
}

// recordTrip records a trip using the trip handler and marks stage as failed if needed
func (d *StageDirector) recordTrip(trip *trip.Trip) {
	d.tripHandler.Record(trip)
	d.lastTrip = trip

	// Only mark as failed for non-recoverable trips
	if !trip.CanRecover() {
		d.failed = true
	}

	if d.t != nil {
		d.t.Helper()
		if trip.IsFall() {
			d.t.Error(trip)
		} else {
			d.t.Log(trip.DetailedString())
		}
	}
}

// HasFailed returns true if the stage has encountered any errors
func (d *StageDirector) HasFailed() bool {
	return d.failed || !d.tripHandler.ShouldContinue()
}

// GetError returns the last trip recorded, or nil
func (d *StageDirector) GetError() error {
	if d.lastTrip != nil {
		return d.lastTrip
	}
	return nil
}

// GetTripHandler returns the trip handler for detailed error analysis
func (d *StageDirector) GetTripHandler() *trip.Handler {
	return d.tripHandler
}
