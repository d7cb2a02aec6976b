package rangeseek

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/rangeseek/trip"
)

// update delivers msg to the model and keeps the model it returns.
// A panic or an unusable returned model stops the stage.
func (d *StageDirector) update(msg tea.Msg) (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			d.handleModelPanic(r, msg)
			cmd = nil
		}
	}()

	var next tea.Model
	next, cmd = d.model.Update(msg)

	if next == nil {
		d.handleInvalidModelState("Update returned nil model", msg)
		return nil
	}

	staged, ok := next.(StageModel)
	if !ok {
		d.handleInvalidModelState("Update returned a model without stage support", msg)
		return nil
	}

	d.model = staged
	return cmd
}

// handleModelPanic fails the stage when the model panics
func (d *StageDirector) handleModelPanic(panicValue interface{}, msg tea.Msg) {
	d.logf("🚨 FAIL-FAST: Model panic detected: %v", panicValue)

	d.captureErrorSnapshot("model_panic", fmt.Sprintf("Panic: %v", panicValue))

	panicTrip := newStageTrip(trip.System, fmt.Sprintf("Model panic during Update: %v", panicValue), map[string]interface{}{
		"panic_value": panicValue,
		"tea_msg":     fmt.Sprintf("%T: %+v", msg, msg),
		"model_type":  fmt.Sprintf("%T", d.model),
		"timestamp":   time.Now(),
	})
	d.recordTrip(panicTrip.WithSeverity(trip.Fall))

	d.logf("🛑 FAIL-FAST: Stage director stopped due to model panic")
}

// handleInvalidModelState fails the stage when Update returns a model the
// director cannot stage
func (d *StageDirector) handleInvalidModelState(reason string, msg tea.Msg) {
	d.logf("🚨 FAIL-FAST: Invalid model state detected: %s", reason)

	d.captureErrorSnapshot("invalid_model_state", reason)

	invalidStateTrip := newStageTrip(trip.System, reason, map[string]interface{}{
		"tea_msg":    fmt.Sprintf("%T: %+v", msg, msg),
		"model_type": fmt.Sprintf("%T", d.model),
		"timestamp":  time.Now(),
	})
	d.recordTrip(invalidStateTrip.WithSeverity(trip.Fall))

	d.logf("🛑 FAIL-FAST: Stage director stopped due to invalid model state")
}

// captureErrorSnapshot captures the view at the moment of failure. It is
// taken regardless of CaptureViews.
func (d *StageDirector) captureErrorSnapshot(errorType, errorMessage string) {
	currentView := d.getCurrentView()

	state := fmt.Sprintf("error_%s", errorType)
	var lesser, larger int
	func() {
		defer func() {
			if r := recover(); r != nil {
				lesser, larger = -1, -1
			}
		}()
		lesser, larger = d.model.Steps()
	}()

	d.snapshots = append(d.snapshots, StageSnapshot{
		Timestamp: time.Now(),
		Reason:    errorType,
		View:      fmt.Sprintf("ERROR STATE (%s)\n%s\n\nLast View:\n%s", errorType, errorMessage, currentView),
		State:     state,
		Lesser:    lesser,
		Larger:    larger,
	})
	d.logf("📸 ERROR SNAPSHOT: Captured visual state for %s", errorType)
}
