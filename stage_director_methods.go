package rangeseek

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/rangeseek/trip"
)

// WithViewCapture enables or disables automatic view snapshots.
// Must be called before Start.
func (d *StageDirector) WithViewCapture(enabled bool) *StageDirector {
	if d.started {
		d.logf("⚠️ Cannot change view capture after director has started - ignoring WithViewCapture(%v)", enabled)
		return d
	}
	d.config.CaptureViews = enabled
	return d
}

// WithSize sets the terminal size sent on Start.
// Must be called before Start.
func (d *StageDirector) WithSize(width, height int) *StageDirector {
	if d.started {
		d.logf("⚠️ Cannot change size after director has started - ignoring WithSize(%d, %d)", width, height)
		return d
	}
	d.config.Width = width
	d.config.Height = height
	return d
}

// Start runs the model's Init command, lays it out for the configured
// terminal size and captures the initial snapshot.
func (d *StageDirector) Start() *StageDirector {
	if d.started {
		d.logf("⚠️ StageDirector already started")
		return d
	}
	if d.model == nil {
		d.recordTrip(newStageTrip(trip.System, "no model to stage", nil).WithSeverity(trip.Fall))
		return d
	}

	d.startTime = time.Now()
	d.started = true

	d.dispatch(d.runInit())
	d.dispatch([]tea.Msg{tea.WindowSizeMsg{Width: d.config.Width, Height: d.config.Height}})
	d.captureSnapshot("start")

	return d
}

// runInit runs Init with panic protection.
func (d *StageDirector) runInit() (msgs []tea.Msg) {
	defer func() {
		if r := recover(); r != nil {
			d.handleModelPanic(r, nil)
			msgs = nil
		}
	}()
	return d.runCmd(d.model.Init())
}

// Stop ends the session and returns the results. Models implementing
// Closeable are closed.
func (d *StageDirector) Stop() *StageResult {
	if d.started {
		d.captureSnapshot("stop")
	}

	if closer, ok := d.model.(Closeable); ok {
		if err := closer.Close(); err != nil {
			d.recordTrip(newStageTrip(trip.System, "model close failed", map[string]interface{}{
				"error": err.Error(),
			}).WithSeverity(trip.Stumble))
		}
	}

	var duration time.Duration
	if !d.startTime.IsZero() {
		duration = time.Since(d.startTime)
	}
	success := !d.failed && !d.tripHandler.HasTrips()

	var errorDetails strings.Builder
	var tripReport string

	if d.lastTrip != nil {
		if report := d.tripHandler.DetailedReport(); report != "" {
			tripReport = report
		}

		errorDetails.WriteString(fmt.Sprintf("Trip Type: %s\n", d.lastTrip.Type))
		errorDetails.WriteString(fmt.Sprintf("Error: %s\n", d.lastTrip.Message))
		errorDetails.WriteString(fmt.Sprintf("Timestamp: %s\n", d.lastTrip.Timestamp.Format(time.RFC3339)))

		if len(d.lastTrip.Context) > 0 {
			keys := make([]string, 0, len(d.lastTrip.Context))
			for key := range d.lastTrip.Context {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			errorDetails.WriteString("Context:\n")
			for _, key := range keys {
				errorDetails.WriteString(fmt.Sprintf("  %s: %v\n", key, d.lastTrip.Context[key]))
			}
		}
	}

	return &StageResult{
		Actions:      d.interactions,
		Snapshots:    d.snapshots,
		Changes:      d.changes,
		Success:      success,
		Duration:     duration,
		ErrorMessage: d.getErrorMessage(),
		Error:        d.getError(),
		ErrorDetails: errorDetails.String(),
		TripReport:   tripReport,
	}
}

// getCurrentView safely retrieves the current view content
func (d *StageDirector) getCurrentView() (view string) {
	if d.model == nil {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			view = fmt.Sprintf("ERROR: Could not get view due to panic: %v", r)
		}
	}()
	return d.model.View()
}

// Model returns the model as of the last delivered message.
func (d *StageDirector) Model() StageModel {
	return d.model
}

// Changes returns the progress notifications emitted so far, in order.
func (d *StageDirector) Changes() []ProgressChangedMsg {
	return d.changes
}

// Quit reports whether the model asked the program to quit.
func (d *StageDirector) Quit() bool {
	return d.quit
}

// GetLatestSnapshot returns the most recent view snapshot
func (d *StageDirector) GetLatestSnapshot() StageSnapshot {
	if len(d.snapshots) == 0 {
		return StageSnapshot{}
	}
	return d.snapshots[len(d.snapshots)-1]
}

// GetStageActionCount returns the current number of recorded interactions
func (d *StageDirector) GetStageActionCount() int {
	return len(d.interactions)
}

// getErrorMessage returns a human-readable error message
func (d *StageDirector) getErrorMessage() string {
	if d.lastTrip != nil {
		return fmt.Sprintf("[%s] %s", d.lastTrip.Type, d.lastTrip.Message)
	}
	return ""
}

// getError returns the structured error
func (d *StageDirector) getError() error {
	if d.lastTrip != nil {
		return d.lastTrip
	}
	return nil
}
