package rangeseek

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/teranos/rangeseek/trip"
)

// Closeable defines the interface for models that need resource cleanup.
// Models implementing this interface have Close called when the stage
// director stops.
type Closeable interface {
	Close() error
}

// StageModel defines the interface for stageable slider models.
//
// Model implements it. A parent model that embeds a slider can implement it
// too, forwarding to the embedded Model, to be staged as a whole.
//
// Conditions understood by Model:
//   - "idle": no drag in progress
//   - "dragging": a handle is being dragged
//   - "gap_holds": lesser step + gap <= larger step
//   - "changed_by_user": the last notification came from a gesture
type StageModel interface {
	tea.Model
	// DragState returns the controller's drag state by name
	DragState() string
	// Steps returns the lesser and larger steps
	Steps() (int, int)
	// CheckCondition allows custom assertions
	CheckCondition(condition string) bool
}

// StageDirector stages scripted pointer gestures against a slider model.
//
// The director drives the model synchronously: every gesture is delivered
// through Update and the commands it returns are run and fed back until the
// model is quiet. No terminal and no goroutines are involved, so a stage is
// deterministic and suitable for CI.
//
// Failures are collected as trips and returned in the final StageResult
// rather than immediately failing the test.
//
// Example usage:
//
//	result := NewStageDirector(t, model).
//		Start().
//		Press(1, 0).
//		DragTo(20, 0).
//		Release(20, 0).
//		AssertSteps(5, 20).
//		AssertDragState("idle").
//		Stop()
//
//	if !result.Success {
//		t.Fatalf("Stage failed: %s", result.ErrorMessage)
//	}
type StageDirector struct {
	t     *testing.T
	model StageModel

	// Interaction tracking
	interactions []StageAction
	snapshots    []StageSnapshot
	changes      []ProgressChangedMsg

	// Error tracking with trip package
	tripHandler *trip.Handler
	lastTrip    *trip.Trip
	failed      bool

	config    StageConfig
	started   bool
	quit      bool
	startTime time.Time
}

// StageAction records a single interaction with the model during staging
type StageAction struct {
	Timestamp time.Time
	Type      string      // "press", "drag", "release", "keypress", "resize", "assertion", "screenshot"
	Details   interface{} // Specific interaction details
	Result    interface{} // Result of the interaction
}

// StageSnapshot captures the state of the slider at a specific moment.
type StageSnapshot struct {
	Timestamp time.Time // When the snapshot was captured
	Reason    string    // What triggered the capture
	View      string    // The rendered view content
	State     string    // Drag state at capture time
	Lesser    int       // Lesser step at capture time
	Larger    int       // Larger step at capture time
}

// StageResult contains the complete results of a stage session.
//
// Success indicates that no trip other than a stumble was recorded.
type StageResult struct {
	Actions      []StageAction        // All interactions performed
	Snapshots    []StageSnapshot      // View snapshots captured
	Changes      []ProgressChangedMsg // Progress notifications, in emission order
	Success      bool                 // Whether stage completed without errors
	Duration     time.Duration        // Total stage execution time
	ErrorMessage string               // Human-readable error description
	Error        error                // The last trip, for errors.Is
	ErrorDetails string               // Detailed technical error information for debugging
	TripReport   string               // Detailed trip handling report
}

// newStageTrip creates a new trip for stage errors
func newStageTrip(kind trip.Kind, message string, context map[string]interface{}) *trip.Trip {
	tripContext := make(trip.Context)
	for k, v := range context {
		tripContext[k] = v
	}
	return trip.NewTrip(kind, message, tripContext)
}

// StageConfig configures the behavior of the StageDirector.
type StageConfig struct {
	// Width and Height are sent as a tea.WindowSizeMsg on Start
	Width  int
	Height int
	// CaptureViews enables/disables automatic view snapshots
	CaptureViews bool
	// MaxDispatch bounds the messages delivered for a single interaction,
	// guarding against models whose commands never settle
	MaxDispatch int
}

// DefaultStageConfig returns an 80x24 terminal with snapshots enabled.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		Width:        80,
		Height:       24,
		CaptureViews: true,
		MaxDispatch:  64,
	}
}

// NewStageDirector creates a new StageDirector with default configuration.
//
// Call Start before performing interactions and Stop to get results.
func NewStageDirector(t *testing.T, model StageModel) *StageDirector {
	return NewStageDirectorWithConfig(t, model, DefaultStageConfig())
}

// NewStageDirectorWithConfig creates a new StageDirector with custom configuration.
func NewStageDirectorWithConfig(t *testing.T, model StageModel, config StageConfig) *StageDirector {
	if config.MaxDispatch <= 0 {
		config.MaxDispatch = DefaultStageConfig().MaxDispatch
	}

	return &StageDirector{
		t:            t,
		model:        model,
		interactions: make([]StageAction, 0),
		snapshots:    make([]StageSnapshot, 0),
		tripHandler:  trip.NewHandler("stage_director", trip.DefaultPolicy()),
		config:       config,
	}
}
