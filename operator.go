package rangeseek

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/teranos/rangeseek/trip"
)

// Framer is implemented by models that can describe themselves as a Frame.
// Model implements it.
type Framer interface {
	Frame() Frame
}

// Operator extends StageDirector with frame capture: at any point in a stage
// the slider can be rendered to a PNG or checked against a baseline.
type Operator struct {
	*StageDirector
	renderingStage *RenderingStage
	frameCount     int
	filmDir        string
	frames         []string
}

// NewOperator creates a stage director that writes captured frames to
// outputDir.
func NewOperator(t *testing.T, model StageModel, outputDir string) *Operator {
	op := &Operator{
		StageDirector: NewStageDirector(t, model),
		filmDir:       outputDir,
	}

	config := DefaultRenderConfig(outputDir)
	config.Columns = op.config.Width
	return op.WithConfig(config)
}

// WithConfig allows customizing the rendered frames
func (op *Operator) WithConfig(config RenderConfig) *Operator {
	stage, err := NewRenderingStage(config)
	if err != nil {
		op.recordTrip(newStageTrip(trip.Visual, "rendering stage unavailable", map[string]interface{}{
			"error": err.Error(),
		}).WithSeverity(trip.Stumble))
		op.renderingStage = nil
		return op
	}
	op.renderingStage = stage
	op.filmDir = config.OutputDir
	return op
}

// Start wraps the base Start method to return *Operator
func (op *Operator) Start() *Operator {
	op.StageDirector.Start()
	return op
}

// Press wraps the base method to return *Operator
func (op *Operator) Press(x, y int) *Operator {
	op.StageDirector.Press(x, y)
	return op
}

// DragTo wraps the base method to return *Operator
func (op *Operator) DragTo(x, y int) *Operator {
	op.StageDirector.DragTo(x, y)
	return op
}

// Release wraps the base method to return *Operator
func (op *Operator) Release(x, y int) *Operator {
	op.StageDirector.Release(x, y)
	return op
}

// Gesture wraps the base method to return *Operator
func (op *Operator) Gesture(fromX, toX, y int) *Operator {
	op.StageDirector.Gesture(fromX, toX, y)
	return op
}

// PressEscape wraps the base method to return *Operator
func (op *Operator) PressEscape() *Operator {
	op.StageDirector.PressEscape()
	return op
}

// AssertSteps wraps the base method to return *Operator
func (op *Operator) AssertSteps(lesser, larger int) *Operator {
	op.StageDirector.AssertSteps(lesser, larger)
	return op
}

// CaptureTrackingShot renders the current frame to
// frame_<timestamp>_<n>_<label>.png in the film directory. Capture failures
// are recorded as stumbles.
func (op *Operator) CaptureTrackingShot(label string) *Operator {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(op.filmDir, fmt.Sprintf("frame_%s_%03d_%s.png", timestamp, op.frameCount, label))

	if err := op.capture(filename); err != nil {
		op.recordTrip(newStageTrip(trip.Visual, "failed to capture frame", map[string]interface{}{
			"label": label,
			"error": err.Error(),
		}).WithSeverity(trip.Stumble))
		return op
	}

	op.frameCount++
	op.frames = append(op.frames, filename)
	op.recordStageAction("screenshot", label)
	return op
}

func (op *Operator) capture(filename string) error {
	if op.renderingStage == nil {
		return errors.New("no rendering stage")
	}
	framer, ok := op.model.(Framer)
	if !ok {
		return fmt.Errorf("model %T cannot produce frames", op.model)
	}
	return op.renderingStage.CaptureFrame(framer.Frame(), filename)
}

// GestureWithTrackingShot performs a gesture and captures the result.
func (op *Operator) GestureWithTrackingShot(fromX, toX, y int, label string) *Operator {
	op.Gesture(fromX, toX, y)
	return op.CaptureTrackingShot(label)
}

// MatchBaseline renders the current frame as name in the supervisor's
// current directory and compares it with the baseline. The first run
// stores the frame as the baseline.
func (op *Operator) MatchBaseline(ss *ScriptSupervisor, name string) *Operator {
	current := ss.CurrentPath(name)
	if err := os.MkdirAll(filepath.Dir(current), 0755); err != nil {
		op.recordTrip(newStageTrip(trip.Visual, "failed to create frame directory", map[string]interface{}{
			"error": err.Error(),
		}).WithSeverity(trip.Stumble))
		return op
	}
	if err := op.capture(current); err != nil {
		op.recordTrip(newStageTrip(trip.Visual, "failed to capture frame", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		}).WithSeverity(trip.Stumble))
		return op
	}

	if !ss.HasBaseline(name) {
		if err := ss.SetBaseline(name, current); err != nil {
			op.recordTrip(newStageTrip(trip.Visual, "failed to store baseline", map[string]interface{}{
				"name":  name,
				"error": err.Error(),
			}).WithSeverity(trip.Stumble))
			return op
		}
		op.recordStageAction("baseline", name)
		return op
	}

	if err := ss.ValidateConsistency(name); err != nil {
		var visual *trip.Trip
		if !errors.As(err, &visual) {
			visual = newStageTrip(trip.Visual, err.Error(), nil)
		}
		op.recordTrip(visual)
		return op
	}
	op.recordStageAction("assertion", "baseline="+name)
	return op
}

// Frames returns the paths of the frames captured so far.
func (op *Operator) Frames() []string {
	return op.frames
}

// WriteReport writes an HTML report of result and the captured frames to
// dir/index.html and returns its path.
func (op *Operator) WriteReport(dir, name string, result *StageResult) (string, error) {
	report := NewStageReport(name, result, op.frames)
	return NewHTMLReportGenerator(dir).GenerateReport(report)
}
