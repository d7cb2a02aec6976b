package rangeseek

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/rangeseek/trip"
)

// newTestStage stages the test model in a terminal matching its layout.
func newTestStage(t *testing.T) *StageDirector {
	t.Helper()
	return NewStageDirector(t, newTestModel(t)).WithSize(23, 5)
}

// tickMsg is produced forever by loopModel.
type tickMsg struct{}

// loopModel answers every message with another message.
type loopModel struct {
	updates int
}

func (m *loopModel) Init() tea.Cmd                        { return nil }
func (m *loopModel) View() string                         { return "loop" }
func (m *loopModel) DragState() string                    { return "idle" }
func (m *loopModel) Steps() (int, int)                    { return 0, 0 }
func (m *loopModel) CheckCondition(condition string) bool { return false }

func (m *loopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.updates++
	return m, func() tea.Msg { return tickMsg{} }
}

// closingModel records whether the director closed it.
type closingModel struct {
	*Model
	closed bool
}

func (m *closingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.Model.Update(msg)
	return m, cmd
}

func (m *closingModel) Close() error {
	m.closed = true
	return nil
}

// TestStageDirector_Gesture tests a complete drag of the lesser handle
func TestStageDirector_Gesture(t *testing.T) {
	result := newTestStage(t).
		Start().
		AssertSteps(0, 20).
		Gesture(1, 6, 0).
		AssertSteps(5, 20).
		AssertDragState("idle").
		AssertCondition("gap_holds").
		AssertCondition("changed_by_user").
		AssertViewContains("25 .. 100").
		AssertChangeCount(5).
		Stop()

	require.True(t, result.Success, result.ErrorMessage)
	require.Len(t, result.Changes, 5)
	for i, change := range result.Changes {
		assert.Equal(t, float64(5*(i+1)), change.Lesser)
		assert.Equal(t, 100.0, change.Larger)
		assert.True(t, change.FromUser)
	}

	var types []string
	for _, action := range result.Actions {
		types = append(types, action.Type)
	}
	assert.Contains(t, types, "press")
	assert.Contains(t, types, "drag")
	assert.Contains(t, types, "release")
	assert.Contains(t, types, "assertion")
}

// TestStageDirector_Handoff tests that dragging the lesser handle into the
// larger one hands the drag over
func TestStageDirector_Handoff(t *testing.T) {
	d := newTestStage(t).
		Start().
		Press(1, 0).
		DragAcross(1, 21, 0).
		AssertDragState("dragging_larger").
		AssertSteps(19, 20).
		Release(21, 0)

	result := d.Stop()
	require.True(t, result.Success, result.ErrorMessage)
	assert.Len(t, result.Changes, 19)
	assert.Equal(t, "idle", d.Model().DragState())
}

// TestStageDirector_Escape tests cancelling a drag from the keyboard
func TestStageDirector_Escape(t *testing.T) {
	result := newTestStage(t).
		Start().
		Press(21, 0).
		DragAcross(21, 15, 0).
		PressEscape().
		AssertDragState("idle").
		AssertSteps(0, 14).
		DragTo(3, 0).
		AssertSteps(0, 14).
		Stop()

	assert.True(t, result.Success, result.ErrorMessage)
}

// TestStageDirector_Snapshots tests view capture
func TestStageDirector_Snapshots(t *testing.T) {
	d := newTestStage(t).Start()
	require.Len(t, d.snapshots, 1)
	assert.Equal(t, "start", d.GetLatestSnapshot().Reason)

	d.Press(1, 0)
	latest := d.GetLatestSnapshot()
	assert.Equal(t, "interaction", latest.Reason)
	assert.Equal(t, "dragging_lesser", latest.State)
	assert.Equal(t, 0, latest.Lesser)
	assert.Equal(t, 20, latest.Larger)
	assert.Contains(t, latest.View, "●")

	result := d.Stop()
	assert.Len(t, result.Snapshots, 3)
	assert.Equal(t, "stop", result.Snapshots[2].Reason)
	assert.Equal(t, 1, d.GetStageActionCount())
}

// TestStageDirector_ViewCaptureDisabled tests that snapshots can be turned off
func TestStageDirector_ViewCaptureDisabled(t *testing.T) {
	result := newTestStage(t).
		WithViewCapture(false).
		Start().
		Gesture(1, 4, 0).
		Stop()

	assert.True(t, result.Success)
	assert.Empty(t, result.Snapshots)
}

// TestStageDirector_FailedAssertions tests that failures are collected, not fatal
func TestStageDirector_FailedAssertions(t *testing.T) {
	d := newTestStage(t).
		Start().
		AssertSteps(3, 3).
		AssertDragState("dragging_lesser").
		AssertViewContains("nowhere").
		AssertCondition("dragging").
		AssertChangeCount(2)

	assert.True(t, d.HasFailed())
	assert.Len(t, d.GetTripHandler().GetTrips(), 5)

	result := d.Stop()
	assert.False(t, result.Success)
	assert.True(t, errors.Is(result.Error, trip.Assertion))
	assert.Contains(t, result.ErrorMessage, "[assertion]")
	assert.Contains(t, result.ErrorDetails, "Trip Type: assertion")
	assert.NotEmpty(t, result.TripReport)
}

// TestStageDirector_NotStarted tests interactions before Start
func TestStageDirector_NotStarted(t *testing.T) {
	d := newTestStage(t)
	d.Press(1, 0)

	assert.Equal(t, "idle", d.Model().DragState(), "message was not delivered")
	result := d.Stop()
	assert.False(t, result.Success)
	assert.True(t, errors.Is(result.Error, trip.System))
	assert.Zero(t, result.Duration)
}

// TestStageDirector_StartTwice tests that a second Start is ignored
func TestStageDirector_StartTwice(t *testing.T) {
	d := newTestStage(t).Start().Start()
	assert.Len(t, d.snapshots, 1)
	assert.True(t, d.Stop().Success)
}

// TestStageDirector_Quit tests that quit requests are noted
func TestStageDirector_Quit(t *testing.T) {
	d := newTestStage(t).Start()
	assert.False(t, d.Quit())

	d.PressKey('q')
	assert.True(t, d.Quit())
	assert.Empty(t, d.Model().View())
}

// TestStageDirector_Resize tests relayout during a stage
func TestStageDirector_Resize(t *testing.T) {
	d := newTestStage(t).
		Start().
		Gesture(1, 6, 0).
		Resize(43, 5)

	framer, ok := d.Model().(Framer)
	require.True(t, ok)
	assert.Equal(t, 11.0, framer.Frame().LesserCenter.X)

	// Step 5 now sits at column 11.
	result := d.Gesture(11, 21, 0).AssertSteps(10, 20).Stop()
	assert.True(t, result.Success, result.ErrorMessage)
}

// TestStageDirector_MessageChain tests the bound on self-sustaining commands
func TestStageDirector_MessageChain(t *testing.T) {
	model := &loopModel{}
	config := DefaultStageConfig()
	config.MaxDispatch = 10

	d := NewStageDirectorWithConfig(t, model, config).Start()
	assert.LessOrEqual(t, model.updates, 10)

	result := d.Stop()
	assert.False(t, result.Success)
	assert.True(t, errors.Is(result.Error, trip.System))
	assert.Contains(t, result.ErrorMessage, "did not settle")
}

// TestStageDirector_Close tests that closeable models are closed on Stop
func TestStageDirector_Close(t *testing.T) {
	model := &closingModel{Model: newTestModel(t)}

	result := NewStageDirector(t, model).WithSize(23, 5).Start().Gesture(21, 11, 0).Stop()
	assert.True(t, result.Success, result.ErrorMessage)
	assert.True(t, model.closed)

	steps, _ := model.Steps()
	assert.Equal(t, 0, steps)
}

// panicModel panics on the first mouse press.
type panicModel struct {
	*Model
}

func (m *panicModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if mouse, ok := msg.(tea.MouseMsg); ok && mouse.Action == tea.MouseActionPress {
		panic("press")
	}
	_, cmd := m.Model.Update(msg)
	return m, cmd
}

// TestStageDirector_WithoutT tests a director that has no test to log to
func TestStageDirector_WithoutT(t *testing.T) {
	d := NewStageDirector(nil, &panicModel{Model: newTestModel(t)})

	require.NotPanics(t, func() {
		d.Start().Start().WithSize(10, 10).WithViewCapture(false).Press(1, 0)
	})

	result := d.Stop()
	assert.False(t, result.Success)
	assert.True(t, errors.Is(result.Error, trip.System))
}
