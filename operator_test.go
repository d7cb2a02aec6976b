package rangeseek

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/rangeseek/trip"
)

func loadPNG(t *testing.T, path string) image.Image {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	img, _, err := image.Decode(file)
	require.NoError(t, err)
	return img
}

// TestOperator_TrackingShots tests frame capture during a stage
func TestOperator_TrackingShots(t *testing.T) {
	dir := t.TempDir()
	op := NewOperator(t, newTestModel(t), dir)
	op.WithSize(23, 5)

	result := op.Start().
		CaptureTrackingShot("initial").
		GestureWithTrackingShot(1, 6, 0, "moved").
		AssertSteps(5, 20).
		Stop()
	require.True(t, result.Success, result.ErrorMessage)

	frames := op.Frames()
	require.Len(t, frames, 2)
	for _, frame := range frames {
		assert.Equal(t, dir, filepath.Dir(frame))
		assert.FileExists(t, frame)
	}
	assert.Contains(t, frames[0], "_000_initial.png")
	assert.Contains(t, frames[1], "_001_moved.png")

	initial := loadPNG(t, frames[0])
	assert.Equal(t, 80*8, initial.Bounds().Dx())
	assert.Greater(t, Difference(initial, loadPNG(t, frames[1])), 0.0)
}

// TestOperator_CaptureFailure tests that capture errors are stumbles
func TestOperator_CaptureFailure(t *testing.T) {
	op := NewOperator(t, &loopModel{}, t.TempDir())

	op.CaptureTrackingShot("no_frame")
	assert.Empty(t, op.Frames())
	assert.True(t, op.GetTripHandler().HasStumbles())
	assert.False(t, op.GetTripHandler().HasTrips())
}

// TestOperator_MatchBaseline tests baseline creation and comparison
func TestOperator_MatchBaseline(t *testing.T) {
	root := t.TempDir()
	ss := NewScriptSupervisor(filepath.Join(root, "baseline"), filepath.Join(root, "current"))

	op := NewOperator(t, newTestModel(t), filepath.Join(root, "film"))
	op.WithSize(23, 5)
	op.Start().MatchBaseline(ss, "range")
	assert.True(t, ss.HasBaseline("range"))

	op.MatchBaseline(ss, "range")
	assert.False(t, op.HasFailed(), "an unchanged frame matches")

	ss.WithTolerance(0)
	op.Gesture(1, 6, 0).MatchBaseline(ss, "range")
	assert.FileExists(t, filepath.Join(root, "current", "range_diff.png"))

	result := op.Stop()
	assert.False(t, result.Success)
	assert.True(t, errors.Is(result.Error, trip.Visual))
}

// TestScriptSupervisor_MissingFrames tests comparison without inputs
func TestScriptSupervisor_MissingFrames(t *testing.T) {
	root := t.TempDir()
	ss := NewScriptSupervisor(filepath.Join(root, "baseline"), filepath.Join(root, "current"))

	assert.False(t, ss.HasBaseline("absent"))
	err := ss.ValidateConsistency("absent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load baseline")

	assert.Error(t, ss.SetBaseline("absent", filepath.Join(root, "nope.png")))
}

// TestScriptSupervisor_FailedBaselineCopy tests that a failed copy leaves no
// baseline behind
func TestScriptSupervisor_FailedBaselineCopy(t *testing.T) {
	root := t.TempDir()
	ss := NewScriptSupervisor(filepath.Join(root, "baseline"), filepath.Join(root, "current"))

	err := ss.SetBaseline("range", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store baseline")
	assert.False(t, ss.HasBaseline("range"))
}
