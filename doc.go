// Package rangeseek provides a two-handle range slider for terminal UIs.
//
// A Controller owns the lesser and larger handles on one Axis. Pointer
// events snap the handles to steps, keep them at least Gap steps apart and
// hand the drag from one handle to the other when it is pushed into its
// neighbour.
//
// Basic usage:
//
//	ctrl, err := rangeseek.NewController(rangeseek.Config{
//		Scale:      rangeseek.Scale{Min: 0, Max: 100, Steps: 20},
//		Track:      rangeseek.Track{Start: 1, Length: 40},
//		HandleSize: rangeseek.Size{Width: 1, Height: 1},
//		Gap:        1,
//		Tolerance:  1,
//	})
//	if err != nil {
//		return err
//	}
//	ctrl.Subscribe(func(lesser, larger float64, fromUser bool) {
//		fmt.Println(lesser, larger)
//	})
//	ctrl.PointerDown(1, 0)
//	ctrl.PointerMove(11, 0)
//	ctrl.PointerUp()
//
// Model wraps a Controller as a bubbletea model. Run it with mouse cell
// motion enabled; every committed change arrives as a ProgressChangedMsg.
//
// For scripted tests, stage the model:
//
//	result := rangeseek.NewStageDirector(t, model).
//		Start().
//		Gesture(1, 6, 0).
//		AssertSteps(5, 20).
//		Stop()
//
//	assert.True(t, result.Success)
//
// Operator adds PNG frame capture and baseline comparison to a stage:
//
//	rangeseek.NewOperator(t, model, "frames/").
//		Start().
//		CaptureTrackingShot("initial").
//		GestureWithTrackingShot(1, 6, 0, "moved").
//		Stop()
package rangeseek
