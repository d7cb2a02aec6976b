package rangeseek

// Frame is everything a renderer needs to paint the slider: the track, the
// filled range between the handle centers, both handles and their values.
// It is a copy; changing it does not affect the controller.
type Frame struct {
	Track        Rect
	Lesser       Rect
	Larger       Rect
	LesserCenter Point
	LargerCenter Point
	LesserValue  float64
	LargerValue  float64
	State        DragState
}

// Fill is the part of the track between the two handle centers.
func (f Frame) Fill() Rect {
	return Rect{
		Left:   f.LesserCenter.X,
		Top:    f.Track.Top,
		Right:  f.LargerCenter.X,
		Bottom: f.Track.Bottom,
	}
}

// Frame returns the current rendering surface. The track rectangle spans
// the handle row.
func (c *Controller) Frame() Frame {
	track := c.axis.Track()
	height := c.lesser.Size().Height
	lesser, larger := c.Progress()

	return Frame{
		Track: Rect{
			Left:   track.Start,
			Top:    track.Top,
			Right:  track.Start + track.Length,
			Bottom: track.Top + height,
		},
		Lesser:       c.lesser.Bounds(),
		Larger:       c.larger.Bounds(),
		LesserCenter: c.lesser.Center(),
		LargerCenter: c.larger.Center(),
		LesserValue:  lesser,
		LargerValue:  larger,
		State:        c.State(),
	}
}
