package rangeseek

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderConfig defines how a Frame is drawn. Frame coordinates are scaled by
// CellWidth and CellHeight, so a frame laid out in terminal cells comes out
// the size of the terminal it was captured from.
type RenderConfig struct {
	Columns    int        // Image width in frame units
	Rows       int        // Image height in frame units
	CellWidth  int        // Pixels per horizontal frame unit
	CellHeight int        // Pixels per vertical frame unit
	Background color.RGBA // Background color
	Track      color.RGBA // Unselected track
	Fill       color.RGBA // Track between the handles
	Handle     color.RGBA // Idle handle
	Active     color.RGBA // Handle being dragged
	Foreground color.RGBA // Caption text
	OutputDir  string     // Directory to save frames
}

// DefaultRenderConfig returns an 80x3 cell canvas using the basic font's
// cell size.
func DefaultRenderConfig(outputDir string) RenderConfig {
	return RenderConfig{
		Columns:    80,
		Rows:       3,
		CellWidth:  8,
		CellHeight: 16,
		Background: color.RGBA{0, 0, 0, 255},
		Track:      color.RGBA{88, 88, 88, 255},
		Fill:       color.RGBA{255, 95, 175, 255},
		Handle:     color.RGBA{238, 238, 238, 255},
		Active:     color.RGBA{255, 95, 175, 255},
		Foreground: color.RGBA{255, 255, 255, 255},
		OutputDir:  outputDir,
	}
}

// RenderingStage draws slider frames to images.
type RenderingStage struct {
	config RenderConfig
	font   font.Face
}

// NewRenderingStage creates a stage for config. The output directory is
// created if it does not exist.
func NewRenderingStage(config RenderConfig) (*RenderingStage, error) {
	defaults := DefaultRenderConfig(config.OutputDir)
	if config.CellWidth <= 0 {
		config.CellWidth = defaults.CellWidth
	}
	if config.CellHeight <= 0 {
		config.CellHeight = defaults.CellHeight
	}
	if config.Columns <= 0 {
		config.Columns = defaults.Columns
	}
	if config.Rows <= 0 {
		config.Rows = defaults.Rows
	}

	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	return &RenderingStage{
		config: config,
		font:   basicfont.Face7x13,
	}, nil
}

// Config returns the stage's configuration.
func (rs *RenderingStage) Config() RenderConfig {
	return rs.config
}

// px maps a horizontal frame coordinate to pixels. Unit u covers
// [u-0.5, u+0.5), so integer coordinates land on cell centers.
func (rs *RenderingStage) px(u float64) int {
	return int(math.Round((u + 0.5) * float64(rs.config.CellWidth)))
}

func (rs *RenderingStage) py(v float64) int {
	return int(math.Round((v + 0.5) * float64(rs.config.CellHeight)))
}

// Render draws frame: the track as a bar through the handle row, the fill
// between the handle centers, both handles, and the values as a caption on
// the row below the track.
func (rs *RenderingStage) Render(frame Frame) *image.RGBA {
	cw, ch := rs.config.CellWidth, rs.config.CellHeight
	img := image.NewRGBA(image.Rect(0, 0, rs.config.Columns*cw, rs.config.Rows*ch))
	draw.Draw(img, img.Bounds(), image.NewUniform(rs.config.Background), image.Point{}, draw.Src)

	top := rs.py(frame.Track.Top - 0.5)
	bottom := rs.py(frame.Track.Bottom - 0.5)
	mid := (top + bottom) / 2
	thickness := ch / 8
	if thickness < 1 {
		thickness = 1
	}
	bar := func(left, right float64) image.Rectangle {
		return image.Rect(rs.px(left), mid-thickness, rs.px(right), mid+thickness)
	}

	rs.fill(img, bar(frame.Track.Left, frame.Track.Right), rs.config.Track)
	fill := frame.Fill()
	rs.fill(img, bar(fill.Left, fill.Right), rs.config.Fill)

	for _, h := range []struct {
		bounds Rect
		side   Side
	}{
		{frame.Lesser, SideLesser},
		{frame.Larger, SideLarger},
	} {
		c := rs.config.Handle
		if frame.State.Side() == h.side {
			c = rs.config.Active
		}
		rs.fill(img, image.Rect(
			rs.px(h.bounds.Left), rs.py(h.bounds.Top-0.5),
			rs.px(h.bounds.Right), rs.py(h.bounds.Bottom-0.5),
		), c)
	}

	caption := fmt.Sprintf("%s .. %s", formatValue(frame.LesserValue), formatValue(frame.LargerValue))
	rs.drawText(img, rs.px(frame.Track.Left-0.5), bottom+ch, caption)

	return img
}

func (rs *RenderingStage) fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// drawText draws s with its baseline at y.
func (rs *RenderingStage) drawText(img *image.RGBA, x, y int, s string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(rs.config.Foreground),
		Face: rs.font,
		Dot: fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(y),
		},
	}
	drawer.DrawString(s)
}

// CaptureFrame renders frame to a PNG file.
func (rs *RenderingStage) CaptureFrame(frame Frame, filename string) error {
	return writePNG(filename, rs.Render(frame))
}
