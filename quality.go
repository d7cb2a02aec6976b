package rangeseek

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/teranos/rangeseek/trip"
)

// ScriptSupervisor compares captured frames against stored baselines.
type ScriptSupervisor struct {
	baselineDir string
	currentDir  string
	tolerance   float64 // Fraction of pixels allowed to differ
	logger      logrus.FieldLogger
}

// NewScriptSupervisor creates a new visual regression validator
func NewScriptSupervisor(baselineDir, currentDir string) *ScriptSupervisor {
	return &ScriptSupervisor{
		baselineDir: baselineDir,
		currentDir:  currentDir,
		tolerance:   0.05, // 5% difference tolerance
		logger:      logrus.StandardLogger().WithField("component", "script_supervisor"),
	}
}

// WithTolerance sets the fraction of pixels allowed to differ.
func (ss *ScriptSupervisor) WithTolerance(tolerance float64) *ScriptSupervisor {
	ss.tolerance = tolerance
	return ss
}

// HasBaseline reports whether a baseline exists for name.
func (ss *ScriptSupervisor) HasBaseline(name string) bool {
	_, err := os.Stat(ss.baselinePath(name))
	return err == nil
}

func (ss *ScriptSupervisor) baselinePath(name string) string {
	return filepath.Join(ss.baselineDir, name+".png")
}

// CurrentPath is where the frame under test for name is expected.
func (ss *ScriptSupervisor) CurrentPath(name string) string {
	return filepath.Join(ss.currentDir, name+".png")
}

// ValidateConsistency compares the current frame with its baseline. A
// difference above tolerance writes a diff image next to the current frame
// and returns a Visual trip.
func (ss *ScriptSupervisor) ValidateConsistency(name string) error {
	baseline, err := ss.loadImage(ss.baselinePath(name))
	if err != nil {
		return fmt.Errorf("failed to load baseline: %w", err)
	}

	current, err := ss.loadImage(ss.CurrentPath(name))
	if err != nil {
		return fmt.Errorf("failed to load current: %w", err)
	}

	difference := Difference(baseline, current)

	if difference > ss.tolerance {
		diffPath := filepath.Join(ss.currentDir, name+"_diff.png")
		if err := ss.generateDiffImage(baseline, current, diffPath); err != nil {
			ss.logger.WithError(err).Warn("failed to generate diff image")
		}

		return trip.NewTrip(trip.Visual, fmt.Sprintf("visual regression detected: %.2f%% difference (tolerance: %.2f%%)",
			difference*100, ss.tolerance*100), trip.Context{
			"name":       name,
			"difference": difference,
			"diff_image": diffPath,
		})
	}

	return nil
}

// loadImage loads an image from file
func (ss *ScriptSupervisor) loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

// Difference returns the fraction of pixels that differ between two images.
// Images of different sizes are entirely different.
func Difference(img1, img2 image.Image) float64 {
	bounds1 := img1.Bounds()
	bounds2 := img2.Bounds()

	if bounds1 != bounds2 {
		return 1.0
	}

	totalPixels := bounds1.Dx() * bounds1.Dy()
	if totalPixels == 0 {
		return 0
	}
	differentPixels := 0

	for y := bounds1.Min.Y; y < bounds1.Max.Y; y++ {
		for x := bounds1.Min.X; x < bounds1.Max.X; x++ {
			if !sameColor(img1.At(x, y), img2.At(x, y)) {
				differentPixels++
			}
		}
	}

	return float64(differentPixels) / float64(totalPixels)
}

// sameColor compares premultiplied values, so the same pixel decoded into
// different color models still matches.
func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}

// generateDiffImage creates a visual diff highlighting differences
func (ss *ScriptSupervisor) generateDiffImage(baseline, current image.Image, outputPath string) error {
	bounds := baseline.Bounds()
	diff := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			baseColor := baseline.At(x, y)
			if !sameColor(baseColor, current.At(x, y)) {
				diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				continue
			}

			// Dim matching pixels to half brightness
			r, g, b, a := baseColor.RGBA()
			diff.Set(x, y, color.RGBA{
				uint8(r >> 9),
				uint8(g >> 9),
				uint8(b >> 9),
				uint8(a >> 8),
			})
		}
	}

	return writePNG(outputPath, diff)
}

// writePNG encodes img to path. A failed write or close removes the file.
func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	err = png.Encode(file, img)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}

// SetBaseline copies a captured frame to the baseline for name.
func (ss *ScriptSupervisor) SetBaseline(name, framePath string) error {
	if err := os.MkdirAll(ss.baselineDir, 0755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}

	input, err := os.Open(framePath)
	if err != nil {
		return err
	}
	defer input.Close()

	baseline := ss.baselinePath(name)
	output, err := os.Create(baseline)
	if err != nil {
		return err
	}

	_, err = output.ReadFrom(input)
	if closeErr := output.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(baseline)
		return fmt.Errorf("failed to store baseline: %w", err)
	}
	return nil
}
