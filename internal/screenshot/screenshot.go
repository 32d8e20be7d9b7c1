// Package screenshot captures the primary display to a PNG file.
package screenshot

import (
	"errors"
	"fmt"
	goimage "image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/kbinani/screenshot"
)

// DefaultPath is where captures are written when no path is configured.
const DefaultPath = "./test.png"

// ErrNoDisplay is returned when no active display can be captured.
var ErrNoDisplay = errors.New("no active display to capture")

// Grabber returns the current contents of the primary display.
type Grabber func() (goimage.Image, error)

// Capturer writes screen captures to disk.
type Capturer struct {
	grab Grabber
}

// New returns a Capturer backed by the system display.
func New() *Capturer {
	return &Capturer{grab: grabPrimary}
}

// NewWithGrabber returns a Capturer using grab (for testing)
func NewWithGrabber(grab Grabber) *Capturer {
	return &Capturer{grab: grab}
}

// Capture grabs the screen and writes it to path as PNG, creating parent
// directories and overwriting any existing file. It returns the path written.
func (c *Capturer) Capture(path string) (string, error) {
	if path == "" {
		path = DefaultPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	img, err := c.grab()
	if err != nil {
		return "", fmt.Errorf("failed to capture screen: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create screenshot file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}

	return path, f.Close()
}

func grabPrimary() (goimage.Image, error) {
	if screenshot.NumActiveDisplays() < 1 {
		return nil, ErrNoDisplay
	}
	return screenshot.CaptureRect(screenshot.GetDisplayBounds(0))
}
