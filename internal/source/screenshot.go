package source

import (
	"context"
	"image"
)

// ScreenshotOptions tunes desktop captures.
type ScreenshotOptions struct {
	// Interactive lets the desktop show its own capture dialog.
	Interactive   bool
	IncludeCursor bool
}

// Screenshot captures the desktop. The screenshot portal is tried first and
// the X11 root window is grabbed when the portal is unavailable.
func Screenshot(ctx context.Context, opts ScreenshotOptions) (*image.RGBA, error) {
	return screenshot(ctx, opts)
}
