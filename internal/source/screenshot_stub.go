//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package source

import (
	"context"
	"fmt"
	"image"
)

func screenshot(context.Context, ScreenshotOptions) (*image.RGBA, error) {
	return nil, fmt.Errorf("%w: screenshots are not supported on this platform", ErrNoScreenshot)
}
