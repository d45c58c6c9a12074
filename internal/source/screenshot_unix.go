//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
)

var (
	portalCapture = portalScreenshot
	x11Capture    = x11RootScreenshot
)

func screenshot(ctx context.Context, opts ScreenshotOptions) (*image.RGBA, error) {
	img, perr := portalCapture(ctx, opts)
	if perr == nil {
		return img, nil
	}
	if errors.Is(perr, context.Canceled) || errors.Is(perr, context.DeadlineExceeded) {
		return nil, perr
	}
	log.Printf("portal screenshot: %v", perr)
	img, xerr := x11Capture()
	if xerr == nil {
		return img, nil
	}
	return nil, fmt.Errorf("%w: %v; %v", ErrNoScreenshot, perr, xerr)
}
