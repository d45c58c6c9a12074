// Package source turns files, clipboard contents and desktop screenshots
// into RGBA images that can be added to the canvas as layers.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/snapnote/internal/clipboard"
)

var (
	// ErrUnsupportedFormat is returned for data no registered decoder
	// recognises.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrNoScreenshot is returned when no screenshot backend produced an
	// image.
	ErrNoScreenshot = errors.New("no screenshot backend available")
)

// Decode reads an image in any registered format and returns it as RGBA
// along with the format name.
func Decode(r io.Reader) (*image.RGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, "", ErrUnsupportedFormat
		}
		return nil, format, fmt.Errorf("decode %s: %w", format, err)
	}
	return ToRGBA(img), format, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (*image.RGBA, string, error) {
	return Decode(bytes.NewReader(data))
}

// DecodeConfig reads only the header of data and reports the image size.
func DecodeConfig(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return 0, 0, ErrUnsupportedFormat
		}
		return 0, 0, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, fmt.Errorf("decode config: empty image %dx%d", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

// ToRGBA returns img as an *image.RGBA whose bounds start at the origin.
// RGBA input already at the origin is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(rgba, image.Point{}, img, b, draw.Src, nil)
	return rgba
}

// ReadFile loads the raw bytes of an image file, checking that a decoder
// recognises it.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if _, _, err := DecodeConfig(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// LoadFile decodes the image stored at path.
func LoadFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "close %s: %v\n", path, cerr)
		}
	}()
	img, _, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

var readClipboardImage = clipboard.ReadImage

// Clipboard returns the image currently held by the system clipboard.
func Clipboard() (*image.RGBA, error) {
	img, err := readClipboardImage()
	if err != nil {
		return nil, fmt.Errorf("paste image: %w", err)
	}
	return ToRGBA(img), nil
}
