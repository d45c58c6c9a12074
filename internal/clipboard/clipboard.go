// Package clipboard publishes exported composites and text blocks to the
// system clipboard and reads pasted images back.
package clipboard

import "errors"

var (
	// ErrNoImage is returned by ReadImage when the clipboard holds no image.
	ErrNoImage = errors.New("clipboard does not contain image data")
	// ErrNoText is returned by ReadText when the clipboard holds no text.
	ErrNoText = errors.New("clipboard does not contain text data")
)
