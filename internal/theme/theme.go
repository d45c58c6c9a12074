// Package theme describes the colours of the interactive editor.
package theme

import (
	"embed"
	"image/color"
)

// EmbeddedThemes holds the themes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colour palette for the editor window.
type Theme struct {
	Name string

	Background color.RGBA // Window background around the canvas
	Foreground color.RGBA // Status bar text

	StatusBar color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
	Selection    color.RGBA // Outline of the selected layer or annotation

	// Annotation and LayerBadge seed the renderer colours.
	Annotation color.RGBA
	LayerBadge color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:         "Default",
		Background:   color.RGBA{220, 220, 220, 255},
		Foreground:   color.RGBA{0, 0, 0, 255},
		StatusBar:    color.RGBA{235, 235, 235, 255},
		CheckerLight: color.RGBA{220, 220, 220, 255},
		CheckerDark:  color.RGBA{192, 192, 192, 255},
		Selection:    color.RGBA{0x3b, 0x82, 0xf6, 255},
		Annotation:   color.RGBA{0xf9, 0x73, 0x16, 255},
		LayerBadge:   color.RGBA{0x3b, 0x82, 0xf6, 255},
	}
}
