package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/snapnote/internal/theme"
)

// DefaultOutput is the file name used when saving without an explicit path.
const DefaultOutput = "annotated-screenshot.png"

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Canvas holds the editor geometry settings.
type Canvas struct {
	MaxHeight float64
	Padding   float64
	MinZoom   float64
	MaxZoom   float64
	ZoomStep  float64
	Stagger   float64
	History   int
	MinDraw   float64
}

// Render holds the composite settings.
type Render struct {
	ShowImageIDs     bool
	IncludeImageMeta bool
	// AnnotationColor overrides the theme colour when its alpha is non-zero.
	AnnotationColor color.RGBA
	MosaicMinCell   int
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Output  string
	Notify  Notify
	Canvas  Canvas
	Render  Render
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Output: DefaultOutput,
		Canvas: Canvas{
			MaxHeight: 600,
			Padding:   14,
			MinZoom:   0.5,
			MaxZoom:   5,
			ZoomStep:  0.2,
			Stagger:   20,
			History:   50,
			MinDraw:   5,
		},
		Render: Render{
			ShowImageIDs:  true,
			MosaicMinCell: 6,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	if c.Output != "" {
		fmt.Fprintf(&sb, "output = %s\n", c.Output)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "max_height = %g\n", c.Canvas.MaxHeight)
	fmt.Fprintf(&sb, "padding = %g\n", c.Canvas.Padding)
	fmt.Fprintf(&sb, "min_zoom = %g\n", c.Canvas.MinZoom)
	fmt.Fprintf(&sb, "max_zoom = %g\n", c.Canvas.MaxZoom)
	fmt.Fprintf(&sb, "zoom_step = %g\n", c.Canvas.ZoomStep)
	fmt.Fprintf(&sb, "stagger = %g\n", c.Canvas.Stagger)
	fmt.Fprintf(&sb, "history = %d\n", c.Canvas.History)
	fmt.Fprintf(&sb, "min_draw = %g\n", c.Canvas.MinDraw)
	sb.WriteString("\n")

	sb.WriteString("[render]\n")
	fmt.Fprintf(&sb, "show_image_ids = %v\n", c.Render.ShowImageIDs)
	fmt.Fprintf(&sb, "include_image_meta = %v\n", c.Render.IncludeImageMeta)
	if c.Render.AnnotationColor.A != 0 {
		fmt.Fprintf(&sb, "annotation_color = %s\n", theme.Hex(c.Render.AnnotationColor))
	}
	fmt.Fprintf(&sb, "mosaic_min_cell = %d\n", c.Render.MosaicMinCell)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, key := range theme.Fields(t) {
			fmt.Fprintf(&sb, "%s: %s\n", key, theme.Hex(theme.Color(t, key)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
