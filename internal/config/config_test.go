package config

import (
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/snapnote/internal/theme"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/screens
output = "review.png"

[notify]
save = false
copy = true

[canvas]
max_height = 720
stagger = 32
history = 10

[render]
show_image_ids = false
include_image_meta = true
annotation_color = orange
mosaic_min_cell = 8

[theme.my_custom_theme]
Background = #111111
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/screens" {
		t.Errorf("Expected save_dir '/tmp/screens', got '%s'", cfg.SaveDir)
	}
	if cfg.Output != "review.png" {
		t.Errorf("Output = %q", cfg.Output)
	}
	if cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("Notify = %+v", cfg.Notify)
	}
	if cfg.Canvas.MaxHeight != 720 || cfg.Canvas.Stagger != 32 || cfg.Canvas.History != 10 {
		t.Errorf("Canvas = %+v", cfg.Canvas)
	}
	if cfg.Canvas.Padding != 14 || cfg.Canvas.MinDraw != 5 {
		t.Errorf("unset canvas keys should keep defaults: %+v", cfg.Canvas)
	}
	if cfg.Render.ShowImageIDs || !cfg.Render.IncludeImageMeta || cfg.Render.MosaicMinCell != 8 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Render.AnnotationColor != (color.RGBA{0xff, 0xa5, 0x00, 0xff}) {
		t.Errorf("AnnotationColor = %v", cfg.Render.AnnotationColor)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"notify bool":  "[notify]\nsave = maybe\n",
		"canvas float": "[canvas]\nmax_height = tall\n",
		"render color": "[render]\nannotation_color = #zz\n",
		"theme color":  "[theme.x]\nBackground = #12\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(input)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/shots

[notify]
save = true
copy = false

[canvas]
zoom_step = 0.25

[render]
annotation_color = #11223344

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}

	if cfg.Theme != cfg2.Theme || cfg.SaveDir != cfg2.SaveDir || cfg.Output != cfg2.Output {
		t.Errorf("root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if cfg.Canvas != cfg2.Canvas {
		t.Errorf("Canvas mismatch: %+v vs %+v", cfg.Canvas, cfg2.Canvas)
	}
	if cfg.Render != cfg2.Render {
		t.Errorf("Render mismatch: %+v vs %+v", cfg.Render, cfg2.Render)
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderOverrideAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.rc")
	cfg := New()
	cfg.Theme = "dark"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	l := NewLoader("v1.0.0", path)
	if got := l.GetConfigPath(); got != path {
		t.Fatalf("GetConfigPath = %q, want %q", got, path)
	}
	loaded, err := l.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Theme != "dark" {
		t.Fatalf("Theme = %q", loaded.Theme)
	}
}

func TestLoaderDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := NewLoader("v1.0.0", "").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output != DefaultOutput || !cfg.Render.ShowImageIDs {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestResolveTheme(t *testing.T) {
	cfg := New()
	cfg.Theme = "light"
	inline := theme.Default()
	inline.Name = "inline"
	cfg.Themes["inline"] = inline

	t.Setenv(ThemeEnv, "")
	th, err := ResolveTheme(cfg, "", &theme.Loader{})
	if err != nil || th.Name != "light" {
		t.Fatalf("config theme = %v, %v", th, err)
	}

	t.Setenv(ThemeEnv, "dark")
	th, err = ResolveTheme(cfg, "", &theme.Loader{})
	if err != nil || th.Name != "dark" {
		t.Fatalf("env theme = %v, %v", th, err)
	}

	th, err = ResolveTheme(cfg, "inline", &theme.Loader{})
	if err != nil || th != inline {
		t.Fatalf("flag theme = %v, %v", th, err)
	}
}
