package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/example/snapnote/internal/config"
	"github.com/example/snapnote/internal/render"
	"github.com/example/snapnote/internal/source"
	"github.com/example/snapnote/internal/viewer"
	"github.com/example/snapnote/internal/workspace"
)

var runViewer = func(v *viewer.Viewer) { v.Run() }

// editCmd opens the annotation window.
type editCmd struct {
	output        string
	capture       bool
	interactive   bool
	includeCursor bool
	paste         bool
	shadow        bool
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func (e *editCmd) Program() string {
	return e.subcommand("edit")
}

func defaultConfig(r *root) *config.Config {
	if r == nil || r.config == nil {
		return config.New()
	}
	return r.config
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.output, "output", defaultConfig(r).Output, "file written by the save shortcut")
	fs.BoolVar(&e.capture, "capture", false, "start with a screenshot of the desktop")
	fs.BoolVar(&e.interactive, "interactive", false, "let the desktop portal ask what to capture")
	fs.BoolVar(&e.includeCursor, "include-cursor", false, "embed the cursor in captures when supported")
	fs.BoolVar(&e.paste, "paste", false, "start with the clipboard image")
	fs.BoolVar(&e.shadow, "shadow", false, "draw a drop shadow behind saved and copied images")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *editCmd) Run() error {
	cfg := defaultConfig(e.root)
	opts := []workspace.Option{
		workspace.WithConfig(cfg),
		workspace.WithPickCallback(func(hex string) { log.Printf("picked %s", hex) }),
	}
	if e.root != nil {
		opts = append(opts, workspace.WithNotifier(e.notifier))
	}
	if e.shadow {
		opts = append(opts, workspace.WithExportShadow(render.DefaultShadow()))
	}
	ws := workspace.New(opts...)

	capOpts := source.ScreenshotOptions{Interactive: e.interactive, IncludeCursor: e.includeCursor}
	if err := e.load(ws, capOpts); err != nil {
		ws.Close()
		return fmt.Errorf("edit: %w", err)
	}

	title := "snapnote"
	if args := e.fs.Args(); len(args) == 1 {
		title = "snapnote - " + filepath.Base(args[0])
	}
	vopts := []viewer.Option{
		viewer.WithOutput(e.output),
		viewer.WithTitle(title),
		viewer.WithCaptureOptions(capOpts),
		viewer.WithOnClose(ws.Close),
	}
	if e.root != nil && e.activeTheme != nil {
		vopts = append(vopts, viewer.WithTheme(e.activeTheme))
	}
	runViewer(viewer.New(ws, vopts...))
	return nil
}

func (e *editCmd) load(ws *workspace.Workspace, capOpts source.ScreenshotOptions) error {
	if e.capture {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := ws.CaptureScreen(ctx, capOpts); err != nil {
			return fmt.Errorf("capture screen: %w", err)
		}
	}
	if e.paste {
		if _, err := ws.PasteImage(); err != nil {
			return fmt.Errorf("read clipboard: %w", err)
		}
	}
	for _, f := range e.fs.Args() {
		if _, err := ws.AddFile(f); err != nil {
			return fmt.Errorf("add %s: %w", f, err)
		}
	}
	return nil
}
