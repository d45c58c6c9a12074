package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/example/snapnote/internal/render"
	"github.com/example/snapnote/internal/workspace"
)

// composeCmd flattens images and annotations into a PNG without opening a
// window.
type composeCmd struct {
	markup
	output      string
	toClipboard bool
	copyText    bool
	shadow      bool
	*root
	fs *flag.FlagSet
}

func (c *composeCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *composeCmd) Program() string {
	return c.subcommand("compose")
}

func parseComposeCmd(args []string, r *root) (*composeCmd, error) {
	fs := flag.NewFlagSet("compose", flag.ExitOnError)
	c := &composeCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	cfg := defaultConfig(r)
	fs.StringVar(&c.output, "output", cfg.Output, "output file path, relative to save_dir when set")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.BoolVar(&c.copyText, "copy-text", false, "copy the annotation text block to the clipboard instead of the image")
	fs.BoolVar(&c.shadow, "shadow", false, "draw a drop shadow behind the exported image")
	c.register(fs, cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 0 && !c.fromClipboard {
		return nil, &UsageError{of: c}
	}
	if c.copyText && !c.toClipboard {
		return nil, fmt.Errorf("-copy-text requires -to-clipboard")
	}
	return c, nil
}

func (c *composeCmd) Run() error {
	var extra []workspace.Option
	if c.shadow {
		extra = append(extra, workspace.WithExportShadow(render.DefaultShadow()))
	}
	ws, err := c.build(context.Background(), c.root, c.fs.Args(), extra...)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}
	defer ws.Close()

	path, err := ws.Save(c.output)
	if err != nil {
		return fmt.Errorf("compose: %w", err)
	}
	fmt.Fprintf(os.Stderr, "saved %s\n", path)

	if !c.toClipboard {
		return nil
	}
	if c.copyText {
		ok, err := ws.CopyText()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "no annotations to copy")
		}
		return nil
	}
	return ws.CopyImage()
}
