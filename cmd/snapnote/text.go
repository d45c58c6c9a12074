package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
)

// textCmd prints the markdown blocks describing the annotations, and the
// images when -meta is set.
type textCmd struct {
	markup
	toClipboard bool
	stdout      io.Writer
	*root
	fs *flag.FlagSet
}

func (t *textCmd) FlagSet() *flag.FlagSet {
	return t.fs
}

func (t *textCmd) Program() string {
	return t.subcommand("text")
}

func parseTextCmd(args []string, r *root) (*textCmd, error) {
	fs := flag.NewFlagSet("text", flag.ExitOnError)
	t := &textCmd{root: r, fs: fs, stdout: os.Stdout}
	fs.Usage = usageFunc(t)
	fs.BoolVar(&t.toClipboard, "to-clipboard", false, "copy the text to the clipboard as well")
	fs.BoolVar(&t.toClipboard, "to-clip", false, "copy the text to the clipboard as well (alias)")
	t.register(fs, defaultConfig(r))
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *textCmd) Run() error {
	ws, err := t.build(context.Background(), t.root, t.fs.Args())
	if err != nil {
		return fmt.Errorf("text: %w", err)
	}
	defer ws.Close()

	text := ws.PromptText()
	if text == "" {
		fmt.Fprintln(os.Stderr, "no annotations")
		return nil
	}
	fmt.Fprint(t.stdout, text)
	if t.toClipboard {
		if _, err := ws.CopyText(); err != nil {
			return err
		}
	}
	return nil
}
