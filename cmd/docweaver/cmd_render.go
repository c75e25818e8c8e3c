package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/grahms/docweaver/memdoc"
)

var renderCmd = &cobra.Command{
	Use:   "render TEMPLATE",
	Short: "Assemble a template into Markdown or HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, log, err := setup(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if err := renderOnce(o, args[0], cmd.ErrOrStderr()); err != nil {
			return err
		}
		if !o.watch {
			return nil
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return watch(ctx, args[0], log, func() error {
			return renderOnce(o, args[0], cmd.ErrOrStderr())
		})
	},
}

// renderOnce runs both passes over the template and writes the result.
// Progress goes to status.
func renderOnce(o options, tmplPath string, status io.Writer) error {
	format, err := o.outputFormat()
	if err != nil {
		return err
	}
	e, err := o.engine()
	if err != nil {
		return err
	}
	src, err := os.ReadFile(tmplPath)
	if err != nil {
		return err
	}

	doc := memdoc.New()
	refs, err := e.Process(src, doc)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if format == "html" {
		err = doc.WriteHTML(&buf)
	} else {
		err = doc.WriteMarkdown(&buf)
	}
	if err != nil {
		return err
	}
	if o.output == "" || o.output == "-" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(o.output, buf.Bytes(), 0o644); err != nil {
		return err
	}

	summary := fmt.Sprintf("%s: %d paragraphs, %d tables, %d references",
		o.output, len(doc.Paragraphs()), len(doc.Tables()), refs.Len())
	if f, ok := status.(*os.File); ok && styled(f) {
		summary = styleOK.Render("rendered") + " " + summary
	} else {
		summary = "rendered " + summary
	}
	fmt.Fprintln(status, summary)
	return nil
}

// watch calls fn whenever the file at path is written, until ctx is done.
// Render errors are logged and do not stop the watch.
func watch(ctx context.Context, path string, log *zap.Logger, fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	// Editors may replace the file on save; watch its directory.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	log.Info("watching template", zap.String("path", abs))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := fn(); err != nil {
				log.Error("render failed", zap.Error(err))
				fmt.Fprintln(os.Stderr, styleErr.Render("Error:"), err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}
