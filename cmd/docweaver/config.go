package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/grahms/docweaver"
	"github.com/grahms/docweaver/document"
)

// options are the effective settings of one invocation.
type options struct {
	config       string
	data         string
	keywords     string
	output       string
	format       string
	unknown      string
	headingDepth int
	watch        bool
	verbose      bool
	styles       docweaver.Styles
}

// fileConfig is the layout of the --config file. Relative paths are
// resolved against the directory of the file.
type fileConfig struct {
	Data         string           `yaml:"data"`
	Keywords     string           `yaml:"keywords"`
	Format       string           `yaml:"format"`
	Unknown      string           `yaml:"unknown"`
	HeadingDepth int              `yaml:"heading_depth"`
	Verbose      bool             `yaml:"verbose"`
	FigureWidth  string           `yaml:"figure_width"`
	Styles       docweaver.Styles `yaml:"styles"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	cfg, err = parseConfig(bytes.NewReader(raw))
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	cfg.Data = relativeTo(dir, cfg.Data)
	cfg.Keywords = relativeTo(dir, cfg.Keywords)
	return cfg, nil
}

func parseConfig(r io.Reader) (fileConfig, error) {
	var cfg fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if cfg.FigureWidth != "" {
		w, err := document.ParseLength(cfg.FigureWidth)
		if err != nil {
			return cfg, fmt.Errorf("figure_width: %w", err)
		}
		cfg.Styles.FigureWidth = w
	}
	return cfg, nil
}

func relativeTo(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// merge fills every option whose flag was not given from cfg.
func (o options) merge(cfg fileConfig, changed func(name string) bool) options {
	str := func(name string, flag *string, v string) {
		if !changed(name) && v != "" {
			*flag = v
		}
	}
	str("data", &o.data, cfg.Data)
	str("keywords", &o.keywords, cfg.Keywords)
	str("format", &o.format, cfg.Format)
	str("unknown", &o.unknown, cfg.Unknown)
	if !changed("heading-depth") && cfg.HeadingDepth != 0 {
		o.headingDepth = cfg.HeadingDepth
	}
	if !changed("verbose") && cfg.Verbose {
		o.verbose = true
	}
	o.styles = cfg.Styles
	return o
}

// outputFormat picks the render format from --format or the output
// extension.
func (o options) outputFormat() (string, error) {
	f := strings.ToLower(o.format)
	if f == "" {
		switch strings.ToLower(filepath.Ext(o.output)) {
		case ".html", ".htm":
			f = "html"
		default:
			f = "md"
		}
	}
	switch f {
	case "md", "markdown":
		return "md", nil
	case "html":
		return "html", nil
	}
	return "", fmt.Errorf("unsupported format %q", o.format)
}

// engine builds an engine from the options with the builtin generators.
func (o options) engine() (*docweaver.Engine, error) {
	policy := docweaver.UnknownDrop
	if o.unknown != "" {
		p, ok := docweaver.ParseUnknownTagPolicy(o.unknown)
		if !ok {
			return nil, fmt.Errorf("unknown tag policy %q", o.unknown)
		}
		policy = p
	}

	kw := docweaver.Keywords{}
	if o.keywords != "" {
		f, err := os.Open(o.keywords)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if kw, err = docweaver.LoadKeywords(f); err != nil {
			return nil, fmt.Errorf("%s: %w", o.keywords, err)
		}
	}
	if _, ok := kw["output"]; !ok && o.output != "" {
		kw["output"] = o.output
	}

	plugins, err := builtinPlugins()
	if err != nil {
		return nil, err
	}
	engineOpts := []func(*docweaver.Engine){
		docweaver.WithUnknownPolicy(policy),
		docweaver.WithHeadingDepth(o.headingDepth),
		docweaver.WithKeywords(kw),
		docweaver.WithPlugins(plugins),
		docweaver.WithStyles(o.styles),
		docweaver.WithLogger(docweaver.Logger()),
	}
	if o.data != "" {
		f, err := os.Open(o.data)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		dc, err := docweaver.LoadDataConfig(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", o.data, err)
		}
		engineOpts = append(engineOpts, docweaver.WithDataConfig(dc))
	}
	return docweaver.NewEngine(nil, engineOpts...), nil
}
