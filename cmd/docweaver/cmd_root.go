package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/grahms/docweaver"
)

var opts options

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Two-pass document template assembler",
	Long: appName + " resolves cross references in a tag template and assembles it into a document.\n\n" +
		"Headings, figures and tables are numbered first, so references may point forward.",
}

// setup merges the config file under the flags and builds the logger.
func setup(cmd *cobra.Command) (options, *zap.Logger, error) {
	cfg, err := loadConfig(opts.config)
	if err != nil {
		return options{}, nil, err
	}
	o := opts.merge(cfg, cmd.Flags().Changed)
	log, err := newLogger(o.verbose)
	if err != nil {
		return options{}, nil, err
	}
	docweaver.SetLogger(log)
	return o, log, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}
