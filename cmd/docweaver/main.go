// Command docweaver assembles XML-like document templates into Markdown or
// HTML.
package main

import (
	"fmt"
	"os"
)

const appName = "docweaver"

func main() {
	rootCmd.AddCommand(renderCmd, refsCmd)

	rootCmd.PersistentFlags().StringVar(&opts.config, "config", "",
		"YAML file with default option values")
	rootCmd.PersistentFlags().StringVar(&opts.keywords, "keywords", "",
		"YAML file with keyword values")
	rootCmd.PersistentFlags().IntVar(&opts.headingDepth, "heading-depth", 0,
		"heading depth at which figure and table numbers restart (0: every heading)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"log every tag to stderr")

	renderCmd.Flags().StringVarP(&opts.output, "output", "o", "",
		"output file (default: stdout)")
	renderCmd.Flags().StringVar(&opts.data, "data", "",
		"YAML data configuration for string, figure and table tags")
	renderCmd.Flags().StringVar(&opts.format, "format", "",
		"output format: md or html (default: from the output extension, else md)")
	renderCmd.Flags().StringVar(&opts.unknown, "unknown", "",
		"unknown tag policy: drop, audit or strict (default: drop)")
	renderCmd.Flags().BoolVarP(&opts.watch, "watch", "w", false,
		"render again whenever the template changes")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleErr.Render("Error:"), err.Error())
		os.Exit(1)
	}
}
