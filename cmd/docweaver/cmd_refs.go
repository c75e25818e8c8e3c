package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/grahms/docweaver"
)

var refsCmd = &cobra.Command{
	Use:   "refs TEMPLATE",
	Short: "Print the numbered headings, figures and tables of a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, _, err := setup(cmd)
		if err != nil {
			return err
		}
		e, err := o.engine()
		if err != nil {
			return err
		}
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		refs, err := e.Resolve(src)
		if err != nil {
			return err
		}
		printRefs(cmd.OutOrStdout(), refs, styled(os.Stdout))
		return nil
	},
}

// printRefs writes one aligned line per reference. With color the list is
// boxed.
func printRefs(w io.Writer, refs *docweaver.References, color bool) {
	entries := refs.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(w, "no references")
		return
	}

	keys := make([]string, len(entries))
	width := 0
	for i, e := range entries {
		keys[i] = fmt.Sprintf("%s[%s=%q]", e.Role, e.Attribute, e.Key)
		width = max(width, len(keys[i]))
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		key := fmt.Sprintf("%-*s", width, keys[i])
		if color {
			key = styleKey.Render(key)
		}
		lines[i] = key + "  " + e.Text
	}

	if !color {
		fmt.Fprintln(w, strings.Join(lines, "\n"))
		return
	}
	title := styleTitle.Render(fmt.Sprintf("%d references", len(entries)))
	fmt.Fprintln(w, styleTable.Render(lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(lines, "\n"))))
}
