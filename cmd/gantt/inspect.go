package main

import (
	"fmt"
	"os"

	"github.com/easty4690-png/ab-agri-timeline/pkg/export"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newInspectCmd(a *app) *cobra.Command {
	rf := &renderFlags{}
	var asJSON, raw bool

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarise lanes, risks, legend and skipped rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			fig, err := compose(doc, rf.apply(a.cfg))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				data, err := export.LayoutJSON(fig)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			}

			md := export.GenerateMarkdown(doc, fig)
			if raw {
				_, err := fmt.Fprint(w, md)
				return err
			}
			rendered, err := export.RenderMarkdown(md, terminalWidth())
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(w, rendered)
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the composed layout as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")
	rf.bind(cmd)
	return cmd
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return min(w, 120)
	}
	return 100
}
