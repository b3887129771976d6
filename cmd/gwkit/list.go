package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gwkit/pkg/browse"
)

func newListCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [keyword...]",
		Short: "Print the hosts matching every keyword",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.load()
			if err != nil {
				return err
			}
			defer e.closer.Close()

			view := browse.Filter(e.store.Records(), browse.Tokenize(strings.Join(args, " ")))
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "HOST\tTAGS\tDESCRIPTION")
			for _, r := range view {
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Key, r.TagLine(), r.Description)
			}
			return w.Flush()
		},
	}
}
