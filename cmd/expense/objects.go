package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var objectsJSON bool

var objectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "List the active cost objects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cfg, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		b, err := openBackend(ctx, cfg)
		if err != nil {
			return err
		}
		defer b.close()

		options, err := b.objects.ListActiveOptions(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if objectsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(options)
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, o := range options {
			fmt.Fprintf(w, "%s\t%s\n", o.ID, o.Name)
		}
		return w.Flush()
	},
}

func init() {
	objectsCmd.Flags().BoolVar(&objectsJSON, "json", false, "Print JSON instead of a table")
}
