package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newFormsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forms OUTPUT",
		Short: "List the forms the index holds for an output file",
		Long: `Prints, in emission order, every form recorded in the index for
OUTPUT. Requires --index.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := a.openIndex(cmd.Context())
			if err != nil {
				return err
			}
			forms, err := ix.Forms(cmd.Context(), filepath.Clean(args[0]))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range forms {
				fmt.Fprintln(out, f)
			}
			return nil
		},
	}
}
