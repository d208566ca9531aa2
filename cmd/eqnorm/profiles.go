package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/heal-research/eqnorm/internal/normalize"
)

func newProfilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles [NAME]",
		Short: "List built-in profiles or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				src, err := normalize.BuiltinSource(args[0])
				if err != nil {
					return err
				}
				_, err = out.Write(src)
				return err
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPROGRESS\tDESCRIPTION")
			for _, name := range normalize.BuiltinNames() {
				p, err := normalize.Builtin(name)
				if err != nil {
					return err
				}
				marker := ""
				if a.cfg.ProfileFile == "" && a.cfg.ProfileName("") == name {
					marker = " *"
				}
				fmt.Fprintf(tw, "%s%s\t%d\t%s\n", name, marker, p.ProgressEvery, p.Description)
			}
			return tw.Flush()
		},
	}
}
