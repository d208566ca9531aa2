package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heal-research/eqnorm"
)

type inspectResult struct {
	Input  string          `json:"input"`
	Parsed string          `json:"parsed"`
	Form   string          `json:"form"`
	Keep   bool            `json:"keep"`
	Tree   json.RawMessage `json:"tree"`
}

func newInspectCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect EXPR",
		Short: "Show the canonical form of one expression",
		Long: `Parses EXPR, applies the active profile and prints the canonical form.
A form the profile would reject is marked with "(rejected)".

Examples:
  eqnorm inspect "2*x + 3"
  eqnorm inspect --profile enumerated --json "a0*x**2 - 1"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			norm, err := a.normalizer("")
			if err != nil {
				return err
			}

			e, err := norm.Expr(input)
			if err != nil {
				var perr *eqnorm.ParseError
				if errors.As(err, &perr) {
					return fmt.Errorf("could not parse %q: %w", input, err)
				}
				return err
			}
			form, keep, err := norm.Line(input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !asJSON {
				if keep {
					fmt.Fprintln(out, form)
				} else {
					fmt.Fprintln(out, form, "(rejected)")
				}
				return nil
			}

			parsed, err := eqnorm.Parse(input)
			if err != nil {
				// The profile's text rules made it parseable; show the
				// rewritten expression instead.
				parsed = e
			}
			tree, err := eqnorm.ToJSON(e)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(inspectResult{
				Input:  input,
				Parsed: parsed.String(),
				Form:   form,
				Keep:   keep,
				Tree:   json.RawMessage(tree),
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print a JSON report with the expression tree")
	return cmd
}
