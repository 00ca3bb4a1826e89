package commands

import "github.com/spf13/cobra"

func (c *CLI) newProdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prod",
		Short: "Build the optimized site into the production output root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Prod(cmd.Context())
		},
	}
}
