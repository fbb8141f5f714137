package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the server and client bundles once",
		Long: "Runs the server and client build commands in parallel, " +
			"then writes the asset manifest to the output directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := options(cmd)
			if cmd.Flags().Changed("static-prefix") {
				prefix, _ := cmd.Flags().GetString("static-prefix")
				opts.Overrides.StaticPrefix = &prefix
			}
			return c.app.Build(cmd.Context(), opts)
		},
	}

	cmd.Flags().String("static-prefix", "", "URL prefix client assets are served under")
	return cmd
}
