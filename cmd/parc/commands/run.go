package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/parc/internal/adapters/telemetry/progrock"
	"go.trai.ch/parc/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover, schedule, and analyze all source files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if progress, _ := cmd.Flags().GetBool("progress"); progress {
				c.app.Apply(app.WithTelemetry(progrock.New()))
			}
			return c.app.Run(cmd.Context(), config)
		},
	}
	cmd.Flags().Bool("progress", false, "Render live progress output")
	return cmd
}
