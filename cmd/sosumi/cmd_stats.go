package main

import (
	"github.com/spf13/cobra"

	"github.com/smith-tools/sosumi/internal/render"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics over the whole transcript corpus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(statsFormat)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()

		rendered, err := app.Statistics(ctx, format)
		if err != nil {
			return err
		}
		return printRendered(rendered)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsFormat, "format", "markdown", "markdown|json")
}
