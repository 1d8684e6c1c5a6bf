package main

import (
	"github.com/spf13/cobra"

	"github.com/smith-tools/sosumi/internal/render"
)

var (
	sessionMode   string
	sessionFormat string
)

var sessionCmd = &cobra.Command{
	Use:   "session <ID>",
	Short: "Look up a single WWDC session by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := render.ParseMode(sessionMode)
		if err != nil {
			return err
		}
		format, err := render.ParseFormat(sessionFormat)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()

		rendered, err := app.GetSession(ctx, args[0], mode, format)
		if err != nil {
			return err
		}
		return printRendered(rendered)
	},
}

func init() {
	sessionCmd.Flags().StringVar(&sessionMode, "mode", "user", "user|agent")
	sessionCmd.Flags().StringVar(&sessionFormat, "format", "markdown", "markdown|json")
}
