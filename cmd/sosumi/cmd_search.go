package main

import (
	"github.com/spf13/cobra"

	"github.com/smith-tools/sosumi/internal/render"
)

var (
	searchVerbosity string
	searchFormat    string
	searchLimit     int
)

var searchCmd = &cobra.Command{
	Use:   "wwdc <QUERY>",
	Short: "Full-text search the WWDC transcript archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := verbosityToMode(searchVerbosity)
		if err != nil {
			return err
		}
		format, err := render.ParseFormat(searchFormat)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext()
		defer cancel()

		rendered, err := app.Search(ctx, args[0], mode, format, searchLimit, 0)
		if err != nil {
			return err
		}
		return printRendered(rendered)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchVerbosity, "verbosity", "compact", "compact|detailed|full")
	searchCmd.Flags().StringVar(&searchFormat, "format", "markdown", "markdown|json")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum number of results (0 = default)")
}

// verbosityToMode maps the wwdc subcommand's --verbosity vocabulary onto
// the renderer's Mode axis.
func verbosityToMode(verbosity string) (render.Mode, error) {
	switch verbosity {
	case "compact":
		return render.ModeCompact, nil
	case "detailed":
		return render.ModeUser, nil
	case "full":
		return render.ModeAgent, nil
	default:
		return render.ParseMode(verbosity)
	}
}
