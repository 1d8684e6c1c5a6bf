package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smith-tools/sosumi/internal/docsclient"
)

var docsBaseURL string

// docsCmd hands one documentation path to the live Apple Developer
// documentation client and prints what it returns. It shares no state with
// the local WWDC corpus and runs no WWDC query of its own.
var docsCmd = &cobra.Command{
	Use:   "doc <PATH>",
	Short: "Fetch a live Apple Developer documentation page (not implemented in this build)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext()
		defer cancel()

		client := docsclient.New(docsBaseURL)
		text, err := client.FetchDocument(ctx, args[0])
		if err != nil {
			return fmt.Errorf("doc: %w", err)
		}
		writeLine(text)
		return nil
	},
}

func init() {
	docsCmd.Flags().StringVar(&docsBaseURL, "base-url", "https://developer.apple.com", "base URL for the live documentation client")
	rootCmd.AddCommand(docsCmd)
}
