package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/travspan"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of travspan",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "travspan version %s\n", strings.TrimSpace(travspan.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
