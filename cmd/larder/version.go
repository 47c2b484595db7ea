// Version command for the larder CLI.
// Implements: prd005-larder-cli R2.2.
package main

import (
	"fmt"

	"github.com/mesh-intelligence/larder/pkg/larder"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the larder version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("larder", larder.Version)
	},
}
