// Package main provides the larder CLI: benchmark workloads for the larder
// hash table engines and a store for the recorded results.
// Implements: prd005-larder-cli R1; docs/ARCHITECTURE.md § CLI.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra has already printed the error. System errors exit inside
		// their RunE with exitSysError; everything else is a user error.
		os.Exit(exitUserError)
	}
}
