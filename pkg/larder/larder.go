// Package larder carries module-wide metadata shared by the CLI and build
// tooling.
package larder

// Version is the larder module version reported by the version command.
const Version = "v0.1.0"
