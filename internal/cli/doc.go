// Package cli defines the Cobra command tree. The root command bootstraps a
// project; each other file registers one subcommand (upgrade, manage,
// status, sync, config, version). Commands resolve the stable mirror and
// registry, then delegate to internal packages and only handle flags,
// output and prompting.
package cli
