// Package config provides configuration management for the PickPulse
// analytics service.
//
// Configuration is assembled from three layers, lowest precedence
// first:
//
//  1. struct tag defaults
//  2. an optional YAML file (config.yaml or configs/config.yaml)
//  3. PICKPULSE_-prefixed environment variables
//
// Domain constants that describe the warehouse report format itself
// (the filename prefix, the worksheet name, the column labels) live in
// constants.go rather than the mutable configuration, because they are
// facts about the upstream WMS export and changing them ad hoc would
// silently empty every parse.
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	paths, err := cfg.ResolvePaths()
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := paths.EnsureDirectories(); err != nil {
//		log.Fatal(err)
//	}
package config
