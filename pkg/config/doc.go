// Package config loads netlayout settings.
//
// Settings come from three layers, later ones winning:
//
//  1. [Default] values
//  2. a TOML (.toml) or YAML (.yaml, .yml) file passed to [Load]
//  3. NETLAYOUT_* environment variables, optionally seeded from a .env
//     file with [LoadDotEnv]
//
// A minimal TOML file:
//
//	[layout]
//	accuracy = 0.0005
//	timeout = "30s"
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//
// Durations are written as Go duration strings ("50ms", "10s"). Unknown
// keys are rejected so that typos do not silently fall back to defaults.
package config
