// Package config resolves the application configuration from command-line
// flags, MONTYHALL_* environment variables, an optional YAML file and
// hardware-derived defaults.
package config
