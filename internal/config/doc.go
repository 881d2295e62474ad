// Package config loads quotafill's TOML configuration.
//
// Values resolve in the order flag > QUOTAFILL_* environment variable >
// config file > built-in default. Flags are applied by the cmd package;
// everything else happens in Load.
package config
