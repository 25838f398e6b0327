// Package config loads the ETL configuration.
//
// Sources, lowest precedence first: built-in defaults, a YAML file with
// ${VAR} interpolation, then individual environment variables. A .env file
// may be loaded into the process environment before any of this happens.
// The resulting Config is built once in main and passed down explicitly.
package config
