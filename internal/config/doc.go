// Package config provides the configuration for leadcrawl: built-in
// defaults, validation, the optional YAML file with per-site request
// settings, and environment overrides from the process or a .env file.
package config
