// Package config loads lumina settings for both the persistence server and
// the command-line client. Values come from built-in defaults, an optional
// config.yaml and LUMINA_-prefixed environment variables, in increasing
// precedence, and are validated before use.
package config
