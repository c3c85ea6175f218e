// Package config loads the renderer's runtime settings from settings files,
// .env files and the environment.
package config
