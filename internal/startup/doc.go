// Package startup handles application configuration from environment
// variables, directory validation, and the structured startup and
// shutdown log output.
package startup
