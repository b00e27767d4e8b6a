// Package middleware provides the HTTP middleware chain: request
// logging in W3C extended log format, gzip compression for JSON
// responses, and Prometheus request metrics.
package middleware
