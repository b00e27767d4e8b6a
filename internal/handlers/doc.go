// Package handlers contains the HTTP handlers for the video gallery
// API: the library listing, the stream endpoint with its delivery
// resolution, custom thumbnail uploads, and the health and version
// endpoints.
package handlers
