// Package assets defines how derived assets (cover thumbnails, montage
// previews, pre-rendered transcodes) are named and located on disk.
//
// A video is identified by its path relative to the library root. Derived
// asset filenames are computed by flattening that path into a single
// filesystem-safe token, so nested videos never collide in the flat
// thumbnail directory.
//
// The package also provides the path-safety checks shared by every
// component that resolves client-supplied names against a directory.
package assets
