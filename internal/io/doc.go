// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Directory creation and existence checks
//   - Filename sanitization for playlist and sidecar names
//   - Cover art normalisation (JPEG conversion, resizing)
//
// # File Operations
//
//	// Ensure the album directory exists
//	err := ioutils.EnsureDir("/music/Artist/Album")
//
//	// Check for an existing sidecar cover
//	if ioutils.IsFile("/music/Artist/Album/cover.jpg") { ... }
//
// # Image Processing
//
// The ImageService prepares cover art for embedding:
//
//	svc := ioutils.NewImageService()
//
//	// Convert to JPEG when needed and fit within 600x600
//	jpeg, err := svc.NormalizeCover(ctx, data, 600)
package ioutils
