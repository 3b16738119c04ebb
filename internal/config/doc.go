// Package config provides configuration management for yandex-music-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Session overrides from the environment and .env files
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Music/Yandex/#album-artist/#album/#number - #title.mp3
//	// 400x400 covers in a cover.jpg sidecar
//	// Existing tracks skipped
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment
//
// The session cookie is never stored in the settings file. It is read
// from YMD_SESSION_ID, optionally through a .env file:
//
//	_ = config.LoadEnv(".env")
//	settings.ApplyEnv()
//
// YMD_DOMAIN and YMD_USER_AGENT override the domain and the user agent.
package config
