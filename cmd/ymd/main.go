package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/handiism/yandex-music-downloader/internal/config"
	"github.com/handiism/yandex-music-downloader/internal/download"
	"github.com/handiism/yandex-music-downloader/internal/model"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
	infoColor    = color.New(color.FgCyan)
	dimColor     = color.New(color.Faint)
)

func main() {
	defaults := config.DefaultSettings()

	// Command line flags
	var (
		urlsFlag        = pflag.StringSliceP("url", "u", nil, "Yandex Music album, track or artist URL(s)")
		albumIDFlag     = pflag.StringSlice("album-id", nil, "Album id(s) to download")
		trackIDFlag     = pflag.StringSlice("track-id", nil, "Track id(s) to download")
		artistIDFlag    = pflag.StringSlice("artist-id", nil, "Artist id(s) whose albums to download")
		dirFlag         = pflag.StringP("dir", "d", defaults.DownloadsPath, "Output directory")
		patternFlag     = pflag.String("path-pattern", defaults.PathPattern, "Track path pattern, placeholders: "+strings.Join(model.Placeholders(), ", "))
		configFlag      = pflag.String("config", "", "Path to config file")
		envFileFlag     = pflag.String("env-file", ".env", "Path to .env file with YMD_SESSION_ID")
		sessionFlag     = pflag.String("session-id", "", "Session_id cookie value (or "+config.EnvSessionID+")")
		domainFlag      = pflag.String("domain", defaults.Domain, "Service domain")
		userAgentFlag   = pflag.String("user-agent", "", "User-Agent header")
		hqFlag          = pflag.Bool("hq", defaults.HQ, "Download the highest available bitrate")
		lyricsFlag      = pflag.Bool("add-lyrics", defaults.AddLyrics, "Embed lyrics")
		embedCoverFlag  = pflag.Bool("embed-cover", defaults.EmbedCover, "Embed the cover instead of writing cover.jpg")
		coverResFlag    = pflag.Int("cover-resolution", defaults.CoverResolution, "Cover resolution in pixels")
		coverMaxFlag    = pflag.Int("cover-max-size", defaults.CoverMaxSize, "Scale embedded covers down to fit, 0 to keep")
		unsafeFlag      = pflag.Bool("unsafe-path", defaults.UnsafePath, "Keep unsafe characters in placeholder values")
		skipFlag        = pflag.Bool("skip-existing", defaults.SkipExisting, "Skip tracks whose file already exists")
		jobsFlag        = pflag.IntP("jobs", "j", defaults.MaxConcurrentTracks, "Tracks downloaded in parallel")
		playlistFlag    = pflag.Bool("playlist", defaults.CreatePlaylist, "Create playlist file per album")
		playlistFmtFlag = pflag.String("playlist-format", defaults.PlaylistFormat, "Playlist format: m3u, pls, wpl, zpl")
		verboseFlag     = pflag.BoolP("verbose", "v", false, "Show verbose output")
		dryRunFlag      = pflag.Bool("dry-run", false, "Resolve tracks and paths without downloading")
	)

	pflag.Parse()

	inputs := collectInputs(*urlsFlag, *albumIDFlag, *trackIDFlag, *artistIDFlag, pflag.Args())
	if len(inputs) == 0 {
		fmt.Println("Yandex Music Downloader - Download music from Yandex Music")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  ymd -u <URL> [options]")
		fmt.Println("  ymd <URL>... [options]")
		fmt.Println("  ymd --album-id <ID> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: ymd-tui")
		fmt.Println()
		pflag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := defaults
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			errorColor.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := config.LoadEnv(*envFileFlag); err != nil {
		errorColor.Fprintf(os.Stderr, "Error loading env: %v\n", err)
		os.Exit(1)
	}
	settings.ApplyEnv()

	// Apply flags given explicitly
	changed := pflag.CommandLine.Changed
	if changed("dir") {
		settings.DownloadsPath = *dirFlag
	}
	if changed("path-pattern") {
		settings.PathPattern = *patternFlag
	}
	if changed("session-id") {
		settings.SessionID = *sessionFlag
	}
	if changed("domain") {
		settings.Domain = *domainFlag
	}
	if changed("user-agent") {
		settings.UserAgent = *userAgentFlag
	}
	if changed("hq") {
		settings.HQ = *hqFlag
	}
	if changed("add-lyrics") {
		settings.AddLyrics = *lyricsFlag
	}
	if changed("embed-cover") {
		settings.EmbedCover = *embedCoverFlag
	}
	if changed("cover-resolution") {
		settings.CoverResolution = *coverResFlag
	}
	if changed("cover-max-size") {
		settings.CoverMaxSize = *coverMaxFlag
	}
	if changed("unsafe-path") {
		settings.UnsafePath = *unsafeFlag
	}
	if changed("skip-existing") {
		settings.SkipExisting = *skipFlag
	}
	if changed("jobs") {
		settings.MaxConcurrentTracks = *jobsFlag
	}
	if changed("playlist") {
		settings.CreatePlaylist = *playlistFlag
	}
	if changed("playlist-format") {
		settings.PlaylistFormat = *playlistFmtFlag
	}
	settings.DryRun = *dryRunFlag

	if err := settings.Validate(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Handle interrupts
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create manager with progress callback
	manager, err := download.New(settings, func(event download.ProgressEvent) {
		if event.Level == download.LevelVerbose && !*verboseFlag {
			return
		}
		printEvent(event)
	})
	if err != nil {
		errorColor.Fprintf(os.Stderr, "Error creating session: %v\n", err)
		os.Exit(1)
	}

	// Initialize
	infoColor.Println("Yandex Music Downloader")
	fmt.Println()

	if err := manager.Initialize(ctx, strings.Join(inputs, "\n")); err != nil {
		errorColor.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	if settings.DryRun {
		dimColor.Println("\n[Dry run - not downloading]")
	} else {
		fmt.Println("\nStarting downloads...")
		fmt.Println()
	}

	if err := manager.StartDownloads(ctx); err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			warningColor.Println("\nDownload cancelled.")
			os.Exit(130)
		}
		errorColor.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	p := manager.GetProgress()
	fmt.Println()
	successColor.Printf("Complete! Downloaded %d/%d tracks (%.2f MB)", p.Downloaded, p.Total, float64(p.ReceivedBytes)/1024/1024)
	fmt.Println()
	if p.Skipped > 0 {
		dimColor.Printf("   %d skipped\n", p.Skipped)
	}
	if p.Failed > 0 {
		errorColor.Printf("   %d failed\n", p.Failed)
		os.Exit(1)
	}
}

// collectInputs turns URLs and bare ids into one list of URLs.
func collectInputs(urls, albumIDs, trackIDs, artistIDs, args []string) []string {
	inputs := append([]string{}, urls...)
	inputs = append(inputs, args...)
	for _, id := range albumIDs {
		inputs = append(inputs, "https://music.yandex.ru/album/"+id)
	}
	for _, id := range trackIDs {
		inputs = append(inputs, "https://music.yandex.ru/track/"+id)
	}
	for _, id := range artistIDs {
		inputs = append(inputs, "https://music.yandex.ru/artist/"+id)
	}
	return inputs
}

func printEvent(event download.ProgressEvent) {
	switch event.Level {
	case download.LevelError:
		errorColor.Print("✗ ")
	case download.LevelWarning:
		warningColor.Print("! ")
	case download.LevelSuccess:
		successColor.Print("✓ ")
	case download.LevelInfo:
		infoColor.Print("› ")
	default:
		dimColor.Print("  ")
	}
	fmt.Println(event.Message)
}
