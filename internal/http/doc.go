// Package http provides the HTTP session used for Yandex Music requests
// and downloads.
//
// The Client in this package handles:
//   - Session cookies (cookie jar seeded with the Session_id cookie)
//   - User-Agent and X-Retpath-Y headers expected by the web handlers
//   - JSON requests
//   - File downloads with progress tracking
//   - Timeout handling
//
// # Basic Usage
//
//	client, err := http.NewClient(http.Config{Domain: "music.yandex.ru", SessionID: sid})
//
//	// Decode a JSON handler response
//	var album albumResponse
//	err = client.GetJSON(ctx, "https://music.yandex.ru/handlers/album.jsx?album=1", &album)
//
//	// Download file with progress callback
//	client.DownloadFile(ctx, mp3URL, "/path/to/file.mp3", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
