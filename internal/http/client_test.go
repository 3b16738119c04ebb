package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_SessionHeaders(t *testing.T) {
	var gotUA, gotRetpath, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotRetpath = r.Header.Get("X-Retpath-Y")
		if c, err := r.Cookie("Session_id"); err == nil {
			gotCookie = c.Value
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	client, err := NewClient(Config{Domain: u.Hostname(), SessionID: "sid-123", UserAgent: "test-agent"})
	require.NoError(t, err)

	var body struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.GetJSON(context.Background(), srv.URL+"/handlers/test", &body))

	assert.True(t, body.OK)
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, url.QueryEscape("https://"+u.Hostname()), gotRetpath)
	assert.Equal(t, "sid-123", gotCookie)
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	client, err := NewClient(Config{Domain: "music.yandex.ru"})
	require.NoError(t, err)

	_, err = client.DownloadBytes(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Code)

	dest := filepath.Join(t.TempDir(), "track.mp3")
	err = client.DownloadFile(context.Background(), srv.URL, dest, nil)
	require.ErrorIs(t, err, ErrStatus)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "no file should be created on a failed request")
}

func TestClient_DownloadFileOverwrites(t *testing.T) {
	payload := []byte("new audio payload")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	client, err := NewClient(Config{Domain: "music.yandex.ru"})
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "track.mp3")
	require.NoError(t, os.WriteFile(dest, []byte("an older and much longer payload"), 0644))

	var lastWritten int64
	err = client.DownloadFile(context.Background(), srv.URL, dest, func(written, total int64) {
		lastWritten = written
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.EqualValues(t, len(payload), lastWritten)
}
