package audio

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/handiism/yandex-music-downloader/internal/model"
)

// EncodedBy is written into the TENC frame of every tagged file.
const EncodedBy = "https://github.com/handiism/yandex-music-downloader"

// ArtistSeparator joins multiple artists in the TPE1 frame.
// ID3v2.4 reads a null separated text frame as a list of values.
const ArtistSeparator = "\x00"

const (
	mpegMimeType  = "audio/mpeg"
	coverMimeType = "image/jpeg"

	releaseTimeFormat = "2006-01-02T15:04:05"
)

// ErrNotAudio is returned when the file to tag is not an MPEG audio file.
var ErrNotAudio = errors.New("not an MPEG audio file")

// TagSet is the metadata written into one file.
//
// Empty Lyrics and nil Cover mean absent: the corresponding frames are
// not written.
type TagSet struct {
	Artist              string
	AlbumArtist         string
	Album               string
	Title               string
	TrackNumber         int
	DiscNumber          int
	ReleaseDate         string
	OriginalReleaseDate string
	EncodedBy           string
	SourceURL           string
	Lyrics              string
	Cover               []byte
}

// NewTagSet maps a track to the tags written by the Tagger.
//
// The release date is the album's full release date when known, otherwise
// only its year. The original release date mirrors it.
func NewTagSet(track *model.Track, lyrics string, cover []byte, domain string) TagSet {
	album := track.Album

	releaseDate := strconv.Itoa(album.Year)
	if album.ReleaseDate != nil {
		releaseDate = album.ReleaseDate.Format(releaseTimeFormat)
	}

	return TagSet{
		Artist:              strings.Join(track.ArtistNames(), ArtistSeparator),
		AlbumArtist:         album.AlbumArtist().Name,
		Album:               album.Title,
		Title:               track.Title,
		TrackNumber:         track.Number,
		DiscNumber:          track.DiscNumber,
		ReleaseDate:         releaseDate,
		OriginalReleaseDate: releaseDate,
		EncodedBy:           EncodedBy,
		SourceURL:           SourceURL(domain, album.ID, track.ID),
		Lyrics:              lyrics,
		Cover:               cover,
	}
}

// SourceURL returns the web page of a track on the service.
func SourceURL(domain, albumID, trackID string) string {
	return fmt.Sprintf("https://%s/album/%s/track/%s", domain, albumID, trackID)
}

// Tagger writes ID3 tags to MP3 files.
//
// Tagger uses the id3v2 library. Any tag already present in the file is
// discarded: every field of the TagSet is rewritten on each call.
//
// Example:
//
//	tagger := NewTagger()
//
//	// After downloading track
//	err := tagger.WriteTags(path, track, lyrics, cover, client.Domain())
//	if err != nil {
//	    return fmt.Errorf("tag %s: %w", path, err)
//	}
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// WriteTags builds the TagSet of track and writes it to the file at path.
//
// lyrics is absent when empty and cover is absent when nil.
func (t *Tagger) WriteTags(path string, track *model.Track, lyrics string, cover []byte, domain string) error {
	return t.Write(path, NewTagSet(track, lyrics, cover, domain))
}

// Write replaces the tag container of the MP3 file at path with tags.
//
// The file must exist and look like MPEG audio; otherwise the file is left
// untouched and an error is returned (wrapping ErrNotAudio for other
// content). The file handle is released on every path.
func (t *Tagger) Write(path string, tags TagSet) error {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if !mtype.Is(mpegMimeType) {
		return fmt.Errorf("%w: %s is %s", ErrNotAudio, path, mtype.String())
	}

	// Parse is off: existing frames are dropped, not merged.
	tag, err := id3v2.Open(path, id3v2.Options{Parse: false})
	if err != nil {
		return fmt.Errorf("open tag of %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetVersion(4)
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.DeleteAllFrames()

	enc := tag.DefaultEncoding()
	tag.SetArtist(tags.Artist)
	tag.AddTextFrame("TPE2", enc, tags.AlbumArtist)
	tag.SetAlbum(tags.Album)
	tag.SetTitle(tags.Title)
	tag.AddTextFrame("TRCK", enc, strconv.Itoa(tags.TrackNumber))
	tag.AddTextFrame("TPOS", enc, strconv.Itoa(tags.DiscNumber))
	tag.AddTextFrame("TDRL", enc, tags.ReleaseDate)
	tag.AddTextFrame("TDOR", enc, tags.OriginalReleaseDate)
	tag.AddTextFrame("TENC", enc, tags.EncodedBy)

	// WOAF is a URL link frame: a bare ISO-8859-1 URL without encoding byte.
	tag.AddFrame("WOAF", id3v2.UnknownFrame{Body: []byte(tags.SourceURL)})

	if tags.Lyrics != "" {
		tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
			Encoding:          enc,
			Language:          "eng",
			ContentDescriptor: "",
			Lyrics:            tags.Lyrics,
		})
	}

	if tags.Cover != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    enc,
			MimeType:    coverMimeType,
			PictureType: id3v2.PTFrontCover,
			Description: "",
			Picture:     tags.Cover,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tag of %s: %w", path, err)
	}
	return nil
}
