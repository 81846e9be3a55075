// Package source classifies transcription inputs as remote URLs or local
// media files.
package source

import (
	"path/filepath"
	"strings"
)

var audioExtensions = map[string]struct{}{
	".mp3": {}, ".wav": {}, ".m4a": {}, ".flac": {},
	".ogg": {}, ".opus": {}, ".aac": {}, ".wma": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mkv": {}, ".avi": {}, ".mov": {}, ".webm": {},
	".flv": {}, ".wmv": {}, ".m4v": {}, ".mpeg": {}, ".mpg": {},
}

var knownHosts = []string{"youtube.com", "youtu.be", "tiktok.com", "twitch.tv"}

// Kind distinguishes remote and local inputs.
type Kind int

const (
	KindURL Kind = iota
	KindLocal
)

func (k Kind) String() string {
	if k == KindLocal {
		return "local"
	}
	return "url"
}

// Classify returns KindLocal for inputs that look like media file paths and
// KindURL for everything else.
func Classify(input string) Kind {
	if IsLocalFile(input) {
		return KindLocal
	}
	return KindURL
}

// IsLocalFile reports whether input names a local media file by extension.
// Anything with an http(s) scheme or a known video host is a URL.
func IsLocalFile(input string) bool {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return false
	}
	for _, host := range knownHosts {
		if strings.Contains(input, host) {
			return false
		}
	}
	return IsMediaFile(input)
}

// IsMediaFile reports whether path has an audio or video extension.
func IsMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, audio := audioExtensions[ext]
	_, video := videoExtensions[ext]
	return audio || video
}

// IsAudioFile reports whether path has an audio extension.
func IsAudioFile(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// IsTikTok reports whether url points at TikTok.
func IsTikTok(url string) bool {
	return strings.Contains(url, "tiktok.com")
}

// IsTwitch reports whether url points at a Twitch VOD, clip, or stream.
func IsTwitch(url string) bool {
	return strings.Contains(url, "twitch.tv")
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
