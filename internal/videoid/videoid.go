package videoid

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

// ID is a namespaced identifier such as "yt_dQw4w9WgXcQ" or "hash_0123456789ab".
type ID string

// Namespace prefixes produced by Derive.
const (
	NamespaceYouTube    = "yt"
	NamespaceTikTok     = "tt"
	NamespaceTwitch     = "tw"
	NamespaceTwitchClip = "twclip"
	NamespaceHash       = "hash"
)

const hashLength = 12

type matcher struct {
	namespace string
	hosts     []string
	patterns  []*regexp.Regexp
}

// Order matters: the first matcher that extracts a token wins.
var matchers = []matcher{
	{
		namespace: NamespaceYouTube,
		hosts:     []string{"youtube.com", "youtu.be"},
		patterns:  []*regexp.Regexp{regexp.MustCompile(`(?:v=|youtu\.be/)([a-zA-Z0-9_-]{11})`)},
	},
	{
		namespace: NamespaceTikTok,
		hosts:     []string{"tiktok.com"},
		patterns:  []*regexp.Regexp{regexp.MustCompile(`/video/(\d+)`)},
	},
	{
		namespace: NamespaceTwitch,
		hosts:     []string{"twitch.tv"},
		patterns:  []*regexp.Regexp{regexp.MustCompile(`/videos/(\d+)`)},
	},
	{
		namespace: NamespaceTwitchClip,
		hosts:     []string{"twitch.tv"},
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`/clip/([a-zA-Z0-9_-]+)`),
			regexp.MustCompile(`clips\.twitch\.tv/([a-zA-Z0-9_-]+)`),
		},
	},
}

// Derive maps a URL to its identifier. It never fails.
func Derive(url string) ID {
	for _, m := range matchers {
		if token, ok := m.match(url); ok {
			return ID(m.namespace + "_" + token)
		}
	}
	return hashID(url)
}

func (m matcher) match(url string) (string, bool) {
	if !containsAny(url, m.hosts) {
		return "", false
	}
	for _, pattern := range m.patterns {
		if groups := pattern.FindStringSubmatch(url); len(groups) == 2 {
			return groups[1], true
		}
	}
	return "", false
}

func hashID(url string) ID {
	sum := md5.Sum([]byte(url))
	return ID(NamespaceHash + "_" + hex.EncodeToString(sum[:])[:hashLength])
}

func containsAny(value string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(value, needle) {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Namespace returns the platform prefix of the identifier.
func (id ID) Namespace() string {
	ns, _, _ := strings.Cut(string(id), "_")
	return ns
}

// Token returns the platform-native ID or hash portion of the identifier.
func (id ID) Token() string {
	_, token, _ := strings.Cut(string(id), "_")
	return token
}

// IsHashed reports whether the identifier came from the hash fallback.
func (id ID) IsHashed() bool {
	return id.Namespace() == NamespaceHash
}
