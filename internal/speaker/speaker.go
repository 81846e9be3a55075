// Package speaker turns diarization speaker tags into display labels.
package speaker

import (
	"math/big"
	"regexp"
	"sort"
)

// Unknown tags segments that no diarization turn overlapped.
const Unknown = "UNKNOWN"

var digitRun = regexp.MustCompile(`\d+`)

// Label converts an internal tag such as "SPEAKER_00" into "Speaker 1".
// Unknown becomes "Unknown"; tags without digits pass through unchanged.
func Label(tag string) string {
	if tag == Unknown {
		return "Unknown"
	}
	digits := digitRun.FindString(tag)
	if digits == "" {
		return tag
	}
	n, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return tag
	}
	return "Speaker " + n.Add(n, big.NewInt(1)).String()
}

// Labels returns display labels for the distinct tags in tags, ordered by
// the raw tag.
func Labels(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	unique := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		unique = append(unique, tag)
	}
	sort.Strings(unique)
	labels := make([]string, len(unique))
	for i, tag := range unique {
		labels[i] = Label(tag)
	}
	return labels
}
