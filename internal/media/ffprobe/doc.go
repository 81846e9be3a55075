// Package ffprobe runs ffprobe against local media and decodes what the
// pipeline needs from it: stream kinds and container duration.
package ffprobe
