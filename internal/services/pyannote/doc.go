// Package pyannote runs pyannote speaker diarization through uvx using an
// embedded helper script, and resolves the Hugging Face token it needs.
package pyannote
