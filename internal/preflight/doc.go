// Package preflight gathers the readiness checks behind `vidscribe doctor`:
// external binaries, the output and cache directories, and the diarization
// token.
package preflight
