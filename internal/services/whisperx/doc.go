// Package whisperx runs WhisperX through uvx and converts its JSON output
// into transcript segments.
//
// An Engine prepares its scratch directory on the first Transcribe call and is
// reused for every later input in the same run. Close removes the scratch
// directory. Video inputs are converted to mp3 with ffmpeg before
// transcription.
package whisperx
