// Package ytdlp wraps the yt-dlp command line for metadata lookup, audio
// download, and native caption extraction.
//
// Every invocation goes through a services.CommandRunner so tests can script
// yt-dlp's behaviour. TikTok URLs are fetched with browser impersonation and
// an optional cookies file is forwarded on every call. Audio downloads remove
// their partial files when yt-dlp fails or the context is cancelled.
package ytdlp
