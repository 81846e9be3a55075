// Package language normalizes user-supplied language names and codes into the
// ISO 639-1 codes WhisperX accepts.
//
// A small table covers the common names and ISO 639-2 codes; anything else
// is parsed as a BCP 47 tag with golang.org/x/text/language and reduced to
// its base language.
package language
