// Package videoid derives stable cache identifiers from source URLs.
//
// Derive is a pure function of the URL string: recognized platforms yield
// "<platform>_<native id>" and everything else falls back to a truncated
// content hash, so every input maps to some identifier.
package videoid
