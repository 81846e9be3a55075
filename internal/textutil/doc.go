// Package textutil provides filename sanitization for transcript outputs.
package textutil
