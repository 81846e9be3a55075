// Package timecode converts fractional-second offsets to the clock strings
// used by SubRip and WebVTT cues.
package timecode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// representationSlack, in milliseconds, absorbs binary floating point error so
// that values such as 1.234 truncate to 1234ms rather than 1233ms. Inputs
// within a nanosecond below a millisecond boundary round up to it, so
// 0.9999999995 prints as 1.000.
const representationSlack = 1e-6

// SRT formats seconds as HH:MM:SS,mmm.
func SRT(seconds float64) string {
	return clock(seconds, ',')
}

// VTT formats seconds as HH:MM:SS.mmm.
func VTT(seconds float64) string {
	return clock(seconds, '.')
}

// clock truncates to the millisecond, within representationSlack. Hours are
// not wrapped. Negative input is a caller error and is clamped to zero.
func clock(seconds float64, sep byte) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds*1000 + representationSlack))
	millis := total % 1000
	whole := total / 1000
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := whole % 60
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}

// Parse reads an SRT or VTT clock ("HH:MM:SS,mmm", "HH:MM:SS.mmm", or the
// hour-less "MM:SS.mmm" WebVTT short form) back into seconds.
func Parse(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	value = strings.ReplaceAll(value, ",", ".")
	whole, frac, hasFrac := strings.Cut(value, ".")
	parts := strings.Split(whole, ":")
	if len(parts) == 2 {
		parts = append([]string{"0"}, parts...)
	}
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	var fields [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		fields[i] = n
	}
	millis := 0
	if hasFrac {
		if len(frac) == 0 || len(frac) > 3 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		n, err := strconv.Atoi(frac + strings.Repeat("0", 3-len(frac)))
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		millis = n
	}
	return float64(fields[0]*3600+fields[1]*60+fields[2]) + float64(millis)/1000, nil
}
