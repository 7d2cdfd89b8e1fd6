package youtube

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseDuration reads the ISO-8601 durations the API reports, e.g. PT4M13S.
// Year and month designators are rejected since videos never use them.
func ParseDuration(raw string) (time.Duration, error) {
	m := isoDurationPattern.FindStringSubmatch(raw)
	if m == nil || raw == "P" || raw == "PT" {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", raw)
	}
	units := []time.Duration{7 * 24 * time.Hour, 24 * time.Hour, time.Hour, time.Minute}
	var total time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", raw, err)
		}
		total += time.Duration(n) * unit
	}
	if m[5] != "" {
		seconds, err := strconv.ParseFloat(m[5], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", raw, err)
		}
		total += time.Duration(seconds * float64(time.Second))
	}
	return total, nil
}

// FormatDuration renders d like a video player: 4:13 or 1:02:03.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d.Round(time.Second) / time.Second)
	h, m, s := seconds/3600, (seconds/60)%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatISODuration formats raw for display, falling back to raw itself.
func FormatISODuration(raw string) string {
	d, err := ParseDuration(raw)
	if err != nil {
		return raw
	}
	return FormatDuration(d)
}
