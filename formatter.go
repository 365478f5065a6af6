package wikidump

import (
	"fmt"
	"time"
)

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatETA formats a remaining-time estimate, or "unknown" if ok is false.
func FormatETA(d time.Duration, ok bool) string {
	if !ok {
		return "unknown"
	}
	return d.Round(time.Second).String()
}
