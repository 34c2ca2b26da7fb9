package util

import (
	"fmt"
	"strconv"
	"time"
)

// Helper functions
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// FormatTimeValue renders a simulation time value (years) without
// trailing zeros, so slider labels and CSV cells stay compact.
func FormatTimeValue(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}

// FormatDataValue renders a scalar reading for display. Six significant
// digits match the precision of the source files.
func FormatDataValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// FormatCoordinate renders an axis coordinate for labels.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
