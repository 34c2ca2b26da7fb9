package parser

import (
	"fmt"
	"strings"

	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/util"
)

// MinValidFraction is the accept threshold for the data-line quality check.
// Files with a lower valid-line fraction are rejected; exactly 50% passes.
const MinValidFraction = 0.5

// ValidationStats summarizes what the validator saw.
type ValidationStats struct {
	HeaderFound bool
	DataLines   int
	ValidLines  int
}

// ValidationResult is the outcome of the pre-index format gate.
type ValidationResult struct {
	Valid  bool
	Reason string
	Stats  ValidationStats
}

// Validate samples every line of text and decides whether the file is worth
// indexing. It rejects with a descriptive reason when no header marker is
// present, when no data lines exist, when none of them parse, or when fewer
// than half of them parse.
func Validate(text string, kind model.Kind) ValidationResult {
	var stats ValidationStats

	for _, line := range strings.Split(text, "\n") {
		if !stats.HeaderFound && HasHeaderMarker(line, kind) {
			stats.HeaderFound = true
		}
		if !IsDataLine(line, kind) {
			continue
		}
		stats.DataLines++
		fields := strings.Fields(line)
		switch kind {
		case model.KindVector:
			if _, ok := ParseVector(fields); ok {
				stats.ValidLines++
			}
		default:
			if _, ok := ParseScalar(fields); ok {
				stats.ValidLines++
			}
		}
	}

	result := ValidationResult{Stats: stats}
	switch {
	case !stats.HeaderFound:
		result.Reason = "missing header"
	case stats.DataLines == 0:
		result.Reason = "no data lines"
	case stats.ValidLines == 0:
		result.Reason = "no valid data lines"
	case float64(stats.ValidLines)/float64(stats.DataLines) < MinValidFraction:
		result.Reason = fmt.Sprintf("valid fraction below 50%% (%d of %d lines parse)",
			stats.ValidLines, stats.DataLines)
	default:
		result.Valid = true
	}

	if !result.Valid {
		util.LogDebug(fmt.Sprintf("Validation failed (%s): %s", kind, result.Reason))
	} else {
		util.LogDebug(fmt.Sprintf("Validation passed (%s): %d data lines, %d valid",
			kind, stats.DataLines, stats.ValidLines))
	}

	return result
}
