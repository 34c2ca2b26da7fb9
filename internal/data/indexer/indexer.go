package indexer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/data/parser"
	"github.com/hydroviz/hydroviz/internal/util"
)

// Document holds one loaded plot file: its lines, split once at load, and
// the time index over them. Extraction re-slices only the indexed line
// range, so the single indexing pass pays for all later per-step accesses.
type Document struct {
	Kind  model.Kind
	Index *model.TimeIndex
	lines []string
}

// NewDocument splits text into lines and builds the time index.
func NewDocument(text string, kind model.Kind) *Document {
	lines := strings.Split(text, "\n")
	return &Document{
		Kind:  kind,
		Index: BuildIndex(lines, kind),
		lines: lines,
	}
}

// NewDocumentWithIndex builds a Document around an index recovered from
// cache, skipping the indexing pass.
func NewDocumentWithIndex(text string, kind model.Kind, index *model.TimeIndex) *Document {
	return &Document{
		Kind:  kind,
		Index: index,
		lines: strings.Split(text, "\n"),
	}
}

// LineCount returns the total number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// BuildIndex makes a single forward scan over lines, numbered from 0, and
// partitions data rows into contiguous ranges keyed by their time value.
// Rows of a given time are assumed to be grouped contiguously in file
// order; a time value that reappears later overwrites its earlier range
// (last-write-wins, a documented limitation rather than a silent merge).
func BuildIndex(lines []string, kind model.Kind) *model.TimeIndex {
	start := time.Now()

	index := &model.TimeIndex{Ranges: make(map[float64]model.LineRange)}
	var (
		current     float64
		rangeStart  int
		haveCurrent bool
	)

	for lineNum, line := range lines {
		if !parser.IsDataLine(line, kind) {
			continue
		}
		t, ok := parseLineTime(line)
		if !ok {
			continue
		}
		if !haveCurrent {
			current, rangeStart, haveCurrent = t, lineNum, true
			continue
		}
		if t != current {
			index.Ranges[current] = model.LineRange{Start: rangeStart, End: lineNum - 1}
			current, rangeStart = t, lineNum
		}
	}
	if haveCurrent {
		index.Ranges[current] = model.LineRange{Start: rangeStart, End: len(lines) - 1}
	}

	// The canonical time axis is derived from the surviving range keys,
	// numerically ascending regardless of file order.
	index.Times = make([]float64, 0, len(index.Ranges))
	for t := range index.Ranges {
		index.Times = append(index.Times, t)
	}
	sort.Float64s(index.Times)

	util.LogDebug(fmt.Sprintf("Index built: %d lines, %d time steps, duration %v",
		len(lines), len(index.Times), time.Since(start)))

	return index
}

func parseLineTime(line string) (float64, bool) {
	return parser.ParseLineTime(strings.Fields(line))
}

// ExtractScalar parses the rows of the given time step into records, in
// file order. An absent key yields an empty result, not an error; callers
// resolve cross-file time mismatches with NearestTime before extracting.
func (d *Document) ExtractScalar(t float64) []model.ScalarRecord {
	r, ok := d.Index.Range(t)
	if !ok {
		return nil
	}
	records := make([]model.ScalarRecord, 0, r.Lines())
	for _, line := range d.slice(r) {
		if !parser.IsDataLine(line, model.KindScalar) {
			continue
		}
		if rec, ok := parser.ParseScalar(strings.Fields(line)); ok {
			records = append(records, rec)
		}
	}
	return records
}

// ExtractVector is the vector-file counterpart of ExtractScalar.
func (d *Document) ExtractVector(t float64) []model.VectorRecord {
	r, ok := d.Index.Range(t)
	if !ok {
		return nil
	}
	records := make([]model.VectorRecord, 0, r.Lines())
	for _, line := range d.slice(r) {
		if !parser.IsDataLine(line, model.KindVector) {
			continue
		}
		if rec, ok := parser.ParseVector(strings.Fields(line)); ok {
			records = append(records, rec)
		}
	}
	return records
}

func (d *Document) slice(r model.LineRange) []string {
	start := r.Start
	end := r.End
	if start < 0 {
		start = 0
	}
	if end >= len(d.lines) {
		end = len(d.lines) - 1
	}
	if start > end {
		return nil
	}
	return d.lines[start : end+1]
}
