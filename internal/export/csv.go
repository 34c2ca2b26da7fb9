package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/core/query"
	"github.com/hydroviz/hydroviz/internal/data/indexer"
	"github.com/hydroviz/hydroviz/internal/util"
)

// WriteSeriesCSV writes one row per canonical time value with one column
// per configured point. The per-cell reading is the Manhattan-nearest
// record's scalar field; a time step where nothing parses near a point
// leaves that cell blank rather than failing the export.
//
// Note the metric: the live overlay query path uses Euclidean distance,
// this export path uses Manhattan. The split is intentional; see DESIGN.md.
func WriteSeriesCSV(w io.Writer, doc *indexer.Document, variable string, points []model.PlotPoint) error {
	if len(points) == 0 {
		return fmt.Errorf("no points configured")
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := make([]string, 0, len(points)+1)
	header = append(header, "time")
	for i := range points {
		header = append(header, fmt.Sprintf("point%d", i+1))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, t := range doc.Index.Times {
		records := doc.ExtractScalar(t)
		row := make([]string, 0, len(points)+1)
		row = append(row, util.FormatTimeValue(t))
		for _, p := range points {
			cell := ""
			if rec, _, ok := query.NearestManhattan(records, p.X, p.Z); ok {
				if value, err := rec.Value(variable); err == nil {
					cell = util.FormatDataValue(value)
				}
			}
			row = append(row, cell)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}
