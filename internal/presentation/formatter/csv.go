package formatter

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/hydroviz/hydroviz/internal/util"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(summary *DatasetSummary) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{"Time", "Start Line", "End Line", "Records"}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, step := range summary.TimeSteps {
		record := []string{
			util.FormatTimeValue(step.Time),
			fmt.Sprintf("%d", step.StartLine),
			fmt.Sprintf("%d", step.EndLine),
			fmt.Sprintf("%d", step.Records),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}
