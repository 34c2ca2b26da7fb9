package formatter

import (
	"fmt"
	"strings"

	"github.com/hydroviz/hydroviz/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{"Time (yr)", "Start Line", "End Line", "Lines", "Records"},
	}
}

func (f *TableFormatter) Format(summary *DatasetSummary) error {
	fmt.Printf("File:   %s\n", summary.Path)
	fmt.Printf("Kind:   %s\n", summary.Kind)
	fmt.Printf("Lines:  %s total, %s data, %s valid\n",
		util.FormatNumber(summary.Lines),
		util.FormatNumber(summary.DataLines),
		util.FormatNumber(summary.ValidLines))
	fmt.Printf("Steps:  %d\n\n", len(summary.TimeSteps))

	rows := make([][]string, 0, len(summary.TimeSteps))
	totalRecords := 0
	for _, step := range summary.TimeSteps {
		rows = append(rows, []string{
			util.FormatTimeValue(step.Time),
			fmt.Sprintf("%d", step.StartLine),
			fmt.Sprintf("%d", step.EndLine),
			fmt.Sprintf("%d", step.EndLine-step.StartLine+1),
			fmt.Sprintf("%d", step.Records),
		})
		totalRecords += step.Records
	}
	rows = append(rows, []string{"Total", "", "", "", fmt.Sprintf("%d", totalRecords)})

	widths := f.calculateColumnWidths(rows)
	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")
	for i, row := range rows {
		if i == len(rows)-1 {
			f.printBorder(widths, "middle")
		}
		f.printRow(row, widths)
	}
	f.printBorder(widths, "bottom")

	return nil
}

func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := util.GetDisplayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (f *TableFormatter) printRow(cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		padding := widths[i] - util.GetDisplayWidth(cell)
		parts[i] = " " + cell + strings.Repeat(" ", padding) + " "
	}
	fmt.Println("│" + strings.Join(parts, "│") + "│")
}

func (f *TableFormatter) printBorder(widths []int, position string) {
	var left, join, right string
	switch position {
	case "top":
		left, join, right = "┌", "┬", "┐"
	case "bottom":
		left, join, right = "└", "┴", "┘"
	default:
		left, join, right = "├", "┼", "┤"
	}
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	fmt.Println(left + strings.Join(parts, join) + right)
}
