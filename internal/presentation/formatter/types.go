package formatter

// TimeStepInfo is one row of the dataset summary: a time step, its line
// range span and how many records parsed out of it.
type TimeStepInfo struct {
	Time      float64 `json:"time"`
	StartLine int     `json:"startLine"`
	EndLine   int     `json:"endLine"`
	Records   int     `json:"records"`
}

// DatasetSummary describes one indexed plot file for output.
type DatasetSummary struct {
	Path       string         `json:"path"`
	Kind       string         `json:"kind"`
	Lines      int            `json:"lines"`
	DataLines  int            `json:"dataLines"`
	ValidLines int            `json:"validLines"`
	TimeSteps  []TimeStepInfo `json:"timeSteps"`
}
