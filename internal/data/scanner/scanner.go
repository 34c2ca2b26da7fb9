package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/util"
)

// Filename prefixes identifying the two plot file flavors. Files are
// rejected by name before any byte of them is read.
const (
	ScalarPrefix = "Plot_scalar."
	VectorPrefix = "Plot_vector."
)

// Dataset is the result of scanning a directory for plot files.
type Dataset struct {
	ScalarFiles []string
	VectorFiles []string
}

// DatasetScanner discovers plot files under a base directory.
type DatasetScanner struct {
	baseDir string
}

// NewDatasetScanner creates a scanner rooted at baseDir.
func NewDatasetScanner(baseDir string) *DatasetScanner {
	return &DatasetScanner{baseDir: baseDir}
}

// KindForFilename classifies a path by its filename prefix.
func KindForFilename(path string) (model.Kind, error) {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, ScalarPrefix):
		return model.KindScalar, nil
	case strings.HasPrefix(base, VectorPrefix):
		return model.KindVector, nil
	default:
		return 0, fmt.Errorf("file name must begin with %q or %q: %s",
			ScalarPrefix, VectorPrefix, base)
	}
}

// Scan walks the base directory and returns all plot files, sorted by path.
func (s *DatasetScanner) Scan() (*Dataset, error) {
	start := time.Now()
	dataset := &Dataset{}
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip path (error): %s - %v", path, err))
			return nil
		}
		if info.IsDir() {
			dirCount++
			return nil
		}
		totalCount++
		base := filepath.Base(path)
		switch {
		case strings.HasPrefix(base, ScalarPrefix):
			dataset.ScalarFiles = append(dataset.ScalarFiles, path)
		case strings.HasPrefix(base, VectorPrefix):
			dataset.VectorFiles = append(dataset.VectorFiles, path)
		}
		return nil
	})

	sort.Strings(dataset.ScalarFiles)
	sort.Strings(dataset.VectorFiles)

	util.LogDebug(fmt.Sprintf("Scan completed: duration %v, %d directories, %d files, %d scalar, %d vector",
		time.Since(start), dirCount, totalCount, len(dataset.ScalarFiles), len(dataset.VectorFiles)))

	return dataset, err
}
