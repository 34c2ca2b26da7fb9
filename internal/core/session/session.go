package session

import (
	"fmt"
	"os"
	"time"

	"github.com/hydroviz/hydroviz/internal/core/grid"
	"github.com/hydroviz/hydroviz/internal/core/model"
	"github.com/hydroviz/hydroviz/internal/core/vector"
	"github.com/hydroviz/hydroviz/internal/data/cache"
	"github.com/hydroviz/hydroviz/internal/data/indexer"
	"github.com/hydroviz/hydroviz/internal/data/parser"
	"github.com/hydroviz/hydroviz/internal/data/scanner"
	"github.com/hydroviz/hydroviz/internal/util"
)

// MaxPlotPoints caps how many probe points a session tracks at once.
const MaxPlotPoints = 4

// FileState is the loaded state of one plot file: raw document, index and
// validation outcome. Scalar and vector states live independently; loading
// a new file of one kind never touches the other.
type FileState struct {
	Path       string
	Doc        *indexer.Document
	Validation parser.ValidationResult
	LoadedAt   time.Time
}

// Session is the single mutable state of one interactive run. All parsing
// and derivation flows through it; there are no ambient globals. Not safe
// for concurrent use: one session serves one sequential event stream.
type Session struct {
	Scalar *FileState
	Vector *FileState
	Points []model.PlotPoint

	indexCache *cache.IndexCache
}

// NewSession creates an empty session. indexCache may be nil to disable
// index persistence.
func NewSession(indexCache *cache.IndexCache) *Session {
	return &Session{indexCache: indexCache}
}

// LoadScalar loads and indexes a Plot_scalar file, replacing any prior
// scalar state. On failure the previous state is kept untouched, so the
// session stays usable with whatever was loaded before.
func (s *Session) LoadScalar(path string) error {
	state, err := s.load(path, model.KindScalar)
	if err != nil {
		return err
	}
	s.Scalar = state
	return nil
}

// LoadVector is the Plot_vector counterpart of LoadScalar.
func (s *Session) LoadVector(path string) error {
	state, err := s.load(path, model.KindVector)
	if err != nil {
		return err
	}
	s.Vector = state
	return nil
}

func (s *Session) load(path string, want model.Kind) (*FileState, error) {
	kind, err := scanner.KindForFilename(path)
	if err != nil {
		return nil, err
	}
	if kind != want {
		return nil, fmt.Errorf("expected a %s file, got %s file: %s", want, kind, path)
	}

	start := time.Now()
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := string(raw)

	validation := parser.Validate(text, kind)
	if !validation.Valid {
		return nil, fmt.Errorf("invalid %s file %s: %s", kind, path, validation.Reason)
	}

	var doc *indexer.Document
	if s.indexCache != nil {
		if index, ok := s.indexCache.Get(path); ok {
			util.LogDebug(fmt.Sprintf("Index cache hit for %s", path))
			doc = indexer.NewDocumentWithIndex(text, kind, index)
		}
	}
	if doc == nil {
		doc = indexer.NewDocument(text, kind)
		if s.indexCache != nil {
			if err := s.indexCache.Set(path, kind, doc.Index); err != nil {
				util.LogWarn(fmt.Sprintf("Failed to cache index for %s: %v", path, err))
			}
		}
	}

	if len(doc.Index.Times) == 0 {
		return nil, fmt.Errorf("no valid data found in %s", path)
	}

	util.LogInfo(fmt.Sprintf("Loaded %s file %s: %d lines, %d time steps, duration %v",
		kind, path, doc.LineCount(), len(doc.Index.Times), time.Since(start)))

	return &FileState{
		Path:       path,
		Doc:        doc,
		Validation: validation,
		LoadedAt:   time.Now(),
	}, nil
}

// Times returns the canonical scalar time axis.
func (s *Session) Times() []float64 {
	if s.Scalar == nil {
		return nil
	}
	return s.Scalar.Doc.Index.Times
}

// VectorTimeFor resolves the vector time step to pair with a scalar time.
// An exact key wins; otherwise the nearest vector time is chosen, which
// tolerates independently generated time grids between the two files.
// This mismatch is an expected condition, never surfaced as an error.
func (s *Session) VectorTimeFor(scalarTime float64) (float64, bool) {
	if s.Vector == nil {
		return 0, false
	}
	index := s.Vector.Doc.Index
	if _, ok := index.Range(scalarTime); ok {
		return scalarTime, true
	}
	return index.NearestTime(scalarTime)
}

// GridAt reconstructs the grid for one variable at one scalar time step.
func (s *Session) GridAt(t float64, variable string) (*model.Grid, error) {
	if s.Scalar == nil {
		return nil, fmt.Errorf("no scalar file loaded")
	}
	records := s.Scalar.Doc.ExtractScalar(t)
	if len(records) == 0 {
		return nil, fmt.Errorf("no records at time %s", util.FormatTimeValue(t))
	}
	return grid.Build(records, variable)
}

// ArrowsAt builds the vector overlay geometry matching a scalar time step.
func (s *Session) ArrowsAt(scalarTime float64, vectorType string, scaleExponent float64, maxArrows int) (*model.ArrowSet, float64, error) {
	if s.Vector == nil {
		return nil, 0, fmt.Errorf("no vector file loaded")
	}
	t, ok := s.VectorTimeFor(scalarTime)
	if !ok {
		return nil, 0, fmt.Errorf("vector file has no time steps")
	}
	records := s.Vector.Doc.ExtractVector(t)
	return vector.BuildArrows(records, vectorType, scaleExponent, maxArrows), t, nil
}

// SetPoints replaces the session's probe points, enforcing the cap.
func (s *Session) SetPoints(points []model.PlotPoint) error {
	if len(points) > MaxPlotPoints {
		return fmt.Errorf("at most %d points are supported, got %d", MaxPlotPoints, len(points))
	}
	s.Points = points
	return nil
}
