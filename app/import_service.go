package app

import (
	"context"
	"io"
	"strings"

	"afmdash/domain/experiment"
	"afmdash/internal"
	apperrors "afmdash/internal/errors"
	"afmdash/internal/store"
	"afmdash/ports"
)

// Reloader restarts the curve session after the backend's dataset changed
type Reloader interface {
	ResetAndReload()
}

// ImportService uploads experiment files and hands their datasets to the
// backend
type ImportService struct {
	backend  ports.BackendAPI
	store    *store.AnalysisStore
	reloader Reloader
	logger   *internal.Logger
}

// NewImportService creates an import service
func NewImportService(backend ports.BackendAPI, st *store.AnalysisStore, reloader Reloader, logger *internal.Logger) *ImportService {
	return &ImportService{backend: backend, store: st, reloader: reloader, logger: logger}
}

// Load uploads a file and returns the structure the user picks dataset
// paths from
func (s *ImportService) Load(ctx context.Context, filename string, r io.Reader) (*experiment.Structure, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, apperrors.InvalidInput("filename is required")
	}
	s.store.SetLoading(store.LoadingImport, true)
	defer s.store.SetLoading(store.LoadingImport, false)

	st, err := s.backend.LoadExperiment(ctx, filename, r)
	if err != nil {
		s.store.SetError(err.Error())
		return nil, apperrors.Wrapf(err, "load %s", filename)
	}
	s.logger.Info("[Import] loaded %s (%s)", st.Filename, st.FileType)
	return st, nil
}

// Process ingests the selected datasets and, once the backend accepted
// them, restarts curve streaming from a clean slate
func (s *ImportService) Process(ctx context.Context, req experiment.ProcessRequest) (*experiment.ProcessResult, error) {
	s.store.SetLoading(store.LoadingImport, true)
	defer s.store.SetLoading(store.LoadingImport, false)

	res, err := s.backend.ProcessFile(ctx, req)
	if err != nil {
		s.store.SetError(err.Error())
		return nil, apperrors.Wrapf(err, "process %s", req.FilePath)
	}
	s.logger.Info("[Import] processed %s: %d curves", req.FilePath, res.Curves)

	s.store.SetError("")
	s.store.SetSelectedCurveIDs(nil)
	s.store.SetSelectedExportCurveIDs(nil)
	s.reloader.ResetAndReload()
	return res, nil
}
