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

// ExportOptions are the user's choices for one export
type ExportOptions struct {
	Format           experiment.Format
	Path             string
	ExportType       experiment.ExportType
	DatasetType      string
	Direction        string
	Loose            int
	LevelNames       []string
	MetadataPath     string
	DatasetPath      string
	Metadata         map[string]interface{}
	SoftmechMetadata map[string]interface{}
}

// ExportService asks the backend to export the current analysis and streams
// the produced file back
type ExportService struct {
	backend ports.BackendAPI
	store   *store.AnalysisStore
	logger  *internal.Logger
}

// NewExportService creates an export service
func NewExportService(backend ports.BackendAPI, st *store.AnalysisStore, logger *internal.Logger) *ExportService {
	return &ExportService{backend: backend, store: st, logger: logger}
}

// Export writes the export file into w and returns the backend's
// acknowledgement
func (s *ExportService) Export(ctx context.Context, opts ExportOptions, w io.Writer) (*experiment.ExportResult, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, apperrors.InvalidInput("export path is required")
	}
	if _, err := experiment.ParseFormat(string(opts.Format)); err != nil {
		return nil, apperrors.WithCode(apperrors.CodeInvalidInput, err)
	}

	req := s.BuildRequest(opts)

	s.store.SetLoading(store.LoadingExport, true)
	defer s.store.SetLoading(store.LoadingExport, false)

	res, err := s.backend.Export(ctx, opts.Format, req)
	if err != nil {
		s.store.SetError(err.Error())
		return nil, apperrors.Wrapf(err, "export %s", opts.Path)
	}

	path := res.ExportPath
	if path == "" {
		path = req.ExportPath
	}
	n, err := s.backend.DownloadExport(ctx, path, w)
	if err != nil {
		s.store.SetError(err.Error())
		return nil, apperrors.Wrapf(err, "download %s", path)
	}
	s.logger.Info("[Export] %s: %d curves, %d bytes", path, res.ExportedCurves, n)
	return res, nil
}

// BuildRequest assembles the export payload from one snapshot of the shared
// state; explicit export selections win over the curve count
func (s *ExportService) BuildRequest(opts ExportOptions) experiment.ExportRequest {
	st := s.store.Snapshot()
	filters := st.Filters
	params := st.ForceModelParams

	req := experiment.ExportRequest{
		ExportPath:       opts.Path,
		LevelNames:       opts.LevelNames,
		MetadataPath:     opts.MetadataPath,
		DatasetPath:      opts.DatasetPath,
		Metadata:         opts.Metadata,
		ExportType:       opts.ExportType,
		DatasetType:      opts.DatasetType,
		Direction:        opts.Direction,
		Loose:            opts.Loose,
		Filters:          &filters,
		SoftmechMetadata: opts.SoftmechMetadata,
		ForceModelParams: &params,
	}
	if len(st.SelectedExportCurveIDs) > 0 {
		req.CurveIDs = st.SelectedExportCurveIDs
	} else {
		req.NumCurves = st.NumCurves
	}
	return req
}

// SoftmechPreview asks the backend for SoftMech metadata matching opts
func (s *ExportService) SoftmechPreview(ctx context.Context, opts ExportOptions) (map[string]interface{}, error) {
	req := s.BuildRequest(opts)
	return s.backend.CalculateSoftmechMetadata(ctx, experiment.SoftmechRequest{
		CurveIDs:    req.CurveIDs,
		NumCurves:   req.NumCurves,
		ExportType:  opts.ExportType,
		DatasetType: opts.DatasetType,
		Direction:   opts.Direction,
		Loose:       opts.Loose,
		Filters:     req.Filters,
	})
}
