package app

import (
	"context"
	"io"

	"afmdash/domain/curves"
	"afmdash/domain/experiment"
	"afmdash/domain/feed"
	"afmdash/internal/analysis"
	"afmdash/internal/store"
	"afmdash/ports"
)

// ViewSource exposes the latest published view
type ViewSource interface {
	View() feed.View
}

// WorkbookWriter renders parameters as a spreadsheet
type WorkbookWriter interface {
	WriteParameters(w io.Writer, d curves.Datasets) error
}

// ParameterService summarizes fit parameters of the accumulated curves
type ParameterService struct {
	views    ViewSource
	workbook WorkbookWriter
	backend  ports.BackendAPI
	store    *store.AnalysisStore
}

// NewParameterService creates a parameter service
func NewParameterService(views ViewSource, workbook WorkbookWriter, backend ports.BackendAPI, st *store.AnalysisStore) *ParameterService {
	return &ParameterService{views: views, workbook: workbook, backend: backend, store: st}
}

// Summary describes the parameters of one model family
func (s *ParameterService) Summary(model string) (analysis.Summary, error) {
	return analysis.ParamsOf(s.views.View().Datasets, model)
}

// Workbook writes every accumulated parameter into w
func (s *ParameterService) Workbook(w io.Writer) error {
	return s.workbook.WriteParameters(w, s.views.View().Datasets)
}

// FetchAll asks the backend for the parameters of every curve rather than
// only the streamed ones and writes them as a workbook
func (s *ParameterService) FetchAll(ctx context.Context, w io.Writer) error {
	st := s.store.Snapshot()
	req := experiment.ParamsRequest{
		NumCurves:          st.NumCurves,
		Filters:            st.Filters,
		ForceModelParams:   &st.ForceModelParams,
		ElasticityParams:   &st.ElasticityParams,
		ElasticModelParams: &st.ElasticModelParams,
	}
	fparams, err := s.backend.AllFParams(ctx, req)
	if err != nil {
		return err
	}
	eparams, err := s.backend.AllElasticityParams(ctx, req)
	if err != nil {
		return err
	}

	d := s.views.View().Datasets
	d.Indentation.CurvesFParam = fparams
	d.Elasticity.CurvesElasticityParam = eparams
	return s.workbook.WriteParameters(w, d)
}
