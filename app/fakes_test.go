package app

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/stretchr/testify/mock"

	"afmdash/domain/curves"
	"afmdash/domain/experiment"
	"afmdash/domain/feed"
	"afmdash/internal"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) LoadExperiment(ctx context.Context, filename string, r io.Reader) (*experiment.Structure, error) {
	args := m.Called(ctx, filename, r)
	st, _ := args.Get(0).(*experiment.Structure)
	return st, args.Error(1)
}

func (m *mockBackend) ProcessFile(ctx context.Context, req experiment.ProcessRequest) (*experiment.ProcessResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*experiment.ProcessResult)
	return res, args.Error(1)
}

func (m *mockBackend) Export(ctx context.Context, format experiment.Format, req experiment.ExportRequest) (*experiment.ExportResult, error) {
	args := m.Called(ctx, format, req)
	res, _ := args.Get(0).(*experiment.ExportResult)
	return res, args.Error(1)
}

func (m *mockBackend) DownloadExport(ctx context.Context, path string, w io.Writer) (int64, error) {
	args := m.Called(ctx, path, w)
	if body := args.String(0); body != "" {
		n, err := io.WriteString(w, body)
		return int64(n), err
	}
	return 0, args.Error(1)
}

func (m *mockBackend) CalculateSoftmechMetadata(ctx context.Context, req experiment.SoftmechRequest) (map[string]interface{}, error) {
	args := m.Called(ctx, req)
	md, _ := args.Get(0).(map[string]interface{})
	return md, args.Error(1)
}

func (m *mockBackend) AllFParams(ctx context.Context, req experiment.ParamsRequest) ([]curves.FParam, error) {
	args := m.Called(ctx, req)
	out, _ := args.Get(0).([]curves.FParam)
	return out, args.Error(1)
}

func (m *mockBackend) AllElasticityParams(ctx context.Context, req experiment.ParamsRequest) ([]curves.ElasticityParam, error) {
	args := m.Called(ctx, req)
	out, _ := args.Get(0).([]curves.ElasticityParam)
	return out, args.Error(1)
}

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) ResetAndReload() { r.calls.Add(1) }

type staticViews struct {
	view feed.View
}

func (s staticViews) View() feed.View { return s.view }

type recordingWorkbook struct {
	last curves.Datasets
}

func (r *recordingWorkbook) WriteParameters(w io.Writer, d curves.Datasets) error {
	r.last = d
	_, err := io.WriteString(w, "xlsx")
	return err
}

func quietLogger() *internal.Logger {
	return internal.NewLoggerTo(io.Discard, internal.LogLevelError)
}
