package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afmdash/domain/analysis"
	"afmdash/internal/errors"
)

func TestDecodeNonJSONIsMalformed(t *testing.T) {
	_, err := Decode([]byte("not json {"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeMalformedMessage, errors.GetCode(err))
}

func TestDecodeStatuses(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Action
	}{
		{"complete", `{"status":"complete"}`, Completed{}},
		{"error", `{"status":"error","message":"fit failed"}`, Failed{Message: "fit failed"}},
		{"error without message", `{"status":"error"}`, Failed{Message: "analysis failed"}},
		{"batch empty", `{"status":"batch_empty","message":"no curves"}`, Notice{Status: StatusBatchEmpty, Message: "no curves"}},
		{"batch error", `{"status":"batch_error","message":"x"}`, Notice{Status: StatusBatchError, Message: "x"}},
		{"unknown", `{"status":"progress"}`, Ignored{Status: "progress", Reason: "unknown status"}},
		{"no status", `{"data":{}}`, Ignored{Reason: "missing status"}},
		{"array", `[1,2]`, Ignored{Reason: "not an object"}},
		{"batch without data", `{"status":"batch"}`, Ignored{Status: StatusBatch, Reason: "empty data"}},
		{"batch empty data", `{"status":"batch","data":{}}`, Ignored{Status: StatusBatch, Reason: "empty data"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeBatch(t *testing.T) {
	raw := `{"status":"batch","data":{
		"graphForcevsZ":{"curves":[{"curve_id":"c1","x":[1,2],"y":[3,4]},{"curve_id":"c2","x":[1,2,3],"y":[1]}],"domain":{"xMin":0,"xMax":10}},
		"graphForceIndentationSingle":{"curves":{"curves_cp":[{"curve_id":"c7","x":[0],"y":[1]}],"curves_fparam":[{"curve_index":0,"fparam":[1.5,2.5]}]},"domain":{"yMin":-1,"yMax":1}},
		"graphElspectra":{"curves":[],"curves_elasticity_param":[{"curve_index":0,"elasticity_param":[9]}]},
		"graphElspectraSingle":"garbage"
	}}`

	action, err := Decode([]byte(raw))
	require.NoError(t, err)
	b, ok := action.(BatchReceived)
	require.True(t, ok)

	require.NotNil(t, b.ForceVsZ)
	require.Len(t, b.ForceVsZ.Curves, 2)
	assert.Equal(t, []float64{1, 2}, []float64(b.ForceVsZ.Curves[0].X))
	assert.Empty(t, b.ForceVsZ.Curves[1].X, "mismatched curve is normalised to empty")
	assert.Empty(t, b.ForceVsZ.Curves[1].Y)
	require.NotNil(t, b.ForceVsZ.Domain)
	assert.Equal(t, 10.0, *b.ForceVsZ.Domain.XMax)
	assert.Nil(t, b.ForceVsZ.Domain.YMin)

	require.NotNil(t, b.ForceIndentationSingle)
	assert.Equal(t, "c7", b.ForceIndentationSingle.Curves.CurvesCP[0].CurveID)
	assert.Equal(t, 0, b.ForceIndentationSingle.Curves.CurvesFParam[0].CurveIndex)

	require.NotNil(t, b.ElasticitySpectra)
	assert.Len(t, b.ElasticitySpectra.CurvesElasticityParam, 1)
	assert.Nil(t, b.ElasticitySpectra.Domain)

	assert.Nil(t, b.ElasticitySpectraSingle)
	assert.Equal(t, []string{KeyElasticitySpectraSingle}, b.Skipped)
	assert.Nil(t, b.ForceIndentation)
}

func TestDecodeFilterDefaultsStripsSuffix(t *testing.T) {
	raw := `{"status":"filter_defaults","data":{
		"regular_filters":{"median_filter_array":{"window_size":3},"savgol_filter_array":{"polyorder":2}},
		"cp_filters":{"autotresh_filter_array":{"range_to_set_zero":400}},
		"fmodels":{"hertz_filter_array":{}}
	}}`

	action, err := Decode([]byte(raw))
	require.NoError(t, err)
	fd, ok := action.(FilterDefaultsReceived)
	require.True(t, ok)

	assert.Contains(t, fd.Defaults.Regular, "median")
	assert.Contains(t, fd.Defaults.Regular, "savgol")
	assert.Equal(t, map[string]interface{}{"range_to_set_zero": 400.0}, fd.Defaults.CPFilters["autotresh"])
	assert.Contains(t, fd.Defaults.ForceModels, "hertz")
	assert.Equal(t, analysis.FilterConfig{}, fd.Defaults.ElasticityModels)
}

func TestDecodeMetadata(t *testing.T) {
	action, err := Decode([]byte(`{"status":"metadata","metadata":{"columns":["a","b"],"sample_row":{"a":1}}}`))
	require.NoError(t, err)
	md, ok := action.(MetadataReceived)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, md.Metadata.Columns)
	assert.Equal(t, 1.0, md.Metadata.SampleRow["a"])

	action, err = Decode([]byte(`{"status":"metadata"}`))
	require.NoError(t, err)
	assert.IsType(t, Ignored{}, action)
}

func TestRequestEncoding(t *testing.T) {
	s := analysis.DefaultState()
	s.Filters.Regular = nil
	s.Filters.ForceModels["hertz"] = map[string]interface{}{}

	data, err := NewRequest(s).Encode()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ActionGetMetadata, decoded["action"])
	assert.Equal(t, 10.0, decoded["num_curves"])
	assert.NotContains(t, decoded, "curve_id")

	filters := decoded["filters"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{}, filters["regular"])
	assert.Contains(t, filters["f_models"], "hertz")

	force := decoded["force_model_params"].(map[string]interface{})
	assert.Equal(t, 0.5, force["poisson"])
	assert.Equal(t, 800.0, force["maxInd"])

	s.SelectedCurveID = "curve_3"
	data, err = NewRequest(s).Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"curve_id":"curve_3"`)
}

func TestNewRequestIsolatedFromState(t *testing.T) {
	s := analysis.DefaultState()
	s.Filters.Regular["median"] = map[string]interface{}{"window_size": 3.0}
	req := NewRequest(s)

	s.Filters.Regular["median"].(map[string]interface{})["window_size"] = 7.0
	assert.Equal(t, 3.0, req.Filters.Regular["median"].(map[string]interface{})["window_size"])
}
