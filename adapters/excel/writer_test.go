package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"afmdash/domain/curves"
)

func TestWriteParametersResolvesCurveIDs(t *testing.T) {
	d := curves.EmptyDatasets()
	d.Indentation.CurvesCP = []curves.Curve{{CurveID: "c0"}, {CurveID: "c1"}}
	d.Indentation.CurvesFParam = []curves.FParam{
		{CurveIndex: 1, FParam: curves.Samples{1.5, 2.5}},
		{CurveIndex: 7, FParam: curves.Samples{3}},
	}
	d.Elasticity.Curves = []curves.Curve{{CurveID: "e0"}}
	d.Elasticity.CurvesElasticityParam = []curves.ElasticityParam{{CurveIndex: 0, ElasticityParam: curves.Samples{9}}}

	var buf bytes.Buffer
	require.NoError(t, NewWorkbookWriter().WriteParameters(&buf, d))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetForceModel, SheetElasticityModel}, f.GetSheetList())

	rows, err := f.GetRows(SheetForceModel)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"curve_index", "curve_id", "param_0", "param_1"}, rows[0])
	assert.Equal(t, []string{"1", "c1", "1.5", "2.5"}, rows[1])
	assert.Equal(t, []string{"7", "", "3"}, rows[2])

	rows, err = f.GetRows(SheetElasticityModel)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"0", "e0", "9"}, rows[1])
}

func TestWriteParametersEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWorkbookWriter().WriteParameters(&buf, curves.EmptyDatasets()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetElasticityModel)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"curve_index", "curve_id"}}, rows)
}
