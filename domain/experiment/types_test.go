package experiment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"afmdash/domain/core"
)

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("HDF5")
	require.NoError(t, err)
	assert.Equal(t, FormatHDF5, f)

	_, err = ParseFormat("xlsx")
	assert.True(t, errors.Is(err, core.ErrInvalidFormat))
}

func TestProcessRequestValidate(t *testing.T) {
	err := ProcessRequest{FilePath: "uploads/a.h5", FileType: "hdf5"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing force_path, z_path")

	ok := ProcessRequest{FilePath: "a", FileType: "hdf5", ForcePath: "/f", ZPath: "/z"}
	assert.NoError(t, ok.Validate())
}
