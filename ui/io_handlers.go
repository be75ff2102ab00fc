package ui

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"afmdash/app"
	"afmdash/domain/experiment"
)

const maxUploadBytes = 512 << 20

func (s *Server) handleImportLoad(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		s.badRequest(c, "multipart field \"file\" is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.badRequest(c, "unreadable upload")
		return
	}
	defer f.Close()

	st, err := s.deps.Imports.Load(c.Request.Context(), fh.Filename, f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) handleImportProcess(c *gin.Context) {
	var req experiment.ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid process request")
		return
	}
	res, err := s.deps.Imports.Process(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type exportBody struct {
	ExportPath       string                 `json:"export_path"`
	ExportType       experiment.ExportType  `json:"export_type"`
	DatasetType      string                 `json:"dataset_type"`
	Direction        string                 `json:"direction"`
	Loose            int                    `json:"loose"`
	LevelNames       []string               `json:"level_names"`
	MetadataPath     string                 `json:"metadata_path"`
	DatasetPath      string                 `json:"dataset_path"`
	Metadata         map[string]interface{} `json:"metadata"`
	SoftmechMetadata map[string]interface{} `json:"softmech_metadata"`
}

func (b exportBody) options(format experiment.Format) app.ExportOptions {
	return app.ExportOptions{
		Format:           format,
		Path:             b.ExportPath,
		ExportType:       b.ExportType,
		DatasetType:      b.DatasetType,
		Direction:        b.Direction,
		Loose:            b.Loose,
		LevelNames:       b.LevelNames,
		MetadataPath:     b.MetadataPath,
		DatasetPath:      b.DatasetPath,
		Metadata:         b.Metadata,
		SoftmechMetadata: b.SoftmechMetadata,
	}
}

// handleExport responds with the produced file as an attachment
func (s *Server) handleExport(c *gin.Context) {
	format, err := experiment.ParseFormat(c.Param("format"))
	if err != nil {
		s.fail(c, err)
		return
	}
	var body exportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "invalid export body")
		return
	}
	if body.ExportPath == "" {
		body.ExportPath = "export." + string(format)
	}

	// buffer so a failed download still yields a JSON error
	var buf bytes.Buffer
	res, err := s.deps.Exports.Export(c.Request.Context(), body.options(format), &buf)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(body.ExportPath)))
	c.Header("X-Exported-Curves", fmt.Sprint(res.ExportedCurves))
	c.Data(http.StatusOK, contentTypeFor(format), buf.Bytes())
}

func (s *Server) handleSoftmechMetadata(c *gin.Context) {
	var body exportBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.badRequest(c, "invalid metadata request")
		return
	}
	md, err := s.deps.Exports.SoftmechPreview(c.Request.Context(), body.options(experiment.FormatCSV))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"calculated_metadata": md})
}

func contentTypeFor(f experiment.Format) string {
	switch f {
	case experiment.FormatJSON:
		return "application/json"
	case experiment.FormatCSV:
		return "text/csv"
	case experiment.FormatTXT:
		return "text/plain"
	}
	return "application/octet-stream"
}
