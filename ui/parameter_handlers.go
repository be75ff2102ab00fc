package ui

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleParameterSummary(c *gin.Context) {
	sum, err := s.deps.Parameters.Summary(c.DefaultQuery("model", "force_model"))
	if err != nil {
		s.badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, sum)
}

// handleParameterWorkbook writes streamed parameters, or every curve's
// parameters when source=backend
func (s *Server) handleParameterWorkbook(c *gin.Context) {
	var buf bytes.Buffer
	var err error
	if c.Query("source") == "backend" {
		err = s.deps.Parameters.FetchAll(c.Request.Context(), &buf)
	} else {
		err = s.deps.Parameters.Workbook(&buf)
	}
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="parameters.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
