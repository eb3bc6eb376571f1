package leave

import (
	"net/http"
	"net/url"

	"go-leaves/internal/shared/apperror"
	"go-leaves/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

type ExportHandler struct {
	exporter Exporter
}

func NewExportHandler(exporter Exporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

func writeExportError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *ExportHandler) Workbook(c *gin.Context) {
	var q ListLeavesRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		writeExportError(c, apperror.MapValidationError(err))
		return
	}

	buf, filename, err := h.exporter.Workbook(c.Request.Context(), ListFilter{
		Status:      q.Status,
		Year:        q.Year,
		LeaveTypeID: q.LeaveTypeID,
		Search:      q.Search,
	})
	if err != nil {
		writeExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) Calendar(c *gin.Context) {
	body, err := h.exporter.Calendar(c.Request.Context(), c.GetString("user_id_validated"))
	if err != nil {
		writeExportError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="leave.ics"`)
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, icsContentType, body)
}
