package api

import (
	"fmt"
	"time"

	"budget/service"

	"github.com/gin-gonic/gin"
)

// ExportHandler 导出处理器
type ExportHandler struct {
	workbook *service.WorkbookService
}

// NewExportHandler 创建导出处理器
func NewExportHandler(workbook *service.WorkbookService) *ExportHandler {
	return &ExportHandler{workbook: workbook}
}

// ExportExcel 导出账户、预算与流水为 Excel
// @Summary 导出 Excel
// @Tags 导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Excel 文件"
// @Failure 401 {object} Response "未授权"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	f, err := h.workbook.Build(c.Request.Context())
	if err != nil {
		StoreError(c, err, "生成 Excel 失败")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("budget_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "生成 Excel 失败")
		return
	}
}
