package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	"github.com/jhoicas/fluxa-api/internal/application/report"
)

// ReportHandler reporte mensual de stock y finanzas (protegido).
type ReportHandler struct {
	uc *report.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// StockFinancialPDF godoc
// @Summary      Reporte de stock y finanzas (PDF)
// @Description  Ventas del mes (UTC), costo de lo vendido, margen bruto, valor del stock y alertas de stock bajo.
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        year   path  int  true  "Año (2000-2100)"
// @Param        month  path  int  true  "Mes (1-12)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-financial/{year}/{month} [get]
func (h *ReportHandler) StockFinancialPDF(c *fiber.Ctx) error {
	year, month, ok := yearMonth(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "year y month deben ser enteros"})
	}
	pdf, filename, err := h.uc.DownloadPDF(c.UserContext(), year, month)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdf)
}

// StockFinancialSummary godoc
// @Summary      Reporte de stock y finanzas (JSON)
// @Description  Los mismos datos que el PDF, para el dashboard.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        year   path  int  true  "Año (2000-2100)"
// @Param        month  path  int  true  "Mes (1-12)"
// @Success      200  {object}  dto.StockFinancialReportDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-financial/{year}/{month}/summary [get]
func (h *ReportHandler) StockFinancialSummary(c *fiber.Ctx) error {
	year, month, ok := yearMonth(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "year y month deben ser enteros"})
	}
	out, err := h.uc.BuildReport(c.UserContext(), year, month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// yearMonth el rango lo valida el caso de uso; aquí solo se exige que sean enteros.
func yearMonth(c *fiber.Ctx) (int, int, bool) {
	year, err := c.ParamsInt("year")
	if err != nil {
		return 0, 0, false
	}
	month, err := c.ParamsInt("month")
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}
