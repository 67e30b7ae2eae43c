package report

import (
	"context"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
)

// ReportPDFGenerator puerto para la representación en PDF del reporte mensual.
type ReportPDFGenerator interface {
	GenerateStockFinancialPDF(ctx context.Context, report *dto.StockFinancialReportDTO) ([]byte, error)
}
