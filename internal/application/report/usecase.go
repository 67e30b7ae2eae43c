// Package report arma el reporte mensual de ventas y stock y su versión PDF.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	"github.com/jhoicas/fluxa-api/internal/application/sales"
	"github.com/jhoicas/fluxa-api/internal/domain"
	"github.com/jhoicas/fluxa-api/internal/domain/entity"
	"github.com/jhoicas/fluxa-api/internal/domain/inventory"
	"github.com/jhoicas/fluxa-api/internal/domain/repository"
)

// DefaultLowStockThreshold umbral de stock bajo si no se configura otro.
const DefaultLowStockThreshold = 10

const topProductsLimit = 5

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// ReportUseCase reporte financiero de ventas del mes más la foto actual del stock.
type ReportUseCase struct {
	saleRepo          repository.SaleRepository
	productRepo       repository.ProductRepository
	generator         ReportPDFGenerator
	lowStockThreshold int
	now               func() time.Time
}

// NewReportUseCase construye el caso de uso. lowStockThreshold <= 0 usa DefaultLowStockThreshold.
func NewReportUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	generator ReportPDFGenerator,
	lowStockThreshold int,
) *ReportUseCase {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &ReportUseCase{
		saleRepo:          saleRepo,
		productRepo:       productRepo,
		generator:         generator,
		lowStockThreshold: lowStockThreshold,
		now:               time.Now,
	}
}

// BuildReport ventas con fecha en el mes calendario (UTC) y stock de los productos anunciados.
func (uc *ReportUseCase) BuildReport(ctx context.Context, year, month int) (*dto.StockFinancialReportDTO, error) {
	if year < 2000 || year > 2100 {
		return nil, domain.NewValidationError("year", "debe estar entre 2000 y 2100")
	}
	if month < 1 || month > 12 {
		return nil, domain.NewValidationError("month", "debe estar entre 1 y 12")
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	salesInPeriod, err := uc.saleRepo.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, domain.WrapPersistence("listar ventas del período", err)
	}
	announced := entity.ProductStatusAnnounced
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{Status: &announced})
	if err != nil {
		return nil, domain.WrapPersistence("listar productos", err)
	}

	fin := inventory.SummarizeSales(salesInPeriod)
	val := inventory.ValueStock(products, uc.lowStockThreshold)

	out := &dto.StockFinancialReportDTO{
		Year:        year,
		Month:       month,
		DateLabel:   fmt.Sprintf("%s %d", monthNames[month-1], year),
		PeriodStart: from,
		PeriodEnd:   to,
		GeneratedAt: uc.now().UTC(),
		Sales: dto.SalesSummaryDTO{
			TotalRevenue:     fin.TotalRevenue,
			TotalCostOfGoods: fin.TotalCostOfGoods,
			GrossProfit:      fin.GrossProfit,
			GrossMarginPct:   fin.GrossMarginPct(),
			SalesCount:       fin.SalesCount,
		},
		Stock: dto.StockSummaryDTO{
			TotalCostValue:    val.TotalCostValue,
			ActiveProducts:    val.ActiveProductCount,
			LowStockCount:     val.LowStockCount,
			OutOfStockCount:   val.OutOfStockCount,
			LowStockThreshold: uc.lowStockThreshold,
			LowStock:          make([]dto.LowStockItemDTO, 0, len(val.LowStock)),
		},
		TopProducts: []dto.TopProductDTO{},
		SalesDetail: make([]dto.SaleResponse, 0, len(salesInPeriod)),
	}
	for _, p := range val.LowStock {
		out.Stock.LowStock = append(out.Stock.LowStock, dto.LowStockItemDTO{
			ProductID: p.ID, Title: p.Title, Quantity: p.Quantity,
		})
	}
	for _, ps := range inventory.RankProductsByRevenue(salesInPeriod, topProductsLimit) {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID:    ps.ProductID,
			Title:        ps.Title,
			QuantitySold: ps.QuantitySold,
			TotalRevenue: ps.Revenue,
		})
	}
	for _, s := range salesInPeriod {
		out.SalesDetail = append(out.SalesDetail, sales.ToSaleResponse(s))
	}
	return out, nil
}

// DownloadPDF genera el PDF del reporte.
// Retorna (pdfBytes, filename, nil); filename = Fluxa_Reporte_Ventas_MM-YYYY.pdf.
func (uc *ReportUseCase) DownloadPDF(ctx context.Context, year, month int) ([]byte, string, error) {
	data, err := uc.BuildReport(ctx, year, month)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GenerateStockFinancialPDF(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("reporte: generación de PDF fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("Fluxa_Reporte_Ventas_%02d-%d.pdf", month, year), nil
}
