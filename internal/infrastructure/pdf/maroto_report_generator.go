// Package pdf genera el reporte mensual de ventas y stock en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la app      │  Período + fecha de emisión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ingresos / Costo / Utilidad / Margen / N° ventas   │
//	│  STOCK: Valor a costo / Activos / Stock bajo / Agotados      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Top productos del mes                                │
//	│  TABLA: Productos con stock bajo                             │
//	│  TABLA: Detalle de ventas                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda                                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fluxa-api/internal/application/dto"
	"github.com/jhoicas/fluxa-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 180, Green: 60, Blue: 20}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.ReportPDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa report.ReportPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct {
	appName string
}

// NewMarotoReportGenerator construye el generador; appName va en el encabezado.
func NewMarotoReportGenerator(appName string) *MarotoReportGenerator {
	if appName == "" {
		appName = "Fluxa"
	}
	return &MarotoReportGenerator{appName: appName}
}

// GenerateStockFinancialPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateStockFinancialPDF(_ context.Context, r *dto.StockFinancialReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de ventas y stock "+r.DateLabel, true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(salesSummaryRow(r.Sales))
	m.AddRows(stockSummaryRow(r.Stock))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("TOP PRODUCTOS DEL MES"))
	m.AddRows(tableHeader(
		header{"Producto", 7, align.Left},
		header{"Unidades", 2, align.Center},
		header{"Ingreso", 3, align.Right},
	))
	if len(r.TopProducts) == 0 {
		m.AddRows(emptyRow("Sin ventas en el período"))
	}
	for _, p := range r.TopProducts {
		m.AddRows(row.New(6).Add(
			cell(p.Title, 7, align.Left),
			cell(fmt.Sprintf("%d", p.QuantitySold), 2, align.Center),
			cell("$"+formatMoney(p.TotalRevenue), 3, align.Right),
		))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle(fmt.Sprintf("STOCK BAJO (1 a %d unidades)", r.Stock.LowStockThreshold)))
	m.AddRows(tableHeader(
		header{"ID", 2, align.Center},
		header{"Producto", 7, align.Left},
		header{"Stock", 3, align.Right},
	))
	if len(r.Stock.LowStock) == 0 {
		m.AddRows(emptyRow("Ningún producto con stock bajo"))
	}
	for _, p := range r.Stock.LowStock {
		m.AddRows(row.New(6).Add(
			cell(fmt.Sprintf("%d", p.ProductID), 2, align.Center),
			cell(p.Title, 7, align.Left),
			col.New(3).Add(text.New(fmt.Sprintf("%d", p.Quantity), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorWarn, Style: fontstyle.Bold,
			})),
		))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("DETALLE DE VENTAS"))
	m.AddRows(tableHeader(
		header{"Venta", 2, align.Center},
		header{"Fecha", 3, align.Left},
		header{"Productos", 4, align.Left},
		header{"Total", 3, align.Right},
	))
	if len(r.SalesDetail) == 0 {
		m.AddRows(emptyRow("Sin ventas en el período"))
	}
	for _, s := range r.SalesDetail {
		m.AddRows(row.New(6).Add(
			cell(fmt.Sprintf("#%d", s.ID), 2, align.Center),
			cell(s.CreatedAt.Format("02/01/2006 15:04"), 3, align.Left),
			cell(saleLines(s), 4, align.Left),
			cell("$"+formatMoney(s.TotalAmount), 3, align.Right),
		))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(
			"Ventas con fecha dentro del mes calendario (UTC). El stock corresponde al momento de emisión "+
				"y solo incluye productos anunciados. Valores en la moneda del negocio.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la app (izq) y período + fecha de emisión (der).
func (g *MarotoReportGenerator) headerRow(r *dto.StockFinancialReportDTO) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.appName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de ventas y stock", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PERÍODO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(r.DateLabel, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func salesSummaryRow(s dto.SalesSummaryDTO) core.Row {
	return row.New(16).Add(
		kpi("Ingresos", "$"+formatMoney(s.TotalRevenue), 3),
		kpi("Costo de ventas", "$"+formatMoney(s.TotalCostOfGoods), 3),
		kpi("Utilidad bruta", "$"+formatMoney(s.GrossProfit), 2),
		kpi("Margen", s.GrossMarginPct.StringFixed(2)+"%", 2),
		kpi("N° ventas", fmt.Sprintf("%d", s.SalesCount), 2),
	)
}

func stockSummaryRow(s dto.StockSummaryDTO) core.Row {
	return row.New(16).Add(
		kpi("Valor del stock (costo)", "$"+formatMoney(s.TotalCostValue), 4),
		kpi("Productos activos", fmt.Sprintf("%d", s.ActiveProducts), 3),
		kpi("Stock bajo", fmt.Sprintf("%d", s.LowStockCount), 3),
		kpi("Agotados", fmt.Sprintf("%d", s.OutOfStockCount), 2),
	)
}

func kpi(label, value string, size int) core.Col {
	return col.New(size).Add(
		text.New(label, props.Text{Size: 7, Color: colorGray, Top: 2}),
		text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 7}),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

type header struct {
	label string
	size  int
	align align.Type
}

// tableHeader: cabecera de tabla en negrita sobre línea inferior.
func tableHeader(cols ...header) core.Row {
	r := row.New(7)
	for _, h := range cols {
		r.Add(col.New(h.size).Add(text.New(h.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: h.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return r
}

func cell(s string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Align: align.Center}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// saleLines "2× Silla, 1× Mesa".
func saleLines(s dto.SaleResponse) string {
	parts := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		parts = append(parts, fmt.Sprintf("%d× %s", it.QuantitySold, it.Product.Title))
	}
	return strings.Join(parts, ", ")
}

// formatMoney dos decimales con punto de miles y coma decimal.
// Ej: 25000 → "25.000,00", -1234.5 → "-1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+4)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}
