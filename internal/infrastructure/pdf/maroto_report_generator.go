// Package pdf genera el reporte PDF de indicadores del tablero.
//
// Layout de la página A4:
//
//	┌──────────────────────────────────────────────────────┐
//	│  Título                       │  Fecha de generación │
//	│  Período / Propiedad / Área                          │
//	│  Aviso (sólo si los datos no son del filtro actual)  │
//	│  ────────────────────────────────────────────────    │
//	│  Sección: Indicador | Valor | Tendencia | Detalle    │
//	│  ...                                                  │
//	│  ────────────────────────────────────────────────    │
//	│  Generado por                                         │
//	└──────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/sites-hotels-dashboard/internal/application/dto"
	"github.com/jhoicas/sites-hotels-dashboard/internal/application/ports"
)

var _ ports.ReportGenerator = (*MarotoReportGenerator)(nil)

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorPositive = &props.Color{Red: 22, Green: 128, Blue: 61}
	colorNegative = &props.Color{Red: 185, Green: 28, Blue: 28}
)

var sectionTitles = map[string]string{
	"principales": "Indicadores principales",
	"presupuesto": "Presupuesto y forecast",
	"resultados":  "Resultados",
}

// MarotoReportGenerator implementa ports.ReportGenerator con Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateKPIReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateKPIReport(ctx context.Context, r ports.KPIReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(r.Title, true).
		WithAuthor(r.GeneratedBy, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(r))
	m.AddRows(filterRow(r))
	if r.Notice != "" {
		m.AddRows(noticeRow(r.Notice))
	}
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))

	section := ""
	for _, card := range r.Cards {
		if card.Section != section {
			section = card.Section
			m.AddRows(sectionRow(section))
			m.AddRows(tableHeaderRow())
		}
		m.AddRows(cardRow(card))
	}

	m.AddRows(line.NewRow(4))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(12).Add(
		text.New("Generado por: "+r.GeneratedBy, props.Text{Size: 7, Color: colorGray, Top: 1}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(r ports.KPIReport) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New(r.Title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
		),
		col.New(4).Add(
			text.New("Fecha: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func filterRow(r ports.KPIReport) core.Row {
	return row.New(8).Add(
		col.New(6).Add(text.New("Período: "+r.Period, props.Text{Size: 9, Top: 1})),
		col.New(3).Add(text.New("Propiedad: "+r.Property, props.Text{Size: 9, Top: 1})),
		col.New(3).Add(text.New("Área: "+r.Area, props.Text{Size: 9, Top: 1, Align: align.Right})),
	)
}

func noticeRow(notice string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(notice, props.Text{Size: 8, Style: fontstyle.Italic, Color: colorNegative, Top: 1}),
	))
}

func sectionRow(section string) core.Row {
	title, ok := sectionTitles[section]
	if !ok {
		title = section
	}
	return row.New(10).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 4}),
	))
}

func tableHeaderRow() core.Row {
	h := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1}
	right := h
	right.Align = align.Right
	return row.New(6).Add(
		col.New(4).Add(text.New("Indicador", h)),
		col.New(3).Add(text.New("Valor", right)),
		col.New(2).Add(text.New("Tendencia", right)),
		col.New(3).Add(text.New("Detalle", h)),
	)
}

func cardRow(c dto.KPICard) core.Row {
	trendColor := colorGray
	switch c.Trend {
	case "positive":
		trendColor = colorPositive
	case "negative":
		trendColor = colorNegative
	}
	return row.New(6).Add(
		col.New(4).Add(text.New(c.Title, props.Text{Size: 9, Top: 1})),
		col.New(3).Add(text.New(c.Value, props.Text{Size: 9, Top: 1, Style: fontstyle.Bold, Align: align.Right})),
		col.New(2).Add(text.New(c.TrendValue, props.Text{Size: 9, Top: 1, Align: align.Right, Color: trendColor})),
		col.New(3).Add(text.New(c.Subtitle, props.Text{Size: 8, Top: 1, Color: colorGray, Left: 2})),
	)
}
