// Package report renders the team analysis into an .xlsx workbook: a summary
// sheet, a vendor ranking, one detail sheet per vendor and a recommendations
// sheet.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/andreminchillo/analiticys2/internal/insight"
	"github.com/andreminchillo/analiticys2/internal/logger"
	"github.com/andreminchillo/analiticys2/internal/vendors"
)

const (
	sheetSummary         = "Resumo"
	sheetRanking         = "Ranking"
	sheetRecommendations = "Recomendações"

	// callDetailCap bounds the per-call rows on each vendor sheet.
	callDetailCap = 5
)

type Generator struct {
	log *logrus.Entry
}

func NewGenerator() *Generator {
	return &Generator{log: logger.Stage("report")}
}

// Generate writes the full workbook for report to path.
func (g *Generator) Generate(report vendors.TeamReport, path string) error {
	g.log.WithFields(logrus.Fields{
		"vendedores": report.TotalVendors,
		"conversas":  report.TotalCalls,
	}).Info("gerando relatório")

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetSummary)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	g.writeSummary(f, bold, report)
	g.writeRanking(f, bold, report)
	for _, name := range rankVendors(report) {
		g.writeVendorSheet(f, bold, name, report.Vendors[name])
	}
	g.writeRecommendations(f, bold, report)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	g.log.WithField("arquivo", path).Info("relatório salvo")
	return nil
}

func (g *Generator) writeSummary(f *excelize.File, bold int, report vendors.TeamReport) {
	stats := report.TeamStats

	setBold(f, bold, sheetSummary, "A1", "RELATÓRIO DE ANÁLISE DE VENDAS")
	f.SetCellValue(sheetSummary, "A2", "Análise Completa de Performance por Vendedor")
	f.SetCellValue(sheetSummary, "A3", "Data do Relatório")
	f.SetCellValue(sheetSummary, "B3", report.ProcessedAt.Format("02/01/2006 15:04"))

	rows := []struct {
		label string
		value any
	}{
		{"Total de Vendedores", report.TotalVendors},
		{"Total de Ligações Analisadas", report.TotalCalls},
		{"Nota Média da Equipe", fmt.Sprintf("%.1f/10", stats.MeanScore)},
		{"Taxa de Conversão Média", fmt.Sprintf("%.1f%%", stats.MeanConversionRate)},
		{"Sentimento Positivo Médio", fmt.Sprintf("%.1f%%", stats.MeanPositiveSentiment)},
		{"Melhor Vendedor", orNA(stats.BestVendor)},
		{"Vendedor que Precisa de Atenção", orNA(stats.NeedsAttention)},
		{"Vendas Fechadas", stats.TotalClosedSales},
		{"Follow-ups Agendados", stats.TotalFollowUps},
		{"Clientes Perdidos", stats.TotalLostCustomers},
	}

	row := 5
	setBold(f, bold, sheetSummary, cell("A", row), "Métricas Principais da Equipe")
	row++
	for _, r := range rows {
		setBold(f, bold, sheetSummary, cell("A", row), r.label)
		f.SetCellValue(sheetSummary, cell("B", row), r.value)
		row++
	}
	f.SetColWidth(sheetSummary, "A", "A", 36)
	f.SetColWidth(sheetSummary, "B", "B", 28)
}

func (g *Generator) writeRanking(f *excelize.File, bold int, report vendors.TeamReport) {
	f.NewSheet(sheetRanking)

	headers := []string{"Posição", "Vendedor", "Nota Média", "Taxa Conversão", "Total Ligações", "Nível"}
	for i, h := range headers {
		setBold(f, bold, sheetRanking, cell(column(i), 1), h)
	}

	for i, name := range rankVendors(report) {
		vr := report.Vendors[name]
		row := i + 2
		f.SetCellValue(sheetRanking, cell("A", row), i+1)
		f.SetCellValue(sheetRanking, cell("B", row), name)
		f.SetCellValue(sheetRanking, cell("C", row), vr.Stats.MeanScore)
		f.SetCellValue(sheetRanking, cell("D", row), fmt.Sprintf("%.1f%%", vr.Stats.ConversionRate))
		f.SetCellValue(sheetRanking, cell("E", row), vr.Stats.TotalCalls)
		f.SetCellValue(sheetRanking, cell("F", row), vr.Insights.PerformanceLevel)
	}
	f.SetColWidth(sheetRanking, "B", "B", 24)
	f.SetColWidth(sheetRanking, "C", "F", 16)
}

func (g *Generator) writeVendorSheet(f *excelize.File, bold int, name string, vr vendors.Report) {
	sheet := sheetName(name)
	f.NewSheet(sheet)

	stats := vr.Stats
	ins := vr.Insights

	setBold(f, bold, sheet, "A1", name)

	row := 3
	setBold(f, bold, sheet, cell("A", row), "Resumo de Performance")
	row++
	summary := []struct {
		label string
		value any
	}{
		{"Nível de Performance", ins.PerformanceLevel},
		{"Nota Geral", fmt.Sprintf("%.1f/10", ins.OverallScore)},
		{"Total de Ligações", ins.TotalCalls},
		{"Taxa de Conversão", fmt.Sprintf("%.1f%%", ins.ConversionRate)},
		{"Taxa Sentimento Positivo", fmt.Sprintf("%.1f%%", ins.PositiveSentimentRate)},
		{"Taxa Ligações Qualidade", fmt.Sprintf("%.1f%%", ins.QualityCallRate)},
		{"Melhor Nota", fmt.Sprintf("%.1f/10", stats.BestScore)},
		{"Pior Nota", fmt.Sprintf("%.1f/10", stats.WorstScore)},
	}
	for _, r := range summary {
		setBold(f, bold, sheet, cell("A", row), r.label)
		f.SetCellValue(sheet, cell("B", row), r.value)
		row++
	}

	row++
	setBold(f, bold, sheet, cell("A", row), "Distribuição de Classificações")
	row++
	f.SetCellValue(sheet, cell("A", row), fmt.Sprintf(
		"A (Excelente): %d | B (Boa): %d | C (Regular): %d | D (Precisa Melhorar): %d",
		stats.Grades["A"], stats.Grades["B"], stats.Grades["C"], stats.Grades["D"]))
	row += 2

	row = g.writeList(f, bold, sheet, row, "Pontos Fortes Principais", ins.TopStrengths)
	row = g.writeList(f, bold, sheet, row, "Áreas de Melhoria", ins.ImprovementAreas)
	row = g.writeList(f, bold, sheet, row, "Prioridades de Treinamento", ins.TrainingPriorities)
	row = g.writeList(f, bold, sheet, row, "Objeções Mais Enfrentadas", ins.CommonObjections)
	row = g.writeList(f, bold, sheet, row, "Produtos Mais Trabalhados", ins.TopProducts)

	if ins.MainRecommendation != "" {
		setBold(f, bold, sheet, cell("A", row), "Recomendação Principal")
		row++
		f.SetCellValue(sheet, cell("A", row), ins.MainRecommendation)
		row += 2
	}
	row = g.writeList(f, bold, sheet, row, "Próximos Passos", ins.NextSteps)

	setBold(f, bold, sheet, cell("A", row), "Resumo das Ligações")
	row++
	callHeaders := []string{"Arquivo", "Nota", "Classificação", "Resultado", "Resumo"}
	for i, h := range callHeaders {
		setBold(f, bold, sheet, cell(column(i), row), h)
	}
	row++

	total := len(vr.Calls)
	for i, call := range vr.Calls {
		if i == callDetailCap {
			break
		}
		f.SetCellValue(sheet, cell("A", row), orNA(call.Insight.SourceFile()))
		f.SetCellValue(sheet, cell("B", row), call.Classification.VendorScore)
		f.SetCellValue(sheet, cell("C", row), call.Classification.Grade)
		f.SetCellValue(sheet, cell("D", row), orNA(call.Insight.Str(insight.FieldOutcome)))
		f.SetCellValue(sheet, cell("E", row), call.Insight.Str(insight.FieldSummary))
		row++
	}
	if total > callDetailCap {
		f.SetCellValue(sheet, cell("A", row), fmt.Sprintf("... e mais %d ligação(ões)", total-callDetailCap))
	}

	f.SetColWidth(sheet, "A", "A", 36)
	f.SetColWidth(sheet, "B", "D", 18)
	f.SetColWidth(sheet, "E", "E", 60)
}

func (g *Generator) writeList(f *excelize.File, bold int, sheet string, row int, title string, items []string) int {
	if len(items) == 0 {
		return row
	}
	setBold(f, bold, sheet, cell("A", row), title)
	row++
	for _, item := range items {
		f.SetCellValue(sheet, cell("A", row), "• "+item)
		row++
	}
	return row + 1
}

func (g *Generator) writeRecommendations(f *excelize.File, bold int, report vendors.TeamReport) {
	f.NewSheet(sheetRecommendations)
	stats := report.TeamStats

	setBold(f, bold, sheetRecommendations, "A1", "Recomendações Gerais")

	row := 3
	setBold(f, bold, sheetRecommendations, cell("A", row), "Para a Equipe")
	row++
	switch {
	case stats.MeanScore < 6:
		f.SetCellValue(sheetRecommendations, cell("A", row),
			"URGENTE: A nota média da equipe está abaixo de 6. Recomenda-se treinamento intensivo em técnicas básicas de vendas.")
	case stats.MeanScore < 7:
		f.SetCellValue(sheetRecommendations, cell("A", row),
			"A equipe tem potencial de melhoria. Foco em treinamentos específicos por vendedor.")
	default:
		f.SetCellValue(sheetRecommendations, cell("A", row),
			"A equipe está performando bem. Manter padrão atual e focar em casos específicos.")
	}
	row++
	if stats.MeanConversionRate < 20 {
		f.SetCellValue(sheetRecommendations, cell("A", row),
			"Taxa de conversão baixa. Implementar treinamento em técnicas de fechamento e identificação de oportunidades.")
		row++
	}

	row++
	setBold(f, bold, sheetRecommendations, cell("A", row), "Por Vendedor")
	row++
	for _, name := range rankVendors(report) {
		ins := report.Vendors[name].Insights
		setBold(f, bold, sheetRecommendations, cell("A", row), name)
		rec := levelAdvice(ins.PerformanceLevel)
		if ins.MainRecommendation != "" {
			rec += " " + ins.MainRecommendation
		}
		f.SetCellValue(sheetRecommendations, cell("B", row), rec)
		row++
	}

	row++
	setBold(f, bold, sheetRecommendations, cell("A", row), "Próximos Passos para Gestão")
	row++
	managementSteps := []string{
		"Implementar plano de treinamento baseado nas prioridades identificadas",
		"Agendar reuniões individuais com vendedores que precisam de atenção",
		"Criar programa de mentoria com os melhores vendedores",
		"Monitorar progresso mensalmente com nova análise de ligações",
		"Desenvolver scripts para objeções mais comuns identificadas",
	}
	for _, step := range managementSteps {
		f.SetCellValue(sheetRecommendations, cell("A", row), "• "+step)
		row++
	}

	row++
	f.SetCellValue(sheetRecommendations, cell("A", row),
		fmt.Sprintf("Relatório gerado automaticamente em %s", time.Now().Format("02/01/2006 15:04")))

	f.SetColWidth(sheetRecommendations, "A", "A", 40)
	f.SetColWidth(sheetRecommendations, "B", "B", 90)
}

func levelAdvice(level string) string {
	switch level {
	case "Precisa Melhorar":
		return "Prioridade alta para treinamento."
	case "Regular":
		return "Acompanhamento próximo e treinamento específico."
	case "Bom":
		return "Manter performance e trabalhar pontos específicos."
	default:
		return "Excelente performance, pode ser mentor para outros."
	}
}

// rankVendors orders vendor names by mean score descending, first-appearance
// order breaking ties.
func rankVendors(report vendors.TeamReport) []string {
	names := make([]string, len(report.VendorOrder))
	copy(names, report.VendorOrder)
	sort.SliceStable(names, func(i, j int) bool {
		return report.Vendors[names[i]].Stats.MeanScore > report.Vendors[names[j]].Stats.MeanScore
	})
	return names
}

var sheetNameSanitizer = strings.NewReplacer(
	":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "", "'", "")

// sheetName makes a vendor name safe for use as a worksheet title.
func sheetName(vendor string) string {
	name := strings.TrimSpace(sheetNameSanitizer.Replace(vendor))
	if name == "" {
		name = insight.UnknownVendor
	}
	runes := []rune(name)
	if len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}

func setBold(f *excelize.File, style int, sheet, axis string, value any) {
	f.SetCellValue(sheet, axis, value)
	f.SetCellStyle(sheet, axis, axis, style)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func column(i int) string {
	return string(rune('A' + i))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
