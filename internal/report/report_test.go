package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/andreminchillo/analiticys2/internal/insight"
	"github.com/andreminchillo/analiticys2/internal/scoring"
	"github.com/andreminchillo/analiticys2/internal/vendors"
)

func sampleTeamReport() vendors.TeamReport {
	joaoCalls := []scoring.ClassifiedCall{
		{
			Insight: insight.Record{
				insight.FieldSourceFile: "ligacao1.wav",
				insight.FieldOutcome:    "venda_fechada",
				insight.FieldSummary:    "Cliente fechou plano anual",
			},
			Classification: scoring.Classification{Grade: "A", VendorScore: 9.0},
		},
	}
	return vendors.TeamReport{
		Vendors: map[string]vendors.Report{
			"João": {
				Calls: joaoCalls,
				Stats: vendors.Statistics{
					TotalCalls:     1,
					MeanScore:      9.0,
					BestScore:      9.0,
					WorstScore:     9.0,
					ClosedSales:    1,
					ConversionRate: 100,
					Grades:         map[string]int{"A": 1},
				},
				Insights: vendors.Insights{
					Vendor:             "João",
					PerformanceLevel:   "Excelente",
					OverallScore:       9.0,
					TotalCalls:         1,
					ConversionRate:     100,
					TopStrengths:       []string{"Rapport"},
					MainRecommendation: "Manter o excelente trabalho e compartilhar boas práticas com a equipe",
					NextSteps:          []string{"Manter o bom desempenho atual"},
				},
			},
			"Maria": {
				Stats: vendors.Statistics{
					TotalCalls: 1,
					MeanScore:  4.0,
					Grades:     map[string]int{"D": 1},
				},
				Insights: vendors.Insights{
					Vendor:           "Maria",
					PerformanceLevel: "Precisa Melhorar",
					OverallScore:     4.0,
					TotalCalls:       1,
				},
			},
		},
		VendorOrder:  []string{"João", "Maria"},
		TeamStats:    vendors.TeamStatistics{MeanScore: 6.5, BestVendor: "João", NeedsAttention: "Maria", TotalClosedSales: 1},
		TotalVendors: 2,
		TotalCalls:   2,
		ProcessedAt:  time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relatorio.xlsx")

	if err := NewGenerator().Generate(sampleTeamReport(), path); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open generated report: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"Resumo": false, "Ranking": false, "João": false, "Maria": false, "Recomendações": false}
	for _, s := range sheets {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing sheet %q (got %v)", name, sheets)
		}
	}

	// Ranking sorts by mean score descending.
	if got, _ := f.GetCellValue("Ranking", "B2"); got != "João" {
		t.Errorf("ranking first vendor = %q, want João", got)
	}
	if got, _ := f.GetCellValue("Ranking", "B3"); got != "Maria" {
		t.Errorf("ranking second vendor = %q, want Maria", got)
	}

	// Call detail row on the vendor sheet.
	found := false
	rows, err := f.GetRows("João")
	if err != nil {
		t.Fatalf("read vendor sheet: %v", err)
	}
	for _, row := range rows {
		for _, cell := range row {
			if cell == "ligacao1.wav" {
				found = true
			}
		}
	}
	if !found {
		t.Error("vendor sheet missing per-call row for ligacao1.wav")
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		name   string
		vendor string
		want   string
	}{
		{"plain", "João", "João"},
		{"strips invalid chars", "Ana/Paula?", "AnaPaula"},
		{"empty becomes sentinel", "  ", insight.UnknownVendor},
		{"truncates long names", "Maximiliano Alexandre dos Santos Oliveira", "Maximiliano Alexandre dos Santo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sheetName(tt.vendor)
			if got != tt.want {
				t.Errorf("sheetName(%q) = %q, want %q", tt.vendor, got, tt.want)
			}
			if n := len([]rune(got)); n > 31 {
				t.Errorf("sheet name %q is %d runes", got, n)
			}
		})
	}
}

func TestLevelAdvice(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"Precisa Melhorar", "Prioridade alta para treinamento."},
		{"Regular", "Acompanhamento próximo e treinamento específico."},
		{"Bom", "Manter performance e trabalhar pontos específicos."},
		{"Excelente", "Excelente performance, pode ser mentor para outros."},
	}
	for _, tt := range tests {
		if got := levelAdvice(tt.level); got != tt.want {
			t.Errorf("levelAdvice(%q) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
