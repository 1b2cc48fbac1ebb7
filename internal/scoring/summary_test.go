package scoring

import (
	"reflect"
	"testing"

	"github.com/andreminchillo/analiticys2/internal/insight"
)

func classifiedCall(file string, pct float64, grade string, vendorScore float64, critical ...string) ClassifiedCall {
	return ClassifiedCall{
		Insight: insight.Record{insight.FieldSourceFile: file},
		Classification: Classification{
			Grade:          grade,
			Percentage:     pct,
			VendorScore:    vendorScore,
			CriticalPoints: critical,
		},
	}
}

func TestSummarizeEmptyBatch(t *testing.T) {
	got := New(DefaultConfig()).Summarize(nil)
	if !reflect.DeepEqual(got, Summary{}) {
		t.Errorf("empty batch should yield zero summary, got %+v", got)
	}
}

func TestSummarizeDistribution(t *testing.T) {
	calls := []ClassifiedCall{
		classifiedCall("a.mp3", 100, "A", 10),
		classifiedCall("b.mp3", 70, "B", 7),
		classifiedCall("c.mp3", 52.9, "C", 5),
		classifiedCall("d.mp3", 29.4, "D", 3),
	}
	sum := New(DefaultConfig()).Summarize(calls)

	if sum.TotalCalls != 4 {
		t.Errorf("total = %d, want 4", sum.TotalCalls)
	}
	wantGrades := map[string]int{"A": 1, "B": 1, "C": 1, "D": 1}
	if !reflect.DeepEqual(sum.Grades, wantGrades) {
		t.Errorf("grades = %v, want %v", sum.Grades, wantGrades)
	}
	if sum.PercentAB != 50 || sum.PercentCD != 50 {
		t.Errorf("percentAB/CD = %v/%v, want 50/50", sum.PercentAB, sum.PercentCD)
	}
	if sum.MeanPercentage != 63.1 {
		t.Errorf("mean percentage = %v, want 63.1", sum.MeanPercentage)
	}
	if sum.MeanVendorScore != 6.3 {
		t.Errorf("mean vendor score = %v, want 6.3", sum.MeanVendorScore)
	}
	if sum.BestCall.File != "a.mp3" || sum.WorstCall.File != "d.mp3" {
		t.Errorf("best/worst = %s/%s, want a.mp3/d.mp3", sum.BestCall.File, sum.WorstCall.File)
	}
}

func TestSummarizeTiesKeepFirstEncountered(t *testing.T) {
	calls := []ClassifiedCall{
		classifiedCall("first.mp3", 88.2, "A", 9),
		classifiedCall("second.mp3", 88.2, "A", 9),
		classifiedCall("low1.mp3", 29.4, "D", 2),
		classifiedCall("low2.mp3", 29.4, "D", 2),
	}
	sum := New(DefaultConfig()).Summarize(calls)

	if sum.BestCall.File != "first.mp3" {
		t.Errorf("best call = %s, want first.mp3", sum.BestCall.File)
	}
	if sum.WorstCall.File != "low1.mp3" {
		t.Errorf("worst call = %s, want low1.mp3", sum.WorstCall.File)
	}
}

func TestCommonCriticalPoints(t *testing.T) {
	calls := []ClassifiedCall{
		classifiedCall("a.mp3", 50, "C", 5, "p1", "p2"),
		classifiedCall("b.mp3", 50, "C", 5, "p2", "p3"),
		classifiedCall("c.mp3", 50, "C", 5, "p2", "p4", "p5", "p6", "p7"),
	}
	got := commonCriticalPoints(calls)

	if len(got) != 5 {
		t.Fatalf("common points = %d, want 5", len(got))
	}
	if got[0] != "p2 (3 ocorrências)" {
		t.Errorf("most common = %q, want p2 with 3", got[0])
	}
	// p1 ties with p3..p7 at one occurrence; first seen wins the next slot.
	if got[1] != "p1 (1 ocorrências)" {
		t.Errorf("second = %q, want p1 first-seen", got[1])
	}
}

func TestGeneralRecommendationFlags(t *testing.T) {
	tests := []struct {
		name   string
		grades map[string]int
		total  int
		want   []string
	}{
		{
			"many D fires urgent and team training and low excellence",
			map[string]int{"A": 0, "B": 1, "C": 1, "D": 2}, 4,
			[]string{
				"Urgente: Mais de 30% das ligações precisam de melhoria significativa",
				"Foco em treinamento geral da equipe - menos de 50% das ligações são boas",
				"Desenvolver práticas de excelência - poucas ligações excelentes",
			},
		},
		{
			"strong A fires replicate",
			map[string]int{"A": 3, "B": 1, "C": 0, "D": 0}, 4,
			[]string{"Equipe performando bem - identificar e replicar boas práticas"},
		},
		{
			"balanced fallback",
			map[string]int{"A": 1, "B": 2, "C": 1, "D": 0}, 4,
			[]string{"Performance equilibrada - manter padrão atual"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generalRecommendations(tt.grades, tt.total)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
