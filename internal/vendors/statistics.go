package vendors

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/andreminchillo/analiticys2/internal/insight"
	"github.com/andreminchillo/analiticys2/internal/scoring"
)

// ItemCount is one entry of a "most common items" rollup.
type ItemCount struct {
	Item    string  `json:"item"`
	Count   int     `json:"frequencia"`
	Percent float64 `json:"percentual"`
}

// Statistics aggregates one vendor's calls.
type Statistics struct {
	TotalCalls            int            `json:"total_conversas"`
	MeanScore             float64        `json:"nota_media"`
	MedianScore           float64        `json:"nota_mediana"`
	BestScore             float64        `json:"melhor_nota"`
	WorstScore            float64        `json:"pior_nota"`
	PositiveSentiments    int            `json:"sentimentos_positivos"`
	PositiveSentimentRate float64        `json:"percentual_sentimentos_positivos"`
	ClosedSales           int            `json:"vendas_fechadas"`
	FollowUps             int            `json:"follow_ups_agendados"`
	LostCustomers         int            `json:"clientes_perdidos"`
	ConversionRate        float64        `json:"taxa_conversao"`
	Grades                map[string]int `json:"classificacoes"`
	PercentAB             float64        `json:"percentual_a_b"`
	CommonObjections      []ItemCount    `json:"objecoes_mais_comuns"`
	TopStrengths          []ItemCount    `json:"pontos_fortes_principais"`
	ImprovementAreas      []ItemCount    `json:"areas_melhoria_principais"`
	TopRecommendations    []ItemCount    `json:"recomendacoes_principais"`
	TopProducts           []ItemCount    `json:"produtos_mais_vendidos"`
	ComputedAt            time.Time      `json:"timestamp_calculo"`
}

// ComputeStatistics aggregates a vendor's calls. An empty group yields the
// zero value, never an error. Scores of zero (failed analyses) are excluded
// from the score aggregates; grade and outcome counts still include them.
func ComputeStatistics(calls []scoring.ClassifiedCall) Statistics {
	if len(calls) == 0 {
		return Statistics{}
	}

	var scores []float64
	grades := map[string]int{"A": 0, "B": 0, "C": 0, "D": 0}
	stats := Statistics{TotalCalls: len(calls)}

	var objections, strengths, improvements, recommendations, products []string

	for _, call := range calls {
		rec := call.Insight

		if nota := rec.Float(insight.FieldVendorScore); nota > 0 {
			scores = append(scores, nota)
		}

		if rec.Category(insight.FieldSentiment) == insight.SentimentPositive {
			stats.PositiveSentiments++
		}

		outcome := rec.Category(insight.FieldOutcome)
		switch {
		case strings.Contains(outcome, "venda_fechada"):
			stats.ClosedSales++
		case strings.Contains(outcome, "follow_up"):
			stats.FollowUps++
		case strings.Contains(outcome, "perdido"):
			stats.LostCustomers++
		}

		grade := strings.ToUpper(rec.Str(insight.FieldGrade))
		if _, ok := grades[grade]; !ok {
			grade = "D"
		}
		grades[grade]++

		objections = append(objections, rec.List(insight.FieldObjections)...)
		strengths = append(strengths, rec.List(insight.FieldStrengths)...)
		improvements = append(improvements, rec.List(insight.FieldImprovements)...)
		recommendations = append(recommendations, rec.List(insight.FieldRecommendations)...)
		products = append(products, rec.List(insight.FieldProducts)...)
	}

	total := float64(len(calls))
	stats.MeanScore = round1(mean(scores))
	stats.MedianScore = round1(median(scores))
	stats.BestScore = maxOf(scores)
	stats.WorstScore = minOf(scores)
	stats.PositiveSentimentRate = round1(float64(stats.PositiveSentiments) / total * 100)
	stats.ConversionRate = round1(float64(stats.ClosedSales) / total * 100)
	stats.Grades = grades
	stats.PercentAB = round1(float64(grades["A"]+grades["B"]) / total * 100)
	stats.CommonObjections = mostCommonItems(objections, 5)
	stats.TopStrengths = mostCommonItems(strengths, 5)
	stats.ImprovementAreas = mostCommonItems(improvements, 5)
	stats.TopRecommendations = mostCommonItems(recommendations, 5)
	stats.TopProducts = mostCommonItems(products, 5)
	stats.ComputedAt = time.Now()
	return stats
}

// mostCommonItems counts trimmed, lowercased occurrences, orders by
// descending frequency with first-seen breaking ties, and reports the top n
// in title case with percentage of all mentions in the field.
func mostCommonItems(items []string, n int) []ItemCount {
	if len(items) == 0 {
		return nil
	}

	counts := map[string]int{}
	firstSeen := map[string]int{}
	var order []string
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, ok := counts[key]; !ok {
			firstSeen[key] = len(order)
			order = append(order, key)
		}
		counts[key]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	var out []ItemCount
	for i := 0; i < len(order) && i < n; i++ {
		key := order[i]
		out = append(out, ItemCount{
			Item:    titleCase(key),
			Count:   counts[key],
			Percent: round1(float64(counts[key]) / float64(len(items)) * 100),
		})
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func maxOf(vals []float64) float64 {
	out := 0.0
	for i, v := range vals {
		if i == 0 || v > out {
			out = v
		}
	}
	return out
}

func minOf(vals []float64) float64 {
	out := 0.0
	for i, v := range vals {
		if i == 0 || v < out {
			out = v
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
