// Package scoring turns one analyzed call into a deterministic letter grade,
// score breakdown, and per-call recommendations, and summarizes batches of
// classified calls. All rule tables live in an immutable Config built once,
// so evaluating concurrent batches needs no shared state.
package scoring

import "github.com/andreminchillo/analiticys2/internal/insight"

// Criterion is one scored dimension: a field of the insight record and its
// ordinal point table. Out-of-vocabulary values score 0 while the criterion's
// maximum still counts toward the denominator.
type Criterion struct {
	Key            string
	Points         map[string]int
	Max            int
	Recommendation string
}

// Config carries every rule table the scorer consults.
type Config struct {
	// Criteria order is fixed: critical points and recommendations are
	// generated in this order before any conditional notes.
	Criteria []Criterion

	// Vendor score factors (1-10 scale, independent of the letter grade).
	VendorBase        map[string]float64
	VendorBaseDefault float64
	OutcomeBonus      map[string]float64
	SentimentBonus    map[string]float64
}

// DefaultConfig returns the standard rule set.
func DefaultConfig() Config {
	criteria := []Criterion{
		{
			Key: insight.FieldSentiment,
			Points: map[string]int{
				insight.SentimentPositive: 3,
				insight.SentimentNeutral:  2,
				insight.SentimentNegative: 1,
			},
			Recommendation: "Melhorar abordagem e empatia com o cliente",
		},
		{
			Key: insight.FieldOutcome,
			Points: map[string]int{
				insight.OutcomeClosed:    4,
				insight.OutcomeFollowUp:  3,
				insight.OutcomeUndefined: 2,
				insight.OutcomeLost:      1,
			},
			Recommendation: "Trabalhar técnicas de fechamento e follow-up",
		},
		{
			Key: insight.FieldInterest,
			Points: map[string]int{
				"alto":  3,
				"medio": 2,
				"baixo": 1,
			},
			Recommendation: "Desenvolver melhor descoberta de necessidades",
		},
		{
			Key: insight.FieldSatisfaction,
			Points: map[string]int{
				"alta":  3,
				"media": 2,
				"baixa": 1,
			},
			Recommendation: "Focar em atendimento e resolução de problemas",
		},
		{
			Key: insight.FieldPerformance,
			Points: map[string]int{
				"excelente": 4,
				"boa":       3,
				"regular":   2,
				"ruim":      1,
			},
			Recommendation: "Treinamento geral em técnicas de vendas",
		},
	}
	for i := range criteria {
		criteria[i].Max = maxPoints(criteria[i].Points)
	}

	return Config{
		Criteria: criteria,
		VendorBase: map[string]float64{
			"excelente": 10,
			"boa":       7.5,
			"regular":   5,
			"ruim":      2.5,
		},
		VendorBaseDefault: 5,
		OutcomeBonus: map[string]float64{
			insight.OutcomeClosed:    3,
			insight.OutcomeFollowUp:  2,
			insight.OutcomeUndefined: 1,
			insight.OutcomeLost:      0,
		},
		SentimentBonus: map[string]float64{
			insight.SentimentPositive: 2,
			insight.SentimentNeutral:  1,
			insight.SentimentNegative: 0,
		},
	}
}

func maxPoints(points map[string]int) int {
	max := 0
	for _, p := range points {
		if p > max {
			max = p
		}
	}
	return max
}
