package vendors

import "github.com/andreminchillo/analiticys2/internal/insight"

// TeamStatistics rolls up every vendor's statistics.
type TeamStatistics struct {
	MeanScore             float64 `json:"nota_media_equipe"`
	MeanConversionRate    float64 `json:"taxa_conversao_media"`
	MeanPositiveSentiment float64 `json:"sentimento_positivo_medio"`
	BestVendor            string  `json:"melhor_vendedor"`
	NeedsAttention        string  `json:"vendedor_precisa_atencao"`
	TotalClosedSales      int     `json:"total_vendas_fechadas"`
	TotalFollowUps        int     `json:"total_follow_ups"`
	TotalLostCustomers    int     `json:"total_clientes_perdidos"`
}

// ComputeTeamStatistics averages per-vendor means (zero-score vendors are
// excluded from the score mean only), picks best and needs-attention vendors
// by strict comparison so ties keep the first found, and sums outcome totals.
func ComputeTeamStatistics(reports map[string]Report, order []string) TeamStatistics {
	if len(reports) == 0 {
		return TeamStatistics{}
	}

	var meanScores, conversionRates, positiveRates []float64
	team := TeamStatistics{
		BestVendor:     insight.UnknownVendor,
		NeedsAttention: insight.UnknownVendor,
	}

	bestScore, worstScore := 0.0, 10.0
	for _, name := range order {
		stats := reports[name].Stats

		if stats.MeanScore > 0 {
			meanScores = append(meanScores, stats.MeanScore)
		}
		conversionRates = append(conversionRates, stats.ConversionRate)
		positiveRates = append(positiveRates, stats.PositiveSentimentRate)

		if stats.MeanScore > bestScore {
			bestScore = stats.MeanScore
			team.BestVendor = name
		}
		if stats.MeanScore < worstScore {
			worstScore = stats.MeanScore
			team.NeedsAttention = name
		}

		team.TotalClosedSales += stats.ClosedSales
		team.TotalFollowUps += stats.FollowUps
		team.TotalLostCustomers += stats.LostCustomers
	}

	team.MeanScore = round1(mean(meanScores))
	team.MeanConversionRate = round1(mean(conversionRates))
	team.MeanPositiveSentiment = round1(mean(positiveRates))
	return team
}
