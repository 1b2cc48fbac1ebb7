package vendors

import "time"

// Insights is the qualitative synthesis over one vendor's statistics.
type Insights struct {
	Vendor                string    `json:"vendedor"`
	PerformanceLevel      string    `json:"nivel_performance"`
	OverallScore          float64   `json:"nota_geral"`
	TotalCalls            int       `json:"total_ligacoes"`
	TopStrengths          []string  `json:"pontos_fortes_principais"`
	ImprovementAreas      []string  `json:"areas_melhoria_principais"`
	TrainingPriorities    []string  `json:"prioridades_treinamento"`
	ConversionRate        float64   `json:"taxa_conversao"`
	PositiveSentimentRate float64   `json:"taxa_sentimento_positivo"`
	QualityCallRate       float64   `json:"taxa_ligacoes_qualidade"`
	CommonObjections      []string  `json:"objecoes_mais_enfrentadas"`
	TopProducts           []string  `json:"produtos_mais_trabalhados"`
	MainRecommendation    string    `json:"recomendacao_principal"`
	NextSteps             []string  `json:"proximos_passos"`
	GeneratedAt           time.Time `json:"timestamp_insights"`
}

// GenerateInsights derives the performance level, training priorities, and
// recommendations for one vendor from its computed statistics.
func GenerateInsights(vendor string, stats Statistics) Insights {
	return Insights{
		Vendor:                vendor,
		PerformanceLevel:      performanceLevel(stats.MeanScore),
		OverallScore:          stats.MeanScore,
		TotalCalls:            stats.TotalCalls,
		TopStrengths:          itemNames(stats.TopStrengths, 3),
		ImprovementAreas:      itemNames(stats.ImprovementAreas, 3),
		TrainingPriorities:    trainingPriorities(stats),
		ConversionRate:        stats.ConversionRate,
		PositiveSentimentRate: stats.PositiveSentimentRate,
		QualityCallRate:       stats.PercentAB,
		CommonObjections:      itemNames(stats.CommonObjections, 3),
		TopProducts:           itemNames(stats.TopProducts, 3),
		MainRecommendation:    mainRecommendation(stats),
		NextSteps:             nextSteps(stats),
		GeneratedAt:           time.Now(),
	}
}

func performanceLevel(meanScore float64) string {
	switch {
	case meanScore >= 8:
		return "Excelente"
	case meanScore >= 6:
		return "Bom"
	case meanScore >= 4:
		return "Regular"
	default:
		return "Precisa Melhorar"
	}
}

// trainingPriorities accumulates every applicable priority; no cap.
func trainingPriorities(stats Statistics) []string {
	var priorities []string
	if stats.ConversionRate < 20 {
		priorities = append(priorities, "Técnicas de fechamento")
	}
	if stats.PositiveSentimentRate < 60 {
		priorities = append(priorities, "Relacionamento com cliente")
	}
	if stats.PercentAB < 50 {
		priorities = append(priorities, "Qualidade geral das ligações")
	}
	return priorities
}

// mainRecommendation picks the first matching rule in fixed priority order.
func mainRecommendation(stats Statistics) string {
	switch {
	case stats.MeanScore < 5:
		return "Foco em treinamento básico de vendas e atendimento ao cliente"
	case stats.ConversionRate < 15:
		return "Desenvolver técnicas de fechamento e identificação de oportunidades"
	case stats.PositiveSentimentRate < 50:
		return "Melhorar relacionamento e comunicação com clientes"
	default:
		return "Manter bom desempenho e focar em casos específicos de melhoria"
	}
}

func nextSteps(stats Statistics) []string {
	var steps []string
	if stats.ConversionRate < 20 {
		steps = append(steps, "Participar de treinamento de técnicas de fechamento")
	}
	if stats.PositiveSentimentRate < 60 {
		steps = append(steps, "Praticar escuta ativa e empatia com clientes")
	}
	if len(stats.ImprovementAreas) > 0 {
		steps = append(steps, "Trabalhar especificamente em: "+stats.ImprovementAreas[0].Item)
	}
	if stats.MeanScore >= 7 {
		steps = append(steps, "Compartilhar boas práticas com a equipe")
	}
	if len(steps) == 0 {
		steps = append(steps, "Manter o bom desempenho atual")
	}
	if len(steps) > 4 {
		steps = steps[:4]
	}
	return steps
}

func itemNames(items []ItemCount, n int) []string {
	var out []string
	for i := 0; i < len(items) && i < n; i++ {
		out = append(out, items[i].Item)
	}
	return out
}
