package scoring

import (
	"fmt"
	"sort"
	"time"
)

// CallRef points at one call inside a batch summary.
type CallRef struct {
	File   string  `json:"arquivo"`
	Vendor string  `json:"vendedor"`
	Score  float64 `json:"pontuacao"`
	Grade  string  `json:"classificacao"`
}

// Summary is the cross-call view of one classified batch.
type Summary struct {
	TotalCalls             int            `json:"total_ligacoes"`
	Grades                 map[string]int `json:"distribuicao_classificacoes"`
	PercentAB              float64        `json:"percentual_a_b"`
	PercentCD              float64        `json:"percentual_c_d"`
	MeanPercentage         float64        `json:"pontuacao_media"`
	MeanVendorScore        float64        `json:"nota_media_vendedores"`
	BestCall               CallRef        `json:"melhor_ligacao"`
	WorstCall              CallRef        `json:"pior_ligacao"`
	CommonCriticalPoints   []string       `json:"pontos_criticos_comuns"`
	GeneralRecommendations []string       `json:"recomendacoes_gerais"`
	GeneratedAt            time.Time      `json:"timestamp_resumo"`
}

// Summarize rolls a classified batch up into grade distribution, averages,
// best/worst call (first encountered wins ties), the five most frequent
// critical points, and distribution-driven general recommendations.
func (s *Scorer) Summarize(calls []ClassifiedCall) Summary {
	if len(calls) == 0 {
		return Summary{}
	}

	grades := map[string]int{"A": 0, "B": 0, "C": 0, "D": 0}
	totalPct, totalVendor := 0.0, 0.0
	for _, call := range calls {
		g := call.Classification.Grade
		if _, ok := grades[g]; !ok {
			g = "D"
		}
		grades[g]++
		totalPct += call.Classification.Percentage
		totalVendor += call.Classification.VendorScore
	}

	n := float64(len(calls))
	return Summary{
		TotalCalls:             len(calls),
		Grades:                 grades,
		PercentAB:              round1(float64(grades["A"]+grades["B"]) / n * 100),
		PercentCD:              round1(float64(grades["C"]+grades["D"]) / n * 100),
		MeanPercentage:         round1(totalPct / n),
		MeanVendorScore:        round1(totalVendor / n),
		BestCall:               bestCall(calls),
		WorstCall:              worstCall(calls),
		CommonCriticalPoints:   commonCriticalPoints(calls),
		GeneralRecommendations: generalRecommendations(grades, len(calls)),
		GeneratedAt:            time.Now(),
	}
}

func callRef(call ClassifiedCall) CallRef {
	file := call.Insight.SourceFile()
	if file == "" {
		file = "N/A"
	}
	return CallRef{
		File:   file,
		Vendor: call.Insight.Vendor(),
		Score:  call.Classification.Percentage,
		Grade:  call.Classification.Grade,
	}
}

func bestCall(calls []ClassifiedCall) CallRef {
	var best CallRef
	bestScore := 0.0
	for _, call := range calls {
		if call.Classification.Percentage > bestScore {
			bestScore = call.Classification.Percentage
			best = callRef(call)
		}
	}
	return best
}

func worstCall(calls []ClassifiedCall) CallRef {
	var worst CallRef
	worstScore := 100.0
	for _, call := range calls {
		if call.Classification.Percentage < worstScore {
			worstScore = call.Classification.Percentage
			worst = callRef(call)
		}
	}
	return worst
}

// commonCriticalPoints returns the five most frequent critical points across
// the batch, ties resolved by first appearance.
func commonCriticalPoints(calls []ClassifiedCall) []string {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	var order []string
	for _, call := range calls {
		for _, p := range call.Classification.CriticalPoints {
			if _, ok := counts[p]; !ok {
				firstSeen[p] = len(order)
				order = append(order, p)
			}
			counts[p]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	var out []string
	for i := 0; i < len(order) && i < 5; i++ {
		out = append(out, fmt.Sprintf("%s (%d ocorrências)", order[i], counts[order[i]]))
	}
	return out
}

func generalRecommendations(grades map[string]int, total int) []string {
	percentA := float64(grades["A"]) / float64(total) * 100
	percentD := float64(grades["D"]) / float64(total) * 100
	percentAB := float64(grades["A"]+grades["B"]) / float64(total) * 100

	var recs []string
	if percentD > 30 {
		recs = append(recs, "Urgente: Mais de 30% das ligações precisam de melhoria significativa")
	}
	if percentAB < 50 {
		recs = append(recs, "Foco em treinamento geral da equipe - menos de 50% das ligações são boas")
	}
	if percentA < 20 {
		recs = append(recs, "Desenvolver práticas de excelência - poucas ligações excelentes")
	}
	if percentA > 40 {
		recs = append(recs, "Equipe performando bem - identificar e replicar boas práticas")
	}
	if len(recs) == 0 {
		recs = append(recs, "Performance equilibrada - manter padrão atual")
	}
	return recs
}
