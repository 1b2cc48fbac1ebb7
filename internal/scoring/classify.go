package scoring

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andreminchillo/analiticys2/internal/insight"
	"github.com/andreminchillo/analiticys2/internal/logger"
)

const (
	maxCriticalPoints  = 5
	maxRecommendations = 4
)

// CriterionScore is the score of one criterion for one call.
type CriterionScore struct {
	Value  string `json:"valor"`
	Points int    `json:"pontos"`
	Max    int    `json:"maximo"`
}

// Classification is the deterministic grade derived from one insight record.
type Classification struct {
	Grade           string                    `json:"classificacao"`
	GradeLabel      string                    `json:"classificacao_descricao"`
	TotalScore      int                       `json:"pontuacao_total"`
	MaxScore        int                       `json:"pontuacao_maxima"`
	Percentage      float64                   `json:"pontuacao_percentual"`
	VendorScore     float64                   `json:"nota_vendedor"`
	Breakdown       map[string]CriterionScore `json:"pontuacao_detalhada"`
	CriticalPoints  []string                  `json:"pontos_criticos"`
	Recommendations []string                  `json:"recomendacoes_classificacao"`
	ClassifiedAt    time.Time                 `json:"timestamp_classificacao"`
}

// ClassifiedCall pairs an insight record with its classification.
type ClassifiedCall struct {
	Insight        insight.Record `json:"analise"`
	Classification Classification `json:"classificacao"`
}

// Scorer evaluates insight records against an immutable rule config.
type Scorer struct {
	cfg Config
	log *logrus.Entry
}

func New(cfg Config) *Scorer {
	return &Scorer{cfg: cfg, log: logger.Stage("scoring")}
}

// Classify grades one call. It never fails: unknown or missing values score
// zero and still count toward the denominator.
func (s *Scorer) Classify(rec insight.Record) Classification {
	breakdown := make(map[string]CriterionScore, len(s.cfg.Criteria))
	total, max := 0, 0
	for _, c := range s.cfg.Criteria {
		value := rec.Category(c.Key)
		pts := c.Points[value]
		breakdown[c.Key] = CriterionScore{Value: value, Points: pts, Max: c.Max}
		total += pts
		max += c.Max
	}

	pct := 0.0
	if max > 0 {
		pct = round1(float64(total) / float64(max) * 100)
	}
	grade, label := gradeFor(pct)

	return Classification{
		Grade:           grade,
		GradeLabel:      label,
		TotalScore:      total,
		MaxScore:        max,
		Percentage:      pct,
		VendorScore:     s.vendorScore(rec),
		Breakdown:       breakdown,
		CriticalPoints:  s.criticalPoints(rec, breakdown),
		Recommendations: s.recommendations(rec, breakdown),
		ClassifiedAt:    time.Now(),
	}
}

// ClassifyBatch grades every record in input order.
func (s *Scorer) ClassifyBatch(recs []insight.Record) []ClassifiedCall {
	s.log.WithField("total", len(recs)).Info("classificando ligações")
	out := make([]ClassifiedCall, 0, len(recs))
	for _, rec := range recs {
		c := s.Classify(rec)
		s.log.WithFields(logrus.Fields{
			"arquivo":       rec.SourceFile(),
			"classificacao": c.Grade,
			"nota_vendedor": c.VendorScore,
		}).Debug("ligação classificada")
		out = append(out, ClassifiedCall{Insight: rec, Classification: c})
	}
	return out
}

func gradeFor(pct float64) (grade, label string) {
	switch {
	case pct >= 80:
		return "A", "Excelente"
	case pct >= 65:
		return "B", "Boa"
	case pct >= 50:
		return "C", "Regular"
	default:
		return "D", "Precisa Melhorar"
	}
}

// vendorScore computes the independent 1-10 seller score: a performance base
// plus outcome and sentiment bonuses, minus fixed penalties, clamped.
func (s *Scorer) vendorScore(rec insight.Record) float64 {
	base, ok := s.cfg.VendorBase[rec.Category(insight.FieldPerformance)]
	if !ok {
		base = s.cfg.VendorBaseDefault
	}
	bonus := s.cfg.OutcomeBonus[rec.Category(insight.FieldOutcome)] +
		s.cfg.SentimentBonus[rec.Category(insight.FieldSentiment)]

	penalties := 0.0
	if len(rec.List(insight.FieldMissedChances)) > 2 {
		penalties += 0.5
	}
	if len(rec.List(insight.FieldObjections)) > 3 {
		penalties += 0.5
	}
	if rec.Category(insight.FieldCallQuality) == insight.QualityPoor {
		penalties += 1
	}

	return clamp(round1(base+bonus-penalties), 1, 10)
}

func (s *Scorer) criticalPoints(rec insight.Record, breakdown map[string]CriterionScore) []string {
	var points []string
	for _, c := range s.cfg.Criteria {
		if sc := breakdown[c.Key]; sc.Points <= 1 {
			points = append(points, fmt.Sprintf("Baixa pontuação em %s: %s", c.Key, sc.Value))
		}
	}

	if rec.Category(insight.FieldOutcome) == insight.OutcomeLost {
		points = append(points, "Cliente perdido - analisar causas")
	}
	if rec.Category(insight.FieldSentiment) == insight.SentimentNegative {
		points = append(points, "Sentimento negativo do cliente")
	}
	if rec.Category(insight.FieldInterest) == "baixo" {
		points = append(points, "Baixo interesse do cliente")
	}
	if n := len(rec.List(insight.FieldMissedChances)); n > 2 {
		points = append(points, fmt.Sprintf("Múltiplas oportunidades perdidas (%d)", n))
	}
	if n := len(rec.List(insight.FieldObjections)); n > 2 {
		points = append(points, fmt.Sprintf("Múltiplas objeções do cliente (%d)", n))
	}

	return truncate(points, maxCriticalPoints)
}

func (s *Scorer) recommendations(rec insight.Record, breakdown map[string]CriterionScore) []string {
	var recs []string
	for _, c := range s.cfg.Criteria {
		if breakdown[c.Key].Points <= 1 {
			recs = append(recs, c.Recommendation)
		}
	}

	if rec.Str(insight.FieldCriticalMoment) != "" {
		recs = append(recs, "Analisar momento crítico identificado na conversa")
	}
	if len(rec.List(insight.FieldMissedChances)) > 0 {
		recs = append(recs, "Revisar oportunidades perdidas para aprendizado")
	}
	if strengths := rec.List(insight.FieldStrengths); len(strengths) > 0 {
		recs = append(recs, "Manter pontos fortes: "+strings.Join(truncate(strengths, 2), ", "))
	}

	return truncate(recs, maxRecommendations)
}

func truncate(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
