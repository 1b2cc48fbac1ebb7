// Package vendors groups classified calls by salesperson and aggregates
// per-vendor statistics, qualitative insights, and the team-wide rollup.
// Every operation is a pure function of its input batch.
package vendors

import (
	"strings"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/andreminchillo/analiticys2/internal/insight"
	"github.com/andreminchillo/analiticys2/internal/logger"
	"github.com/andreminchillo/analiticys2/internal/scoring"
)

// Report is everything derived for one vendor.
type Report struct {
	Calls    []scoring.ClassifiedCall `json:"conversas"`
	Stats    Statistics               `json:"estatisticas"`
	Insights Insights                 `json:"insights"`
}

// TeamReport is the output tree of the aggregation stage.
type TeamReport struct {
	Vendors      map[string]Report `json:"vendedores"`
	VendorOrder  []string          `json:"-"`
	TeamStats    TeamStatistics    `json:"estatisticas_equipe"`
	TotalVendors int               `json:"total_vendedores"`
	TotalCalls   int               `json:"total_conversas"`
	ProcessedAt  time.Time         `json:"timestamp_processamento"`
}

var unresolvedNames = map[string]struct{}{
	"não identificado": {},
	"não informado":    {},
	"desconhecido":     {},
}

// NormalizeVendorName trims and title-cases a salesperson name, collapsing
// empty and unresolved variants to the sentinel identity.
func NormalizeVendorName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return insight.UnknownVendor
	}
	if _, ok := unresolvedNames[strings.ToLower(trimmed)]; ok {
		return insight.UnknownVendor
	}
	return titleCase(trimmed)
}

// GroupByVendor partitions classified calls by normalized vendor identity.
// Input order is preserved within each group and no call is dropped; the
// returned name list follows first appearance.
func GroupByVendor(calls []scoring.ClassifiedCall) (map[string][]scoring.ClassifiedCall, []string) {
	groups := map[string][]scoring.ClassifiedCall{}
	var order []string
	for _, call := range calls {
		name := NormalizeVendorName(call.Insight.Vendor())
		if _, ok := groups[name]; !ok {
			order = append(order, name)
		}
		groups[name] = append(groups[name], call)
	}
	return groups, order
}

// Process runs the whole aggregation stage: grouping, per-vendor statistics
// and insights, and the team rollup.
func Process(calls []scoring.ClassifiedCall) TeamReport {
	log := logger.Stage("vendors")
	log.WithField("total_conversas", len(calls)).Info("agrupando conversas por vendedor")

	groups, order := GroupByVendor(calls)

	reports := make(map[string]Report, len(groups))
	for _, name := range order {
		group := groups[name]
		log.WithFields(logrus.Fields{
			"vendedor":  name,
			"conversas": len(group),
		}).Info("processando vendedor")

		stats := ComputeStatistics(group)
		reports[name] = Report{
			Calls:    group,
			Stats:    stats,
			Insights: GenerateInsights(name, stats),
		}
	}

	return TeamReport{
		Vendors:      reports,
		VendorOrder:  order,
		TeamStats:    ComputeTeamStatistics(reports, order),
		TotalVendors: len(reports),
		TotalCalls:   len(calls),
		ProcessedAt:  time.Now(),
	}
}

// titleCase lowercases each space-separated word and uppercases its first
// rune. Unicode-aware so accented names normalize consistently.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
