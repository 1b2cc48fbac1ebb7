package vendors

import (
	"testing"

	"github.com/andreminchillo/analiticys2/internal/insight"
	"github.com/andreminchillo/analiticys2/internal/scoring"
)

func callFor(vendor string, fields insight.Record) scoring.ClassifiedCall {
	rec := insight.Record{insight.FieldVendor: vendor}
	for k, v := range fields {
		rec[k] = v
	}
	return scoring.ClassifiedCall{Insight: rec}
}

func TestNormalizeVendorName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "joão", "João"},
		{"padded", " João ", "João"},
		{"uppercase", "JOÃO", "João"},
		{"two words", "maria silva", "Maria Silva"},
		{"empty is sentinel", "", insight.UnknownVendor},
		{"blank is sentinel", "   ", insight.UnknownVendor},
		{"not identified", "não identificado", insight.UnknownVendor},
		{"not informed any case", "NÃO INFORMADO", insight.UnknownVendor},
		{"unknown token", "Desconhecido", insight.UnknownVendor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeVendorName(tt.in); got != tt.want {
				t.Errorf("NormalizeVendorName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGroupByVendorIsPartition(t *testing.T) {
	calls := []scoring.ClassifiedCall{
		callFor("joão", nil),
		callFor(" João ", nil),
		callFor("Maria", nil),
		callFor("JOÃO", nil),
		callFor("", nil),
	}
	groups, order := GroupByVendor(calls)

	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3 (João, Maria, sentinel)", len(groups))
	}
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total != len(calls) {
		t.Errorf("partition lost calls: %d grouped of %d", total, len(calls))
	}
	if len(groups["João"]) != 3 {
		t.Errorf("João group = %d calls, want 3", len(groups["João"]))
	}
	if len(groups[insight.UnknownVendor]) != 1 {
		t.Errorf("sentinel group = %d calls, want 1", len(groups[insight.UnknownVendor]))
	}
	wantOrder := []string{"João", "Maria", insight.UnknownVendor}
	for i, name := range wantOrder {
		if order[i] != name {
			t.Errorf("order[%d] = %q, want %q", i, order[i], name)
		}
	}
}

func TestProcessBuildsFullTree(t *testing.T) {
	calls := []scoring.ClassifiedCall{
		callFor("Maria", insight.Record{insight.FieldVendorScore: 8.0}),
		callFor("Maria", insight.Record{insight.FieldVendorScore: 6.0}),
		callFor("João", insight.Record{insight.FieldVendorScore: 4.0}),
	}
	team := Process(calls)

	if team.TotalVendors != 2 || team.TotalCalls != 3 {
		t.Errorf("totals = %d vendors / %d calls, want 2/3", team.TotalVendors, team.TotalCalls)
	}
	maria, ok := team.Vendors["Maria"]
	if !ok {
		t.Fatal("Maria report missing")
	}
	if len(maria.Calls) != 2 {
		t.Errorf("Maria carries %d calls, want 2", len(maria.Calls))
	}
	if maria.Stats.MeanScore != 7.0 {
		t.Errorf("Maria mean = %v, want 7.0", maria.Stats.MeanScore)
	}
	if maria.Insights.Vendor != "Maria" {
		t.Errorf("insights vendor = %q", maria.Insights.Vendor)
	}
	if team.TeamStats.BestVendor != "Maria" || team.TeamStats.NeedsAttention != "João" {
		t.Errorf("best/attention = %s/%s, want Maria/João",
			team.TeamStats.BestVendor, team.TeamStats.NeedsAttention)
	}
	if team.ProcessedAt.IsZero() {
		t.Error("processing timestamp not set")
	}
}

func TestProcessEmptyBatch(t *testing.T) {
	team := Process(nil)
	if team.TotalVendors != 0 || team.TotalCalls != 0 {
		t.Errorf("empty batch totals = %d/%d, want 0/0", team.TotalVendors, team.TotalCalls)
	}
	if team.TeamStats != (TeamStatistics{}) {
		t.Errorf("empty batch team stats = %+v, want zero", team.TeamStats)
	}
}
