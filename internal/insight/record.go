// Package insight defines the loosely-typed record produced by the LLM
// analysis stage. The extractor is a probabilistic upstream, so the record is
// a plain map with typed accessors that default neutrally instead of a strict
// struct that fails to construct on a missing or extra key.
package insight

import (
	"strings"
	"time"
)

// Recognized keys of a full analysis record.
const (
	FieldSentiment       = "sentimento_geral"
	FieldSentimentScore  = "score_sentimento"
	FieldSatisfaction    = "satisfacao_cliente"
	FieldPerformance     = "performance_vendedor"
	FieldVendorScore     = "nota_vendedor"
	FieldProducts        = "produtos_mencionados"
	FieldObjections      = "objecoes_cliente"
	FieldTechniques      = "tecnicas_vendas_usadas"
	FieldStrengths       = "pontos_fortes"
	FieldImprovements    = "pontos_melhoria"
	FieldOutcome         = "resultado_conversa"
	FieldNextSteps       = "proximos_passos"
	FieldKeywords        = "palavras_chave"
	FieldDuration        = "duracao_estimada"
	FieldInterest        = "nivel_interesse_cliente"
	FieldSummary         = "resumo_executivo"
	FieldCriticalMoment  = "momento_critico"
	FieldMissedChances   = "oportunidades_perdidas"
	FieldCustomerProfile = "cliente_perfil"
	FieldPriceMentioned  = "valor_mencionado"
	FieldCompetitors     = "concorrentes_citados"
	FieldUrgency         = "urgencia_compra"
	FieldCallQuality     = "qualidade_ligacao"
	FieldRecommendations = "recomendacoes_especificas"
	FieldGrade           = "classificacao_ligacao"

	// Provenance metadata appended after analysis.
	FieldVendor           = "vendedor"
	FieldSourceFile       = "arquivo_origem"
	FieldAnalyzedAt       = "timestamp_analise"
	FieldModel            = "modelo_usado"
	FieldTranscriptLength = "tamanho_transcricao"
	FieldError            = "erro"
)

// Category tokens the upstream vocabulary documents. Out-of-vocabulary values
// are tolerated everywhere and score as the neutral case.
const (
	SentimentPositive = "positivo"
	SentimentNeutral  = "neutro"
	SentimentNegative = "negativo"

	OutcomeClosed    = "venda_fechada"
	OutcomeFollowUp  = "follow_up_agendado"
	OutcomeUndefined = "indefinido"
	OutcomeLost      = "cliente_perdido"

	QualityPoor = "ruim"

	// UnknownVendor is the sentinel identity for calls whose salesperson
	// could not be resolved.
	UnknownVendor = "Não identificado"
)

// Record is one analyzed call. Values are whatever the extractor returned;
// readers go through the typed accessors below.
type Record map[string]any

// Str returns the trimmed string value of key, or "" when the key is missing
// or holds a non-string value.
func (r Record) Str(key string) string {
	if r == nil {
		return ""
	}
	if s, ok := r[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// Category returns the lowercase form of a categorical field.
func (r Record) Category(key string) string {
	return strings.ToLower(r.Str(key))
}

// Float returns the numeric value of key, tolerating the types JSON decoding
// and hand-built records produce. Missing or non-numeric values yield 0.
func (r Record) Float(key string) float64 {
	if r == nil {
		return 0
	}
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

// List returns the string items of a list field. JSON decoding yields []any;
// non-string entries are skipped.
func (r Record) List(key string) []string {
	if r == nil {
		return nil
	}
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Vendor returns the salesperson name carried by the record, or the sentinel
// identity when absent.
func (r Record) Vendor() string {
	if v := r.Str(FieldVendor); v != "" {
		return v
	}
	return UnknownVendor
}

// SourceFile returns the originating audio filename, if known.
func (r Record) SourceFile() string {
	return r.Str(FieldSourceFile)
}

// Failed reports whether the record carries the analysis error marker.
func (r Record) Failed() bool {
	return r.Str(FieldError) != ""
}

// Stamp attaches provenance metadata to the record and returns it.
func (r Record) Stamp(vendor, sourceFile, model string, transcriptLen int) Record {
	if vendor == "" {
		vendor = UnknownVendor
	}
	if sourceFile == "" {
		sourceFile = "Não informado"
	}
	r[FieldVendor] = vendor
	r[FieldSourceFile] = sourceFile
	r[FieldAnalyzedAt] = time.Now().Format(time.RFC3339)
	if model != "" {
		r[FieldModel] = model
	}
	r[FieldTranscriptLength] = transcriptLen
	return r
}
