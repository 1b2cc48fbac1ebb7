package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andreminchillo/analiticys2/internal/insight"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"sentimento_geral": "positivo"}`,
			want:  `{"sentimento_geral": "positivo"}`,
		},
		{
			name:  "fenced json block",
			input: "```json\n{\"nota_vendedor\": 8}\n```",
			want:  `{"nota_vendedor": 8}`,
		},
		{
			name:  "prose around object",
			input: "Aqui está a análise:\n{\"resultado_conversa\": \"venda_fechada\"}\nEspero que ajude.",
			want:  `{"resultado_conversa": "venda_fechada"}`,
		},
		{
			name:  "nested braces",
			input: `{"a": {"b": 1}, "c": 2} trailing`,
			want:  `{"a": {"b": 1}, "c": 2}`,
		},
		{
			name:  "unbalanced object",
			input: `{"a": 1`,
			want:  "",
		},
		{
			name:  "no object",
			input: "nenhuma análise disponível",
			want:  "",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.want {
				t.Errorf("extractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanSpeakerName(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"plain name", "João", "João"},
		{"name with punctuation", "  Maria. ", "Maria"},
		{"uppercase reply", "CARLOS", "Carlos"},
		{"not identified sentinel", "NÃO_IDENTIFICADO", ""},
		{"sentinel inside sentence", "Resposta: NÃO_IDENTIFICADO", ""},
		{"too short after cleanup", "J2", ""},
		{"digits only", "123", ""},
		{"empty reply", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanSpeakerName(tt.reply); got != tt.want {
				t.Errorf("cleanSpeakerName(%q) = %q, want %q", tt.reply, got, tt.want)
			}
		})
	}
}

// chatReply wraps content in the gateway's completion envelope.
func chatReply(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func newTestAnalyzer(url string) *Analyzer {
	a := NewAnalyzer(url, "test-key", "test-model")
	return a
}

func TestAnalyzeFullTier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write(chatReply(t, `{"sentimento_geral": "positivo", "nota_vendedor": 8.5, "resultado_conversa": "venda_fechada"}`))
	}))
	defer srv.Close()

	rec := newTestAnalyzer(srv.URL).Analyze(context.Background(), "transcrição de teste", "João", "call1.wav")

	if rec.Failed() {
		t.Fatalf("unexpected error marker: %v", rec[insight.FieldError])
	}
	if got := rec.Category(insight.FieldSentiment); got != "positivo" {
		t.Errorf("sentiment = %q", got)
	}
	if got := rec.Float(insight.FieldVendorScore); got != 8.5 {
		t.Errorf("score = %v", got)
	}
	if got := rec.Vendor(); got != "João" {
		t.Errorf("vendor = %q", got)
	}
	if got := rec.SourceFile(); got != "call1.wav" {
		t.Errorf("source file = %q", got)
	}
	if _, ok := rec["tipo_analise"]; ok {
		t.Error("full analysis should not be marked simplificada")
	}
}

func TestAnalyzeFallbackTier(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			// Full analysis returns prose without a JSON object.
			w.Write(chatReply(t, "não consegui gerar a análise completa"))
			return
		}
		w.Write(chatReply(t, `{"sentimento_geral": "neutro", "nota_vendedor": 5}`))
	}))
	defer srv.Close()

	rec := newTestAnalyzer(srv.URL).Analyze(context.Background(), "transcrição de teste", "", "call2.wav")

	if rec.Failed() {
		t.Fatalf("unexpected error marker: %v", rec[insight.FieldError])
	}
	if got := rec.Str("tipo_analise"); got != "simplificada" {
		t.Errorf("tipo_analise = %q, want simplificada", got)
	}
	if got := rec.Vendor(); got != insight.UnknownVendor {
		t.Errorf("vendor = %q, want sentinel", got)
	}
}

func TestAnalyzeDefaultTier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	rec := newTestAnalyzer(srv.URL).Analyze(context.Background(), "transcrição de teste", "Maria", "call3.wav")

	if !rec.Failed() {
		t.Fatal("expected error marker on default record")
	}
	if got := rec.Category(insight.FieldSentiment); got != "indefinido" {
		t.Errorf("sentiment = %q, want indefinido", got)
	}
	if got := rec.Float(insight.FieldVendorScore); got != 0 {
		t.Errorf("score = %v, want 0", got)
	}
	if got := rec.Str(insight.FieldGrade); got != "D" {
		t.Errorf("grade = %q, want D", got)
	}
	if got := rec.Vendor(); got != "Maria" {
		t.Errorf("vendor = %q, provenance should survive failure", got)
	}
}

func TestIdentifySpeaker(t *testing.T) {
	reply := "João"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply(t, reply))
	}))
	defer srv.Close()

	a := newTestAnalyzer(srv.URL)

	if got := a.IdentifySpeaker(context.Background(), "Aqui é o João da Vivo"); got != "João" {
		t.Errorf("IdentifySpeaker() = %q, want João", got)
	}

	reply = "NÃO_IDENTIFICADO"
	if got := a.IdentifySpeaker(context.Background(), "alô quem fala"); got != "" {
		t.Errorf("IdentifySpeaker() = %q, want empty on sentinel", got)
	}
}
