// Package analysis is the LLM-backed insight extractor. It turns transcript
// text into insight records, degrading through a reduced schema down to an
// all-defaults record instead of ever failing the batch.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/andreminchillo/analiticys2/internal/insight"
	"github.com/andreminchillo/analiticys2/internal/logger"
	"github.com/andreminchillo/analiticys2/internal/transcription"
)

type Analyzer struct {
	gatewayURL string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *logrus.Entry
}

func NewAnalyzer(gatewayURL, apiKey, model string) *Analyzer {
	return &Analyzer{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        logger.Stage("analysis"),
	}
}

var nonNameChars = regexp.MustCompile(`[^a-zA-ZÀ-ÿ]`)

// IdentifySpeaker extracts the salesperson's first name from the call
// opening. Best effort: returns "" when nothing name-shaped comes back.
func (a *Analyzer) IdentifySpeaker(ctx context.Context, text string) string {
	opening := truncateRunes(text, 500)
	reply, err := a.chat(ctx, speakerSystemPrompt, speakerPrompt(opening), 0.1, 50)
	if err != nil {
		a.log.WithError(err).Warn("identificação de vendedor falhou")
		return ""
	}
	return cleanSpeakerName(reply)
}

func cleanSpeakerName(reply string) string {
	name := strings.TrimSpace(reply)
	if name == "" || strings.Contains(strings.ToUpper(name), "NÃO_IDENTIFICADO") {
		return ""
	}
	name = nonNameChars.ReplaceAllString(name, "")
	if len([]rune(name)) < 2 {
		return ""
	}
	return capitalize(name)
}

// Analyze extracts a full insight record from one transcript. It never
// returns an error: a failed or unparseable extraction degrades to the
// reduced schema, then to an all-defaults record with the error marker.
func (a *Analyzer) Analyze(ctx context.Context, text, vendor, sourceFile string) insight.Record {
	log := a.log.WithField("arquivo", sourceFile)

	rec, err := a.extract(ctx, analysisSystemPrompt, analysisPrompt(text))
	if err == nil {
		log.WithFields(logrus.Fields{
			"sentimento": rec.Str(insight.FieldSentiment),
			"nota":       rec.Float(insight.FieldVendorScore),
		}).Info("análise concluída")
		return rec.Stamp(vendor, sourceFile, a.model, len(text))
	}
	log.WithError(err).Warn("análise completa falhou, tentando análise simplificada")

	rec, err = a.extract(ctx, "", fallbackPrompt(truncateRunes(text, 2000)))
	if err == nil {
		rec["tipo_analise"] = "simplificada"
		return rec.Stamp(vendor, sourceFile, a.model, len(text))
	}
	log.WithError(err).Error("análise simplificada falhou, usando registro padrão")

	return defaultRecord(err).Stamp(vendor, sourceFile, a.model, len(text))
}

// AnalyzeBatch analyzes every transcript in order, resolving the speaker
// name per call.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, transcripts []transcription.Transcript) []insight.Record {
	a.log.WithField("total", len(transcripts)).Info("iniciando análise em lote")

	out := make([]insight.Record, 0, len(transcripts))
	for _, tr := range transcripts {
		vendor := a.IdentifySpeaker(ctx, tr.Text)
		out = append(out, a.Analyze(ctx, tr.Text, vendor, tr.SourceFile))
	}
	return out
}

func (a *Analyzer) extract(ctx context.Context, system, prompt string) (insight.Record, error) {
	reply, err := a.chat(ctx, system, prompt, 0.2, 2500)
	if err != nil {
		return nil, err
	}

	raw := extractJSON(reply)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in model reply")
	}

	var rec insight.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode model reply: %w", err)
	}
	return rec, nil
}

// defaultRecord is the last degradation tier: neutral values everywhere and
// an explicit error marker the aggregation stage can see.
func defaultRecord(cause error) insight.Record {
	return insight.Record{
		insight.FieldError:       fmt.Sprintf("Falha completa na análise: %v", cause),
		insight.FieldSentiment:   "indefinido",
		insight.FieldPerformance: "indefinido",
		insight.FieldVendorScore: 0,
		insight.FieldSummary:     "Não foi possível analisar esta conversa automaticamente",
		insight.FieldGrade:       "D",
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// chat calls the OpenAI-compatible gateway with retry on transient failures.
func (a *Analyzer) chat(ctx context.Context, system, user string, temperature float64, maxTokens int) (string, error) {
	if a.gatewayURL == "" || a.apiKey == "" {
		return "", fmt.Errorf("llm gateway not configured")
	}

	var messages []chatMessage
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	payload, _ := json.Marshal(chatRequest{
		Model:       a.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})

	var content string
	var lastErr error
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.gatewayURL, bytes.NewReader(payload))
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.httpClient.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("llm server error: %s", string(body))
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("llm client error %d: %s", resp.StatusCode, string(body))
			return backoff.Permanent(lastErr)
		}

		var parsed chatResponse
		if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Choices) == 0 {
			lastErr = fmt.Errorf("unexpected llm response: %s", string(body))
			return lastErr
		}
		content = parsed.Choices[0].Message.Content
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 45 * time.Second
	if err := backoff.Retry(op, bo); err != nil {
		return "", lastErr
	}
	return content, nil
}

// extractJSON finds the first balanced JSON object in a string, stripping
// common markdown fences first.
func extractJSON(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	for _, fence := range []string{"```json", "```yaml", "```text", "```", "`json", "`"} {
		s = strings.ReplaceAll(s, fence, "")
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[start : i+1])
			}
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}
