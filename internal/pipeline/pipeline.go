// Package pipeline runs the full analysis flow: transcribe the audio files,
// extract insights, classify each call and aggregate per vendor. Single-item
// failures are tolerated at every stage.
package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/andreminchillo/analiticys2/internal/insight"
	"github.com/andreminchillo/analiticys2/internal/logger"
	"github.com/andreminchillo/analiticys2/internal/scoring"
	"github.com/andreminchillo/analiticys2/internal/transcription"
	"github.com/andreminchillo/analiticys2/internal/vendors"
)

// Transcriber converts audio files into transcripts, dropping files that
// could not be transcribed.
type Transcriber interface {
	TranscribeAll(ctx context.Context, paths []string, language string) []transcription.Transcript
}

// Analyzer extracts one insight record per transcript.
type Analyzer interface {
	AnalyzeBatch(ctx context.Context, transcripts []transcription.Transcript) []insight.Record
}

type Pipeline struct {
	transcriber Transcriber
	analyzer    Analyzer
	scorer      *scoring.Scorer
	log         *logrus.Entry
}

// Result carries the aggregated report plus the stage counters the HTTP
// surface reports back to the caller.
type Result struct {
	Team           vendors.TeamReport
	Summary        scoring.Summary
	FilesReceived  int
	Transcribed    int
	Analyzed       int
	FailedAnalyses int
}

func New(transcriber Transcriber, analyzer Analyzer, scorer *scoring.Scorer) *Pipeline {
	return &Pipeline{
		transcriber: transcriber,
		analyzer:    analyzer,
		scorer:      scorer,
		log:         logger.Stage("pipeline"),
	}
}

// Run processes files end to end. It fails only when no file survives
// transcription; everything downstream degrades per item.
func (p *Pipeline) Run(ctx context.Context, files []string, language string) (*Result, error) {
	p.log.WithFields(logrus.Fields{
		"arquivos": len(files),
		"idioma":   language,
	}).Info("iniciando processamento")

	transcripts := p.transcriber.TranscribeAll(ctx, files, language)
	if len(transcripts) == 0 {
		return nil, fmt.Errorf("nenhum arquivo pôde ser transcrito")
	}

	records := p.analyzer.AnalyzeBatch(ctx, transcripts)

	failed := 0
	for _, rec := range records {
		if rec.Failed() {
			failed++
		}
	}

	classified := p.scorer.ClassifyBatch(records)
	team := vendors.Process(classified)
	summary := p.scorer.Summarize(classified)

	p.log.WithFields(logrus.Fields{
		"transcritos": len(transcripts),
		"analisados":  len(records),
		"falhas":      failed,
		"vendedores":  team.TotalVendors,
	}).Info("processamento concluído")

	return &Result{
		Team:           team,
		Summary:        summary,
		FilesReceived:  len(files),
		Transcribed:    len(transcripts),
		Analyzed:       len(records),
		FailedAnalyses: failed,
	}, nil
}
