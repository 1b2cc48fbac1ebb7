package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/andreminchillo/analiticys2/internal/analysis"
	"github.com/andreminchillo/analiticys2/internal/config"
	"github.com/andreminchillo/analiticys2/internal/logger"
	"github.com/andreminchillo/analiticys2/internal/pipeline"
	"github.com/andreminchillo/analiticys2/internal/report"
	"github.com/andreminchillo/analiticys2/internal/scoring"
	"github.com/andreminchillo/analiticys2/internal/transcription"
)

const maxUploadBytes = 500 << 20 // 500MB

var allowedExtensions = map[string]bool{
	".wav": true, ".mp3": true, ".m4a": true, ".flac": true, ".ogg": true, ".aac": true,
}

type app struct {
	cfg  config.Config
	pipe *pipeline.Pipeline
	gen  *report.Generator
	log  *logger.Logger
}

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "analiticys").Info("starting service")

	cfg := config.Load()

	transcriber := transcription.NewService(cfg.AssemblyAIURL, cfg.AssemblyAIKey, cfg.PollInterval, cfg.TranscribeCeiling)
	analyzer := analysis.NewAnalyzer(cfg.LLMGatewayURL, cfg.LLMAPIKey, cfg.LLMModel)
	scorer := scoring.New(scoring.DefaultConfig())

	a := &app{
		cfg:  cfg,
		pipe: pipeline.New(transcriber, analyzer, scorer),
		gen:  report.NewGenerator(),
		log:  log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", a.handleHealth)
	r.Post("/process", a.handleProcess)
	r.Get("/download/{reportID}", a.handleDownload)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Minute,
		WriteTimeout: 30 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.log.WithRequest(r).Info("health check")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (a *app) handleProcess(w http.ResponseWriter, r *http.Request) {
	reqLog := a.log.WithRequest(r).WithField("handler", "process")
	reqLog.Info("process request received")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		reqLog.WithError(err).Warn("invalid multipart form")
		writeJSON(w, http.StatusBadRequest, errorResponse("Nenhum arquivo enviado"))
		return
	}

	uploads := r.MultipartForm.File["audio_files"]
	if len(uploads) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("Nenhum arquivo selecionado"))
		return
	}

	tempFiles, err := saveUploads(uploads)
	defer removeAll(tempFiles)
	if err != nil {
		reqLog.WithError(err).Error("failed to store uploads")
		writeJSON(w, http.StatusInternalServerError, errorResponse("Falha ao armazenar arquivos"))
		return
	}
	if len(tempFiles) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse("Nenhum arquivo válido encontrado"))
		return
	}
	reqLog = reqLog.WithField("arquivos", len(tempFiles))

	res, err := a.pipe.Run(r.Context(), tempFiles, a.cfg.Language)
	if err != nil {
		reqLog.WithError(err).Error("pipeline failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse(err.Error()))
		return
	}

	reportID := uuid.New().String()
	reportPath := filepath.Join(a.cfg.ReportDir, reportFileName(reportID))
	if err := a.gen.Generate(res.Team, reportPath); err != nil {
		reqLog.WithError(err).Error("report generation failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse("Falha ao gerar relatório"))
		return
	}

	reqLog.WithField("report_id", reportID).Info("process finished")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"report_id": reportID,
		"summary": map[string]any{
			"total_files":          res.FilesReceived,
			"total_transcriptions": res.Transcribed,
			"total_vendors":        res.Team.TotalVendors,
			"total_conversations":  res.Team.TotalCalls,
			"failed_analyses":      res.FailedAnalyses,
		},
	})
}

func (a *app) handleDownload(w http.ResponseWriter, r *http.Request) {
	reqLog := a.log.WithRequest(r).WithField("handler", "download")

	reportID := chi.URLParam(r, "reportID")
	if _, err := uuid.Parse(reportID); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("Identificador de relatório inválido"))
		return
	}

	path := filepath.Join(a.cfg.ReportDir, reportFileName(reportID))
	if _, err := os.Stat(path); err != nil {
		reqLog.WithField("report_id", reportID).Warn("report not found")
		writeJSON(w, http.StatusNotFound, errorResponse("Relatório não encontrado"))
		return
	}

	name := fmt.Sprintf("relatorio_vendas_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	http.ServeFile(w, r, path)
}

// saveUploads writes the accepted multipart files to disk with a uuid prefix,
// skipping files whose extension is not in the allowlist. It returns the
// files written so far even on error, so the caller can clean them up.
func saveUploads(uploads []*multipart.FileHeader) ([]string, error) {
	var paths []string
	for _, fh := range uploads {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedExtensions[ext] {
			continue
		}
		src, err := fh.Open()
		if err != nil {
			return paths, err
		}
		dst := filepath.Join(os.TempDir(), fmt.Sprintf("%s_%s", uuid.New(), filepath.Base(fh.Filename)))
		out, err := os.Create(dst)
		if err != nil {
			src.Close()
			return paths, err
		}
		_, err = io.Copy(out, src)
		src.Close()
		out.Close()
		if err != nil {
			return paths, err
		}
		paths = append(paths, dst)
	}
	return paths, nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		os.Remove(p)
	}
}

func reportFileName(reportID string) string {
	return fmt.Sprintf("relatorio_vendas_%s.xlsx", reportID)
}

func errorResponse(msg string) map[string]any {
	return map[string]any{"success": false, "error": msg}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(body)
}
