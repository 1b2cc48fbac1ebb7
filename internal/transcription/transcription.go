// Package transcription is the gateway to the AssemblyAI-style transcription
// provider: upload the audio, submit a job, poll until it settles. The rest
// of the pipeline only sees Transcript values.
package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/andreminchillo/analiticys2/internal/logger"
)

// Utterance is one speaker-labeled segment of the call.
type Utterance struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Transcript is the gateway's output for one audio file. Immutable once
// produced.
type Transcript struct {
	SourceFile    string      `json:"arquivo_origem"`
	Text          string      `json:"texto"`
	Confidence    float64     `json:"confianca"`
	AudioDuration float64     `json:"duracao_audio"`
	Utterances    []Utterance `json:"utterances"`
	Language      string      `json:"idioma"`
	JobID         string      `json:"job_id"`
	TranscribedAt time.Time   `json:"timestamp_transcricao"`
}

type Service struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
	maxWait      time.Duration
	log          *logrus.Entry
}

func NewService(baseURL, apiKey string, pollInterval, maxWait time.Duration) *Service {
	return &Service{
		baseURL:      baseURL,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: pollInterval,
		maxWait:      maxWait,
		log:          logger.Stage("transcription"),
	}
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type jobResponse struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	Text          string      `json:"text"`
	Confidence    float64     `json:"confidence"`
	AudioDuration float64     `json:"audio_duration"`
	Utterances    []Utterance `json:"utterances"`
	LanguageCode  string      `json:"language_code"`
	Error         string      `json:"error"`
}

// Upload sends the raw audio bytes and returns the provider-hosted URL.
func (s *Service) Upload(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/upload", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", s.apiKey)

	var resp uploadResponse
	if err := s.doJSON(req, &resp); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	if resp.UploadURL == "" {
		return "", fmt.Errorf("upload: empty upload_url")
	}
	return resp.UploadURL, nil
}

// Submit creates a transcription job with speaker labels enabled.
func (s *Service) Submit(ctx context.Context, audioURL, language string) (string, error) {
	payload, _ := json.Marshal(map[string]any{
		"audio_url":      audioURL,
		"language_code":  language,
		"speaker_labels": true,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var resp jobResponse
	if err := s.doJSON(req, &resp); err != nil {
		return "", fmt.Errorf("submit: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("submit: no job id in response")
	}
	return resp.ID, nil
}

// Await polls the job until it completes, fails, or the wall-clock ceiling
// is hit.
func (s *Service) Await(ctx context.Context, jobID string) (*jobResponse, error) {
	deadline := time.Now().Add(s.maxWait)
	for {
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("await: job %s did not finish within %s", jobID, s.maxWait)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/transcript/"+jobID, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("authorization", s.apiKey)

		var resp jobResponse
		if err := s.doJSON(req, &resp); err != nil {
			return nil, fmt.Errorf("await: %w", err)
		}

		switch resp.Status {
		case "completed":
			return &resp, nil
		case "error":
			return nil, fmt.Errorf("await: provider error: %s", resp.Error)
		}

		s.log.WithFields(logrus.Fields{"job_id": jobID, "status": resp.Status}).Debug("aguardando transcrição")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// TranscribeFile runs the full upload/submit/poll flow for one audio file.
func (s *Service) TranscribeFile(ctx context.Context, path, language string) (*Transcript, error) {
	name := filepath.Base(path)
	log := s.log.WithField("arquivo", name)
	log.Info("iniciando transcrição")

	audioURL, err := s.Upload(ctx, path)
	if err != nil {
		return nil, err
	}

	jobID, err := s.Submit(ctx, audioURL, language)
	if err != nil {
		return nil, err
	}

	job, err := s.Await(ctx, jobID)
	if err != nil {
		return nil, err
	}

	log.WithField("job_id", jobID).Info("transcrição concluída")
	return &Transcript{
		SourceFile:    name,
		Text:          job.Text,
		Confidence:    job.Confidence,
		AudioDuration: job.AudioDuration,
		Utterances:    job.Utterances,
		Language:      job.LanguageCode,
		JobID:         jobID,
		TranscribedAt: time.Now(),
	}, nil
}

// TranscribeAll transcribes many files sequentially. A failed file is logged
// and dropped; the batch keeps going.
func (s *Service) TranscribeAll(ctx context.Context, paths []string, language string) []Transcript {
	s.log.WithField("total", len(paths)).Info("iniciando transcrição em lote")

	var out []Transcript
	for _, path := range paths {
		tr, err := s.TranscribeFile(ctx, path, language)
		if err != nil {
			s.log.WithError(err).WithField("arquivo", filepath.Base(path)).Warn("transcrição falhou, arquivo ignorado")
			continue
		}
		out = append(out, *tr)
	}

	s.log.WithFields(logrus.Fields{
		"sucesso": len(out),
		"total":   len(paths),
	}).Info("transcrição em lote concluída")
	return out
}

// doJSON executes the request with exponential backoff on transient failures
// and decodes the response body into target. Client errors are permanent.
func (s *Service) doJSON(req *http.Request, target any) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Second

	var lastErr error
	op := func() error {
		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %s", string(body))
			return lastErr
		}
		if resp.StatusCode >= 400 {
			lastErr = fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
			return backoff.Permanent(lastErr)
		}
		if err := json.Unmarshal(body, target); err != nil {
			lastErr = fmt.Errorf("json decode error: %v body=%s", err, string(body))
			return lastErr
		}
		return nil
	}

	if err := backoff.Retry(op, bo); err != nil {
		return lastErr
	}
	return nil
}
