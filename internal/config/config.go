package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port              int
	AssemblyAIKey     string
	AssemblyAIURL     string
	LLMGatewayURL     string
	LLMAPIKey         string
	LLMModel          string
	Language          string
	PollInterval      time.Duration
	TranscribeCeiling time.Duration
	ReportDir         string
}

func Load() Config {
	return Config{
		Port:              envInt("PORT", 8080),
		AssemblyAIKey:     envStr("ASSEMBLYAI_API_KEY", ""),
		AssemblyAIURL:     envStr("ASSEMBLYAI_URL", "https://api.assemblyai.com/v2"),
		LLMGatewayURL:     envStr("LLM_GATEWAY_URL", "https://api.openai.com/v1/chat/completions"),
		LLMAPIKey:         envStr("LLM_API_KEY", ""),
		LLMModel:          envStr("LLM_MODEL", "gpt-4o-mini"),
		Language:          envStr("TRANSCRIBE_LANGUAGE", "pt"),
		PollInterval:      envDuration("TRANSCRIBE_POLL_INTERVAL", 5*time.Second),
		TranscribeCeiling: envDuration("TRANSCRIBE_MAX_WAIT", 10*time.Minute),
		ReportDir:         envStr("REPORT_DIR", os.TempDir()),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
