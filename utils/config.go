package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every runtime option the bot needs.
// Keep it flat; services receive the values they need through constructors.
type Config struct {
	// Network
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logging
	LogMode string

	// Dialogue endpoint the front ends post to
	DialogueURL      string
	TransportTimeout time.Duration

	// Generation backend: "huggingface", "local" or "chatgpt"
	GenerationProvider string
	GenerationTimeout  time.Duration
	HuggingFaceURL     string
	HuggingFaceToken   string
	HuggingFaceModel   string
	OllamaURL          string
	OllamaModel        string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIModel        string

	// Video search
	YouTubeAPIKey    string
	SearchTimeout    time.Duration
	SearchRatePerSec float64

	// Sessions
	SessionTTL time.Duration

	// Discord front end
	DiscordToken         string
	DiscordCommandPrefix string
}

// LoadConfig reads the process environment into a Config.
// Call LoadEnvWithFallback first if .env files should be honoured.
func LoadConfig() Config {
	port := getEnv("PORT", "8080")
	return Config{
		Port:         strings.TrimPrefix(port, ":"),
		ReadTimeout:  getDuration("READ_TIMEOUT_SEC", 15),
		WriteTimeout: getDuration("WRITE_TIMEOUT_SEC", 150),

		LogMode: getEnv("LOG_MODE", "development"),

		DialogueURL:      getEnv("DIALOGUE_URL", "http://localhost:5005/webhooks/rest/webhook"),
		TransportTimeout: getDuration("TRANSPORT_TIMEOUT_SEC", 140),

		GenerationProvider: strings.ToLower(getEnv("GENERATION_PROVIDER", "huggingface")),
		GenerationTimeout:  getDuration("GENERATION_TIMEOUT_SEC", 120),
		HuggingFaceURL:     getEnv("HF_API_URL", "https://api-inference.huggingface.co/models"),
		HuggingFaceToken:   os.Getenv("HF_API_TOKEN"),
		HuggingFaceModel:   getEnv("HF_MODEL", "google/flan-t5-large"),
		OllamaURL:          getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:        getEnv("OLLAMA_MODEL", "tinyllama:latest"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),

		YouTubeAPIKey:    os.Getenv("YOUTUBE_API_KEY"),
		SearchTimeout:    getDuration("SEARCH_TIMEOUT_SEC", 10),
		SearchRatePerSec: getFloat("SEARCH_RATE_PER_SEC", 5),

		SessionTTL: time.Duration(getInt("SESSION_TTL_MIN", 60)) * time.Minute,

		DiscordToken:         os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordCommandPrefix: getEnv("DISCORD_COMMAND_PREFIX", "!learn "),
	}
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil || i <= 0 {
		return defaultVal
	}
	return i
}

func getFloat(key string, defaultVal float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return defaultVal
	}
	return f
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	return time.Duration(getInt(key, defaultSec)) * time.Second
}
