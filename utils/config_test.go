package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DIALOGUE_URL", "GENERATION_PROVIDER", "GENERATION_TIMEOUT_SEC", "SESSION_TTL_MIN", "SEARCH_RATE_PER_SEC"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.Port != "8080" {
		t.Fatalf("Port: want=%q got=%q", "8080", cfg.Port)
	}
	if cfg.DialogueURL != "http://localhost:5005/webhooks/rest/webhook" {
		t.Fatalf("DialogueURL: got=%q", cfg.DialogueURL)
	}
	if cfg.GenerationProvider != "huggingface" {
		t.Fatalf("GenerationProvider: want=%q got=%q", "huggingface", cfg.GenerationProvider)
	}
	if cfg.GenerationTimeout != 120*time.Second {
		t.Fatalf("GenerationTimeout: got=%s", cfg.GenerationTimeout)
	}
	if cfg.SessionTTL != time.Hour {
		t.Fatalf("SessionTTL: got=%s", cfg.SessionTTL)
	}
	if cfg.SearchRatePerSec != 5 {
		t.Fatalf("SearchRatePerSec: got=%v", cfg.SearchRatePerSec)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("GENERATION_PROVIDER", "LOCAL")
	t.Setenv("GENERATION_TIMEOUT_SEC", "7")
	t.Setenv("SEARCH_TIMEOUT_SEC", "not-a-number")

	cfg := LoadConfig()
	if cfg.Port != "9090" {
		t.Fatalf("Port: want=%q got=%q", "9090", cfg.Port)
	}
	if cfg.GenerationProvider != "local" {
		t.Fatalf("GenerationProvider: want=%q got=%q", "local", cfg.GenerationProvider)
	}
	if cfg.GenerationTimeout != 7*time.Second {
		t.Fatalf("GenerationTimeout: got=%s", cfg.GenerationTimeout)
	}
	if cfg.SearchTimeout != 10*time.Second {
		t.Fatalf("SearchTimeout should fall back to default, got=%s", cfg.SearchTimeout)
	}
}

func TestLoadEnvKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("LEARNBOT_TEST_A=from-file\nLEARNBOT_TEST_B=\"quoted\"\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("LEARNBOT_TEST_A", "from-env")
	t.Setenv("LEARNBOT_TEST_B", "")
	os.Unsetenv("LEARNBOT_TEST_B")

	loaded, err := LoadEnv(path)
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if !loaded {
		t.Fatalf("expected file to be loaded")
	}
	if got := os.Getenv("LEARNBOT_TEST_A"); got != "from-env" {
		t.Fatalf("LEARNBOT_TEST_A: want=%q got=%q", "from-env", got)
	}
	if got := os.Getenv("LEARNBOT_TEST_B"); got != "quoted" {
		t.Fatalf("LEARNBOT_TEST_B: want=%q got=%q", "quoted", got)
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	loaded, err := LoadEnv(filepath.Join(t.TempDir(), "nope.env"))
	if err != nil || loaded {
		t.Fatalf("missing file: loaded=%v err=%v", loaded, err)
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("abcdefghijkl"); got != "abcd...ijkl" {
		t.Fatalf("MaskSecret: got=%q", got)
	}
	if got := MaskSecret("short"); got != "***" {
		t.Fatalf("MaskSecret short: got=%q", got)
	}
}
