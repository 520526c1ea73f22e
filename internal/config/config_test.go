package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SONOVIZ_API_URL", "SONOVIZ_DEBOUNCE_MS", "SONOVIZ_API_TIMEOUT", "SONOVIZ_S3_ENDPOINT"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.APIURL != "http://localhost:8000" {
		t.Fatalf("unexpected api url %s", c.APIURL)
	}
	if c.Debounce != 300*time.Millisecond {
		t.Fatalf("expected 300ms debounce, got %v", c.Debounce)
	}
	if c.APITimeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %v", c.APITimeout)
	}
	if c.S3Endpoint != "" {
		t.Fatalf("expected no s3 endpoint, got %s", c.S3Endpoint)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SONOVIZ_API_URL", `"http://analysis:9000"`)
	t.Setenv("SONOVIZ_DEBOUNCE_MS", "50")
	c := Load()
	if c.APIURL != "http://analysis:9000" {
		t.Fatalf("unexpected api url %s", c.APIURL)
	}
	if c.Debounce != 50*time.Millisecond {
		t.Fatalf("expected 50ms, got %v", c.Debounce)
	}
}

func TestEnvIntOrFallsBack(t *testing.T) {
	t.Setenv("SONOVIZ_TEST_INT", "abc")
	if got := EnvIntOr("SONOVIZ_TEST_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
	t.Setenv("SONOVIZ_TEST_INT", "-3")
	if got := EnvIntOr("SONOVIZ_TEST_INT", 7); got != 7 {
		t.Fatalf("negative values should fall back, got %d", got)
	}
}
