package config

import "testing"

func TestLoad_RequiresDomains(t *testing.T) {
	t.Setenv("SOUDAN_DOMAINS", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without tenant domains")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SOUDAN_DOMAINS", "https://example.com, https://other.org ,")
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SOUDAN_TESTING", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Domains) != 2 {
		t.Fatalf("expected 2 domains, got %v", cfg.Domains)
	}
	if cfg.Domains[0] != "https://example.com" || cfg.Domains[1] != "https://other.org" {
		t.Fatalf("expected trimmed domains, got %v", cfg.Domains)
	}
	if cfg.ServiceName != "soudan" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.HTTP.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level, got %q", cfg.LogLevel)
	}
	if cfg.Testing {
		t.Fatal("expected testing off by default")
	}
}

func TestLoad_TestingFlag(t *testing.T) {
	t.Setenv("SOUDAN_DOMAINS", "https://example.com")
	t.Setenv("SOUDAN_TESTING", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Testing {
		t.Fatal("expected testing mode on")
	}
}
