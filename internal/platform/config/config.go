package config

import (
	"errors"
	"os"
	"strings"
)

type HTTPConfig struct {
	Addr string
}

// AppConfig is the process-level configuration, read from the environment.
type AppConfig struct {
	ServiceName string
	LogLevel    string
	HTTP        HTTPConfig

	// Domains lists the tenant origins this instance hosts comments for.
	// The process refuses to start without at least one.
	Domains []string

	// Testing switches every tenant to an in-memory store.
	Testing bool
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName: strings.TrimSpace(os.Getenv("SERVICE_NAME")),
		LogLevel:    strings.TrimSpace(os.Getenv("LOG_LEVEL")),
		HTTP: HTTPConfig{
			Addr: strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		},
		Domains: splitDomains(os.Getenv("SOUDAN_DOMAINS")),
		Testing: envBool("SOUDAN_TESTING"),
	}
	if len(cfg.Domains) == 0 {
		return AppConfig{}, errors.New("SOUDAN_DOMAINS must list at least one tenant domain")
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "soudan"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

func splitDomains(raw string) []string {
	var out []string
	for _, d := range strings.Split(raw, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes"
}
