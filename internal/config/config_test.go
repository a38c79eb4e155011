package config

import (
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom error = %v", err)
	}
	if cfg.ServiceName != "xadrez-session" || cfg.ServicePort != 8080 || cfg.HealthPort != 8080 {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.SessionIdleTimeout != 0 || cfg.ReaperInterval != time.Minute {
		t.Fatalf("reaper defaults = %s/%s", cfg.SessionIdleTimeout, cfg.ReaperInterval)
	}
	if cfg.ConsulAddr != "" || cfg.NATSURL != "" {
		t.Fatalf("integrations enabled by default: %+v", cfg)
	}
	if got := cfg.ListenAddress(); got != "0.0.0.0:8080" {
		t.Fatalf("ListenAddress = %q", got)
	}
}

func TestLoadFromOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFrom(map[string]string{
		"SERVICE_PORT":         "9000",
		"HEALTH_CHECK_PORT":    "9001",
		"CONSUL_HTTP_ADDR":     "consul-1:8500,consul-2:8500",
		"NATS_URL":             "nats://nats:4222",
		"SESSION_IDLE_TIMEOUT": "30m",
		"ALLOWED_ORIGINS":      "http://a,http://b",
		"LOG_LEVEL":            "debug",
	})
	if err != nil {
		t.Fatalf("LoadFrom error = %v", err)
	}
	if cfg.ServicePort != 9000 || cfg.HealthPort != 9001 {
		t.Fatalf("ports = %d/%d", cfg.ServicePort, cfg.HealthPort)
	}
	if cfg.SessionIdleTimeout != 30*time.Minute {
		t.Fatalf("SessionIdleTimeout = %s", cfg.SessionIdleTimeout)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadFromInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "port not a number", env: map[string]string{"SERVICE_PORT": "http"}},
		{name: "port out of range", env: map[string]string{"SERVICE_PORT": "70000"}},
		{name: "bad duration", env: map[string]string{"SESSION_IDLE_TIMEOUT": "soon"}},
		{name: "negative timeout", env: map[string]string{"SESSION_IDLE_TIMEOUT": "-1m"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, err := LoadFrom(tc.env); err == nil {
				t.Fatalf("LoadFrom(%v) succeeded", tc.env)
			}
		})
	}
}
