// Package config carrega a configuração do serviço a partir de variáveis de ambiente.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config armazena todas as configurações da aplicação.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"xadrez-session"`
	ServicePort int    `env:"SERVICE_PORT" envDefault:"8080"`
	// HealthPort é a porta anunciada ao Consul para o health check. 0 usa ServicePort.
	HealthPort int `env:"HEALTH_CHECK_PORT"`
	// ConsulAddr aceita uma lista separada por vírgulas. Vazio desliga o registro.
	ConsulAddr string `env:"CONSUL_HTTP_ADDR"`
	// NATSURL vazio desliga a publicação de eventos.
	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"xadrez.session"`

	// SessionIdleTimeout 0 desliga o reaper de sessões ociosas.
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"0s"`
	ReaperInterval     time.Duration `env:"REAPER_INTERVAL" envDefault:"1m"`

	LogLevel       string   `env:"LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Load lê a configuração do ambiente do processo.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom lê a configuração de um mapa, sem olhar o ambiente do processo.
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ServicePort <= 0 || cfg.ServicePort > 65535 {
		return nil, fmt.Errorf("invalid SERVICE_PORT %d", cfg.ServicePort)
	}
	if cfg.HealthPort == 0 {
		cfg.HealthPort = cfg.ServicePort
	}
	if cfg.SessionIdleTimeout < 0 {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT %s", cfg.SessionIdleTimeout)
	}
	return &cfg, nil
}

// ListenAddress é o endereço em que o servidor WebSocket escuta.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("0.0.0.0:%d", c.ServicePort)
}
