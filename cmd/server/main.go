package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"

	"xadrez/internal/config"
	"xadrez/internal/events"
	"xadrez/internal/game/rules"
	"xadrez/internal/network"
	"xadrez/internal/services/cluster"
	"xadrez/internal/session"
)

func main() {
	// 1. CARREGA A CONFIGURAÇÃO
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  cfg.ServiceName,
		Level: hclog.LevelFromString(cfg.LogLevel),
	})
	logger.Info("configuration loaded",
		"port", cfg.ServicePort, "health_port", cfg.HealthPort,
		"consul", cfg.ConsulAddr, "nats", cfg.NATSURL, "idle_timeout", cfg.SessionIdleTimeout.String())

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with errors", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger hclog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Funções de limpeza, executadas em ordem reversa na saída.
	var closers []func() error
	health := cluster.NewHealthAggregator()

	// 2. EVENTOS (opcional)
	var publisher events.Publisher = events.Nop{}
	if cfg.NATSURL != "" {
		p, err := events.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, logger.Named("events"))
		if err != nil {
			return err
		}
		publisher = p
		closers = append(closers, p.Close)
		health.AddCheck("nats", p.Healthy)
	}

	// 3. INICIA A LÓGICA DO JOGO
	coordinator := session.NewCoordinator(rules.Chess{},
		session.WithLogger(logger.Named("session")),
		session.WithPublisher(publisher),
	)
	go coordinator.RunReaper(ctx, cfg.ReaperInterval, cfg.SessionIdleTimeout)
	health.AddInfo("sessions", func() any { return coordinator.Count() })

	gameHandler := session.NewGameHandler(coordinator, logger.Named("session"))
	server := network.NewServer(gameHandler, network.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger.Named("network"),
	})
	server.Handle("/health", health.Handler())

	// 4. REGISTRA O SERVIÇO NO CONSUL (opcional)
	if cfg.ConsulAddr != "" {
		client, err := cluster.NewConsulClient(cfg.ConsulAddr, logger.Named("cluster"))
		if err != nil {
			return closeAll(err, closers)
		}
		deregister, err := cluster.RegisterServiceInConsul(client, cluster.Registration{
			ServiceName: cfg.ServiceName,
			ServicePort: cfg.ServicePort,
			HealthPort:  cfg.HealthPort,
		}, logger.Named("cluster"))
		if err != nil {
			return closeAll(err, closers)
		}
		closers = append(closers, deregister)
	}

	// 5. INICIA O SERVIDOR PRINCIPAL (bloqueante até SIGINT/SIGTERM)
	err := server.ListenAndServe(ctx, cfg.ListenAddress())
	logger.Info("shutting down", "live_sessions", coordinator.Count())
	return closeAll(err, closers)
}

func closeAll(cause error, closers []func() error) error {
	var result *multierror.Error
	if cause != nil {
		result = multierror.Append(result, cause)
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
