package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix é o prefixo usado quando nenhum outro é configurado.
const DefaultSubjectPrefix = "xadrez.session"

// NATSPublisher publica eventos em um servidor NATS.
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
	logger hclog.Logger
}

// NewNATSPublisher conecta ao NATS em url. A conexão reconecta sozinha para sempre;
// enquanto estiver fora, a biblioteca bufferiza as publicações.
func NewNATSPublisher(url, prefix string, logger hclog.Logger) (*NATSPublisher, error) {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	nc, err := nats.Connect(url,
		nats.Name("xadrez-session"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("disconnected from NATS", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected to NATS", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	logger.Info("connected to NATS", "url", nc.ConnectedUrl())
	return &NATSPublisher{conn: nc, prefix: prefix, logger: logger}, nil
}

func (p *NATSPublisher) Publish(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		p.logger.Error("failed to marshal event", "type", e.Type, "session", e.SessionID, "error", err)
		return
	}
	if err := p.conn.Publish(Subject(p.prefix, e), data); err != nil {
		p.logger.Warn("failed to publish event", "type", e.Type, "session", e.SessionID, "error", err)
	}
}

// Healthy falha enquanto a conexão com o NATS estiver caída.
func (p *NATSPublisher) Healthy() error {
	if !p.conn.IsConnected() {
		return fmt.Errorf("nats connection is %s", p.conn.Status())
	}
	return nil
}

// Close esvazia as publicações pendentes e fecha a conexão.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
