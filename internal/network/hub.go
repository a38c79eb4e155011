package network

import (
	"context"

	"github.com/hashicorp/go-hclog"
)

// clientMessage é uma estrutura para empacotar uma mensagem com o cliente que a enviou.
type clientMessage struct {
	client *Client
	msg    Message
}

// Hub mantém o conjunto de clientes ativos e roteia eventos para o handler.
// Todos os eventos passam pela goroutine de Run, então o handler vê um evento por vez.
type Hub struct {
	// Acessado SOMENTE pela goroutine do Hub.
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	incoming   chan clientMessage

	// Fechado quando Run termina; quem estiver tentando falar com o Hub desiste.
	stopped chan struct{}

	handler EventHandler
	logger  hclog.Logger
}

func NewHub(handler EventHandler, logger hclog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan clientMessage),
		stopped:    make(chan struct{}),
		handler:    handler,
		logger:     logger,
	}
}

// Run processa eventos até ctx ser cancelado. Na saída todos os clientes são
// desconectados e o handler é avisado de cada um.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.stopped)

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("hub stopping", "clients", len(h.clients))
			for client := range h.clients {
				delete(h.clients, client)
				client.shutdown()
				h.handler.OnDisconnect(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.handler.OnConnect(client)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.handler.OnDisconnect(client)
			}

		case clientMsg := <-h.incoming:
			// O Hub não se importa com o conteúdo da mensagem.
			if _, ok := h.clients[clientMsg.client]; ok {
				h.handler.OnMessage(clientMsg.client, clientMsg.msg)
			}
		}
	}
}

func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.stopped:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stopped:
	}
}

func (h *Hub) deliver(m clientMessage) bool {
	select {
	case h.incoming <- m:
		return true
	case <-h.stopped:
		return false
	}
}
