package network

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tempo máximo para aguardar por uma resposta de pong do cliente.
	pongWait = 60 * time.Second

	// Frequência com que enviamos pings para o cliente. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10

	sendBufferSize = 256
)

var (
	ErrClientClosed = errors.New("client connection closed")
	ErrSendOverflow = errors.New("client send buffer full")
)

// Client é a representação de um jogador conectado do ponto de vista do servidor.
type Client struct {
	id   string
	conn *websocket.Conn
	hub  *Hub

	// Um canal bufferizado para mensagens de saída. A goroutine writeLoop as envia.
	send chan any

	mu     sync.Mutex
	closed bool

	logger hclog.Logger
}

func newClient(conn *websocket.Conn, hub *Hub, logger hclog.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		id:     id,
		conn:   conn,
		hub:    hub,
		send:   make(chan any, sendBufferSize),
		logger: logger.With("conn", id),
	}
}

// ID identifica a conexão de forma única durante a vida do processo.
func (c *Client) ID() string {
	return c.id
}

func (c *Client) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

// Send enfileira v para ser escrito como JSON. Nunca bloqueia.
// Se o buffer estiver cheio o cliente é considerado morto e a conexão é fechada,
// o que leva ao OnDisconnect.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClientClosed
	}
	select {
	case c.send <- v:
		c.mu.Unlock()
		return nil
	default:
	}
	c.mu.Unlock()

	c.logger.Warn("send buffer full, closing connection")
	c.shutdown()
	return ErrSendOverflow
}

// shutdown fecha o canal de saída e a conexão. Pode ser chamado várias vezes.
func (c *Client) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
	c.conn.Close()
}

func (c *Client) readLoop() {
	// Garante que a limpeza ocorrerá quando o loop terminar.
	defer func() {
		c.shutdown()
		c.hub.unregisterClient(c)
	}()

	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("unexpected close", "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}
		if !c.hub.deliver(clientMessage{client: c, msg: Message{Data: data, ReceivedAt: time.Now()}}) {
			return
		}
	}
}

// writeLoop bombeia mensagens do canal 'send' do cliente para a conexão WebSocket.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			// O canal foi fechado: o cliente foi desregistrado.
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn("write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
