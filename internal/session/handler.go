package session

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"xadrez/internal/game/rules"
	"xadrez/internal/network"
	"xadrez/internal/session/message"
)

// CommandHandlerFunc define a assinatura para todas as nossas funções que lidam com comandos.
// O erro retornado vira uma mensagem `error` só para quem enviou o comando.
type CommandHandlerFunc func(h *GameHandler, conn Conn, in message.Inbound) error

// GameHandler implementa network.EventHandler e traduz o protocolo para o Coordinator.
type GameHandler struct {
	coordinator *Coordinator
	logger      hclog.Logger
	router      map[string]CommandHandlerFunc
}

var _ network.EventHandler = (*GameHandler)(nil)

func NewGameHandler(coordinator *Coordinator, logger hclog.Logger) *GameHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	h := &GameHandler{
		coordinator: coordinator,
		logger:      logger,
		router:      make(map[string]CommandHandlerFunc),
	}
	h.registerHandlers()
	return h
}

func (h *GameHandler) registerHandlers() {
	h.router[message.TypeCreate] = handleCreate
	h.router[message.TypeJoin] = handleJoin
	h.router[message.TypeMove] = handleMove
}

// --- Implementação da Interface network.EventHandler ---

func (h *GameHandler) OnConnect(c *network.Client) {
	h.logger.Info("client connected", "conn", c.ID(), "remote", c.RemoteAddr())
}

func (h *GameHandler) OnDisconnect(c *network.Client) {
	h.logger.Info("client disconnected", "conn", c.ID())
	h.coordinator.Disconnect(c)
}

func (h *GameHandler) OnMessage(c *network.Client, msg network.Message) {
	h.Dispatch(c, msg.Data)
}

// Dispatch decodifica um frame e executa o comando correspondente.
// Mensagem malformada é registrada e respondida com `error`; a conexão continua aberta.
func (h *GameHandler) Dispatch(conn Conn, data []byte) {
	in, err := message.Decode(data)
	if err != nil {
		h.logger.Warn("malformed message", "conn", conn.ID(), "error", err)
		h.reply(conn, fmt.Errorf("%w: %v", ErrMalformedMessage, err))
		return
	}

	handler, found := h.router[in.Type]
	if !found {
		h.logger.Warn("unknown message type", "conn", conn.ID(), "type", in.Type)
		h.sendError(conn, message.ErrTextUnknownType)
		return
	}

	if err := handler(h, conn, in); err != nil {
		h.logger.Debug("command rejected", "conn", conn.ID(), "type", in.Type, "error", err)
		h.reply(conn, err)
	}
}

func (h *GameHandler) reply(conn Conn, cause error) {
	h.sendError(conn, ErrorText(cause))
}

// sendError responde só a quem pediu. Falha de envio equivale a uma desconexão.
func (h *GameHandler) sendError(conn Conn, text string) {
	if err := message.SendError(conn, text); err != nil {
		h.logger.Warn("send failed, treating as disconnect", "conn", conn.ID(), "error", err)
		h.coordinator.Disconnect(conn)
	}
}

func handleCreate(h *GameHandler, conn Conn, _ message.Inbound) error {
	_, err := h.coordinator.Create(conn)
	return err
}

func handleJoin(h *GameHandler, conn Conn, in message.Inbound) error {
	return h.coordinator.Join(conn, in.GameID)
}

func handleMove(h *GameHandler, conn Conn, in message.Inbound) error {
	m := rules.Move{From: in.Move.From, To: in.Move.To, Promotion: in.Move.Promotion}
	return h.coordinator.Move(conn, in.GameID, m)
}
