package session

import (
	"errors"

	"xadrez/internal/session/message"
)

// Erros recuperáveis do coordenador. São sempre reportados só para quem fez o pedido
// e nunca alteram o estado da sessão.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionFull      = errors.New("session full")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidMove      = errors.New("invalid move")
	ErrMalformedMessage = errors.New("malformed message")
)

// ErrorText traduz um erro do coordenador para o texto da mensagem `error` do protocolo.
func ErrorText(err error) string {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionFull):
		return message.ErrTextNotFoundOrFull
	case errors.Is(err, ErrNotYourTurn):
		return message.ErrTextNotYourTurn
	case errors.Is(err, ErrInvalidMove):
		return message.ErrTextInvalidMove
	default:
		return message.ErrTextMalformed
	}
}
