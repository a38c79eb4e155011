// Package events publica o ciclo de vida das sessões para quem quiser observar
// (ex: um serviço de histórico). A publicação nunca bloqueia nem falha uma jogada.
package events

import (
	"fmt"
	"time"
)

// Tipos de evento publicados.
const (
	Created   = "created"
	Started   = "started"
	Moved     = "moved"
	Finished  = "finished"
	Abandoned = "abandoned"
)

// Event é o payload publicado. Campos sem uso para o tipo ficam vazios.
type Event struct {
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId"`
	FEN       string    `json:"fen,omitempty"`
	Move      string    `json:"move,omitempty"`
	Result    string    `json:"result,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Time      time.Time `json:"time"`
}

// Publisher recebe os eventos das sessões.
type Publisher interface {
	Publish(e Event)
}

// Nop descarta tudo. É o padrão quando não há NATS configurado.
type Nop struct{}

func (Nop) Publish(Event) {}

// Subject monta o assunto NATS de um evento: <prefix>.<sessionId>.<type>.
func Subject(prefix string, e Event) string {
	return fmt.Sprintf("%s.%s.%s", prefix, e.SessionID, e.Type)
}
