package message

//Isso aqui são as mensagens trocadas nos dois sentidos: client -> servidor e servidor -> client.
import (
	"encoding/json"
	"errors"
)

// Tipos de mensagem client -> servidor.
const (
	TypeCreate = "create"
	TypeJoin   = "join"
	TypeMove   = "move"
)

// Tipos de mensagem servidor -> client.
const (
	TypeGameCreated          = "gameCreated"
	TypeStart                = "start"
	TypeGameOver             = "gameOver"
	TypeError                = "error"
	TypeOpponentDisconnected = "opponentDisconnected"
	// TypeMove também é usado no sentido servidor -> client.
)

// Move é o lance no formato do fio: {from, to, promotion?}.
type Move struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// Inbound é qualquer mensagem enviada pelo client.
type Inbound struct {
	Type   string `json:"type"`
	GameID string `json:"gameId,omitempty"`
	Move   *Move  `json:"move,omitempty"`
}

// Outbound é qualquer mensagem enviada pelo servidor.
// Os campos não usados por um tipo ficam de fora do JSON.
type Outbound struct {
	Type    string `json:"type"`
	GameID  string `json:"gameId,omitempty"`
	Color   string `json:"color,omitempty"`
	FEN     string `json:"fen,omitempty"`
	Move    *Move  `json:"move,omitempty"`
	Result  string `json:"result,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

var (
	ErrEmptyType     = errors.New("message has no type")
	ErrMissingGameID = errors.New("gameId is required")
	ErrMissingMove   = errors.New("move with from and to is required")
)

// Decode interpreta um frame recebido e valida os campos exigidos por cada tipo.
// Tipos desconhecidos passam; quem roteia decide o que fazer com eles.
func Decode(data []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return Inbound{}, err
	}
	if in.Type == "" {
		return Inbound{}, ErrEmptyType
	}
	switch in.Type {
	case TypeJoin:
		if in.GameID == "" {
			return Inbound{}, ErrMissingGameID
		}
	case TypeMove:
		if in.GameID == "" {
			return Inbound{}, ErrMissingGameID
		}
		if in.Move == nil || in.Move.From == "" || in.Move.To == "" {
			return Inbound{}, ErrMissingMove
		}
	}
	return in, nil
}
