package message

// Textos de erro enviados aos clientes.
const (
	ErrTextNotFoundOrFull = "Game not found or full"
	ErrTextInvalidMove    = "Invalid move"
	ErrTextNotYourTurn    = "Not your turn"
	ErrTextMalformed      = "Malformed message"
	ErrTextUnknownType    = "Unknown message type"
	ErrTextExpired        = "Game expired due to inactivity"
)

func GameCreated(gameID string) Outbound {
	return Outbound{Type: TypeGameCreated, GameID: gameID}
}

// Start é individual: cada assento recebe a própria cor.
func Start(color, fen string) Outbound {
	return Outbound{Type: TypeStart, Color: color, FEN: fen}
}

// Moved carrega a nova posição e o lance jogado.
func Moved(fen string, m Move) Outbound {
	return Outbound{Type: TypeMove, FEN: fen, Move: &m}
}

func GameOver(result, reason string) Outbound {
	return Outbound{Type: TypeGameOver, Result: result, Reason: reason}
}

func Error(text string) Outbound {
	return Outbound{Type: TypeError, Message: text}
}

func OpponentDisconnected() Outbound {
	return Outbound{Type: TypeOpponentDisconnected}
}
