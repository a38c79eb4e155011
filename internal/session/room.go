package session

import (
	"sync"
	"time"

	"xadrez/internal/game/rules"
)

// Status é a fase do ciclo de vida de uma sessão.
type Status string

const (
	StatusAwaitingOpponent Status = "awaiting-opponent" // Só o criador está sentado.
	StatusActive           Status = "active"            // Os dois assentos ocupados, partida em andamento.
	StatusFinished         Status = "finished"          // O motor reportou posição terminal.
	StatusAbandoned        Status = "abandoned"         // Uma conexão caiu ou a sessão expirou. Estado final.
)

const (
	seatWhite = 0
	seatBlack = 1
)

// GameRoom é uma sessão: dois assentos, uma posição e um status.
// Todo acesso aos campos mutáveis passa por mu; a sala é a unidade de exclusão mútua.
type GameRoom struct {
	// ID é atribuído pelo Store na inserção e nunca muda depois.
	ID string

	mu         sync.Mutex
	seats      [2]Conn // seats[0] joga de brancas, seats[1] de pretas.
	position   string
	status     Status
	result     string
	lastActive time.Time
}

func newGameRoom(creator Conn, position string, now time.Time) *GameRoom {
	room := &GameRoom{
		position:   position,
		status:     StatusAwaitingOpponent,
		lastActive: now,
	}
	room.seats[seatWhite] = creator
	return room
}

func seatColor(seat int) rules.Color {
	if seat == seatBlack {
		return rules.Black
	}
	return rules.White
}

// seatOf retorna o índice do assento ocupado por conn.
func (r *GameRoom) seatOf(conn Conn) (int, bool) {
	for i, c := range r.seats {
		if c != nil && c.ID() == conn.ID() {
			return i, true
		}
	}
	return -1, false
}

// occupied lista as conexões sentadas, brancas primeiro.
func (r *GameRoom) occupied() []Conn {
	conns := make([]Conn, 0, len(r.seats))
	for _, c := range r.seats {
		if c != nil {
			conns = append(conns, c)
		}
	}
	return conns
}

func (r *GameRoom) connIDs() []string {
	ids := make([]string, 0, len(r.seats))
	for _, c := range r.occupied() {
		ids = append(ids, c.ID())
	}
	return ids
}

// Snapshot é uma cópia do estado de uma sessão num instante.
type Snapshot struct {
	ID         string
	Position   string
	Status     Status
	White      string // ID da conexão no assento branco, vazio se livre.
	Black      string
	Result     string
	LastActive time.Time
}

func (r *GameRoom) snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Snapshot{
		ID:         r.ID,
		Position:   r.position,
		Status:     r.status,
		Result:     r.result,
		LastActive: r.lastActive,
	}
	if c := r.seats[seatWhite]; c != nil {
		s.White = c.ID()
	}
	if c := r.seats[seatBlack]; c != nil {
		s.Black = c.ID()
	}
	return s
}
