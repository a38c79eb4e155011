package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"xadrez/internal/events"
	"xadrez/internal/game/rules"
	"xadrez/internal/session/message"
)

// Conn é a capacidade de conexão bidirecional que o coordenador precisa.
// Send é fire-and-forget: não espera confirmação e falha se a conexão já morreu.
type Conn interface {
	ID() string
	Send(v any) error
}

// Coordinator gerencia o ciclo de vida das sessões, vincula conexões a sessões,
// garante a vez de cada jogador e distribui os resultados.
type Coordinator struct {
	rules     rules.Adapter
	store     *Store
	publisher events.Publisher
	logger    hclog.Logger
	newID     func() string
	now       func() time.Time
}

type Option func(*Coordinator)

func WithLogger(logger hclog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

func WithPublisher(p events.Publisher) Option {
	return func(c *Coordinator) { c.publisher = p }
}

// WithStore permite compartilhar ou inspecionar a tabela de sessões.
func WithStore(s *Store) Option {
	return func(c *Coordinator) { c.store = s }
}

func WithIDGenerator(newID func() string) Option {
	return func(c *Coordinator) { c.newID = newID }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func NewCoordinator(adapter rules.Adapter, opts ...Option) *Coordinator {
	c := &Coordinator{
		rules:     adapter,
		store:     NewStore(),
		publisher: events.Nop{},
		logger:    hclog.NewNullLogger(),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// outbox junta o que não pode acontecer com a sala travada: eventos a publicar
// e conexões cujo envio falhou. flush cuida dos dois depois que a trava é liberada.
type outbox struct {
	events []events.Event
	failed []Conn
}

func (o *outbox) send(conn Conn, msg message.Outbound) {
	if conn == nil {
		return
	}
	if err := conn.Send(msg); err != nil {
		o.failed = append(o.failed, conn)
	}
}

// record carimba o evento agora e adia a publicação até o flush.
func (c *Coordinator) record(o *outbox, e events.Event) {
	e.Time = c.now()
	o.events = append(o.events, e)
}

func (c *Coordinator) flush(o *outbox) {
	for _, e := range o.events {
		c.publisher.Publish(e)
	}
	for _, conn := range o.failed {
		c.logger.Warn("send failed, treating as disconnect", "conn", conn.ID())
		c.Disconnect(conn)
	}
}

// Create abre uma sessão nova com conn no assento branco e responde `gameCreated`.
// Se conn já estava em outra sessão, sai dela antes.
func (c *Coordinator) Create(conn Conn) (string, error) {
	c.Disconnect(conn)

	room := newGameRoom(conn, c.rules.StartingPosition(), c.now())
	id := c.store.Insert(room, c.newID)
	c.logger.Info("session created", "session", id, "conn", conn.ID())

	var out outbox
	room.mu.Lock()
	c.record(&out, events.Event{Type: events.Created, SessionID: id, FEN: room.position})
	out.send(conn, message.GameCreated(id))
	room.mu.Unlock()
	c.flush(&out)
	return id, nil
}

// Join senta conn no assento preto, ativa a sessão e manda `start` para os dois,
// cada um com a própria cor. Se conn estava em outra sessão, só sai dela quando
// o assento está garantido; um join recusado não mexe em nada.
func (c *Coordinator) Join(conn Conn, id string) error {
	room, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("join %q: %w", id, ErrSessionNotFound)
	}
	var previous *GameRoom
	if bound, ok := c.store.BindingOf(conn.ID()); ok {
		if bound == id {
			return fmt.Errorf("join %q: already seated: %w", id, ErrSessionFull)
		}
		previous, _ = c.store.Get(bound)
	}

	out, err := c.join(room, previous, conn)
	if err != nil {
		return fmt.Errorf("join %q: %w", id, err)
	}
	c.flush(out)
	return nil
}

func (c *Coordinator) join(room, previous *GameRoom, conn Conn) (*outbox, error) {
	unlock := lockRooms(room, previous)
	defer unlock()

	switch {
	case room.status == StatusAbandoned:
		return nil, ErrSessionNotFound
	case room.status != StatusAwaitingOpponent, room.seats[seatBlack] != nil:
		return nil, ErrSessionFull
	}

	out := &outbox{}
	if previous != nil && previous != room {
		if _, seated := previous.seatOf(conn); seated || previous.status == StatusAbandoned {
			c.leave(previous, conn, out)
		}
	}

	room.seats[seatBlack] = conn
	room.status = StatusActive
	room.lastActive = c.now()
	c.store.Bind(conn.ID(), room.ID)

	c.logger.Info("session started", "session", room.ID,
		"white", room.seats[seatWhite].ID(), "black", conn.ID())
	c.record(out, events.Event{Type: events.Started, SessionID: room.ID, FEN: room.position})

	out.send(room.seats[seatWhite], message.Start(string(rules.White), room.position))
	out.send(conn, message.Start(string(rules.Black), room.position))
	return out, nil
}

// Move valida a vez pelo lado a jogar da posição (nunca pela cor declarada pelo cliente),
// consulta o motor de regras e, se o lance for legal, distribui `move` e talvez `gameOver`.
func (c *Coordinator) Move(conn Conn, id string, m rules.Move) error {
	room, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("move in %q: %w", id, ErrSessionNotFound)
	}
	out, err := c.move(room, conn, m)
	if err != nil {
		return fmt.Errorf("move %s in %q: %w", m, id, err)
	}
	c.flush(out)
	return nil
}

func (c *Coordinator) move(room *GameRoom, conn Conn, m rules.Move) (*outbox, error) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.status == StatusAbandoned {
		return nil, ErrSessionNotFound
	}
	seat, seated := room.seatOf(conn)
	if !seated || room.status == StatusAwaitingOpponent {
		return nil, ErrNotYourTurn
	}
	side, err := c.rules.SideToMove(room.position)
	if err != nil {
		c.logger.Error("unreadable position", "session", room.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	if side != seatColor(seat) {
		return nil, ErrNotYourTurn
	}
	if room.status == StatusFinished {
		return nil, ErrInvalidMove
	}

	res, err := c.rules.ApplyMove(room.position, m)
	if err != nil {
		c.logger.Error("rules engine failed", "session", room.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	if !res.Legal {
		return nil, ErrInvalidMove
	}

	room.position = res.Position
	room.lastActive = c.now()
	c.logger.Debug("move played", "session", room.ID, "move", m.String(), "fen", res.Position)

	out := &outbox{}
	c.record(out, events.Event{Type: events.Moved, SessionID: room.ID, FEN: res.Position, Move: m.String()})
	wire := message.Move{From: m.From, To: m.To, Promotion: m.Promotion}
	for _, p := range room.occupied() {
		out.send(p, message.Moved(res.Position, wire))
	}

	if res.Terminal {
		room.status = StatusFinished
		room.result = res.Outcome()
		c.logger.Info("session finished", "session", room.ID, "result", room.result, "reason", res.Detail)
		c.record(out, events.Event{Type: events.Finished, SessionID: room.ID, FEN: res.Position, Result: room.result, Reason: res.Detail})
		for _, p := range room.occupied() {
			out.send(p, message.GameOver(room.result, res.Detail))
		}
	}
	return out, nil
}

// Disconnect remove conn do seu assento. Se sobrou alguém na sessão, essa conexão recebe
// `opponentDisconnected`; em qualquer caso a sessão é descartada. Chamar de novo é inofensivo.
func (c *Coordinator) Disconnect(conn Conn) {
	id, ok := c.store.BindingOf(conn.ID())
	if !ok {
		return
	}
	room, ok := c.store.Get(id)
	if !ok {
		c.store.Unbind(conn.ID(), id)
		return
	}
	out := c.disconnect(room, conn)
	c.flush(out)
}

func (c *Coordinator) disconnect(room *GameRoom, conn Conn) *outbox {
	room.mu.Lock()
	defer room.mu.Unlock()

	out := &outbox{}
	c.leave(room, conn, out)
	return out
}

// leave tira conn de room e descarta a sessão. Exige room.mu travado.
func (c *Coordinator) leave(room *GameRoom, conn Conn, out *outbox) {
	if room.status == StatusAbandoned {
		c.store.Unbind(conn.ID(), room.ID)
		return
	}

	ids := append(room.connIDs(), conn.ID())
	if seat, ok := room.seatOf(conn); ok {
		room.seats[seat] = nil
	}
	remaining := room.occupied()
	room.status = StatusAbandoned
	c.store.Remove(room.ID, ids...)

	c.logger.Info("session abandoned", "session", room.ID, "conn", conn.ID(), "remaining", len(remaining))
	c.record(out, events.Event{Type: events.Abandoned, SessionID: room.ID, FEN: room.position})
	for _, p := range remaining {
		out.send(p, message.OpponentDisconnected())
	}
}

// lockRooms trava uma ou duas salas, sempre em ordem de ID, e devolve o destravamento.
func lockRooms(a, b *GameRoom) func() {
	if b == nil || a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	if b.ID < a.ID {
		a, b = b, a
	}
	a.mu.Lock()
	b.mu.Lock()
	return func() {
		b.mu.Unlock()
		a.mu.Unlock()
	}
}

// Lookup retorna uma cópia do estado da sessão id.
func (c *Coordinator) Lookup(id string) (Snapshot, bool) {
	room, ok := c.store.Get(id)
	if !ok {
		return Snapshot{}, false
	}
	return room.snapshot(), true
}

// SessionOf informa a sessão à qual conn está vinculada.
func (c *Coordinator) SessionOf(conn Conn) (string, bool) {
	return c.store.BindingOf(conn.ID())
}

// Count é o número de sessões vivas.
func (c *Coordinator) Count() int {
	return c.store.Len()
}
