package session

import (
	"errors"
	"sync"
	"testing"

	"xadrez/internal/events"
	"xadrez/internal/game/rules"
	"xadrez/internal/session/message"
)

var errConnClosed = errors.New("closed")

type fakeConn struct {
	id string

	mu   sync.Mutex
	msgs []message.Outbound
	fail bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errConnClosed
	}
	f.msgs = append(f.msgs, v.(message.Outbound))
	return nil
}

func (f *fakeConn) breakConn() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = true
}

// take devolve e limpa as mensagens recebidas.
func (f *fakeConn) take() []message.Outbound {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.msgs
	f.msgs = nil
	return msgs
}

func types(msgs []message.Outbound) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

func expectTypes(t *testing.T, conn *fakeConn, want ...string) []message.Outbound {
	t.Helper()
	msgs := conn.take()
	got := types(msgs)
	if len(got) != len(want) {
		t.Fatalf("%s received %v, want %v", conn.id, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s received %v, want %v", conn.id, got, want)
		}
	}
	return msgs
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// stubRules responde sempre com o mesmo lado a jogar e o mesmo resultado.
type stubRules struct {
	side   rules.Color
	result rules.Result
	calls  int
}

func (s *stubRules) StartingPosition() string { return "start" }

func (s *stubRules) SideToMove(string) (rules.Color, error) { return s.side, nil }

func (s *stubRules) ApplyMove(string, rules.Move) (rules.Result, error) {
	s.calls++
	return s.result, nil
}

func mv(uci string) rules.Move {
	m := rules.Move{From: uci[:2], To: uci[2:4]}
	if len(uci) > 4 {
		m.Promotion = uci[4:]
	}
	return m
}

// activeSession cria uma sessão com white e black sentados e limpa as caixas de entrada.
func activeSession(t *testing.T, c *Coordinator) (id string, white, black *fakeConn) {
	t.Helper()
	white, black = newFakeConn("white"), newFakeConn("black")
	id, err := c.Create(white)
	if err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if err := c.Join(black, id); err != nil {
		t.Fatalf("Join error = %v", err)
	}
	white.take()
	black.take()
	return id, white, black
}
