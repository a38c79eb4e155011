package session

import (
	"context"
	"time"

	"xadrez/internal/events"
	"xadrez/internal/session/message"
)

// ReapIdle abandona as sessões sem atividade há pelo menos ttl.
// Quem ainda estiver sentado recebe um `error` avisando da expiração.
// Retorna quantas sessões foram descartadas.
func (c *Coordinator) ReapIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	now := c.now()
	reaped := 0
	for _, room := range c.store.Rooms() {
		out, expired := c.expire(room, now, ttl)
		if expired {
			reaped++
			c.flush(out)
		}
	}
	return reaped
}

func (c *Coordinator) expire(room *GameRoom, now time.Time, ttl time.Duration) (*outbox, bool) {
	room.mu.Lock()
	defer room.mu.Unlock()

	if room.status == StatusAbandoned || now.Sub(room.lastActive) < ttl {
		return nil, false
	}
	remaining := room.occupied()
	room.status = StatusAbandoned
	c.store.Remove(room.ID, room.connIDs()...)
	room.seats = [2]Conn{}

	c.logger.Info("session expired", "session", room.ID, "idle", now.Sub(room.lastActive).String())
	out := &outbox{}
	c.record(out, events.Event{Type: events.Abandoned, SessionID: room.ID, FEN: room.position, Reason: "idle"})
	for _, p := range remaining {
		out.send(p, message.Error(message.ErrTextExpired))
	}
	return out, true
}

// RunReaper roda ReapIdle a cada interval até ctx ser cancelado.
func (c *Coordinator) RunReaper(ctx context.Context, interval, ttl time.Duration) {
	if ttl <= 0 || interval <= 0 {
		return
	}
	c.logger.Info("idle reaper started", "interval", interval.String(), "ttl", ttl.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.ReapIdle(ttl); n > 0 {
				c.logger.Info("reaped idle sessions", "count", n, "live", c.Count())
			}
		}
	}
}
