package spectator

import (
	"encoding/json"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Message is the websocket envelope.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Publisher throttles snapshots to the hub and keeps the last one published
// for plain HTTP polling.
type Publisher struct {
	hub     *Hub
	limiter *rate.Limiter

	mu     sync.RWMutex
	latest []byte
}

// NewPublisher allows hz broadcasts per second. hz <= 0 publishes every call.
func NewPublisher(hub *Hub, hz float64) *Publisher {
	limit := rate.Inf
	if hz > 0 {
		limit = rate.Limit(hz)
	}
	return &Publisher{hub: hub, limiter: rate.NewLimiter(limit, 1)}
}

// Publish marshals and broadcasts snapshot when the limiter allows it. It
// reports whether the snapshot went out.
func (p *Publisher) Publish(snapshot any) (bool, error) {
	return p.publishAt(time.Now(), snapshot, false)
}

// Flush publishes snapshot regardless of the limiter, for the final state.
func (p *Publisher) Flush(snapshot any) error {
	_, err := p.publishAt(time.Now(), snapshot, true)
	return err
}

func (p *Publisher) publishAt(now time.Time, snapshot any, force bool) (bool, error) {
	if !force && !p.limiter.AllowN(now, 1) {
		return false, nil
	}
	state, err := json.Marshal(snapshot)
	if err != nil {
		return false, err
	}
	msg, err := json.Marshal(Message{Event: "arena:state", Data: json.RawMessage(state)})
	if err != nil {
		return false, err
	}

	p.mu.Lock()
	p.latest = state
	p.mu.Unlock()

	if p.hub != nil {
		p.hub.Broadcast(msg)
	}
	return true, nil
}

// Latest returns the last published snapshot as JSON, nil before the first.
func (p *Publisher) Latest() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}
