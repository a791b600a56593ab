package chat

import (
	"context"
	"log"
	"time"
)

const DefaultPollInterval = 3 * time.Second

// Poller periodically re-reads one conversation and hands new messages
// to a callback. It is the pull-based stand-in for a push channel and
// stops as soon as its context is cancelled.
type Poller struct {
	svc      *Service
	interval time.Duration
}

func NewPoller(svc *Service, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{svc: svc, interval: interval}
}

// Run blocks until ctx is cancelled, invoking fn with messages that
// arrived since the previous tick. Transient read errors skip the tick
// rather than ending the poll.
func (p *Poller) Run(ctx context.Context, meID, friendID string, fn func([]Message)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var lastSeen time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			messages, err := p.svc.Messages(ctx, meID, friendID)
			if err != nil {
				log.Printf("chat poll %s<->%s: %v", meID, friendID, err)
				continue
			}
			fresh := make([]Message, 0)
			for _, msg := range messages {
				if msg.CreatedAt.After(lastSeen) {
					fresh = append(fresh, msg)
					lastSeen = msg.CreatedAt
				}
			}
			if len(fresh) > 0 {
				fn(fresh)
			}
		}
	}
}
