package chat

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/leanderkyvelos-create/MoodCam/internal/profile"
)

func TestNewPollerDefaultInterval(t *testing.T) {
	p := NewPoller(nil, 0)
	if p.interval != DefaultPollInterval {
		t.Fatalf("expected default interval, got %v", p.interval)
	}
}

func TestPollerDeliversNewMessages(t *testing.T) {
	mock := newMock(t)

	rows := pgxmock.NewRows(messageColumns).
		AddRow("m1", "bob", "alice", "hi", nil, time.Now(),
			nil, nil, nil, nil, nil, nil, nil)
	mock.ExpectQuery(`FROM messages m`).
		WithArgs("alice", "bob").
		WillReturnRows(rows)

	svc := NewService(mock, profile.NewService(mock, nil))
	poller := NewPoller(svc, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	delivered := make(chan []Message, 1)
	done := make(chan struct{})
	go func() {
		poller.Run(ctx, "alice", "bob", func(msgs []Message) {
			select {
			case delivered <- msgs:
			default:
			}
			cancel()
		})
		close(done)
	}()

	select {
	case msgs := <-delivered:
		if len(msgs) != 1 || msgs[0].ID != "m1" {
			t.Fatalf("unexpected delivery: %+v", msgs)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("poller never delivered")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not stop on cancel")
	}
}

func TestPollerStopsOnCancel(t *testing.T) {
	mock := newMock(t)
	svc := NewService(mock, profile.NewService(mock, nil))
	poller := NewPoller(svc, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		poller.Run(ctx, "alice", "bob", func([]Message) {
			t.Errorf("callback must not fire after cancel")
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("poller did not stop")
	}
}
