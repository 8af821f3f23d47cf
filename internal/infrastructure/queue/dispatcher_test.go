package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/yamdb/review-api/internal/core/ports"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []ports.MailMessage
	fail  bool
	block chan struct{}
}

func (s *recordingSender) Send(ctx context.Context, msg ports.MailMessage) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) bodies() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	for i, m := range s.sent {
		out[i] = m.Body
	}
	return out
}

func TestDispatcher_DeliversInOrderPerRecipient(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(4, sender, zerolog.Nop())
	d.Start(context.Background())

	for _, body := range []string{"1", "2", "3"} {
		d.Enqueue(ports.MailMessage{To: "a@x.io", Subject: "s", Body: body})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := sender.bodies()
	want := []string{"1", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("expected %d deliveries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivery %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(1, sender, zerolog.Nop())
	// Workers are not started, so the single queue fills up.

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue(ports.MailMessage{To: "a@x.io"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	if n := len(d.workers[0]); n != channelBuffer {
		t.Fatalf("expected queue at capacity %d, got %d", channelBuffer, n)
	}
}

func TestDispatcher_FailuresAreNotRetried(t *testing.T) {
	sender := &recordingSender{fail: true}
	d := NewDispatcher(1, sender, zerolog.Nop())
	d.Start(context.Background())

	d.Enqueue(ports.MailMessage{To: "a@x.io"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n := len(sender.bodies()); n != 0 {
		t.Fatalf("expected no successful deliveries, got %d", n)
	}
}

func TestDispatcher_EnqueueAfterCloseIsDropped(t *testing.T) {
	d := NewDispatcher(1, &recordingSender{}, zerolog.Nop())
	d.Start(context.Background())
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	d.Enqueue(ports.MailMessage{To: "a@x.io"}) // must not panic on a closed channel
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingSender{}, zerolog.Nop())
	first := d.shardIndex("someone@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("someone@example.com"); got != first {
			t.Fatalf("shard changed from %d to %d", first, got)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard %d out of range", first)
	}
}
