package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls map[string][]string
	err   error
	block chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{calls: map[string][]string{}}
}

func (n *recordingNotifier) NotifyOTP(_ context.Context, email, code string) error {
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls[email] = append(n.calls[email], code)
	return n.err
}

func (n *recordingNotifier) codes(email string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls[email]...)
}

func TestDispatcher_DeliversInOrderPerEmail(t *testing.T) {
	notifier := newRecordingNotifier()
	d := NewDispatcher(3, notifier, zerolog.Nop())
	d.Start(context.Background())

	ctx := context.Background()
	for _, code := range []string{"111111", "222222", "333333"} {
		if err := d.NotifyOTP(ctx, "a@example.com", code); err != nil {
			t.Fatalf("NotifyOTP: %v", err)
		}
	}
	if err := d.NotifyOTP(ctx, "b@example.com", "444444"); err != nil {
		t.Fatalf("NotifyOTP: %v", err)
	}
	d.Close()

	got := notifier.codes("a@example.com")
	want := []string{"111111", "222222", "333333"}
	if len(got) != len(want) {
		t.Fatalf("expected %d deliveries, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivery %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if b := notifier.codes("b@example.com"); len(b) != 1 || b[0] != "444444" {
		t.Fatalf("unexpected deliveries for b: %v", b)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(5, newRecordingNotifier(), zerolog.Nop())
	first := d.shardIndex("same@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("same@example.com"); got != first {
			t.Fatalf("shard changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 5 {
		t.Fatalf("shard out of range: %d", first)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, newRecordingNotifier(), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_RejectsAfterClose(t *testing.T) {
	d := NewDispatcher(1, newRecordingNotifier(), zerolog.Nop())
	d.Start(context.Background())
	d.Close()
	d.Close()

	if err := d.NotifyOTP(context.Background(), "a@example.com", "123456"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestDispatcher_NotifierErrorDoesNotStopWorker(t *testing.T) {
	notifier := newRecordingNotifier()
	notifier.err = errors.New("smtp down")
	d := NewDispatcher(1, notifier, zerolog.Nop())
	d.Start(context.Background())

	_ = d.NotifyOTP(context.Background(), "a@example.com", "111111")
	_ = d.NotifyOTP(context.Background(), "a@example.com", "222222")
	d.Close()

	if got := notifier.codes("a@example.com"); len(got) != 2 {
		t.Fatalf("expected both attempts, got %v", got)
	}
}

func TestDispatcher_EnqueueHonoursContext(t *testing.T) {
	notifier := newRecordingNotifier()
	notifier.block = make(chan struct{})
	d := NewDispatcher(1, notifier, zerolog.Nop())
	d.Start(context.Background())

	// One message held by the worker plus a full buffer.
	for i := 0; i < channelBuffer+1; i++ {
		if err := d.NotifyOTP(context.Background(), "a@example.com", "111111"); err != nil {
			t.Fatalf("fill %d: %v", i, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.NotifyOTP(ctx, "a@example.com", "999999"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	close(notifier.block)
	d.Close()
}

func TestDispatcher_QueueDepthTracksPendingMessages(t *testing.T) {
	base := queueDepth(t, "0")

	notifier := newRecordingNotifier()
	notifier.block = make(chan struct{})
	d := NewDispatcher(1, notifier, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < channelBuffer+1; i++ {
		if err := d.NotifyOTP(context.Background(), "a@example.com", "111111"); err != nil {
			t.Fatalf("fill %d: %v", i, err)
		}
	}

	// The worker holds one message; the rest sit in the buffer.
	want := base + channelBuffer
	deadline := time.Now().Add(time.Second)
	for queueDepth(t, "0") != want {
		if time.Now().After(deadline) {
			t.Fatalf("depth = %v, want %v", queueDepth(t, "0"), want)
		}
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := d.NotifyOTP(ctx, "a@example.com", "999999"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if got := queueDepth(t, "0"); got != want {
		t.Fatalf("abandoned enqueue must not change depth: got %v, want %v", got, want)
	}

	close(notifier.block)
	d.Close()
	if got := queueDepth(t, "0"); got != base {
		t.Fatalf("drained depth = %v, want %v", got, base)
	}
}

// queueDepth reads the pending-notification gauge of one worker from the
// default registry.
func queueDepth(t *testing.T, worker string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "catalog_notification_queue_depth" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "worker_id" && l.GetValue() == worker {
					return m.GetGauge().GetValue()
				}
			}
		}
	}
	return 0
}
