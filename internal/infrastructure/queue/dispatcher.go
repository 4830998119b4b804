package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/anu235shka/movies-task/internal/api/metrics"
	"github.com/anu235shka/movies-task/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// ErrClosed is returned when a notification is enqueued after Close.
var ErrClosed = errors.New("dispatcher closed")

type otpMessage struct {
	email    string
	code     string
	enqueued time.Time
}

// Dispatcher delivers OTP notifications asynchronously through a fixed set of
// workers. Messages are sharded by email so codes for one address are
// delivered in the order they were issued.
//
// Dispatcher implements ports.OTPNotifier, so the auth service can use it in
// place of the underlying notifier.
type Dispatcher struct {
	workers  []chan otpMessage
	notifier ports.OTPNotifier
	log      zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.OTPNotifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan otpMessage, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan otpMessage, channelBuffer)
	}
	return d
}

// Start launches the workers. ctx is handed to the notifier on every delivery;
// workers themselves run until Close.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// NotifyOTP enqueues the code for delivery. It blocks while the worker's
// buffer is full and gives up when ctx is done.
func (d *Dispatcher) NotifyOTP(ctx context.Context, email, code string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	idx := d.shardIndex(email)
	// Count before the send so the worker's Dec can never run first.
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case d.workers[idx] <- otpMessage{email: email, code: code, enqueued: time.Now()}:
		return nil
	case <-ctx.Done():
		depth.Dec()
		return ctx.Err()
	}
}

// Close stops intake and waits until every queued notification is delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan otpMessage) {
	defer d.wg.Done()
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))

	for msg := range ch {
		depth.Dec()
		result := "sent"
		if err := d.notifier.NotifyOTP(ctx, msg.email, msg.code); err != nil {
			result = "error"
			d.log.Error().Err(err).
				Str("email", msg.email).
				Int("worker_id", id).
				Msg("otp delivery failed")
		}
		metrics.NotificationDuration.WithLabelValues(result).Observe(time.Since(msg.enqueued).Seconds())
	}
}
