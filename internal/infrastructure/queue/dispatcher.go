package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yamdb/review-api/internal/core/ports"
	"github.com/yamdb/review-api/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	sendTimeout    = 30 * time.Second
)

// Dispatcher delivers mail in the background through a fixed set of workers.
// Messages are sharded by recipient so mail to one address goes out in the
// order it was queued.
type Dispatcher struct {
	workers []chan ports.MailMessage
	sender  ports.MailSender
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ports.MailSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.MailMessage, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MailMessage, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Close once their queues are drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands msg to the worker responsible for its recipient. It never
// blocks: when that worker's queue is full, or the dispatcher is closed, the
// message is dropped and counted.
func (d *Dispatcher) Enqueue(msg ports.MailMessage) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(msg, "dispatcher closed")
		return
	}

	idx := d.shardIndex(msg.To)
	select {
	case d.workers[idx] <- msg:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(msg, "queue full")
	}
}

// Close stops accepting messages and waits for workers to drain what is
// already queued, or for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) drop(msg ports.MailMessage, reason string) {
	metrics.MailDroppedTotal.Inc()
	d.log.Warn().Str("to", msg.To).Str("subject", msg.Subject).Str("reason", reason).Msg("mail dropped")
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipient string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipient))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MailMessage) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			metrics.MailQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.deliver(ctx, id, msg)
		}
	}
}

// deliver makes a single attempt. Failures are logged and not retried.
func (d *Dispatcher) deliver(ctx context.Context, id int, msg ports.MailMessage) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	start := time.Now()
	err := d.sender.Send(sendCtx, msg)
	metrics.MailDeliveryDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.MailDeliveriesTotal.WithLabelValues("failed").Inc()
		d.log.Error().Err(err).
			Str("to", msg.To).
			Int("worker_id", id).
			Msg("mail delivery failed")
		return
	}
	metrics.MailDeliveriesTotal.WithLabelValues("sent").Inc()
	d.log.Debug().Str("to", msg.To).Int("worker_id", id).Msg("mail sent")
}

var _ ports.MailQueue = (*Dispatcher)(nil)
