package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const EventCheckoutCompleted = "checkout.completed"

type Event struct {
	ID         string    `json:"eventId"`
	Name       string    `json:"event"`
	UserID     string    `json:"userId"`
	OrderID    string    `json:"orderId,omitempty"`
	Balance    float64   `json:"balance"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewCheckoutCompleted(userID, orderID string, balance float64) Event {
	return Event{
		ID:         uuid.NewString(),
		Name:       EventCheckoutCompleted,
		UserID:     userID,
		OrderID:    orderID,
		Balance:    balance,
		OccurredAt: time.Now().UTC(),
	}
}

// Sink delivers an event to one destination.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e Event) error
}

type DispatcherConfig struct {
	Workers   int
	QueueSize int
}

// Dispatcher fans events out to its sinks from a bounded queue. Notify never
// blocks and delivery failures are only logged.
type Dispatcher struct {
	sinks   []Sink
	workers int
	logger  *log.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Event
}

func NewDispatcher(cfg DispatcherConfig, logger *log.Logger, sinks ...Sink) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	return &Dispatcher{
		sinks:   sinks,
		workers: cfg.Workers,
		logger:  logger,
		queue:   make(chan Event, cfg.QueueSize),
	}
}

// Notify enqueues e. A full queue or a closed dispatcher drops the event.
func (d *Dispatcher) Notify(_ context.Context, e Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Printf("notify: dispatcher closed, dropping %s event %s", e.Name, e.ID)
		return
	}

	select {
	case d.queue <- e:
	default:
		d.logger.Printf("notify: queue full, dropping %s event %s", e.Name, e.ID)
	}
}

// Run delivers queued events until Close is called and the queue is drained.
func (d *Dispatcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for e := range d.queue {
				d.deliver(ctx, e)
			}
			return nil
		})
	}
	return g.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, e Event) {
	for _, s := range d.sinks {
		if err := s.Deliver(ctx, e); err != nil {
			d.logger.Printf("notify: %s delivery of %s event %s failed: %v", s.Name(), e.Name, e.ID, err)
		}
	}
}

// Close stops accepting events. Run returns once queued events are delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.closed = true
	close(d.queue)
}
