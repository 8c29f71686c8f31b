package audit

import (
	"log/slog"
	"sync"
)

type Event struct {
	ActorID  *string
	Action   string
	Entity   string
	EntityID *string
	Metadata any
}

// Dispatcher writes audit events from a single background goroutine so a
// slow or failing audit table never blocks a request.
type Dispatcher struct {
	logger *Logger
	log    *slog.Logger
	queue  chan Event

	wg   sync.WaitGroup
	once sync.Once
}

func NewDispatcher(logger *Logger, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.logger.Log(ev); err != nil {
			d.log.Error("audit write failed", "action", ev.Action, "err", err)
		}
	}
}

// Dispatch never blocks. A nil dispatcher discards the event.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains queued events and stops the worker.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() {
		close(d.queue)
		d.wg.Wait()
	})
}
