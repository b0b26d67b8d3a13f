package incumbent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Sink consumes incumbent improvements, e.g. to write certificate snapshots.
type Sink interface {
	Improved(e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(e Event)

// Improved implements Sink.
func (f SinkFunc) Improved(e Event) { f(e) }

// LogSink returns a Sink writing one structured record per event.
func LogSink(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}

	return SinkFunc(func(e Event) {
		logger.LogAttrs(context.Background(), slog.LevelInfo, "incumbent improved",
			slog.String("run_id", e.RunID.String()),
			slog.Int("seq", e.Seq),
			slog.Float64("cost", e.Cost),
			slog.Duration("elapsed", e.Elapsed),
			slog.String("algorithm", e.Algorithm),
			slog.String("comment", e.Comment),
		)
	})
}

// Reporter forwards events to a Sink on a dedicated goroutine.
type Reporter struct {
	sink    Sink
	limiter *rate.Limiter

	mu    sync.Mutex
	queue []Event

	wake      chan struct{}
	done      chan struct{}
	finished  chan struct{}
	closeOnce sync.Once

	delivered int
}

// NewReporter starts a reporter. interval > 0 throttles deliveries to at
// most one per interval; the most recent throttled event is delivered as
// soon as the interval allows it.
func NewReporter(sink Sink, interval time.Duration) *Reporter {
	r := &Reporter{
		sink:     sink,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
	if interval > 0 {
		r.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	go r.loop()

	return r
}

// Publish enqueues e. It never blocks on the sink.
func (r *Reporter) Publish(e Event) {
	r.mu.Lock()
	r.queue = append(r.queue, e)
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Close flushes the queue, delivers the latest throttled event and stops
// the goroutine. It returns the number of events delivered.
func (r *Reporter) Close() int {
	r.closeOnce.Do(func() { close(r.done) })
	<-r.finished

	return r.delivered
}

// loop delivers queued events. An event refused by the limiter is held in
// pending and delivered when the limiter's reservation matures, unless a
// newer event replaces it first.
func (r *Reporter) loop() {
	var (
		pending *Event
		timer   *time.Timer
		due     <-chan time.Time
	)
	defer close(r.finished)

	for {
		select {
		case <-r.wake:
			pending = r.drain(pending)
		case <-due:
			timer, due = nil, nil
			if pending != nil {
				r.deliver(*pending)
				pending = nil
			}
		case <-r.done:
			if timer != nil {
				timer.Stop()
			}
			pending = r.drain(pending)
			if pending != nil {
				r.deliver(*pending)
			}

			return
		}

		if pending != nil && timer == nil {
			timer = time.NewTimer(r.limiter.Reserve().Delay())
			due = timer.C
		}
	}
}

func (r *Reporter) drain(pending *Event) *Event {
	r.mu.Lock()
	batch := r.queue
	r.queue = nil
	r.mu.Unlock()

	for i := range batch {
		if r.limiter == nil || r.limiter.Allow() {
			r.deliver(batch[i])
			pending = nil

			continue
		}
		ev := batch[i]
		pending = &ev
	}

	return pending
}

func (r *Reporter) deliver(e Event) {
	if r.sink != nil {
		r.sink.Improved(e)
	}
	r.delivered++
}
