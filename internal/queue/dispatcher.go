package queue

import (
    "context"
    "sync"
    "time"

    "go.uber.org/zap"
)

// Sender is the synchronous side of a Dispatcher; *Publisher implements it.
type Sender interface {
    Publish(ctx context.Context, ev Event) error
}

// Dispatcher publishes events in the background so a request never waits
// on the broker.  Wait lets shutdown drain the events still in flight.
type Dispatcher struct {
    sender  Sender
    timeout time.Duration
    log     *zap.Logger

    mu     sync.Mutex
    closed bool
    wg     sync.WaitGroup
}

// NewDispatcher gives each publish its own timeout, independent of the
// request that produced the event.
func NewDispatcher(s Sender, timeout time.Duration, log *zap.Logger) *Dispatcher {
    return &Dispatcher{sender: s, timeout: timeout, log: log}
}

// Publish queues ev and returns immediately.  Events offered after Wait
// has begun are dropped with a warning.
func (d *Dispatcher) Publish(_ context.Context, ev Event) error {
    d.mu.Lock()
    if d.closed {
        d.mu.Unlock()
        d.log.Warn("event dropped after shutdown", zap.String("type", ev.Type), zap.String("ref", ev.Ref))
        return nil
    }
    d.wg.Add(1)
    d.mu.Unlock()

    go func() {
        defer d.wg.Done()
        ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
        defer cancel()
        _ = d.sender.Publish(ctx, ev)
    }()
    return nil
}

// Wait stops accepting events and blocks until every accepted event has
// been sent or ctx ends.
func (d *Dispatcher) Wait(ctx context.Context) error {
    d.mu.Lock()
    d.closed = true
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
