package session

import (
	"context"
	"time"
)

// DefaultTickInterval is how often the runner polls the transport.
const DefaultTickInterval = 50 * time.Millisecond

// Runner owns the single goroutine the machine runs on. Each tick drains
// all pending inbound events in delivery order and fires the due timer,
// then runs the intents queued during that tick. Other goroutines talk to
// the machine only by enqueuing closures.
type Runner struct {
	machine *Machine
	intents chan func(*Machine)
	tick    time.Duration
}

// NewRunner wraps a machine. The machine must not be touched directly once
// the runner starts.
func NewRunner(m *Machine) *Runner {
	return &Runner{
		machine: m,
		intents: make(chan func(*Machine), 64),
		tick:    DefaultTickInterval,
	}
}

// SetTickInterval overrides the polling cadence.
func (r *Runner) SetTickInterval(d time.Duration) {
	r.tick = d
}

// Do enqueues an intent to run on the session loop. It blocks only when
// the intent queue is full.
func (r *Runner) Do(fn func(*Machine)) {
	r.intents <- fn
}

// Snapshot fetches a consistent view of session state via a loop
// round-trip.
func (r *Runner) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case r.intents <- func(m *Machine) { reply <- m.Snapshot() }:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Run drives the loop until the context is canceled.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.step()
		}
	}
}

// step is one loop iteration: inbound events and the timer first, then
// the intents queued so far.
func (r *Runner) step() {
	r.machine.Tick()
	for {
		select {
		case fn := <-r.intents:
			fn(r.machine)
		default:
			return
		}
	}
}
