package session

import "time"

// scheduler is a single-slot deferred callback running on the session
// loop. Scheduling supersedes any pending callback: only the most recent
// "return to previous state" timer is honored. Never a blocking sleep.
type scheduler struct {
	now      func() time.Time
	deadline time.Time
	fn       func()
	pending  bool
}

func (s *scheduler) schedule(d time.Duration, fn func()) {
	s.deadline = s.now().Add(d)
	s.fn = fn
	s.pending = true
}

func (s *scheduler) cancel() {
	s.pending = false
	s.fn = nil
}

// fire runs the callback once its deadline has passed. Called every tick.
func (s *scheduler) fire() {
	if !s.pending || s.now().Before(s.deadline) {
		return
	}
	fn := s.fn
	s.cancel()
	fn()
}
