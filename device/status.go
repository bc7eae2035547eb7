package device

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.jacobcolvin.com/devlog/log"
)

var (
	// ErrAlreadyFinished indicates a [Status] was finished twice.
	ErrAlreadyFinished = errors.New("status already finished")
	// ErrFailed indicates a [Status] finished unsuccessfully.
	ErrFailed = errors.New("status failed")
)

// Status tracks the completion of an operation. It starts pending and
// finishes exactly once, successfully or not.
//
// Its log identity is its [Status.String] form, so records emitted after it
// finishes show the new state.
//
// Create instances with [NewStatus].
type Status struct {
	log       *log.Adapter
	obj       *Object
	done      chan struct{}
	callbacks []func(*Status)
	mu        sync.Mutex
	finished  bool
	success   bool
}

// NewStatus creates a pending [Status].
func NewStatus(opts ...Option) *Status {
	o := newOptions(opts)

	s := &Status{
		obj:  o.obj,
		done: make(chan struct{}),
	}
	s.log = o.manager.Bind(s)

	return s
}

// String describes the status, e.g.
// "Status(obj=motor, done=true, success=true)".
func (s *Status) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.obj == nil {
		return fmt.Sprintf("Status(done=%t, success=%t)", s.finished, s.success)
	}

	return fmt.Sprintf("Status(obj=%s, done=%t, success=%t)", s.obj.Name(), s.finished, s.success)
}

// LogIdentity implements [log.Identifier].
func (s *Status) LogIdentity() (string, error) {
	return s.String(), nil
}

// Log returns the adapter bound to s.
func (s *Status) Log() *log.Adapter {
	return s.log
}

// Done reports whether s has finished.
func (s *Status) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.finished
}

// Success reports whether s finished successfully.
func (s *Status) Success() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.success
}

// Finished marks s as done and runs its callbacks. Finishing twice returns
// [ErrAlreadyFinished].
func (s *Status) Finished(success bool) error {
	s.mu.Lock()

	if s.finished {
		s.mu.Unlock()
		return ErrAlreadyFinished
	}

	s.finished = true
	s.success = success
	callbacks := s.callbacks
	s.callbacks = nil
	close(s.done)

	s.mu.Unlock()

	//nolint:errcheck // A failed log write does not undo the transition.
	s.log.Debug("finished")

	for _, cb := range callbacks {
		cb(s)
	}

	return nil
}

// AddCallback registers fn to run when s finishes. If s has already
// finished, fn runs immediately.
func (s *Status) AddCallback(fn func(*Status)) {
	s.mu.Lock()

	if !s.finished {
		s.callbacks = append(s.callbacks, fn)
		s.mu.Unlock()

		return
	}

	s.mu.Unlock()

	fn(s)
}

// Wait blocks until s finishes or ctx is done. It returns [ErrFailed] if s
// finished unsuccessfully.
func (s *Status) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("wait for %s: %w", s, ctx.Err())
	case <-s.done:
	}

	if !s.Success() {
		return ErrFailed
	}

	return nil
}
