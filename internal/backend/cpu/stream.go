package cpu

import "sync"

// copyStream runs queued jobs one after another, in submission order, off
// the caller's goroutine. Each job waits on the completion channel of the
// job before it, so no worker goroutine outlives the queue.
type copyStream struct {
	mu   sync.Mutex
	tail chan struct{}
	err  error
}

func (s *copyStream) enqueue(job func() error) {
	done := make(chan struct{})

	s.mu.Lock()
	prev := s.tail
	s.tail = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		if prev != nil {
			<-prev
		}
		if err := job(); err != nil {
			s.mu.Lock()
			if s.err == nil {
				s.err = err
			}
			s.mu.Unlock()
		}
	}()
}

// synchronize blocks until the last enqueued job has finished, then
// returns and clears the first recorded error.
func (s *copyStream) synchronize() error {
	s.mu.Lock()
	tail := s.tail
	s.mu.Unlock()

	if tail != nil {
		<-tail
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.err
	s.err = nil
	return err
}
