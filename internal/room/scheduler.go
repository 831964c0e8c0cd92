package room

import (
	"sync"
	"time"
)

// sweepInterval is how often the inactivity sweep runs, independent of the
// configured tick rate.
const sweepInterval = 30 * time.Second

// job is an owned periodic timer. It is acquired by startJob and must be
// released with stop; an unreleased job keeps a disposed room alive.
type job struct {
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func startJob(interval time.Duration, fn func(now time.Time)) *job {
	j := &job{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go func() {
		defer close(j.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-j.stop:
				return
			case now := <-ticker.C:
				fn(now)
			}
		}
	}()
	return j
}

// Stop cancels the timer and waits for the job goroutine to exit. Safe to
// call more than once.
func (j *job) Stop() {
	if j == nil {
		return
	}
	j.stopOnce.Do(func() { close(j.stop) })
	<-j.done
}

// Scheduler drives the two periodic jobs of a room: the domain tick and the
// inactivity sweep. Callbacks are enqueued onto the room's event loop so
// timer firings serialize with every other mutation.
type Scheduler struct {
	tick  *job
	sweep *job
}

// startScheduler launches the jobs. The tick job only runs when rate > 0;
// the sweep always runs. Rates above 1000 clamp to a 1ms interval, the
// finest the ticker supports.
func startScheduler(rate int, tick, sweep func(now time.Time)) *Scheduler {
	s := &Scheduler{}
	if rate > 0 {
		interval := time.Second / time.Duration(rate)
		if interval < time.Millisecond {
			interval = time.Millisecond
		}
		s.tick = startJob(interval, tick)
	}
	s.sweep = startJob(sweepInterval, sweep)
	return s
}

// Stop cancels both jobs. Idempotent.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	s.tick.Stop()
	s.sweep.Stop()
}
