// Package schedule runs delayed and periodic actions against an explicit clock.
//
// Nothing here starts a goroutine: the owner calls Advance with the current
// time and every task due by then runs on the caller's goroutine, in fire-time
// order. Cancelling a token guarantees its action never runs again.
package schedule

import (
	"container/heap"
	"time"
)

// Token identifies a scheduled task. The zero Token is never issued.
type Token uint64

// Scheduler is a min-heap of pending tasks keyed by fire time.
// It is not safe for concurrent use; the engine guards it with its own lock.
type Scheduler struct {
	now     time.Time
	queue   taskQueue
	live    map[Token]*task
	nextTok Token
	seq     uint64
}

type task struct {
	at     time.Time
	seq    uint64 // FIFO among equal fire times
	token  Token
	period time.Duration // 0 = one-shot
	action func()
	index  int
}

// New creates a scheduler whose clock starts at now.
func New(now time.Time) *Scheduler {
	return &Scheduler{
		now:  now,
		live: make(map[Token]*task),
	}
}

// Now returns the time of the last Advance (or creation).
func (s *Scheduler) Now() time.Time {
	return s.now
}

// After runs action once, delay after the scheduler's current time.
func (s *Scheduler) After(delay time.Duration, action func()) Token {
	return s.push(s.now.Add(delay), 0, action)
}

// Every runs action every period, first firing one period from now.
// Fire times stay on the grid started here. An Advance that lands several
// periods late fires the task once, at the latest grid point due, and drops
// the rest like time.Ticker does.
func (s *Scheduler) Every(period time.Duration, action func()) Token {
	if period <= 0 {
		period = time.Millisecond
	}
	return s.push(s.now.Add(period), period, action)
}

// Cancel removes a pending task. Cancelling an unknown or already fired
// one-shot token is a no-op. Reports whether anything was removed.
func (s *Scheduler) Cancel(tok Token) bool {
	t, ok := s.live[tok]
	if !ok {
		return false
	}
	delete(s.live, tok)
	if t.index >= 0 {
		heap.Remove(&s.queue, t.index)
	}
	return true
}

// Pending reports whether tok is still scheduled.
func (s *Scheduler) Pending(tok Token) bool {
	_, ok := s.live[tok]
	return ok
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	return len(s.live)
}

// Next returns the fire time of the earliest pending task.
func (s *Scheduler) Next() (time.Time, bool) {
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].at, true
}

// Advance moves the clock to now and runs every task due at or before it.
// Tasks scheduled by a running action are eligible in the same call if due.
// Returns the number of actions run.
func (s *Scheduler) Advance(now time.Time) int {
	if now.Before(s.now) {
		now = s.now
	}
	ran := 0
	for len(s.queue) > 0 {
		t := s.queue[0]
		if t.at.After(now) {
			break
		}
		heap.Pop(&s.queue)

		if t.period > 0 {
			if late := now.Sub(t.at); late >= t.period {
				t.at = t.at.Add(late / t.period * t.period)
			}
		}

		// Actions see the clock at their own fire time so nested After calls
		// are relative to when they logically ran.
		s.now = t.at
		if t.period > 0 {
			t.at = t.at.Add(t.period)
			t.seq = s.bump()
			heap.Push(&s.queue, t)
		} else {
			delete(s.live, t.token)
		}
		t.action()
		ran++
	}
	s.now = now
	return ran
}

// Clear cancels everything.
func (s *Scheduler) Clear() {
	s.queue = s.queue[:0]
	s.live = make(map[Token]*task)
}

func (s *Scheduler) push(at time.Time, period time.Duration, action func()) Token {
	s.nextTok++
	t := &task{
		at:     at,
		seq:    s.bump(),
		token:  s.nextTok,
		period: period,
		action: action,
	}
	s.live[t.token] = t
	heap.Push(&s.queue, t)
	return t.token
}

func (s *Scheduler) bump() uint64 {
	s.seq++
	return s.seq
}

// taskQueue implements heap.Interface
type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
