package arb

import "github.com/arbworks/crossbook/internal/domain"

// Queue is an unbounded FIFO hand-off between the detector and the
// executor. Publish never blocks on a slow consumer; opportunities are
// buffered in memory and delivered in publish order. Production rate is
// bounded by catalog size times scan interval, so the buffer stays small in
// practice.
type Queue struct {
	in  chan domain.ArbOpportunity
	out chan domain.ArbOpportunity
}

// NewQueue creates the queue and starts its pump goroutine. The pump exits
// after Close once the buffer drains.
func NewQueue() *Queue {
	q := &Queue{
		in:  make(chan domain.ArbOpportunity),
		out: make(chan domain.ArbOpportunity),
	}
	go q.pump()
	return q
}

func (q *Queue) pump() {
	defer close(q.out)
	var buf []domain.ArbOpportunity
	in := q.in
	for in != nil || len(buf) > 0 {
		var out chan domain.ArbOpportunity
		var head domain.ArbOpportunity
		if len(buf) > 0 {
			out = q.out
			head = buf[0]
		}
		select {
		case opp, ok := <-in:
			if !ok {
				in = nil
				continue
			}
			buf = append(buf, opp)
		case out <- head:
			buf = buf[1:]
		}
	}
}

// Publish enqueues an opportunity. It must not be called after Close.
func (q *Queue) Publish(opp domain.ArbOpportunity) {
	q.in <- opp
}

// Recv returns the consumer side. The channel is closed after Close once
// all buffered opportunities have been delivered.
func (q *Queue) Recv() <-chan domain.ArbOpportunity {
	return q.out
}

// Close stops accepting new opportunities. Buffered ones are still
// delivered before the Recv channel closes.
func (q *Queue) Close() {
	close(q.in)
}
