package decoder

// frameQueue is a fixed-capacity FIFO of decoded frames. Pushing onto a full
// queue overwrites the oldest entry.
type frameQueue struct {
	items []FrameExt
	head  int
	size  int
}

func newFrameQueue(capacity int) *frameQueue {
	return &frameQueue{items: make([]FrameExt, capacity)}
}

// push appends x. When the queue was full the displaced oldest frame is
// returned with evicted set.
func (q *frameQueue) push(x FrameExt) (old FrameExt, evicted bool) {
	tail := (q.head + q.size) % len(q.items)
	if q.size == len(q.items) {
		old = q.items[q.head]
		q.items[q.head] = x
		q.head = (q.head + 1) % len(q.items)
		return old, true
	}
	q.items[tail] = x
	q.size++
	return FrameExt{}, false
}

// pop removes and returns the oldest frame.
func (q *frameQueue) pop() (FrameExt, bool) {
	if q.size == 0 {
		return FrameExt{}, false
	}
	x := q.items[q.head]
	q.items[q.head] = FrameExt{}
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return x, true
}

func (q *frameQueue) len() int { return q.size }

func (q *frameQueue) capacity() int { return len(q.items) }

func (q *frameQueue) clear() {
	for i := range q.items {
		q.items[i] = FrameExt{}
	}
	q.head = 0
	q.size = 0
}
