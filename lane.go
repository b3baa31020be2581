package admission

const (
	initialLaneCapacity = 16
)

// lane is a first-in-first-out queue of pending jobs of one priority class.
//
// It is a circular buffer that doubles when full, so Push never drops.
// No priorities, no aging, no reordering.
// lane is not safe for concurrent use; the controller guards it.
type lane struct {
	buf        []*job // circular buffer
	head, tail int    // read/write indices
	size       int    // number of jobs currently buffered
}

func newLane(capacity int) *lane {
	if capacity <= 0 {
		capacity = initialLaneCapacity
	}
	return &lane{buf: make([]*job, capacity)}
}

// Len returns the number of jobs currently waiting in the lane.
func (l *lane) Len() int { return l.size }

// Push inserts a job at the tail of the lane.
func (l *lane) Push(j *job) {
	if l.size == len(l.buf) {
		l.grow()
	}
	l.buf[l.tail] = j
	l.tail++
	if l.tail == len(l.buf) {
		l.tail = 0
	}
	l.size++
}

// Pop removes and returns the oldest job.
//
// If the lane is empty, returns nil and false.
func (l *lane) Pop() (*job, bool) {
	if l.size == 0 {
		return nil, false
	}
	j := l.buf[l.head]
	l.buf[l.head] = nil // no residue for terminal jobs
	l.head++
	if l.head == len(l.buf) {
		l.head = 0
	}
	l.size--
	return j, true
}

func (l *lane) grow() {
	next := make([]*job, 2*len(l.buf))
	n := copy(next, l.buf[l.head:])
	copy(next[n:], l.buf[:l.head])
	l.buf = next
	l.head = 0
	l.tail = l.size
}
