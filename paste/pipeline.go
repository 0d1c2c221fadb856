package paste

import (
	"container/heap"
	"sync"
)

const (
	// PriorityCompat runs ahead of the filters, it is where environment quirks are fixed up
	PriorityCompat = 5
	// PriorityDefault is the priority normal paste processing runs at
	PriorityDefault = 10
)

// Event is a captured paste. Listeners may rewrite DataValue before it is filtered.
type Event struct {
	// Type is the kind of captured data, "html" for markup pastes
	Type      string
	DataValue string
}

// Listener is the registration handle returned by the pipeline.
type Listener interface {
	// Remove deregisters the listener; it is safe to call more than once
	Remove()
}

type listener struct {
	priority int
	seq      uint64
	fn       func(*Event)
	once     bool
	fired    bool
	index    int // for heap interface
}

type listenerHeap []*listener

func (h listenerHeap) Len() int { return len(h) }
func (h listenerHeap) Less(i, j int) bool {
	if h[i].priority == h[j].priority {
		return h[i].seq < h[j].seq
	}
	return h[i].priority < h[j].priority
}
func (h listenerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *listenerHeap) Push(x any) {
	n := len(*h)
	item := x.(*listener)
	item.index = n
	*h = append(*h, item)
}

func (h *listenerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	*h = old[0 : n-1]
	return item
}

// Pipeline dispatches paste events to listeners in priority order, lowest first and in
// registration order among equal priorities. The zero value is ready to use.
type Pipeline struct {
	mu        sync.Mutex
	listeners listenerHeap
	seq       uint64
}

// On registers a listener that fires for every event.
func (p *Pipeline) On(priority int, fn func(*Event)) Listener {
	return p.add(priority, fn, false)
}

// Once registers a listener that fires for the next event only and then deregisters itself.
func (p *Pipeline) Once(priority int, fn func(*Event)) Listener {
	return p.add(priority, fn, true)
}

func (p *Pipeline) add(priority int, fn func(*Event), once bool) Listener {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.seq++
	l := &listener{
		priority: priority,
		seq:      p.seq,
		fn:       fn,
		once:     once,
	}
	heap.Push(&p.listeners, l)
	return &handle{pipeline: p, listener: l}
}

// Len returns the number of registered listeners.
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.listeners.Len()
}

// Fire delivers the event and returns the number of listeners that ran.
func (p *Pipeline) Fire(ev *Event) int {
	p.mu.Lock()
	ordered := make([]*listener, 0, p.listeners.Len())
	for p.listeners.Len() > 0 {
		ordered = append(ordered, heap.Pop(&p.listeners).(*listener))
	}
	var due []*listener
	for _, l := range ordered {
		if l.once {
			if l.fired {
				continue
			}
			l.fired = true
		} else {
			heap.Push(&p.listeners, l)
		}
		due = append(due, l)
	}
	p.mu.Unlock()

	for _, l := range due {
		l.fn(ev)
	}
	return len(due)
}

func (p *Pipeline) remove(l *listener) {
	p.mu.Lock()
	defer p.mu.Unlock()

	l.fired = l.fired || l.once
	if l.index >= 0 && l.index < p.listeners.Len() && p.listeners[l.index] == l {
		heap.Remove(&p.listeners, l.index)
	}
}

type handle struct {
	pipeline *Pipeline
	listener *listener
}

func (h *handle) Remove() {
	h.pipeline.remove(h.listener)
}
