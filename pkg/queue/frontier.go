package queue

import (
	"container/heap"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Sriram-PR/leakcrawl/pkg/models"
)

// Order selects which discovered item a worker receives next
type Order int

const (
	// LIFO pops the most recently added item first (depth-first traversal)
	LIFO Order = iota
	// FIFO pops the oldest item first (breadth-first traversal)
	FIFO
)

// --- Heap Implementation ---

// frontierItem represents an item in the frontier heap
type frontierItem struct {
	workItem *models.WorkItem
	seq      uint64 // Insertion sequence number
	index    int    // The index of the item in the heap (required by heap interface)
}

// frontierHeap implements heap.Interface ordered by insertion sequence
type frontierHeap struct {
	items []*frontierItem
	order Order
}

func (h frontierHeap) Len() int { return len(h.items) }

func (h frontierHeap) Less(i, j int) bool {
	if h.order == LIFO {
		return h.items[i].seq > h.items[j].seq
	}
	return h.items[i].seq < h.items[j].seq
}

func (h frontierHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].index = i
	h.items[j].index = j
}

// Push adds an element to the heap
func (h *frontierHeap) Push(x any) {
	item := x.(*frontierItem)
	item.index = len(h.items)
	h.items = append(h.items, item)
}

// Pop removes and returns the next element from the heap
func (h *frontierHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil  // avoid memory leak
	item.index = -1 // for safety
	h.items = old[0 : n-1]
	return item
}

// Frontier is the thread-safe set of discovered-but-not-yet-processed work items
type Frontier struct {
	h       frontierHeap
	nextSeq uint64
	mu      sync.Mutex
	cond    *sync.Cond // Condition variable to wait for items
	closed  bool
	log     *logrus.Entry
}

// NewFrontier creates an empty frontier with the given pop order
func NewFrontier(order Order, logger *logrus.Entry) *Frontier {
	f := &Frontier{h: frontierHeap{order: order}, log: logger}
	f.cond = sync.NewCond(&f.mu)
	heap.Init(&f.h)
	return f
}

// Add pushes a work item onto the frontier.
// Returns false if the frontier is closed and the item was dropped.
func (f *Frontier) Add(item *models.WorkItem) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		f.log.Debugf("Attempted to add item to closed frontier: %s", item.URL)
		return false
	}

	heap.Push(&f.h, &frontierItem{workItem: item, seq: f.nextSeq})
	f.nextSeq++
	f.cond.Signal() // Signal one waiting worker that an item is available
	return true
}

// Pop retrieves and removes the next work item
// It blocks if the frontier is empty until an item is added or the frontier is closed
// Returns the item and true, or nil and false once the frontier is closed
func (f *Frontier) Pop() (*models.WorkItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.h.items) == 0 && !f.closed {
		// Wait releases the lock and waits for a Signal/Broadcast; reacquires lock upon waking
		f.cond.Wait()
	}

	// Closing abandons pending items: it only happens when all work is done or the crawl was cancelled
	if f.closed {
		return nil, false
	}

	item := heap.Pop(&f.h).(*frontierItem)
	return item.workItem, true
}

// Close signals that no more items will be handed out and wakes all waiting workers.
// Returns the number of items abandoned.
func (f *Frontier) Close() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0
	}
	f.closed = true
	abandoned := len(f.h.items)
	f.h.items = nil
	f.cond.Broadcast()
	return abandoned
}

// Order returns the frontier's pop order
func (f *Frontier) Order() Order {
	return f.h.order
}

// Len returns the current number of items in the frontier (thread-safe)
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.h.items)
}
