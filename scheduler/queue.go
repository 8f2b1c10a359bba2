package scheduler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/delaneyj/deepwatch/reactive"
)

// MaxUpdateCount bounds how often one watcher may run within a single flush
// before the flush is treated as an infinite update loop.
const MaxUpdateCount = 100

var ErrInfiniteUpdate = errors.New("scheduler: possible infinite update loop")

// Queue collects scheduled watchers and runs them on Flush in creation order,
// so that parents run before children and computed values before their
// consumers.
type Queue struct {
	queue    []*reactive.Watcher
	has      map[uint64]bool
	circular map[uint64]int
	flushing bool
	index    int
}

func New() *Queue {
	return &Queue{
		has:      map[uint64]bool{},
		circular: map[uint64]int{},
	}
}

func (q *Queue) Schedule(w *reactive.Watcher) {
	id := w.ID()
	if q.has[id] {
		return
	}
	q.has[id] = true
	if !q.flushing {
		q.queue = append(q.queue, w)
		return
	}
	// keep the in-flight flush sorted: insert after the last watcher with a
	// smaller id that has not run yet
	i := len(q.queue) - 1
	for i > q.index && q.queue[i].ID() > id {
		i--
	}
	q.queue = append(q.queue, nil)
	copy(q.queue[i+2:], q.queue[i+1:])
	q.queue[i+1] = w
}

func (q *Queue) Len() int {
	return len(q.queue) - q.index
}

// Flush runs every queued watcher, including the ones scheduled while
// flushing. The first error stops the flush and leaves the queue reset.
func (q *Queue) Flush() error {
	if q.flushing {
		return nil
	}
	q.flushing = true
	defer q.reset()

	sort.SliceStable(q.queue, func(i, j int) bool {
		return q.queue[i].ID() < q.queue[j].ID()
	})

	for q.index = 0; q.index < len(q.queue); q.index++ {
		w := q.queue[q.index]
		w.Before()
		id := w.ID()
		delete(q.has, id)
		if err := w.Run(); err != nil {
			return fmt.Errorf("flush watcher %q: %w", w.Expression(), err)
		}
		if q.has[id] {
			q.circular[id]++
			if q.circular[id] > MaxUpdateCount {
				return fmt.Errorf("watcher %q: %w", w.Expression(), ErrInfiniteUpdate)
			}
		}
	}
	return nil
}

func (q *Queue) reset() {
	for _, w := range q.queue[min(q.index, len(q.queue)):] {
		w.Unschedule()
	}
	clear(q.queue)
	q.queue = q.queue[:0]
	q.index = 0
	clear(q.has)
	clear(q.circular)
	q.flushing = false
}
