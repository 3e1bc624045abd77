package enumerate

import (
	"context"
	"sync"
	"sync/atomic"
)

// Task is the handle of one activation's fetch. Cancelling it does not stop the
// fetch; it only makes the holder discard the result.
type Task struct {
	id        uint64
	cancelled atomic.Bool
}

func (t *Task) ID() uint64 {
	if t == nil {
		return 0
	}
	return t.id
}

func (t *Task) Cancel() {
	if t != nil {
		t.cancelled.Store(true)
	}
}

// Cancelled reports whether results for t must be dropped. A nil task is always cancelled.
func (t *Task) Cancelled() bool {
	return t == nil || t.cancelled.Load()
}

// Holder owns the state of one view. Each activation starts empty, and only the
// current, uncancelled task may replace the state.
type Holder[T any] struct {
	mu      sync.Mutex
	seq     uint64
	current *Task
	state   State[T]
	loading bool
}

func NewHolder[T any]() *Holder[T] {
	return &Holder[T]{state: Loaded[T](nil)}
}

// Activate resets the state and returns the task for this activation. Any
// previous task is cancelled.
func (h *Holder[T]) Activate() *Task {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current.Cancel()
	h.seq++
	h.current = &Task{id: h.seq}
	h.state = Loaded[T](nil)
	h.loading = true
	return h.current
}

// Deactivate cancels the current task; a result arriving later is ignored.
func (h *Holder[T]) Deactivate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current.Cancel()
	h.current = nil
	h.loading = false
}

// Apply replaces the state with st if task is still current. It reports whether
// the write happened.
func (h *Holder[T]) Apply(task *Task, st State[T]) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if task.Cancelled() || task != h.current {
		return false
	}
	if st.Error != "" {
		st = Failed[T](st.Error)
	} else {
		st = Loaded(st.Items)
	}
	h.state = st
	h.loading = false
	return true
}

func (h *Holder[T]) State() State[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *Holder[T]) Loading() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.loading
}

func (h *Holder[T]) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current != nil && !h.current.Cancelled()
}

// Run activates h, enumerates once and applies the result.
func Run[T any](ctx context.Context, e Enumerator[T], h *Holder[T]) State[T] {
	task := h.Activate()
	h.Apply(task, e.Enumerate(ctx))
	return h.State()
}
