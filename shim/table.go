package shim

import (
	"sync"
)

// Handle is the opaque value the host keeps for one plugin instance.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a table lifecycle notification.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
)

func (t EventType) String() string {
	if t == EventCreated {
		return "created"
	}
	return "dropped"
}

// Event describes an insertion into or removal from a Table.
type Event[T any] struct {
	Value  T
	Handle Handle
	Type   EventType
}

// Table maps handles to values. Freed handles are reused.
type Table[T any] struct {
	entries   []entry[T]
	freeList  []Handle
	observers []func(Event[T])
	mu        sync.RWMutex
	closed    bool
}

type entry[T any] struct {
	value T
	valid bool
}

// NewTable creates an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{
		entries:  make([]entry[T], 0, 8),
		freeList: make([]Handle, 0, 4),
	}
}

// Subscribe registers fn for lifecycle events. Callbacks run after the table
// lock is released.
func (t *Table[T]) Subscribe(fn func(Event[T])) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// Insert stores value and returns its handle, or 0 once the table is closed.
func (t *Table[T]) Insert(value T) Handle {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0
	}

	e := entry[T]{value: value, valid: true}
	var handle Handle
	if n := len(t.freeList); n > 0 {
		handle = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[handle-1] = e
	} else {
		t.entries = append(t.entries, e)
		handle = Handle(len(t.entries))
	}
	obs := t.observers
	t.mu.Unlock()

	notify(obs, Event[T]{Type: EventCreated, Handle: handle, Value: value})
	return handle
}

// Get retrieves the value for handle.
func (t *Table[T]) Get(handle Handle) (T, bool) {
	var zero T
	if handle == 0 {
		return zero, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	idx := int(handle - 1)
	if idx >= len(t.entries) || !t.entries[idx].valid {
		return zero, false
	}
	return t.entries[idx].value, true
}

// Remove drops handle and returns its value.
func (t *Table[T]) Remove(handle Handle) (T, bool) {
	var zero T
	if handle == 0 {
		return zero, false
	}

	t.mu.Lock()
	idx := int(handle - 1)
	if idx >= len(t.entries) || !t.entries[idx].valid {
		t.mu.Unlock()
		return zero, false
	}
	value := t.entries[idx].value
	t.entries[idx] = entry[T]{}
	t.freeList = append(t.freeList, handle)
	obs := t.observers
	t.mu.Unlock()

	notify(obs, Event[T]{Type: EventDropped, Handle: handle, Value: value})
	return value, true
}

// Len returns the number of live handles.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	count := 0
	for _, e := range t.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each calls fn for every live handle in handle order until fn returns false.
// fn must not modify the table.
func (t *Table[T]) Each(fn func(Handle, T) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i, e := range t.entries {
		if e.valid && !fn(Handle(i+1), e.value) {
			return
		}
	}
}

// Close stops accepting inserts and removes every live handle, returning
// the values in handle order. Closing twice returns nil.
func (t *Table[T]) Close() []T {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	var values []T
	var events []Event[T]
	for i, e := range t.entries {
		if e.valid {
			values = append(values, e.value)
			events = append(events, Event[T]{Type: EventDropped, Handle: Handle(i + 1), Value: e.value})
		}
	}
	t.entries = nil
	t.freeList = nil
	obs := t.observers
	t.mu.Unlock()

	for _, ev := range events {
		notify(obs, ev)
	}
	return values
}

func notify[T any](obs []func(Event[T]), e Event[T]) {
	for _, fn := range obs {
		fn(e)
	}
}
