package watch

import (
	"sort"
	"sync"
	"time"
)

// Debouncer coalesces bursts of events into one flush per quiet window.
// Events for the same path are merged, the latest one winning.
type Debouncer struct {
	window  time.Duration
	events  map[string]Event
	mu      sync.Mutex
	timer   *time.Timer
	onFlush func([]Event)
	stopped bool
}

func NewDebouncer(window time.Duration, onFlush func([]Event)) *Debouncer {
	return &Debouncer{
		window:  window,
		events:  make(map[string]Event),
		onFlush: onFlush,
	}
}

func (d *Debouncer) Add(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.events[event.Path] = event
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	events := d.take()
	d.mu.Unlock()

	if len(events) > 0 && d.onFlush != nil {
		d.onFlush(events)
	}
}

// take empties the pending set. The caller holds mu.
func (d *Debouncer) take() []Event {
	events := make([]Event, 0, len(d.events))
	for _, event := range d.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })

	d.events = make(map[string]Event)
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return events
}

// Stop cancels the pending window and flushes what was collected.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	events := d.take()
	d.mu.Unlock()

	if len(events) > 0 && d.onFlush != nil {
		d.onFlush(events)
	}
}
