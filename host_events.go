// host_events.go - Host event queue

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"sync"
)

type HostEventType int

const (
	EventKeyDown HostEventType = iota
	EventKeyUp
	EventFocus
	EventBlur
)

func (t HostEventType) String() string {
	switch t {
	case EventKeyDown:
		return "key_down"
	case EventKeyUp:
		return "key_up"
	case EventFocus:
		return "focus"
	case EventBlur:
		return "blur"
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// HostEvent is one input or focus transition reported by the host.
type HostEvent struct {
	Type HostEventType
	Code uint32 // key code for EventKeyDown/EventKeyUp
}

func KeyDownEvent(code uint32) HostEvent { return HostEvent{Type: EventKeyDown, Code: code} }
func KeyUpEvent(code uint32) HostEvent   { return HostEvent{Type: EventKeyUp, Code: code} }
func FocusEvent() HostEvent              { return HostEvent{Type: EventFocus} }
func BlurEvent() HostEvent               { return HostEvent{Type: EventBlur} }

// EventQueue buffers host events between loop iterations. Hosts push from
// their own callback goroutine; the scheduler drains at the start of each
// iteration, so events are delivered in arrival order and exactly once.
type EventQueue struct {
	mu      sync.Mutex
	pending []HostEvent
	spare   []HostEvent
}

func NewEventQueue() *EventQueue {
	return &EventQueue{pending: make([]HostEvent, 0, 32)}
}

func (q *EventQueue) Push(events ...HostEvent) {
	q.mu.Lock()
	q.pending = append(q.pending, events...)
	q.mu.Unlock()
}

// Drain hands every pending event to fn in arrival order and empties the
// queue.
func (q *EventQueue) Drain(fn func(HostEvent)) {
	q.mu.Lock()
	batch := q.pending
	q.pending = q.spare[:0]
	q.mu.Unlock()

	for _, ev := range batch {
		fn(ev)
	}

	q.mu.Lock()
	q.spare = batch[:0]
	q.mu.Unlock()
}

func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
