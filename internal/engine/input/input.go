// Package input turns SDL2 events into the few host signals the globe
// reacts to.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a host event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventShown
	EventHidden
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventWindowResize:
		return "resize"
	case EventShown:
		return "shown"
	case EventHidden:
		return "hidden"
	default:
		return "none"
	}
}

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Width  int
	Height int
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events. Returns true once quit has been requested.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	return i.drain(sdl.PollEvent)
}

// Wait blocks up to timeoutMS for the next event, then drains the queue
// like Update. It keeps the main thread idle while the globe is hidden.
func (i *Input) Wait(timeoutMS int) bool {
	i.events = i.events[:0]

	event := sdl.WaitEventTimeout(timeoutMS)
	if event == nil {
		return false
	}
	if i.push(event) {
		return true
	}
	return i.drain(sdl.PollEvent)
}

// drain appends every queued event to the current batch. It stops early at
// a quit event.
func (i *Input) drain(poll func() sdl.Event) bool {
	for event := poll(); event != nil; event = poll() {
		if i.push(event) {
			return true
		}
	}
	return false
}

// push appends event if it is one the host reacts to and reports whether
// it asks to quit.
func (i *Input) push(event sdl.Event) bool {
	e, ok := translate(event)
	if !ok {
		return false
	}
	i.events = append(i.events, e)
	return e.Type == EventQuit
}

// Events returns the events from the last Update or Wait.
func (i *Input) Events() []Event {
	return i.events
}

func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.KeyboardEvent:
		if e.Type == sdl.KEYDOWN && e.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
			return Event{Type: EventQuit}, true
		}

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		case sdl.WINDOWEVENT_SHOWN, sdl.WINDOWEVENT_RESTORED:
			return Event{Type: EventShown}, true
		case sdl.WINDOWEVENT_HIDDEN, sdl.WINDOWEVENT_MINIMIZED:
			return Event{Type: EventHidden}, true
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventQuit}, true
		}
	}
	return Event{}, false
}
