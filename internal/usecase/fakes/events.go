package fakes

import (
	"sync"

	"github.com/google/uuid"
)

// Event записанное событие.
type Event struct {
	OrgID uuid.UUID
	Name  string
	Data  any
}

// Events запоминает опубликованные события.
type Events struct {
	mu     sync.Mutex
	events []Event
}

func (e *Events) BroadcastToOrg(orgID uuid.UUID, name string, data any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, Event{OrgID: orgID, Name: name, Data: data})
	return nil
}

// Names возвращает имена событий в порядке публикации.
func (e *Events) Names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, len(e.events))
	for i, ev := range e.events {
		names[i] = ev.Name
	}
	return names
}

func (e *Events) All() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Event(nil), e.events...)
}
