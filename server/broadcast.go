package server

// Record lifecycle events fanned out to WebSocket clients. Publishing
// never blocks a request handler: the hub channel and every client queue
// are bounded, and overflow is counted and dropped.

import (
	"github.com/teranos/corpus/lex/types"
)

// Event is one message on the WebSocket feed
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Event types on the feed
const (
	EventStringCreated = "string_created"
	EventStringDeleted = "string_deleted"
)

// DeletedPayload identifies a removed record
type DeletedPayload struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// PublishStringCreated queues a creation event for broadcast
func (s *CorpusServer) PublishStringCreated(rec types.StringRecord) {
	s.publish(Event{Type: EventStringCreated, Payload: rec})
}

// PublishStringDeleted queues a deletion event for broadcast
func (s *CorpusServer) PublishStringDeleted(id, value string) {
	s.publish(Event{Type: EventStringDeleted, Payload: DeletedPayload{ID: id, Value: value}})
}

// publish hands an event to the hub without blocking the caller
func (s *CorpusServer) publish(event Event) {
	if s.getState() != ServerStateRunning {
		return
	}

	select {
	case s.broadcast <- event:
	default:
		s.broadcastDrops.Add(1)
		s.logger.Debugw("Broadcast queue full, event dropped",
			"type", event.Type,
			"total_drops", s.broadcastDrops.Load(),
		)
	}
}

// broadcastEvent fans one event out to every connected client. Runs on the
// hub goroutine. Slow clients lose the event rather than stalling the fan-out.
func (s *CorpusServer) broadcastEvent(event Event) {
	s.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clients = append(clients, client)
	}
	s.mu.RUnlock()

	sent := 0
	for _, client := range clients {
		select {
		case client.send <- event:
			sent++
		default:
			s.broadcastDrops.Add(1)
		}
	}

	s.logger.Debugw("Event broadcast",
		"type", event.Type,
		"clients", len(clients),
		"sent", sent,
	)
}
