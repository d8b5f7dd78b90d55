// Package realtime pushes best-effort refresh events to dashboard
// clients over Server-Sent Events. Delivery is not guaranteed: slow
// clients are skipped and the broadcast buffer drops under pressure.
package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// Broker fans broadcast events out to connected SSE clients. The run
// loop owns the client set; registration and broadcast go through
// channels so no locking is needed.
type Broker struct {
	clients    map[chan []byte]struct{}
	register   chan chan []byte
	unregister chan chan []byte
	broadcast  chan []byte
}

// NewBroker creates an SSE broker. Call Run in its own goroutine
// before serving.
func NewBroker() *Broker {
	return &Broker{
		clients:    make(map[chan []byte]struct{}),
		register:   make(chan chan []byte),
		unregister: make(chan chan []byte),
		broadcast:  make(chan []byte, 256),
	}
}

// Run starts the broker loop.
func (b *Broker) Run() {
	for {
		select {
		case client := <-b.register:
			b.clients[client] = struct{}{}
			log.Printf("SSE client connected. Total: %d", len(b.clients))

		case client := <-b.unregister:
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client)
				log.Printf("SSE client disconnected. Total: %d", len(b.clients))
			}

		case msg := <-b.broadcast:
			for client := range b.clients {
				select {
				case client <- msg:
				default:
					// Skip slow clients instead of blocking the loop
				}
			}
		}
	}
}

// ServeHTTP handles the SSE endpoint.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan []byte, 10)
	b.register <- clientChan

	notify := r.Context().Done()

	for {
		select {
		case <-notify:
			b.unregister <- clientChan
			return
		case msg, open := <-clientChan:
			if !open {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// Broadcast sends an event to all connected clients. Drops the event
// when the broadcast buffer is full.
func (b *Broker) Broadcast(event string, payload interface{}) {
	data := map[string]interface{}{
		"event":   event,
		"payload": payload,
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshalling broadcast message: %v", err)
		return
	}

	select {
	case b.broadcast <- jsonBytes:
	default:
	}
}
