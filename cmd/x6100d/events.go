package main

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/db2zw/x6100-gui/pkg/logging"
	"github.com/db2zw/x6100-gui/pkg/radio"
)

// writeTimeout bounds how long one stalled client can hold up delivery
// to the others.
const writeTimeout = 5 * time.Second

// eventHub fans radio state changes out to websocket clients. Notify is
// called from the CAT engine goroutine and must never block it, so a
// pending refresh collapses into the buffered channel.
type eventHub struct {
	refresh chan struct{}

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newEventHub() *eventHub {
	return &eventHub{
		refresh: make(chan struct{}, 1),
		clients: make(map[*websocket.Conn]bool),
	}
}

// Notify requests a UI refresh. Fire and forget.
func (h *eventHub) Notify() {
	select {
	case h.refresh <- struct{}{}:
	default:
	}
}

// registerAndSync pushes the current snapshot to conn and adds it to the
// client set in one critical section. The pump is the only other writer
// and takes the same lock, so conn never sees two concurrent writes.
func (h *eventHub) registerAndSync(conn *websocket.Conn, snapshot radio.Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(snapshot); err != nil {
		conn.Close()
		return err
	}
	h.clients[conn] = true
	return nil
}

func (h *eventHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

// pump forwards each coalesced refresh as a state snapshot to every
// connected client. Runs until the daemon context is cancelled.
func (h *eventHub) pump(ctx context.Context, state *radio.State) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.refresh:
			snapshot := state.Snapshot()

			h.mu.Lock()
			for conn := range h.clients {
				conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteJSON(snapshot); err != nil {
					logging.Debug("events", "Dropping websocket client")
					delete(h.clients, conn)
					conn.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}
