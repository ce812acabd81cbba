package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/db2zw/x6100-gui/pkg/radio"
)

// Clients connecting while the pump is busy broadcasting must each get a
// clean snapshot stream; the hub lock is the only thing keeping the
// initial push and the pump off the same connection at once.
func TestEventHubConnectDuringNotify(t *testing.T) {
	hub := newEventHub()
	state := radio.NewState(radio.DefaultBands(), hub)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.pump(ctx, state)

	// Keep the pump saturated with refreshes the whole time
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				state.TuneActive(7074000)
				state.Notify()
				time.Sleep(time.Millisecond)
			}
		}
	}()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if err := hub.registerAndSync(conn, state.Snapshot()); err != nil {
			return
		}
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					hub.unregister(conn)
					return
				}
			}
		}()
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				t.Errorf("Dial failed: %v", err)
				return
			}
			defer conn.Close()

			// The initial snapshot plus at least one broadcast must both
			// arrive intact
			for j := 0; j < 2; j++ {
				var snap radio.Snapshot
				conn.SetReadDeadline(time.Now().Add(5 * time.Second))
				if err := conn.ReadJSON(&snap); err != nil {
					t.Errorf("Snapshot read %d failed: %v", j, err)
					return
				}
				if snap.VFO == "" {
					t.Errorf("Snapshot read %d is empty", j)
					return
				}
			}
		}()
	}
	wg.Wait()
}
