package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// keepAliveInterval spaces SSE comment lines so idle proxies keep the
// stream open.
const keepAliveInterval = 25 * time.Second

// handleEvents streams engine events as server-sent events until the
// client goes away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "error", "streaming not supported")
		return
	}

	events, unsubscribe := s.engine.Subscribe()
	defer unsubscribe()

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	writer := bufio.NewWriter(w)
	send := func() {
		writer.Flush()
		flusher.Flush()
	}

	// Initial snapshot so a client can render before the first change.
	data, _ := json.Marshal(s.engine.Snapshot())
	fmt.Fprintf(writer, "event: snapshot\ndata: %s\n\n", data)
	send()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(writer, ": keep-alive\n\n")
			send()
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.log.WithError(err).Warn("encode event")
				continue
			}
			fmt.Fprintf(writer, "event: %s\ndata: %s\n\n", ev.Type, data)
			send()
		}
	}
}
