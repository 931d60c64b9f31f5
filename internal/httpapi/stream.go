package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ledgerforge/datasynth/internal/streaming"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Streaming is consumed by trusted operational tooling, not
	// browser pages from arbitrary origins; same-origin checks would
	// only get in the way of CLI/service clients.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleStreamWebsocket upgrades GET /stream into a websocket that
// pushes DataEvents as they're paced out by the session, and accepts
// inbound Control messages (pause/resume/stop/trigger_pattern) in the
// opposite direction, per spec.md §4.9's StreamData+Control pairing.
func (s *Server) handleStreamWebsocket(c *gin.Context) {
	req := streaming.StreamRequest{
		EventsPerSecond: queryInt(c, "events_per_second", 10),
		MaxEvents:       queryInt(c, "max_events", 0),
		InjectAnomalies: c.Query("inject_anomalies") == "true",
	}
	if rate := c.Query("anomaly_rate"); rate != "" {
		if v, err := strconv.ParseFloat(rate, 64); err == nil {
			req.AnomalyRate = v
		}
	}

	id, events, err := s.svc.StartStream(req)
	if err != nil {
		writeError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.svc.Control(id, streaming.ControlCommand{Action: streaming.ActionStop})
		return
	}
	defer conn.Close()

	s.log.LogStreamEvent("stream_opened", map[string]interface{}{"session_id": id})

	done := make(chan struct{})
	go s.readControlMessages(conn, id, done)

	for {
		select {
		case event, ok := <-events:
			if !ok {
				conn.WriteJSON(map[string]string{"type": "stream_closed", "session_id": id})
				return
			}
			if err := conn.WriteJSON(map[string]interface{}{"type": "data_event", "event": event}); err != nil {
				s.svc.Control(id, streaming.ControlCommand{Action: streaming.ActionStop})
				return
			}
		case <-done:
			s.svc.Control(id, streaming.ControlCommand{Action: streaming.ActionStop})
			return
		}
	}
}

// readControlMessages relays inbound websocket JSON control frames to
// the session and closes done when the client disconnects.
func (s *Server) readControlMessages(conn *websocket.Conn, sessionID string, done chan<- struct{}) {
	defer close(done)
	for {
		var msg controlRequest
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		action, ok := parseAction(msg.Action)
		if !ok {
			continue
		}
		s.svc.Control(sessionID, streaming.ControlCommand{Action: action, Pattern: msg.Pattern})
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
