package gelf

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"
)

// Writer sends GELF messages over UDP and implements io.Writer so it can be
// added as a zerolog output next to the console writer.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New creates a GELF UDP writer connected to addr (e.g. "172.17.0.1:12201").
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "careboard-server"
	}

	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// Write implements io.Writer. zerolog hands over one JSON event per call;
// each event becomes one GELF message.
func (w *Writer) Write(p []byte) (int, error) {
	payload, err := json.Marshal(w.message(p, time.Now()))
	if err != nil {
		return len(p), nil // don't fail the log call
	}

	// Fire-and-forget
	w.conn.Write(payload)
	return len(p), nil
}

func (w *Writer) Close() error {
	return w.conn.Close()
}

// message converts a zerolog JSON event into a GELF 1.1 payload. Lines that
// are not JSON are sent verbatim as informational messages.
func (w *Writer) message(p []byte, now time.Time) map[string]any {
	msg := map[string]any{
		"version":   "1.1",
		"host":      w.hostname,
		"timestamp": float64(now.UnixNano()) / 1e9,
		"level":     6,
		"_service":  w.service,
	}

	var event map[string]any
	if err := json.Unmarshal(p, &event); err != nil {
		msg["short_message"] = trimNewline(string(p))
		return msg
	}

	short, _ := event["message"].(string)
	if short == "" {
		short, _ = event["error"].(string)
	}
	if short == "" {
		short = "-"
	}
	msg["short_message"] = short

	if lvl, ok := event["level"].(string); ok {
		msg["level"] = syslogLevel(lvl)
	}
	for k, v := range event {
		switch k {
		case "message", "level", "time":
			continue
		case "id":
			// GELF reserves _id
			k = "event_id"
		}
		switch v.(type) {
		case string, float64, bool:
			msg["_"+k] = v
		default:
			msg["_"+k] = fmt.Sprint(v)
		}
	}
	return msg
}

func syslogLevel(level string) int {
	switch level {
	case "panic":
		return 1
	case "fatal":
		return 2
	case "error":
		return 3
	case "warn":
		return 4
	case "debug", "trace":
		return 7
	}
	return 6 // Informational
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
