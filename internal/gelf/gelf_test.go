package gelf

import (
	"encoding/json"
	"net"
	"testing"
	"time"
)

func TestMessageFromZerologEvent(t *testing.T) {
	w := &Writer{hostname: "box", service: "careboard"}
	event := []byte(`{"level":"warn","resource":"staff","rows":3,"id":"x","time":"2025-01-01T00:00:00Z","message":"Sheet not found"}` + "\n")

	msg := w.message(event, time.Unix(10, 0))
	if msg["short_message"] != "Sheet not found" {
		t.Fatalf("short_message = %v", msg["short_message"])
	}
	if msg["level"] != 4 {
		t.Fatalf("level = %v", msg["level"])
	}
	if msg["_resource"] != "staff" || msg["_rows"] != float64(3) {
		t.Fatalf("fields not forwarded: %v", msg)
	}
	if _, ok := msg["_id"]; ok {
		t.Fatal("_id must not be sent")
	}
	if msg["_event_id"] != "x" {
		t.Fatalf("_event_id = %v", msg["_event_id"])
	}
	if _, ok := msg["_time"]; ok {
		t.Fatal("time should not be duplicated")
	}
}

func TestMessagePlainText(t *testing.T) {
	w := &Writer{hostname: "box", service: "careboard"}
	msg := w.message([]byte("plain line\n"), time.Now())
	if msg["short_message"] != "plain line" || msg["level"] != 6 {
		t.Fatalf("unexpected message: %v", msg)
	}
}

func TestWriteSendsUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	w, err := New(pc.LocalAddr().String(), "careboard")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer w.Close()

	line := []byte(`{"level":"error","message":"boom"}`)
	if n, err := w.Write(line); err != nil || n != len(line) {
		t.Fatalf("write = %d, %v", n, err)
	}

	buf := make([]byte, 4096)
	pc.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf[:n], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["short_message"] != "boom" || got["level"] != float64(3) || got["_service"] != "careboard" {
		t.Fatalf("unexpected payload: %v", got)
	}
}
