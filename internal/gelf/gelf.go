package gelf

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Writer sends GELF messages over UDP and implements io.Writer so it can
// sit behind a slog JSON handler via io.MultiWriter.
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
		hostname = "formbuilder"
	}
	if service == "" {
		service = "formbuilder"
	}

	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// Write implements io.Writer. Each call carries one slog JSON record and
// sends one GELF message. Lines that are not JSON are sent verbatim.
func (w *Writer) Write(p []byte) (int, error) {
	payload, err := json.Marshal(w.message(p))
	if err != nil {
		return len(p), nil // don't fail the log call
	}

	// Fire-and-forget
	_, _ = w.conn.Write(payload)
	return len(p), nil
}

func (w *Writer) Close() error {
	return w.conn.Close()
}

func (w *Writer) message(p []byte) map[string]any {
	msg := map[string]any{
		"version":   "1.1",
		"host":      w.hostname,
		"timestamp": float64(time.Now().UnixNano()) / 1e9,
		"level":     6, // Informational
		"_service":  w.service,
	}

	var record map[string]any
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	if err := dec.Decode(&record); err != nil {
		msg["short_message"] = strings.TrimRight(string(p), "\n")
		return msg
	}

	for key, value := range record {
		switch key {
		case "msg":
			msg["short_message"] = value
		case "level":
			if s, ok := value.(string); ok {
				msg["level"] = syslogLevel(s)
			}
		case "time":
			if s, ok := value.(string); ok {
				if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
					msg["timestamp"] = float64(t.UnixNano()) / 1e9
				}
			}
		default:
			// "id" is reserved by GELF.
			if key == "id" {
				key = "record_id"
			}
			msg["_"+key] = value
		}
	}
	if _, ok := msg["short_message"]; !ok {
		msg["short_message"] = strings.TrimRight(string(p), "\n")
	}
	return msg
}

// syslogLevel maps slog level names to syslog severities.
func syslogLevel(level string) int {
	switch {
	case strings.HasPrefix(level, "ERROR"):
		return 3
	case strings.HasPrefix(level, "WARN"):
		return 4
	case strings.HasPrefix(level, "DEBUG"):
		return 7
	default:
		return 6
	}
}
