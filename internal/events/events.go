package events

import (
	"encoding/json"
	"time"
)

type Event struct {
	Type string          `json:"type"`
	At   time.Time       `json:"at"`
	Data json.RawMessage `json:"data,omitempty"`
}

func MakeEvent(typ string, data any) string {
	var raw json.RawMessage
	if data != nil {
		b, _ := json.Marshal(data)
		raw = b
	}
	e := Event{Type: typ, At: time.Now().UTC(), Data: raw}
	b, _ := json.Marshal(e)
	return string(b)
}
