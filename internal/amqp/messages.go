package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"semihos/internal/store"
)

// ChangeMessage announces one applied store mutation. Consumers re-read the
// store; the message carries no entity payload.
type ChangeMessage struct {
	MessageID string    `json:"messageId"`
	Entity    string    `json:"entity"`
	Op        string    `json:"op"`
	ID        int64     `json:"id,omitempty"`
	Keys      []string  `json:"keys"`
	At        time.Time `json:"at"`
}

func NewChangeMessage(ev store.ChangeEvent) *ChangeMessage {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	return &ChangeMessage{
		MessageID: uuid.NewString(),
		Entity:    ev.Entity,
		Op:        ev.Op,
		ID:        int64(ev.ID),
		Keys:      ev.Keys,
		At:        at,
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Touches reports whether the change affects one of the given record keys.
func (m *ChangeMessage) Touches(keys ...string) bool {
	for _, k := range m.Keys {
		for _, want := range keys {
			if k == want {
				return true
			}
		}
	}
	return false
}
