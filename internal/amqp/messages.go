package amqp

import (
	"encoding/json"
	"time"

	"expensetracker/internal/tracker"
)

// SnapshotChangedMessage announces that the tracker persisted a new
// revision. It carries no state; consumers re-read the store.
type SnapshotChangedMessage struct {
	Revision  uint64    `json:"revision"`
	Operation string    `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSnapshotChangedMessage builds the message for a persisted change.
func NewSnapshotChangedMessage(change tracker.Change) *SnapshotChangedMessage {
	ts := change.At
	if ts.IsZero() {
		ts = time.Now()
	}
	return &SnapshotChangedMessage{
		Revision:  change.Revision,
		Operation: change.Operation,
		Timestamp: ts,
	}
}

// ToJSON converts the message to JSON bytes
func (m *SnapshotChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SnapshotChangedMessageFromJSON creates a message from JSON bytes
func SnapshotChangedMessageFromJSON(data []byte) (*SnapshotChangedMessage, error) {
	var msg SnapshotChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
