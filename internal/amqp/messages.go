package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"networth/internal/core"
)

// RoutingSnapshotChanged is the routing key every change event is published with.
const RoutingSnapshotChanged = "snapshot.changed"

type Operation string

const (
	OpCreated       Operation = "created"
	OpUpdated       Operation = "updated"
	OpDeleted       Operation = "deleted"
	OpRatesUpdated  Operation = "rates_updated"
	OpSnapshotAdded Operation = "snapshot_added"
	OpImported      Operation = "imported"
)

// SnapshotChangedMessage tells consumers that a table changed. It carries no
// record payload; consumers re-read the store.
type SnapshotChangedMessage struct {
	ID        string        `json:"id"`
	Category  core.Category `json:"category"`
	Operation Operation     `json:"operation"`
	RecordID  int64         `json:"recordId,omitempty"`
	Date      *core.Date    `json:"date,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewSnapshotChangedMessage(category core.Category, op Operation, recordID int64, date *core.Date) *SnapshotChangedMessage {
	return &SnapshotChangedMessage{
		ID:        uuid.NewString(),
		Category:  category,
		Operation: op,
		RecordID:  recordID,
		Date:      date,
		Timestamp: time.Now(),
	}
}

func (m *SnapshotChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotChangedMessageFromJSON(data []byte) (*SnapshotChangedMessage, error) {
	var msg SnapshotChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
