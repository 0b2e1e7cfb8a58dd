package amqp

import (
	"encoding/json"
	"time"
)

// Partition kinds carried in change messages.
const (
	KindOrders       = "orders"
	KindTransactions = "transactions"
	KindInvoices     = "invoices"
)

// PartitionChangedMessage tells the worker that a persistence partition
// was rewritten. It carries only the scope; the worker reloads the data
// from the store, so a lost duplicate is harmless.
type PartitionChangedMessage struct {
	Key       string    `json:"key"`
	Kind      string    `json:"kind"`
	Year      int       `json:"year,omitempty"`
	Month     int       `json:"month,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPartitionChangedMessage(key, kind string, year, month int) *PartitionChangedMessage {
	return &PartitionChangedMessage{
		Key:       key,
		Kind:      kind,
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *PartitionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PartitionChangedMessageFromJSON(data []byte) (*PartitionChangedMessage, error) {
	var msg PartitionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
