package amqp

import (
	"testing"
	"time"
)

func TestNewPartitionChangedMessage(t *testing.T) {
	msg := NewPartitionChangedMessage("orders_maret", KindOrders, 2025, 3)

	if msg.Key != "orders_maret" {
		t.Errorf("Key = %v, want orders_maret", msg.Key)
	}
	if msg.Kind != KindOrders {
		t.Errorf("Kind = %v, want %v", msg.Kind, KindOrders)
	}
	if msg.Year != 2025 || msg.Month != 3 {
		t.Errorf("scope = %d-%d, want 2025-3", msg.Year, msg.Month)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestPartitionChangedMessage_JSON(t *testing.T) {
	timestamp := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &PartitionChangedMessage{
		Key:       "transactions_2025_januari",
		Kind:      KindTransactions,
		Year:      2025,
		Month:     1,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := PartitionChangedMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("PartitionChangedMessageFromJSON() error = %v", err)
	}

	if parsed.Key != msg.Key {
		t.Errorf("Parsed Key = %v, want %v", parsed.Key, msg.Key)
	}
	if parsed.Kind != msg.Kind {
		t.Errorf("Parsed Kind = %v, want %v", parsed.Kind, msg.Kind)
	}
	if parsed.Year != msg.Year || parsed.Month != msg.Month {
		t.Errorf("Parsed scope = %d-%d, want %d-%d", parsed.Year, parsed.Month, msg.Year, msg.Month)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestPartitionChangedMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"key": 42, "kind": ["orders"]}`)

	if _, err := PartitionChangedMessageFromJSON(invalidJSON); err == nil {
		t.Error("PartitionChangedMessageFromJSON() should fail with invalid JSON")
	}
}
