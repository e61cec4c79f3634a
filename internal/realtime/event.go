package realtime

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// EventType discriminates push events from the CRM backend.
type EventType string

// Recognized event types. Anything else is logged and dropped by the
// dispatcher's default arm.
const (
	EventOrderStatusChanged EventType = "order_status_changed"
	EventMessageProcessed   EventType = "message_processed"
	EventSupportProcessed   EventType = "support_processed"
	EventAdminMessageSent   EventType = "admin_message_sent"
	EventDataUpdate         EventType = "data_update"
	EventFullSyncComplete   EventType = "full_sync_complete"
)

// Event is one parsed push event. Events are transient: dispatched once,
// never stored.
type Event struct {
	Type    EventType
	OrderID int64 // order the event concerns, 0 when absent
	Payload json.RawMessage
}

// UnmarshalJSON tolerates the backend sending orderId as either a JSON
// number or a string.
func (e *Event) UnmarshalJSON(b []byte) error {
	var wire struct {
		Type    string `json:"type"`
		OrderID any    `json:"orderId"`
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&wire); err != nil {
		return err
	}
	e.Type = EventType(wire.Type)
	switch id := wire.OrderID.(type) {
	case json.Number:
		if n, err := id.Int64(); err == nil {
			e.OrderID = n
		}
	case string:
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			e.OrderID = n
		}
	}
	e.Payload = append(json.RawMessage(nil), b...)
	return nil
}
