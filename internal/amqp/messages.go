package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// ActionUpsert covers both creation and in-place replacement: the mirror
	// rewrites the whole ledger either way, matching the whole-blob store.
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// PurchaseEvent tells the mirror worker that the ledger changed. It carries
// only identifiers; the worker reads the current ledger from storage.
type PurchaseEvent struct {
	EventID    string    `json:"event_id"`
	PurchaseID string    `json:"purchase_id"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewPurchaseEvent(purchaseID, action string) *PurchaseEvent {
	return &PurchaseEvent{
		EventID:    uuid.NewString(),
		PurchaseID: purchaseID,
		Action:     action,
		Timestamp:  time.Now(),
	}
}

func (e *PurchaseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func PurchaseEventFromJSON(data []byte) (*PurchaseEvent, error) {
	var e PurchaseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if e.Action != ActionUpsert && e.Action != ActionDelete {
		return nil, fmt.Errorf("unknown action %q", e.Action)
	}
	return &e, nil
}
