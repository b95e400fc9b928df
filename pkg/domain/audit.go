package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Audit event types.
const (
	EventTaskAdded       = "task.added"
	EventTaskDeleted     = "task.deleted"
	EventTaskDeletedAll  = "task.deleted_all"
	EventTargetReached   = "tasbeeh.target_reached"
	EventRecurringSeeded = "recurring.seeded"
)

// Event is one entry in the append-only audit log.
type Event struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Action    string                 `json:"action"`
	Aggregate string                 `json:"aggregate,omitempty"` // e.g. "task:1741158000000"
	Actor     string                 `json:"actor"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	PrevHash  string                 `json:"prev_hash,omitempty"`
	Hash      string                 `json:"hash,omitempty"`
}

// CalculateHash returns the SHA-256 of the event chained to PrevHash.
func (e *Event) CalculateHash() string {
	h := sha256.New()
	h.Write([]byte(e.PrevHash))
	h.Write([]byte(e.ID))
	h.Write([]byte(e.Timestamp.Format(time.RFC3339Nano)))
	h.Write([]byte(e.Action))
	h.Write([]byte(e.Aggregate))
	h.Write([]byte(e.Actor))
	h.Write([]byte(canonicalJSON(e.Metadata)))
	return hex.EncodeToString(h.Sum(nil))
}

// canonicalJSON relies on encoding/json writing map keys in sorted order.
func canonicalJSON(m map[string]interface{}) string {
	if len(m) == 0 {
		return ""
	}
	data, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(data)
}

// VerifyChain walks events oldest first and reports every link whose
// PrevHash or content hash does not line up.
func VerifyChain(events []*Event) []string {
	var violations []string
	prev := ""
	for i, e := range events {
		if e.PrevHash != prev {
			violations = append(violations, fmt.Sprintf("event %d (%s): previous hash does not match, chain broken", i, e.ID))
		}
		if e.Hash != e.CalculateHash() {
			violations = append(violations, fmt.Sprintf("event %d (%s): content hash mismatch, possible tampering", i, e.ID))
		}
		prev = e.Hash
	}
	return violations
}
