// Package persist abstracts the durability backend behind a key-value
// blob interface. The store serializes its collections and counters
// into four logical slots; a backend only has to save and load opaque
// blobs per slot. There is no schema versioning: an absent or corrupt
// slot is treated as first run by the caller.
package persist

import "context"

// Slot identifies one logical blob of store state.
type Slot string

const (
	SlotReminders        Slot = "reminders"
	SlotWorkOrders       Slot = "workorders"
	SlotReminderCounter  Slot = "reminder_counter"
	SlotWorkOrderCounter Slot = "workorder_counter"
)

// Slots lists every slot a backend is expected to hold.
var Slots = []Slot{SlotReminders, SlotWorkOrders, SlotReminderCounter, SlotWorkOrderCounter}

// Backend is a durability target for store state. Failures are
// non-fatal to callers: the store logs and keeps operating in memory.
type Backend interface {
	Save(ctx context.Context, slot Slot, blob []byte) error
	// Load returns the stored blob, or ok=false when the slot has
	// never been written.
	Load(ctx context.Context, slot Slot) (blob []byte, ok bool, err error)
}
