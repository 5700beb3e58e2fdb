package outbox

import "time"

// Entry statuses
const (
	StatusPending   = "pending"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
	StatusDead      = "dead" // gave up after too many attempts
)

// Entry records a follow-up write that must eventually happen after a committed change.
// Handlers must be idempotent: an entry may be handled more than once.
type Entry struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Ref       string    `json:"ref"`    // id of the aggregate the entry is about
	Values    []string  `json:"values"` // kind specific snapshot
	Status    string    `json:"status"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"lastError,omitempty"`
	CreatedAt time.Time `json:"createdAt"` // UTC
	UpdatedAt time.Time `json:"updatedAt"` // UTC
}

func (e Entry) IsPending() bool { return e.Status == StatusPending }
