package adminkit

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// newAuditID returns a lexicographically sortable identifier for audit log
// entries, so per-entity append order is visible in the id itself.
func newAuditID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// newRoleID returns a random identifier for custom roles.
func newRoleID() string {
	return uuid.NewString()
}
