package adminkit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// Seeded actor ids used across the suites.
const (
	actorRoot    = "admin-root" // super_admin
	actorMod     = "admin-mod"  // moderator
	actorFinance = "admin-fin"  // finance
	actorSupport = "admin-sup"  // support
)

// newTestService builds a service over a fresh MemoryStore seeded with one
// admin per system role.
func newTestService(t *testing.T, opts ...Option) (*Service, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore()
	seedAdmin(store, actorRoot, "Root", RoleSuperAdmin)
	seedAdmin(store, actorMod, "Mika", RoleModerator)
	seedAdmin(store, actorFinance, "Farah", RoleFinance)
	seedAdmin(store, actorSupport, "Sam", RoleSupport)

	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewService(NewRegistry(), store, store, store, opts...), store
}

func seedAdmin(store *MemoryStore, id, name, roleID string) {
	store.PutUser(&User{
		ID:                 id,
		Name:               name,
		Email:              id + "@example.com",
		Status:             UserStatusActive,
		VerificationStatus: VerificationVerified,
		IsAdmin:            true,
		AdminRoleID:        roleID,
	})
}

func seedMember(store *MemoryStore, id string, status UserStatus, verification VerificationStatus) {
	store.PutUser(&User{
		ID:                 id,
		Name:               "Member " + id,
		Email:              id + "@example.com",
		Status:             status,
		VerificationStatus: verification,
	})
}

func seedEvent(store *MemoryStore, id string, approval ApprovalStatus, flagged bool, flagReason string) {
	e := &Event{
		ID:             id,
		Title:          "Event " + id,
		OrganizerID:    "org-1",
		ApprovalStatus: approval,
		IsFlagged:      flagged,
		FlagReason:     flagReason,
	}
	if flagged {
		now := time.Now().UTC()
		e.FlaggedAt = &now
	}
	store.PutEvent(e)
}

func seedPayout(store *MemoryStore, id string, status PayoutStatus) {
	store.PutPayout(&Payout{
		ID:          id,
		RecipientID: "org-1",
		AmountCents: 50000,
		Currency:    "EUR",
		Status:      status,
	})
}

// quietLogger keeps expected audit failures out of the test output.
func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// failingSink always rejects appends, simulating an audit store outage.
type failingSink struct{}

func (failingSink) Append(ctx context.Context, entry *AuditLogEntry) error {
	return errors.New("sink unavailable")
}

// auditEntries is a convenience for asserting on the memory store's log.
func auditEntries(t *testing.T, store *MemoryStore, filter AuditLogFilter) []AuditLogEntry {
	t.Helper()
	entries, err := store.AuditLog(context.Background(), filter)
	if err != nil {
		t.Fatalf("audit log query failed: %v", err)
	}
	return entries
}
