package adminkit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemoryStoreUserRoundTrip validates basic user persistence and the
// copy-on-read guarantee.
func TestMemoryStoreUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutUser(&User{ID: "u1", Name: "Olle", Status: UserStatusActive})

	u, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Olle", u.Name)
	assert.Equal(t, int64(1), u.Version)

	// Mutating the returned copy does not touch the store.
	u.Name = "Changed"
	again, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Olle", again.Name)

	_, err = store.GetUser(ctx, "missing")
	assert.True(t, IsNotFound(err))
}

// TestMemoryStoreOptimisticVersioning validates the version check on save:
// a stale writer gets ErrConcurrentModification.
func TestMemoryStoreOptimisticVersioning(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutUser(&User{ID: "u1", Status: UserStatusActive})

	first, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	second, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)

	first.Status = UserStatusSuspended
	require.NoError(t, store.SaveUser(ctx, first))

	// The second writer still holds version 1.
	second.Status = UserStatusActive
	err = store.SaveUser(ctx, second)
	require.Error(t, err)
	assert.True(t, IsConcurrentModification(err))

	current, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, UserStatusSuspended, current.Status)
	assert.Equal(t, int64(2), current.Version)
}

// TestMemoryStoreEventAndPayoutVersioning validates the same check for the
// other entity types.
func TestMemoryStoreEventAndPayoutVersioning(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutEvent(&Event{ID: "e1", ApprovalStatus: ApprovalPending})
	store.PutPayout(&Payout{ID: "p1", Status: PayoutPending})

	e, err := store.GetEvent(ctx, "e1")
	require.NoError(t, err)
	stale := *e
	require.NoError(t, store.SaveEvent(ctx, e))
	err = store.SaveEvent(ctx, &stale)
	assert.True(t, IsConcurrentModification(err))

	p, err := store.GetPayout(ctx, "p1")
	require.NoError(t, err)
	stalePayout := *p
	require.NoError(t, store.SavePayout(ctx, p))
	err = store.SavePayout(ctx, &stalePayout)
	assert.True(t, IsConcurrentModification(err))
}

// TestMemoryStoreDelete validates deletion and not-found handling.
func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutUser(&User{ID: "u1"})
	store.PutEvent(&Event{ID: "e1"})

	require.NoError(t, store.DeleteUser(ctx, "u1"))
	assert.True(t, IsNotFound(store.DeleteUser(ctx, "u1")))

	require.NoError(t, store.DeleteEvent(ctx, "e1"))
	assert.True(t, IsNotFound(store.DeleteEvent(ctx, "e1")))
}

// TestMemoryStoreListOrdering validates stable id ordering of list reads.
func TestMemoryStoreListOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.PutUser(&User{ID: "u3"})
	store.PutUser(&User{ID: "u1"})
	store.PutUser(&User{ID: "u2"})

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "u2", users[1].ID)
	assert.Equal(t, "u3", users[2].ID)
}

// TestMemoryStoreRoleCRUD validates the RoleStore contract.
func TestMemoryStoreRoleCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	role := &Role{ID: "r1", Type: RoleTypeCustom, Name: "Reviewer", Version: 1,
		Permissions: PermissionSet{}.Grant(ResourceEvents, ActionView)}
	require.NoError(t, store.CreateRole(ctx, role))

	// Duplicate ids are rejected.
	err := store.CreateRole(ctx, role)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := store.GetRole(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Reviewer", got.Name)

	got.Name = "Renamed"
	require.NoError(t, store.UpdateRole(ctx, got))

	// Stale version loses.
	err = store.UpdateRole(ctx, got)
	assert.True(t, IsConcurrentModification(err))

	roles, err := store.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, "Renamed", roles[0].Name)

	require.NoError(t, store.DeleteRole(ctx, "r1"))
	_, err = store.GetRole(ctx, "r1")
	assert.True(t, IsNotFound(err))
}

// TestMemoryStoreAuditAppendAndQuery validates append-only audit storage and
// the filter semantics, newest first.
func TestMemoryStoreAuditAppendAndQuery(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mk := func(id, actor, action, targetType, targetID string, at time.Time) *AuditLogEntry {
		return &AuditLogEntry{
			ID: id, ActorID: actor, ActorName: "A", Action: action,
			TargetType: targetType, TargetID: targetID, Timestamp: at,
		}
	}
	require.NoError(t, store.Append(ctx, mk("a1", "admin-1", "event.approve", TargetTypeEvent, "e1", base)))
	require.NoError(t, store.Append(ctx, mk("a2", "admin-2", "user.suspend", TargetTypeUser, "u1", base.Add(time.Minute))))
	require.NoError(t, store.Append(ctx, mk("a3", "admin-1", "event.flag", TargetTypeEvent, "e1", base.Add(2*time.Minute))))

	all, err := store.AuditLog(ctx, NewAuditLogFilter())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a3", all[0].ID)
	assert.Equal(t, "a1", all[2].ID)

	byActor, err := store.AuditLog(ctx, NewAuditLogFilter().WithActor("admin-1"))
	require.NoError(t, err)
	assert.Len(t, byActor, 2)

	byAction, err := store.AuditLog(ctx, NewAuditLogFilter().WithAction("user.suspend"))
	require.NoError(t, err)
	require.Len(t, byAction, 1)
	assert.Equal(t, "a2", byAction[0].ID)

	byTarget, err := store.AuditLog(ctx, NewAuditLogFilter().WithTarget(TargetTypeEvent, "e1"))
	require.NoError(t, err)
	assert.Len(t, byTarget, 2)

	byType, err := store.AuditLog(ctx, NewAuditLogFilter().WithTarget(TargetTypeUser, ""))
	require.NoError(t, err)
	assert.Len(t, byType, 1)

	inRange, err := store.AuditLog(ctx, NewAuditLogFilter().
		WithTimeRange(base.Add(30*time.Second), base.Add(90*time.Second)))
	require.NoError(t, err)
	require.Len(t, inRange, 1)
	assert.Equal(t, "a2", inRange[0].ID)

	paged, err := store.AuditLog(ctx, NewAuditLogFilter().WithPagination(1, 1))
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "a2", paged[0].ID)

	past, err := store.AuditLog(ctx, NewAuditLogFilter().WithPagination(10, 10))
	require.NoError(t, err)
	assert.Empty(t, past)
}

// TestMemoryStoreAuditEntriesImmutable validates that appended entries are
// insulated from later mutation of the caller's maps.
func TestMemoryStoreAuditEntriesImmutable(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	entry := &AuditLogEntry{
		ID: "a1", ActorID: "admin-1", Action: "user.suspend",
		TargetType: TargetTypeUser, TargetID: "u1",
		NewValue:  map[string]any{"status": "suspended"},
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, store.Append(ctx, entry))

	entry.NewValue["status"] = "tampered"

	stored, err := store.AuditLog(ctx, NewAuditLogFilter())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "suspended", stored[0].NewValue["status"])
}
