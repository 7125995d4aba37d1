// Package adminkit provides an authorization and moderation core for admin
// consoles: a role/permission model, per-entity lifecycle state machines, and
// an append-only audit trail, decoupled from any UI or storage engine.
//
// AdminKit governs who may change the lifecycle state of a User, Event, or
// Payout, under what preconditions, and what gets recorded when they do. It
// does not know about marketplace business rules, rendering, or transport.
//
// # Core Concepts
//
// Resource: a named category of protected data ("users", "events", "finance",
// "reports", "roles", "settings", "audit_logs").
//
// Action: an operation class ("view", "create", "edit", "delete", "approve",
// "export") checked against a role's permission set. Matching is exact: a
// grant of "approve" never implies "edit".
//
// Role: a named bundle of (resource, actions) grants. The four system roles
// (super_admin, moderator, finance, support) are seeded at startup and are
// immutable; custom roles are managed through the Service and persisted in a
// RoleStore.
//
// Operation: a permission-gated, precondition-checked transition on an
// entity's lifecycle field ("user.suspend", "event.approve", ...). Every
// successful operation appends exactly one immutable AuditLogEntry.
//
// # Basic Usage
//
//	// 1. Collaborators: any Repository/RoleStore/AuditSink will do.
//	store := adminkit.NewMemoryStore()
//
//	// 2. Registry seeds the system roles.
//	registry := adminkit.NewRegistry()
//
//	// 3. Create the service.
//	service := adminkit.NewService(registry, store, store, store)
//
//	// 4. Execute moderation operations.
//	res, err := service.Execute(ctx, adminID, adminkit.OpEventApprove, eventID, adminkit.Input{})
//	if err != nil {
//	    if adminkit.IsPermissionDenied(err) {
//	        // actor's role lacks events:approve
//	    }
//	    if adminkit.IsInvalidTransition(err) {
//	        // event was not pending
//	    }
//	}
//	if res.AuditErr != nil {
//	    // mutation committed, audit append failed; already logged
//	}
//
//	// 5. Read-side projections are computed, never stored.
//	queue, err := service.ModerationQueue(ctx)
//
// # State Machines
//
// Users: pending/active/suspended lifecycles plus a verification dimension.
// Verifying a pending user activates it. Suspension requires a reason and
// re-suspending a suspended user is a hard InvalidTransition, never a silent
// overwrite. The "banned" status exists in the type system but no operation
// produces it.
//
// Events: approvalStatus (pending/approved/rejected) and isFlagged are
// orthogonal. Approval always clears the flag. The moderation queue is a
// projection over "pending or flagged", never a second copy of state.
//
// Payouts: pending -> processing -> completed, with failed and cancelled
// branches out of the two non-terminal states. Terminal states have no exits.
//
// # Concurrency
//
// Execute serializes calls per target entity with a keyed lock, and every
// store checks an optimistic version token on save, failing with
// ErrConcurrentModification on mismatch. Calls against different targets run
// fully in parallel. The audit log is append-only; appends for different
// entities never conflict.
//
// # Persistence
//
// The DatabaseStore persists everything through dbkit/bun on PostgreSQL; run
// NewMigrationService(store).Migrations() with dbkit's migration runner first.
// The MemoryStore backs tests and embedded use. A KafkaAuditSink can fan audit
// entries out to a topic, combined with the primary sink via MultiSink.
package adminkit
