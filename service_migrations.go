package adminkit

import (
	"github.com/fernandezvara/dbkit"
)

// MigrationService exposes the database migrations required by the
// DatabaseStore.
type MigrationService struct {
	store *DatabaseStore
}

// NewMigrationService creates a migration service for a database store.
func NewMigrationService(store *DatabaseStore) *MigrationService {
	return &MigrationService{store: store}
}

// Migrations returns all migrations required by AdminKit.
// Use dbkit.Migrate(ctx, service.Migrations()) to run them.
func (ms *MigrationService) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "adminkit-001",
			Description: "Create admin_roles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS admin_roles (
                    id TEXT PRIMARY KEY,
                    type TEXT NOT NULL,
                    name TEXT NOT NULL,
                    permissions JSONB NOT NULL DEFAULT '{}',
                    version BIGINT NOT NULL DEFAULT 1,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "adminkit-002",
			Description: "Create admin_users table",
			SQL: `
                CREATE TABLE IF NOT EXISTS admin_users (
                    id TEXT PRIMARY KEY,
                    name TEXT,
                    email TEXT,
                    status TEXT NOT NULL,
                    verification_status TEXT NOT NULL,
                    is_admin BOOLEAN NOT NULL DEFAULT false,
                    admin_role_id TEXT,
                    verified_at TIMESTAMPTZ,
                    verified_by TEXT,
                    verification_reason TEXT,
                    suspended_at TIMESTAMPTZ,
                    suspended_by TEXT,
                    suspend_reason TEXT,
                    role_assigned_at TIMESTAMPTZ,
                    role_assigned_by TEXT,
                    version BIGINT NOT NULL DEFAULT 1,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "adminkit-003",
			Description: "Create admin_events table",
			SQL: `
                CREATE TABLE IF NOT EXISTS admin_events (
                    id TEXT PRIMARY KEY,
                    title TEXT,
                    organizer_id TEXT,
                    approval_status TEXT NOT NULL,
                    is_flagged BOOLEAN NOT NULL DEFAULT false,
                    flag_reason TEXT,
                    approved_at TIMESTAMPTZ,
                    approved_by TEXT,
                    rejected_at TIMESTAMPTZ,
                    rejected_by TEXT,
                    rejection_reason TEXT,
                    flagged_at TIMESTAMPTZ,
                    flagged_by TEXT,
                    version BIGINT NOT NULL DEFAULT 1,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "adminkit-004",
			Description: "Create admin_payouts table",
			SQL: `
                CREATE TABLE IF NOT EXISTS admin_payouts (
                    id TEXT PRIMARY KEY,
                    recipient_id TEXT,
                    amount_cents BIGINT NOT NULL DEFAULT 0,
                    currency TEXT,
                    status TEXT NOT NULL,
                    processed_at TIMESTAMPTZ,
                    processed_by TEXT,
                    completed_at TIMESTAMPTZ,
                    completed_by TEXT,
                    failed_at TIMESTAMPTZ,
                    failure_reason TEXT,
                    cancelled_at TIMESTAMPTZ,
                    cancelled_by TEXT,
                    cancel_reason TEXT,
                    version BIGINT NOT NULL DEFAULT 1,
                    created_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated_at TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "adminkit-005",
			Description: "Create admin_audit_log table",
			SQL: `
                CREATE TABLE IF NOT EXISTS admin_audit_log (
                    id TEXT PRIMARY KEY,
                    actor_id TEXT NOT NULL,
                    actor_name TEXT,
                    actor_email TEXT,
                    action TEXT NOT NULL,
                    target_type TEXT NOT NULL,
                    target_id TEXT NOT NULL,
                    previous_value JSONB,
                    new_value JSONB,
                    description TEXT,
                    timestamp TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "adminkit-006",
			Description: "Index audit log by target and time",
			SQL: `
                CREATE INDEX IF NOT EXISTS idx_admin_audit_log_target
                    ON admin_audit_log (target_type, target_id, timestamp DESC)`,
		},
	}
}
