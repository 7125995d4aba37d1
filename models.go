package adminkit

import (
	"time"

	"github.com/uptrace/bun"
)

// Resource is a named category of protected data.
type Resource string

// Resources known to the permission model.
const (
	ResourceUsers     Resource = "users"
	ResourceEvents    Resource = "events"
	ResourceFinance   Resource = "finance"
	ResourceReports   Resource = "reports"
	ResourceRoles     Resource = "roles"
	ResourceSettings  Resource = "settings"
	ResourceAuditLogs Resource = "audit_logs"
)

// Action is an operation class checked against a role's permission set.
type Action string

// Actions known to the permission model.
const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionEdit    Action = "edit"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionExport  Action = "export"
)

// RoleType distinguishes seeded system roles from operator-defined ones.
type RoleType string

const (
	RoleTypeSystem RoleType = "system"
	RoleTypeCustom RoleType = "custom"
)

// System role identifiers, seeded by the Registry.
const (
	RoleSuperAdmin = "super_admin"
	RoleModerator  = "moderator"
	RoleFinance    = "finance"
	RoleSupport    = "support"
)

// Role is a named bundle of (resource, actions) grants.
type Role struct {
	bun.BaseModel `bun:"table:admin_roles,alias:ar" json:"-"`

	ID          string        `bun:"id,pk" json:"id"`
	Type        RoleType      `bun:"type,notnull" json:"type"`
	Name        string        `bun:"name,notnull" json:"name"`
	Permissions PermissionSet `bun:"permissions,type:jsonb" json:"permissions"`
	Version     int64         `bun:"version,notnull,default:1" json:"version"`
	CreatedAt   time.Time     `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time     `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// IsSystem reports whether the role is a seeded, immutable system role.
func (r *Role) IsSystem() bool {
	return r.Type == RoleTypeSystem
}

// Clone returns a deep copy of the role. Duplicated roles must not share
// permission storage with the original.
func (r *Role) Clone() *Role {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Permissions = r.Permissions.Clone()
	return &cp
}

// UserStatus is the lifecycle state of a marketplace user.
type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	// UserStatusBanned exists in the type system and in audit labels but no
	// operation produces it. It is accepted on read and counted in
	// projections only.
	UserStatusBanned UserStatus = "banned"
)

// VerificationStatus is the identity-verification state of a user.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// User is a marketplace user as seen by the moderation core. Admin actors are
// users with IsAdmin set and an AdminRoleID referencing a Role.
//
// Provenance fields (SuspendedAt, VerifiedBy, ...) are set only by the state
// machine on transition, never supplied by callers.
type User struct {
	bun.BaseModel `bun:"table:admin_users,alias:au" json:"-"`

	ID                 string             `bun:"id,pk" json:"id"`
	Name               string             `bun:"name" json:"name"`
	Email              string             `bun:"email" json:"email"`
	Status             UserStatus         `bun:"status,notnull" json:"status"`
	VerificationStatus VerificationStatus `bun:"verification_status,notnull" json:"verificationStatus"`
	IsAdmin            bool               `bun:"is_admin" json:"isAdmin"`
	AdminRoleID        string             `bun:"admin_role_id" json:"adminRoleId,omitempty"`

	VerifiedAt         *time.Time `bun:"verified_at" json:"verifiedAt,omitempty"`
	VerifiedBy         string     `bun:"verified_by" json:"verifiedBy,omitempty"`
	VerificationReason string     `bun:"verification_reason" json:"verificationReason,omitempty"`
	SuspendedAt        *time.Time `bun:"suspended_at" json:"suspendedAt,omitempty"`
	SuspendedBy        string     `bun:"suspended_by" json:"suspendedBy,omitempty"`
	SuspendReason      string     `bun:"suspend_reason" json:"suspendReason,omitempty"`
	RoleAssignedAt     *time.Time `bun:"role_assigned_at" json:"roleAssignedAt,omitempty"`
	RoleAssignedBy     string     `bun:"role_assigned_by" json:"roleAssignedBy,omitempty"`
	Version            int64      `bun:"version,notnull,default:1" json:"version"`
	CreatedAt          time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt          time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// Snapshot returns the user's lifecycle fields as a stable map, used for
// audit values and caller results.
func (u *User) Snapshot() map[string]any {
	if u == nil {
		return nil
	}
	snap := map[string]any{
		"id":                 u.ID,
		"status":             string(u.Status),
		"verificationStatus": string(u.VerificationStatus),
		"isAdmin":            u.IsAdmin,
	}
	if u.AdminRoleID != "" {
		snap["adminRoleId"] = u.AdminRoleID
	}
	if u.SuspendReason != "" {
		snap["suspendReason"] = u.SuspendReason
	}
	if u.VerificationReason != "" {
		snap["verificationReason"] = u.VerificationReason
	}
	return snap
}

// ApprovalStatus is the moderation state of an event listing.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Event is an event listing as seen by the moderation core. ApprovalStatus
// and IsFlagged are orthogonal dimensions: an approved event stays flagged
// until explicitly unflagged.
type Event struct {
	bun.BaseModel `bun:"table:admin_events,alias:ae" json:"-"`

	ID             string         `bun:"id,pk" json:"id"`
	Title          string         `bun:"title" json:"title"`
	OrganizerID    string         `bun:"organizer_id" json:"organizerId"`
	ApprovalStatus ApprovalStatus `bun:"approval_status,notnull" json:"approvalStatus"`
	IsFlagged      bool           `bun:"is_flagged" json:"isFlagged"`
	FlagReason     string         `bun:"flag_reason" json:"flagReason,omitempty"`

	ApprovedAt      *time.Time `bun:"approved_at" json:"approvedAt,omitempty"`
	ApprovedBy      string     `bun:"approved_by" json:"approvedBy,omitempty"`
	RejectedAt      *time.Time `bun:"rejected_at" json:"rejectedAt,omitempty"`
	RejectedBy      string     `bun:"rejected_by" json:"rejectedBy,omitempty"`
	RejectionReason string     `bun:"rejection_reason" json:"rejectionReason,omitempty"`
	FlaggedAt       *time.Time `bun:"flagged_at" json:"flaggedAt,omitempty"`
	FlaggedBy       string     `bun:"flagged_by" json:"flaggedBy,omitempty"`
	Version         int64      `bun:"version,notnull,default:1" json:"version"`
	CreatedAt       time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// Snapshot returns the event's lifecycle fields as a stable map.
func (e *Event) Snapshot() map[string]any {
	if e == nil {
		return nil
	}
	snap := map[string]any{
		"id":             e.ID,
		"approvalStatus": string(e.ApprovalStatus),
		"isFlagged":      e.IsFlagged,
	}
	if e.FlagReason != "" {
		snap["flagReason"] = e.FlagReason
	}
	if e.RejectionReason != "" {
		snap["rejectionReason"] = e.RejectionReason
	}
	return snap
}

// NeedsModeration reports whether the event belongs in the moderation queue.
func (e *Event) NeedsModeration() bool {
	return e.ApprovalStatus == ApprovalPending || e.IsFlagged
}

// PayoutStatus is the lifecycle state of a payout. Completed, failed and
// cancelled are terminal.
type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
	PayoutCancelled  PayoutStatus = "cancelled"
)

// IsTerminal reports whether no transition exists out of the status.
func (s PayoutStatus) IsTerminal() bool {
	return s == PayoutCompleted || s == PayoutFailed || s == PayoutCancelled
}

// Payout is a payout to an organizer or artist as seen by the moderation
// core.
type Payout struct {
	bun.BaseModel `bun:"table:admin_payouts,alias:ap" json:"-"`

	ID          string       `bun:"id,pk" json:"id"`
	RecipientID string       `bun:"recipient_id" json:"recipientId"`
	AmountCents int64        `bun:"amount_cents" json:"amountCents"`
	Currency    string       `bun:"currency" json:"currency"`
	Status      PayoutStatus `bun:"status,notnull" json:"status"`

	ProcessedAt   *time.Time `bun:"processed_at" json:"processedAt,omitempty"`
	ProcessedBy   string     `bun:"processed_by" json:"processedBy,omitempty"`
	CompletedAt   *time.Time `bun:"completed_at" json:"completedAt,omitempty"`
	CompletedBy   string     `bun:"completed_by" json:"completedBy,omitempty"`
	FailedAt      *time.Time `bun:"failed_at" json:"failedAt,omitempty"`
	FailureReason string     `bun:"failure_reason" json:"failureReason,omitempty"`
	CancelledAt   *time.Time `bun:"cancelled_at" json:"cancelledAt,omitempty"`
	CancelledBy   string     `bun:"cancelled_by" json:"cancelledBy,omitempty"`
	CancelReason  string     `bun:"cancel_reason" json:"cancelReason,omitempty"`
	Version       int64      `bun:"version,notnull,default:1" json:"version"`
	CreatedAt     time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// Snapshot returns the payout's lifecycle fields as a stable map.
func (p *Payout) Snapshot() map[string]any {
	if p == nil {
		return nil
	}
	snap := map[string]any{
		"id":     p.ID,
		"status": string(p.Status),
	}
	if p.FailureReason != "" {
		snap["failureReason"] = p.FailureReason
	}
	if p.CancelReason != "" {
		snap["cancelReason"] = p.CancelReason
	}
	return snap
}

// AuditLogEntry records one privileged mutation. Entries are append-only:
// the core never updates or deletes them. The JSON shape is stable and must
// not change across implementations.
type AuditLogEntry struct {
	bun.BaseModel `bun:"table:admin_audit_log,alias:aal" json:"-"`

	ID            string         `bun:"id,pk" json:"id"`
	ActorID       string         `bun:"actor_id,notnull" json:"actorId"`
	ActorName     string         `bun:"actor_name" json:"actorName"`
	ActorEmail    string         `bun:"actor_email" json:"actorEmail"`
	Action        string         `bun:"action,notnull" json:"action"`
	TargetType    string         `bun:"target_type,notnull" json:"targetType"`
	TargetID      string         `bun:"target_id,notnull" json:"targetId"`
	PreviousValue map[string]any `bun:"previous_value,type:jsonb" json:"previousValue,omitempty"`
	NewValue      map[string]any `bun:"new_value,type:jsonb" json:"newValue,omitempty"`
	Description   string         `bun:"description" json:"description,omitempty"`
	Timestamp     time.Time      `bun:"timestamp,notnull,default:current_timestamp" json:"timestamp"`
}

// Target types recorded on audit entries.
const (
	TargetTypeUser   = "user"
	TargetTypeEvent  = "event"
	TargetTypePayout = "payout"
	TargetTypeRole   = "role"
)
