package adminkit

import (
	"context"
	"time"
)

// Repository is the persistence collaborator for moderated entities. The
// core only mutates lifecycle fields; entity creation belongs to other
// subsystems.
//
// Save methods must check the entity's Version against the stored one and
// return ErrConcurrentModification on mismatch, incrementing it on success.
// Get methods return ErrNotFound for missing entities.
type Repository interface {
	GetUser(ctx context.Context, id string) (*User, error)
	SaveUser(ctx context.Context, user *User) error
	DeleteUser(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]User, error)

	GetEvent(ctx context.Context, id string) (*Event, error)
	SaveEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context) ([]Event, error)

	GetPayout(ctx context.Context, id string) (*Payout, error)
	SavePayout(ctx context.Context, payout *Payout) error
	ListPayouts(ctx context.Context) ([]Payout, error)
}

// RoleStore is the persistence collaborator for custom roles. System roles
// never reach it; the Registry answers for those first.
type RoleStore interface {
	GetRole(ctx context.Context, id string) (*Role, error)
	CreateRole(ctx context.Context, role *Role) error
	UpdateRole(ctx context.Context, role *Role) error
	DeleteRole(ctx context.Context, id string) error
	ListRoles(ctx context.Context) ([]Role, error)
}

// AuditSink receives one immutable entry per successful mutation. Append
// failures are non-fatal to the caller: the mutation has already committed
// when the sink is invoked.
type AuditSink interface {
	Append(ctx context.Context, entry *AuditLogEntry) error
}

// AuditQuerier is implemented by sinks that can read entries back. The
// MemoryStore and DatabaseStore both do; fan-out sinks like Kafka do not.
type AuditQuerier interface {
	AuditLog(ctx context.Context, filter AuditLogFilter) ([]AuditLogEntry, error)
}

// AuditLogFilter provides options for filtering audit log queries.
type AuditLogFilter struct {
	// Filter by actor who performed the action
	ActorID string

	// Filter by audit action label, e.g. "event.approve"
	Action string

	// Filter by target entity
	TargetType string
	TargetID   string

	// Filter by time range
	Since time.Time
	Until time.Time

	// Pagination
	Limit  int
	Offset int
}

// NewAuditLogFilter creates a new AuditLogFilter with default values.
func NewAuditLogFilter() AuditLogFilter {
	return AuditLogFilter{
		Limit: 100,
	}
}

// WithActor sets the actor id filter.
func (f AuditLogFilter) WithActor(actorID string) AuditLogFilter {
	f.ActorID = actorID
	return f
}

// WithAction sets the action label filter.
func (f AuditLogFilter) WithAction(action string) AuditLogFilter {
	f.Action = action
	return f
}

// WithTarget sets the target filter. Empty targetID matches all entities of
// the type.
func (f AuditLogFilter) WithTarget(targetType, targetID string) AuditLogFilter {
	f.TargetType = targetType
	f.TargetID = targetID
	return f
}

// WithTimeRange sets the time range filter. Zero values are ignored.
func (f AuditLogFilter) WithTimeRange(since, until time.Time) AuditLogFilter {
	f.Since = since
	f.Until = until
	return f
}

// WithPagination sets limit and offset.
func (f AuditLogFilter) WithPagination(limit, offset int) AuditLogFilter {
	f.Limit = limit
	f.Offset = offset
	return f
}

// matches reports whether an entry passes the filter, ignoring pagination.
// Shared by the in-memory store; the database store translates the filter to
// SQL instead.
func (f AuditLogFilter) matches(entry *AuditLogEntry) bool {
	if f.ActorID != "" && entry.ActorID != f.ActorID {
		return false
	}
	if f.Action != "" && entry.Action != f.Action {
		return false
	}
	if f.TargetType != "" && entry.TargetType != f.TargetType {
		return false
	}
	if f.TargetID != "" && entry.TargetID != f.TargetID {
		return false
	}
	if !f.Since.IsZero() && entry.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && entry.Timestamp.After(f.Until) {
		return false
	}
	return true
}
