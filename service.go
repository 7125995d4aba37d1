package adminkit

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Service is the sole entry point for privileged mutations. It sequences
// permission evaluation, state transition, persistence and audit recording
// as one logical unit per call.
//
// All collaborators are injected; the service holds no process-wide state.
type Service struct {
	registry *Registry
	repo     Repository
	roles    RoleStore
	audit    AuditSink
	log      logrus.FieldLogger
	now      func() time.Time
	locks    keyedMutex
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger used to surface non-fatal conditions, above all
// audit append failures, to operators.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithClock overrides the time source. Used by tests for deterministic
// provenance timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an AdminKit service.
//
// Example:
//
//	store := adminkit.NewMemoryStore()
//	service := adminkit.NewService(adminkit.NewRegistry(), store, store, store)
func NewService(registry *Registry, repo Repository, roles RoleStore, audit AuditSink, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		repo:     repo,
		roles:    roles,
		audit:    audit,
		log:      logrus.StandardLogger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the system role registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// ResolveRole returns the role with the given id, checking system roles
// before the RoleStore. The returned role is a copy; mutating it has no
// effect on the registry or store.
func (s *Service) ResolveRole(ctx context.Context, roleID string) (*Role, error) {
	if roleID == "" {
		return nil, NewError(ErrNotFound, "no role assigned").WithRole(roleID)
	}
	if role := s.registry.SystemRole(roleID); role != nil {
		return role, nil
	}
	role, err := s.roles.GetRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return role, nil
}

// resolveActor loads the acting admin and its role. Non-admin users and
// actors with unresolvable roles fail closed with ErrPermissionDenied.
func (s *Service) resolveActor(ctx context.Context, actorID string) (*User, *Role, error) {
	if actorID == "" {
		return nil, nil, NewError(ErrPermissionDenied, "actor id is required")
	}
	actor, err := s.repo.GetUser(ctx, actorID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil, NewError(ErrPermissionDenied, "actor is not a known user").
				WithActor(actorID)
		}
		return nil, nil, err
	}
	if !actor.IsAdmin {
		return nil, nil, NewError(ErrPermissionDenied, "actor is not an admin").
			WithActor(actorID)
	}
	role, err := s.ResolveRole(ctx, actor.AdminRoleID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil, NewError(ErrPermissionDenied, "actor role cannot be resolved").
				WithActor(actorID).WithRole(actor.AdminRoleID)
		}
		return nil, nil, err
	}
	return actor, role, nil
}

// Authorize resolves the actor's role and checks that it holds
// (resource, action). Read-only; used by hosts to gate view surfaces the
// same way Execute gates mutations.
func (s *Service) Authorize(ctx context.Context, actorID string, resource Resource, action Action) error {
	_, role, err := s.resolveActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !Allowed(role, resource, action) {
		return NewError(ErrPermissionDenied, "requires "+string(resource)+":"+string(action)).
			WithPermission(resource, action).WithActor(actorID).WithRole(role.ID)
	}
	return nil
}

// GetAuditLog retrieves audit entries through the configured sink. Returns
// an error when the sink cannot be read back (write-only sinks such as
// Kafka).
func (s *Service) GetAuditLog(ctx context.Context, filter AuditLogFilter) ([]AuditLogEntry, error) {
	querier, ok := s.audit.(AuditQuerier)
	if !ok {
		return nil, NewError(ErrStorage, "audit sink does not support queries")
	}
	return querier.AuditLog(ctx, filter)
}

// appendAudit writes one entry through the sink. Failures are logged and
// wrapped as ErrAuditWriteFailed; the caller attaches them to the result as
// a warning, never as the operation error.
func (s *Service) appendAudit(ctx context.Context, entry *AuditLogEntry) error {
	if err := s.audit.Append(ctx, entry); err != nil {
		s.log.WithFields(logrus.Fields{
			"action":     entry.Action,
			"target_id":  entry.TargetID,
			"actor_id":   entry.ActorID,
			"request_id": GetRequestID(ctx),
		}).WithError(err).Error("audit append failed after committed mutation")
		return NewError(ErrAuditWriteFailed, err.Error()).WithTarget(entry.TargetID)
	}
	return nil
}

// newEntry builds an audit entry for a committed mutation.
func (s *Service) newEntry(actor *User, action, targetType, targetID string, prev, next map[string]any, desc string) *AuditLogEntry {
	return &AuditLogEntry{
		ID:            newAuditID(),
		ActorID:       actor.ID,
		ActorName:     actor.Name,
		ActorEmail:    actor.Email,
		Action:        action,
		TargetType:    targetType,
		TargetID:      targetID,
		PreviousValue: prev,
		NewValue:      next,
		Description:   desc,
		Timestamp:     s.now().UTC(),
	}
}

// keyedMutex serializes work per key. Transitions for a single target must
// not interleave their read-modify-write; different targets proceed in
// parallel.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// Lock acquires the lock for key and returns its release function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
