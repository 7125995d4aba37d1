package adminkit

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Repository, RoleStore and AuditSink. It backs
// the test suites and embedded or demo deployments; production hosts use the
// DatabaseStore.
//
// All methods deep-copy on the way in and out, and saves enforce the same
// optimistic version check as the database store.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*User
	events  map[string]*Event
	payouts map[string]*Payout
	roles   map[string]*Role
	audit   []AuditLogEntry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*User),
		events:  make(map[string]*Event),
		payouts: make(map[string]*Payout),
		roles:   make(map[string]*Role),
	}
}

// Statically assert the collaborator contracts.
var (
	_ Repository   = (*MemoryStore)(nil)
	_ RoleStore    = (*MemoryStore)(nil)
	_ AuditSink    = (*MemoryStore)(nil)
	_ AuditQuerier = (*MemoryStore)(nil)
)

// PutUser inserts or replaces a user without version checks. Entities are
// created by other subsystems; this is their stand-in.
func (m *MemoryStore) PutUser(u *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := cloneUser(u)
	if cp.Version == 0 {
		cp.Version = 1
	}
	m.users[cp.ID] = cp
}

// PutEvent inserts or replaces an event without version checks.
func (m *MemoryStore) PutEvent(e *Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := cloneEvent(e)
	if cp.Version == 0 {
		cp.Version = 1
	}
	m.events[cp.ID] = cp
}

// PutPayout inserts or replaces a payout without version checks.
func (m *MemoryStore) PutPayout(p *Payout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := clonePayout(p)
	if cp.Version == 0 {
		cp.Version = 1
	}
	m.payouts[cp.ID] = cp
}

// GetUser implements Repository.
func (m *MemoryStore) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, NewError(ErrNotFound, "user "+id+" does not exist").WithTarget(id)
	}
	return cloneUser(u), nil
}

// SaveUser implements Repository with an optimistic version check.
func (m *MemoryStore) SaveUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.users[user.ID]
	if !ok {
		return NewError(ErrNotFound, "user "+user.ID+" does not exist").WithTarget(user.ID)
	}
	if current.Version != user.Version {
		return NewError(ErrConcurrentModification, "user "+user.ID+" was modified concurrently").
			WithTarget(user.ID)
	}
	cp := cloneUser(user)
	cp.Version++
	m.users[cp.ID] = cp
	return nil
}

// DeleteUser implements Repository.
func (m *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return NewError(ErrNotFound, "user "+id+" does not exist").WithTarget(id)
	}
	delete(m.users, id)
	return nil
}

// ListUsers implements Repository.
func (m *MemoryStore) ListUsers(ctx context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetEvent implements Repository.
func (m *MemoryStore) GetEvent(ctx context.Context, id string) (*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.events[id]
	if !ok {
		return nil, NewError(ErrNotFound, "event "+id+" does not exist").WithTarget(id)
	}
	return cloneEvent(e), nil
}

// SaveEvent implements Repository with an optimistic version check.
func (m *MemoryStore) SaveEvent(ctx context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.events[event.ID]
	if !ok {
		return NewError(ErrNotFound, "event "+event.ID+" does not exist").WithTarget(event.ID)
	}
	if current.Version != event.Version {
		return NewError(ErrConcurrentModification, "event "+event.ID+" was modified concurrently").
			WithTarget(event.ID)
	}
	cp := cloneEvent(event)
	cp.Version++
	m.events[cp.ID] = cp
	return nil
}

// DeleteEvent implements Repository.
func (m *MemoryStore) DeleteEvent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return NewError(ErrNotFound, "event "+id+" does not exist").WithTarget(id)
	}
	delete(m.events, id)
	return nil
}

// ListEvents implements Repository.
func (m *MemoryStore) ListEvents(ctx context.Context) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, *cloneEvent(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetPayout implements Repository.
func (m *MemoryStore) GetPayout(ctx context.Context, id string) (*Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payouts[id]
	if !ok {
		return nil, NewError(ErrNotFound, "payout "+id+" does not exist").WithTarget(id)
	}
	return clonePayout(p), nil
}

// SavePayout implements Repository with an optimistic version check.
func (m *MemoryStore) SavePayout(ctx context.Context, payout *Payout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.payouts[payout.ID]
	if !ok {
		return NewError(ErrNotFound, "payout "+payout.ID+" does not exist").WithTarget(payout.ID)
	}
	if current.Version != payout.Version {
		return NewError(ErrConcurrentModification, "payout "+payout.ID+" was modified concurrently").
			WithTarget(payout.ID)
	}
	cp := clonePayout(payout)
	cp.Version++
	m.payouts[cp.ID] = cp
	return nil
}

// ListPayouts implements Repository.
func (m *MemoryStore) ListPayouts(ctx context.Context) ([]Payout, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Payout, 0, len(m.payouts))
	for _, p := range m.payouts {
		out = append(out, *clonePayout(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetRole implements RoleStore.
func (m *MemoryStore) GetRole(ctx context.Context, id string) (*Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[id]
	if !ok {
		return nil, NewError(ErrNotFound, "role "+id+" does not exist").WithRole(id)
	}
	return r.Clone(), nil
}

// CreateRole implements RoleStore.
func (m *MemoryStore) CreateRole(ctx context.Context, role *Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[role.ID]; ok {
		return NewError(ErrInvalidInput, "role "+role.ID+" already exists").WithRole(role.ID)
	}
	m.roles[role.ID] = role.Clone()
	return nil
}

// UpdateRole implements RoleStore with an optimistic version check.
func (m *MemoryStore) UpdateRole(ctx context.Context, role *Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.roles[role.ID]
	if !ok {
		return NewError(ErrNotFound, "role "+role.ID+" does not exist").WithRole(role.ID)
	}
	if current.Version != role.Version {
		return NewError(ErrConcurrentModification, "role "+role.ID+" was modified concurrently").
			WithRole(role.ID)
	}
	cp := role.Clone()
	cp.Version++
	m.roles[cp.ID] = cp
	return nil
}

// DeleteRole implements RoleStore.
func (m *MemoryStore) DeleteRole(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[id]; !ok {
		return NewError(ErrNotFound, "role "+id+" does not exist").WithRole(id)
	}
	delete(m.roles, id)
	return nil
}

// ListRoles implements RoleStore.
func (m *MemoryStore) ListRoles(ctx context.Context) ([]Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Role, 0, len(m.roles))
	for _, r := range m.roles {
		out = append(out, *r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Append implements AuditSink. Entries are copied and never mutated again.
func (m *MemoryStore) Append(ctx context.Context, entry *AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, *cloneEntry(entry))
	return nil
}

// AuditLog implements AuditQuerier, newest first.
func (m *MemoryStore) AuditLog(ctx context.Context, filter AuditLogFilter) ([]AuditLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]AuditLogEntry, 0, len(m.audit))
	for i := len(m.audit) - 1; i >= 0; i-- {
		if filter.matches(&m.audit[i]) {
			matched = append(matched, *cloneEntry(&m.audit[i]))
		}
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func cloneUser(u *User) *User {
	cp := *u
	cp.VerifiedAt = cloneTime(u.VerifiedAt)
	cp.SuspendedAt = cloneTime(u.SuspendedAt)
	cp.RoleAssignedAt = cloneTime(u.RoleAssignedAt)
	return &cp
}

func cloneEvent(e *Event) *Event {
	cp := *e
	cp.ApprovedAt = cloneTime(e.ApprovedAt)
	cp.RejectedAt = cloneTime(e.RejectedAt)
	cp.FlaggedAt = cloneTime(e.FlaggedAt)
	return &cp
}

func clonePayout(p *Payout) *Payout {
	cp := *p
	cp.ProcessedAt = cloneTime(p.ProcessedAt)
	cp.CompletedAt = cloneTime(p.CompletedAt)
	cp.FailedAt = cloneTime(p.FailedAt)
	cp.CancelledAt = cloneTime(p.CancelledAt)
	return &cp
}

func cloneEntry(e *AuditLogEntry) *AuditLogEntry {
	cp := *e
	cp.PreviousValue = cloneValueMap(e.PreviousValue)
	cp.NewValue = cloneValueMap(e.NewValue)
	return &cp
}

func cloneValueMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
