package adminkit

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// DatabaseStore is the PostgreSQL-backed Repository, RoleStore and AuditSink
// built on dbkit and bun. Run the migrations from MigrationService before
// first use.
//
// Saves are single-statement optimistic updates guarded by the version
// column, so two processes racing on the same entity cannot interleave a
// read-modify-write: the loser fails with ErrConcurrentModification.
type DatabaseStore struct {
	db dbkit.IDB
}

// NewDatabaseStore creates a store on an existing dbkit connection.
//
// Example:
//
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	store := adminkit.NewDatabaseStore(db)
func NewDatabaseStore(db dbkit.IDB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

var (
	_ Repository   = (*DatabaseStore)(nil)
	_ RoleStore    = (*DatabaseStore)(nil)
	_ AuditSink    = (*DatabaseStore)(nil)
	_ AuditQuerier = (*DatabaseStore)(nil)
)

// GetUser implements Repository.
func (d *DatabaseStore) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := dbkit.WithErr1(d.db.NewSelect().Model(&u).Where("id = ?", id).Limit(1).Scan(ctx), "GetUser").Err()
	if err != nil {
		return nil, mapStoreErr(err, "user "+id)
	}
	return &u, nil
}

// SaveUser implements Repository.
func (d *DatabaseStore) SaveUser(ctx context.Context, user *User) error {
	res, err := d.db.NewUpdate().Model(user).
		ExcludeColumn("created_at").
		Value("version", "?", user.Version+1).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Exec(ctx)
	err = dbkit.WithErr(res, err, "SaveUser").Err()
	if err != nil {
		return mapStoreErr(err, "user "+user.ID)
	}
	return d.checkVersionedWrite(ctx, res, (*User)(nil), user.ID)
}

// DeleteUser implements Repository.
func (d *DatabaseStore) DeleteUser(ctx context.Context, id string) error {
	res, err := d.db.NewDelete().Model((*User)(nil)).Where("id = ?", id).Exec(ctx)
	err = dbkit.WithErr(res, err, "DeleteUser").Err()
	if err != nil {
		return mapStoreErr(err, "user "+id)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "user "+id+" does not exist").WithTarget(id)
	}
	return nil
}

// ListUsers implements Repository.
func (d *DatabaseStore) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	err := dbkit.WithErr1(d.db.NewSelect().Model(&users).Order("id ASC").Scan(ctx), "ListUsers").Err()
	if err != nil {
		return nil, mapStoreErr(err, "users")
	}
	return users, nil
}

// GetEvent implements Repository.
func (d *DatabaseStore) GetEvent(ctx context.Context, id string) (*Event, error) {
	var e Event
	err := dbkit.WithErr1(d.db.NewSelect().Model(&e).Where("id = ?", id).Limit(1).Scan(ctx), "GetEvent").Err()
	if err != nil {
		return nil, mapStoreErr(err, "event "+id)
	}
	return &e, nil
}

// SaveEvent implements Repository.
func (d *DatabaseStore) SaveEvent(ctx context.Context, event *Event) error {
	res, err := d.db.NewUpdate().Model(event).
		ExcludeColumn("created_at").
		Value("version", "?", event.Version+1).
		Where("id = ? AND version = ?", event.ID, event.Version).
		Exec(ctx)
	err = dbkit.WithErr(res, err, "SaveEvent").Err()
	if err != nil {
		return mapStoreErr(err, "event "+event.ID)
	}
	return d.checkVersionedWrite(ctx, res, (*Event)(nil), event.ID)
}

// DeleteEvent implements Repository.
func (d *DatabaseStore) DeleteEvent(ctx context.Context, id string) error {
	res, err := d.db.NewDelete().Model((*Event)(nil)).Where("id = ?", id).Exec(ctx)
	err = dbkit.WithErr(res, err, "DeleteEvent").Err()
	if err != nil {
		return mapStoreErr(err, "event "+id)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "event "+id+" does not exist").WithTarget(id)
	}
	return nil
}

// ListEvents implements Repository.
func (d *DatabaseStore) ListEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	err := dbkit.WithErr1(d.db.NewSelect().Model(&events).Order("id ASC").Scan(ctx), "ListEvents").Err()
	if err != nil {
		return nil, mapStoreErr(err, "events")
	}
	return events, nil
}

// GetPayout implements Repository.
func (d *DatabaseStore) GetPayout(ctx context.Context, id string) (*Payout, error) {
	var p Payout
	err := dbkit.WithErr1(d.db.NewSelect().Model(&p).Where("id = ?", id).Limit(1).Scan(ctx), "GetPayout").Err()
	if err != nil {
		return nil, mapStoreErr(err, "payout "+id)
	}
	return &p, nil
}

// SavePayout implements Repository.
func (d *DatabaseStore) SavePayout(ctx context.Context, payout *Payout) error {
	res, err := d.db.NewUpdate().Model(payout).
		ExcludeColumn("created_at").
		Value("version", "?", payout.Version+1).
		Where("id = ? AND version = ?", payout.ID, payout.Version).
		Exec(ctx)
	err = dbkit.WithErr(res, err, "SavePayout").Err()
	if err != nil {
		return mapStoreErr(err, "payout "+payout.ID)
	}
	return d.checkVersionedWrite(ctx, res, (*Payout)(nil), payout.ID)
}

// ListPayouts implements Repository.
func (d *DatabaseStore) ListPayouts(ctx context.Context) ([]Payout, error) {
	var payouts []Payout
	err := dbkit.WithErr1(d.db.NewSelect().Model(&payouts).Order("id ASC").Scan(ctx), "ListPayouts").Err()
	if err != nil {
		return nil, mapStoreErr(err, "payouts")
	}
	return payouts, nil
}

// GetRole implements RoleStore.
func (d *DatabaseStore) GetRole(ctx context.Context, id string) (*Role, error) {
	var r Role
	err := dbkit.WithErr1(d.db.NewSelect().Model(&r).Where("id = ?", id).Limit(1).Scan(ctx), "GetRole").Err()
	if err != nil {
		return nil, mapStoreErr(err, "role "+id)
	}
	return &r, nil
}

// CreateRole implements RoleStore.
func (d *DatabaseStore) CreateRole(ctx context.Context, role *Role) error {
	res, err := d.db.NewInsert().Model(role).Exec(ctx)
	err = dbkit.WithErr(res, err, "CreateRole").Err()
	if err != nil {
		if dbkit.IsDuplicate(err) {
			return NewError(ErrInvalidInput, "role "+role.ID+" already exists").WithRole(role.ID)
		}
		return mapStoreErr(err, "role "+role.ID)
	}
	return nil
}

// UpdateRole implements RoleStore.
func (d *DatabaseStore) UpdateRole(ctx context.Context, role *Role) error {
	res, err := d.db.NewUpdate().Model(role).
		ExcludeColumn("created_at").
		Value("version", "?", role.Version+1).
		Where("id = ? AND version = ?", role.ID, role.Version).
		Exec(ctx)
	err = dbkit.WithErr(res, err, "UpdateRole").Err()
	if err != nil {
		return mapStoreErr(err, "role "+role.ID)
	}
	rows, _ := res.RowsAffected()
	if rows > 0 {
		return nil
	}
	exists, err := dbkit.Exists[Role](ctx, d.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id = ?", role.ID)
	})
	if err != nil {
		return mapStoreErr(err, "role "+role.ID)
	}
	if !exists {
		return NewError(ErrNotFound, "role "+role.ID+" does not exist").WithRole(role.ID)
	}
	return NewError(ErrConcurrentModification, "role "+role.ID+" was modified concurrently").
		WithRole(role.ID)
}

// DeleteRole implements RoleStore.
func (d *DatabaseStore) DeleteRole(ctx context.Context, id string) error {
	res, err := d.db.NewDelete().Model((*Role)(nil)).Where("id = ?", id).Exec(ctx)
	err = dbkit.WithErr(res, err, "DeleteRole").Err()
	if err != nil {
		return mapStoreErr(err, "role "+id)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return NewError(ErrNotFound, "role "+id+" does not exist").WithRole(id)
	}
	return nil
}

// ListRoles implements RoleStore.
func (d *DatabaseStore) ListRoles(ctx context.Context) ([]Role, error) {
	var roles []Role
	err := dbkit.WithErr1(d.db.NewSelect().Model(&roles).Order("name ASC").Scan(ctx), "ListRoles").Err()
	if err != nil {
		return nil, mapStoreErr(err, "roles")
	}
	return roles, nil
}

// Append implements AuditSink. The table has no update or delete path in
// this package; entries are immutable once written.
func (d *DatabaseStore) Append(ctx context.Context, entry *AuditLogEntry) error {
	res, err := d.db.NewInsert().Model(entry).Exec(ctx)
	err = dbkit.WithErr(res, err, "AppendAuditLog").Err()
	if err != nil {
		return mapStoreErr(err, "audit entry "+entry.ID)
	}
	return nil
}

// AuditLog implements AuditQuerier, newest first.
func (d *DatabaseStore) AuditLog(ctx context.Context, filter AuditLogFilter) ([]AuditLogEntry, error) {
	var entries []AuditLogEntry
	q := d.db.NewSelect().Model(&entries)
	if filter.ActorID != "" {
		q = q.Where("actor_id = ?", filter.ActorID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		q = q.Where("target_type = ?", filter.TargetType)
	}
	if filter.TargetID != "" {
		q = q.Where("target_id = ?", filter.TargetID)
	}
	if !filter.Since.IsZero() {
		q = q.Where("timestamp >= ?", filter.Since)
	}
	if !filter.Until.IsZero() {
		q = q.Where("timestamp <= ?", filter.Until)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 100
	}
	q = q.Limit(limit)
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	q = q.Order("timestamp DESC")

	err := dbkit.WithErr1(q.Scan(ctx), "AuditLog").Err()
	if err != nil {
		return nil, mapStoreErr(err, "audit log")
	}
	return entries, nil
}

// checkVersionedWrite distinguishes a missing row from a lost version race
// after an optimistic update touched zero rows.
func (d *DatabaseStore) checkVersionedWrite(ctx context.Context, res interface{ RowsAffected() (int64, error) }, model any, id string) error {
	rows, _ := res.RowsAffected()
	if rows > 0 {
		return nil
	}
	exists, err := d.rowExists(ctx, model, id)
	if err != nil {
		return err
	}
	if !exists {
		return NewError(ErrNotFound, "entity "+id+" does not exist").WithTarget(id)
	}
	return NewError(ErrConcurrentModification, "entity "+id+" was modified concurrently").
		WithTarget(id)
}

func (d *DatabaseStore) rowExists(ctx context.Context, model any, id string) (bool, error) {
	var exists bool
	var err error
	switch model.(type) {
	case *User:
		exists, err = dbkit.Exists[User](ctx, d.db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("id = ?", id)
		})
	case *Event:
		exists, err = dbkit.Exists[Event](ctx, d.db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("id = ?", id)
		})
	case *Payout:
		exists, err = dbkit.Exists[Payout](ctx, d.db, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("id = ?", id)
		})
	}
	if err != nil {
		return false, mapStoreErr(err, "entity "+id)
	}
	return exists, nil
}

// mapStoreErr translates dbkit errors into the package taxonomy.
func mapStoreErr(err error, what string) error {
	if dbkit.IsNotFound(err) {
		return NewError(ErrNotFound, what+" does not exist")
	}
	return NewError(ErrStorage, what+": "+err.Error())
}
