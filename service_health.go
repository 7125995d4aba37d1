package adminkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// HealthService exposes database health checks for hosts wiring the
// DatabaseStore into readiness probes.
type HealthService struct {
	store *DatabaseStore
}

// NewHealthService creates a health service for a database store.
func NewHealthService(store *DatabaseStore) *HealthService {
	return &HealthService{store: store}
}

// Health performs a comprehensive health check of the database connection,
// including latency and connection pool statistics.
func (hs *HealthService) Health(ctx context.Context) dbkit.HealthStatus {
	if db, ok := hs.store.db.(*dbkit.DBKit); ok {
		return db.Health(ctx)
	}
	return dbkit.HealthStatus{
		Healthy: hs.IsHealthy(ctx),
		Error:   "Limited health check - not a DBKit instance",
	}
}

// IsHealthy reports whether the database is reachable.
func (hs *HealthService) IsHealthy(ctx context.Context) bool {
	if db, ok := hs.store.db.(*dbkit.DBKit); ok {
		return db.IsHealthy(ctx)
	}
	return hs.Ping(ctx) == nil
}

// Ping performs a basic connectivity test to the database.
func (hs *HealthService) Ping(ctx context.Context) error {
	var result int
	return hs.store.db.NewSelect().ColumnExpr("1").Scan(ctx, &result)
}
