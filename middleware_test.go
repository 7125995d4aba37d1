package adminkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(t *testing.T, gotActor *string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotActor = GetActorID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

// TestMiddlewareRequirePermission validates the permission gate and actor
// propagation into the request context.
func TestMiddlewareRequirePermission(t *testing.T) {
	svc, store := newTestService(t)
	seedEvent(store, "event-1", ApprovalPending, false, "")

	mw := NewMiddleware(svc, WithActorIDExtractor(func(r *http.Request) string {
		return r.Header.Get("X-Admin-ID")
	}))

	var gotActor string
	handler := mw.RequirePermission(ResourceEvents, ActionApprove)(okHandler(t, &gotActor))

	req := httptest.NewRequest(http.MethodPost, "/admin/events/event-1/approve", nil)
	req.Header.Set("X-Admin-ID", actorMod)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, actorMod, gotActor)
}

// TestMiddlewareRequirePermissionDenied validates the 403 path.
func TestMiddlewareRequirePermissionDenied(t *testing.T) {
	svc, _ := newTestService(t)

	mw := NewMiddleware(svc, WithActorIDExtractor(func(r *http.Request) string {
		return r.Header.Get("X-Admin-ID")
	}))

	var gotActor string
	handler := mw.RequirePermission(ResourceEvents, ActionDelete)(okHandler(t, &gotActor))

	req := httptest.NewRequest(http.MethodDelete, "/admin/events/event-1", nil)
	req.Header.Set("X-Admin-ID", actorMod)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, gotActor)
}

// TestMiddlewareMissingActor validates rejection when no actor id can be
// extracted.
func TestMiddlewareMissingActor(t *testing.T) {
	svc, _ := newTestService(t)
	mw := NewMiddleware(svc)

	var gotActor string
	handler := mw.RequirePermission(ResourceUsers, ActionView)(okHandler(t, &gotActor))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// TestMiddlewareDefaultExtractorUsesContext validates the default actor
// extraction from the request context.
func TestMiddlewareDefaultExtractorUsesContext(t *testing.T) {
	svc, _ := newTestService(t)
	mw := NewMiddleware(svc)

	var gotActor string
	handler := mw.RequirePermission(ResourceUsers, ActionView)(okHandler(t, &gotActor))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req = req.WithContext(WithActorID(req.Context(), actorSupport))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, actorSupport, gotActor)
}

// TestMiddlewareRequireSuperAdmin validates the elevated gate.
func TestMiddlewareRequireSuperAdmin(t *testing.T) {
	svc, _ := newTestService(t)
	mw := NewMiddleware(svc, WithActorIDExtractor(func(r *http.Request) string {
		return r.Header.Get("X-Admin-ID")
	}))

	var gotActor string
	handler := mw.RequireSuperAdmin()(okHandler(t, &gotActor))

	req := httptest.NewRequest(http.MethodPost, "/admin/roles", nil)
	req.Header.Set("X-Admin-ID", actorRoot)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, actorRoot, gotActor)

	req = httptest.NewRequest(http.MethodPost, "/admin/roles", nil)
	req.Header.Set("X-Admin-ID", actorFinance)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// TestMiddlewareCustomErrorHandler validates error handler injection.
func TestMiddlewareCustomErrorHandler(t *testing.T) {
	svc, _ := newTestService(t)

	var handled error
	mw := NewMiddleware(svc,
		WithActorIDExtractor(func(r *http.Request) string { return r.Header.Get("X-Admin-ID") }),
		WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			handled = err
			w.WriteHeader(http.StatusTeapot)
		}),
	)

	var gotActor string
	handler := mw.RequirePermission(ResourceFinance, ActionApprove)(okHandler(t, &gotActor))

	req := httptest.NewRequest(http.MethodPost, "/admin/payouts/p1/process", nil)
	req.Header.Set("X-Admin-ID", actorSupport)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.Error(t, handled)
	assert.True(t, IsPermissionDenied(handled))
}
