package adminkit

import (
	"net/http"
)

// Middleware provides HTTP middleware for permission checking in host
// applications. It is router-agnostic: any mux that accepts
// func(http.Handler) http.Handler can mount it.
type Middleware struct {
	service      *Service
	getActorID   func(*http.Request) string
	errorHandler func(http.ResponseWriter, *http.Request, error)
}

// MiddlewareOption configures the Middleware.
type MiddlewareOption func(*Middleware)

// NewMiddleware creates a new Middleware instance.
//
// Example:
//
//	mw := adminkit.NewMiddleware(service,
//	    adminkit.WithActorIDExtractor(func(r *http.Request) string {
//	        return r.Header.Get("X-Admin-ID")
//	    }),
//	)
func NewMiddleware(service *Service, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		service:      service,
		getActorID:   defaultGetActorID,
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithActorIDExtractor sets a custom function to extract the acting admin's
// id from a request.
func WithActorIDExtractor(fn func(*http.Request) string) MiddlewareOption {
	return func(m *Middleware) {
		m.getActorID = fn
	}
}

// WithErrorHandler sets a custom error handler for middleware.
func WithErrorHandler(fn func(http.ResponseWriter, *http.Request, error)) MiddlewareOption {
	return func(m *Middleware) {
		m.errorHandler = fn
	}
}

func defaultGetActorID(r *http.Request) string {
	return GetActorID(r.Context())
}

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case IsPermissionDenied(err):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case IsNotFound(err):
		http.Error(w, "Not Found", http.StatusNotFound)
	default:
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// RequirePermission creates middleware that requires the actor's role to
// hold (resource, action). The actor id is resolved per request; downstream
// handlers find it in the context via GetActorID.
//
// Example:
//
//	router.With(mw.RequirePermission(adminkit.ResourceEvents, adminkit.ActionApprove)).
//	    Post("/admin/events/{eventID}/approve", approveHandler)
func (m *Middleware) RequirePermission(resource Resource, action Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actorID := m.getActorID(r)
			if actorID == "" {
				m.errorHandler(w, r, NewError(ErrPermissionDenied, "no actor id on request"))
				return
			}

			if err := m.service.Authorize(ctx, actorID, resource, action); err != nil {
				m.errorHandler(w, r, err)
				return
			}

			r = r.WithContext(WithActorID(ctx, actorID))
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin creates middleware that only passes requests from actors
// holding the super_admin system role.
func (m *Middleware) RequireSuperAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actorID := m.getActorID(r)
			if actorID == "" {
				m.errorHandler(w, r, NewError(ErrPermissionDenied, "no actor id on request"))
				return
			}

			_, role, err := m.service.resolveActor(ctx, actorID)
			if err != nil {
				m.errorHandler(w, r, err)
				return
			}
			if role.ID != RoleSuperAdmin {
				m.errorHandler(w, r, NewError(ErrPermissionDenied, "super_admin role required").
					WithActor(actorID).WithRole(role.ID))
				return
			}

			r = r.WithContext(WithActorID(ctx, actorID))
			next.ServeHTTP(w, r)
		})
	}
}
