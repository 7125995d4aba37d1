package adminkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for AdminKit operations.
var (
	// ErrPermissionDenied is returned when the actor's role lacks the
	// (resource, action) grant required by an operation.
	ErrPermissionDenied = errors.New("adminkit: permission denied")

	// ErrInvalidTransition is returned when the entity's current state does
	// not permit the requested transition.
	ErrInvalidTransition = errors.New("adminkit: invalid transition")

	// ErrReasonRequired is returned when a mandatory free-text reason was
	// empty or whitespace.
	ErrReasonRequired = errors.New("adminkit: reason required")

	// ErrImmutableRole is returned on any attempt to update or delete a
	// system role, regardless of the caller's permission level.
	ErrImmutableRole = errors.New("adminkit: immutable role")

	// ErrNotFound is returned when a target entity or role does not exist.
	ErrNotFound = errors.New("adminkit: not found")

	// ErrConcurrentModification is returned when an optimistic version check
	// fails on persist.
	ErrConcurrentModification = errors.New("adminkit: concurrent modification")

	// ErrAuditWriteFailed marks a failed audit append. It is never returned
	// as the operation error: the mutation has already committed, so it is
	// surfaced on Result.AuditErr and logged.
	ErrAuditWriteFailed = errors.New("adminkit: audit write failed")

	// ErrUnknownOperation is returned when an Op is not defined.
	ErrUnknownOperation = errors.New("adminkit: unknown operation")

	// ErrInvalidInput is returned when operation input fails validation
	// before any state is touched.
	ErrInvalidInput = errors.New("adminkit: invalid input")

	// ErrStorage is returned when a persistence collaborator fails.
	ErrStorage = errors.New("adminkit: storage error")
)

// Error wraps a sentinel error with the context a caller needs to render an
// actionable message: which permission was missing, which precondition did
// not hold, which entity was involved.
type Error struct {
	Err      error    // Underlying sentinel error
	Message  string   // Additional context
	Resource Resource // Resource involved
	Action   Action   // Permission action involved (if applicable)
	Op       Op       // Operation involved (if applicable)
	TargetID string   // Entity involved (if applicable)
	ActorID  string   // Actor who triggered the error (if applicable)
	RoleID   string   // Role involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithPermission adds the missing (resource, action) pair to the error.
func (e *Error) WithPermission(resource Resource, action Action) *Error {
	e.Resource = resource
	e.Action = action
	return e
}

// WithOp adds the operation to the error.
func (e *Error) WithOp(op Op) *Error {
	e.Op = op
	return e
}

// WithTarget adds the target entity to the error.
func (e *Error) WithTarget(targetID string) *Error {
	e.TargetID = targetID
	return e
}

// WithActor adds the acting admin to the error.
func (e *Error) WithActor(actorID string) *Error {
	e.ActorID = actorID
	return e
}

// WithRole adds the role to the error.
func (e *Error) WithRole(roleID string) *Error {
	e.RoleID = roleID
	return e
}

// IsPermissionDenied checks if an error is a permission failure.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsInvalidTransition checks if an error is a state-machine precondition
// failure.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsReasonRequired checks if an error is a missing-reason failure.
func IsReasonRequired(err error) bool {
	return errors.Is(err, ErrReasonRequired)
}

// IsImmutableRole checks if an error is a system-role mutation attempt.
func IsImmutableRole(err error) bool {
	return errors.Is(err, ErrImmutableRole)
}

// IsNotFound checks if an error is a missing entity or role.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConcurrentModification checks if an error is an optimistic-concurrency
// conflict.
func IsConcurrentModification(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}

// IsAuditWriteFailed checks if an error is a failed audit append.
func IsAuditWriteFailed(err error) bool {
	return errors.Is(err, ErrAuditWriteFailed)
}
