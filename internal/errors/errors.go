package errors

import "errors"

// Sentinel errors shared by the service and API layers. Services wrap them with
// context (fmt.Errorf("%w: ...")) and the API layer maps them to status codes
// with errors.Is, so handlers never see storage or transport details.

var (
	// ErrNotFound signifies that a requested resource could not be located.
	// This is typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data provided by a client failed
	// business rule validation.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that an operation conflicts with the current state
	// of a resource. Mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrUnauthenticated signifies a missing, malformed or expired session token.
	// Mapped to 401 Unauthorized.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrPermission signifies that the authenticated user is not authorized
	// to perform the requested action.
	// This is typically mapped to a 403 Forbidden HTTP status.
	ErrPermission = errors.New("permission denied")

	// ErrRateLimited signifies that a client used up its message quota.
	// Mapped to 429 Too Many Requests.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInternal signifies an unexpected error on the server. It is used to
	// avoid leaking implementation details to the client.
	// This is typically mapped to a 500 Internal Server Error HTTP status.
	ErrInternal = errors.New("internal server error")
)
