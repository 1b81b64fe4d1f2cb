package calendar

import "fmt"

// The error taxonomy is closed: every failure path maps to one of the
// named kinds below or to timezone.InvalidZoneError /
// recurrence.InvalidRuleError from the delegated validations. There is
// no catch-all kind. Collaborators match with errors.As and map each
// kind to their own transport representation.

// EventNotFoundError reports an event identity that does not resolve.
type EventNotFoundError struct {
	ID EventID
}

func (e *EventNotFoundError) Error() string {
	return fmt.Sprintf("event not found: %s", e.ID)
}

// CalendarNotFoundError reports a calendar identity that does not
// resolve.
type CalendarNotFoundError struct {
	ID CalendarID
}

func (e *CalendarNotFoundError) Error() string {
	return fmt.Sprintf("calendar not found: %s", e.ID)
}

// UserNotFoundError reports a user identity that does not resolve.
type UserNotFoundError struct {
	ID UserID
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user not found: %s", e.ID)
}

// VersionConflictError reports a concurrent-edit collision. Expected
// is the version the caller supplied, Actual the version the record is
// at. The recovery path is reload-and-retry.
type VersionConflictError struct {
	Expected int64
	Actual   int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: expected %d, got %d", e.Expected, e.Actual)
}

// InvalidEventDataError reports event or calendar field validation
// failures, e.g. a blank title or an end before the start.
type InvalidEventDataError struct {
	Reason string
}

func (e *InvalidEventDataError) Error() string {
	return fmt.Sprintf("invalid event data: %s", e.Reason)
}

// PermissionDeniedError is the authorization failure kind. The engine
// does not decide permissions itself; the kind exists so an
// authorization collaborator can signal through the same taxonomy.
type PermissionDeniedError struct{}

func (e *PermissionDeniedError) Error() string {
	return "permission denied"
}
