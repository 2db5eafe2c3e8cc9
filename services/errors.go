package services

import "errors"

// Caller-facing workflow errors. All of them are recoverable: a failed call
// leaves the decision log untouched and the caller may retry after fixing
// the input. Controllers map these onto HTTP status codes.
var (
	// ErrUnauthorized means the actor lacks the stage capability or the
	// chairperson flag required for the operation.
	ErrUnauthorized = errors.New("not authorized for this review action")

	// ErrStageNotActionable means the stage's prerequisites are unmet or the
	// application has already reached a terminal status.
	ErrStageNotActionable = errors.New("stage is not currently actionable")

	// ErrStageAlreadyFinalized means an active decision already exists for
	// the (application, stage) pair and the caller is not overriding.
	ErrStageAlreadyFinalized = errors.New("stage already has an active decision")

	// ErrInvalidPayload means a stage-required payload field is missing or
	// malformed.
	ErrInvalidPayload = errors.New("invalid decision payload")

	// ErrAppealAlreadyResolved means the appeal lifecycle has already ended.
	ErrAppealAlreadyResolved = errors.New("appeal is already resolved")

	// ErrAppealNotAllowed means the application is not in a state that
	// permits filing an appeal.
	ErrAppealNotAllowed = errors.New("application is not eligible for appeal")

	// ErrUnknownUser means the user has no committee membership. Callers
	// must treat this as "no permissions", not as a failure of the system.
	ErrUnknownUser = errors.New("user has no committee role assignment")

	// ErrUnknownApplication means the application id does not exist.
	ErrUnknownApplication = errors.New("application not found")

	// ErrUnknownAppeal means the appeal id does not exist.
	ErrUnknownAppeal = errors.New("appeal not found")
)
