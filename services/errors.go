package services

import "errors"

// Shared sentinel errors, mapped to HTTP statuses in the handlers package.
var (
	// Not found
	ErrNotFound                  = errors.New("requested resource not found")
	ErrMatchNotFound             = errors.New("match not found")
	ErrSeasonNotFound            = errors.New("season not found")
	ErrDivisionNotFound          = errors.New("division not found")
	ErrTeamNotFound              = errors.New("team not found")
	ErrDisputeNotFound           = errors.New("dispute not found")
	ErrOpposingSubmissionMissing = errors.New("no submission from the opposing team to confirm")

	// Validation and business rules
	ErrValidationFailed        = errors.New("validation failed")
	ErrMatchTeamCountInvalid   = errors.New("match requires exactly two team ids")
	ErrMatchTeamsNotDistinct   = errors.New("match requires two distinct teams")
	ErrMatchBestOfInvalid      = errors.New("best_of must be between 1 and 7")
	ErrMatchScheduleRequired   = errors.New("scheduled_at is required")
	ErrScoresInvalid           = errors.New("invalid scores payload")
	ErrDisputeReasonRequired   = errors.New("dispute reason is required")
	ErrRulingDecisionInvalid   = errors.New("invalid ruling decision")
	ErrRulingReasoningRequired = errors.New("ruling reasoning is required")
	ErrMatchStatusNotSettable  = errors.New("this match status can only be reached through the result flow")

	// Conflicts
	ErrResultAlreadySubmitted = errors.New("result already submitted for this team")
	ErrResultAlreadyConfirmed = errors.New("result already confirmed for this team")
	ErrDisputeAlreadyResolved = errors.New("dispute is already resolved")

	// Authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
	ErrTeamNotInMatch     = errors.New("acting team is not a participant of this match")
	ErrNotTeamCoach       = errors.New("only the team coach can act for this team")
)
