package service

import "errors"

// Control-flow errors for giveaway operations. Everything here is an expected
// outcome reported to the acting user, not a system fault.
var (
	ErrNotFound         = errors.New("giveaway not found")
	ErrGiveawayNotEnded = errors.New("giveaway has not ended yet")

	ErrNotAdmin     = errors.New("giveaway admin role required")
	ErrNotInitiator = errors.New("only the initiator can confirm this action")

	ErrIneligibleRole = errors.New("required role missing")
	ErrDuplicateEntry = errors.New("already entered this giveaway")

	ErrInvalidDuration     = errors.New("invalid duration format")
	ErrInvalidWinnersCount = errors.New("winners count out of range")
	ErrInvalidPrize        = errors.New("invalid prize")
	ErrInvalidImage        = errors.New("invalid image URL")
	ErrRoleNotFound        = errors.New("role not found")

	ErrNoParticipantsFound = errors.New("no participants found")

	ErrReviewCancelled = errors.New("giveaway creation cancelled")
	ErrReviewExpired   = errors.New("giveaway setup timed out")
	ErrFormTimeout     = errors.New("form submission timed out")
	ErrConfirmTimeout  = errors.New("confirmation timed out")
	ErrConfirmDeclined = errors.New("confirmation declined")
)
