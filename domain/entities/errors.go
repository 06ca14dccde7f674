package entities

import "errors"

// Validation and business-rule errors returned to callers. Handlers branch
// their user-facing messaging on these, so they are matched with errors.Is
// rather than string comparison.
var (
	// ErrMalformedCombination indicates a combination that is not exactly three decimal digits.
	ErrMalformedCombination = errors.New("combination must be exactly 3 digits")

	// ErrTripleNotAllowed indicates a rambol wager on a triple (all three digits equal).
	// A triple has a single permutation, which breaks rambol payout economics.
	ErrTripleNotAllowed = errors.New("triple combinations are not allowed for rambol wagers")

	// ErrDuplicateWager indicates the same (combination, wager type) pair appears twice on one ticket.
	ErrDuplicateWager = errors.New("duplicate combination and wager type on ticket")

	// ErrDrawNotFound indicates the referenced draw does not exist.
	ErrDrawNotFound = errors.New("draw not found")

	// ErrDrawNotOpen indicates the draw is no longer accepting tickets.
	ErrDrawNotOpen = errors.New("draw is not open for betting")

	// ErrBettingWindowClosed indicates the clock has passed the draw's betting window
	// even if the status sweep has not flipped the draw yet.
	ErrBettingWindowClosed = errors.New("betting window is closed for this draw")

	// ErrInvalidDrawState indicates a lifecycle transition was requested from the wrong status.
	ErrInvalidDrawState = errors.New("draw is not in a valid state for this operation")

	// ErrLimitExceeded indicates accepting the stake would push a number past its exposure ceiling.
	ErrLimitExceeded = errors.New("stake would exceed the exposure limit for this combination")

	// ErrSoldOut indicates the combination already reached its exposure ceiling.
	ErrSoldOut = errors.New("combination is sold out for this draw")

	// ErrInsufficientBalance indicates the account balance cannot cover the ticket total.
	ErrInsufficientBalance = errors.New("insufficient balance")
)
