package domain

import "errors"

// Validation errors.
var (
	ErrInvalidTitle    = errors.New("campaign title is empty")
	ErrInvalidGoal     = errors.New("campaign goal must be a positive whole amount")
	ErrInvalidDuration = errors.New("campaign duration must be positive")
	ErrInvalidAmount   = errors.New("amount must be a positive whole amount")
	ErrInvalidAccount  = errors.New("account is empty")
)

// Lookup errors.
var ErrNotFound = errors.New("campaign not found")

// State-mismatch errors.
var (
	ErrEnded            = errors.New("campaign has ended")
	ErrNotEnded         = errors.New("campaign has not ended")
	ErrAlreadyFinalized = errors.New("campaign already finalized")
	ErrNotSuccessful    = errors.New("campaign is not successful")
	ErrNotFailed        = errors.New("campaign did not fail")
	ErrNothingToClaim   = errors.New("nothing to claim")
	ErrNothingToRefund  = errors.New("nothing to refund")
)

// Authorization errors.
var (
	ErrNotOwner        = errors.New("caller is not the reward ledger owner")
	ErrNotMinter       = errors.New("caller is not the minter")
	ErrUnauthenticated = errors.New("caller is not authenticated")
)

// ErrInsufficientFunds is returned by the treasury when an account cannot
// cover a transfer.
var ErrInsufficientFunds = errors.New("insufficient funds")

// codes maps every sentinel to the stable identifier used on the wire.
var codes = []struct {
	err  error
	code string
}{
	{ErrInvalidTitle, "InvalidTitle"},
	{ErrInvalidGoal, "InvalidGoal"},
	{ErrInvalidDuration, "InvalidDuration"},
	{ErrInvalidAmount, "InvalidAmount"},
	{ErrInvalidAccount, "InvalidAccount"},
	{ErrNotFound, "NotFound"},
	{ErrEnded, "Ended"},
	{ErrNotEnded, "NotEnded"},
	{ErrAlreadyFinalized, "AlreadyFinalized"},
	{ErrNotSuccessful, "NotSuccessful"},
	{ErrNotFailed, "NotFailed"},
	{ErrNothingToClaim, "NothingToClaim"},
	{ErrNothingToRefund, "NothingToRefund"},
	{ErrNotOwner, "NotOwner"},
	{ErrNotMinter, "NotMinter"},
	{ErrUnauthenticated, "Unauthenticated"},
	{ErrInsufficientFunds, "InsufficientFunds"},
}

// Code returns the stable error code for err, or "Internal" when err does
// not wrap a known sentinel.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "Internal"
}

// IsValidation reports whether err is caused by bad caller input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidTitle) ||
		errors.Is(err, ErrInvalidGoal) ||
		errors.Is(err, ErrInvalidDuration) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidAccount)
}

// IsStateMismatch reports whether err means the campaign is in the wrong
// lifecycle state for the requested action.
func IsStateMismatch(err error) bool {
	return errors.Is(err, ErrEnded) ||
		errors.Is(err, ErrNotEnded) ||
		errors.Is(err, ErrAlreadyFinalized) ||
		errors.Is(err, ErrNotSuccessful) ||
		errors.Is(err, ErrNotFailed) ||
		errors.Is(err, ErrNothingToClaim) ||
		errors.Is(err, ErrNothingToRefund)
}
