package contract

import "errors"

// Errors returned on the abort channel: the caller did not meet a documented
// precondition, or the aggregate reached a state its own control flow rules
// out. Business-rule rejections are ordinary result values, not errors.
var (
	ErrInsufficientStake  = errors.New("attached deposit is less than the minimum stake")
	ErrInvalidSlateLength = errors.New("invalid answer")

	// ErrInvariant marks a state no reachable call sequence can produce.
	ErrInvariant = errors.New("invariant violation")
)
