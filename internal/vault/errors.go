package vault

import "errors"

// Every failure condition is a distinct sentinel so callers can assert on the
// precise cause. All failures abort the whole operation with no partial
// effects; nothing is retried internally. Collaborator packages own their own
// conditions (oracle.ErrStalePrice, registry.ErrTokenNotSupported,
// limits.ErrCapBelowCurrentValue, guard.ErrReentrantCall, ...).
var (
	// Input validation
	ErrZeroAmount  = errors.New("vault: amount must be greater than zero")
	ErrZeroAddress = errors.New("vault: recipient address must not be the zero address")

	// State validation
	ErrInsufficientBalance   = errors.New("vault: balance is insufficient for the requested amount")
	ErrNativeTokenNotAllowed = errors.New("vault: native asset is not valid for this entry point")
	// ErrAmountTooSmall rejects amounts whose normalized value floors to
	// zero. Anti-dust guard, not a converter error.
	ErrAmountTooSmall = errors.New("vault: amount normalizes to zero value")

	// Policy violation
	ErrBankCapExceeded         = errors.New("vault: deposit would exceed the aggregate value cap")
	ErrWithdrawalLimitExceeded = errors.New("vault: withdrawal value exceeds the per-withdrawal cap")

	// Interaction and authority
	ErrHalted         = errors.New("vault: system is halted")
	ErrTransferFailed = errors.New("vault: external transfer failed")
	ErrNotAuthorized  = errors.New("vault: caller lacks the required role")

	// Internal hard failures
	ErrBalanceOverflow    = errors.New("vault: balance addition would wrap")
	ErrLedgerInconsistent = errors.New("vault: ledger aggregate consistency check failed")
)
