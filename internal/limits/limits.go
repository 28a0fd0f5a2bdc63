// Package limits holds the two configurable ceilings, expressed in normalized
// units, and validates proposed changes against current ledger state.
package limits

import "errors"

var (
	ErrZeroCap = errors.New("limits: cap must be non-zero")
	// ErrCapBelowCurrentValue prevents wedging the system with an aggregate
	// cap the current balance already exceeds.
	ErrCapBelowCurrentValue = errors.New("limits: aggregate cap below current aggregate value")
	ErrCapAboveAggregate    = errors.New("limits: withdrawal cap above aggregate cap")
)

// Controller stores the caps. Not safe for concurrent use on its own; the
// vault serializes access. Changes take effect immediately, with no
// grandfathering of in-flight state.
type Controller struct {
	aggregateCap  uint64
	withdrawalCap uint64
}

// New creates a controller. Initial values must already satisfy
// withdrawalCap <= aggregateCap; config validation enforces that.
func New(aggregateCap, withdrawalCap uint64) *Controller {
	return &Controller{
		aggregateCap:  aggregateCap,
		withdrawalCap: withdrawalCap,
	}
}

// AggregateCap returns the system-wide value ceiling.
func (c *Controller) AggregateCap() uint64 {
	return c.aggregateCap
}

// WithdrawalCap returns the per-withdrawal value ceiling.
func (c *Controller) WithdrawalCap() uint64 {
	return c.withdrawalCap
}

// SetAggregateCap replaces the aggregate cap. currentValue is the ledger's
// aggregate at call time. The withdrawal cap must remain within the new cap.
func (c *Controller) SetAggregateCap(newCap, currentValue uint64) error {
	if newCap == 0 {
		return ErrZeroCap
	}
	if newCap < currentValue {
		return ErrCapBelowCurrentValue
	}
	if c.withdrawalCap > newCap {
		return ErrCapAboveAggregate
	}
	c.aggregateCap = newCap
	return nil
}

// SetWithdrawalCap replaces the per-withdrawal cap.
func (c *Controller) SetWithdrawalCap(newCap uint64) error {
	if newCap == 0 {
		return ErrZeroCap
	}
	if newCap > c.aggregateCap {
		return ErrCapAboveAggregate
	}
	c.withdrawalCap = newCap
	return nil
}
