/*
tip.go - Proportional tip allocation

PURPOSE:
  Splits a pooled gratuity across workers by minutes worked. Each
  eligible worker receives their proportional share rounded DOWN to the
  nearest multiple of 5 (business-chosen payout granularity).

THE ROUNDING IS LOSSY BY DESIGN:
  The sum of all individual shares may be strictly less than the pool;
  the remainder is currently discarded, never redistributed. Callers
  must not assume conservation.

PRECISION:
  All arithmetic is decimal.Decimal. The pool amount arrives as decimal
  from the store; minutes are exact integers.
*/
package roster

import "github.com/shopspring/decimal"

var five = decimal.NewFromInt(5)

// PersonalTip computes one worker's share of an event's tip pool.
//
// Returns nil when there is nothing to pay out: no pool (nil or zero),
// no own shift, or the shift is not tip-eligible. Returns zero when the
// pool exists but no eligible minutes were recorded at all (avoids the
// division by zero rather than erroring).
//
// Otherwise the share is
//
//	floor(totalTip * ownMinutes / totalEligibleMinutes / 5) * 5
//
// where totalEligibleMinutes sums WorkedMinutes over every shift in
// allShifts with ReceivesTip set; shifts missing a timestamp contribute
// zero minutes.
func PersonalTip(totalTip *decimal.Decimal, ownShift *Shift, allShifts []*Shift) *decimal.Decimal {
	if totalTip == nil || totalTip.IsZero() || ownShift == nil || !ownShift.ReceivesTip {
		return nil
	}

	totalEligible := 0
	for _, s := range allShifts {
		if s == nil || !s.ReceivesTip {
			continue
		}
		if m, ok := ShiftMinutes(s); ok {
			totalEligible += m
		}
	}
	if totalEligible == 0 {
		zero := decimal.Zero
		return &zero
	}

	ownMinutes, _ := ShiftMinutes(ownShift)

	share := totalTip.
		Mul(decimal.NewFromInt(int64(ownMinutes))).
		Div(decimal.NewFromInt(int64(totalEligible))).
		Div(five).
		Floor().
		Mul(five)
	return &share
}
