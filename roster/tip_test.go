package roster_test

import (
	"testing"
	"time"

	"github.com/kulturwerk/shift-engine/roster"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pool(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// eligibleShift returns a tip-eligible shift spanning the given minutes.
func eligibleShift(minutes int) *roster.Shift {
	ci := at(9, 0)
	co := ci.Add(time.Duration(minutes) * time.Minute)
	return &roster.Shift{
		ID:          "shift-" + roster.MinutesToHHMM(minutes),
		ClockIn:     ci,
		ClockOut:    &co,
		ReceivesTip: true,
	}
}

func TestPersonalTip_EqualSplit(t *testing.T) {
	// GIVEN: 100 pooled over two eligible 120-minute shifts
	own := eligibleShift(120)
	other := eligibleShift(120)

	// THEN: floor(100*120/240/5)*5 = 50
	share := roster.PersonalTip(pool(100), own, []*roster.Shift{own, other})
	require.NotNil(t, share)
	assert.True(t, decimal.NewFromInt(50).Equal(*share), "got %s", share)
}

func TestPersonalTip_RoundsDownToMultipleOfFive(t *testing.T) {
	// 100 * 100 / 300 = 33.33 -> nearest lower multiple of 5 is 30
	own := eligibleShift(100)
	other := eligibleShift(200)

	share := roster.PersonalTip(pool(100), own, []*roster.Shift{own, other})
	require.NotNil(t, share)
	assert.True(t, decimal.NewFromInt(30).Equal(*share), "got %s", share)
}

func TestPersonalTip_NilWhenNothingToPay(t *testing.T) {
	own := eligibleShift(120)
	all := []*roster.Shift{own}

	assert.Nil(t, roster.PersonalTip(nil, own, all), "no pool recorded")

	zero := decimal.Zero
	assert.Nil(t, roster.PersonalTip(&zero, own, all), "zero pool")

	assert.Nil(t, roster.PersonalTip(pool(100), nil, all), "no own shift")

	ineligible := eligibleShift(120)
	ineligible.ReceivesTip = false
	assert.Nil(t, roster.PersonalTip(pool(100), ineligible, all), "not tip-eligible")
}

func TestPersonalTip_ZeroEligibleMinutes(t *testing.T) {
	// GIVEN: The only eligible shift has no minutes recorded yet
	own := &roster.Shift{ID: "shift-open", ClockIn: at(9, 0), ReceivesTip: true}

	// THEN: 0, not a division-by-zero panic
	share := roster.PersonalTip(pool(100), own, []*roster.Shift{own})
	require.NotNil(t, share)
	assert.True(t, share.IsZero())
}

func TestPersonalTip_IneligibleMinutesExcludedFromDenominator(t *testing.T) {
	// The ineligible worker's minutes neither receive a share nor dilute
	// the others.
	own := eligibleShift(120)
	ineligible := eligibleShift(120)
	ineligible.ReceivesTip = false

	share := roster.PersonalTip(pool(100), own, []*roster.Shift{own, ineligible})
	require.NotNil(t, share)
	assert.True(t, decimal.NewFromInt(100).Equal(*share), "got %s", share)
}

func TestPersonalTip_SumNeverExceedsPool(t *testing.T) {
	// Rounding down loses remainder: the sum of shares is <= the pool,
	// equality is NOT guaranteed.
	shifts := []*roster.Shift{
		eligibleShift(47),
		eligibleShift(122),
		eligibleShift(301),
		eligibleShift(89),
	}
	total := pool(137)

	sum := decimal.Zero
	for _, s := range shifts {
		if share := roster.PersonalTip(total, s, shifts); share != nil {
			sum = sum.Add(*share)
		}
	}

	assert.True(t, sum.LessThanOrEqual(*total), "sum %s exceeds pool %s", sum, total)
}
