package services

// All money is integer minor units (cents). The platform keeps 10% of every
// session amount; the coach earns the exact remainder, so the two derived
// fields always sum back to the amount.

const platformFeePercent = 10

type PaymentSplit struct {
	AmountCents        int64
	PlatformFeeCents   int64
	CoachEarningsCents int64
}

// DerivePayment computes the fee split for an amount. The fee is
// round(amount * 0.10) with half-up rounding on cents. It must be applied
// by every write path that sets or changes a payment amount.
func DerivePayment(amountCents int64) PaymentSplit {
	fee := (amountCents*platformFeePercent + 50) / 100
	return PaymentSplit{
		AmountCents:        amountCents,
		PlatformFeeCents:   fee,
		CoachEarningsCents: amountCents - fee,
	}
}

// SessionAmountCents prices a session from the coach's hourly rate.
func SessionAmountCents(hourlyRateCents int64, durationMinutes int) int64 {
	return hourlyRateCents * int64(durationMinutes) / 60
}
