package models

// CheckInResult is returned after a successful daily check-in
type CheckInResult struct {
	Bonus      int64
	NewBalance int64
	Day        Day
}

// ReferralResult is returned after a referral bonus is applied
type ReferralResult struct {
	ReferrerID      int64
	NewUserID       int64
	Bonus           int64
	ReferrerBalance int64
	ReferralCount   int64
}

// AdjustResult is returned after an administrator balance adjustment
type AdjustResult struct {
	UserID        int64
	Requested     int64
	Applied       int64 // differs from Requested when a revoke was clamped at zero
	BalanceBefore int64
	NewBalance    int64
}

// BroadcastResult reports how many recipients a broadcast was queued for
type BroadcastResult struct {
	Recipients int
}
