package types

import (
	"fmt"
	"strconv"

	"cosmossdk.io/math"
)

// LockupTier is the lockup duration of a deposit in days.
// Only the tiers listed in lockupBonuses are valid.
type LockupTier uint32

const (
	LockupNone    LockupTier = 0
	Lockup30Days  LockupTier = 30
	Lockup90Days  LockupTier = 90
	Lockup180Days LockupTier = 180
	Lockup365Days LockupTier = 365
)

// AllLockupTiers lists the valid tiers in increasing order
var AllLockupTiers = []LockupTier{LockupNone, Lockup30Days, Lockup90Days, Lockup180Days, Lockup365Days}

// lockupBonuses must stay strictly increasing with the tier
var lockupBonuses = map[LockupTier]math.LegacyDec{
	LockupNone:    math.LegacyZeroDec(),
	Lockup30Days:  math.LegacyMustNewDecFromStr("0.05"),
	Lockup90Days:  math.LegacyMustNewDecFromStr("0.15"),
	Lockup180Days: math.LegacyMustNewDecFromStr("0.30"),
	Lockup365Days: math.LegacyMustNewDecFromStr("0.50"),
}

// IsValid returns true if the tier is one of the allowed lockups
func (l LockupTier) IsValid() bool {
	_, ok := lockupBonuses[l]
	return ok
}

// Bonus returns the reward multiplier bonus of the tier, zero for unknown tiers
func (l LockupTier) Bonus() math.LegacyDec {
	if b, ok := lockupBonuses[l]; ok {
		return b
	}
	return math.LegacyZeroDec()
}

// Seconds returns the lockup length in seconds
func (l LockupTier) Seconds() int64 {
	return int64(l) * SecondsPerDay
}

func (l LockupTier) String() string {
	return fmt.Sprintf("%dd", uint32(l))
}

// ParseLockup converts a day count into a lockup tier
func ParseLockup(days uint64) (LockupTier, error) {
	if days > uint64(Lockup365Days) {
		return 0, ErrInvalidLockupDuration.Wrapf("lockup %d days, allowed %v", days, AllLockupTiers)
	}
	tier := LockupTier(days)
	if !tier.IsValid() {
		return 0, ErrInvalidLockupDuration.Wrapf("lockup %d days, allowed %v", days, AllLockupTiers)
	}
	return tier, nil
}

// ParseLockupString parses a day count given as text
func ParseLockupString(s string) (LockupTier, error) {
	days, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, ErrInvalidLockupDuration.Wrapf("lockup %q is not a day count", s)
	}
	return ParseLockup(days)
}
