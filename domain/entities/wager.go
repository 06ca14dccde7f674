package entities

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// WagerType distinguishes the two payout schedules.
type WagerType string

const (
	// WagerTypeStraight wins only on an exact match against the posted result.
	WagerTypeStraight WagerType = "straight"

	// WagerTypeRambol wins if the posted result is any permutation of the
	// wagered digits. The payout scales inversely with the permutation count.
	WagerTypeRambol WagerType = "rambol"
)

// IsValid returns true if the wager type is one of the known types.
func (t WagerType) IsValid() bool {
	return t == WagerTypeStraight || t == WagerTypeRambol
}

var combinationPattern = regexp.MustCompile(`^\d{3}$`)

// ValidateCombination checks that a combination is legal for the given wager
// type: exactly three decimal digits, and for rambol not a triple.
func ValidateCombination(wagerType WagerType, combination string) error {
	if !combinationPattern.MatchString(combination) {
		return ErrMalformedCombination
	}
	if wagerType == WagerTypeRambol && DistinctDigits(combination) == 1 {
		return ErrTripleNotAllowed
	}
	return nil
}

// DistinctDigits returns the number of distinct digits in a 3-digit combination.
func DistinctDigits(combination string) int {
	seen := make(map[byte]bool, 3)
	for i := 0; i < len(combination); i++ {
		seen[combination[i]] = true
	}
	return len(seen)
}

// RambolOutcomes returns the distinct digit permutations of a 3-digit
// combination: 6 when all digits differ, 3 when exactly two are equal,
// 1 for a triple. Callers treat the result as a set.
func RambolOutcomes(combination string) []string {
	if len(combination) != 3 {
		return nil
	}
	a, b, c := combination[0], combination[1], combination[2]
	perms := [6][3]byte{
		{a, b, c}, {a, c, b},
		{b, a, c}, {b, c, a},
		{c, a, b}, {c, b, a},
	}
	seen := make(map[string]bool, 6)
	outcomes := make([]string, 0, 6)
	for _, p := range perms {
		s := string(p[:])
		if !seen[s] {
			seen[s] = true
			outcomes = append(outcomes, s)
		}
	}
	return outcomes
}

// IsWinningCombination determines whether a wager on combination wins against
// the posted result. Straight requires an exact match; rambol accepts any
// permutation of the wagered digits.
func IsWinningCombination(wagerType WagerType, combination, result string) bool {
	switch wagerType {
	case WagerTypeStraight:
		return combination == result
	case WagerTypeRambol:
		for _, outcome := range RambolOutcomes(combination) {
			if outcome == result {
				return true
			}
		}
	}
	return false
}

// Wager is one (combination, wager type, stake) unit inside a ticket.
type Wager struct {
	ID          int64           `db:"id"`
	TicketID    int64           `db:"ticket_id"`
	Combination string          `db:"combination"` // Leading zeros preserved
	WagerType   WagerType       `db:"wager_type"`
	Stake       decimal.Decimal `db:"stake"`
	CreatedAt   time.Time       `db:"created_at"`
}

// IsWinner checks this wager against the posted result.
func (w *Wager) IsWinner(result string) bool {
	return IsWinningCombination(w.WagerType, w.Combination, result)
}

// WagerInput is a proposed wager on a ticket submission, before persistence.
type WagerInput struct {
	Combination string
	WagerType   WagerType
	Stake       decimal.Decimal
}
