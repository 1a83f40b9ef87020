package game

import (
	"errors"
	"strconv"
	"strings"
)

const (
	TransferTaxPct  = 3
	TransferMinimum = int64(10)

	DailyCooldownHours = 20
	DailyGraceHours    = 48
	DailyBaseReward    = int64(1000)
	DailyStreakBonus   = int64(250)
	DailyMaxStreak     = 10

	PromotionEveryShifts  = 10
	PromotionBonusPctStep = 5

	AffectionMax      = int64(200)
	FriendThreshold   = int64(80)
	AskOutThreshold   = int64(120)
	MarryThreshold    = int64(160)
	BreakupPenalty    = int64(40)
	GiftAffectionUnit = int64(500)
	GiftAffectionCap  = int64(40)
)

var (
	ErrZeroAmount        = errors.New("amount must be non-zero")
	ErrNegativeAmount    = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrBankFull          = errors.New("bank is at capacity")
	ErrBankEmpty         = errors.New("nothing in the bank")
	ErrSelfTransfer      = errors.New("cannot transfer to yourself")
	ErrBelowMinimum      = errors.New("amount below minimum")
	ErrOnCooldown        = errors.New("action is on cooldown")
	ErrJailed            = errors.New("user is in jail")
	ErrUnknownCrime      = errors.New("unknown crime")
	ErrUnknownJob        = errors.New("unknown job")
	ErrUnknownSkill      = errors.New("unknown skill")
	ErrAlreadyEmployed   = errors.New("already employed")
	ErrNotEmployed       = errors.New("not employed")
	ErrLevelTooLow       = errors.New("level requirement not met")
	ErrUnknownGame       = errors.New("unknown casino game")
	ErrBetOutOfRange     = errors.New("bet outside table limits")
	ErrInvalidBet        = errors.New("invalid bet")
	ErrUnknownAsset      = errors.New("unknown asset")
	ErrUnknownPet        = errors.New("unknown pet type")
	ErrUnknownBusiness   = errors.New("unknown business type")
	ErrUnknownProperty   = errors.New("unknown property type")
	ErrNotOwner          = errors.New("not the owner")
	ErrMaxLevel          = errors.New("already at max level")
	ErrUnknownAction     = errors.New("unknown interaction")
	ErrNotPartners       = errors.New("users are not partners")
	ErrAffectionTooLow   = errors.New("affection too low")
	ErrAlreadyPartnered  = errors.New("already in a relationship")
	ErrGuildExists       = errors.New("guild already exists")
	ErrGuildNotFound     = errors.New("guild not found")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Transaction type tags recorded in the ledger.
const (
	TxSalary         = "salary"
	TxCrimeReward    = "crime_reward"
	TxCrimeFine      = "crime_fine"
	TxTransferIn     = "transfer_in"
	TxTransferOut    = "transfer_out"
	TxDaily          = "daily"
	TxCasinoWin      = "casino_win"
	TxCasinoLoss     = "casino_loss"
	TxBusinessIncome = "business_income"
	TxRentIncome     = "rent_income"
	TxCryptoBuy      = "crypto_buy"
	TxCryptoSell     = "crypto_sell"
	TxPurchase       = "purchase"
	TxUpgrade        = "upgrade"
	TxGift           = "gift"
)

// AmountSpec is a user-supplied amount: either a positive integer or one of
// the keywords "all", "max", "half", resolved against the available pool at
// the moment of execution.
type AmountSpec struct {
	Keyword string
	Value   int64
}

// ParseAmountSpec accepts "all", "max", "half" or a positive integer string.
func ParseAmountSpec(raw string) (AmountSpec, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "all", "max", "half":
		return AmountSpec{Keyword: s}, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return AmountSpec{}, ErrNegativeAmount
	}
	return AmountSpec{Value: v}, nil
}

// Resolve turns the spec into a concrete amount given the available pool.
// Keywords never exceed the pool; "half" rounds down. A literal value is
// returned as-is and validated by the caller against the pool.
func (a AmountSpec) Resolve(available int64) int64 {
	switch a.Keyword {
	case "all", "max":
		return available
	case "half":
		return available / 2
	}
	return a.Value
}

// TransferTax is a flat 3% of the amount, truncated.
func TransferTax(amount int64) int64 {
	return amount * TransferTaxPct / 100
}

// DailyReward returns the payout for a claim at the given streak.
func DailyReward(streak int) int64 {
	if streak > DailyMaxStreak {
		streak = DailyMaxStreak
	}
	return DailyBaseReward + int64(streak)*DailyStreakBonus
}

func clampI64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
