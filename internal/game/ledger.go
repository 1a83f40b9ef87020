package game

import (
	"context"
	"fmt"
	"time"

	"lifesim/internal/store"
)

// BalanceResult reports the account after a mutation.
type BalanceResult struct {
	UserID    string `json:"user_id"`
	Balance   int64  `json:"balance"`
	Bank      int64  `json:"bank"`
	BankLimit int64  `json:"bank_limit"`
	NetWorth  int64  `json:"net_worth"`
}

// MoveResult reports a deposit or withdrawal.
type MoveResult struct {
	Moved  int64 `json:"moved"`
	Capped bool  `json:"capped"`
	BalanceResult
}

// TransferResult reports a completed peer transfer.
type TransferResult struct {
	Sent     int64 `json:"sent"`
	Tax      int64 `json:"tax"`
	Received int64 `json:"received"`
	Balance  int64 `json:"balance"`
}

// DailyResult reports a daily claim.
type DailyResult struct {
	Reward  int64 `json:"reward"`
	Streak  int   `json:"streak"`
	Balance int64 `json:"balance"`
}

// BankUpgradeResult reports a bank capacity upgrade.
type BankUpgradeResult struct {
	NewLimit int64 `json:"new_limit"`
	Cost     int64 `json:"cost"`
	Balance  int64 `json:"balance"`
}

// CooldownError carries how long until the action is available again.
// errors.Is(err, ErrOnCooldown) matches it.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("on cooldown for %s", e.Remaining.Round(time.Second))
}

func (e *CooldownError) Unwrap() error { return ErrOnCooldown }

func balanceResult(u store.User) BalanceResult {
	return BalanceResult{
		UserID:    u.UserID,
		Balance:   u.Balance,
		Bank:      u.Bank,
		BankLimit: u.BankLimit,
		NetWorth:  u.NetWorth,
	}
}

// ModifyBalance applies a signed delta to the user's wallet and records a
// ledger entry. Zero deltas are rejected; debits beyond the wallet fail with
// ErrInsufficientFunds and leave no trace. The balance write and the ledger
// append commit together.
func (s *Service) ModifyBalance(ctx context.Context, userID string, amount int64, typ, desc string) (BalanceResult, error) {
	unlock := s.lockUsers(userID)
	defer unlock()
	return s.modifyBalanceLocked(ctx, userID, amount, typ, desc)
}

// modifyBalanceLocked is ModifyBalance without lock acquisition; resolvers
// that already hold the user's lock call this.
func (s *Service) modifyBalanceLocked(ctx context.Context, userID string, amount int64, typ, desc string) (BalanceResult, error) {
	var out BalanceResult
	err := s.store.InTx(ctx, func(st store.Store) error {
		var err error
		out, err = s.modifyBalanceTx(ctx, st, userID, amount, typ, desc)
		return err
	})
	if err != nil {
		return BalanceResult{}, err
	}
	return out, nil
}

// modifyBalanceTx is the balance mutation body. Callers that bundle other
// store writes with the money movement run it inside their own InTx so the
// whole group commits or rolls back together.
func (s *Service) modifyBalanceTx(ctx context.Context, st store.Store, userID string, amount int64, typ, desc string) (BalanceResult, error) {
	if amount == 0 {
		return BalanceResult{}, ErrZeroAmount
	}
	u, err := st.GetOrCreateUser(ctx, userID, "")
	if err != nil {
		return BalanceResult{}, err
	}
	if amount < 0 && u.Balance+amount < 0 {
		return BalanceResult{}, ErrInsufficientFunds
	}
	u.Balance += amount
	nw, err := s.netWorthOf(ctx, st, u)
	if err != nil {
		return BalanceResult{}, err
	}
	u.NetWorth = nw
	if err := st.UpdateBalances(ctx, userID, u.Balance, u.Bank, u.NetWorth); err != nil {
		return BalanceResult{}, err
	}
	if err := st.AppendTransaction(ctx, newTxRecord(userID, amount, typ, desc, s.now().UTC())); err != nil {
		return BalanceResult{}, err
	}
	s.log.Debug("balance modified", "user", userID, "amount", amount, "type", typ)
	return balanceResult(u), nil
}

// Deposit moves wallet money into the bank. The amount spec resolves against
// the wallet; the move is capped to remaining bank capacity and the cap is
// reported rather than treated as an error, unless nothing fits at all.
func (s *Service) Deposit(ctx context.Context, userID string, spec AmountSpec) (MoveResult, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	var out MoveResult
	err := s.store.InTx(ctx, func(st store.Store) error {
		u, err := st.GetOrCreateUser(ctx, userID, "")
		if err != nil {
			return err
		}
		amount := spec.Resolve(u.Balance)
		if amount <= 0 {
			return ErrNegativeAmount
		}
		if amount > u.Balance {
			return ErrInsufficientFunds
		}
		room := u.BankLimit - u.Bank
		if room <= 0 {
			return ErrBankFull
		}
		capped := false
		if amount > room {
			amount = room
			capped = true
		}
		u.Balance -= amount
		u.Bank += amount
		if err := st.UpdateBalances(ctx, userID, u.Balance, u.Bank, u.NetWorth); err != nil {
			return err
		}
		out = MoveResult{Moved: amount, Capped: capped, BalanceResult: balanceResult(u)}
		return nil
	})
	return out, err
}

// Withdraw moves bank money back to the wallet. The amount spec resolves
// against the bank balance.
func (s *Service) Withdraw(ctx context.Context, userID string, spec AmountSpec) (MoveResult, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	var out MoveResult
	err := s.store.InTx(ctx, func(st store.Store) error {
		u, err := st.GetOrCreateUser(ctx, userID, "")
		if err != nil {
			return err
		}
		if u.Bank <= 0 {
			return ErrBankEmpty
		}
		amount := spec.Resolve(u.Bank)
		if amount <= 0 {
			return ErrNegativeAmount
		}
		if amount > u.Bank {
			return ErrInsufficientFunds
		}
		u.Bank -= amount
		u.Balance += amount
		if err := st.UpdateBalances(ctx, userID, u.Balance, u.Bank, u.NetWorth); err != nil {
			return err
		}
		out = MoveResult{Moved: amount, BalanceResult: balanceResult(u)}
		return nil
	})
	return out, err
}

// Transfer sends wallet money to another user. The sender is debited the
// full amount; the receiver is credited the amount minus a flat 3% tax. Both
// legs commit in one transaction; both users' locks are held in ascending id
// order for the duration.
func (s *Service) Transfer(ctx context.Context, senderID, receiverID string, amount int64) (TransferResult, error) {
	if senderID == receiverID {
		return TransferResult{}, ErrSelfTransfer
	}
	if amount < TransferMinimum {
		return TransferResult{}, ErrBelowMinimum
	}
	tax := TransferTax(amount)

	unlock := s.lockUsers(senderID, receiverID)
	defer unlock()

	var out TransferResult
	err := s.store.InTx(ctx, func(st store.Store) error {
		sender, err := st.GetOrCreateUser(ctx, senderID, "")
		if err != nil {
			return err
		}
		if sender.Balance < amount {
			return ErrInsufficientFunds
		}
		receiver, err := st.GetOrCreateUser(ctx, receiverID, "")
		if err != nil {
			return err
		}

		credited := amount - tax
		sender.Balance -= amount
		sender.NetWorth -= amount
		receiver.Balance += credited
		receiver.NetWorth += credited

		now := s.now().UTC()
		if err := st.UpdateBalances(ctx, senderID, sender.Balance, sender.Bank, sender.NetWorth); err != nil {
			return err
		}
		if err := st.UpdateBalances(ctx, receiverID, receiver.Balance, receiver.Bank, receiver.NetWorth); err != nil {
			return err
		}
		out1 := newTxRecord(senderID, -amount, TxTransferOut, fmt.Sprintf("transfer to %s", receiverID), now)
		if err := st.AppendTransaction(ctx, out1); err != nil {
			return err
		}
		in1 := newTxRecord(receiverID, credited, TxTransferIn, fmt.Sprintf("transfer from %s", senderID), now)
		if err := st.AppendTransaction(ctx, in1); err != nil {
			return err
		}
		out = TransferResult{Sent: amount, Tax: tax, Received: credited, Balance: sender.Balance}
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}
	s.log.Info("transfer", "from", senderID, "to", receiverID, "amount", amount, "tax", tax)
	return out, nil
}

// ClaimDaily pays the daily reward. Claims inside the 20h cooldown fail with
// a CooldownError; claims past the 48h grace window reset the streak to 1;
// streak growth caps at DailyMaxStreak.
func (s *Service) ClaimDaily(ctx context.Context, userID string) (DailyResult, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	now := s.now().UTC()
	var out DailyResult
	err := s.store.InTx(ctx, func(st store.Store) error {
		u, err := st.GetOrCreateUser(ctx, userID, "")
		if err != nil {
			return err
		}

		streak := 1
		if u.LastDaily != nil {
			elapsed := now.Sub(*u.LastDaily)
			cooldown := DailyCooldownHours * time.Hour
			if elapsed < cooldown {
				return &CooldownError{Remaining: cooldown - elapsed}
			}
			if elapsed <= DailyGraceHours*time.Hour {
				streak = u.DailyStreak + 1
				if streak > DailyMaxStreak {
					streak = DailyMaxStreak
				}
			}
		}

		reward := DailyReward(streak)
		u.Balance += reward
		u.NetWorth += reward
		if err := st.UpdateBalances(ctx, userID, u.Balance, u.Bank, u.NetWorth); err != nil {
			return err
		}
		if err := st.SetDaily(ctx, userID, streak, now); err != nil {
			return err
		}
		rec := newTxRecord(userID, reward, TxDaily, fmt.Sprintf("daily reward, streak %d", streak), now)
		if err := st.AppendTransaction(ctx, rec); err != nil {
			return err
		}
		out = DailyResult{Reward: reward, Streak: streak, Balance: u.Balance}
		return nil
	})
	return out, err
}

// UpgradeBankLimit doubles the bank capacity for a fee of 10% of the new
// capacity, paid from the wallet.
func (s *Service) UpgradeBankLimit(ctx context.Context, userID string) (BankUpgradeResult, error) {
	unlock := s.lockUsers(userID)
	defer unlock()

	var out BankUpgradeResult
	err := s.store.InTx(ctx, func(st store.Store) error {
		u, err := st.GetOrCreateUser(ctx, userID, "")
		if err != nil {
			return err
		}
		newLimit, cost := BankUpgradeCost(u.BankLimit)
		if u.Balance < cost {
			return ErrInsufficientFunds
		}
		u.Balance -= cost
		u.NetWorth -= cost
		if err := st.UpdateBalances(ctx, userID, u.Balance, u.Bank, u.NetWorth); err != nil {
			return err
		}
		if err := st.SetBankLimit(ctx, userID, newLimit); err != nil {
			return err
		}
		rec := newTxRecord(userID, -cost, TxUpgrade, "bank capacity upgrade", s.now().UTC())
		if err := st.AppendTransaction(ctx, rec); err != nil {
			return err
		}
		out = BankUpgradeResult{NewLimit: newLimit, Cost: cost, Balance: u.Balance}
		return nil
	})
	return out, err
}

// Account returns the user's current balances, creating the account on first
// touch.
func (s *Service) Account(ctx context.Context, userID string) (BalanceResult, error) {
	u, err := s.store.GetOrCreateUser(ctx, userID, "")
	if err != nil {
		return BalanceResult{}, err
	}
	nw, err := s.netWorthOf(ctx, s.store, u)
	if err != nil {
		return BalanceResult{}, err
	}
	u.NetWorth = nw
	return balanceResult(u), nil
}

// History returns the user's most recent ledger entries, newest first.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]store.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return s.store.RecentTransactions(ctx, userID, limit)
}

// Leaderboard returns the top accounts by net worth.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]BalanceResult, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	users, err := s.store.TopNetWorth(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]BalanceResult, 0, len(users))
	for _, u := range users {
		out = append(out, balanceResult(u))
	}
	return out, nil
}
