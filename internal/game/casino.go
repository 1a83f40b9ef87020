package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// CasinoResult reports one settled round.
type CasinoResult struct {
	Game    string `json:"game"`
	Won     bool   `json:"won"`
	Bet     int64  `json:"bet"`
	Payout  int64  `json:"payout"` // profit on a win, 0 on a loss
	Detail  string `json:"detail"`
	Balance int64  `json:"balance"`
}

// Play runs one round of the named game. The bet is validated against the
// table limits and the wallet before any roll; wins credit profit and losses
// debit the stake, both through the ledger.
func (s *Service) Play(ctx context.Context, userID, gameID string, bet int64, choice string) (CasinoResult, error) {
	spec, ok := CasinoGameByID(gameID)
	if !ok {
		return CasinoResult{}, ErrUnknownGame
	}
	if bet < spec.MinBet || bet > spec.MaxBet {
		return CasinoResult{}, ErrBetOutOfRange
	}

	unlock := s.lockUsers(userID)
	defer unlock()

	u, err := s.store.GetOrCreateUser(ctx, userID, "")
	if err != nil {
		return CasinoResult{}, err
	}
	if u.Balance < bet {
		return CasinoResult{}, ErrInsufficientFunds
	}

	var won, push bool
	var profit int64
	var detail string
	switch gameID {
	case "coinflip":
		won, profit, detail, err = s.playCoinflip(spec, bet, choice)
	case "dice":
		won, profit, detail, err = s.playDice(spec, bet, choice)
	case "slots":
		won, profit, detail = s.playSlots(bet)
	case "roulette":
		won, profit, detail, err = s.playRoulette(bet, choice)
	case "blackjack":
		won, push, profit, detail = s.playBlackjack(bet)
	default:
		err = ErrUnknownGame
	}
	if err != nil {
		return CasinoResult{}, err
	}

	res := CasinoResult{Game: gameID, Won: won, Bet: bet, Detail: detail}
	if push {
		// Stake returned untouched, nothing hits the ledger.
		res.Balance = u.Balance
		return res, nil
	}
	if won {
		bal, err := s.modifyBalanceLocked(ctx, userID, profit, TxCasinoWin, spec.Name)
		if err != nil {
			return CasinoResult{}, err
		}
		res.Payout = profit
		res.Balance = bal.Balance
	} else {
		bal, err := s.modifyBalanceLocked(ctx, userID, -bet, TxCasinoLoss, spec.Name)
		if err != nil {
			return CasinoResult{}, err
		}
		res.Balance = bal.Balance
	}
	return res, nil
}

// playCoinflip pays 1:1 less the house edge on the profit side.
func (s *Service) playCoinflip(spec CasinoGameSpec, bet int64, choice string) (bool, int64, string, error) {
	choice = strings.ToLower(strings.TrimSpace(choice))
	if choice != "heads" && choice != "tails" {
		return false, 0, "", fmt.Errorf("%w: pick heads or tails", ErrInvalidBet)
	}
	flip := "heads"
	if s.randFloat() < 0.5 {
		flip = "tails"
	}
	if flip != choice {
		return false, 0, "landed " + flip, nil
	}
	profit := int64(float64(bet) * (1 - 2*spec.HouseEdge))
	return true, profit, "landed " + flip, nil
}

// playDice is a straight-up guess on one d6. A hit pays just under 5:1.
func (s *Service) playDice(spec CasinoGameSpec, bet int64, choice string) (bool, int64, string, error) {
	guess, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil || guess < 1 || guess > 6 {
		return false, 0, "", fmt.Errorf("%w: pick a number 1-6", ErrInvalidBet)
	}
	roll := s.randIntn(6) + 1
	detail := fmt.Sprintf("rolled %d", roll)
	if roll != guess {
		return false, 0, detail, nil
	}
	profit := int64(float64(bet) * (6*(1-spec.HouseEdge) - 1))
	return true, profit, detail, nil
}

var slotSymbols = []string{"cherry", "cherry", "cherry", "lemon", "lemon", "bar", "bar", "seven"}

var slotTriples = map[string]int64{
	"seven":  20,
	"bar":    8,
	"cherry": 4,
	"lemon":  3,
}

// playSlots spins three weighted reels. Triples pay by the multiplier table;
// a pair of cherries refunds the stake as a 1x profit.
func (s *Service) playSlots(bet int64) (bool, int64, string) {
	reels := [3]string{}
	cherries := 0
	for i := range reels {
		reels[i] = slotSymbols[s.randIntn(len(slotSymbols))]
		if reels[i] == "cherry" {
			cherries++
		}
	}
	detail := strings.Join(reels[:], " | ")
	if reels[0] == reels[1] && reels[1] == reels[2] {
		return true, bet * slotTriples[reels[0]], detail
	}
	if cherries >= 2 {
		return true, bet, detail
	}
	return false, 0, detail
}

// playRoulette spins a single-zero wheel. Outside bets (red/black/even/odd)
// pay 1:1; a straight number bet pays 35:1. Zero takes every outside bet.
func (s *Service) playRoulette(bet int64, choice string) (bool, int64, string, error) {
	choice = strings.ToLower(strings.TrimSpace(choice))
	pocket := s.randIntn(37)
	detail := fmt.Sprintf("ball landed on %d", pocket)

	switch choice {
	case "red", "black":
		if pocket == 0 {
			return false, 0, detail, nil
		}
		if rouletteColor(pocket) == choice {
			return true, bet, detail, nil
		}
		return false, 0, detail, nil
	case "even", "odd":
		if pocket == 0 {
			return false, 0, detail, nil
		}
		isEven := pocket%2 == 0
		if (choice == "even") == isEven {
			return true, bet, detail, nil
		}
		return false, 0, detail, nil
	}

	n, err := strconv.Atoi(choice)
	if err != nil || n < 0 || n > 36 {
		return false, 0, "", fmt.Errorf("%w: red, black, even, odd or a number 0-36", ErrInvalidBet)
	}
	if n == pocket {
		return true, bet * 35, detail, nil
	}
	return false, 0, detail, nil
}

var blackjackRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

func newBlackjackDeck() []string {
	deck := make([]string, 0, 52)
	for _, r := range blackjackRanks {
		deck = append(deck, r, r, r, r)
	}
	return deck
}

// handValue scores a blackjack hand, demoting aces from 11 to 1 while the
// total busts.
func handValue(hand []string) int {
	total, aces := 0, 0
	for _, r := range hand {
		switch r {
		case "10", "J", "Q", "K":
			total += 10
		case "A":
			total += 11
			aces++
		default:
			n, _ := strconv.Atoi(r)
			total += n
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// playBlackjack deals one round from a shuffled deck. The player draws to 17,
// then the dealer draws to 17. A natural pays 3:2, a regular win 1:1; a tie
// pushes the stake back.
func (s *Service) playBlackjack(bet int64) (won, push bool, profit int64, detail string) {
	deck := newBlackjackDeck()
	for i := len(deck) - 1; i > 0; i-- {
		j := s.randIntn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	draw := func() string {
		c := deck[len(deck)-1]
		deck = deck[:len(deck)-1]
		return c
	}

	player := []string{draw(), draw()}
	dealer := []string{draw(), draw()}

	if handValue(player) == 21 {
		if handValue(dealer) == 21 {
			return false, true, 0, "blackjack against blackjack, push"
		}
		return true, false, bet * 3 / 2, "blackjack!"
	}

	for handValue(player) < 17 {
		player = append(player, draw())
	}
	pv := handValue(player)
	if pv > 21 {
		return false, false, 0, fmt.Sprintf("busted with %d (%s)", pv, strings.Join(player, " "))
	}

	for handValue(dealer) < 17 {
		dealer = append(dealer, draw())
	}
	dv := handValue(dealer)
	detail = fmt.Sprintf("you %d (%s), dealer %d (%s)", pv, strings.Join(player, " "), dv, strings.Join(dealer, " "))

	switch {
	case dv > 21 || pv > dv:
		return true, false, bet, detail
	case pv < dv:
		return false, false, 0, detail
	default:
		return false, true, 0, detail + ", push"
	}
}

var redPockets = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true,
	18: true, 19: true, 21: true, 23: true, 25: true, 27: true, 30: true,
	32: true, 34: true, 36: true,
}

func rouletteColor(pocket int) string {
	if redPockets[pocket] {
		return "red"
	}
	return "black"
}
