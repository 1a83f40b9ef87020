package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"lifesim/internal/game"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

type historyPayload struct {
	Transactions []historyRow `json:"transactions"`
}

type historyRow struct {
	Amount    int64     `json:"Amount"`
	Type      string    `json:"Type"`
	Desc      string    `json:"Desc"`
	CreatedAt time.Time `json:"CreatedAt"`
}

type leaderboardPayload struct {
	Rows []game.BalanceResult `json:"rows"`
}

type skillsPayload struct {
	Skills []game.SkillView `json:"skills"`
}

type crimeCatalogPayload struct {
	Crimes []crimeSpecRow `json:"crimes"`
}

type crimeSpecRow struct {
	ID          string
	Name        string
	SuccessRate float64
	MinPayout   int64
	MaxPayout   int64
	JailTime    time.Duration
	Cooldown    time.Duration
}

type criminalRecordPayload struct {
	Record criminalRecordRow `json:"record"`
	Jail   game.JailStatus   `json:"jail"`
}

type criminalRecordRow struct {
	CrimesCommitted int64
	HeatLevel       int64
	TimesJailed     int64
}

type jobCatalogPayload struct {
	Jobs []jobSpecRow `json:"jobs"`
}

type jobSpecRow struct {
	ID            string
	Name          string
	BaseShiftPay  int64
	RequiredLevel int
	Skill         string
	ShiftCooldown time.Duration
}

type casinoCatalogPayload struct {
	Games []casinoSpecRow `json:"games"`
}

type casinoSpecRow struct {
	ID        string
	Name      string
	MinBet    int64
	MaxBet    int64
	HouseEdge float64
}

type ventureCatalogPayload struct {
	Types []ventureSpecRow `json:"types"`
}

type ventureSpecRow struct {
	ID          string
	Name        string
	Cost        int64
	IncomePerHr int64
	RentPerHr   int64
	MaxLevel    int
}

type holdingsPayload struct {
	Businesses []game.HoldingView `json:"businesses"`
	Properties []game.HoldingView `json:"properties"`
}

type petCatalogPayload struct {
	Types []petSpecRow `json:"types"`
}

type petSpecRow struct {
	ID       string
	Name     string
	Cost     int64
	MoneyPct int64
	XPPct    int64
	CrimePct int64
}

type petsPayload struct {
	Pets []game.PetView `json:"pets"`
}

type quotesPayload struct {
	Quotes []game.Quote `json:"quotes"`
}

type quoteDetailPayload struct {
	Symbol  string    `json:"symbol"`
	Price   float64   `json:"price"`
	History []float64 `json:"history"`
}

type portfolioPayload struct {
	Holdings []game.PortfolioEntry `json:"holdings"`
}

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func promptRequired(label string) (string, error) {
	for {
		fmt.Printf("%s: ", label)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptPassword(label string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return promptRequired(label)
	}
	for {
		fmt.Printf("%s: ", label)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(string(raw))
		if text != "" {
			return text, nil
		}
		printWarn(label + " is required.")
	}
}

func promptFloat(label string, min float64) (float64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			printWarn("Enter a valid number.")
			continue
		}
		if v <= min {
			printWarn(fmt.Sprintf("Value must be > %.4f", min))
			continue
		}
		return v, nil
	}
}

func promptInt64(label string, min int64) (int64, error) {
	for {
		text, err := promptRequired(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min {
			printWarn(fmt.Sprintf("Value must be >= %d", min))
			continue
		}
		return v, nil
	}
}

func renderAccount(raw map[string]any) error {
	out, err := decodeInto[game.BalanceResult](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== ACCOUNT ==")
	fmt.Printf("Wallet:     %s coins\n", comma(out.Balance))
	fmt.Printf("Bank:       %s / %s coins\n", comma(out.Bank), comma(out.BankLimit))
	fmt.Printf("Net Worth:  %s coins\n", comma(out.NetWorth))
	fmt.Println()
	return nil
}

func renderHistory(raw map[string]any) error {
	out, err := decodeInto[historyPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== TRANSACTION HISTORY ==")
	if len(out.Transactions) == 0 {
		printInfo("No transactions yet.")
		return nil
	}
	fmt.Printf("%-17s %-14s %12s  %s\n", "TIME", "TYPE", "AMOUNT", "DESCRIPTION")
	for _, tx := range out.Transactions {
		fmt.Printf("%-17s %-14s %12s  %s\n",
			tx.CreatedAt.Local().Format("2006-01-02 15:04"),
			tx.Type,
			colorizeCoins(tx.Amount),
			truncate(tx.Desc, 48),
		)
	}
	fmt.Println()
	return nil
}

func renderMove(raw map[string]any, verb string) error {
	out, err := decodeInto[game.MoveResult](raw)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("%s %s coins.", verb, comma(out.Moved))
	if out.Capped {
		msg += " (capped by bank space)"
	}
	printSuccess(msg)
	fmt.Printf("Wallet: %s  Bank: %s / %s\n", comma(out.Balance), comma(out.Bank), comma(out.BankLimit))
	return nil
}

func renderTransfer(raw map[string]any, to string) error {
	out, err := decodeInto[game.TransferResult](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Sent %s coins to %s (%s received, %s tax).",
		comma(out.Sent), to, comma(out.Received), comma(out.Tax)))
	fmt.Printf("Wallet: %s\n", comma(out.Balance))
	return nil
}

func renderDaily(raw map[string]any) error {
	out, err := decodeInto[game.DailyResult](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Daily claimed: +%s coins (streak %d).", comma(out.Reward), out.Streak))
	fmt.Printf("Wallet: %s\n", comma(out.Balance))
	return nil
}

func renderBankUpgrade(raw map[string]any) error {
	out, err := decodeInto[game.BankUpgradeResult](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Bank upgraded to %s capacity for %s coins.", comma(out.NewLimit), comma(out.Cost)))
	fmt.Printf("Wallet: %s\n", comma(out.Balance))
	return nil
}

func renderLeaderboard(raw map[string]any) error {
	out, err := decodeInto[leaderboardPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== LEADERBOARD ==")
	if len(out.Rows) == 0 {
		printInfo("No players yet.")
		return nil
	}
	fmt.Printf("%-6s %-28s %14s\n", "RANK", "PLAYER", "NET WORTH")
	for i, row := range out.Rows {
		fmt.Printf("%-6d %-28s %14s\n", i+1, truncate(row.UserID, 28), comma(row.NetWorth))
	}
	fmt.Println()
	return nil
}

func renderBuffs(raw map[string]any) error {
	out, err := decodeInto[game.Buffs](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== ACTIVE BUFFS ==")
	fmt.Printf("XP multiplier:      x%.2f\n", out.XPMult)
	fmt.Printf("Money multiplier:   x%.2f\n", out.MoneyMult)
	fmt.Printf("Crime success:      x%.2f\n", out.CrimeSuccessMult)
	fmt.Printf("Happiness regen:    %+d/hr\n", out.HappinessRegen)
	fmt.Printf("Energy regen:       %+d/hr\n", out.EnergyRegen)
	fmt.Println()
	return nil
}

func renderSkills(raw map[string]any) error {
	out, err := decodeInto[skillsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== SKILLS ==")
	fmt.Printf("%-14s %6s %10s %16s\n", "SKILL", "LEVEL", "XP", "NEXT LEVEL")
	for _, s := range out.Skills {
		next := "maxed"
		if s.Needed > 0 {
			next = fmt.Sprintf("%s / %s", comma(s.Into), comma(s.Needed))
		}
		fmt.Printf("%-14s %6d %10s %16s\n", s.Skill, s.Level, comma(s.XP), next)
	}
	fmt.Println()
	return nil
}

func renderTrainResult(raw map[string]any) error {
	out, err := decodeInto[game.TrainResult](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Trained %s: +%s XP (level %d).", out.Skill, comma(out.XPGained), out.Level))
	fmt.Printf("Wallet: %s\n", comma(out.Balance))
	return nil
}

func renderCrimeCatalog(raw map[string]any) error {
	out, err := decodeInto[crimeCatalogPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== CRIMES ==")
	fmt.Printf("%-10s %-14s %8s %10s %10s %10s %10s\n", "ID", "NAME", "ODDS", "MIN", "MAX", "JAIL", "COOLDOWN")
	for _, c := range out.Crimes {
		fmt.Printf("%-10s %-14s %7.0f%% %10s %10s %10s %10s\n",
			c.ID, c.Name, c.SuccessRate*100, comma(c.MinPayout), comma(c.MaxPayout),
			c.JailTime.String(), c.Cooldown.String())
	}
	fmt.Println()
	return nil
}

func renderCrimeResult(raw map[string]any) error {
	out, err := decodeInto[game.CrimeResult](raw)
	if err != nil {
		return err
	}
	if out.Success {
		printSuccess(fmt.Sprintf("%s succeeded: +%s coins, +%s XP.", out.Crime, comma(out.Payout), comma(out.XPGained)))
	} else {
		danger.Printf("%s failed: fined %s coins, jailed for %s.\n", out.Crime, comma(out.Fine), out.JailedFor)
	}
	fmt.Printf("Wallet: %s  Heat: %d\n", comma(out.Balance), out.HeatLevel)
	return nil
}

func renderCriminalRecord(raw map[string]any) error {
	out, err := decodeInto[criminalRecordPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== CRIMINAL RECORD ==")
	fmt.Printf("Crimes committed: %d\n", out.Record.CrimesCommitted)
	fmt.Printf("Heat level:       %d\n", out.Record.HeatLevel)
	fmt.Printf("Times jailed:     %d\n", out.Record.TimesJailed)
	if out.Jail.Jailed {
		danger.Printf("In jail: released in %s\n", out.Jail.Remaining)
	}
	fmt.Println()
	return nil
}

func renderJail(raw map[string]any) error {
	out, err := decodeInto[game.JailStatus](raw)
	if err != nil {
		return err
	}
	if out.Jailed {
		danger.Printf("You are in jail. Released in %s.\n", out.Remaining)
	} else {
		printSuccess("You are free.")
	}
	return nil
}

func renderJobCatalog(raw map[string]any) error {
	out, err := decodeInto[jobCatalogPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== JOBS ==")
	fmt.Printf("%-12s %-18s %10s %-12s %6s %10s\n", "ID", "NAME", "PAY", "SKILL", "REQ", "COOLDOWN")
	for _, j := range out.Jobs {
		fmt.Printf("%-12s %-18s %10s %-12s %6d %10s\n",
			j.ID, j.Name, comma(j.BaseShiftPay), j.Skill, j.RequiredLevel, j.ShiftCooldown.String())
	}
	fmt.Println()
	return nil
}

func renderJobStatus(raw map[string]any) error {
	out, err := decodeInto[game.JobStatus](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== EMPLOYMENT ==")
	if !out.Employed {
		printInfo("Unemployed.")
		fmt.Println()
		return nil
	}
	fmt.Printf("Job:        %s\n", out.Job)
	fmt.Printf("Position:   %s\n", out.Position)
	fmt.Printf("Shifts:     %d\n", out.Shifts)
	fmt.Printf("Promotions: %d (+%d%% bonus)\n", out.Promotions, out.BonusPct)
	fmt.Printf("Job level:  %d (%s XP)\n", out.JobLevel, comma(out.JobXP))
	fmt.Println()
	return nil
}

func renderWorkResult(raw map[string]any) error {
	out, err := decodeInto[game.WorkResult](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Worked a shift as %s: +%s coins.", out.Position, comma(out.Pay)))
	if out.Promoted {
		accent.Printf("Promoted! You are now a %s.\n", out.Position)
	}
	fmt.Printf("Shifts: %d  Job level: %d  Wallet: %s\n", out.Shifts, out.JobLevel, comma(out.Balance))
	return nil
}

func renderCasinoCatalog(raw map[string]any) error {
	out, err := decodeInto[casinoCatalogPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== CASINO ==")
	fmt.Printf("%-10s %-12s %10s %10s %8s\n", "ID", "NAME", "MIN BET", "MAX BET", "EDGE")
	for _, g := range out.Games {
		fmt.Printf("%-10s %-12s %10s %10s %7.1f%%\n",
			g.ID, g.Name, comma(g.MinBet), comma(g.MaxBet), g.HouseEdge*100)
	}
	fmt.Println()
	return nil
}

func renderCasinoResult(raw map[string]any) error {
	out, err := decodeInto[game.CasinoResult](raw)
	if err != nil {
		return err
	}
	if out.Won {
		printSuccess(fmt.Sprintf("%s: %s. You win %s coins!", out.Game, out.Detail, comma(out.Payout)))
	} else {
		danger.Printf("%s: %s. You lose %s coins.\n", out.Game, out.Detail, comma(out.Bet))
	}
	fmt.Printf("Wallet: %s\n", comma(out.Balance))
	return nil
}

func renderRelationship(raw map[string]any) error {
	out, err := decodeInto[game.RelationshipView](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== RELATIONSHIP with %s ==\n", out.With)
	fmt.Printf("Status:    %s\n", out.Status)
	fmt.Printf("Affection: %d / 200\n", out.Affection)
	fmt.Println()
	return nil
}

func renderVentureCatalog(raw map[string]any, title string) error {
	out, err := decodeInto[ventureCatalogPayload](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== %s ==\n", title)
	fmt.Printf("%-14s %-20s %12s %12s %6s\n", "ID", "NAME", "COST", "INCOME/HR", "MAX")
	for _, v := range out.Types {
		income := v.IncomePerHr
		if income == 0 {
			income = v.RentPerHr
		}
		fmt.Printf("%-14s %-20s %12s %12s %6d\n", v.ID, v.Name, comma(v.Cost), comma(income), v.MaxLevel)
	}
	fmt.Println()
	return nil
}

func renderHoldings(raw map[string]any, key, title string) error {
	out, err := decodeInto[holdingsPayload](raw)
	if err != nil {
		return err
	}
	rows := out.Businesses
	if key == "properties" {
		rows = out.Properties
	}
	accent.Printf("\n== %s ==\n", title)
	if len(rows) == 0 {
		printInfo("Nothing owned yet.")
		return nil
	}
	fmt.Printf("%-6s %-14s %-20s %6s %12s\n", "ID", "TYPE", "NAME", "LEVEL", "PENDING")
	for _, h := range rows {
		fmt.Printf("%-6d %-14s %-20s %6d %12s\n", h.ID, h.Type, truncate(h.Name, 20), h.Level, comma(h.Pending))
	}
	fmt.Println()
	return nil
}

func renderPurchase(raw map[string]any) error {
	out, err := decodeInto[game.PurchaseResult](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Bought %s (#%d) for %s coins.", out.Type, out.ID, comma(out.Cost)))
	fmt.Printf("Wallet: %s\n", comma(out.Balance))
	return nil
}

func renderCollect(raw map[string]any, what string) error {
	out, err := decodeInto[game.CollectResult](raw)
	if err != nil {
		return err
	}
	if out.Collected == 0 {
		printInfo("Nothing to collect yet.")
		return nil
	}
	printSuccess(fmt.Sprintf("Collected %s coins of %s from %d sources.", comma(out.Collected), what, out.Sources))
	fmt.Printf("Wallet: %s\n", comma(out.Balance))
	return nil
}

func renderUpgrade(raw map[string]any) error {
	out, err := decodeInto[game.UpgradeResult](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Upgraded #%d to level %d for %s coins.", out.ID, out.NewLevel, comma(out.Cost)))
	fmt.Printf("Wallet: %s\n", comma(out.Balance))
	return nil
}

func renderPetCatalog(raw map[string]any) error {
	out, err := decodeInto[petCatalogPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== PET TYPES ==")
	fmt.Printf("%-10s %-12s %10s %8s %8s %8s\n", "ID", "NAME", "COST", "MONEY", "XP", "CRIME")
	for _, p := range out.Types {
		fmt.Printf("%-10s %-12s %10s %7d%% %7d%% %7d%%\n",
			p.ID, p.Name, comma(p.Cost), p.MoneyPct, p.XPPct, p.CrimePct)
	}
	fmt.Println()
	return nil
}

func renderPets(raw map[string]any) error {
	out, err := decodeInto[petsPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== YOUR PETS ==")
	if len(out.Pets) == 0 {
		printInfo("No pets yet.")
		return nil
	}
	fmt.Printf("%-38s %-10s %-14s %6s %10s %-6s\n", "ID", "TYPE", "NAME", "LEVEL", "XP", "ALIVE")
	for _, p := range out.Pets {
		alive := "yes"
		if !p.Alive {
			alive = "no"
		}
		fmt.Printf("%-38s %-10s %-14s %6d %10s %-6s\n", p.ID, p.Type, truncate(p.Name, 14), p.Level, comma(p.XP), alive)
	}
	fmt.Println()
	return nil
}

func renderPet(raw map[string]any, verb string) error {
	out, err := decodeInto[game.PetView](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("%s %s the %s (level %d, %s XP).", verb, out.Name, out.Type, out.Level, comma(out.XP)))
	fmt.Printf("Pet ID: %s\n", out.ID)
	return nil
}

func renderGuild(raw map[string]any) error {
	out, err := decodeInto[game.GuildView](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== GUILD %s ==\n", out.Name)
	fmt.Printf("ID:     %s\n", out.ID)
	fmt.Printf("Owner:  %s\n", out.OwnerID)
	fmt.Printf("Level:  %d (%s XP)\n", out.Level, comma(out.XP))
	fmt.Printf("Bonus:  +%d%% earnings for members\n", out.BonusPct)
	fmt.Println()
	return nil
}

func renderQuotes(raw map[string]any) error {
	out, err := decodeInto[quotesPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== CRYPTO MARKET ==")
	fmt.Printf("%-8s %-12s %14s %-6s %9s\n", "SYMBOL", "NAME", "PRICE", "TREND", "24H")
	for _, q := range out.Quotes {
		fmt.Printf("%-8s %-12s %14.4f %-6s %s\n",
			q.Symbol, q.Name, q.Price, q.Trend, colorizePercent(q.Change24h))
	}
	fmt.Println()
	return nil
}

func renderQuoteDetail(raw map[string]any) error {
	out, err := decodeInto[quoteDetailPayload](raw)
	if err != nil {
		return err
	}
	accent.Printf("\n== %s ==\n", out.Symbol)
	fmt.Printf("Price: %.4f\n", out.Price)
	if len(out.History) > 0 {
		fmt.Println("Recent samples (oldest first):")
		for _, p := range out.History {
			fmt.Printf("  %.4f\n", p)
		}
	}
	fmt.Println()
	return nil
}

func renderPortfolio(raw map[string]any) error {
	out, err := decodeInto[portfolioPayload](raw)
	if err != nil {
		return err
	}
	accent.Println("\n== PORTFOLIO ==")
	if len(out.Holdings) == 0 {
		printInfo("No holdings yet.")
		return nil
	}
	var total int64
	fmt.Printf("%-8s %14s %14s %12s\n", "SYMBOL", "UNITS", "PRICE", "VALUE")
	for _, h := range out.Holdings {
		total += h.Value
		fmt.Printf("%-8s %14.6f %14.4f %12s\n", h.Symbol, h.Units, h.Price, comma(h.Value))
	}
	fmt.Printf("%-8s %14s %14s %12s\n", "TOTAL", "", "", comma(total))
	fmt.Println()
	return nil
}

func renderTrade(raw map[string]any, verb string) error {
	out, err := decodeInto[game.TradeResult](raw)
	if err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("%s %.6f %s at %.4f for %s coins.", verb, out.Units, out.Symbol, out.Price, comma(out.Cost)))
	fmt.Printf("Wallet: %s\n", comma(out.Balance))
	return nil
}

func decodeInto[T any](in any) (T, error) {
	var out T
	raw, err := json.Marshal(in)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}

func colorizeCoins(v int64) string {
	text := comma(v)
	if v > 0 {
		text = "+" + text
	}
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func colorizePercent(v float64) string {
	text := fmt.Sprintf("%+.2f%%", v)
	switch {
	case v > 0:
		return success.Sprint(text)
	case v < 0:
		return danger.Sprint(text)
	default:
		return neutral.Sprint(text)
	}
}

func comma(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
		if len(s) > pre {
			b.WriteByte(',')
		}
	}
	for i := pre; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return sign + b.String()
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
