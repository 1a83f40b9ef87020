package game

import "time"

// Static game content. Catalogs are built once at init and read-only after;
// lookups go through the helper functions at the bottom.

type CrimeSpec struct {
	ID          string
	Name        string
	SuccessRate float64
	MinPayout   int64
	MaxPayout   int64
	JailTime    time.Duration
	FinePct     float64
	Cooldown    time.Duration
	XPReward    int64
}

var crimes = map[string]CrimeSpec{
	"shoplift": {
		ID: "shoplift", Name: "Shoplifting",
		SuccessRate: 0.60, MinPayout: 50, MaxPayout: 200,
		JailTime: 5 * time.Minute, FinePct: 0.10,
		Cooldown: 5 * time.Minute, XPReward: 5,
	},
	"rob": {
		ID: "rob", Name: "Robbery",
		SuccessRate: 0.45, MinPayout: 500, MaxPayout: 1500,
		JailTime: 10 * time.Minute, FinePct: 0.30,
		Cooldown: 10 * time.Minute, XPReward: 15,
	},
	"heist": {
		ID: "heist", Name: "Bank Heist",
		SuccessRate: 0.25, MinPayout: 10000, MaxPayout: 50000,
		JailTime: 2 * time.Hour, FinePct: 0.50,
		Cooldown: 2 * time.Hour, XPReward: 50,
	},
}

type JobSpec struct {
	ID            string
	Name          string
	BaseShiftPay  int64
	RequiredLevel int
	ShiftCooldown time.Duration
	Skill         string
	XPPerShift    int64
	Positions     []string
}

var jobs = map[string]JobSpec{
	"janitor": {
		ID: "janitor", Name: "Janitor", BaseShiftPay: 80, RequiredLevel: 1,
		ShiftCooldown: time.Hour, Skill: SkillStrength, XPPerShift: 10,
		Positions: []string{"Trainee", "Cleaner", "Senior Cleaner", "Shift Lead", "Facility Manager"},
	},
	"cashier": {
		ID: "cashier", Name: "Cashier", BaseShiftPay: 120, RequiredLevel: 2,
		ShiftCooldown: time.Hour, Skill: SkillCharisma, XPPerShift: 12,
		Positions: []string{"Trainee", "Cashier", "Senior Cashier", "Shift Lead", "Store Manager"},
	},
	"chef": {
		ID: "chef", Name: "Chef", BaseShiftPay: 250, RequiredLevel: 5,
		ShiftCooldown: time.Hour, Skill: SkillCooking, XPPerShift: 15,
		Positions: []string{"Kitchen Porter", "Line Cook", "Sous Chef", "Head Chef", "Executive Chef"},
	},
	"programmer": {
		ID: "programmer", Name: "Programmer", BaseShiftPay: 500, RequiredLevel: 10,
		ShiftCooldown: time.Hour, Skill: SkillIntelligence, XPPerShift: 20,
		Positions: []string{"Intern", "Junior Developer", "Developer", "Senior Developer", "Principal Engineer"},
	},
	"doctor": {
		ID: "doctor", Name: "Doctor", BaseShiftPay: 900, RequiredLevel: 20,
		ShiftCooldown: time.Hour, Skill: SkillIntelligence, XPPerShift: 25,
		Positions: []string{"Resident", "Registrar", "Attending", "Consultant", "Chief of Medicine"},
	},
}

const JobUnemployed = "unemployed"

// Skills tracked per user.
const (
	SkillStrength     = "strength"
	SkillIntelligence = "intelligence"
	SkillCharisma     = "charisma"
	SkillLuck         = "luck"
	SkillCooking      = "cooking"
	SkillCrime        = "crime"
	SkillBusiness     = "business"
)

var AllSkills = []string{
	SkillStrength, SkillIntelligence, SkillCharisma, SkillLuck,
	SkillCooking, SkillCrime, SkillBusiness,
}

type CasinoGameSpec struct {
	ID        string
	Name      string
	MinBet    int64
	MaxBet    int64
	HouseEdge float64
}

var casinoGames = map[string]CasinoGameSpec{
	"coinflip":  {ID: "coinflip", Name: "Coin Flip", MinBet: 10, MaxBet: 10000, HouseEdge: 0.04},
	"dice":      {ID: "dice", Name: "Dice", MinBet: 10, MaxBet: 5000, HouseEdge: 0.03},
	"slots":     {ID: "slots", Name: "Slots", MinBet: 20, MaxBet: 2000, HouseEdge: 0.08},
	"roulette":  {ID: "roulette", Name: "Roulette", MinBet: 10, MaxBet: 10000, HouseEdge: 0.027},
	"blackjack": {ID: "blackjack", Name: "Blackjack", MinBet: 20, MaxBet: 5000, HouseEdge: 0.03},
}

type BusinessSpec struct {
	ID           string
	Name         string
	Cost         int64
	IncomePerHr  int64
	YieldGrowth  float64
	UpgradeBase  int64
	UpgradeRate  float64
	MaxLevel     int
	MaxIdleHours float64
}

var businesses = map[string]BusinessSpec{
	"food_truck": {ID: "food_truck", Name: "Food Truck", Cost: 5000, IncomePerHr: 200,
		YieldGrowth: 1.25, UpgradeBase: 2500, UpgradeRate: 1.8, MaxLevel: 10, MaxIdleHours: 8},
	"cafe": {ID: "cafe", Name: "Cafe", Cost: 20000, IncomePerHr: 700,
		YieldGrowth: 1.25, UpgradeBase: 10000, UpgradeRate: 1.8, MaxLevel: 10, MaxIdleHours: 8},
	"restaurant": {ID: "restaurant", Name: "Restaurant", Cost: 75000, IncomePerHr: 2200,
		YieldGrowth: 1.25, UpgradeBase: 35000, UpgradeRate: 1.8, MaxLevel: 10, MaxIdleHours: 10},
	"nightclub": {ID: "nightclub", Name: "Nightclub", Cost: 250000, IncomePerHr: 6500,
		YieldGrowth: 1.25, UpgradeBase: 120000, UpgradeRate: 1.8, MaxLevel: 10, MaxIdleHours: 12},
	"tech_startup": {ID: "tech_startup", Name: "Tech Startup", Cost: 1000000, IncomePerHr: 20000,
		YieldGrowth: 1.25, UpgradeBase: 500000, UpgradeRate: 1.8, MaxLevel: 10, MaxIdleHours: 24},
}

type PropertySpec struct {
	ID           string
	Name         string
	Cost         int64
	RentPerHr    int64
	YieldGrowth  float64
	UpgradeBase  int64
	UpgradeRate  float64
	MaxLevel     int
	MaxIdleHours float64
	ComfortRegen int64 // happiness per hour
	EnergyRegen  int64 // energy per hour
}

var properties = map[string]PropertySpec{
	"apartment": {ID: "apartment", Name: "Apartment", Cost: 10000, RentPerHr: 150,
		YieldGrowth: 1.2, UpgradeBase: 5000, UpgradeRate: 1.7, MaxLevel: 5, MaxIdleHours: 12,
		ComfortRegen: 2, EnergyRegen: 1},
	"house": {ID: "house", Name: "House", Cost: 50000, RentPerHr: 600,
		YieldGrowth: 1.2, UpgradeBase: 20000, UpgradeRate: 1.7, MaxLevel: 5, MaxIdleHours: 12,
		ComfortRegen: 5, EnergyRegen: 2},
	"villa": {ID: "villa", Name: "Villa", Cost: 250000, RentPerHr: 2500,
		YieldGrowth: 1.2, UpgradeBase: 90000, UpgradeRate: 1.7, MaxLevel: 5, MaxIdleHours: 24,
		ComfortRegen: 10, EnergyRegen: 4},
	"mansion": {ID: "mansion", Name: "Mansion", Cost: 1000000, RentPerHr: 8000,
		YieldGrowth: 1.2, UpgradeBase: 350000, UpgradeRate: 1.7, MaxLevel: 5, MaxIdleHours: 24,
		ComfortRegen: 20, EnergyRegen: 8},
}

type PetSpec struct {
	ID           string
	Name         string
	Cost         int64
	MoneyPct     int64 // flat percent on earnings
	XPPct        int64 // flat percent on XP gains
	WorkPct      int64 // flat percent on shift performance
	CrimePct     int64 // flat percent on crime success chance
	HappinessReg int64
}

var pets = map[string]PetSpec{
	"hamster": {ID: "hamster", Name: "Hamster", Cost: 100, HappinessReg: 1},
	"cat":     {ID: "cat", Name: "Cat", Cost: 400, XPPct: 2},
	"dog":     {ID: "dog", Name: "Dog", Cost: 500, MoneyPct: 2, WorkPct: 1},
	"parrot":  {ID: "parrot", Name: "Parrot", Cost: 800, MoneyPct: 1, XPPct: 1},
	"dragon":  {ID: "dragon", Name: "Dragon", Cost: 50000, CrimePct: 5, MoneyPct: 3},
}

type AssetSpec struct {
	Symbol     string
	Name       string
	BasePrice  float64
	Volatility float64
	Capped     bool // bounded to [base*0.1, base*10]
}

var assets = []AssetSpec{
	{Symbol: "BTC", Name: "Bitcorn", BasePrice: 45000, Volatility: 0.03, Capped: true},
	{Symbol: "ETH", Name: "Aether", BasePrice: 2800, Volatility: 0.04, Capped: true},
	{Symbol: "SOL", Name: "Solis", BasePrice: 140, Volatility: 0.06, Capped: true},
	{Symbol: "ADA", Name: "Arcadia", BasePrice: 0.9, Volatility: 0.05, Capped: true},
	{Symbol: "XRP", Name: "Ripplet", BasePrice: 0.6, Volatility: 0.05, Capped: true},
	{Symbol: "LTC", Name: "Litecore", BasePrice: 90, Volatility: 0.04, Capped: true},
	{Symbol: "DOT", Name: "Polka", BasePrice: 7.5, Volatility: 0.06, Capped: true},
	{Symbol: "DOGE", Name: "Dogget", BasePrice: 0.12, Volatility: 0.12, Capped: false},
	{Symbol: "SHIB", Name: "Shibari", BasePrice: 0.00002, Volatility: 0.15, Capped: false},
	{Symbol: "LSC", Name: "LifeSim Coin", BasePrice: 1.0, Volatility: 0.08, Capped: false},
}

type NewsEvent struct {
	Headline string
	Effect   float64 // signed fractional price move, replaces the volatility draw
	Affected []string
}

var newsEvents = []NewsEvent{
	{Headline: "Major exchange hacked", Effect: -0.20, Affected: []string{"BTC", "ETH"}},
	{Headline: "Spot ETF approved", Effect: 0.15, Affected: []string{"BTC"}},
	{Headline: "Meme coin frenzy", Effect: 0.30, Affected: []string{"DOGE", "SHIB"}},
	{Headline: "Regulators crack down", Effect: -0.15,
		Affected: []string{"BTC", "ETH", "SOL", "ADA", "XRP", "LTC", "DOT", "DOGE", "SHIB", "LSC"}},
	{Headline: "Network upgrade ships", Effect: 0.10, Affected: []string{"ETH", "SOL", "ADA"}},
	{Headline: "Whale dumps holdings", Effect: -0.12, Affected: []string{"LSC", "DOT"}},
}

const NewsChancePerTick = 0.05

func CrimeByID(id string) (CrimeSpec, bool) {
	c, ok := crimes[id]
	return c, ok
}

func JobByID(id string) (JobSpec, bool) {
	j, ok := jobs[id]
	return j, ok
}

func CasinoGameByID(id string) (CasinoGameSpec, bool) {
	g, ok := casinoGames[id]
	return g, ok
}

func BusinessByID(id string) (BusinessSpec, bool) {
	b, ok := businesses[id]
	return b, ok
}

func PropertyByID(id string) (PropertySpec, bool) {
	p, ok := properties[id]
	return p, ok
}

func PetByID(id string) (PetSpec, bool) {
	p, ok := pets[id]
	return p, ok
}

func Assets() []AssetSpec { return assets }

func AssetBySymbol(symbol string) (AssetSpec, bool) {
	for _, a := range assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return AssetSpec{}, false
}

func ListCrimes() []CrimeSpec {
	out := make([]CrimeSpec, 0, len(crimes))
	for _, c := range crimes {
		out = append(out, c)
	}
	return out
}

func ListJobs() []JobSpec {
	out := make([]JobSpec, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j)
	}
	return out
}

func ListCasinoGames() []CasinoGameSpec {
	out := make([]CasinoGameSpec, 0, len(casinoGames))
	for _, g := range casinoGames {
		out = append(out, g)
	}
	return out
}

func ListBusinessTypes() []BusinessSpec {
	out := make([]BusinessSpec, 0, len(businesses))
	for _, b := range businesses {
		out = append(out, b)
	}
	return out
}

func ListPropertyTypes() []PropertySpec {
	out := make([]PropertySpec, 0, len(properties))
	for _, p := range properties {
		out = append(out, p)
	}
	return out
}

func ListPetTypes() []PetSpec {
	out := make([]PetSpec, 0, len(pets))
	for _, p := range pets {
		out = append(out, p)
	}
	return out
}
