package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// User is the financial core record. Balance, Bank and NetWorth are integer
// coin amounts; invariants (balance >= 0, bank <= bank_limit) are enforced by
// the engine, not the store.
type User struct {
	UserID      string
	Username    string
	Balance     int64
	Bank        int64
	BankLimit   int64
	NetWorth    int64
	DailyStreak int
	LastDaily   *time.Time
	Spouse      string
	KidsJSON    []byte
	GuildID     string
	CreatedAt   time.Time
}

// Starting values for a freshly created account.
const (
	StartingBalance  = 500
	StartingBank     = 0
	StartingBankCap  = 5000
)

// NewUserDefaults returns the account record a brand-new user starts with.
func NewUserDefaults(userID, username string) User {
	return User{
		UserID:    userID,
		Username:  username,
		Balance:   StartingBalance,
		Bank:      StartingBank,
		BankLimit: StartingBankCap,
		NetWorth:  StartingBalance,
		CreatedAt: time.Now().UTC(),
	}
}

// Transaction is an append-only audit entry. Never updated after insert.
type Transaction struct {
	ID        string
	UserID    string
	Amount    int64
	Type      string
	Desc      string
	CreatedAt time.Time
}

type Credential struct {
	Email        string
	PasswordHash string
	UserID       string
}

type CriminalRecord struct {
	UserID          string
	CrimesCommitted int64
	HeatLevel       int64
	JailReleaseAt   *time.Time
	TimesJailed     int64
	LastCrimeAt     *time.Time
}

type JobProfile struct {
	UserID          string
	JobID           string
	Position        string
	ShiftsWorked    int64
	Promotions      int64
	SalaryBonusPct  int64
	JobXP           int64
	LastWorked      *time.Time
}

// Relationship rows are stored with UserA < UserB (lexical order); the engine
// canonicalizes before calling the store.
type Relationship struct {
	UserA           string
	UserB           string
	Affection       int64
	Status          string
	LastInteraction *time.Time
}

type Business struct {
	ID            int64
	OwnerID       string
	Type          string
	Level         int64
	LastCollected time.Time
}

type Property struct {
	ID            int64
	OwnerID       string
	Type          string
	Level         int64
	LastCollected time.Time
}

type Pet struct {
	ID      string
	OwnerID string
	Type    string
	Name    string
	XP      int64
	Alive   bool
}

type Guild struct {
	GuildID string
	Name    string
	OwnerID string
	XP      int64
}

type Holding struct {
	UserID string
	Symbol string
	Units  float64
}

type AssetPrice struct {
	Symbol    string
	Price     float64
	Trend     string
	Change24h float64
	UpdatedAt time.Time
}

// Store is the narrow persistence contract the engine depends on. Every
// method provides read-your-writes consistency for a given user id. InTx runs
// fn against a transactional view: either all mutations inside fn become
// visible together, or none do.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	GetUser(ctx context.Context, userID string) (User, error)
	GetOrCreateUser(ctx context.Context, userID, username string) (User, error)
	UpdateBalances(ctx context.Context, userID string, balance, bank, netWorth int64) error
	SetBankLimit(ctx context.Context, userID string, limit int64) error
	SetDaily(ctx context.Context, userID string, streak int, last time.Time) error
	SetSpouse(ctx context.Context, userID, spouse string) error
	SetKidsJSON(ctx context.Context, userID string, kids []byte) error
	SetGuildID(ctx context.Context, userID, guildID string) error
	TopNetWorth(ctx context.Context, limit int) ([]User, error)

	AppendTransaction(ctx context.Context, t Transaction) error
	RecentTransactions(ctx context.Context, userID string, limit int) ([]Transaction, error)

	CreateCredential(ctx context.Context, c Credential) error
	GetCredentialByEmail(ctx context.Context, email string) (Credential, error)

	SkillXP(ctx context.Context, userID string) (map[string]int64, error)
	AddSkillXP(ctx context.Context, userID, skill string, delta int64) error

	GetOrCreateCriminalRecord(ctx context.Context, userID string) (CriminalRecord, error)
	UpdateCriminalRecord(ctx context.Context, rec CriminalRecord) error

	GetOrCreateJobProfile(ctx context.Context, userID string) (JobProfile, error)
	UpdateJobProfile(ctx context.Context, p JobProfile) error

	GetRelationship(ctx context.Context, userA, userB string) (Relationship, error)
	UpsertRelationship(ctx context.Context, rel Relationship) error

	ListBusinesses(ctx context.Context, ownerID string) ([]Business, error)
	InsertBusiness(ctx context.Context, b Business) (int64, error)
	UpdateBusiness(ctx context.Context, b Business) error

	ListProperties(ctx context.Context, ownerID string) ([]Property, error)
	InsertProperty(ctx context.Context, p Property) (int64, error)
	UpdateProperty(ctx context.Context, p Property) error

	ListPets(ctx context.Context, ownerID string) ([]Pet, error)
	InsertPet(ctx context.Context, p Pet) error
	UpdatePet(ctx context.Context, p Pet) error

	GetGuild(ctx context.Context, guildID string) (Guild, error)
	UpsertGuild(ctx context.Context, g Guild) error

	ListHoldings(ctx context.Context, userID string) ([]Holding, error)
	UpsertHolding(ctx context.Context, h Holding) error

	SaveAssetPrices(ctx context.Context, prices []AssetPrice) error
	ListAssetPrices(ctx context.Context) ([]AssetPrice, error)
}
