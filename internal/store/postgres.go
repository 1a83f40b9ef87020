package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same query
// methods serve direct calls and calls inside InTx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Postgres struct {
	pool *pgxpool.Pool
	q    querier
}

func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	s := &Postgres{pool: pool, q: pool}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Postgres) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id      TEXT PRIMARY KEY,
			username     TEXT NOT NULL,
			balance      BIGINT NOT NULL,
			bank         BIGINT NOT NULL,
			bank_limit   BIGINT NOT NULL,
			net_worth    BIGINT NOT NULL,
			daily_streak INT NOT NULL DEFAULT 0,
			last_daily   TIMESTAMPTZ,
			spouse       TEXT NOT NULL DEFAULT '',
			kids         JSONB NOT NULL DEFAULT '[]',
			guild_id     TEXT NOT NULL DEFAULT '',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id         UUID PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(user_id),
			amount     BIGINT NOT NULL,
			type       TEXT NOT NULL,
			descr      TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS transactions_user_idx ON transactions (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS credentials (
			email         TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL,
			user_id       TEXT NOT NULL REFERENCES users(user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_skills (
			user_id TEXT NOT NULL REFERENCES users(user_id),
			skill   TEXT NOT NULL,
			xp      BIGINT NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, skill)
		)`,
		`CREATE TABLE IF NOT EXISTS criminal_records (
			user_id          TEXT PRIMARY KEY REFERENCES users(user_id),
			crimes_committed BIGINT NOT NULL DEFAULT 0,
			heat_level       BIGINT NOT NULL DEFAULT 0,
			jail_release_at  TIMESTAMPTZ,
			times_jailed     BIGINT NOT NULL DEFAULT 0,
			last_crime_at    TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS job_profiles (
			user_id          TEXT PRIMARY KEY REFERENCES users(user_id),
			job_id           TEXT NOT NULL DEFAULT '',
			position         TEXT NOT NULL DEFAULT '',
			shifts_worked    BIGINT NOT NULL DEFAULT 0,
			promotions       BIGINT NOT NULL DEFAULT 0,
			salary_bonus_pct BIGINT NOT NULL DEFAULT 0,
			job_xp           BIGINT NOT NULL DEFAULT 0,
			last_worked      TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS relationships (
			user_a           TEXT NOT NULL,
			user_b           TEXT NOT NULL,
			affection        BIGINT NOT NULL DEFAULT 0,
			status           TEXT NOT NULL DEFAULT 'stranger',
			last_interaction TIMESTAMPTZ,
			PRIMARY KEY (user_a, user_b)
		)`,
		`CREATE TABLE IF NOT EXISTS businesses (
			id             BIGSERIAL PRIMARY KEY,
			owner_id       TEXT NOT NULL REFERENCES users(user_id),
			type           TEXT NOT NULL,
			level          BIGINT NOT NULL DEFAULT 1,
			last_collected TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS properties (
			id             BIGSERIAL PRIMARY KEY,
			owner_id       TEXT NOT NULL REFERENCES users(user_id),
			type           TEXT NOT NULL,
			level          BIGINT NOT NULL DEFAULT 1,
			last_collected TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS pets (
			id       UUID PRIMARY KEY,
			owner_id TEXT NOT NULL REFERENCES users(user_id),
			type     TEXT NOT NULL,
			name     TEXT NOT NULL,
			xp       BIGINT NOT NULL DEFAULT 0,
			alive    BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS guilds (
			guild_id TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			owner_id TEXT NOT NULL,
			xp       BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS holdings (
			user_id TEXT NOT NULL REFERENCES users(user_id),
			symbol  TEXT NOT NULL,
			units   DOUBLE PRECISION NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, symbol)
		)`,
		`CREATE TABLE IF NOT EXISTS asset_prices (
			symbol     TEXT PRIMARY KEY,
			price      DOUBLE PRECISION NOT NULL,
			trend      TEXT NOT NULL DEFAULT 'flat',
			change_24h DOUBLE PRECISION NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.q.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Postgres) InTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return errors.New("nested transactions are not supported")
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)
	if err := fn(&Postgres{q: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const userColumns = `user_id, username, balance, bank, bank_limit, net_worth,
	daily_streak, last_daily, spouse, kids, guild_id, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.UserID, &u.Username, &u.Balance, &u.Bank, &u.BankLimit,
		&u.NetWorth, &u.DailyStreak, &u.LastDaily, &u.Spouse, &u.KidsJSON,
		&u.GuildID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Postgres) GetUser(ctx context.Context, userID string) (User, error) {
	return scanUser(s.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID))
}

func (s *Postgres) GetOrCreateUser(ctx context.Context, userID, username string) (User, error) {
	def := NewUserDefaults(userID, username)
	return scanUser(s.q.QueryRow(ctx, `
		INSERT INTO users (user_id, username, balance, bank, bank_limit, net_worth, kids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, '[]', $7)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING `+userColumns,
		def.UserID, def.Username, def.Balance, def.Bank, def.BankLimit, def.NetWorth, def.CreatedAt))
}

func (s *Postgres) execOne(ctx context.Context, sql string, args ...any) error {
	tag, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Postgres) UpdateBalances(ctx context.Context, userID string, balance, bank, netWorth int64) error {
	return s.execOne(ctx,
		`UPDATE users SET balance = $2, bank = $3, net_worth = $4 WHERE user_id = $1`,
		userID, balance, bank, netWorth)
}

func (s *Postgres) SetBankLimit(ctx context.Context, userID string, limit int64) error {
	return s.execOne(ctx, `UPDATE users SET bank_limit = $2 WHERE user_id = $1`, userID, limit)
}

func (s *Postgres) SetDaily(ctx context.Context, userID string, streak int, last time.Time) error {
	return s.execOne(ctx,
		`UPDATE users SET daily_streak = $2, last_daily = $3 WHERE user_id = $1`,
		userID, streak, last)
}

func (s *Postgres) SetSpouse(ctx context.Context, userID, spouse string) error {
	return s.execOne(ctx, `UPDATE users SET spouse = $2 WHERE user_id = $1`, userID, spouse)
}

func (s *Postgres) SetKidsJSON(ctx context.Context, userID string, kids []byte) error {
	return s.execOne(ctx, `UPDATE users SET kids = $2 WHERE user_id = $1`, userID, kids)
}

func (s *Postgres) SetGuildID(ctx context.Context, userID, guildID string) error {
	return s.execOne(ctx, `UPDATE users SET guild_id = $2 WHERE user_id = $1`, userID, guildID)
}

func (s *Postgres) TopNetWorth(ctx context.Context, limit int) ([]User, error) {
	rows, err := s.q.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY net_worth DESC, user_id ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Postgres) AppendTransaction(ctx context.Context, t Transaction) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, descr, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.UserID, t.Amount, t.Type, t.Desc, t.CreatedAt)
	return err
}

func (s *Postgres) RecentTransactions(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, user_id, amount, type, descr, created_at
		FROM transactions WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Desc, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Postgres) CreateCredential(ctx context.Context, c Credential) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO credentials (email, password_hash, user_id) VALUES ($1, $2, $3)`,
		c.Email, c.PasswordHash, c.UserID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

func (s *Postgres) GetCredentialByEmail(ctx context.Context, email string) (Credential, error) {
	var c Credential
	err := s.q.QueryRow(ctx,
		`SELECT email, password_hash, user_id FROM credentials WHERE email = $1`, email).
		Scan(&c.Email, &c.PasswordHash, &c.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credential{}, ErrNotFound
	}
	return c, err
}

func (s *Postgres) SkillXP(ctx context.Context, userID string) (map[string]int64, error) {
	rows, err := s.q.Query(ctx,
		`SELECT skill, xp FROM user_skills WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var skill string
		var xp int64
		if err := rows.Scan(&skill, &xp); err != nil {
			return nil, err
		}
		out[skill] = xp
	}
	return out, rows.Err()
}

func (s *Postgres) AddSkillXP(ctx context.Context, userID, skill string, delta int64) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO user_skills (user_id, skill, xp) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, skill) DO UPDATE SET xp = user_skills.xp + EXCLUDED.xp`,
		userID, skill, delta)
	return err
}

func (s *Postgres) GetOrCreateCriminalRecord(ctx context.Context, userID string) (CriminalRecord, error) {
	var rec CriminalRecord
	err := s.q.QueryRow(ctx, `
		INSERT INTO criminal_records (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, crimes_committed, heat_level, jail_release_at, times_jailed, last_crime_at`, userID).
		Scan(&rec.UserID, &rec.CrimesCommitted, &rec.HeatLevel, &rec.JailReleaseAt, &rec.TimesJailed, &rec.LastCrimeAt)
	return rec, err
}

func (s *Postgres) UpdateCriminalRecord(ctx context.Context, rec CriminalRecord) error {
	return s.execOne(ctx, `
		UPDATE criminal_records
		SET crimes_committed = $2, heat_level = $3, jail_release_at = $4, times_jailed = $5,
			last_crime_at = $6
		WHERE user_id = $1`,
		rec.UserID, rec.CrimesCommitted, rec.HeatLevel, rec.JailReleaseAt, rec.TimesJailed, rec.LastCrimeAt)
}

func (s *Postgres) GetOrCreateJobProfile(ctx context.Context, userID string) (JobProfile, error) {
	var p JobProfile
	err := s.q.QueryRow(ctx, `
		INSERT INTO job_profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING user_id, job_id, position, shifts_worked, promotions, salary_bonus_pct, job_xp, last_worked`, userID).
		Scan(&p.UserID, &p.JobID, &p.Position, &p.ShiftsWorked, &p.Promotions, &p.SalaryBonusPct, &p.JobXP, &p.LastWorked)
	return p, err
}

func (s *Postgres) UpdateJobProfile(ctx context.Context, p JobProfile) error {
	return s.execOne(ctx, `
		UPDATE job_profiles
		SET job_id = $2, position = $3, shifts_worked = $4, promotions = $5,
			salary_bonus_pct = $6, job_xp = $7, last_worked = $8
		WHERE user_id = $1`,
		p.UserID, p.JobID, p.Position, p.ShiftsWorked, p.Promotions, p.SalaryBonusPct, p.JobXP, p.LastWorked)
}

func (s *Postgres) GetRelationship(ctx context.Context, userA, userB string) (Relationship, error) {
	var rel Relationship
	err := s.q.QueryRow(ctx, `
		SELECT user_a, user_b, affection, status, last_interaction
		FROM relationships WHERE user_a = $1 AND user_b = $2`, userA, userB).
		Scan(&rel.UserA, &rel.UserB, &rel.Affection, &rel.Status, &rel.LastInteraction)
	if errors.Is(err, pgx.ErrNoRows) {
		return Relationship{}, ErrNotFound
	}
	return rel, err
}

func (s *Postgres) UpsertRelationship(ctx context.Context, rel Relationship) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO relationships (user_a, user_b, affection, status, last_interaction)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_a, user_b) DO UPDATE
		SET affection = EXCLUDED.affection, status = EXCLUDED.status,
			last_interaction = EXCLUDED.last_interaction`,
		rel.UserA, rel.UserB, rel.Affection, rel.Status, rel.LastInteraction)
	return err
}

func (s *Postgres) ListBusinesses(ctx context.Context, ownerID string) ([]Business, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, owner_id, type, level, last_collected
		FROM businesses WHERE owner_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Business
	for rows.Next() {
		var b Business
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Type, &b.Level, &b.LastCollected); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Postgres) InsertBusiness(ctx context.Context, b Business) (int64, error) {
	var id int64
	err := s.q.QueryRow(ctx, `
		INSERT INTO businesses (owner_id, type, level, last_collected)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		b.OwnerID, b.Type, b.Level, b.LastCollected).Scan(&id)
	return id, err
}

func (s *Postgres) UpdateBusiness(ctx context.Context, b Business) error {
	return s.execOne(ctx, `
		UPDATE businesses SET level = $2, last_collected = $3 WHERE id = $1`,
		b.ID, b.Level, b.LastCollected)
}

func (s *Postgres) ListProperties(ctx context.Context, ownerID string) ([]Property, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, owner_id, type, level, last_collected
		FROM properties WHERE owner_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Property
	for rows.Next() {
		var p Property
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Type, &p.Level, &p.LastCollected); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Postgres) InsertProperty(ctx context.Context, p Property) (int64, error) {
	var id int64
	err := s.q.QueryRow(ctx, `
		INSERT INTO properties (owner_id, type, level, last_collected)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		p.OwnerID, p.Type, p.Level, p.LastCollected).Scan(&id)
	return id, err
}

func (s *Postgres) UpdateProperty(ctx context.Context, p Property) error {
	return s.execOne(ctx, `
		UPDATE properties SET level = $2, last_collected = $3 WHERE id = $1`,
		p.ID, p.Level, p.LastCollected)
}

func (s *Postgres) ListPets(ctx context.Context, ownerID string) ([]Pet, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, owner_id, type, name, xp, alive
		FROM pets WHERE owner_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Pet
	for rows.Next() {
		var p Pet
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Type, &p.Name, &p.XP, &p.Alive); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Postgres) InsertPet(ctx context.Context, p Pet) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO pets (id, owner_id, type, name, xp, alive)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.OwnerID, p.Type, p.Name, p.XP, p.Alive)
	return err
}

func (s *Postgres) UpdatePet(ctx context.Context, p Pet) error {
	return s.execOne(ctx, `
		UPDATE pets SET name = $2, xp = $3, alive = $4 WHERE id = $1`,
		p.ID, p.Name, p.XP, p.Alive)
}

func (s *Postgres) GetGuild(ctx context.Context, guildID string) (Guild, error) {
	var g Guild
	err := s.q.QueryRow(ctx,
		`SELECT guild_id, name, owner_id, xp FROM guilds WHERE guild_id = $1`, guildID).
		Scan(&g.GuildID, &g.Name, &g.OwnerID, &g.XP)
	if errors.Is(err, pgx.ErrNoRows) {
		return Guild{}, ErrNotFound
	}
	return g, err
}

func (s *Postgres) UpsertGuild(ctx context.Context, g Guild) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO guilds (guild_id, name, owner_id, xp) VALUES ($1, $2, $3, $4)
		ON CONFLICT (guild_id) DO UPDATE
		SET name = EXCLUDED.name, owner_id = EXCLUDED.owner_id, xp = EXCLUDED.xp`,
		g.GuildID, g.Name, g.OwnerID, g.XP)
	return err
}

func (s *Postgres) ListHoldings(ctx context.Context, userID string) ([]Holding, error) {
	rows, err := s.q.Query(ctx, `
		SELECT user_id, symbol, units FROM holdings
		WHERE user_id = $1 AND units <> 0 ORDER BY symbol`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Holding
	for rows.Next() {
		var h Holding
		if err := rows.Scan(&h.UserID, &h.Symbol, &h.Units); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Postgres) UpsertHolding(ctx context.Context, h Holding) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO holdings (user_id, symbol, units) VALUES ($1, $2, $3)
		ON CONFLICT (user_id, symbol) DO UPDATE SET units = EXCLUDED.units`,
		h.UserID, h.Symbol, h.Units)
	return err
}

func (s *Postgres) SaveAssetPrices(ctx context.Context, prices []AssetPrice) error {
	for _, p := range prices {
		_, err := s.q.Exec(ctx, `
			INSERT INTO asset_prices (symbol, price, trend, change_24h, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (symbol) DO UPDATE
			SET price = EXCLUDED.price, trend = EXCLUDED.trend,
				change_24h = EXCLUDED.change_24h, updated_at = EXCLUDED.updated_at`,
			p.Symbol, p.Price, p.Trend, p.Change24h, p.UpdatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Postgres) ListAssetPrices(ctx context.Context) ([]AssetPrice, error) {
	rows, err := s.q.Query(ctx, `
		SELECT symbol, price, trend, change_24h, updated_at
		FROM asset_prices ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AssetPrice
	for rows.Next() {
		var p AssetPrice
		if err := rows.Scan(&p.Symbol, &p.Price, &p.Trend, &p.Change24h, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
