package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lifesim/internal/auth"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Signup(ctx context.Context, email, password string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, &out)
	return out, err
}

func (c *Client) Account(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/account", accessToken, nil)
}

func (c *Client) History(ctx context.Context, accessToken string, limit int) (map[string]any, error) {
	path := "/v1/account/history"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	return c.Do(ctx, http.MethodGet, path, accessToken, nil)
}

func (c *Client) Deposit(ctx context.Context, accessToken, amount string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/account/deposit", accessToken, map[string]any{"amount": amount})
}

func (c *Client) Withdraw(ctx context.Context, accessToken, amount string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/account/withdraw", accessToken, map[string]any{"amount": amount})
}

func (c *Client) Transfer(ctx context.Context, accessToken, to string, amount int64) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/account/transfer", accessToken, map[string]any{
		"to":     to,
		"amount": amount,
	})
}

func (c *Client) ClaimDaily(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/account/daily", accessToken, map[string]any{})
}

func (c *Client) UpgradeBank(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/account/bank/upgrade", accessToken, map[string]any{})
}

func (c *Client) Leaderboard(ctx context.Context, accessToken string, limit int) (map[string]any, error) {
	path := "/v1/leaderboard"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	return c.Do(ctx, http.MethodGet, path, accessToken, nil)
}

func (c *Client) Buffs(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/buffs", accessToken, nil)
}

func (c *Client) Skills(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/skills", accessToken, nil)
}

func (c *Client) TrainSkill(ctx context.Context, accessToken, skill string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/skills/train", accessToken, map[string]any{"skill": skill})
}

func (c *Client) ListCrimes(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/crimes", accessToken, nil)
}

func (c *Client) CommitCrime(ctx context.Context, accessToken, crimeID string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/crimes/"+url.PathEscape(crimeID), accessToken, map[string]any{})
}

func (c *Client) CriminalRecord(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/crimes/record", accessToken, nil)
}

func (c *Client) JailStatus(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/jail", accessToken, nil)
}

func (c *Client) ListJobs(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/jobs", accessToken, nil)
}

func (c *Client) JobStatus(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/jobs/status", accessToken, nil)
}

func (c *Client) JoinJob(ctx context.Context, accessToken, jobID string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/jobs/"+url.PathEscape(jobID)+"/join", accessToken, map[string]any{})
}

func (c *Client) QuitJob(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/jobs/quit", accessToken, map[string]any{})
}

func (c *Client) Work(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/jobs/work", accessToken, map[string]any{})
}

func (c *Client) CasinoGames(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/casino/games", accessToken, nil)
}

func (c *Client) CasinoPlay(ctx context.Context, accessToken, game string, bet int64, choice string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/casino/play", accessToken, map[string]any{
		"game":   game,
		"bet":    bet,
		"choice": choice,
	})
}

func (c *Client) Relationship(ctx context.Context, accessToken, userID string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/relationships/"+url.PathEscape(userID), accessToken, nil)
}

func (c *Client) Interact(ctx context.Context, accessToken, userID, kind string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/relationships/"+url.PathEscape(userID)+"/interact", accessToken, map[string]any{"kind": kind})
}

func (c *Client) GiveGift(ctx context.Context, accessToken, userID string, value int64) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/relationships/"+url.PathEscape(userID)+"/gift", accessToken, map[string]any{"value": value})
}

func (c *Client) AskOut(ctx context.Context, accessToken, userID string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/relationships/"+url.PathEscape(userID)+"/askout", accessToken, map[string]any{})
}

func (c *Client) Marry(ctx context.Context, accessToken, userID string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/relationships/"+url.PathEscape(userID)+"/marry", accessToken, map[string]any{})
}

func (c *Client) Breakup(ctx context.Context, accessToken, userID string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/relationships/"+url.PathEscape(userID)+"/breakup", accessToken, map[string]any{})
}

func (c *Client) Businesses(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/businesses", accessToken, nil)
}

func (c *Client) BusinessCatalog(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/businesses/catalog", accessToken, nil)
}

func (c *Client) BuyBusiness(ctx context.Context, accessToken, typeID string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/businesses/buy", accessToken, map[string]any{"type": typeID})
}

func (c *Client) CollectBusinesses(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/businesses/collect", accessToken, map[string]any{})
}

func (c *Client) UpgradeBusiness(ctx context.Context, accessToken string, id int64) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, fmt.Sprintf("/v1/businesses/%d/upgrade", id), accessToken, map[string]any{})
}

func (c *Client) Properties(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/properties", accessToken, nil)
}

func (c *Client) PropertyCatalog(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/properties/catalog", accessToken, nil)
}

func (c *Client) BuyProperty(ctx context.Context, accessToken, typeID string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/properties/buy", accessToken, map[string]any{"type": typeID})
}

func (c *Client) CollectRent(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/properties/collect", accessToken, map[string]any{})
}

func (c *Client) UpgradeProperty(ctx context.Context, accessToken string, id int64) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, fmt.Sprintf("/v1/properties/%d/upgrade", id), accessToken, map[string]any{})
}

func (c *Client) Pets(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/pets", accessToken, nil)
}

func (c *Client) PetCatalog(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/pets/catalog", accessToken, nil)
}

func (c *Client) AdoptPet(ctx context.Context, accessToken, typeID, name string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/pets/adopt", accessToken, map[string]any{
		"type": typeID,
		"name": name,
	})
}

func (c *Client) FeedPet(ctx context.Context, accessToken, petID string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/pets/"+url.PathEscape(petID)+"/feed", accessToken, map[string]any{})
}

func (c *Client) CreateGuild(ctx context.Context, accessToken, name string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/guilds", accessToken, map[string]any{"name": name})
}

func (c *Client) MyGuild(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/guilds/mine", accessToken, nil)
}

func (c *Client) JoinGuild(ctx context.Context, accessToken, guildID string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/guilds/"+url.PathEscape(guildID)+"/join", accessToken, map[string]any{})
}

func (c *Client) LeaveGuild(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/guilds/leave", accessToken, map[string]any{})
}

func (c *Client) ContributeGuild(ctx context.Context, accessToken string, amount int64) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/guilds/contribute", accessToken, map[string]any{"amount": amount})
}

func (c *Client) CryptoPrices(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/crypto/prices", accessToken, nil)
}

func (c *Client) CryptoPriceDetail(ctx context.Context, accessToken, symbol string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/crypto/prices/"+url.PathEscape(symbol), accessToken, nil)
}

func (c *Client) Portfolio(ctx context.Context, accessToken string) (map[string]any, error) {
	return c.Do(ctx, http.MethodGet, "/v1/crypto/portfolio", accessToken, nil)
}

func (c *Client) BuyCrypto(ctx context.Context, accessToken, symbol string, spend int64) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/crypto/buy", accessToken, map[string]any{
		"symbol": symbol,
		"spend":  spend,
	})
}

func (c *Client) SellCrypto(ctx context.Context, accessToken, symbol string, units float64) (map[string]any, error) {
	return c.Do(ctx, http.MethodPost, "/v1/crypto/sell", accessToken, map[string]any{
		"symbol": symbol,
		"units":  units,
	})
}

func (c *Client) Do(ctx context.Context, method, path, accessToken string, body map[string]any) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, method, path, accessToken, body, &out)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, accessToken string, in any, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
