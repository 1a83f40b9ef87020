package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"lifesim/internal/auth"
	"lifesim/internal/config"
	"lifesim/internal/game"
	"lifesim/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type contextKey string

const userContextKey contextKey = "user"

type UserContext struct {
	UserID string
	Email  string
	Token  string
}

type Server struct {
	cfg  config.APIConfig
	log  *slog.Logger
	auth *auth.Service
	game *game.Service
	mux  *chi.Mux

	// training sessions per user per UTC day, for the XP soft cap
	trainMu     sync.Mutex
	trainDay    string
	trainCounts map[string]int
}

func New(cfg config.APIConfig, logger *slog.Logger, authSvc *auth.Service, gameSvc *game.Service) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:         cfg,
		log:         logger,
		auth:        authSvc,
		game:        gameSvc,
		mux:         chi.NewRouter(),
		trainCounts: make(map[string]int),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/account", s.handleAccount)
			r.Get("/account/history", s.handleHistory)
			r.Post("/account/deposit", s.handleDeposit)
			r.Post("/account/withdraw", s.handleWithdraw)
			r.Post("/account/transfer", s.handleTransfer)
			r.Post("/account/daily", s.handleDaily)
			r.Post("/account/bank/upgrade", s.handleBankUpgrade)
			r.Get("/leaderboard", s.handleLeaderboard)
			r.Get("/buffs", s.handleBuffs)

			r.Get("/skills", s.handleSkills)
			r.Post("/skills/train", s.handleTrainSkill)

			r.Get("/crimes", s.handleCrimesList)
			r.Post("/crimes/{id}", s.handleCommitCrime)
			r.Get("/crimes/record", s.handleCriminalRecord)
			r.Get("/jail", s.handleJail)

			r.Get("/jobs", s.handleJobsList)
			r.Get("/jobs/status", s.handleJobStatus)
			r.Post("/jobs/{id}/join", s.handleJoinJob)
			r.Post("/jobs/quit", s.handleQuitJob)
			r.Post("/jobs/work", s.handleWork)

			r.Get("/casino/games", s.handleCasinoGames)
			r.Post("/casino/play", s.handleCasinoPlay)

			r.Get("/relationships/{user_id}", s.handleRelationship)
			r.Post("/relationships/{user_id}/interact", s.handleInteract)
			r.Post("/relationships/{user_id}/gift", s.handleGift)
			r.Post("/relationships/{user_id}/askout", s.handleAskOut)
			r.Post("/relationships/{user_id}/marry", s.handleMarry)
			r.Post("/relationships/{user_id}/breakup", s.handleBreakup)

			r.Get("/businesses", s.handleBusinesses)
			r.Get("/businesses/catalog", s.handleBusinessCatalog)
			r.Post("/businesses/buy", s.handleBuyBusiness)
			r.Post("/businesses/collect", s.handleCollectBusinesses)
			r.Post("/businesses/{id}/upgrade", s.handleUpgradeBusiness)

			r.Get("/properties", s.handleProperties)
			r.Get("/properties/catalog", s.handlePropertyCatalog)
			r.Post("/properties/buy", s.handleBuyProperty)
			r.Post("/properties/collect", s.handleCollectRent)
			r.Post("/properties/{id}/upgrade", s.handleUpgradeProperty)

			r.Get("/pets", s.handlePets)
			r.Get("/pets/catalog", s.handlePetCatalog)
			r.Post("/pets/adopt", s.handleAdoptPet)
			r.Post("/pets/{id}/feed", s.handleFeedPet)

			r.Post("/guilds", s.handleCreateGuild)
			r.Get("/guilds/mine", s.handleMyGuild)
			r.Post("/guilds/{id}/join", s.handleJoinGuild)
			r.Post("/guilds/leave", s.handleLeaveGuild)
			r.Post("/guilds/contribute", s.handleContributeGuild)

			r.Get("/crypto/prices", s.handleCryptoPrices)
			r.Get("/crypto/prices/{symbol}", s.handleCryptoPriceDetail)
			r.Get("/crypto/portfolio", s.handlePortfolio)
			r.Post("/crypto/buy", s.handleBuyCrypto)
			r.Post("/crypto/sell", s.handleSellCrypto)
		})
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := s.auth.VerifyAccessToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, UserContext{
			UserID: user.ID,
			Email:  user.Email,
			Token:  token,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) (UserContext, error) {
	v := ctx.Value(userContextKey)
	user, ok := v.(UserContext)
	if !ok {
		return UserContext{}, errors.New("no authenticated user in context")
	}
	return user, nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.auth.SignUp(r.Context(), strings.TrimSpace(in.Email), in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	session, err := s.auth.Login(r.Context(), strings.TrimSpace(in.Email), in.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.Account(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	limit := queryInt(r, "limit", 0)
	out, err := s.game.History(r.Context(), user.UserID, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleBankMove(w, r, s.game.Deposit)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleBankMove(w, r, s.game.Withdraw)
}

func (s *Server) handleBankMove(w http.ResponseWriter, r *http.Request, move func(context.Context, string, game.AmountSpec) (game.MoveResult, error)) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Amount string `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	spec, err := game.ParseAmountSpec(in.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := move(r.Context(), user.UserID, spec)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		To     string `json:"to"`
		Amount int64  `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.Transfer(r.Context(), user.UserID, strings.TrimSpace(in.To), in.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.ClaimDaily(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBankUpgrade(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.UpgradeBankLimit(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	out, err := s.game.Leaderboard(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": out})
}

func (s *Server) handleBuffs(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.Buffs(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.Skills(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skills": out})
}

func (s *Server) handleTrainSkill(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Skill string `json:"skill"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sessions := s.bumpTrainCount(user.UserID)
	out, err := s.game.TrainSkill(r.Context(), user.UserID, strings.TrimSpace(in.Skill), sessions)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// bumpTrainCount returns how many sessions the user has already trained
// today and records one more. Counts reset at UTC midnight and live only as
// long as the process; a restart is a free reset and that is acceptable for
// a soft cap.
func (s *Server) bumpTrainCount(userID string) int {
	day := time.Now().UTC().Format("2006-01-02")
	s.trainMu.Lock()
	defer s.trainMu.Unlock()
	if s.trainDay != day {
		s.trainDay = day
		s.trainCounts = make(map[string]int)
	}
	n := s.trainCounts[userID]
	s.trainCounts[userID] = n + 1
	return n
}

func (s *Server) handleCrimesList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"crimes": game.ListCrimes()})
}

func (s *Server) handleCommitCrime(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.CommitCrime(r.Context(), user.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCriminalRecord(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	rec, jail, err := s.game.CriminalProfile(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"record": rec, "jail": jail})
}

func (s *Server) handleJail(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.CheckJail(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleJobsList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"jobs": game.ListJobs()})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.EmploymentStatus(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleJoinJob(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.JoinJob(r.Context(), user.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleQuitJob(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.QuitJob(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleWork(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.WorkShift(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCasinoGames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"games": game.ListCasinoGames()})
}

func (s *Server) handleCasinoPlay(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Game   string `json:"game"`
		Bet    int64  `json:"bet"`
		Choice string `json:"choice"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.Play(r.Context(), user.UserID, strings.TrimSpace(in.Game), in.Bet, strings.TrimSpace(in.Choice))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRelationship(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.RelationshipWith(r.Context(), user.UserID, chi.URLParam(r, "user_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleInteract(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Kind string `json:"kind"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.Interact(r.Context(), user.UserID, chi.URLParam(r, "user_id"), strings.TrimSpace(in.Kind))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGift(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Value int64 `json:"value"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.GiveGift(r.Context(), user.UserID, chi.URLParam(r, "user_id"), in.Value)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAskOut(w http.ResponseWriter, r *http.Request) {
	s.handlePairAction(w, r, s.game.AskOut)
}

func (s *Server) handleMarry(w http.ResponseWriter, r *http.Request) {
	s.handlePairAction(w, r, s.game.Marry)
}

func (s *Server) handleBreakup(w http.ResponseWriter, r *http.Request) {
	s.handlePairAction(w, r, s.game.Breakup)
}

func (s *Server) handlePairAction(w http.ResponseWriter, r *http.Request, action func(context.Context, string, string) (game.RelationshipView, error)) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := action(r.Context(), user.UserID, chi.URLParam(r, "user_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBusinesses(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.Businesses(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"businesses": out})
}

func (s *Server) handleBusinessCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"types": game.ListBusinessTypes()})
}

func (s *Server) handleBuyBusiness(w http.ResponseWriter, r *http.Request) {
	s.handleTypedPurchase(w, r, s.game.BuyBusiness)
}

func (s *Server) handleBuyProperty(w http.ResponseWriter, r *http.Request) {
	s.handleTypedPurchase(w, r, s.game.BuyProperty)
}

func (s *Server) handleTypedPurchase(w http.ResponseWriter, r *http.Request, buy func(context.Context, string, string) (game.PurchaseResult, error)) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Type string `json:"type"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := buy(r.Context(), user.UserID, strings.TrimSpace(in.Type))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleCollectBusinesses(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.CollectBusinessIncome(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpgradeBusiness(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	out, err := s.game.UpgradeBusiness(r.Context(), user.UserID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProperties(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.Properties(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"properties": out})
}

func (s *Server) handlePropertyCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"types": game.ListPropertyTypes()})
}

func (s *Server) handleCollectRent(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.CollectRent(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpgradeProperty(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	out, err := s.game.UpgradeProperty(r.Context(), user.UserID, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePets(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.Pets(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pets": out})
}

func (s *Server) handlePetCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"types": game.ListPetTypes()})
}

func (s *Server) handleAdoptPet(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.AdoptPet(r.Context(), user.UserID, strings.TrimSpace(in.Type), strings.TrimSpace(in.Name))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleFeedPet(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.FeedPet(r.Context(), user.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGuild(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.CreateGuild(r.Context(), user.UserID, strings.TrimSpace(in.Name))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleMyGuild(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.GuildOf(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleJoinGuild(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.JoinGuild(r.Context(), user.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLeaveGuild(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if err := s.game.LeaveGuild(r.Context(), user.UserID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleContributeGuild(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Amount int64 `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.ContributeToGuild(r.Context(), user.UserID, in.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCryptoPrices(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"quotes": s.game.Market().Quotes()})
}

func (s *Server) handleCryptoPriceDetail(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	price, ok := s.game.Market().Price(symbol)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown asset")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"symbol":  symbol,
		"price":   price,
		"history": s.game.Market().History(symbol),
	})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	out, err := s.game.Portfolio(r.Context(), user.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"holdings": out})
}

func (s *Server) handleBuyCrypto(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Symbol string `json:"symbol"`
		Spend  int64  `json:"spend"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.BuyCrypto(r.Context(), user.UserID, strings.ToUpper(strings.TrimSpace(in.Symbol)), in.Spend)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSellCrypto(w http.ResponseWriter, r *http.Request) {
	user, err := userFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	var in struct {
		Symbol string  `json:"symbol"`
		Units  float64 `json:"units"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out, err := s.game.SellCrypto(r.Context(), user.UserID, strings.ToUpper(strings.TrimSpace(in.Symbol)), in.Units)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrOnCooldown):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, game.ErrJailed),
		errors.Is(err, game.ErrNotOwner),
		errors.Is(err, game.ErrUnauthorized):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, game.ErrUnknownCrime),
		errors.Is(err, game.ErrUnknownJob),
		errors.Is(err, game.ErrUnknownSkill),
		errors.Is(err, game.ErrUnknownGame),
		errors.Is(err, game.ErrUnknownAsset),
		errors.Is(err, game.ErrUnknownPet),
		errors.Is(err, game.ErrUnknownBusiness),
		errors.Is(err, game.ErrUnknownProperty),
		errors.Is(err, game.ErrGuildNotFound),
		errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrGuildExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrZeroAmount),
		errors.Is(err, game.ErrNegativeAmount),
		errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrBankFull),
		errors.Is(err, game.ErrBankEmpty),
		errors.Is(err, game.ErrSelfTransfer),
		errors.Is(err, game.ErrBelowMinimum),
		errors.Is(err, game.ErrAlreadyEmployed),
		errors.Is(err, game.ErrNotEmployed),
		errors.Is(err, game.ErrLevelTooLow),
		errors.Is(err, game.ErrBetOutOfRange),
		errors.Is(err, game.ErrInvalidBet),
		errors.Is(err, game.ErrMaxLevel),
		errors.Is(err, game.ErrUnknownAction),
		errors.Is(err, game.ErrNotPartners),
		errors.Is(err, game.ErrAffectionTooLow),
		errors.Is(err, game.ErrAlreadyPartnered):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
