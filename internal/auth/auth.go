package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"lifesim/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Session is what a successful signup or login returns.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Service issues and verifies HS256 tokens and manages credentials. Tokens
// are self-contained; no session table.
type Service struct {
	store    store.Store
	secret   []byte
	tokenTTL time.Duration
}

func NewService(st store.Store, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{store: st, secret: []byte(secret), tokenTTL: tokenTTL}
}

// SignUp registers a credential, creates the game account, and returns a
// fresh session.
func (s *Service) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, fmt.Errorf("a valid email is required")
	}
	if len(password) < 8 {
		return Session{}, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	userID := uuid.NewString()
	username := email[:strings.Index(email, "@")]
	if _, err := s.store.GetOrCreateUser(ctx, userID, username); err != nil {
		return Session{}, fmt.Errorf("create account: %w", err)
	}
	err = s.store.CreateCredential(ctx, store.Credential{
		Email:        email,
		PasswordHash: string(hash),
		UserID:       userID,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return Session{}, ErrEmailTaken
	}
	if err != nil {
		return Session{}, err
	}
	return s.mint(User{ID: userID, Email: email})
}

// Login verifies the password and returns a fresh session.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	cred, err := s.store.GetCredentialByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.mint(User{ID: cred.UserID, Email: email})
}

// VerifyAccessToken validates the signature and expiry and returns the token
// holder.
func (s *Service) VerifyAccessToken(tokenStr string) (User, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return User{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return User{}, ErrInvalidToken
	}
	email := ""
	if len(claims.Audience) > 0 {
		email = claims.Audience[0]
	}
	return User{ID: claims.Subject, Email: email}, nil
}

func (s *Service) mint(u User) (Session, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		Audience:  jwt.ClaimStrings{u.Email},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		Issuer:    "lifesim",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign token: %w", err)
	}
	return Session{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
		User:        u,
	}, nil
}
