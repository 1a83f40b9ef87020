package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"lifesim/internal/store"
)

func newTestAuth(t *testing.T, ttl time.Duration) *Service {
	t.Helper()
	return NewService(store.NewMemory(), "test-secret", ttl)
}

func TestSignUpLoginVerify(t *testing.T) {
	svc := newTestAuth(t, time.Hour)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "not-an-email", "password123"); err == nil {
		t.Fatalf("bad email must fail")
	}
	if _, err := svc.SignUp(ctx, "a@b.com", "short"); err == nil {
		t.Fatalf("short password must fail")
	}

	sess, err := svc.SignUp(ctx, "Player@Example.com", "password123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if sess.AccessToken == "" || sess.User.ID == "" {
		t.Fatalf("incomplete session: %+v", sess)
	}
	if sess.User.Email != "player@example.com" {
		t.Fatalf("email not normalized: %q", sess.User.Email)
	}

	if _, err := svc.SignUp(ctx, "player@example.com", "password123"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate signup: got %v", err)
	}

	if _, err := svc.Login(ctx, "player@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	login, err := svc.Login(ctx, "player@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != sess.User.ID {
		t.Fatalf("login user %q != signup user %q", login.User.ID, sess.User.ID)
	}

	u, err := svc.VerifyAccessToken(login.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if u.ID != sess.User.ID {
		t.Fatalf("verified user %q want %q", u.ID, sess.User.ID)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newTestAuth(t, time.Hour)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.VerifyAccessToken(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: got %v want ErrInvalidToken", tok, err)
		}
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	a := NewService(store.NewMemory(), "secret-one", time.Hour)
	b := NewService(store.NewMemory(), "secret-two", time.Hour)

	sess, err := a.SignUp(context.Background(), "x@y.com", "password123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, err := b.VerifyAccessToken(sess.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("cross-secret verify: got %v", err)
	}
}
