package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"codeshare/internal/model"
	"codeshare/internal/service"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
	next  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	user.ID = string(rune('a' + f.next))
	cp := *user
	f.users[user.Username] = &cp
	return user.ID, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*model.User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, username)
	return nil
}

type fakeTokenCache struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func newFakeTokenCache() *fakeTokenCache {
	return &fakeTokenCache{tokens: make(map[string]bool)}
}

func (f *fakeTokenCache) Add(ctx context.Context, tokenID string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[tokenID] = true
	return nil
}

func (f *fakeTokenCache) Exists(ctx context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[tokenID], nil
}

func (f *fakeTokenCache) Revoke(ctx context.Context, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, tokenID)
	return nil
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, password string, admin bool) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if _, err := repo.Create(context.Background(), &model.User{
		Username:     username,
		PasswordHash: string(hash),
		Admin:        admin,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestLoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "s3cret", false)
	authSvc := service.NewAuthService(repo, newFakeTokenCache(), "test-secret")

	resp, err := authSvc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" || resp.Username != "alice" || resp.Admin {
		t.Fatalf("login response = %+v", resp)
	}

	actor, err := authSvc.Authenticate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if actor.Username != "alice" || actor.Admin {
		t.Fatalf("actor = %+v", actor)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "s3cret", false)
	authSvc := service.NewAuthService(repo, newFakeTokenCache(), "test-secret")

	if _, err := authSvc.Login(ctx, "alice", "wrong"); err != service.ErrInvalidCredentials {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := authSvc.Login(ctx, "nobody", "s3cret"); err != service.ErrInvalidCredentials {
		t.Fatalf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "s3cret", false)
	authSvc := service.NewAuthService(repo, newFakeTokenCache(), "test-secret")

	resp, err := authSvc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := authSvc.Logout(ctx, resp.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if _, err := authSvc.Authenticate(ctx, resp.Token); err != service.ErrInvalidToken {
		t.Fatalf("revoked token err = %v, want ErrInvalidToken", err)
	}
}

func TestAuthenticateRejectsForgedToken(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "s3cret", false)

	issuer := service.NewAuthService(repo, newFakeTokenCache(), "other-secret")
	resp, err := issuer.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	verifier := service.NewAuthService(repo, newFakeTokenCache(), "test-secret")
	if _, err := verifier.Authenticate(ctx, resp.Token); err != service.ErrInvalidToken {
		t.Fatalf("forged token err = %v, want ErrInvalidToken", err)
	}
	if _, err := verifier.Authenticate(ctx, "not-a-jwt"); err != service.ErrInvalidToken {
		t.Fatalf("garbage token err = %v, want ErrInvalidToken", err)
	}
}

func TestDevAuthenticator(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	seedUser(t, repo, "alice", "s3cret", false)
	authSvc := service.NewAuthService(repo, newFakeTokenCache(), "test-secret")

	dev := &service.DevAuthenticator{
		Real:  authSvc,
		Actor: model.Actor{Username: "admin", Admin: true},
	}

	actor, err := dev.Authenticate(ctx, "")
	if err != nil {
		t.Fatalf("empty token: %v", err)
	}
	if actor.Username != "admin" || !actor.Admin {
		t.Fatalf("dev actor = %+v", actor)
	}

	// Real tokens still go through the real authenticator.
	resp, _ := authSvc.Login(ctx, "alice", "s3cret")
	actor, err = dev.Authenticate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("real token: %v", err)
	}
	if actor.Username != "alice" {
		t.Fatalf("actor = %+v", actor)
	}

	if _, err := dev.Authenticate(ctx, "garbage"); err != service.ErrInvalidToken {
		t.Fatalf("garbage through dev err = %v, want ErrInvalidToken", err)
	}
}
