package service_test

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"codeshare/internal/model"
	"codeshare/internal/service"
)

func TestCreateUserHashesPassword(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo)

	user, err := svc.Create(ctx, "jane", "hunter2", "Jane", "Doe", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == "" {
		t.Fatal("created user must carry an id")
	}
	if user.PasswordHash == "hunter2" {
		t.Fatal("password must not be stored in the clear")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2")) != nil {
		t.Fatal("stored hash must verify the original password")
	}
}

func TestCreateUserRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := service.NewUserService(newFakeUserRepo())

	if _, err := svc.Create(ctx, "jane", "a", "", "", false); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "jane", "b", "", "", false); err != service.ErrUsernameTaken {
		t.Fatalf("duplicate err = %v, want ErrUsernameTaken", err)
	}
}

func TestDeleteUserSelfProtection(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo)

	if _, err := svc.Create(ctx, "jane", "a", "", "", false); err != nil {
		t.Fatalf("Create: %v", err)
	}

	admin := model.Actor{Username: "admin", Admin: true}
	if err := svc.Delete(ctx, admin, "admin"); err != service.ErrSelfDelete {
		t.Fatalf("self delete err = %v, want ErrSelfDelete", err)
	}
	if err := svc.Delete(ctx, admin, "jane"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if user, _ := repo.GetByUsername(ctx, "jane"); user != nil {
		t.Fatal("jane should be gone")
	}
}

func TestEnsureAdminIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := service.NewUserService(repo)

	if err := svc.EnsureAdmin(ctx, "admin", "admin"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	user, _ := repo.GetByUsername(ctx, "admin")
	if user == nil || !user.Admin {
		t.Fatalf("admin account not provisioned: %+v", user)
	}

	// Second call must not replace the existing account.
	user.FirstName = "marker"
	repo.users[user.Username] = user
	if err := svc.EnsureAdmin(ctx, "admin", "admin"); err != nil {
		t.Fatalf("EnsureAdmin again: %v", err)
	}
	again, _ := repo.GetByUsername(ctx, "admin")
	if again.FirstName != "marker" {
		t.Fatal("EnsureAdmin must be a no-op when the account exists")
	}
}
