package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"codeshare/internal/model"
	"codeshare/internal/repository"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrSelfDelete    = errors.New("cannot delete your own account")
)

// UserService handles admin-facing account management.
type UserService struct {
	users repository.UserRepo
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepo) *UserService {
	return &UserService{users: users}
}

// List returns every registered account.
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

// Create registers a new interviewer account with a bcrypt-hashed
// password.
func (s *UserService) Create(ctx context.Context, username, password, firstName, lastName string, admin bool) (*model.User, error) {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Admin:        admin,
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}

// Delete removes an account. Admins cannot delete themselves, which
// also protects the bootstrap admin.
func (s *UserService) Delete(ctx context.Context, actor model.Actor, username string) error {
	if actor.Username == username {
		return ErrSelfDelete
	}
	return s.users.Delete(ctx, username)
}

// EnsureAdmin creates the default admin account when no user holds the
// admin flag yet, so a fresh deployment is reachable.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	if _, err := s.Create(ctx, username, password, "super", "user", true); err != nil {
		return fmt.Errorf("failed creating the admin account: %w", err)
	}
	log.Println("created the admin account")
	return nil
}
