package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/storage"
	"github.com/benjamintian2005/AITripPlanner/internal/model"
)

var ErrEmailTaken = errors.New("an account with this email already exists")

// AccountStore is the persistence LocalAuthenticator needs.
type AccountStore interface {
	CreateAccount(acc model.Account) error
	FindAccount(email string) (model.Account, error)
}

// LocalAuthenticator keeps bcrypt-hashed accounts in the local database.
type LocalAuthenticator struct {
	store AccountStore
	cost  int
}

func NewLocalAuthenticator(store AccountStore) *LocalAuthenticator {
	return &LocalAuthenticator{store: store, cost: bcrypt.DefaultCost}
}

func (a *LocalAuthenticator) Register(ctx context.Context, name, email, password string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}
	acc := model.Account{Email: email, Name: name, PasswordHash: string(hash), CreatedAt: time.Now()}
	if err := a.store.CreateAccount(acc); err != nil {
		if errors.Is(err, storage.ErrAccountExists) {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	stored, err := a.store.FindAccount(email)
	if err != nil {
		return User{}, err
	}
	return userFromAccount(stored), nil
}

func (a *LocalAuthenticator) Login(ctx context.Context, email, password string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	acc, err := a.store.FindAccount(email)
	if errors.Is(err, storage.ErrAccountNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return userFromAccount(acc), nil
}

func userFromAccount(acc model.Account) User {
	return User{ID: acc.Email, Name: acc.Name, Email: acc.Email}
}
