package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LocalProvider keeps email/password accounts in our own database.
type LocalProvider struct {
	accounts AccountStore
	cost     int
	logger   *zap.Logger
}

func NewLocalProvider(accounts AccountStore, logger *zap.Logger) *LocalProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalProvider{
		accounts: accounts,
		cost:     bcrypt.DefaultCost,
		logger:   logger,
	}
}

func (p *LocalProvider) Name() string {
	return ProviderLocal
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return User{}, err
	}
	if err := ValidatePassword(password); err != nil {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return User{}, fmt.Errorf("hashing password: %w", err)
	}

	account, err := p.accounts.CreateAccount(ctx, email, string(hash))
	if err != nil {
		return User{}, err
	}
	return account.user(), nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (User, error) {
	email = NormalizeEmail(email)

	account, err := p.accounts.GetAccountByEmail(ctx, email)
	if errors.Is(err, errAccountNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	if err := p.accounts.TouchLastLogin(ctx, account.ID); err != nil {
		p.logger.Warn("updating last login", zap.Int32("account", account.ID), zap.Error(err))
	}
	return account.user(), nil
}

func (a Account) user() User {
	return User{
		ID:          strconv.Itoa(int(a.ID)),
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Provider:    ProviderLocal,
	}
}
