package identity

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memAccounts struct {
	byEmail map[string]Account
	touched []int32
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byEmail: map[string]Account{}}
}

func (m *memAccounts) CreateAccount(ctx context.Context, email, passwordHash string) (Account, error) {
	if _, ok := m.byEmail[email]; ok {
		return Account{}, fmt.Errorf("%w: '%s'", ErrEmailTaken, email)
	}
	a := Account{ID: int32(len(m.byEmail) + 1), Email: email, PasswordHash: passwordHash}
	m.byEmail[email] = a
	return a, nil
}

func (m *memAccounts) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return Account{}, errAccountNotFound
	}
	return a, nil
}

func (m *memAccounts) TouchLastLogin(ctx context.Context, id int32) error {
	m.touched = append(m.touched, id)
	return nil
}

func newTestLocal() (*LocalProvider, *memAccounts) {
	accounts := newMemAccounts()
	p := NewLocalProvider(accounts, nil)
	p.cost = bcrypt.MinCost
	return p, accounts
}

func TestLocal_SignUpThenSignIn(t *testing.T) {
	p, accounts := newTestLocal()
	ctx := context.Background()

	user, err := p.SignUp(ctx, "  Carol@Example.COM", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, "carol@example.com", user.Email)
	assert.Equal(t, ProviderLocal, user.Provider)
	assert.NotEqual(t, "correct horse", accounts.byEmail["carol@example.com"].PasswordHash)

	user, err = p.SignIn(ctx, "carol@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID)
	assert.Equal(t, []int32{1}, accounts.touched)
}

func TestLocal_SignUpValidation(t *testing.T) {
	p, accounts := newTestLocal()
	ctx := context.Background()

	_, err := p.SignUp(ctx, "not-an-email", "longenough")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = p.SignUp(ctx, "dave@example.com", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = p.SignUp(ctx, "dave@example.com", strings.Repeat("x", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrWeakPassword)
	assert.Empty(t, accounts.byEmail)

	_, err = p.SignUp(ctx, "dave@example.com", "longenough")
	require.NoError(t, err)
	_, err = p.SignUp(ctx, "DAVE@example.com", "longenough")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLocal_SignInRejectsBadCredentials(t *testing.T) {
	p, accounts := newTestLocal()
	ctx := context.Background()

	_, err := p.SignUp(ctx, "erin@example.com", "longenough")
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "erin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@example.com", "longenough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, accounts.touched)
}
