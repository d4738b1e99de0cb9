package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

var errAccountNotFound = errors.New("account not found")

// pgUniqueViolation is SQLSTATE unique_violation.
const pgUniqueViolation = "23505"

type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Account struct {
	ID           int32
	Email        string
	PasswordHash string
	DisplayName  string
	LastLogin    pgtype.Timestamptz
}

// AccountStore is what LocalProvider needs from the database.
type AccountStore interface {
	CreateAccount(ctx context.Context, email, passwordHash string) (Account, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	TouchLastLogin(ctx context.Context, id int32) error
}

type AccountQueries struct {
	db DBTX
}

func NewAccountQueries(db DBTX) *AccountQueries {
	return &AccountQueries{db: db}
}

const createAccount = `
INSERT INTO account (email, password_hash)
VALUES ($1, $2)
RETURNING id, email, password_hash, display_name, last_login
`

func (q *AccountQueries) CreateAccount(ctx context.Context, email, passwordHash string) (Account, error) {
	var a Account
	err := q.db.QueryRow(ctx, createAccount, email, passwordHash).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.DisplayName,
		&a.LastLogin,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return Account{}, fmt.Errorf("%w: '%s'", ErrEmailTaken, email)
		}
		return Account{}, fmt.Errorf("creating account: %w", err)
	}
	return a, nil
}

const getAccountByEmail = `
SELECT id, email, password_hash, display_name, last_login
FROM account
WHERE email = $1
`

func (q *AccountQueries) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	var a Account
	err := q.db.QueryRow(ctx, getAccountByEmail, email).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.DisplayName,
		&a.LastLogin,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, errAccountNotFound
	}
	if err != nil {
		return Account{}, fmt.Errorf("reading account: %w", err)
	}
	return a, nil
}

const touchLastLogin = `
UPDATE account SET last_login = NOW() WHERE id = $1
`

func (q *AccountQueries) TouchLastLogin(ctx context.Context, id int32) error {
	_, err := q.db.Exec(ctx, touchLastLogin, id)
	return err
}
