package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type ConfigDB struct {
	Host    string
	Port    string
	User    string
	Name    string
	SSLMode string
}

// dbPassword reads the password from the environment, falling back to a
// prompt when stdin is a terminal.
func dbPassword() (string, error) {
	if pass := os.Getenv("TRANSLATEME_DB_PASSWORD"); pass != "" {
		return pass, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("missing env variable: TRANSLATEME_DB_PASSWORD")
	}
	fmt.Fprint(os.Stderr, "Database password: ")
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pass), nil
}

func (c ConfigDB) connString(pass string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, pass),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

func dbConnect(ctx context.Context, config ConfigDB) (*pgxpool.Pool, error) {
	pass, err := dbPassword()
	if err != nil {
		return nil, err
	}

	conn, err := pgxpool.New(ctx, config.connString(pass))
	if err != nil {
		return nil, fmt.Errorf("connecting to %s:%s: %w", config.Host, config.Port, err)
	}
	return conn, nil
}

// dbSetup connects and migrates up.
func dbSetup(ctx context.Context, config ConfigDB, logger *zap.Logger) (*pgxpool.Pool, error) {
	conn, err := dbConnect(ctx, config)
	if err != nil {
		return nil, err
	}

	n, err := dbMigrate(ctx, conn, migrate.Up, logger)
	if err != nil {
		conn.Close()
		return nil, err
	}
	logger.Info("database ready", zap.Int("migrations", n))

	return conn, nil
}

func dbMigrate(ctx context.Context, conn *pgxpool.Pool, direction migrate.MigrationDirection, logger *zap.Logger) (int, error) {
	migrations := migrate.EmbedFileSystemMigrationSource{
		FileSystem: DBMigrations,
		Root:       "migrations",
	}

	sqlDB := stdlib.OpenDBFromPool(conn)
	defer sqlDB.Close()

	for {
		n, err := migrate.ExecContext(ctx, sqlDB, "postgres", migrations, direction)
		if err == nil {
			return n, nil
		}
		if !strings.Contains(err.Error(), "SQLSTATE 57P03") {
			return 0, fmt.Errorf("migrating: %w", err)
		}
		logger.Info("db is starting up...")
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Second):
		}
	}
}
