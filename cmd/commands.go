package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/translateme/translateme/identity"
	"github.com/translateme/translateme/translation"
)

func newTranslateCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate English text once and print the result",
		Long: `Translate English text once and print the result.

The text is taken from the arguments, or from stdin when none are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, _, err := setup(false)
			if err != nil {
				return err
			}

			lang, err := translation.ParseLanguage(target)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				text = string(raw)
			}

			client := translation.New(config.Translation, nil)
			translated, err := client.Translate(cmd.Context(), text, lang.Code)
			if err != nil {
				return err
			}
			if translated != "" {
				fmt.Fprintln(cmd.OutOrStdout(), translated)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "to", translation.DefaultLanguage.Code, "Target language (es, fr or ko)")

	return cmd
}

func newMigrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the local identity provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup(false)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if !down {
				conn, err := dbSetup(cmd.Context(), config.DB, logger)
				if err != nil {
					return err
				}
				conn.Close()
				return nil
			}

			conn, err := dbConnect(cmd.Context(), config.DB)
			if err != nil {
				return err
			}
			defer conn.Close()
			n, err := dbMigrate(cmd.Context(), conn, migrate.Down, logger)
			if err != nil {
				return err
			}
			logger.Info("rolled back", zap.Int("migrations", n))
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Roll back all migrations")

	return cmd
}

func newUseraddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "useradd <email>",
		Short: "Create a local account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup(false)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			password, err := promptNewPassword(cmd)
			if err != nil {
				return err
			}

			conn, err := dbSetup(cmd.Context(), config.DB, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			provider := identity.NewLocalProvider(identity.NewAccountQueries(conn), logger)
			user, err := provider.SignUp(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created account %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
}

// promptNewPassword asks twice on a terminal, or reads one line otherwise.
func promptNewPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprint(errOut, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(errOut)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	fmt.Fprint(errOut, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(errOut)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
