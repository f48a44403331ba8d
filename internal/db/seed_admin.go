package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leavehub/leavehub/internal/config"
	"github.com/leavehub/leavehub/internal/domain/user"
	"github.com/leavehub/leavehub/internal/security"
)

// EnsureAdminUser seeds the one Admin account on first boot. Idempotent:
// if a user with the configured email exists, nothing is written.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var dummy int64

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		`,
		cfg.AdminName, cfg.AdminEmail, hash, user.RoleAdmin,
	)

	return err
}
