package store

import (
	"context"
	"database/sql"
	"errors"
)

// Fixed keys mirroring the platform's web client, which stores the same
// two values in browser local storage.
const (
	keyToken    = "token"
	keyAuthUser = "authUser"
)

// ErrNoCredentials is returned when no stored login exists.
var ErrNoCredentials = errors.New("no stored credentials")

// CredentialRepo persists the bearer token and serialized user identity.
// The two values are always written and cleared together.
type CredentialRepo interface {
	// Save stores the token and serialized user, replacing any previous login.
	Save(ctx context.Context, token, userJSON string) error

	// Load returns the stored token and user, or ErrNoCredentials.
	Load(ctx context.Context) (token, userJSON string, err error)

	// Clear removes both values. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}

type credentialRepo struct {
	db *sql.DB
}

func (r *credentialRepo) Save(ctx context.Context, token, userJSON string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsert, keyToken, token); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, upsert, keyAuthUser, userJSON); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *credentialRepo) Load(ctx context.Context) (string, string, error) {
	token, err := r.value(ctx, keyToken)
	if err != nil {
		return "", "", err
	}
	userJSON, err := r.value(ctx, keyAuthUser)
	if err != nil {
		return "", "", err
	}
	return token, userJSON, nil
}

func (r *credentialRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM credentials WHERE key IN (?, ?)`, keyToken, keyAuthUser)
	return err
}

func (r *credentialRepo) value(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoCredentials
	}
	if err != nil {
		return "", err
	}
	return v, nil
}
