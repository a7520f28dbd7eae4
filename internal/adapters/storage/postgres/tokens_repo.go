package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-manager/internal/domain/auth"
)

type TokensRepo struct {
	db *sql.DB
}

func NewTokensRepo(db *sql.DB) *TokensRepo {
	return &TokensRepo{db: db}
}

func (r *TokensRepo) Create(ctx context.Context, t auth.AccessToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO personal_access_tokens (id, user_id, name, token_hash, created_at, last_used_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, t.ID, t.UserID, t.Name, t.TokenHash, t.CreatedAt, t.LastUsedAt)
	return err
}

func (r *TokensRepo) GetByID(ctx context.Context, id string) (auth.AccessToken, error) {
	var (
		t        auth.AccessToken
		lastUsed sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, token_hash, created_at, last_used_at
		FROM personal_access_tokens
		WHERE id = $1
	`, id).Scan(&t.ID, &t.UserID, &t.Name, &t.TokenHash, &t.CreatedAt, &lastUsed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.AccessToken{}, auth.ErrTokenNotFound
		}
		return auth.AccessToken{}, err
	}
	if lastUsed.Valid {
		at := lastUsed.Time
		t.LastUsedAt = &at
	}
	return t, nil
}

func (r *TokensRepo) Touch(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE personal_access_tokens SET last_used_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return auth.ErrTokenNotFound
	}
	return nil
}

func (r *TokensRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personal_access_tokens WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return auth.ErrTokenNotFound
	}
	return nil
}
