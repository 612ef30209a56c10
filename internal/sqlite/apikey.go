package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/worklog/internal/repository"
)

// APIKeyRepository stores hashed bearer tokens and the owners they map to.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Add registers token for ownerID. Only the hash is stored.
func (r *APIKeyRepository) Add(ctx context.Context, ownerID, token, description string) error {
	if ownerID == "" || token == "" {
		return repository.ErrInvalidInput
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, owner_id, created_at, description) VALUES (?, ?, ?, ?)`,
		hashToken(token), ownerID, formatTime(time.Now()), description)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return storeErr("failed to add api key", err)
	}
	return nil
}

// ResolveOwner maps a bearer token to its owner and records the use.
func (r *APIKeyRepository) ResolveOwner(ctx context.Context, token string) (string, error) {
	hash := hashToken(token)

	var ownerID string
	err := r.db.QueryRowContext(ctx, `SELECT owner_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && ownerID == "") {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", storeErr("failed to resolve api key", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, formatTime(time.Now()), hash); err != nil {
		return "", fmt.Errorf("failed to record api key use: %w", err)
	}
	return ownerID, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
