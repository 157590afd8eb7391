package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/secret"
)

// LCBRepository provides data access methods for the lcb_form table.
// Answers are stored as a single fernet token.
type LCBRepository struct {
	db  *sql.DB
	box *secret.Box
}

// NewLCBRepository creates a new LCBRepository sealing answers with box.
func NewLCBRepository(db *sql.DB, box *secret.Box) *LCBRepository {
	return &LCBRepository{db: db, box: box}
}

// GetLCB retrieves and decrypts the questionnaire of a customer.
// Returns apperrors.ErrLCBNotFound when the customer never filled it.
func (r *LCBRepository) GetLCB(ctx context.Context, customerID string) (model.LCBForm, error) {
	var payload, updatedAt string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, updated_at FROM lcb_form WHERE customer_id = ?`, customerID,
	).Scan(&payload, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LCBForm{}, apperrors.ErrLCBNotFound
	}
	if err != nil {
		return model.LCBForm{}, fmt.Errorf("failed to query lcb_form: %w", err)
	}

	plain, err := r.box.Open(payload)
	if err != nil {
		return model.LCBForm{}, fmt.Errorf("%w: lcb answers of %s: %w", apperrors.ErrDataInconsistency, customerID, err)
	}

	form := model.LCBForm{CustomerID: customerID}
	if err := json.Unmarshal(plain, &form.Answers); err != nil {
		return model.LCBForm{}, fmt.Errorf("failed to decode lcb answers: %w", err)
	}
	t, err := ParseTime(updatedAt)
	if err != nil {
		return model.LCBForm{}, err
	}
	form.UpdatedAt = &t
	return form, nil
}

// UpsertLCB encrypts and stores the questionnaire of a customer.
func (r *LCBRepository) UpsertLCB(ctx context.Context, customerID string, answers map[string]string, now time.Time) (model.LCBForm, error) {
	if answers == nil {
		answers = map[string]string{}
	}
	plain, err := json.Marshal(answers)
	if err != nil {
		return model.LCBForm{}, fmt.Errorf("failed to encode lcb answers: %w", err)
	}
	token, err := r.box.Seal(plain)
	if err != nil {
		return model.LCBForm{}, err
	}

	now = now.UTC().Truncate(time.Second)
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO lcb_form (customer_id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (customer_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, customerID, token, now.Format(timestampLayout))
	if err != nil {
		return model.LCBForm{}, fmt.Errorf("failed to upsert lcb_form: %w", err)
	}

	return model.LCBForm{CustomerID: customerID, Answers: answers, UpdatedAt: &now}, nil
}
