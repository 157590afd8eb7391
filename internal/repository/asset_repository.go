package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// timestampLayout is the layout of every TEXT timestamp column.
const timestampLayout = time.RFC3339

// AssetRepository provides data access methods for the asset, asset_owner
// and investment tables.
type AssetRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAssetRepository creates a new AssetRepository with the provided database connection.
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// WithTx returns a new AssetRepository scoped to the provided transaction.
func (r *AssetRepository) WithTx(tx *sql.Tx) *AssetRepository {
	return &AssetRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *AssetRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const assetColumns = `
	a.id, a.customer_id, c.first_name, c.last_name, a.asset_group, a.category_name, a.name,
	a.valuation, a.currency, a.under_management, a.metadata, a.created_at
`

func scanAsset(scan func(dest ...any) error) (model.Asset, error) {
	var (
		a         model.Asset
		c         model.Customer
		metadata  string
		createdAt string
	)
	err := scan(
		&a.ID,
		&a.CustomerID,
		&c.FirstName,
		&c.LastName,
		&a.Group,
		&a.CategoryName,
		&a.Name,
		&a.Valuation.Amount,
		&a.Valuation.Currency,
		&a.UnderManagement,
		&metadata,
		&createdAt,
	)
	if err != nil {
		return model.Asset{}, err
	}

	a.CustomerName = c.DisplayName()
	if metadata != "" && metadata != "{}" {
		if err := json.Unmarshal([]byte(metadata), &a.Metadata); err != nil {
			return model.Asset{}, fmt.Errorf("failed to decode metadata of asset %s: %w", a.ID, err)
		}
	}
	if a.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Asset{}, err
	}
	a.Owners = []model.AssetOwner{}
	return a, nil
}

// GetCustomerAssets retrieves every asset of a customer with its owners,
// ordered by creation date. Investments are not loaded.
func (r *AssetRepository) GetCustomerAssets(ctx context.Context, customerID string) ([]model.Asset, error) {
	//#nosec G202 -- Safe: column list is a constant
	query := `
		SELECT ` + assetColumns + `
		FROM asset a
		JOIN customer c ON c.id = a.customer_id
		WHERE a.customer_id = ?
		ORDER BY a.created_at ASC, a.id ASC
	`
	assets, err := r.queryAssets(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	if err := r.attachOwners(ctx, assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// GetAsset retrieves one asset with its owners.
// Returns apperrors.ErrAssetNotFound when it does not exist.
func (r *AssetRepository) GetAsset(ctx context.Context, assetID string) (model.Asset, error) {
	//#nosec G202 -- Safe: column list is a constant
	query := `
		SELECT ` + assetColumns + `
		FROM asset a
		JOIN customer c ON c.id = a.customer_id
		WHERE a.id = ?
	`
	a, err := scanAsset(r.getQuerier().QueryRowContext(ctx, query, assetID).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Asset{}, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return model.Asset{}, fmt.Errorf("failed to query asset: %w", err)
	}

	owners, err := r.GetAssetOwners(ctx, assetID)
	if err != nil {
		return model.Asset{}, err
	}
	a.Owners = owners
	return a, nil
}

func (r *AssetRepository) queryAssets(ctx context.Context, query string, args ...any) ([]model.Asset, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset table: %w", err)
	}
	defer rows.Close()

	assets := []model.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset table results: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset table: %w", err)
	}
	return assets, nil
}

// attachOwners loads the owners of every asset in one query.
func (r *AssetRepository) attachOwners(ctx context.Context, assets []model.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.ID
	}

	byAsset, err := r.getOwners(ctx, ids)
	if err != nil {
		return err
	}
	for i := range assets {
		if owners, ok := byAsset[assets[i].ID]; ok {
			assets[i].Owners = owners
		}
	}
	return nil
}

// GetAssetOwners retrieves the owners of an asset in stored order.
func (r *AssetRepository) GetAssetOwners(ctx context.Context, assetID string) ([]model.AssetOwner, error) {
	byAsset, err := r.getOwners(ctx, []string{assetID})
	if err != nil {
		return nil, err
	}
	if owners, ok := byAsset[assetID]; ok {
		return owners, nil
	}
	return []model.AssetOwner{}, nil
}

func (r *AssetRepository) getOwners(ctx context.Context, assetIDs []string) (map[string][]model.AssetOwner, error) {
	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `
		SELECT ao.asset_id, ao.entity_id, c.first_name, c.last_name, ao.ownership, ao.mode
		FROM asset_owner ao
		JOIN customer c ON c.id = ao.entity_id
		WHERE ao.asset_id IN (` + placeholders(len(assetIDs)) + `)
		ORDER BY ao.asset_id, ao.position ASC
	`
	rows, err := r.getQuerier().QueryContext(ctx, query, stringArgs(assetIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset_owner table: %w", err)
	}
	defer rows.Close()

	byAsset := make(map[string][]model.AssetOwner)
	for rows.Next() {
		var (
			assetID string
			o       model.AssetOwner
			c       model.Customer
			mode    sql.NullString
		)
		if err := rows.Scan(&assetID, &o.EntityID, &c.FirstName, &c.LastName, &o.Ownership, &mode); err != nil {
			return nil, fmt.Errorf("failed to scan asset_owner table results: %w", err)
		}
		o.EntityName = c.DisplayName()
		if mode.Valid {
			m := model.OwnershipMode(mode.String)
			o.Mode = &m
		}
		byAsset[assetID] = append(byAsset[assetID], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset_owner table: %w", err)
	}
	return byAsset, nil
}

// ReplaceAssetOwners deletes the owner list of an asset and inserts owners in
// their given order. Run it on a repository scoped to a transaction so a
// failure leaves the previous list in place.
func (r *AssetRepository) ReplaceAssetOwners(ctx context.Context, assetID string, owners []model.AssetOwner) error {
	q := r.getQuerier()
	if _, err := q.ExecContext(ctx, `DELETE FROM asset_owner WHERE asset_id = ?`, assetID); err != nil {
		return fmt.Errorf("failed to clear asset owners: %w", err)
	}

	for i, o := range owners {
		var mode any
		if o.Mode != nil {
			mode = string(*o.Mode)
		}
		_, err := q.ExecContext(ctx, `
			INSERT INTO asset_owner (asset_id, entity_id, ownership, mode, position)
			VALUES (?, ?, ?, ?, ?)
		`, assetID, o.EntityID, o.Ownership, mode, i)
		if err != nil {
			return fmt.Errorf("failed to insert asset owner %s: %w", o.EntityID, err)
		}
	}
	return nil
}

// DeleteAsset deletes an asset; owners and investments cascade.
// Returns apperrors.ErrAssetNotFound when nothing was deleted.
func (r *AssetRepository) DeleteAsset(ctx context.Context, assetID string) error {
	res, err := r.getQuerier().ExecContext(ctx, `DELETE FROM asset WHERE id = ?`, assetID)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.ErrAssetNotFound
	}
	return nil
}

// GetPerformance returns the stored top-level performance of an asset, or
// nil when none is stored.
func (r *AssetRepository) GetPerformance(ctx context.Context, assetID string) (*model.Performance, error) {
	var gain, evolution sql.NullFloat64
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT gain, evolution_percent FROM asset WHERE id = ?`, assetID,
	).Scan(&gain, &evolution)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrAssetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query asset performance: %w", err)
	}
	if !gain.Valid {
		return nil, nil
	}
	return &model.Performance{Gain: gain.Float64, EvolutionPercent: evolution.Float64}, nil
}

// GetInvestments retrieves the sub-positions of the given assets, grouped by
// asset ID and ordered by name.
func (r *AssetRepository) GetInvestments(ctx context.Context, assetIDs []string) (map[string][]model.Investment, error) {
	out := make(map[string][]model.Investment)
	if len(assetIDs) == 0 {
		return out, nil
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `
		SELECT id, asset_id, name, code, category, quantity, unit_price, unit_value, valuation, sri, last_valuation_date
		FROM investment
		WHERE asset_id IN (` + placeholders(len(assetIDs)) + `)
		ORDER BY asset_id, name ASC, id ASC
	`
	rows, err := r.getQuerier().QueryContext(ctx, query, stringArgs(assetIDs)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			inv  model.Investment
			date sql.NullString
		)
		err := rows.Scan(
			&inv.ID,
			&inv.AssetID,
			&inv.Name,
			&inv.Code,
			&inv.Category,
			&inv.Quantity,
			&inv.UnitPrice,
			&inv.UnitValue,
			&inv.Valuation,
			&inv.SRI,
			&date,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment table results: %w", err)
		}
		if date.Valid && date.String != "" {
			if inv.LastValuationDate, err = ParseTime(date.String); err != nil {
				return nil, err
			}
		}
		out[inv.AssetID] = append(out[inv.AssetID], inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment table: %w", err)
	}
	return out, nil
}

// SearchAssets retrieves the assets matching the search window, with owners
// and investments. Text matches the asset name, the customer name and the
// name or code of an investment, case-insensitively.
func (r *AssetRepository) SearchAssets(ctx context.Context, search model.AssetSearch) ([]model.Asset, error) {
	//#nosec G202 -- Safe: column list is a constant and conditions use placeholders
	query := `
		SELECT ` + assetColumns + `
		FROM asset a
		JOIN customer c ON c.id = a.customer_id
		WHERE 1=1
	`
	var args []any

	if search.CustomerID != "" {
		query += " AND a.customer_id = ?"
		args = append(args, search.CustomerID)
	}
	if text := strings.TrimSpace(search.Text); text != "" {
		like := "%" + text + "%"
		query += ` AND (
			a.name LIKE ? OR c.first_name LIKE ? OR c.last_name LIKE ?
			OR EXISTS (SELECT 1 FROM investment i WHERE i.asset_id = a.id AND (i.name LIKE ? OR i.code LIKE ?))
		)`
		args = append(args, like, like, like, like, like)
	}
	if search.From != nil {
		query += " AND a.created_at >= ?"
		args = append(args, search.From.UTC().Format(timestampLayout))
	}
	if search.To != nil {
		query += " AND a.created_at <= ?"
		args = append(args, search.To.UTC().Format(timestampLayout))
	}
	if search.MinAmount != nil {
		query += " AND a.valuation >= ?"
		args = append(args, *search.MinAmount)
	}
	if search.MaxAmount != nil {
		query += " AND a.valuation <= ?"
		args = append(args, *search.MaxAmount)
	}
	query += " ORDER BY a.created_at ASC, a.id ASC"

	assets, err := r.queryAssets(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.attachOwners(ctx, assets); err != nil {
		return nil, err
	}

	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.ID
	}
	investments, err := r.GetInvestments(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range assets {
		assets[i].Investments = investments[assets[i].ID]
	}
	return assets, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func stringArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
