package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CustomerRepository provides data access methods for the customer,
// customer_relation and manager tables.
type CustomerRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewCustomerRepository creates a new CustomerRepository with the provided database connection.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// WithTx returns a new CustomerRepository scoped to the provided transaction.
func (r *CustomerRepository) WithTx(tx *sql.Tx) *CustomerRepository {
	return &CustomerRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *CustomerRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetCustomer retrieves a customer of a company.
// Returns apperrors.ErrCustomerNotFound when the customer does not exist or
// belongs to another company.
func (r *CustomerRepository) GetCustomer(ctx context.Context, companyID, customerID string) (model.Customer, error) {
	query := `
		SELECT id, company_id, first_name, last_name, COALESCE(email, ''), portal_access
		FROM customer
		WHERE id = ? AND company_id = ?
	`
	var c model.Customer
	err := r.getQuerier().QueryRowContext(ctx, query, customerID, companyID).Scan(
		&c.ID,
		&c.CompanyID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.PortalAccess,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Customer{}, apperrors.ErrCustomerNotFound
	}
	if err != nil {
		return model.Customer{}, fmt.Errorf("failed to query customer: %w", err)
	}
	return c, nil
}

// GetCustomerByID retrieves a customer regardless of its company.
func (r *CustomerRepository) GetCustomerByID(ctx context.Context, customerID string) (model.Customer, error) {
	var companyID string
	err := r.getQuerier().QueryRowContext(ctx, `SELECT company_id FROM customer WHERE id = ?`, customerID).Scan(&companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Customer{}, apperrors.ErrCustomerNotFound
	}
	if err != nil {
		return model.Customer{}, fmt.Errorf("failed to query customer: %w", err)
	}
	return r.GetCustomer(ctx, companyID, customerID)
}

// GetRelatedEntities returns the entities eligible to hold a share of the
// customer's assets: the customer itself first, then its related customers
// in relation order.
func (r *CustomerRepository) GetRelatedEntities(ctx context.Context, customerID string) ([]model.RelatedEntity, error) {
	query := `
		SELECT c.id, c.first_name, c.last_name, 'self' AS relation, -1 AS position
		FROM customer c
		WHERE c.id = ?
		UNION ALL
		SELECT c.id, c.first_name, c.last_name, cr.relation, cr.position
		FROM customer_relation cr
		JOIN customer c ON c.id = cr.related_id
		WHERE cr.customer_id = ?
		ORDER BY position ASC
	`
	rows, err := r.getQuerier().QueryContext(ctx, query, customerID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query related entities: %w", err)
	}
	defer rows.Close()

	entities := []model.RelatedEntity{}
	for rows.Next() {
		var (
			c        model.Customer
			e        model.RelatedEntity
			position int
		)
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &e.Relation, &position); err != nil {
			return nil, fmt.Errorf("failed to scan related entity: %w", err)
		}
		e.ID = c.ID
		e.Name = c.DisplayName()
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating related entities: %w", err)
	}
	return entities, nil
}

// UpdateCustomer updates the identity fields of a customer.
//
// Business rules are reported with their backend codes:
//   - KindEmailUpdateForbidden when the email changes on a customer with portal access
//   - KindEmailExists when another customer already uses the email
func (r *CustomerRepository) UpdateCustomer(ctx context.Context, companyID, customerID string, upd model.CustomerUpdate) (model.Customer, error) {
	current, err := r.GetCustomer(ctx, companyID, customerID)
	if err != nil {
		return model.Customer{}, err
	}

	email := strings.TrimSpace(upd.Email)
	if !strings.EqualFold(email, current.Email) {
		if current.PortalAccess {
			return model.Customer{}, apperrors.NewBackendError(apperrors.KindEmailUpdateForbidden, "customer has portal access")
		}

		var otherID string
		err := r.getQuerier().QueryRowContext(ctx,
			`SELECT id FROM customer WHERE email = ? COLLATE NOCASE AND id != ?`, email, customerID,
		).Scan(&otherID)
		if err == nil {
			return model.Customer{}, apperrors.NewBackendError(apperrors.KindEmailExists, email)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return model.Customer{}, fmt.Errorf("failed to check customer email: %w", err)
		}
	}

	var emailArg any = email
	if email == "" {
		emailArg = nil
	}

	_, err = r.getQuerier().ExecContext(ctx, `
		UPDATE customer
		SET first_name = ?, last_name = ?, email = ?
		WHERE id = ? AND company_id = ?
	`, upd.FirstName, upd.LastName, emailArg, customerID, companyID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return model.Customer{}, apperrors.NewBackendError(apperrors.KindEmailExists, email)
		}
		return model.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}

	current.FirstName = upd.FirstName
	current.LastName = upd.LastName
	current.Email = email
	return current, nil
}

// GetSessionByToken resolves a manager API token into a session.
// Returns apperrors.ErrUnauthenticated for unknown tokens.
func (r *CustomerRepository) GetSessionByToken(ctx context.Context, token string) (model.Session, error) {
	var (
		s        model.Session
		disabled string
	)
	err := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, email, disabled_features FROM manager WHERE api_token = ?`, token,
	).Scan(&s.ManagerID, &s.Email, &disabled)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, apperrors.ErrUnauthenticated
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to query manager: %w", err)
	}

	s.DisabledFeatures = []string{}
	for _, f := range strings.Split(disabled, ",") {
		if f = strings.TrimSpace(f); f != "" {
			s.DisabledFeatures = append(s.DisabledFeatures, f)
		}
	}
	return s, nil
}
