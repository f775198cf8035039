package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/plenno/plenno/internal/domain"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// TenantRepository implements domain.TenantRepository using SQLite.
type TenantRepository struct {
	db *sql.DB
}

// New opens a SQLite database, runs migrations, and returns a ready repository.
func New(dataSourceName string) (*TenantRepository, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys (off by default in SQLite).
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready repository.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*TenantRepository, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &TenantRepository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *TenantRepository) Close() error {
	return r.db.Close()
}

// DB returns the underlying database connection for use by other adapters
// (river, the catalogs, the ledger).
func (r *TenantRepository) DB() *sql.DB {
	return r.db
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

const timeFormat = "2006-01-02T15:04:05Z"

const tenantColumns = `id, legal_name, trade_name, tax_id, plan_id, status, pending_reason,
	 email, phone, admin_name, admin_email,
	 addr_street, addr_city, addr_state, addr_postal_code,
	 created_at, updated_at`

func (r *TenantRepository) Create(ctx context.Context, t domain.Tenant) error {
	var street, city, state, postal sql.NullString
	if t.Address != nil {
		street = sql.NullString{String: t.Address.Street, Valid: true}
		city = sql.NullString{String: t.Address.City, Valid: true}
		state = sql.NullString{String: t.Address.State, Valid: true}
		postal = sql.NullString{String: t.Address.PostalCode, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tenants (`+tenantColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.LegalName, t.TradeName, t.TaxID, t.PlanID,
		string(t.Status), string(t.PendingReason),
		t.Email, t.Phone, t.AdminName, t.AdminEmail,
		street, city, state, postal,
		t.CreatedAt.Format(timeFormat),
		t.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		if isTaxIDUniqueViolation(err) {
			return r.duplicateError(ctx, t.TaxID)
		}
		return fmt.Errorf("inserting tenant: %w", err)
	}
	return nil
}

// duplicateError builds the DuplicateTenantError for a unique violation,
// looking up the conflicting row so callers can disambiguate.
func (r *TenantRepository) duplicateError(ctx context.Context, taxID string) error {
	existing, err := r.FindByTaxID(ctx, taxID)
	if err != nil {
		// The conflicting row exists but could not be read; report the
		// duplicate with what we know.
		return &domain.DuplicateTenantError{TaxID: taxID}
	}
	return &domain.DuplicateTenantError{
		TenantID:  existing.ID,
		LegalName: existing.LegalName,
		TaxID:     taxID,
	}
}

func (r *TenantRepository) GetByID(ctx context.Context, id string) (domain.Tenant, error) {
	return r.scanTenant(r.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, id,
	))
}

func (r *TenantRepository) FindByTaxID(ctx context.Context, taxID string) (domain.Tenant, error) {
	return r.scanTenant(r.db.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE tax_id = ? LIMIT 1`, taxID,
	))
}

func (r *TenantRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants`
	var args []any

	if filter.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*filter.Status))
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		// SQLite rejects OFFSET without LIMIT; -1 means no limit.
		query += ` LIMIT -1`
	}

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tenants: %w", err)
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		t, err := scanTenantRow(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}

	return tenants, rows.Err()
}

func (r *TenantRepository) Update(ctx context.Context, t domain.Tenant) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tenants SET legal_name = ?, trade_name = ?, plan_id = ?,
		 status = ?, pending_reason = ?, email = ?, phone = ?,
		 admin_name = ?, admin_email = ?, updated_at = ?
		 WHERE id = ?`,
		t.LegalName, t.TradeName, t.PlanID,
		string(t.Status), string(t.PendingReason), t.Email, t.Phone,
		t.AdminName, t.AdminEmail,
		time.Now().UTC().Format(timeFormat), t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating tenant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrTenantNotFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TenantRepository) scanTenant(row *sql.Row) (domain.Tenant, error) {
	t, err := scanTenantRow(row)
	if err == sql.ErrNoRows {
		return domain.Tenant{}, domain.ErrTenantNotFound
	}
	return t, err
}

func scanTenantRow(row rowScanner) (domain.Tenant, error) {
	var t domain.Tenant
	var status, pendingReason, createdAt, updatedAt string
	var street, city, state, postal sql.NullString

	err := row.Scan(
		&t.ID, &t.LegalName, &t.TradeName, &t.TaxID, &t.PlanID,
		&status, &pendingReason,
		&t.Email, &t.Phone, &t.AdminName, &t.AdminEmail,
		&street, &city, &state, &postal,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Tenant{}, err
		}
		return domain.Tenant{}, fmt.Errorf("scanning tenant: %w", err)
	}

	t.Status = domain.Status(status)
	t.PendingReason = domain.PendingReason(pendingReason)
	if street.Valid || city.Valid || state.Valid || postal.Valid {
		t.Address = &domain.Address{
			Street:     street.String,
			City:       city.String,
			State:      state.String,
			PostalCode: postal.String,
		}
	}
	t.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	t.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return t, nil
}

// isTaxIDUniqueViolation checks if a SQLite error is a UNIQUE constraint
// violation on the tax-ID column specifically.
func isTaxIDUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, "tenants.tax_id")
}
