package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plenno/plenno/internal/domain"
)

// Ledger implements domain.FinancialLedger over the financial_titles
// table. The orchestrator never mutates a title after creating it;
// downstream billing owns the lifecycle.
type Ledger struct {
	db *sql.DB
}

// NewLedger wraps a connection that has already been migrated.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

const dateFormat = "2006-01-02"

// CreateProRataTitle records the prorated first invoice. The monetary
// value is rounded to two decimals here, at the point of persistence.
func (l *Ledger) CreateProRataTitle(ctx context.Context, tenantID string, dueDate time.Time, value float64) (domain.FinancialTitle, error) {
	title := domain.FinancialTitle{
		ID:             uuid.NewString(),
		TenantID:       tenantID,
		Type:           domain.TitleProRata,
		Value:          domain.RoundMoney(value),
		DueDate:        dueDate,
		Status:         domain.TitlePending,
		ReferenceMonth: dueDate.Format("2006-01"),
		CreatedAt:      time.Now().UTC(),
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO financial_titles (id, tenant_id, type, value, due_date, status, reference_month, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		title.ID, title.TenantID, string(title.Type), title.Value,
		title.DueDate.Format(dateFormat), string(title.Status),
		title.ReferenceMonth, title.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		return domain.FinancialTitle{}, fmt.Errorf("inserting financial title: %w", err)
	}

	return title, nil
}

// ListByTenant returns all titles recorded for a tenant, newest first.
func (l *Ledger) ListByTenant(ctx context.Context, tenantID string) ([]domain.FinancialTitle, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, tenant_id, type, value, due_date, status, reference_month, created_at
		 FROM financial_titles WHERE tenant_id = ? ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing financial titles: %w", err)
	}
	defer rows.Close()

	var titles []domain.FinancialTitle
	for rows.Next() {
		var t domain.FinancialTitle
		var titleType, dueDate, status, createdAt string

		if err := rows.Scan(&t.ID, &t.TenantID, &titleType, &t.Value, &dueDate, &status, &t.ReferenceMonth, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning financial title: %w", err)
		}

		t.Type = domain.TitleType(titleType)
		t.Status = domain.TitleStatus(status)
		t.DueDate, _ = time.Parse(dateFormat, dueDate)
		t.CreatedAt, _ = time.Parse(timeFormat, createdAt)
		titles = append(titles, t)
	}

	return titles, rows.Err()
}
