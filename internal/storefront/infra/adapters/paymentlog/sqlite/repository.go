// Package sqlite is the SQLite-backed paymentlog.Store.
//
// WAL mode is enabled on Open so the debug endpoint can read while
// submissions are being written.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/storefront/internal/storefront/infra/adapters/paymentlog"
)

const schema = `
CREATE TABLE IF NOT EXISTS payment_attempts (
    id          TEXT PRIMARY KEY,
    order_code  TEXT NOT NULL,
    selection   TEXT NOT NULL,
    -- Shop payment method code; empty when nothing was sent (card widget).
    method      TEXT NOT NULL DEFAULT '',
    outcome     TEXT NOT NULL,
    error_code  TEXT NOT NULL DEFAULT '',
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_payment_attempts_order ON payment_attempts(order_code, created_at);
CREATE INDEX IF NOT EXISTS idx_payment_attempts_trace ON payment_attempts(trace_id);
`

// Ensure Repository implements the store at compile time.
var _ paymentlog.Store = (*Repository)(nil)

type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/payments.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	// Single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts one attempt. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, a *ports.PaymentAttempt) error {
	const q = `
		INSERT INTO payment_attempts
			(id, order_code, selection, method, outcome, error_code, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		a.ID,
		a.OrderCode,
		string(a.Selection),
		a.Method,
		string(a.Outcome),
		string(a.ErrorCode),
		a.TraceID,
		a.SpanID,
		formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save payment attempt for %q: %w", a.OrderCode, err)
	}
	return nil
}

const selectColumns = `
	SELECT id, order_code, selection, method, outcome, error_code, trace_id, span_id, created_at
	FROM   payment_attempts`

// Latest returns the most recent attempt for an order.
func (r *Repository) Latest(ctx context.Context, orderCode string) (*ports.PaymentAttempt, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+`
	WHERE  order_code = ?
	ORDER  BY created_at DESC, rowid DESC
	LIMIT  1`, orderCode)

	a, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: order %q", paymentlog.ErrNotFound, orderCode)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: latest for %q: %w", orderCode, err)
	}
	return a, nil
}

// ListByOrder returns every attempt for an order, oldest first.
func (r *Repository) ListByOrder(ctx context.Context, orderCode string) ([]ports.PaymentAttempt, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+`
	WHERE  order_code = ?
	ORDER  BY created_at, rowid`, orderCode)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list for %q: %w", orderCode, err)
	}
	defer rows.Close()

	var out []ports.PaymentAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list for %q: %w", orderCode, err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(s scanner) (*ports.PaymentAttempt, error) {
	var (
		a                                   ports.PaymentAttempt
		selection, outcome, code, createdAt string
	)
	if err := s.Scan(&a.ID, &a.OrderCode, &selection, &a.Method, &outcome, &code, &a.TraceID, &a.SpanID, &createdAt); err != nil {
		return nil, err
	}
	a.Selection = entity.Selection(selection)
	a.Outcome = entity.OutcomeKind(outcome)
	a.ErrorCode = entity.ErrorCode(code)

	var err error
	if a.CreatedAt, err = parseRFC3339(createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}
