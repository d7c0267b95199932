package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data/pgxutil"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
)

// PaymentRepo provides database operations for application payments.
type PaymentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPaymentRepo creates a new PaymentRepo with real time provider.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewPaymentRepoWithTimeProvider creates a new PaymentRepo with a custom time provider (useful for tests).
func NewPaymentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *PaymentRepo {
	return &PaymentRepo{DB: db, timeProvider: tp}
}

// Create inserts a new payment in status "pending".
func (r *PaymentRepo) Create(ctx context.Context, req *model.CreatePaymentRequest) (*model.Payment, error) {
	if req == nil {
		return nil, errors.New("create payment request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Payment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO payments (
				application_id, amount_cents, currency, purpose, status, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6
			) RETURNING `+paymentColumnList,
			req.ApplicationID,
			req.AmountCents,
			req.Currency,
			strings.TrimSpace(req.Purpose),
			model.PaymentStatusPending,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Payment])
		return err
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	var payment model.Payment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, paymentGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		payment, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Payment])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by ID: %w", err)
	}
	return &payment, nil
}

// ListByApplication retrieves all payments belonging to an application, newest first.
func (r *PaymentRepo) ListByApplication(ctx context.Context, applicationID string) ([]*model.Payment, error) {
	var rowsOut []model.Payment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, paymentListByApplicationQuery, applicationID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Payment])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	res := make([]*model.Payment, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a payment. Transitioning Status to "paid" stamps paid_at.
func (r *PaymentRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdatePaymentRequest,
) (*model.Payment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Payment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, paymentGetByIDQuery, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Payment])
			return e
		}
		args = append(args, id)
		query := "UPDATE payments SET " + setClause + " WHERE id = $" + strconv.Itoa(
			len(args),
		) + " RETURNING " + paymentColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Payment])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a payment.
func (r *PaymentRepo) buildUpdateClause(req model.UpdatePaymentRequest) (string, []any) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if req.AmountCents != nil {
		setParts = append(setParts, fmt.Sprintf("amount_cents = $%d", nextIdx()))
		args = append(args, *req.AmountCents)
	}
	if req.Currency != nil {
		setParts = append(setParts, fmt.Sprintf("currency = $%d", nextIdx()))
		args = append(args, strings.ToUpper(strings.TrimSpace(*req.Currency)))
	}
	if req.Purpose != nil {
		setParts = append(setParts, fmt.Sprintf("purpose = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Purpose))
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
		if *req.Status == model.PaymentStatusPaid {
			setParts = append(setParts, fmt.Sprintf("paid_at = $%d", nextIdx()))
			args = append(args, r.timeProvider.Now().UTC())
		}
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes a payment by ID.
func (r *PaymentRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete payment: %w", err)
	}
	return rows > 0, nil
}

const (
	paymentColumnList = `id, application_id, amount_cents, currency, purpose, status, paid_at, created_at, updated_at`

	paymentGetByIDQuery = `
		SELECT ` + paymentColumnList + `
		FROM payments
		WHERE id = $1`

	paymentListByApplicationQuery = `
		SELECT ` + paymentColumnList + `
		FROM payments
		WHERE application_id = $1
		ORDER BY created_at DESC`
)
