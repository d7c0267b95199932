package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data/database"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data/pgxutil"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
)

// MessageRepo provides database operations for contact messages.
type MessageRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewMessageRepo creates a new MessageRepo with real time provider.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewMessageRepoWithTimeProvider creates a new MessageRepo with a custom time provider (useful for tests).
func NewMessageRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *MessageRepo {
	return &MessageRepo{DB: db, timeProvider: tp}
}

// Create inserts a new contact message.
func (r *MessageRepo) Create(ctx context.Context, req *model.CreateMessageRequest) (*model.Message, error) {
	if req == nil {
		return nil, errors.New("create message request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Message
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO messages (
				application_id, name, email, subject, body, handled, created_at
			) VALUES (
				$1, $2, $3, $4, $5, FALSE, $6
			) RETURNING `+messageColumnList,
			req.ApplicationID,
			req.Name,
			req.Email,
			req.Subject,
			req.Body,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Message])
		return err
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a message by ID.
func (r *MessageRepo) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var msg model.Message
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, messageGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		msg, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Message])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message by ID: %w", err)
	}
	return &msg, nil
}

// List retrieves messages with pagination, optionally unhandled only, newest first.
func (r *MessageRepo) List(ctx context.Context, unhandledOnly bool, limit, offset int) ([]*model.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	queryOpts := []database.ListQueryOption{
		database.WithLimit(limit),
		database.WithOffset(offset),
		database.WithOrderBy("created_at", "DESC"),
	}
	if unhandledOnly {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("handled", database.Equal, false),
		))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("messages", queryOpts...))

	var rowsOut []model.Message
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Message])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	res := make([]*model.Message, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// MarkHandled flips the handled flag on a message.
func (r *MessageRepo) MarkHandled(ctx context.Context, id string, handled bool) (*model.Message, error) {
	var out model.Message
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE messages SET handled = $1, updated_at = $2
			WHERE id = $3
			RETURNING `+messageColumnList,
			handled,
			r.timeProvider.Now().UTC(),
			id,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Message])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to mark message handled: %w", err)
	}
	return &out, nil
}

// Delete deletes a message by ID.
func (r *MessageRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete message: %w", err)
	}
	return rows > 0, nil
}

const (
	messageColumnList = `id, application_id, name, email, subject, body, handled, created_at, updated_at`

	messageGetByIDQuery = `
		SELECT ` + messageColumnList + `
		FROM messages
		WHERE id = $1`
)
