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

// OptionRepo provides database operations for checklist options.
type OptionRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewOptionRepo creates a new OptionRepo with real time provider.
func NewOptionRepo(db *sql.DB) *OptionRepo {
	return &OptionRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewOptionRepoWithTimeProvider creates a new OptionRepo with a custom time provider (useful for tests).
func NewOptionRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *OptionRepo {
	return &OptionRepo{DB: db, timeProvider: tp}
}

// Create inserts a new checklist option.
func (r *OptionRepo) Create(ctx context.Context, req *model.CreateChecklistOptionRequest) (*model.ChecklistOption, error) {
	if req == nil {
		return nil, errors.New("create checklist option request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Default active to true if not specified (matches DB default)
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	var out model.ChecklistOption
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO checklist_options (
				label, category, sort_order, active, created_at
			) VALUES (
				$1, $2, $3, $4, $5
			) RETURNING `+optionColumnList,
			strings.TrimSpace(req.Label),
			strings.TrimSpace(req.Category),
			req.SortOrder,
			active,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ChecklistOption])
		return err
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a checklist option by ID.
func (r *OptionRepo) GetByID(ctx context.Context, id string) (*model.ChecklistOption, error) {
	var opt model.ChecklistOption
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, optionGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		opt, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ChecklistOption])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOptionNotFound
		}
		return nil, fmt.Errorf("failed to get checklist option by ID: %w", err)
	}
	return &opt, nil
}

// List retrieves checklist options, optionally restricted to active ones,
// ordered by category then sort_order.
func (r *OptionRepo) List(ctx context.Context, activeOnly bool) ([]*model.ChecklistOption, error) {
	query := optionListQuery
	if activeOnly {
		query = optionListActiveQuery
	}

	var rowsOut []model.ChecklistOption
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ChecklistOption])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list checklist options: %w", err)
	}

	res := make([]*model.ChecklistOption, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a checklist option. Nil request fields are unchanged.
func (r *OptionRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateChecklistOptionRequest,
) (*model.ChecklistOption, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.ChecklistOption
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, optionGetByIDQuery, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ChecklistOption])
			return e
		}
		args = append(args, id)
		query := "UPDATE checklist_options SET " + setClause + " WHERE id = $" + strconv.Itoa(
			len(args),
		) + " RETURNING " + optionColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ChecklistOption])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOptionNotFound
		}
		return nil, err
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a checklist option.
func (r *OptionRepo) buildUpdateClause(req model.UpdateChecklistOptionRequest) (string, []any) {
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Label != nil {
		setParts = append(setParts, fmt.Sprintf("label = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Label))
	}
	if req.Category != nil {
		setParts = append(setParts, fmt.Sprintf("category = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Category))
	}
	if req.SortOrder != nil {
		setParts = append(setParts, fmt.Sprintf("sort_order = $%d", nextIdx()))
		args = append(args, *req.SortOrder)
	}
	if req.Active != nil {
		setParts = append(setParts, fmt.Sprintf("active = $%d", nextIdx()))
		args = append(args, *req.Active)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes a checklist option by ID.
func (r *OptionRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM checklist_options WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete checklist option: %w", err)
	}
	return rows > 0, nil
}

const (
	optionColumnList = `id, label, category, sort_order, active, created_at, updated_at`

	optionGetByIDQuery = `
		SELECT ` + optionColumnList + `
		FROM checklist_options
		WHERE id = $1`

	optionListQuery = `
		SELECT ` + optionColumnList + `
		FROM checklist_options
		ORDER BY category, sort_order, label`

	optionListActiveQuery = `
		SELECT ` + optionColumnList + `
		FROM checklist_options
		WHERE active = TRUE
		ORDER BY category, sort_order, label`
)
