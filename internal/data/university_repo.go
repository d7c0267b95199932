package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data/database"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data/pgxutil"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
)

// ErrUniversityNameExists is returned on a duplicate university name.
var ErrUniversityNameExists = errors.New("university name already exists")

// UniversityRepo provides database operations for the university catalog.
type UniversityRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUniversityRepo creates a new UniversityRepo with real time provider.
func NewUniversityRepo(db *sql.DB) *UniversityRepo {
	return &UniversityRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUniversityRepoWithTimeProvider creates a new UniversityRepo with a custom time provider (useful for tests).
func NewUniversityRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UniversityRepo {
	return &UniversityRepo{DB: db, timeProvider: tp}
}

// Create inserts a new university.
func (r *UniversityRepo) Create(ctx context.Context, req *model.CreateUniversityRequest) (*model.University, error) {
	if req == nil {
		return nil, errors.New("create university request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Default published to false if not specified (matches DB default)
	published := false
	if req.Published != nil {
		published = *req.Published
	}
	programs := req.Programs
	if programs == nil {
		programs = []string{}
	}

	var out model.University
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO universities (
				name, country, city, ranking, programs, logo_path, published, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8
			) RETURNING `+universityColumnList,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Country),
			req.City,
			req.Ranking,
			programs,
			req.LogoPath,
			published,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.University])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a university by ID.
func (r *UniversityRepo) GetByID(ctx context.Context, id string) (*model.University, error) {
	var uni model.University
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, universityGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		uni, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.University])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUniversityNotFound
		}
		return nil, fmt.Errorf("failed to get university by ID: %w", err)
	}
	return &uni, nil
}

// ListWithOptions retrieves universities with optional filters and sorting.
func (r *UniversityRepo) ListWithOptions(
	ctx context.Context,
	opts model.UniversitiesListOptions,
) ([]*model.University, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := r.buildUniversityQueryOptions(opts, limit, offset)
	query, args := database.BuildListQuery(queryOpts)

	var rowsOut []model.University
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.University])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list universities: %w", err)
	}
	res := make([]*model.University, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a university. Nil request fields are unchanged.
func (r *UniversityRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateUniversityRequest,
) (*model.University, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.University
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, universityGetByIDQuery, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.University])
			return e
		}
		args = append(args, id)
		query := "UPDATE universities SET " + setClause + " WHERE id = $" + strconv.Itoa(
			len(args),
		) + " RETURNING " + universityColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.University])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a university.
func (r *UniversityRepo) buildUpdateClause(req model.UpdateUniversityRequest) (string, []any) {
	setParts := make([]string, 0, 7)
	args := make([]any, 0, 8)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Country != nil {
		setParts = append(setParts, fmt.Sprintf("country = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Country))
	}
	if req.City != nil {
		if strings.TrimSpace(*req.City) == "" {
			setParts = append(setParts, "city = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("city = $%d", nextIdx()))
			args = append(args, *req.City)
		}
	}
	if req.Ranking != nil {
		setParts = append(setParts, fmt.Sprintf("ranking = $%d", nextIdx()))
		args = append(args, *req.Ranking)
	}
	if req.Programs != nil {
		setParts = append(setParts, fmt.Sprintf("programs = $%d", nextIdx()))
		args = append(args, *req.Programs)
	}
	if req.LogoPath != nil {
		if strings.TrimSpace(*req.LogoPath) == "" {
			setParts = append(setParts, "logo_path = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("logo_path = $%d", nextIdx()))
			args = append(args, *req.LogoPath)
		}
	}
	if req.Published != nil {
		setParts = append(setParts, fmt.Sprintf("published = $%d", nextIdx()))
		args = append(args, *req.Published)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes a university by ID.
func (r *UniversityRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM universities WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete university: %w", err)
	}
	return rows > 0, nil
}

const (
	universityColumnList = `id, name, country, city, ranking, programs, logo_path, published, created_at, updated_at`

	universityGetByIDQuery = `
		SELECT ` + universityColumnList + `
		FROM universities
		WHERE id = $1`
)

// universityColumns returns the standard column list for university queries.
func universityColumns() []string {
	return []string{
		"id",
		"name",
		"country",
		"city",
		"ranking",
		"programs",
		"logo_path",
		"published",
		"created_at",
		"updated_at",
	}
}

// buildUniversityQueryOptions builds query options for catalog listing with filters and sorting.
func (r *UniversityRepo) buildUniversityQueryOptions(
	opts model.UniversitiesListOptions,
	limit, offset int,
) *database.ListQueryOptions {
	queryOpts := []database.ListQueryOption{
		database.WithColumns(universityColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("name", database.ILike, "%"+strings.TrimSpace(*opts.Q)+"%"),
		))
	}
	if opts.Country != nil && strings.TrimSpace(*opts.Country) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("country", database.Equal, strings.TrimSpace(*opts.Country)),
		))
	}
	if opts.Published != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("published", database.Equal, *opts.Published),
		))
	}

	sortCol, sortDir := validateSortOptions(opts.Sort, opts.Dir, map[string]string{
		"name":       "name",
		"ranking":    "ranking",
		"created_at": "created_at",
	})
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	return database.NewListQueryOptions("universities", queryOpts...)
}

func (r *UniversityRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrUniversityNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrUniversityNameExists
	}
	return err
}
