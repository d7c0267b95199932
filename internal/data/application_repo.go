package data

import (
	"context"
	"crypto/subtle"
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
	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/ports"
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"
)

// ErrApplicationEmailExists is returned when creating/updating an application
// with an email already taken by another application.
var ErrApplicationEmailExists = errors.New("application email already exists")

// ApplicationRepo provides database operations for applications. It also
// serves as the client credential directory: the email and password columns
// of the applications table are the client portal login pair.
type ApplicationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewApplicationRepo creates a new ApplicationRepo with real time provider.
func NewApplicationRepo(db *sql.DB) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewApplicationRepoWithTimeProvider creates a new ApplicationRepo with a custom time provider (useful for tests).
func NewApplicationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ApplicationRepo {
	return &ApplicationRepo{DB: db, timeProvider: tp}
}

// Create inserts a new application.
func (r *ApplicationRepo) Create(ctx context.Context, req *model.CreateApplicationRequest) (*model.Application, error) {
	if req == nil {
		return nil, errors.New("create application request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	createdAt := r.timeProvider.Now().UTC()
	var out model.Application
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO applications (
				email, password, first_name, last_name, phone, country, visa_type, status, current_step, university_id, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10
			) RETURNING `+applicationColumnList,
			req.Email,
			req.Password,
			strings.TrimSpace(req.FirstName),
			strings.TrimSpace(req.LastName),
			req.Phone,
			req.Country,
			strings.TrimSpace(req.VisaType),
			model.ApplicationStatusPending,
			req.UniversityID,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*model.Application, error) {
	return r.getByQuery(ctx, applicationGetByIDQuery, "failed to get application by ID", id)
}

// GetByEmail retrieves an application by normalized email.
func (r *ApplicationRepo) GetByEmail(ctx context.Context, email string) (*model.Application, error) {
	return r.getByQuery(ctx, applicationGetByEmailQuery, "failed to get application by email", model.NormalizeEmail(email))
}

// ListWithOptions retrieves applications with optional filters and sorting.
func (r *ApplicationRepo) ListWithOptions(
	ctx context.Context,
	opts model.ApplicationsListOptions,
) ([]*model.Application, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	queryOpts := r.buildApplicationQueryOptions(opts, limit, offset)
	query, args := database.BuildListQuery(queryOpts)

	var rowsOut []model.Application
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Application])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	res := make([]*model.Application, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Count returns the number of applications matching the filters in opts.
func (r *ApplicationRepo) Count(ctx context.Context, opts model.ApplicationsListOptions) (int64, error) {
	queryOpts := database.NewListQueryOptions("applications",
		append(r.buildApplicationConditions(opts), database.WithCountOnly())...,
	)
	query, args := database.BuildListQuery(queryOpts)

	var count int64
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&count)
	}); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

// Update updates fields of an application. Nil request fields are unchanged.
func (r *ApplicationRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateApplicationRequest,
) (*model.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, applicationGetByIDQuery, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
			return e
		}
		args = append(args, id)
		query := "UPDATE applications SET " + setClause + " WHERE id = $" + strconv.Itoa(
			len(args),
		) + " RETURNING " + applicationColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating an application.
func (r *ApplicationRepo) buildUpdateClause(req model.UpdateApplicationRequest) (string, []any) {
	setParts := make([]string, 0, 8)
	args := make([]any, 0, 10)
	nextIdx := func() int { return len(args) + 1 }

	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, model.NormalizeEmail(*req.Email))
	}
	if req.Password != nil {
		setParts = append(setParts, fmt.Sprintf("password = $%d", nextIdx()))
		args = append(args, *req.Password)
	}
	if req.FirstName != nil {
		setParts = append(setParts, fmt.Sprintf("first_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.FirstName))
	}
	if req.LastName != nil {
		setParts = append(setParts, fmt.Sprintf("last_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.LastName))
	}
	if req.Phone != nil {
		if strings.TrimSpace(*req.Phone) == "" {
			setParts = append(setParts, "phone = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("phone = $%d", nextIdx()))
			args = append(args, *req.Phone)
		}
	}
	if req.Country != nil {
		setParts = append(setParts, fmt.Sprintf("country = $%d", nextIdx()))
		args = append(args, *req.Country)
	}
	if req.VisaType != nil {
		setParts = append(setParts, fmt.Sprintf("visa_type = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.VisaType))
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if req.CurrentStep != nil {
		setParts = append(setParts, fmt.Sprintf("current_step = $%d", nextIdx()))
		args = append(args, *req.CurrentStep)
	}
	if req.UniversityID != nil {
		if strings.TrimSpace(*req.UniversityID) == "" {
			setParts = append(setParts, "university_id = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("university_id = $%d", nextIdx()))
			args = append(args, *req.UniversityID)
		}
	}
	if req.AssignedAdmin != nil {
		if strings.TrimSpace(*req.AssignedAdmin) == "" {
			setParts = append(setParts, "assigned_admin = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("assigned_admin = $%d", nextIdx()))
			args = append(args, *req.AssignedAdmin)
		}
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes an application by ID.
func (r *ApplicationRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	return rows > 0, nil
}

// ChecklistProgress returns the active checklist options with the
// application's completion state. Options without a progress row read as not
// done.
func (r *ApplicationRepo) ChecklistProgress(ctx context.Context, applicationID string) ([]model.ChecklistItem, error) {
	const q = `
		SELECT o.id AS option_id, o.label, o.category, o.sort_order,
		       COALESCE(p.done, FALSE) AS done
		FROM checklist_options o
		LEFT JOIN application_checklist p
		  ON p.option_id = o.id AND p.application_id = $1
		WHERE o.active
		ORDER BY o.sort_order, o.label`

	var items []model.ChecklistItem
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, applicationID)
		if err != nil {
			return err
		}
		defer rows.Close()
		items, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.ChecklistItem])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to load checklist progress: %w", err)
	}
	return items, nil
}

// SetChecklistItem upserts the completion state of one checklist option for
// an application.
func (r *ApplicationRepo) SetChecklistItem(ctx context.Context, applicationID, optionID string, done bool) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO application_checklist (application_id, option_id, done, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (application_id, option_id)
			DO UPDATE SET done = EXCLUDED.done, updated_at = EXCLUDED.updated_at`,
			applicationID, optionID, done, r.timeProvider.Now().UTC())
		return execErr
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			if pgErr.ConstraintName == "application_checklist_application_id_fkey" {
				return ErrApplicationNotFound
			}
			return ErrOptionNotFound
		}
		return fmt.Errorf("failed to set checklist item: %w", err)
	}
	return nil
}

// --- client directory ---

// FindProfileByID fetches the minimal client profile for a stored client id.
func (r *ApplicationRepo) FindProfileByID(ctx context.Context, id string) (domainauth.ClientProfile, error) {
	app, err := r.GetByID(ctx, id)
	if err != nil {
		return domainauth.ClientProfile{}, err
	}
	return clientProfileOf(app), nil
}

// FindProfileByCredentials matches the normalized email and exact password
// against the applications table. The password comparison is constant-time;
// a non-match is indistinguishable from a missing row.
func (r *ApplicationRepo) FindProfileByCredentials(ctx context.Context, email, password string) (domainauth.ClientProfile, error) {
	app, err := r.GetByEmail(ctx, email)
	if err != nil {
		return domainauth.ClientProfile{}, err
	}
	if subtle.ConstantTimeCompare([]byte(app.Password), []byte(password)) != 1 {
		return domainauth.ClientProfile{}, ErrApplicationNotFound
	}
	return clientProfileOf(app), nil
}

func clientProfileOf(app *model.Application) domainauth.ClientProfile {
	return domainauth.ClientProfile{
		ID:        app.ID,
		Email:     app.Email,
		FirstName: app.FirstName,
		LastName:  app.LastName,
	}
}

// compile-time interface check
var _ ports.ClientDirectory = (*ApplicationRepo)(nil)

// --- helpers ---

// SQL query constants for static queries (no dynamic WHERE/ORDER BY).
const (
	applicationColumnList = `id, email, password, first_name, last_name, phone, country, visa_type, status, current_step, university_id, assigned_admin, created_at, updated_at`

	applicationGetByIDQuery = `
		SELECT ` + applicationColumnList + `
		FROM applications
		WHERE id = $1`

	applicationGetByEmailQuery = `
		SELECT ` + applicationColumnList + `
		FROM applications
		WHERE email = $1`
)

// applicationColumns returns the standard column list for application queries.
func applicationColumns() []string {
	return []string{
		"id",
		"email",
		"password",
		"first_name",
		"last_name",
		"phone",
		"country",
		"visa_type",
		"status",
		"current_step",
		"university_id",
		"assigned_admin",
		"created_at",
		"updated_at",
	}
}

// buildApplicationConditions builds the filter conditions shared by listing and counting.
func (r *ApplicationRepo) buildApplicationConditions(opts model.ApplicationsListOptions) []database.ListQueryOption {
	queryOpts := []database.ListQueryOption{}

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		needle := "%" + strings.TrimSpace(*opts.Q) + "%"
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereRawCond("(email ILIKE $1 OR first_name ILIKE $1 OR last_name ILIKE $1)", needle),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, *opts.Status),
		))
	}
	if opts.VisaType != nil && strings.TrimSpace(*opts.VisaType) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("visa_type", database.Equal, strings.TrimSpace(*opts.VisaType)),
		))
	}
	if opts.AssignedAdmin != nil && strings.TrimSpace(*opts.AssignedAdmin) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("assigned_admin", database.Equal, strings.TrimSpace(*opts.AssignedAdmin)),
		))
	}
	return queryOpts
}

// buildApplicationQueryOptions builds query options for application listing with filters and sorting.
func (r *ApplicationRepo) buildApplicationQueryOptions(
	opts model.ApplicationsListOptions,
	limit, offset int,
) *database.ListQueryOptions {
	queryOpts := append(r.buildApplicationConditions(opts),
		database.WithColumns(applicationColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	)

	sortCol, sortDir := validateSortOptions(opts.Sort, opts.Dir, map[string]string{
		"email":      "email",
		"status":     "status",
		"created_at": "created_at",
	})
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	return database.NewListQueryOptions("applications", queryOpts...)
}

// validateSortOptions validates and returns a safe sort column and direction.
// Unknown columns fall back to created_at, unknown directions to DESC.
func validateSortOptions(sort, dir string, allowedSorts map[string]string) (string, string) {
	sortCol := "created_at"
	sortDir := sortDirDesc

	if sort != "" {
		if validSort, ok := allowedSorts[strings.ToLower(strings.TrimSpace(sort))]; ok {
			sortCol = validSort
		}
	}
	if dir != "" {
		allowedDirs := map[string]string{
			"asc":  sortDirAsc,
			"desc": sortDirDesc,
		}
		if validDir, ok := allowedDirs[strings.ToLower(strings.TrimSpace(dir))]; ok {
			sortDir = validDir
		}
	}
	return sortCol, sortDir
}

// getByQuery is a helper function to execute a query and return a single application.
func (r *ApplicationRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Application, error) {
	var app model.Application
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		app, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Application])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &app, nil
}

func (r *ApplicationRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrApplicationNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrApplicationEmailExists
	}
	return err
}
