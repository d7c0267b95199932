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

	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data/cryptoutil"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/data/pgxutil"
	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
	"github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/model"
)

// ErrAdminEmailExists is returned on a duplicate staff account email.
var ErrAdminEmailExists = errors.New("admin email already exists")

// AdminUserRepo provides database operations for staff accounts. Passwords
// are bcrypt-hashed before storage; plaintext never reaches the table.
type AdminUserRepo struct {
	DB           *sql.DB
	hasher       cryptoutil.Hasher
	timeProvider TimeProvider
}

// AdminUserRepoOptions groups constructor parameters for AdminUserRepo.
type AdminUserRepoOptions struct {
	DB           *sql.DB
	Hasher       cryptoutil.Hasher
	TimeProvider TimeProvider
}

// NewAdminUserRepo creates a new AdminUserRepo. A nil Hasher defaults to
// bcrypt at default cost; a nil TimeProvider defaults to real time.
func NewAdminUserRepo(opts AdminUserRepoOptions) *AdminUserRepo {
	hasher := opts.Hasher
	if hasher == nil {
		hasher = cryptoutil.NewBcryptHasher(0)
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &AdminUserRepo{DB: opts.DB, hasher: hasher, timeProvider: tp}
}

// Create inserts a new staff account with a hashed password.
func (r *AdminUserRepo) Create(ctx context.Context, req *model.CreateAdminUserRequest) (*model.AdminUser, error) {
	if req == nil {
		return nil, errors.New("create admin user request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := r.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var out model.AdminUser
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qerr := conn.Query(ctx, `
			INSERT INTO admin_users (
				email, password_hash, first_name, last_name, role, department, active, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, TRUE, $7
			) RETURNING `+adminUserColumnList,
			req.Email,
			hash,
			strings.TrimSpace(req.FirstName),
			strings.TrimSpace(req.LastName),
			domainauth.NormalizeAdminRole(req.Role),
			req.Department,
			r.timeProvider.Now().UTC(),
		)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()
		out, qerr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminUser])
		return qerr
	}); err != nil {
		return nil, r.mapWriteErr(err, false)
	}
	return &out, nil
}

// GetByID retrieves a staff account by ID.
func (r *AdminUserRepo) GetByID(ctx context.Context, id string) (*model.AdminUser, error) {
	return r.getByQuery(ctx, adminUserGetByIDQuery, "failed to get admin user by ID", id)
}

// GetByEmail retrieves a staff account by normalized email.
func (r *AdminUserRepo) GetByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	return r.getByQuery(ctx, adminUserGetByEmailQuery, "failed to get admin user by email", model.NormalizeEmail(email))
}

// List retrieves staff accounts with pagination, newest first.
func (r *AdminUserRepo) List(ctx context.Context, limit, offset int) ([]*model.AdminUser, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.AdminUser
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, adminUserListQuery, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.AdminUser])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list admin users: %w", err)
	}

	res := make([]*model.AdminUser, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a staff account. A non-nil Password is re-hashed.
func (r *AdminUserRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateAdminUserRequest,
) (*model.AdminUser, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.AdminUser
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args, berr := r.buildUpdateClause(req)
		if berr != nil {
			return berr
		}
		if setClause == "" {
			rows, err := conn.Query(ctx, adminUserGetByIDQuery, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminUser])
			return e
		}
		args = append(args, id)
		query := "UPDATE admin_users SET " + setClause + " WHERE id = $" + strconv.Itoa(
			len(args),
		) + " RETURNING " + adminUserColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminUser])
		return e
	})
	if err != nil {
		return nil, r.mapWriteErr(err, true)
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a staff account.
func (r *AdminUserRepo) buildUpdateClause(req model.UpdateAdminUserRequest) (string, []any, error) {
	setParts := make([]string, 0, 7)
	args := make([]any, 0, 8)
	nextIdx := func() int { return len(args) + 1 }

	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, model.NormalizeEmail(*req.Email))
	}
	if req.Password != nil {
		hash, err := r.hasher.HashPassword(*req.Password)
		if err != nil {
			return "", nil, err
		}
		setParts = append(setParts, fmt.Sprintf("password_hash = $%d", nextIdx()))
		args = append(args, hash)
	}
	if req.FirstName != nil {
		setParts = append(setParts, fmt.Sprintf("first_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.FirstName))
	}
	if req.LastName != nil {
		setParts = append(setParts, fmt.Sprintf("last_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.LastName))
	}
	if req.Role != nil {
		setParts = append(setParts, fmt.Sprintf("role = $%d", nextIdx()))
		args = append(args, domainauth.NormalizeAdminRole(*req.Role))
	}
	if req.Department != nil {
		if strings.TrimSpace(*req.Department) == "" {
			setParts = append(setParts, "department = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("department = $%d", nextIdx()))
			args = append(args, *req.Department)
		}
	}
	if req.Active != nil {
		setParts = append(setParts, fmt.Sprintf("active = $%d", nextIdx()))
		args = append(args, *req.Active)
	}

	if len(setParts) == 0 {
		return "", nil, nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args, nil
}

// Delete deletes a staff account by ID.
func (r *AdminUserRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM admin_users WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete admin user: %w", err)
	}
	return rows > 0, nil
}

// VerifyCredentials matches email and password against an active staff
// account. Inactive accounts and password mismatches both surface as
// ErrAdminUserNotFound so callers cannot distinguish them.
func (r *AdminUserRepo) VerifyCredentials(ctx context.Context, email, password string) (*model.AdminUser, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, ErrAdminUserNotFound
	}
	if err := r.hasher.VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, cryptoutil.ErrPasswordMismatch) {
			return nil, ErrAdminUserNotFound
		}
		return nil, err
	}
	return user, nil
}

const (
	adminUserColumnList = `id, email, password_hash, first_name, last_name, role, department, active, created_at, updated_at`

	adminUserGetByIDQuery = `
		SELECT ` + adminUserColumnList + `
		FROM admin_users
		WHERE id = $1`

	adminUserGetByEmailQuery = `
		SELECT ` + adminUserColumnList + `
		FROM admin_users
		WHERE email = $1`

	adminUserListQuery = `
		SELECT ` + adminUserColumnList + `
		FROM admin_users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
)

// getByQuery is a helper function to execute a query and return a single staff account.
func (r *AdminUserRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.AdminUser, error) {
	var user model.AdminUser
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		user, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AdminUser])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &user, nil
}

func (r *AdminUserRepo) mapWriteErr(err error, includeNotFound bool) error {
	if err == nil {
		return nil
	}
	if includeNotFound && errors.Is(err, pgx.ErrNoRows) {
		return ErrAdminUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrAdminEmailExists
	}
	return err
}
