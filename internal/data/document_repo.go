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

// DocumentRepo provides database operations for application documents.
type DocumentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDocumentRepo creates a new DocumentRepo with real time provider.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDocumentRepoWithTimeProvider creates a new DocumentRepo with a custom time provider (useful for tests).
func NewDocumentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DocumentRepo {
	return &DocumentRepo{DB: db, timeProvider: tp}
}

// Create inserts a new document in status "requested".
func (r *DocumentRepo) Create(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error) {
	if req == nil {
		return nil, errors.New("create document request is required")
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Document
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO documents (
				application_id, name, category, status, note, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6
			) RETURNING `+documentColumnList,
			req.ApplicationID,
			strings.TrimSpace(req.Name),
			strings.TrimSpace(req.Category),
			model.DocumentStatusRequested,
			req.Note,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
		return err
	}); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID retrieves a document by ID.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, documentGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		doc, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to get document by ID: %w", err)
	}
	return &doc, nil
}

// ListByApplication retrieves all documents belonging to an application, checklist order.
func (r *DocumentRepo) ListByApplication(ctx context.Context, applicationID string) ([]*model.Document, error) {
	var rowsOut []model.Document
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, documentListByApplicationQuery, applicationID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Document])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	res := make([]*model.Document, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update updates fields of a document. Nil request fields are unchanged.
func (r *DocumentRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateDocumentRequest,
) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var out model.Document
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		setClause, args := r.buildUpdateClause(req)
		if setClause == "" {
			rows, err := conn.Query(ctx, documentGetByIDQuery, id)
			if err != nil {
				return err
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
			return e
		}
		args = append(args, id)
		query := "UPDATE documents SET " + setClause + " WHERE id = $" + strconv.Itoa(
			len(args),
		) + " RETURNING " + documentColumnList
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Document])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &out, nil
}

// buildUpdateClause builds the SQL SET clause and args for updating a document.
func (r *DocumentRepo) buildUpdateClause(req model.UpdateDocumentRequest) (string, []any) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Category != nil {
		setParts = append(setParts, fmt.Sprintf("category = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Category))
	}
	if req.Status != nil {
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *req.Status)
	}
	if req.StoragePath != nil {
		if strings.TrimSpace(*req.StoragePath) == "" {
			setParts = append(setParts, "storage_path = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("storage_path = $%d", nextIdx()))
			args = append(args, *req.StoragePath)
		}
	}
	if req.Note != nil {
		if strings.TrimSpace(*req.Note) == "" {
			setParts = append(setParts, "note = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("note = $%d", nextIdx()))
			args = append(args, *req.Note)
		}
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// Delete deletes a document by ID.
func (r *DocumentRepo) Delete(ctx context.Context, id string) (bool, error) {
	var rows int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
		if err != nil {
			return err
		}
		rows = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return rows > 0, nil
}

const (
	documentColumnList = `id, application_id, name, category, status, storage_path, note, created_at, updated_at`

	documentGetByIDQuery = `
		SELECT ` + documentColumnList + `
		FROM documents
		WHERE id = $1`

	documentListByApplicationQuery = `
		SELECT ` + documentColumnList + `
		FROM documents
		WHERE application_id = $1
		ORDER BY category, name`
)
