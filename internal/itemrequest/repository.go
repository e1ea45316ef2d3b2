package itemrequest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/shareit/internal/db"
	"github.com/nekogravitycat/shareit/internal/pkg/request"
)

type Repository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id int64) (*Request, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]*Request, error)
	ListOthers(ctx context.Context, requestorID int64, page request.Page) ([]*Request, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var requestColumns = []string{"id", "description", "requestor_id", "created"}

func (r *pgxRepository) Create(ctx context.Context, req *Request) error {
	query, args, err := psql.Insert("public.requests").
		Columns("description", "requestor_id").
		Values(req.Description, req.RequestorID).
		Suffix("RETURNING id, created").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create request query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&req.ID, &req.Created); err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Request, error) {
	query, args, err := psql.Select(requestColumns...).
		From("public.requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get request query failed: %w", err)
	}

	var req Request
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).
		Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get request failed: %w", err)
	}
	return &req, nil
}

func (r *pgxRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*Request, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list requests query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests failed: %w", err)
	}
	defer rows.Close()

	list := make([]*Request, 0)
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.Description, &req.RequestorID, &req.Created); err != nil {
			return nil, fmt.Errorf("scan request failed: %w", err)
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}

func (r *pgxRepository) ListByRequestor(ctx context.Context, requestorID int64) ([]*Request, error) {
	return r.list(ctx, psql.Select(requestColumns...).
		From("public.requests").
		Where(squirrel.Eq{"requestor_id": requestorID}).
		OrderBy("created DESC", "id DESC"))
}

func (r *pgxRepository) ListOthers(ctx context.Context, requestorID int64, page request.Page) ([]*Request, error) {
	return r.list(ctx, psql.Select(requestColumns...).
		From("public.requests").
		Where(squirrel.NotEq{"requestor_id": requestorID}).
		OrderBy("created DESC", "id DESC").
		Offset(page.Offset()).
		Limit(page.Limit()))
}

func (r *pgxRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM public.requests WHERE id = $1)`
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check request exists failed: %w", err)
	}
	return exists, nil
}
