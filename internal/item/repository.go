package item

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/shareit/internal/db"
	"github.com/nekogravitycat/shareit/internal/pkg/request"
)

type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	Update(ctx context.Context, item *Item) error
	ListByOwner(ctx context.Context, ownerID int64, page request.Page) ([]*Item, error)
	Search(ctx context.Context, text string, page request.Page) ([]*Item, error)
	ExistsAnyOwnedBy(ctx context.Context, ownerID int64) (bool, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error)

	CreateComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, itemIDs []int64) ([]*Comment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var itemColumns = []string{"i.id", "i.name", "i.description", "i.is_available", "i.owner_id", "i.request_id"}

func scanItem(row pgx.Row) (*Item, error) {
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *pgxRepository) queryItems(ctx context.Context, q squirrel.SelectBuilder) ([]*Item, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	items := make([]*Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	query, args, err := psql.Insert("public.items").
		Columns("name", "description", "is_available", "owner_id", "request_id").
		Values(it.Name, it.Description, it.Available, it.OwnerID, it.RequestID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&it.ID); err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	query, args, err := psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	it, err := scanItem(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return it, nil
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	query, args, err := psql.Update("public.items").
		Set("name", it.Name).
		Set("description", it.Description).
		Set("is_available", it.Available).
		Where(squirrel.Eq{"id": it.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64, page request.Page) ([]*Item, error) {
	return r.queryItems(ctx, psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.owner_id": ownerID}).
		OrderBy("i.id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()))
}

// searchQuery matches available items whose name or description contains text.
func searchQuery(text string, page request.Page) squirrel.SelectBuilder {
	pattern := "%" + escapeLike(text) + "%"
	return psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.is_available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"i.name": pattern},
			squirrel.ILike{"i.description": pattern},
		}).
		OrderBy("i.id ASC").
		Offset(page.Offset()).
		Limit(page.Limit())
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *pgxRepository) Search(ctx context.Context, text string, page request.Page) ([]*Item, error) {
	return r.queryItems(ctx, searchQuery(text, page))
}

func (r *pgxRepository) ExistsAnyOwnedBy(ctx context.Context, ownerID int64) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS (SELECT 1 FROM public.items WHERE owner_id = $1)`
	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check owned items failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	if len(requestIDs) == 0 {
		return []*Item{}, nil
	}
	return r.queryItems(ctx, psql.Select(itemColumns...).
		From("public.items i").
		Where(squirrel.Eq{"i.request_id": requestIDs}).
		OrderBy("i.id ASC"))
}

func (r *pgxRepository) CreateComment(ctx context.Context, c *Comment) error {
	query, args, err := psql.Insert("public.comments").
		Columns("text", "item_id", "author_id").
		Values(c.Text, c.ItemID, c.AuthorID).
		Suffix("RETURNING id, created").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create comment query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&c.ID, &c.Created); err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListComments(ctx context.Context, itemIDs []int64) ([]*Comment, error) {
	if len(itemIDs) == 0 {
		return []*Comment{}, nil
	}

	query, args, err := psql.Select("c.id", "c.item_id", "c.author_id", "u.name", "c.text", "c.created").
		From("public.comments c").
		Join("public.users u ON c.author_id = u.id").
		Where(squirrel.Eq{"c.item_id": itemIDs}).
		OrderBy("c.created ASC", "c.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	comments := make([]*Comment, 0)
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Text, &c.Created); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
