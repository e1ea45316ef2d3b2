package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/shareit/internal/db"
	"github.com/nekogravitycat/shareit/internal/pkg/request"
)

// Repository is the booking store. Listing filters and pages in SQL so a page
// never comes back short because of filtering done afterwards.
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)

	// UpdateStatus moves a booking from one status to another in a single
	// conditional statement. It returns ErrStatusFrozen when the stored status
	// is no longer from.
	UpdateStatus(ctx context.Context, id int64, from, to Status) error

	ListByBooker(ctx context.Context, bookerID int64, scope Scope, page request.Page) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID int64, scope Scope, page request.Page) ([]*Booking, error)

	// The Find methods consider approved bookings only and return nil, nil when nothing matches.
	FindLastFinished(ctx context.Context, itemID, bookerID int64, now time.Time) (*Booking, error)
	FindLastBefore(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	FindNextAfter(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{"b.id", "b.item_id", "b.booker_id", "b.start_date", "b.end_date", "b.status"}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var status string
	if err := row.Scan(&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &status); err != nil {
		return nil, err
	}
	parsed, ok := ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("booking %d has unknown status %q", b.ID, status)
	}
	b.Status = parsed
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_date", "end_date", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, string(b.Status)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := db.Conn(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&b.ID); err != nil {
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, from, to Status) error {
	query, args, err := psql.Update("public.bookings").
		Set("status", string(to)).
		Where(squirrel.Eq{"id": id, "status": string(from)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := db.Conn(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrStatusFrozen
	}
	return nil
}

func applyScope(q squirrel.SelectBuilder, sc Scope) squirrel.SelectBuilder {
	switch sc.kind {
	case scopeCurrent:
		return q.Where(squirrel.LtOrEq{"b.start_date": sc.now}).
			Where(squirrel.GtOrEq{"b.end_date": sc.now})
	case scopePast:
		return q.Where(squirrel.Lt{"b.end_date": sc.now})
	case scopeFuture:
		return q.Where(squirrel.Gt{"b.start_date": sc.now})
	case scopeStatus:
		return q.Where(squirrel.Eq{"b.status": string(sc.status)})
	default:
		return q
	}
}

// buildListQuery selects one page of a booker's bookings, or of the bookings
// on an owner's items, newest start first.
func buildListQuery(byOwner bool, userID int64, sc Scope, page request.Page) squirrel.SelectBuilder {
	q := psql.Select(bookingColumns...).From("public.bookings b")
	if byOwner {
		q = q.Join("public.items i ON b.item_id = i.id").
			Where(squirrel.Eq{"i.owner_id": userID})
	} else {
		q = q.Where(squirrel.Eq{"b.booker_id": userID})
	}

	return applyScope(q, sc).
		OrderBy("b.start_date DESC", "b.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit())
}

func (r *pgxRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]*Booking, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := db.Conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	bookings := make([]*Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) ListByBooker(ctx context.Context, bookerID int64, scope Scope, page request.Page) ([]*Booking, error) {
	return r.list(ctx, buildListQuery(false, bookerID, scope, page))
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64, scope Scope, page request.Page) ([]*Booking, error) {
	return r.list(ctx, buildListQuery(true, ownerID, scope, page))
}

func (r *pgxRepository) findOne(ctx context.Context, q squirrel.SelectBuilder) (*Booking, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find booking query failed: %w", err)
	}

	b, err := scanBooking(db.Conn(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find booking failed: %w", err)
	}
	return b, nil
}

func onItem(itemID int64) squirrel.SelectBuilder {
	return psql.Select(bookingColumns...).
		From("public.bookings b").
		Where(squirrel.Eq{"b.item_id": itemID})
}

func approvedOn(itemID int64) squirrel.SelectBuilder {
	return onItem(itemID).Where(squirrel.Eq{"b.status": string(StatusApproved)})
}

// lastFinishedQuery selects the booker's most recently ended booking of the item, whatever its status.
func lastFinishedQuery(itemID, bookerID int64, now time.Time) squirrel.SelectBuilder {
	return onItem(itemID).
		Where(squirrel.Eq{"b.booker_id": bookerID}).
		Where(squirrel.Lt{"b.end_date": now}).
		OrderBy("b.end_date DESC", "b.id DESC")
}

func (r *pgxRepository) FindLastFinished(ctx context.Context, itemID, bookerID int64, now time.Time) (*Booking, error) {
	return r.findOne(ctx, lastFinishedQuery(itemID, bookerID, now))
}

func (r *pgxRepository) FindLastBefore(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.findOne(ctx, approvedOn(itemID).
		Where(squirrel.LtOrEq{"b.start_date": now}).
		OrderBy("b.start_date DESC", "b.id DESC"))
}

func (r *pgxRepository) FindNextAfter(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.findOne(ctx, approvedOn(itemID).
		Where(squirrel.Gt{"b.start_date": now}).
		OrderBy("b.start_date ASC", "b.id ASC"))
}
