package booking

import (
	"context"
	"time"

	"github.com/nekogravitycat/shareit/internal/item"
)

type itemLookup struct {
	repo Repository
}

// NewItemLookup exposes the booking store to the item service without an import cycle.
func NewItemLookup(repo Repository) item.BookingLookup {
	return &itemLookup{repo: repo}
}

func brief(b *Booking, err error) (*item.BookingBrief, error) {
	if err != nil || b == nil {
		return nil, err
	}
	return &item.BookingBrief{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}, nil
}

func (l *itemLookup) LastFinished(ctx context.Context, itemID, bookerID int64, now time.Time) (*item.BookingBrief, error) {
	return brief(l.repo.FindLastFinished(ctx, itemID, bookerID, now))
}

func (l *itemLookup) LastBefore(ctx context.Context, itemID int64, now time.Time) (*item.BookingBrief, error) {
	return brief(l.repo.FindLastBefore(ctx, itemID, now))
}

func (l *itemLookup) NextAfter(ctx context.Context, itemID int64, now time.Time) (*item.BookingBrief, error) {
	return brief(l.repo.FindNextAfter(ctx, itemID, now))
}
