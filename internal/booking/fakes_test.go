package booking

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nekogravitycat/shareit/internal/item"
	"github.com/nekogravitycat/shareit/internal/pkg/request"
	"github.com/nekogravitycat/shareit/internal/user"
)

type fakeItems struct {
	items map[int64]*item.Item
}

func (f *fakeItems) GetByID(_ context.Context, id int64) (*item.Item, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (f *fakeItems) ExistsAnyOwnedBy(_ context.Context, ownerID int64) (bool, error) {
	for _, it := range f.items {
		if it.OwnerID == ownerID {
			return true, nil
		}
	}
	return false, nil
}

type fakeUsers map[int64]*user.User

func (f fakeUsers) GetByID(_ context.Context, id int64) (*user.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f[id]
	return ok, nil
}

type fakeTx struct {
	calls atomic.Int32
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls.Add(1)
	return fn(ctx)
}

// memRepo is an in-memory Repository. UpdateStatus is conditional on the
// current status under the lock, like the SQL statement.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Booking
	items  *fakeItems
}

func newMemRepo(items *fakeItems) *memRepo {
	return &memRepo{rows: map[int64]Booking{}, items: items}
}

func (r *memRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	row := *b
	row.ItemName, row.BookerName = "", ""
	r.rows[b.ID] = row
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id int64) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id int64, from, to Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok || b.Status != from {
		return ErrStatusFrozen
	}
	b.Status = to
	r.rows[id] = b
	return nil
}

func (r *memRepo) filter(keep func(b *Booking) bool) []*Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Booking, 0)
	for _, b := range r.rows {
		if keep(&b) {
			out = append(out, &b)
		}
	}
	return out
}

func newestFirst(list []*Booking, page request.Page) []*Booking {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Start.Equal(list[j].Start) {
			return list[i].Start.After(list[j].Start)
		}
		return list[i].ID > list[j].ID
	})
	if page.From >= len(list) {
		return []*Booking{}
	}
	end := min(page.From+page.Size, len(list))
	return list[page.From:end]
}

func (r *memRepo) ListByBooker(_ context.Context, bookerID int64, sc Scope, page request.Page) ([]*Booking, error) {
	return newestFirst(r.filter(func(b *Booking) bool {
		return b.BookerID == bookerID && sc.Matches(b)
	}), page), nil
}

func (r *memRepo) ListByOwner(_ context.Context, ownerID int64, sc Scope, page request.Page) ([]*Booking, error) {
	return newestFirst(r.filter(func(b *Booking) bool {
		it, ok := r.items.items[b.ItemID]
		return ok && it.OwnerID == ownerID && sc.Matches(b)
	}), page), nil
}

func pick(list []*Booking, better func(a, b *Booking) bool) *Booking {
	var best *Booking
	for _, b := range list {
		if best == nil || better(b, best) {
			best = b
		}
	}
	return best
}

func (r *memRepo) FindLastFinished(_ context.Context, itemID, bookerID int64, now time.Time) (*Booking, error) {
	return pick(r.filter(func(b *Booking) bool {
		return b.ItemID == itemID && b.BookerID == bookerID && b.End.Before(now)
	}), func(a, b *Booking) bool { return a.End.After(b.End) }), nil
}

func (r *memRepo) FindLastBefore(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	return pick(r.filter(func(b *Booking) bool {
		return b.ItemID == itemID && b.Status == StatusApproved && !b.Start.After(now)
	}), func(a, b *Booking) bool { return a.Start.After(b.Start) }), nil
}

func (r *memRepo) FindNextAfter(_ context.Context, itemID int64, now time.Time) (*Booking, error) {
	return pick(r.filter(func(b *Booking) bool {
		return b.ItemID == itemID && b.Status == StatusApproved && b.Start.After(now)
	}), func(a, b *Booking) bool { return a.Start.Before(b.Start) }), nil
}

const (
	ownerID    int64 = 1
	bookerID   int64 = 2
	strangerID int64 = 3

	drillID  int64 = 10
	ladderID int64 = 11
	tentID   int64 = 12
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *service
	repo  *memRepo
	items *fakeItems
	tx    *fakeTx
}

func newFixture(policy Policy) *fixture {
	items := &fakeItems{items: map[int64]*item.Item{
		drillID:  {ID: drillID, Name: "Drill", Available: true, OwnerID: ownerID},
		ladderID: {ID: ladderID, Name: "Ladder", Available: false, OwnerID: ownerID},
		tentID:   {ID: tentID, Name: "Tent", Available: true, OwnerID: strangerID},
	}}
	users := fakeUsers{
		ownerID:    {ID: ownerID, Name: "Alice"},
		bookerID:   {ID: bookerID, Name: "Bob"},
		strangerID: {ID: strangerID, Name: "Carol"},
	}
	repo := newMemRepo(items)
	tx := &fakeTx{}
	return &fixture{
		svc:   newService(repo, items, users, tx, policy, func() time.Time { return testNow }),
		repo:  repo,
		items: items,
		tx:    tx,
	}
}

// seed stores a booking directly, bypassing creation rules.
func (f *fixture) seed(itemID, booker int64, start, end time.Duration, status Status) *Booking {
	b := &Booking{
		ItemID:   itemID,
		BookerID: booker,
		Start:    testNow.Add(start),
		End:      testNow.Add(end),
		Status:   status,
	}
	_ = f.repo.Create(context.Background(), b)
	return b
}
