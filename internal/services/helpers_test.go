package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/contact-dashboard/internal/dashboard"
	"github.com/tbourn/contact-dashboard/internal/domain"
	"github.com/tbourn/contact-dashboard/internal/mutation"
	"github.com/tbourn/contact-dashboard/internal/search"
	"github.com/tbourn/contact-dashboard/internal/store"
)

// fixed "now" for every service test: 2025-03-10 12:00 UTC (a Monday).
var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

// ----- Fakes -----

type fakeFetcher struct {
	mu    sync.Mutex
	subs  []domain.Submission
	err   error
	calls int
}

func (f *fakeFetcher) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Submission, len(f.subs))
	copy(out, f.subs)
	return out, nil
}

func (f *fakeFetcher) set(subs []domain.Submission, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs, f.err = subs, err
}

type fakeRemote struct {
	err   error
	calls atomic.Int32
}

func (r *fakeRemote) DeleteSubmission(ctx context.Context, id string) error {
	r.calls.Add(1)
	return r.err
}

func sub(id, name, email, date string) domain.Submission {
	return domain.Submission{ID: id, Name: name, Email: email, Date: date, EmailPresent: true}
}

// hoursAgo returns an ISO timestamp h hours before testNow.
func hoursAgo(h int) string {
	return testNow.Add(-time.Duration(h) * time.Hour).Format(time.RFC3339)
}

type fixture struct {
	fetcher *fakeFetcher
	remote  *fakeRemote
	store   *store.Store
	svc     *SubmissionService
}

func newFixture(t *testing.T, subs []domain.Submission, opts ...mutation.Option) *fixture {
	t.Helper()
	f := &fakeFetcher{subs: subs}
	st := store.New(f)
	eng := search.NewEngine(search.WithClock(clockwork.NewFakeClockAt(testNow)), search.WithLocation(time.UTC))
	views, err := dashboard.NewViews(16)
	if err != nil {
		t.Fatalf("NewViews: %v", err)
	}
	remote := &fakeRemote{}
	coord := mutation.New(st, remote, opts...)
	t.Cleanup(coord.Close)
	return &fixture{
		fetcher: f,
		remote:  remote,
		store:   st,
		svc:     NewSubmissionService(st, eng, views, coord),
	}
}
