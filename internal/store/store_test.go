package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/contact-dashboard/internal/domain"
)

type stubFetcher struct {
	calls atomic.Int32
	gate  chan struct{}
	subs  []domain.Submission
	err   error
}

func (f *stubFetcher) ListSubmissions(ctx context.Context) ([]domain.Submission, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	return f.subs, f.err
}

func ids(subs []domain.Submission) []string {
	out := make([]string, len(subs))
	for i, s := range subs {
		out[i] = s.ID
	}
	return out
}

func seed(ids ...string) []domain.Submission {
	out := make([]domain.Submission, len(ids))
	for i, id := range ids {
		out[i] = domain.Submission{ID: id}
	}
	return out
}

func TestLoad_FetchesOnceThenServesCopy(t *testing.T) {
	f := &stubFetcher{subs: seed("1", "2")}
	s := New(f)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(got))

	got[0].ID = "mutated"
	again, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(again))
	assert.EqualValues(t, 1, f.calls.Load())
}

func TestRefresh_CoalescesConcurrentCallers(t *testing.T) {
	f := &stubFetcher{subs: seed("1"), gate: make(chan struct{})}
	s := New(f)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Refresh(context.Background())
		}()
	}
	// Give the goroutines a moment to pile up on the in-flight call.
	time.Sleep(50 * time.Millisecond)
	close(f.gate)
	wg.Wait()

	assert.EqualValues(t, 1, f.calls.Load())
	assert.Equal(t, []string{"1"}, ids(s.Snapshot()))
}

func TestRefresh_FailureKeepsPreviousList(t *testing.T) {
	f := &stubFetcher{subs: seed("1", "2")}
	s := New(f)
	assert.False(t, s.Loaded())
	_, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Loaded())

	f.subs, f.err = nil, errors.New("down")
	got, err := s.Refresh(context.Background())
	assert.Error(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(got))
	assert.True(t, s.Loaded())
}

func TestLoad_FirstFailureLeavesStoreUnloaded(t *testing.T) {
	s := New(&stubFetcher{err: errors.New("down")})
	got, err := s.Load(context.Background())
	assert.Error(t, err)
	assert.Empty(t, got)
	assert.False(t, s.Loaded())
}

func TestRemoveRestore_PutsRecordBackInPlace(t *testing.T) {
	s := New(&stubFetcher{})
	s.Replace(seed("1", "2", "3"))
	v0 := s.Version()

	r, ok := s.Remove("2")
	require.True(t, ok)
	assert.Equal(t, 1, r.Index)
	assert.Equal(t, []string{"1", "3"}, ids(s.Snapshot()))
	assert.Greater(t, s.Version(), v0)

	s.Restore(r)
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Snapshot()))

	// Restoring twice does not duplicate.
	s.Restore(r)
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Snapshot()))
}

func TestRemove_IndependentIDsRestoreIndependently(t *testing.T) {
	s := New(&stubFetcher{})
	s.Replace(seed("1", "2", "3", "4"))

	r2, _ := s.Remove("2")
	r3, _ := s.Remove("3")
	s.Restore(r2) // 3 stays deleted
	assert.Equal(t, []string{"1", "2", "4"}, ids(s.Snapshot()))
	_ = r3
}

func TestRemove_UnknownID(t *testing.T) {
	s := New(&stubFetcher{})
	s.Replace(seed("1"))
	_, ok := s.Remove("nope")
	assert.False(t, ok)
	assert.True(t, s.Pending("nope"))
	assert.Equal(t, []string{"1"}, ids(s.Snapshot()))
}

func TestClose_IgnoresLaterMutations(t *testing.T) {
	s := New(&stubFetcher{})
	s.Replace(seed("1", "2"))
	r, _ := s.Remove("1")

	s.Close()
	assert.True(t, s.Closed())
	s.Restore(r)
	s.Replace(seed("9"))
	assert.Equal(t, []string{"2"}, ids(s.Snapshot()))
}

func TestReplace_HoldsBackPendingRemovalsUntilSettled(t *testing.T) {
	s := New(&stubFetcher{})
	s.Replace(seed("1", "2", "3"))

	_, ok := s.Remove("2")
	require.True(t, ok)
	assert.True(t, s.Pending("2"))

	s.Replace(seed("1", "2", "3", "4"))
	assert.Equal(t, []string{"1", "3", "4"}, ids(s.Snapshot()))

	s.Settle("2")
	assert.False(t, s.Pending("2"))
	s.Replace(seed("1", "2", "3"))
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Snapshot()))
}

func TestRestore_SettlesAndReinsertsAfterRefresh(t *testing.T) {
	s := New(&stubFetcher{})
	s.Replace(seed("1", "2", "3"))

	r, _ := s.Remove("1")
	s.Replace(seed("1", "2", "3"))
	assert.Equal(t, []string{"2", "3"}, ids(s.Snapshot()))

	s.Restore(r)
	assert.False(t, s.Pending("1"))
	assert.Equal(t, []string{"1", "2", "3"}, ids(s.Snapshot()))
}
