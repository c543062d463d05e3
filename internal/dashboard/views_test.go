package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/contact-dashboard/internal/search"
)

func newViews(t *testing.T, size int) *Views {
	t.Helper()
	v, err := NewViews(size)
	require.NoError(t, err)
	return v
}

func TestUpdate_FirstVisitHonorsRequestedPage(t *testing.T) {
	v := newViews(t, 4)
	assert.Equal(t, 3, v.Update("u1", search.State{}, 3).Page)
	assert.Equal(t, 1, v.Update("u2", search.State{}, 0).Page)
}

func TestUpdate_QueryChangeResetsPage(t *testing.T) {
	v := newViews(t, 4)
	v.Update("u1", search.State{}, 4)

	got := v.Update("u1", search.State{Term: "bob"}, 4)
	assert.Equal(t, 1, got.Page)

	got = v.Update("u1", search.State{Term: "bob", TodayOnly: true}, 2)
	assert.Equal(t, 1, got.Page)

	got = v.Update("u1", search.State{Term: "bob", TodayOnly: true, Sort: search.SortNameAsc}, 0)
	assert.Equal(t, 1, got.Page)
}

func TestUpdate_SameQueryKeepsOrMovesPage(t *testing.T) {
	v := newViews(t, 4)
	v.Update("u1", search.State{Term: "a"}, 1)

	assert.Equal(t, 2, v.Update("u1", search.State{Term: " a "}, 2).Page)
	assert.Equal(t, 2, v.Update("u1", search.State{Term: "a", Sort: search.SortDateDesc}, 0).Page)
}

func TestSetPage_StoresClampedPage(t *testing.T) {
	v := newViews(t, 4)
	v.Update("u1", search.State{}, 99)
	v.SetPage("u1", 3)

	got, ok := v.Get("u1")
	require.True(t, ok)
	assert.Equal(t, 3, got.Page)

	v.SetPage("ghost", 2)
	_, ok = v.Get("ghost")
	assert.False(t, ok)
}

func TestViews_BoundedAndForget(t *testing.T) {
	v := newViews(t, 2)
	v.Update("a", search.State{}, 1)
	v.Update("b", search.State{}, 1)
	v.Update("c", search.State{}, 1)
	assert.Equal(t, 2, v.Len())
	_, ok := v.Get("a")
	assert.False(t, ok)

	v.Forget("b")
	assert.Equal(t, 1, v.Len())
}
